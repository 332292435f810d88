package entities

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a free-form label applicable to reports.
type Tag struct {
	ID        uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	Name      string     `json:"name" db:"name" gorm:"not null"`
	CreatedAt time.Time  `json:"created_at" db:"created_at" gorm:"not null"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at" gorm:"not null"`
	DeletedAt *time.Time `json:"deleted_at" db:"deleted_at" gorm:"index"`
	DeletedBy *uuid.UUID `json:"deleted_by" db:"deleted_by" gorm:"type:uuid"`
}

// ReportTag links a tag to a report and records who applied it.
type ReportTag struct {
	ID        uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	ReportID  uuid.UUID  `json:"report_id" db:"report_id" gorm:"type:uuid;not null;index"`
	TagID     uuid.UUID  `json:"tag_id" db:"tag_id" gorm:"type:uuid;not null;index"`
	TaggedBy  *uuid.UUID `json:"tagged_by" db:"tagged_by" gorm:"type:uuid"`
	CreatedAt time.Time  `json:"created_at" db:"created_at" gorm:"not null"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at" gorm:"not null"`
	DeletedAt *time.Time `json:"deleted_at" db:"deleted_at" gorm:"index"`
	DeletedBy *uuid.UUID `json:"deleted_by" db:"deleted_by" gorm:"type:uuid"`
}
