package entities

import (
	"time"

	"github.com/google/uuid"
)

// ReportVersion is an immutable snapshot of a Report at a point in time.
// Version numbers are contiguous per report starting at 1; the unique index
// on (report_id, version_number) is what lets concurrent snapshot creation
// detect collisions and retry.
type ReportVersion struct {
	ID            uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	ReportID      uuid.UUID  `json:"report_id" db:"report_id" gorm:"type:uuid;not null;uniqueIndex:idx_report_version,priority:1"`
	VersionNumber int        `json:"version_number" db:"version_number" gorm:"not null;uniqueIndex:idx_report_version,priority:2"`
	Title         string     `json:"title" db:"title" gorm:"not null"`
	Content       string     `json:"content" db:"content" gorm:"type:text;not null"`
	Findings      string     `json:"findings" db:"findings" gorm:"type:text"`
	Diagnosis     string     `json:"diagnosis" db:"diagnosis" gorm:"type:text"`
	ChangedBy     uuid.UUID  `json:"changed_by" db:"changed_by" gorm:"type:uuid;not null"`
	ChangeReason  string     `json:"change_reason" db:"change_reason"`
	IsCurrent     bool       `json:"is_current" db:"is_current" gorm:"not null;default:false"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at" gorm:"not null"`
	DeletedAt     *time.Time `json:"deleted_at" db:"deleted_at" gorm:"index"`
	DeletedBy     *uuid.UUID `json:"deleted_by" db:"deleted_by" gorm:"type:uuid"`
}
