package entities

import (
	"time"

	"github.com/google/uuid"
)

// Attachment is a file linked to a report.
type Attachment struct {
	ID         uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	ReportID   uuid.UUID  `json:"report_id" db:"report_id" gorm:"type:uuid;not null;index"`
	FileName   string     `json:"file_name" db:"file_name" gorm:"not null"`
	FilePath   string     `json:"file_path" db:"file_path" gorm:"not null"`
	MimeType   string     `json:"mime_type" db:"mime_type"`
	FileSize   int64      `json:"file_size" db:"file_size"`
	UploadedBy *uuid.UUID `json:"uploaded_by" db:"uploaded_by" gorm:"type:uuid"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at" gorm:"not null"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at" gorm:"not null"`
	DeletedAt  *time.Time `json:"deleted_at" db:"deleted_at" gorm:"index"`
	DeletedBy  *uuid.UUID `json:"deleted_by" db:"deleted_by" gorm:"type:uuid"`
}
