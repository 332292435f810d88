package entities

import (
	"time"

	"github.com/google/uuid"
)

// Report is the primary medical record. Every mutation of a Report produces an
// immutable ReportVersion snapshot; CurrentVersionID is a weak reference to
// the snapshot currently marked current.
type Report struct {
	ID               uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	ReportNumber     string     `json:"report_number" db:"report_number" gorm:"not null;index"`
	Title            string     `json:"title" db:"title" gorm:"not null"`
	Content          string     `json:"content" db:"content" gorm:"type:text;not null"`
	Findings         string     `json:"findings" db:"findings" gorm:"type:text"`
	Diagnosis        string     `json:"diagnosis" db:"diagnosis" gorm:"type:text"`
	Status           string     `json:"status" db:"status" gorm:"not null;default:draft"`
	PractitionerID   *uuid.UUID `json:"practitioner_id" db:"practitioner_id" gorm:"type:uuid"`
	PatientID        *uuid.UUID `json:"patient_id" db:"patient_id" gorm:"type:uuid"`
	ReportTypeID     *uuid.UUID `json:"report_type_id" db:"report_type_id" gorm:"type:uuid"`
	ReportDate       *time.Time `json:"report_date" db:"report_date"`
	CurrentVersionID *uuid.UUID `json:"current_version_id" db:"current_version_id" gorm:"type:uuid"`
	LastModifiedBy   *uuid.UUID `json:"last_modified_by" db:"last_modified_by" gorm:"type:uuid"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at" gorm:"not null"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at" gorm:"not null"`
	DeletedAt        *time.Time `json:"deleted_at" db:"deleted_at" gorm:"index"`
	DeletedBy        *uuid.UUID `json:"deleted_by" db:"deleted_by" gorm:"type:uuid"`
}
