package dtos

import (
	"time"

	"github.com/google/uuid"
)

// CreateReportRequest defines the payload for creating a new report.
type CreateReportRequest struct {
	ReportNumber   string     `json:"report_number" validate:"required"`
	Title          string     `json:"title" validate:"required"`
	Content        string     `json:"content" validate:"required"`
	Findings       string     `json:"findings,omitempty"`
	Diagnosis      string     `json:"diagnosis,omitempty"`
	Status         string     `json:"status,omitempty"`
	PractitionerID *uuid.UUID `json:"practitioner_id,omitempty"`
	PatientID      *uuid.UUID `json:"patient_id,omitempty"`
	ReportTypeID   *uuid.UUID `json:"report_type_id,omitempty"`
	ReportDate     *time.Time `json:"report_date,omitempty"`
	ChangeReason   string     `json:"change_reason,omitempty"`
}
