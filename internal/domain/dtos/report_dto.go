package dtos

import "time"

// ReportDTO represents report data in API responses. IDs travel as strings
// because the records cross the generic store boundary.
type ReportDTO struct {
	ID               string     `json:"id"`
	ReportNumber     string     `json:"report_number"`
	Title            string     `json:"title"`
	Content          string     `json:"content"`
	Findings         string     `json:"findings,omitempty"`
	Diagnosis        string     `json:"diagnosis,omitempty"`
	Status           string     `json:"status"`
	CurrentVersionID string     `json:"current_version_id,omitempty"`
	LastModifiedBy   string     `json:"last_modified_by,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	DeletedAt        *time.Time `json:"deleted_at,omitempty"`
}

// ReportVersionDTO represents one immutable snapshot of a report.
type ReportVersionDTO struct {
	ID            string    `json:"id"`
	ReportID      string    `json:"report_id"`
	VersionNumber int       `json:"version_number"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Findings      string    `json:"findings,omitempty"`
	Diagnosis     string    `json:"diagnosis,omitempty"`
	ChangedBy     string    `json:"changed_by"`
	ChangeReason  string    `json:"change_reason,omitempty"`
	IsCurrent     bool      `json:"is_current"`
	CreatedAt     time.Time `json:"created_at"`
}
