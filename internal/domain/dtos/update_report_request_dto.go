package dtos

// UpdateReportRequest allows partial update of a report's business fields.
// Nil pointers mean "leave unchanged".
type UpdateReportRequest struct {
	Title        *string `json:"title,omitempty" validate:"omitempty"`
	Content      *string `json:"content,omitempty" validate:"omitempty"`
	Findings     *string `json:"findings,omitempty" validate:"omitempty"`
	Diagnosis    *string `json:"diagnosis,omitempty" validate:"omitempty"`
	Status       *string `json:"status,omitempty" validate:"omitempty"`
	ChangeReason string  `json:"change_reason,omitempty"`
}
