package entities

import (
	"time"

	"github.com/google/uuid"
)

// Patient represents a patient in the system.
type Patient struct {
	ID          uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	Name        string     `json:"name" db:"name" gorm:"not null"`
	DateOfBirth *time.Time `json:"date_of_birth" db:"date_of_birth"`
	Email       string     `json:"email" db:"email" gorm:"index"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at" gorm:"not null"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at" gorm:"not null"`
	DeletedAt   *time.Time `json:"deleted_at" db:"deleted_at" gorm:"index"`
	DeletedBy   *uuid.UUID `json:"deleted_by" db:"deleted_by" gorm:"type:uuid"`
}
