package entities

import (
	"time"

	"github.com/google/uuid"
)

// User is a system account; its id is what gets stamped into deleted_by and
// changed_by columns.
type User struct {
	ID        uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	Name      string     `json:"name" db:"name" gorm:"not null"`
	Email     string     `json:"email" db:"email" gorm:"index"`
	Role      string     `json:"role" db:"role" gorm:"not null;default:clinician"`
	CreatedAt time.Time  `json:"created_at" db:"created_at" gorm:"not null"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at" gorm:"not null"`
	DeletedAt *time.Time `json:"deleted_at" db:"deleted_at" gorm:"index"`
	DeletedBy *uuid.UUID `json:"deleted_by" db:"deleted_by" gorm:"type:uuid"`
}
