package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	JobPending   = "pending"
	JobDone      = "done"
	JobCancelled = "cancelled"
	JobFailed    = "failed"
)

// DeletionJob removes an appointment once RunAt has passed, provided the
// appointment is still in ExpectedStatus. One job per appointment.
type DeletionJob struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	AppointmentID  string    `gorm:"size:36;not null;uniqueIndex" json:"appointment_id"`
	ExpectedStatus string    `gorm:"size:20;not null" json:"expected_status"`
	RunAt          time.Time `gorm:"not null;index" json:"run_at"`

	Status      string `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Attempts    int    `gorm:"not null;default:0" json:"attempts"`
	MaxAttempts int    `gorm:"not null;default:5" json:"max_attempts"`
	LastError   string `gorm:"size:500" json:"last_error"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (j *DeletionJob) BeforeCreate(*gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	return nil
}
