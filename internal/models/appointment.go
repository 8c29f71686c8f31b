package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Appointment struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	CustomerName  string `gorm:"size:100;not null" json:"customer_name"`
	CustomerEmail string `gorm:"size:150;not null" json:"customer_email"`
	CustomerPhone string `gorm:"size:30;not null" json:"customer_phone"`

	// idx_confirmed_slot keeps at most one confirmed appointment per slot.
	BarberID string `gorm:"size:36;not null;index;uniqueIndex:idx_confirmed_slot,priority:1,where:status = 'confirmed'" json:"barber_id"`
	Service  string `gorm:"size:100;not null" json:"service"`
	Date     string `gorm:"size:10;not null;uniqueIndex:idx_confirmed_slot,priority:2" json:"date"`
	Time     string `gorm:"size:5;not null;uniqueIndex:idx_confirmed_slot,priority:3" json:"time"`

	Status string `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Notes  string `gorm:"size:500" json:"notes"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
