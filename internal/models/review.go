package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review stays hidden from the public site until an admin approves it.
type Review struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	CustomerName string `gorm:"size:100;not null" json:"customer_name"`
	Rating       int    `gorm:"not null" json:"rating"`
	Comment      string `gorm:"type:text;not null" json:"comment"`
	Approved     bool   `gorm:"not null;default:false;index" json:"approved"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Review) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
