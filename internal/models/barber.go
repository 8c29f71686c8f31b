package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Barber struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Specialty    string `gorm:"size:100;not null" json:"specialty"`
	Experience   int    `gorm:"not null;default:0" json:"experience"`
	WorkingHours string `gorm:"size:100" json:"working_hours"`
	Bio          string `gorm:"type:text" json:"bio"`
	Image        string `gorm:"size:500" json:"image"`
	Available    bool   `gorm:"not null;default:true;index" json:"available"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Barber) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
