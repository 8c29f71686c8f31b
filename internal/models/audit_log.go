package models

import "time"

type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ActorID *string `gorm:"size:36" json:"actor_id"`
	Action  string  `gorm:"size:50;not null;index" json:"action"`

	Entity   string  `gorm:"size:50;index" json:"entity"`
	EntityID *string `gorm:"size:36" json:"entity_id"`
	Metadata string  `gorm:"type:text" json:"metadata"`

	CreatedAt time.Time `json:"created_at"`
}
