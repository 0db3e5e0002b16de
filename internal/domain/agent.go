package domain

import (
	"time"

	"github.com/google/uuid"
)

type Agent struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"type:TIMESTAMP with time zone;not null" json:"created_at"`
}

func (Agent) TableName() string {
	return "agent"
}

func NewAgent(id uuid.UUID) *Agent {
	return &Agent{
		ID:        id,
		CreatedAt: time.Now().UTC(),
	}
}
