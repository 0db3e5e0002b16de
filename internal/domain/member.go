package domain

import (
	"time"

	"github.com/google/uuid"
)

// Member is an agent's presence in a room.
type Member struct {
	AgentID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"agent_id"`
	RoomID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"room_id"`
	Label     string    `gorm:"not null" json:"label"`
	CreatedAt time.Time `gorm:"type:TIMESTAMP with time zone;not null" json:"created_at"`
}

func (Member) TableName() string {
	return "room_agent"
}

func NewMember(agentID, roomID uuid.UUID, label string) *Member {
	return &Member{
		AgentID:   agentID,
		RoomID:    roomID,
		Label:     label,
		CreatedAt: time.Now().UTC(),
	}
}
