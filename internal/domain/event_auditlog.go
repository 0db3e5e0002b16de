package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventAuditLog is a record of a notification the service published.
type EventAuditLog struct {
	ID        string         `bson:"_id" json:"id"`
	RoomID    string         `bson:"room_id,omitempty" json:"roomId,omitempty"`
	AgentID   string         `bson:"agent_id,omitempty" json:"agentId,omitempty"`
	EventType string         `bson:"event_type" json:"eventType"`
	Topic     string         `bson:"topic" json:"topic"`
	Timestamp time.Time      `bson:"timestamp" json:"timestamp"`
	Metadata  map[string]any `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

type EventAuditRepository interface {
	Log(ctx context.Context, log *EventAuditLog) error
	GetByRoomID(ctx context.Context, roomID string, limit int) ([]EventAuditLog, error)
	GetByEventType(ctx context.Context, eventType string, from, to time.Time) ([]EventAuditLog, error)
	EnsureIndexes(ctx context.Context) error
}

func NewEventAuditLog(eventType, topic string, roomID, agentID uuid.UUID, metadata map[string]any) *EventAuditLog {
	log := &EventAuditLog{
		ID:        uuid.NewString(),
		EventType: eventType,
		Topic:     topic,
		Timestamp: time.Now().UTC(),
		Metadata:  metadata,
	}
	if roomID != uuid.Nil {
		log.RoomID = roomID.String()
	}
	if agentID != uuid.Nil {
		log.AgentID = agentID.String()
	}
	return log
}
