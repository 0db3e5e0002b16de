package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Room struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Capacity      int       `gorm:"not null" json:"capacity"`
	AvailableFrom time.Time `gorm:"type:TIMESTAMP with time zone;not null" json:"available_from"`
	AvailableTo   time.Time `gorm:"type:TIMESTAMP with time zone;not null" json:"available_to"`
	CreatedAt     time.Time `gorm:"type:TIMESTAMP with time zone;not null" json:"created_at"`
}

func (Room) TableName() string {
	return "room"
}

// RoomLimits bounds what a room may be created or updated with.
type RoomLimits struct {
	MaxCapacity     int
	MaxAvailability time.Duration
}

func NewRoom(capacity int, from, to time.Time) *Room {
	return &Room{
		ID:            uuid.New(),
		Capacity:      capacity,
		AvailableFrom: from.UTC(),
		AvailableTo:   to.UTC(),
		CreatedAt:     time.Now().UTC(),
	}
}

// Validate checks the room against the configured limits. A zero limit is
// not enforced.
func (r *Room) Validate(limits RoomLimits) error {
	if r.Capacity < 0 {
		return fmt.Errorf("%w: negative capacity", ErrInvalidInput)
	}
	if r.AvailableTo.Before(r.AvailableFrom) {
		return fmt.Errorf("%w: available_to is before available_from", ErrInvalidInput)
	}
	if limits.MaxCapacity > 0 && r.Capacity > limits.MaxCapacity {
		return fmt.Errorf("%w: %d", ErrRoomCapacityLimit, limits.MaxCapacity)
	}
	if limits.MaxAvailability > 0 && r.AvailableTo.Sub(r.AvailableFrom) > limits.MaxAvailability {
		return fmt.Errorf("%w: %d", ErrRoomAvailabilityLimit, int64(limits.MaxAvailability.Seconds()))
	}
	return nil
}

// IsFull reports whether another agent may join a room that already has
// members agents. A zero capacity means unlimited.
func (r *Room) IsFull(members int) bool {
	return r.Capacity > 0 && members >= r.Capacity
}
