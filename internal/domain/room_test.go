package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoom_Validate(t *testing.T) {
	from := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	limits := RoomLimits{MaxCapacity: 10, MaxAvailability: 2 * time.Hour}

	tests := []struct {
		name    string
		room    *Room
		limits  RoomLimits
		wantErr error
	}{
		{"within limits", NewRoom(10, from, from.Add(2*time.Hour)), limits, nil},
		{"over capacity", NewRoom(11, from, from.Add(time.Hour)), limits, ErrRoomCapacityLimit},
		{"over availability", NewRoom(5, from, from.Add(3*time.Hour)), limits, ErrRoomAvailabilityLimit},
		{"inverted window", NewRoom(5, from, from.Add(-time.Minute)), limits, ErrInvalidInput},
		{"negative capacity", NewRoom(-1, from, from), limits, ErrInvalidInput},
		{"no limits", NewRoom(500, from, from.Add(100*time.Hour)), RoomLimits{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.room.Validate(tt.limits)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}
}

func TestRoom_IsFull(t *testing.T) {
	room := &Room{Capacity: 2}
	assert.False(t, room.IsFull(1))
	assert.True(t, room.IsFull(2))

	unlimited := &Room{}
	assert.False(t, unlimited.IsFull(1000))
}

func TestErrorClasses(t *testing.T) {
	for _, err := range []error{ErrRoomNotFound, ErrAgentNotFound, ErrMemberNotFound, ErrTrackNotFound} {
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NotErrorIs(t, err, ErrValidation)
	}
	for _, err := range []error{ErrRoomCapacityLimit, ErrRoomAvailabilityLimit, ErrRoomSizeLimit, ErrAlreadyExists, ErrAlreadyInRoom} {
		assert.ErrorIs(t, err, ErrValidation)
	}
}
