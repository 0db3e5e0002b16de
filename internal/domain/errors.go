package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrValidation = errors.New("validation failed")
	ErrBadRequest = errors.New("bad request")

	ErrRoomNotFound   = fmt.Errorf("room: %w", ErrNotFound)
	ErrAgentNotFound  = fmt.Errorf("agent: %w", ErrNotFound)
	ErrMemberNotFound = fmt.Errorf("room agent: %w", ErrNotFound)
	ErrTrackNotFound  = fmt.Errorf("track: %w", ErrNotFound)

	ErrRoomCapacityLimit     = fmt.Errorf("%w: room capacity limit is", ErrValidation)
	ErrRoomAvailabilityLimit = fmt.Errorf("%w: room availability limit is", ErrValidation)
	ErrRoomSizeLimit         = fmt.Errorf("%w: room size limit is reached", ErrValidation)
	ErrAlreadyExists         = fmt.Errorf("%w: record already exists", ErrValidation)
	ErrAlreadyInRoom         = fmt.Errorf("%w: agent already in room", ErrValidation)
	ErrInvalidInput          = fmt.Errorf("%w: invalid input", ErrValidation)
)
