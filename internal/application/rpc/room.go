package rpc

import (
	"time"

	"github.com/hilthontt/signals/internal/application/events"
	"github.com/hilthontt/signals/internal/domain"
)

const defaultAvailability = 24 * time.Hour

func (s *Server) roomCreate(c *call) (any, error) {
	var p roomCreateParams
	if err := decodeParams(c.params, &p); err != nil {
		return nil, err
	}

	from := time.Now()
	if p.Data.AvailableFrom != nil {
		from = *p.Data.AvailableFrom
	}

	to := from.Add(s.availability())
	if p.Data.AvailableTo != nil {
		to = *p.Data.AvailableTo
	}

	room := domain.NewRoom(p.Data.Capacity, from, to)
	if err := room.Validate(s.limits); err != nil {
		return nil, err
	}

	err := s.transact(c, func(tx domain.Tx) error {
		return tx.CreateRoom(c.ctx, room)
	})
	if err != nil {
		return nil, err
	}

	return newRoomResponse(room), nil
}

func (s *Server) availability() time.Duration {
	if s.limits.MaxAvailability > 0 {
		return s.limits.MaxAvailability
	}
	return defaultAvailability
}

func (s *Server) roomRead(c *call) (any, error) {
	var p roomIDParams
	if err := decodeParams(c.params, &p); err != nil {
		return nil, err
	}
	if err := requireID("room_id", p.RoomID); err != nil {
		return nil, err
	}

	var room *domain.Room
	err := s.transact(c, func(tx domain.Tx) error {
		var err error
		room, err = tx.GetRoom(c.ctx, p.RoomID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return newRoomResponse(room), nil
}

func (s *Server) roomUpdate(c *call) (any, error) {
	var p roomUpdateParams
	if err := decodeParams(c.params, &p); err != nil {
		return nil, err
	}
	if err := requireID("room_id", p.RoomID); err != nil {
		return nil, err
	}

	var room *domain.Room
	err := s.transact(c, func(tx domain.Tx) error {
		var err error
		room, err = tx.GetRoom(c.ctx, p.RoomID)
		if err != nil {
			return err
		}

		if p.Data.Capacity != nil {
			room.Capacity = *p.Data.Capacity
		}
		if p.Data.AvailableFrom != nil {
			room.AvailableFrom = p.Data.AvailableFrom.UTC()
		}
		if p.Data.AvailableTo != nil {
			room.AvailableTo = p.Data.AvailableTo.UTC()
		}
		if err := room.Validate(s.limits); err != nil {
			return err
		}

		return tx.UpdateRoom(c.ctx, room)
	})
	if err != nil {
		return nil, err
	}

	return newRoomResponse(room), nil
}

func (s *Server) roomDelete(c *call) (any, error) {
	var p roomIDParams
	if err := decodeParams(c.params, &p); err != nil {
		return nil, err
	}
	if err := requireID("room_id", p.RoomID); err != nil {
		return nil, err
	}

	var (
		room    *domain.Room
		members []domain.Member
	)
	err := s.transact(c, func(tx domain.Tx) error {
		var err error
		// Memberships go with the room; read them first so members are told.
		if members, err = tx.ListMembers(c.ctx, p.RoomID); err != nil {
			return err
		}
		room, err = tx.DeleteRoom(c.ctx, p.RoomID)
		return err
	})
	if err != nil {
		return nil, err
	}

	for i := range members {
		c.out.Add(events.NewRoomEvent(events.AgentLeave, p.RoomID, newMemberResponse(&members[i])))
	}

	return newRoomResponse(room), nil
}

func (s *Server) roomList(c *call) (any, error) {
	var rooms []domain.Room
	err := s.transact(c, func(tx domain.Tx) error {
		var err error
		rooms, err = tx.ListRooms(c.ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := make([]roomResponse, 0, len(rooms))
	for i := range rooms {
		resp = append(resp, newRoomResponse(&rooms[i]))
	}
	return resp, nil
}
