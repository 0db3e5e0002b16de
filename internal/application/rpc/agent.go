package rpc

import (
	"errors"

	"github.com/google/uuid"
	"github.com/hilthontt/signals/internal/application/events"
	"github.com/hilthontt/signals/internal/domain"
)

func (s *Server) agentCreate(c *call) (any, error) {
	var p agentIDParams
	if err := decodeParams(c.params, &p); err != nil {
		return nil, err
	}
	if p.ID == uuid.Nil {
		p.ID = c.meta.AgentID()
	}
	if err := requireID("id", p.ID); err != nil {
		return nil, err
	}

	agent := domain.NewAgent(p.ID)
	err := s.transact(c, func(tx domain.Tx) error {
		return tx.CreateAgent(c.ctx, agent)
	})
	if err != nil {
		return nil, err
	}

	return agentResponse{ID: agent.ID}, nil
}

func (s *Server) agentRead(c *call) (any, error) {
	var p agentInRoomParams
	if err := decodeParams(c.params, &p); err != nil {
		return nil, err
	}
	if err := firstErr(requireID("room_id", p.RoomID), requireID("id", p.ID)); err != nil {
		return nil, err
	}

	var member *domain.Member
	err := s.transact(c, func(tx domain.Tx) error {
		var err error
		member, err = tx.GetMember(c.ctx, p.RoomID, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return newMemberResponse(member), nil
}

// agentUpdate changes the agent's label in a room. It emits nothing.
func (s *Server) agentUpdate(c *call) (any, error) {
	var p agentJoinParams
	if err := decodeParams(c.params, &p); err != nil {
		return nil, err
	}
	if err := firstErr(requireID("room_id", p.RoomID), requireID("id", p.ID)); err != nil {
		return nil, err
	}

	var member *domain.Member
	err := s.transact(c, func(tx domain.Tx) error {
		var err error
		member, err = tx.GetMember(c.ctx, p.RoomID, p.ID)
		if err != nil {
			return err
		}
		member.Label = p.Data.Label
		return tx.UpdateMember(c.ctx, member)
	})
	if err != nil {
		return nil, err
	}

	return newMemberResponse(member), nil
}

func (s *Server) agentDelete(c *call) (any, error) {
	var p agentIDParams
	if err := decodeParams(c.params, &p); err != nil {
		return nil, err
	}
	if err := requireID("id", p.ID); err != nil {
		return nil, err
	}

	var agent *domain.Agent
	err := s.transact(c, func(tx domain.Tx) error {
		var err error
		agent, err = s.deleteAgent(c, tx, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return agentResponse{ID: agent.ID}, nil
}

// deleteAgent removes the agent with everything that hangs off it: its
// tracks (announced with track.delete in each of its rooms), the tracks it
// holds, its memberships, and finally the agent itself, announced with
// agent.delete in each room it was in.
func (s *Server) deleteAgent(c *call, tx domain.Tx, id uuid.UUID) (*domain.Agent, error) {
	if _, err := tx.GetAgent(c.ctx, id); err != nil {
		return nil, err
	}

	roomIDs, err := tx.AgentRoomIDs(c.ctx, id)
	if err != nil {
		return nil, err
	}

	tracks, err := tx.TracksByOwner(c.ctx, id)
	if err != nil {
		return nil, err
	}

	for i := range tracks {
		holders, err := tx.Holders(c.ctx, tracks[i].ID)
		if err != nil {
			return nil, err
		}
		if _, err := tx.DeleteTrack(c.ctx, tracks[i].ID); err != nil {
			return nil, err
		}

		payload := newTrackResponse(&tracks[i], holders)
		for _, roomID := range roomIDs {
			c.out.Add(events.NewRoomEvent(events.TrackDelete, roomID, payload))
		}
	}

	if err := tx.RemoveHoldersByAgent(c.ctx, id); err != nil {
		return nil, err
	}

	for _, roomID := range roomIDs {
		if _, err := tx.DeleteMember(c.ctx, roomID, id); err != nil {
			return nil, err
		}
	}

	agent, err := tx.DeleteAgent(c.ctx, id)
	if err != nil {
		return nil, err
	}

	payload := agentResponse{ID: id}
	for _, roomID := range roomIDs {
		c.out.Add(events.NewRoomEvent(events.AgentDelete, roomID, payload))
	}

	return agent, nil
}

func (s *Server) agentList(c *call) (any, error) {
	var p roomIDParams
	if err := decodeParams(c.params, &p); err != nil {
		return nil, err
	}
	if err := requireID("room_id", p.RoomID); err != nil {
		return nil, err
	}

	var members []domain.Member
	err := s.transact(c, func(tx domain.Tx) error {
		if _, err := tx.GetRoom(c.ctx, p.RoomID); err != nil {
			return err
		}
		var err error
		members, err = tx.ListMembers(c.ctx, p.RoomID)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := make([]memberResponse, 0, len(members))
	for i := range members {
		resp = append(resp, newMemberResponse(&members[i]))
	}
	return resp, nil
}

// agentJoinRoom puts the agent in the room, creating the agent on first
// sight.
func (s *Server) agentJoinRoom(c *call) (any, error) {
	var p agentJoinParams
	if err := decodeParams(c.params, &p); err != nil {
		return nil, err
	}
	if p.ID == uuid.Nil {
		p.ID = c.meta.AgentID()
	}
	if err := firstErr(requireID("room_id", p.RoomID), requireID("id", p.ID)); err != nil {
		return nil, err
	}

	member := domain.NewMember(p.ID, p.RoomID, p.Data.Label)
	err := s.transact(c, func(tx domain.Tx) error {
		room, err := tx.GetRoom(c.ctx, p.RoomID)
		if err != nil {
			return err
		}

		if _, err := tx.GetAgent(c.ctx, p.ID); errors.Is(err, domain.ErrNotFound) {
			if err := tx.CreateAgent(c.ctx, domain.NewAgent(p.ID)); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		if _, err := tx.GetMember(c.ctx, p.RoomID, p.ID); err == nil {
			return domain.ErrAlreadyInRoom
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		members, err := tx.ListMembers(c.ctx, p.RoomID)
		if err != nil {
			return err
		}
		if room.IsFull(len(members)) {
			return domain.ErrRoomSizeLimit
		}

		return tx.CreateMember(c.ctx, member)
	})
	if err != nil {
		return nil, err
	}

	c.out.Add(events.NewRoomEvent(events.AgentJoin, p.RoomID, joinEventPayload{AgentID: p.ID, RoomID: p.RoomID}))

	return newMemberResponse(member), nil
}

func (s *Server) agentLeaveRoom(c *call) (any, error) {
	var p agentInRoomParams
	if err := decodeParams(c.params, &p); err != nil {
		return nil, err
	}
	if p.ID == uuid.Nil {
		p.ID = c.meta.AgentID()
	}
	if err := firstErr(requireID("room_id", p.RoomID), requireID("id", p.ID)); err != nil {
		return nil, err
	}

	var member *domain.Member
	err := s.transact(c, func(tx domain.Tx) error {
		var err error
		member, err = tx.DeleteMember(c.ctx, p.RoomID, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := newMemberResponse(member)
	c.out.Add(events.NewRoomEvent(events.AgentLeave, p.RoomID, resp))

	return resp, nil
}
