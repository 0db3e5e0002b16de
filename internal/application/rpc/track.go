package rpc

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/hilthontt/signals/internal/application/events"
	"github.com/hilthontt/signals/internal/domain"
)

// trackCreate publishes a new local track. The owner must be in the room
// the call names; the track is announced in every room the owner is in.
func (s *Server) trackCreate(c *call) (any, error) {
	var p trackCreateParams
	if err := decodeParams(c.params, &p); err != nil {
		return nil, err
	}
	if p.Data.OwnerID == uuid.Nil {
		p.Data.OwnerID = c.meta.AgentID()
	}
	if err := firstErr(requireID("room_id", p.RoomID), requireID("owner_id", p.Data.OwnerID)); err != nil {
		return nil, err
	}
	if p.Data.StreamID == "" || p.Data.TrackID == "" {
		return nil, badParams("missing field `stream_id` or `track_id`")
	}

	track := &domain.LocalTrack{
		ID:       uuid.New(),
		StreamID: p.Data.StreamID,
		TrackID:  p.Data.TrackID,
		Device:   p.Data.Device,
		Kind:     p.Data.Kind,
		Label:    p.Data.Label,
		OwnerID:  p.Data.OwnerID,
	}

	var roomIDs []uuid.UUID
	err := s.transact(c, func(tx domain.Tx) error {
		if _, err := tx.GetMember(c.ctx, p.RoomID, track.OwnerID); err != nil {
			return err
		}
		if err := tx.CreateTrack(c.ctx, track); err != nil {
			return err
		}

		var err error
		roomIDs, err = tx.AgentRoomIDs(c.ctx, track.OwnerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := newTrackResponse(track, nil)
	for _, roomID := range roomIDs {
		c.out.Add(events.NewRoomEvent(events.TrackCreate, roomID, resp))
	}

	return resp, nil
}

func (s *Server) trackDelete(c *call) (any, error) {
	var p trackInRoomParams
	if err := decodeParams(c.params, &p); err != nil {
		return nil, err
	}
	if err := firstErr(requireID("room_id", p.RoomID), requireID("id", p.ID)); err != nil {
		return nil, err
	}

	var (
		resp    trackResponse
		roomIDs []uuid.UUID
	)
	err := s.transact(c, func(tx domain.Tx) error {
		track, err := tx.GetTrack(c.ctx, p.ID)
		if err != nil {
			return err
		}
		holders, err := tx.Holders(c.ctx, track.ID)
		if err != nil {
			return err
		}
		if _, err := tx.DeleteTrack(c.ctx, track.ID); err != nil {
			return err
		}

		resp = newTrackResponse(track, holders)
		roomIDs, err = tx.AgentRoomIDs(c.ctx, track.OwnerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	for _, roomID := range roomIDs {
		c.out.Add(events.NewRoomEvent(events.TrackDelete, roomID, resp))
	}

	return resp, nil
}

func (s *Server) trackRegister(c *call) (any, error) {
	return s.updateHolders(c, func(tx domain.Tx, track *domain.LocalTrack, agentID uuid.UUID) error {
		if _, err := tx.GetAgent(c.ctx, agentID); err != nil {
			return err
		}
		return tx.AddHolder(c.ctx, domain.NewRemoteTrack(track.ID, agentID))
	})
}

func (s *Server) trackUnregister(c *call) (any, error) {
	return s.updateHolders(c, func(tx domain.Tx, track *domain.LocalTrack, agentID uuid.UUID) error {
		return tx.RemoveHolder(c.ctx, track.ID, agentID)
	})
}

// updateHolders finds the track by its stream and track ids, applies change
// and announces the new holder list with track.update.
func (s *Server) updateHolders(c *call, change func(tx domain.Tx, track *domain.LocalTrack, agentID uuid.UUID) error) (any, error) {
	var p trackRegisterParams
	if err := decodeParams(c.params, &p); err != nil {
		return nil, err
	}
	if p.Data.AgentID == uuid.Nil {
		p.Data.AgentID = c.meta.AgentID()
	}
	if err := firstErr(requireID("room_id", p.RoomID), requireID("agent_id", p.Data.AgentID)); err != nil {
		return nil, err
	}
	if p.Data.StreamID == "" || p.Data.TrackID == "" {
		return nil, badParams("missing field `stream_id` or `track_id`")
	}

	var (
		resp    trackResponse
		roomIDs []uuid.UUID
	)
	err := s.transact(c, func(tx domain.Tx) error {
		track, err := tx.FindTrack(c.ctx, p.Data.StreamID, p.Data.TrackID)
		if err != nil {
			return err
		}
		if err := change(tx, track, p.Data.AgentID); err != nil {
			return err
		}

		holders, err := tx.Holders(c.ctx, track.ID)
		if err != nil {
			return err
		}
		resp = newTrackResponse(track, holders)

		roomIDs, err = tx.AgentRoomIDs(c.ctx, track.OwnerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	for _, roomID := range roomIDs {
		c.out.Add(events.NewRoomEvent(events.TrackUpdate, roomID, resp))
	}

	return resp, nil
}

func (s *Server) trackList(c *call) (any, error) {
	var p trackListParams
	if err := decodeParams(c.params, &p); err != nil {
		return nil, err
	}

	var resp []trackResponse
	err := s.transact(c, func(tx domain.Tx) error {
		tracks, err := tx.ListTracks(c.ctx, domain.TrackFilter{RoomID: p.RoomID, OwnerID: p.OwnerID})
		if err != nil {
			return err
		}

		resp = make([]trackResponse, 0, len(tracks))
		for i := range tracks {
			holders, err := tx.Holders(c.ctx, tracks[i].ID)
			if err != nil {
				return fmt.Errorf("holders of track %s: %w", tracks[i].ID, err)
			}
			resp = append(resp, newTrackResponse(&tracks[i], holders))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}
