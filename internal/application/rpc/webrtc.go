package rpc

import (
	"github.com/google/uuid"
	"github.com/hilthontt/signals/internal/application/events"
	"github.com/hilthontt/signals/internal/domain"
)

// The webrtc methods relay signalling data to one agent in the room. Both
// ends must be members of it.

func (s *Server) webrtcOffer(c *call) (any, error) {
	var p webrtcParams[offerData]
	if err := decodeParams(c.params, &p); err != nil {
		return nil, err
	}

	tracks := p.Data.Tracks
	if tracks == nil {
		tracks = []trackRef{}
	}

	return s.relay(c, events.WebrtcOffer, p.RoomID, p.Data.From, p.Data.To, offerNotification{
		Jsep:   p.Data.Jsep,
		From:   p.Data.From,
		Tracks: tracks,
	})
}

func (s *Server) webrtcAnswer(c *call) (any, error) {
	var p webrtcParams[answerData]
	if err := decodeParams(c.params, &p); err != nil {
		return nil, err
	}

	return s.relay(c, events.WebrtcAnswer, p.RoomID, p.Data.From, p.Data.To, answerNotification{
		Jsep: p.Data.Jsep,
		From: p.Data.From,
	})
}

func (s *Server) webrtcCandidate(c *call) (any, error) {
	var p webrtcParams[candidateData]
	if err := decodeParams(c.params, &p); err != nil {
		return nil, err
	}

	return s.relay(c, events.WebrtcCandidate, p.RoomID, p.Data.From, p.Data.To, candidateNotification{
		Candidate: p.Data.Candidate,
		From:      p.Data.From,
	})
}

func (s *Server) relay(c *call, kind events.Kind, roomID, from, to uuid.UUID, payload any) (any, error) {
	if err := firstErr(
		requireID("room_id", roomID),
		requireID("from", from),
		requireID("to", to),
	); err != nil {
		return nil, err
	}

	err := s.transact(c, func(tx domain.Tx) error {
		if _, err := tx.GetMember(c.ctx, roomID, from); err != nil {
			return err
		}
		_, err := tx.GetMember(c.ctx, roomID, to)
		return err
	})
	if err != nil {
		return nil, err
	}

	c.out.Add(events.NewDirectEvent(kind, roomID, to, payload))

	return struct{}{}, nil
}
