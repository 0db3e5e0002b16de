package rpc

import (
	"github.com/hilthontt/signals/internal/domain"
	"github.com/hilthontt/signals/internal/protocol/topic"
)

// subscriptionCreate tells an agent which App topic carries the room's
// events for a resource.
func (s *Server) subscriptionCreate(c *call) (any, error) {
	var p subscriptionCreateParams
	if err := decodeParams(c.params, &p); err != nil {
		return nil, err
	}
	if err := firstErr(requireID("room_id", p.RoomID), requireID("agent_id", p.AgentID)); err != nil {
		return nil, err
	}
	if p.Data.Resource == nil {
		return nil, badParams("missing field `resource`")
	}

	err := s.transact(c, func(tx domain.Tx) error {
		_, err := tx.GetRoom(c.ctx, p.RoomID)
		return err
	})
	if err != nil {
		return nil, err
	}

	var resp subscriptionResponse
	resp.Data.Topic = topic.NewApp(p.RoomID, *p.Data.Resource)
	return resp, nil
}
