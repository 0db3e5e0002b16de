package rpc

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/hilthontt/signals/internal/domain"
	"github.com/hilthontt/signals/internal/infrastructure/logging"
)

const stateUpdate = "state.update"

// event handles notifications published on agent state topics. An agent
// reported offline is deleted with everything it owns.
func (s *Server) event(c *call) (any, error) {
	var list []stateEvent
	if err := decodeEventList(c.params, &list); err != nil {
		return nil, err
	}

	var offline []uuid.UUID
	for _, ev := range list {
		if ev.Type != stateUpdate {
			s.logger.Debug(logging.Dispatch, logging.Notification, "ignoring event", map[logging.ExtraKey]any{
				logging.EventKind: ev.Type,
			})
			continue
		}

		var payload stateUpdatePayload
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			return nil, badParams("%v", err)
		}
		if err := requireID("agent_id", payload.AgentID); err != nil {
			return nil, err
		}
		if payload.Data.Online != nil && !*payload.Data.Online {
			offline = append(offline, payload.AgentID)
		}
	}

	if len(offline) == 0 {
		return nil, nil
	}

	err := s.transact(c, func(tx domain.Tx) error {
		for _, id := range offline {
			_, err := s.deleteAgent(c, tx, id)
			if errors.Is(err, domain.ErrAgentNotFound) {
				s.logger.Debug(logging.Dispatch, logging.Notification, "offline agent already gone", map[logging.ExtraKey]any{
					logging.AgentID: id.String(),
				})
				continue
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return nil, nil
}

func decodeEventList(raw json.RawMessage, list *[]stateEvent) error {
	if err := json.Unmarshal(raw, list); err != nil {
		return badParams("%v", err)
	}
	return nil
}
