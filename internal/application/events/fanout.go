package events

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hilthontt/signals/internal/protocol/jsonrpc"
	"github.com/hilthontt/signals/internal/protocol/topic"
)

var (
	ErrUnknownEvent = errors.New("unknown event kind")
	ErrUnroutable   = errors.New("event has no destination")
	ErrEncode       = errors.New("encode notification")
)

type eventParams struct {
	Type    Kind `json:"type"`
	Payload any  `json:"payload"`
}

type directParams struct {
	RoomID uuid.UUID `json:"room_id"`
	Data   any       `json:"data"`
}

// Route computes where ev goes and the notification that carries it.
// Membership and track events are broadcast on the room's App topic;
// signalling events go to the recipient's inbound Agent topic.
func Route(ev Event) (topic.Topic, *jsonrpc.Notification, error) {
	switch ev.Kind {
	case AgentJoin, AgentLeave, AgentDelete:
		return roomBroadcast(ev, topic.Agents)
	case TrackCreate, TrackUpdate, TrackDelete:
		return roomBroadcast(ev, topic.Tracks)
	case WebrtcOffer, WebrtcAnswer, WebrtcCandidate:
		if ev.To == uuid.Nil {
			return nil, nil, fmt.Errorf("%w: %s without recipient", ErrUnroutable, ev.Kind)
		}
		params := directParams{RoomID: ev.RoomID, Data: ev.Payload}
		return topic.NewAgentIn(ev.To), jsonrpc.NewNotification(string(ev.Kind), params), nil
	}

	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Kind)
}

func roomBroadcast(ev Event, resource topic.Resource) (topic.Topic, *jsonrpc.Notification, error) {
	if ev.RoomID == uuid.Nil {
		return nil, nil, fmt.Errorf("%w: %s without room", ErrUnroutable, ev.Kind)
	}
	params := eventParams{Type: ev.Kind, Payload: ev.Payload}
	return topic.NewApp(ev.RoomID, resource), jsonrpc.NewNotification(MethodEvent, params), nil
}

// Encode routes ev and serializes its notification.
func Encode(ev Event) (topic.Topic, []byte, error) {
	dest, note, err := Route(ev)
	if err != nil {
		return nil, nil, err
	}

	body, err := json.Marshal(note)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrEncode, ev.Kind, err)
	}

	return dest, body, nil
}
