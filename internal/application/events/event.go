package events

import (
	"github.com/google/uuid"
)

// Kind names an event on the wire.
type Kind string

const (
	AgentJoin   Kind = "agent.join"
	AgentLeave  Kind = "agent.leave"
	AgentDelete Kind = "agent.delete"

	TrackCreate Kind = "track.create"
	TrackUpdate Kind = "track.update"
	TrackDelete Kind = "track.delete"

	WebrtcOffer     Kind = "webrtc.offer"
	WebrtcAnswer    Kind = "webrtc.answer"
	WebrtcCandidate Kind = "webrtc.candidate"
)

// MethodEvent is the notification method room broadcasts are sent with.
const MethodEvent = "event"

// Event is a domain event waiting to be delivered. Room broadcasts use
// RoomID, point-to-point signalling uses RoomID for context and To as the
// recipient.
type Event struct {
	Kind    Kind
	RoomID  uuid.UUID
	To      uuid.UUID
	Payload any
}

func NewRoomEvent(kind Kind, roomID uuid.UUID, payload any) Event {
	return Event{Kind: kind, RoomID: roomID, Payload: payload}
}

func NewDirectEvent(kind Kind, roomID, to uuid.UUID, payload any) Event {
	return Event{Kind: kind, RoomID: roomID, To: to, Payload: payload}
}

// Outbox collects the events of one call until they are safe to deliver.
type Outbox struct {
	events []Event
}

func (o *Outbox) Add(events ...Event) {
	o.events = append(o.events, events...)
}

// Drain returns the collected events in order and empties the outbox.
func (o *Outbox) Drain() []Event {
	events := o.events
	o.events = nil
	return events
}
