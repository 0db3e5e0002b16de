package rpc

import (
	"github.com/google/uuid"
	"github.com/hilthontt/signals/internal/protocol/envelope"
	"github.com/hilthontt/signals/internal/protocol/topic"
)

// Meta is what the transport knows about a call besides its params.
type Meta struct {
	Subject envelope.Subject
	Topic   topic.Topic
}

// AgentID is the agent the call came from: the envelope subject when set,
// otherwise the agent named in the topic.
func (m Meta) AgentID() uuid.UUID {
	if m.Subject.AgentID != uuid.Nil {
		return m.Subject.AgentID
	}

	switch t := m.Topic.(type) {
	case topic.Agent:
		return t.AgentID
	case topic.State:
		return t.AgentID
	}

	return uuid.Nil
}
