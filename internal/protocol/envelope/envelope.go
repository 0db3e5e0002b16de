package envelope

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hilthontt/signals/internal/protocol/jsonrpc"
)

var (
	ErrDecodeEnvelope = errors.New("decode envelope")
	ErrDecodeMessage  = errors.New("decode envelope message")
)

// Subject identifies who sent a message.
type Subject struct {
	AccountID uuid.UUID `json:"account_id"`
	AgentID   uuid.UUID `json:"agent_id"`
}

// Envelope is the outer wire record of every inbound message. Msg holds the
// inner message undecoded, either as a JSON string or as a nested object.
type Envelope struct {
	Sub Subject         `json:"sub"`
	Msg json.RawMessage `json:"msg"`
}

// Decode parses the outer envelope only.
func Decode(payload []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeEnvelope, err)
	}
	if len(env.Msg) == 0 {
		return nil, fmt.Errorf("%w: missing msg", ErrDecodeEnvelope)
	}
	return &env, nil
}

// Message decodes the inner message into a request. A bare method name such
// as "ping" is accepted as a legacy request.
func (e *Envelope) Message() (*jsonrpc.Request, error) {
	raw := bytes.TrimSpace(e.Msg)

	if len(raw) > 0 && raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecodeMessage, err)
		}

		inner = strings.TrimSpace(inner)
		if isMethodName(inner) {
			return jsonrpc.NewLegacyRequest(inner), nil
		}
		raw = []byte(inner)
	}

	if len(raw) == 0 || raw[0] != '{' {
		return nil, fmt.Errorf("%w: expected a request object or a method name", ErrDecodeMessage)
	}

	var req jsonrpc.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeMessage, err)
	}
	if req.Method == "" {
		return nil, fmt.Errorf("%w: missing method", ErrDecodeMessage)
	}
	if req.JSONRPC == "" {
		req.JSONRPC = jsonrpc.Version
	}

	return &req, nil
}

// isMethodName accepts dotted lowercase names like "room.create".
func isMethodName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', c == '.', c == '_':
		default:
			return false
		}
	}
	return true
}
