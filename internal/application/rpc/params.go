package rpc

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"
)

// decodeParams accepts params as an object, as a one element array holding
// the object, or absent.
func decodeParams(raw json.RawMessage, v any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	if raw[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return badParams("%v", err)
		}
		switch len(items) {
		case 0:
			return nil
		case 1:
			raw = items[0]
		default:
			return badParams("expected a single params object, got %d", len(items))
		}
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return badParams("%v", err)
	}
	return nil
}

func requireID(field string, id uuid.UUID) error {
	if id == uuid.Nil {
		return badParams("missing field `%s`", field)
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
