package jsonrpc

import (
	"bytes"
	"encoding/json"
)

// Version is the only protocol version the service speaks.
const Version = "2.0"

var nullID = json.RawMessage("null")

// Request is an inbound call. A request without an id is a notification and
// gets no response.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
}

// NewLegacyRequest builds the request for a bare method name message such
// as "ping". It carries a null id so it is still answered.
func NewLegacyRequest(method string) *Request {
	return &Request{
		JSONRPC: Version,
		Method:  method,
		ID:      nullID,
	}
}

func (r *Request) IsNotification() bool {
	return r.ID == nil
}

// Response answers a Request. Exactly one of Result and Error is set on the
// wire.
type Response struct {
	Result any
	Error  *Error
	ID     json.RawMessage
}

func NewResult(id json.RawMessage, result any) *Response {
	return &Response{ID: id, Result: result}
}

func NewErrorResponse(id json.RawMessage, err *Error) *Response {
	return &Response{ID: id, Error: err}
}

type responseWire struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
	ID      json.RawMessage `json:"id"`
}

func (r *Response) MarshalJSON() ([]byte, error) {
	id := r.ID
	if len(bytes.TrimSpace(id)) == 0 {
		id = nullID
	}

	if r.Error != nil {
		return json.Marshal(responseWire{JSONRPC: Version, Error: r.Error, ID: id})
	}

	result, err := json.Marshal(r.Result)
	if err != nil {
		return nil, err
	}

	return json.Marshal(responseWire{JSONRPC: Version, Result: json.RawMessage(result), ID: id})
}

func (r *Response) UnmarshalJSON(data []byte) error {
	var wire struct {
		Result json.RawMessage `json:"result"`
		Error  *Error          `json:"error"`
		ID     json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	r.ID = wire.ID
	r.Error = wire.Error
	r.Result = nil
	if wire.Error == nil {
		r.Result = wire.Result
	}

	return nil
}

// Notification is an outbound message that expects no answer.
type Notification struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

func NewNotification(method string, params ...any) *Notification {
	if params == nil {
		params = []any{}
	}
	return &Notification{
		JSONRPC: Version,
		Method:  method,
		Params:  params,
	}
}
