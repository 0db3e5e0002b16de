package topic

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedUUID           = errors.New("malformed uuid")
	ErrUnknownVersionToken     = errors.New("unknown version token")
	ErrUnknownDirectionToken   = errors.New("unknown direction token")
	ErrUnknownResourceToken    = errors.New("unknown resource token")
	ErrUnexpectedTrailingInput = errors.New("unexpected trailing input")
	ErrNoAlternativeMatched    = errors.New("no alternative matched")
)

// ParseError describes why a topic string was rejected. Kind is one of the
// Err* sentinels above, Segment is the offending part of the input.
type ParseError struct {
	Kind    error
	Segment string
	Input   string
}

func (e *ParseError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("%v: %q", e.Kind, e.Segment)
	}
	if e.Segment == "" {
		return fmt.Sprintf("parse topic %q: %v", e.Input, e.Kind)
	}
	return fmt.Sprintf("parse topic %q: %v: %q", e.Input, e.Kind, e.Segment)
}

func (e *ParseError) Unwrap() error {
	return e.Kind
}
