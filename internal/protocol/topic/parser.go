package topic

import (
	"strings"

	"github.com/google/uuid"
)

const uuidLength = 36

// Parse converts a raw topic string into a Topic. Failures are returned as
// *ParseError; Parse never panics and has no side effects.
//
//	topic       = "ping" | "pong" | agent | state | app
//	agent       = "agents/" uuid "/" ("in"|"out") "/signals.netology-group.services/api/" version ["/"]
//	state       = "agents/" uuid "/state/api/" version ["/"]
//	app         = "apps/signals.netology-group.services/api/" version "/rooms/" uuid "/" resource ["/"]
func Parse(input string) (Topic, error) {
	p := &parser{input: input}

	t, err := p.parseTopic()
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.Input = input
		}
		return nil, err
	}

	return t, nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) parseTopic() (Topic, error) {
	var (
		t   Topic
		err error
	)

	// Literal prefixes are disjoint, so the order below cannot make two
	// alternatives match the same input.
	switch {
	case p.accept(pingLiteral):
		t = Ping{}
	case p.accept(pongLiteral):
		t = Pong{}
	case p.accept(agentsPrefix):
		t, err = p.parseAgentOrState()
	case p.accept(appsPrefix):
		t, err = p.parseApp()
	default:
		return nil, p.fail(ErrNoAlternativeMatched, "")
	}
	if err != nil {
		return nil, err
	}

	if err := p.finish(); err != nil {
		return nil, err
	}

	return t, nil
}

// parseAgentOrState parses what follows "agents/".
func (p *parser) parseAgentOrState() (Topic, error) {
	id, err := p.parseUUID()
	if err != nil {
		return nil, err
	}
	if err := p.expect(pathSeparator); err != nil {
		return nil, err
	}

	token := p.segment()
	if token == stateSegment {
		if err := p.expect("/" + apiSegment + "/"); err != nil {
			return nil, err
		}
		version, err := p.parseVersion()
		if err != nil {
			return nil, err
		}
		return State{AgentID: id, Version: version}, nil
	}

	direction, ok := parseDirection(token)
	if !ok {
		return nil, p.fail(ErrUnknownDirectionToken, token)
	}
	if err := p.expect("/" + ServiceAudience + "/" + apiSegment + "/"); err != nil {
		return nil, err
	}
	version, err := p.parseVersion()
	if err != nil {
		return nil, err
	}

	return Agent{Direction: direction, AgentID: id, Version: version}, nil
}

// parseApp parses what follows "apps/".
func (p *parser) parseApp() (Topic, error) {
	if err := p.expect(ServiceAudience + "/" + apiSegment + "/"); err != nil {
		return nil, err
	}
	version, err := p.parseVersion()
	if err != nil {
		return nil, err
	}
	if err := p.expect("/" + roomsSegment + "/"); err != nil {
		return nil, err
	}
	roomID, err := p.parseUUID()
	if err != nil {
		return nil, err
	}
	if err := p.expect(pathSeparator); err != nil {
		return nil, err
	}

	token := p.segment()
	resource, err := ParseResource(token)
	if err != nil {
		return nil, p.fail(ErrUnknownResourceToken, token)
	}

	return App{RoomID: roomID, Resource: resource, Version: version}, nil
}

func (p *parser) parseVersion() (Version, error) {
	token := p.segment()
	version, err := ParseVersion(token)
	if err != nil {
		return 0, p.fail(ErrUnknownVersionToken, token)
	}
	return version, nil
}

// parseUUID validates the shape of the next segment before handing it to
// uuid.Parse, so a short id can never run into the following segment.
func (p *parser) parseUUID() (uuid.UUID, error) {
	token := p.segment()
	if !isCanonicalUUID(token) {
		return uuid.Nil, p.fail(ErrMalformedUUID, token)
	}

	id, err := uuid.Parse(token)
	if err != nil {
		return uuid.Nil, p.fail(ErrMalformedUUID, token)
	}

	return id, nil
}

// isCanonicalUUID reports whether s is 8-4-4-4-12 lowercase hex.
func isCanonicalUUID(s string) bool {
	if len(s) != uuidLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch i {
		case 8, 13, 18, 23:
			if c != '-' {
				return false
			}
		default:
			if !isLowerHex(c) {
				return false
			}
		}
	}
	return true
}

func isLowerHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f')
}

// segment consumes input up to the next separator or the end.
func (p *parser) segment() string {
	rest := p.input[p.pos:]
	end := strings.IndexByte(rest, '/')
	if end < 0 {
		end = len(rest)
	}
	p.pos += end
	return rest[:end]
}

func (p *parser) accept(literal string) bool {
	if strings.HasPrefix(p.input[p.pos:], literal) {
		p.pos += len(literal)
		return true
	}
	return false
}

func (p *parser) expect(literal string) error {
	if !p.accept(literal) {
		return p.fail(ErrNoAlternativeMatched, p.input[p.pos:])
	}
	return nil
}

// finish allows a single trailing separator and nothing else.
func (p *parser) finish() error {
	rest := p.input[p.pos:]
	if rest == "" || rest == pathSeparator {
		p.pos = len(p.input)
		return nil
	}
	return p.fail(ErrUnexpectedTrailingInput, rest)
}

func (p *parser) fail(kind error, segment string) *ParseError {
	return &ParseError{Kind: kind, Segment: segment}
}
