package topic

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

const (
	// ServiceAudience is the audience segment of agent and app topics.
	ServiceAudience = "signals.netology-group.services"

	pingLiteral   = "ping"
	pongLiteral   = "pong"
	agentsPrefix  = "agents/"
	appsPrefix    = "apps/"
	apiSegment    = "api"
	stateSegment  = "state"
	roomsSegment  = "rooms"
	pathSeparator = "/"
)

// Topic is a parsed pub/sub address. The set of implementations is closed:
// Ping, Pong, Agent, State and App.
type Topic interface {
	fmt.Stringer
	isTopic()
}

type Ping struct{}

type Pong struct{}

// Agent is the request/response channel of a single agent.
type Agent struct {
	Direction Direction
	AgentID   uuid.UUID
	Version   Version
}

// State carries an agent's online/offline state. It is one-directional.
type State struct {
	AgentID uuid.UUID
	Version Version
}

// App is the room broadcast topic for one resource kind. The service only
// publishes on it.
type App struct {
	RoomID   uuid.UUID
	Resource Resource
	Version  Version
}

func (Ping) isTopic()  {}
func (Pong) isTopic()  {}
func (Agent) isTopic() {}
func (State) isTopic() {}
func (App) isTopic()   {}

func (Ping) String() string { return pingLiteral }
func (Pong) String() string { return pongLiteral }

func (t Agent) String() string {
	return fmt.Sprintf("agents/%s/%s/%s/api/%s", t.AgentID, t.Direction, ServiceAudience, t.Version)
}

func (t State) String() string {
	return fmt.Sprintf("agents/%s/state/api/%s", t.AgentID, t.Version)
}

func (t App) String() string {
	return fmt.Sprintf("apps/%s/api/%s/rooms/%s/%s", ServiceAudience, t.Version, t.RoomID, t.Resource)
}

func (t App) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// NewAgentIn is the inbound topic of an agent; notifications addressed to an
// agent are always published here.
func NewAgentIn(agentID uuid.UUID) Agent {
	return Agent{Direction: In, AgentID: agentID, Version: V1}
}

func NewAgentOut(agentID uuid.UUID) Agent {
	return Agent{Direction: Out, AgentID: agentID, Version: V1}
}

func NewState(agentID uuid.UUID) State {
	return State{AgentID: agentID, Version: V1}
}

func NewApp(roomID uuid.UUID, resource Resource) App {
	return App{RoomID: roomID, Resource: resource, Version: V1}
}

// Direction is the side of an agent channel, seen from the agent.
type Direction int

const (
	In Direction = iota
	Out
)

func (d Direction) String() string {
	switch d {
	case In:
		return "in"
	case Out:
		return "out"
	}
	return "unknown"
}

// Reverse swaps In and Out.
func (d Direction) Reverse() Direction {
	if d == In {
		return Out
	}
	return In
}

func parseDirection(token string) (Direction, bool) {
	switch token {
	case "in":
		return In, true
	case "out":
		return Out, true
	}
	return 0, false
}

// Resource is the kind of room resource an App topic broadcasts.
type Resource int

const (
	Agents Resource = iota
	Tracks
)

func (r Resource) String() string {
	switch r {
	case Agents:
		return "agents"
	case Tracks:
		return "tracks"
	}
	return "unknown"
}

// ParseResource maps a resource token to its Resource.
func ParseResource(token string) (Resource, error) {
	switch token {
	case "agents":
		return Agents, nil
	case "tracks":
		return Tracks, nil
	}
	return 0, &ParseError{Kind: ErrUnknownResourceToken, Segment: token}
}

func (r Resource) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Resource) UnmarshalText(text []byte) error {
	parsed, err := ParseResource(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
