package topic

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	agentID = "e19c94cf-53eb-4048-9c94-7ae74ff6d912"
	roomID  = "058df470-73ea-43a4-b36c-e4615cad468e"
)

func TestParse_Valid(t *testing.T) {
	id := uuid.MustParse(agentID)
	room := uuid.MustParse(roomID)

	tests := []struct {
		name  string
		input string
		want  Topic
	}{
		{"ping", "ping", Ping{}},
		{"pong", "pong", Pong{}},
		{"agent out", "agents/" + agentID + "/out/signals.netology-group.services/api/v1", Agent{Direction: Out, AgentID: id, Version: V1}},
		{"agent in", "agents/" + agentID + "/in/signals.netology-group.services/api/v1", Agent{Direction: In, AgentID: id, Version: V1}},
		{"agent trailing slash", "agents/" + agentID + "/out/signals.netology-group.services/api/v1/", Agent{Direction: Out, AgentID: id, Version: V1}},
		{"state", "agents/" + agentID + "/state/api/v1", State{AgentID: id, Version: V1}},
		{"state trailing slash", "agents/" + agentID + "/state/api/v1/", State{AgentID: id, Version: V1}},
		{"app agents", "apps/signals.netology-group.services/api/v1/rooms/" + roomID + "/agents", App{RoomID: room, Resource: Agents, Version: V1}},
		{"app tracks", "apps/signals.netology-group.services/api/v1/rooms/" + roomID + "/tracks", App{RoomID: room, Resource: Tracks, Version: V1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		kind    error
		segment string
	}{
		{"empty", "", ErrNoAlternativeMatched, ""},
		{"unknown literal", "foo", ErrNoAlternativeMatched, ""},
		{"uuid one digit short", "agents/e19c94cf-53eb-4048-9c94-7ae74ff6d91/out/signals.netology-group.services/api/v1", ErrMalformedUUID, "e19c94cf-53eb-4048-9c94-7ae74ff6d91"},
		{"uuid without hyphens", "agents/e19c94cf53eb40489c947ae74ff6d912abcd/out/signals.netology-group.services/api/v1", ErrMalformedUUID, "e19c94cf53eb40489c947ae74ff6d912abcd"},
		{"uuid misplaced hyphen", "agents/e19c94c-f53eb-4048-9c94-7ae74ff6d912/out/signals.netology-group.services/api/v1", ErrMalformedUUID, "e19c94c-f53eb-4048-9c94-7ae74ff6d912"},
		{"uuid uppercase", "agents/E19C94CF-53EB-4048-9C94-7AE74FF6D912/out/signals.netology-group.services/api/v1", ErrMalformedUUID, "E19C94CF-53EB-4048-9C94-7AE74FF6D912"},
		{"uuid non hex", "agents/g19c94cf-53eb-4048-9c94-7ae74ff6d912/out/signals.netology-group.services/api/v1", ErrMalformedUUID, "g19c94cf-53eb-4048-9c94-7ae74ff6d912"},
		{"unknown direction", "agents/" + agentID + "/sideways/signals.netology-group.services/api/v1", ErrUnknownDirectionToken, "sideways"},
		{"unknown version", "agents/" + agentID + "/out/signals.netology-group.services/api/v2", ErrUnknownVersionToken, "v2"},
		{"state unknown version", "agents/" + agentID + "/state/api/v0", ErrUnknownVersionToken, "v0"},
		{"rooms suffix", "agents/" + agentID + "/out/signals.netology-group.services/api/v1/rooms", ErrUnexpectedTrailingInput, "/rooms"},
		{"double trailing slash", "agents/" + agentID + "/out/signals.netology-group.services/api/v1//", ErrUnexpectedTrailingInput, "//"},
		{"ping suffix", "pingx", ErrUnexpectedTrailingInput, "x"},
		{"wrong audience", "agents/" + agentID + "/out/conference.example.org/api/v1", ErrNoAlternativeMatched, "/conference.example.org/api/v1"},
		{"app unknown resource", "apps/signals.netology-group.services/api/v1/rooms/" + roomID + "/files", ErrUnknownResourceToken, "files"},
		{"app resource id suffix", "apps/signals.netology-group.services/api/v1/rooms/" + roomID + "/tracks/" + agentID, ErrUnexpectedTrailingInput, "/" + agentID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, errors.Is(err, tt.kind), "expected %v, got %v", tt.kind, err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.segment, pe.Segment)
			assert.Equal(t, tt.input, pe.Input)
		})
	}
}

func TestParse_Deterministic(t *testing.T) {
	input := "agents/" + agentID + "/in/signals.netology-group.services/api/v1"

	first, err := Parse(input)
	require.NoError(t, err)
	second, err := Parse(input)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion("v1")
	require.NoError(t, err)
	assert.Equal(t, V1, v)
	assert.Equal(t, "v1", V1.String())

	_, err = ParseVersion("V1")
	assert.ErrorIs(t, err, ErrUnknownVersionToken)
}
