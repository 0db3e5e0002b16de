package topic

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopic_String(t *testing.T) {
	id := uuid.MustParse(agentID)
	room := uuid.MustParse(roomID)

	assert.Equal(t, "ping", Ping{}.String())
	assert.Equal(t, "pong", Pong{}.String())
	assert.Equal(t,
		"agents/e19c94cf-53eb-4048-9c94-7ae74ff6d912/in/signals.netology-group.services/api/v1",
		NewAgentIn(id).String())
	assert.Equal(t,
		"agents/e19c94cf-53eb-4048-9c94-7ae74ff6d912/out/signals.netology-group.services/api/v1",
		NewAgentOut(id).String())
	assert.Equal(t, "agents/e19c94cf-53eb-4048-9c94-7ae74ff6d912/state/api/v1", NewState(id).String())
	assert.Equal(t,
		"apps/signals.netology-group.services/api/v1/rooms/058df470-73ea-43a4-b36c-e4615cad468e/tracks",
		NewApp(room, Tracks).String())
}

func TestReverse(t *testing.T) {
	id := uuid.MustParse(agentID)

	tests := []struct {
		name string
		in   Topic
		want Topic
		ok   bool
	}{
		{"ping", Ping{}, Pong{}, true},
		{"pong", Pong{}, Ping{}, true},
		{"agent out", NewAgentOut(id), NewAgentIn(id), true},
		{"agent in", NewAgentIn(id), NewAgentOut(id), true},
		{"state", NewState(id), nil, false},
		{"app", NewApp(id, Agents), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Reverse(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, Reversible(tt.in))
		})
	}
}

func TestDirection_Reverse(t *testing.T) {
	assert.Equal(t, Out, In.Reverse())
	assert.Equal(t, In, Out.Reverse())
	assert.Equal(t, In, In.Reverse().Reverse())
}

func TestApp_MarshalJSON(t *testing.T) {
	room := uuid.MustParse(roomID)

	data, err := json.Marshal(struct {
		Topic App `json:"topic"`
	}{Topic: NewApp(room, Agents)})
	require.NoError(t, err)

	assert.JSONEq(t,
		`{"topic":"apps/signals.netology-group.services/api/v1/rooms/058df470-73ea-43a4-b36c-e4615cad468e/agents"}`,
		string(data))
}

func TestResource_Text(t *testing.T) {
	var req struct {
		Resource Resource `json:"resource"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"resource":"tracks"}`), &req))
	assert.Equal(t, Tracks, req.Resource)

	err := json.Unmarshal([]byte(`{"resource":"rooms"}`), &req)
	assert.ErrorIs(t, err, ErrUnknownResourceToken)
}
