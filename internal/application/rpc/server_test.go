package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/rpc/v2/json2"
	"github.com/hilthontt/signals/internal/application/events"
	"github.com/hilthontt/signals/internal/domain"
	"github.com/hilthontt/signals/internal/infrastructure/logging"
	"github.com/hilthontt/signals/internal/persistence/memstore"
	"github.com/hilthontt/signals/internal/protocol/jsonrpc"
	"github.com/hilthontt/signals/internal/protocol/topic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

var testLimits = domain.RoomLimits{MaxCapacity: 10, MaxAvailability: 48 * time.Hour}

func newTestServer(t *testing.T, store domain.Store) *Server {
	t.Helper()
	if store == nil {
		store = memstore.New()
	}
	return NewServer(store, testLimits, logging.NewNopLogger(), noop.NewTracerProvider().Tracer("test"))
}

var nextID int

func request(t *testing.T, method string, params any) *jsonrpc.Request {
	t.Helper()
	nextID++
	req := &jsonrpc.Request{
		JSONRPC: jsonrpc.Version,
		Method:  method,
		ID:      json.RawMessage(strconv.Itoa(nextID)),
	}
	if params != nil {
		raw, err := json.Marshal(params)
		require.NoError(t, err)
		req.Params = raw
	}
	return req
}

type wireResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *jsonrpc.Error  `json:"error"`
	ID     json.RawMessage `json:"id"`
}

func invoke(t *testing.T, s *Server, method string, params any) (wireResponse, Result) {
	t.Helper()
	res := s.Dispatch(context.Background(), Meta{}, request(t, method, params))
	require.NotNil(t, res.Response)

	raw, err := json.Marshal(res.Response)
	require.NoError(t, err)

	var wire wireResponse
	require.NoError(t, json.Unmarshal(raw, &wire))
	return wire, res
}

func mustSucceed(t *testing.T, s *Server, method string, params any, into any) Result {
	t.Helper()
	wire, res := invoke(t, s, method, params)
	require.Nil(t, wire.Error, "%s failed: %+v", method, wire.Error)
	if into != nil {
		require.NoError(t, json.Unmarshal(wire.Result, into))
	}
	return res
}

func mustFail(t *testing.T, s *Server, method string, params any, code json2.ErrorCode) Result {
	t.Helper()
	wire, res := invoke(t, s, method, params)
	require.NotNil(t, wire.Error, "%s unexpectedly succeeded", method)
	assert.Equal(t, code, wire.Error.Code)
	assert.Empty(t, res.Events)
	assert.Equal(t, OutcomeError, res.Outcome)
	return res
}

func createRoom(t *testing.T, s *Server, capacity int) uuid.UUID {
	t.Helper()
	var room roomResponse
	mustSucceed(t, s, "room.create", map[string]any{"data": map[string]any{"capacity": capacity}}, &room)
	return room.ID
}

func joinRoom(t *testing.T, s *Server, roomID, agentID uuid.UUID, label string) Result {
	t.Helper()
	return mustSucceed(t, s, "agent.join_room", map[string]any{
		"room_id": roomID,
		"id":      agentID,
		"data":    map[string]any{"label": label},
	}, nil)
}

func createTrack(t *testing.T, s *Server, roomID, ownerID uuid.UUID, streamID string) (trackResponse, Result) {
	t.Helper()
	var track trackResponse
	res := mustSucceed(t, s, "track.create", map[string]any{
		"room_id": roomID,
		"data": map[string]any{
			"stream_id": streamID,
			"track_id":  "audio-" + streamID,
			"device":    "mic",
			"kind":      "audio",
			"label":     "voice",
			"owner_id":  ownerID,
		},
	}, &track)
	return track, res
}

func kinds(evs []events.Event) []events.Kind {
	out := make([]events.Kind, 0, len(evs))
	for _, ev := range evs {
		out = append(out, ev.Kind)
	}
	return out
}

func TestDispatch_Ping(t *testing.T) {
	s := newTestServer(t, nil)

	var result string
	res := mustSucceed(t, s, "ping", nil, &result)
	assert.Equal(t, "pong", result)
	assert.Equal(t, OutcomeOK, res.Outcome)
}

func TestDispatch_LegacyPingAnswersWithNullID(t *testing.T) {
	s := newTestServer(t, nil)

	res := s.Dispatch(context.Background(), Meta{Topic: topic.Ping{}}, jsonrpc.NewLegacyRequest("ping"))
	require.NotNil(t, res.Response)

	raw, err := json.Marshal(res.Response)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","result":"pong","id":null}`, string(raw))
}

func TestDispatch_MethodNotFound(t *testing.T) {
	s := newTestServer(t, nil)

	wire, _ := invoke(t, s, "room.explode", nil)
	require.NotNil(t, wire.Error)
	assert.Equal(t, json2.E_NO_METHOD, wire.Error.Code)
	assert.JSONEq(t, strconv.Itoa(nextID), string(wire.ID))
}

func TestDispatch_NotificationGetsNoResponse(t *testing.T) {
	s := newTestServer(t, nil)

	res := s.Dispatch(context.Background(), Meta{}, &jsonrpc.Request{JSONRPC: jsonrpc.Version, Method: "room.explode"})
	assert.Nil(t, res.Response)
	assert.Equal(t, OutcomeError, res.Outcome)

	res = s.Dispatch(context.Background(), Meta{}, &jsonrpc.Request{JSONRPC: jsonrpc.Version, Method: "ping"})
	assert.Nil(t, res.Response)
	assert.Equal(t, OutcomeOK, res.Outcome)
}

func TestDispatch_InvalidParams(t *testing.T) {
	s := newTestServer(t, nil)

	mustFail(t, s, "room.read", map[string]any{"room_id": "not-a-uuid"}, json2.E_BAD_PARAMS)
	mustFail(t, s, "room.read", map[string]any{}, json2.E_BAD_PARAMS)
	mustFail(t, s, "room.read", []any{map[string]any{}, map[string]any{}}, json2.E_BAD_PARAMS)
}

func TestDispatch_ParamsAsSingleElementArray(t *testing.T) {
	s := newTestServer(t, nil)
	roomID := createRoom(t, s, 2)

	var room roomResponse
	mustSucceed(t, s, "room.read", []any{map[string]any{"room_id": roomID}}, &room)
	assert.Equal(t, roomID, room.ID)
}

func TestRooms(t *testing.T) {
	s := newTestServer(t, nil)

	roomID := createRoom(t, s, 5)

	var room roomResponse
	mustSucceed(t, s, "room.read", map[string]any{"room_id": roomID}, &room)
	assert.Equal(t, 5, room.Data.Capacity)
	assert.Equal(t, 48*time.Hour, room.Data.AvailableTo.Sub(room.Data.AvailableFrom))

	mustSucceed(t, s, "room.update", map[string]any{"room_id": roomID, "data": map[string]any{"capacity": 7}}, &room)
	assert.Equal(t, 7, room.Data.Capacity)

	mustFail(t, s, "room.update", map[string]any{"room_id": roomID, "data": map[string]any{"capacity": 11}}, jsonrpc.CodeUnprocessable)
	mustFail(t, s, "room.create", map[string]any{"data": map[string]any{"capacity": 11}}, jsonrpc.CodeUnprocessable)

	from := time.Now().UTC()
	mustFail(t, s, "room.create", map[string]any{"data": map[string]any{
		"capacity":       1,
		"available_from": from,
		"available_to":   from.Add(72 * time.Hour),
	}}, jsonrpc.CodeUnprocessable)

	var rooms []roomResponse
	mustSucceed(t, s, "room.list", nil, &rooms)
	require.Len(t, rooms, 1)

	mustSucceed(t, s, "room.delete", map[string]any{"room_id": roomID}, nil)
	mustFail(t, s, "room.read", map[string]any{"room_id": roomID}, jsonrpc.CodeNotFound)
}

func TestRoomDelete_TellsRemovedMembers(t *testing.T) {
	s := newTestServer(t, nil)
	roomID := createRoom(t, s, 5)
	alice, bob := uuid.New(), uuid.New()
	joinRoom(t, s, roomID, alice, "alice")
	joinRoom(t, s, roomID, bob, "bob")

	res := mustSucceed(t, s, "room.delete", map[string]any{"room_id": roomID}, nil)
	require.Equal(t, []events.Kind{events.AgentLeave, events.AgentLeave}, kinds(res.Events))

	left := make([]uuid.UUID, 0, len(res.Events))
	for _, ev := range res.Events {
		assert.Equal(t, roomID, ev.RoomID)
		payload, ok := ev.Payload.(memberResponse)
		require.True(t, ok)
		left = append(left, payload.ID)
	}
	assert.ElementsMatch(t, []uuid.UUID{alice, bob}, left)

	empty := createRoom(t, s, 1)
	res = mustSucceed(t, s, "room.delete", map[string]any{"room_id": empty}, nil)
	assert.Empty(t, res.Events)
}

func TestAgents_JoinAndLeave(t *testing.T) {
	s := newTestServer(t, nil)
	roomID := createRoom(t, s, 2)
	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()

	res := joinRoom(t, s, roomID, alice, "alice")
	require.Len(t, res.Events, 1)
	assert.Equal(t, events.AgentJoin, res.Events[0].Kind)
	assert.Equal(t, roomID, res.Events[0].RoomID)
	assert.Equal(t, joinEventPayload{AgentID: alice, RoomID: roomID}, res.Events[0].Payload)

	mustFail(t, s, "agent.join_room", map[string]any{"room_id": roomID, "id": alice, "data": map[string]any{"label": "again"}}, jsonrpc.CodeUnprocessable)

	joinRoom(t, s, roomID, bob, "bob")
	mustFail(t, s, "agent.join_room", map[string]any{"room_id": roomID, "id": carol, "data": map[string]any{"label": "carol"}}, jsonrpc.CodeUnprocessable)

	var member memberResponse
	mustSucceed(t, s, "agent.update", map[string]any{"room_id": roomID, "id": bob, "data": map[string]any{"label": "robert"}}, &member)
	assert.Equal(t, "robert", member.Data.Label)

	var members []memberResponse
	mustSucceed(t, s, "agent.list", map[string]any{"room_id": roomID}, &members)
	assert.Len(t, members, 2)

	res = mustSucceed(t, s, "agent.leave_room", map[string]any{"room_id": roomID, "id": alice}, &member)
	assert.Equal(t, "alice", member.Data.Label)
	require.Len(t, res.Events, 1)
	assert.Equal(t, events.AgentLeave, res.Events[0].Kind)

	mustFail(t, s, "agent.read", map[string]any{"room_id": roomID, "id": alice}, jsonrpc.CodeNotFound)
	mustFail(t, s, "agent.list", map[string]any{"room_id": uuid.New()}, jsonrpc.CodeNotFound)
}

func TestAgents_CreateDefaultsToSubject(t *testing.T) {
	s := newTestServer(t, nil)
	agentID := uuid.New()

	req := request(t, "agent.create", map[string]any{})
	res := s.Dispatch(context.Background(), Meta{Topic: topic.NewAgentOut(agentID)}, req)
	require.NotNil(t, res.Response)
	require.Nil(t, res.Response.Error)
	assert.Equal(t, agentResponse{ID: agentID}, res.Response.Result)

	mustFail(t, s, "agent.create", map[string]any{"id": agentID}, jsonrpc.CodeUnprocessable)
}

func TestTracks(t *testing.T) {
	s := newTestServer(t, nil)
	room1, room2 := createRoom(t, s, 5), createRoom(t, s, 5)
	owner, viewer := uuid.New(), uuid.New()

	mustFail(t, s, "track.create", map[string]any{
		"room_id": room1,
		"data":    map[string]any{"stream_id": "s", "track_id": "t", "owner_id": owner},
	}, jsonrpc.CodeNotFound)

	joinRoom(t, s, room1, owner, "owner")
	joinRoom(t, s, room2, owner, "owner")
	joinRoom(t, s, room1, viewer, "viewer")

	track, res := createTrack(t, s, room1, owner, "s1")
	assert.Equal(t, []events.Kind{events.TrackCreate, events.TrackCreate}, kinds(res.Events))
	assert.Equal(t, room1, res.Events[0].RoomID)
	assert.Equal(t, room2, res.Events[1].RoomID)
	assert.Empty(t, track.Data.Holders)

	var updated trackResponse
	res = mustSucceed(t, s, "track.register", map[string]any{
		"room_id": room1,
		"data":    map[string]any{"stream_id": "s1", "track_id": "audio-s1", "agent_id": viewer},
	}, &updated)
	assert.Equal(t, []holder{{ID: viewer}}, updated.Data.Holders)
	assert.Equal(t, []events.Kind{events.TrackUpdate, events.TrackUpdate}, kinds(res.Events))

	var listed []trackResponse
	mustSucceed(t, s, "track.list", map[string]any{"owner_id": owner}, &listed)
	require.Len(t, listed, 1)
	assert.Len(t, listed[0].Data.Holders, 1)

	mustSucceed(t, s, "track.unregister", map[string]any{
		"room_id": room1,
		"data":    map[string]any{"stream_id": "s1", "track_id": "audio-s1", "agent_id": viewer},
	}, &updated)
	assert.Empty(t, updated.Data.Holders)

	mustFail(t, s, "track.register", map[string]any{
		"room_id": room1,
		"data":    map[string]any{"stream_id": "nope", "track_id": "nope", "agent_id": viewer},
	}, jsonrpc.CodeNotFound)

	res = mustSucceed(t, s, "track.delete", map[string]any{"room_id": room1, "id": track.ID}, nil)
	assert.Equal(t, []events.Kind{events.TrackDelete, events.TrackDelete}, kinds(res.Events))

	mustSucceed(t, s, "track.list", map[string]any{"room_id": room1}, &listed)
	assert.Empty(t, listed)
}

func TestAgentDelete_CascadeOrder(t *testing.T) {
	s := newTestServer(t, nil)
	room1, room2 := createRoom(t, s, 5), createRoom(t, s, 5)
	owner, viewer := uuid.New(), uuid.New()

	joinRoom(t, s, room1, owner, "owner")
	joinRoom(t, s, room2, owner, "owner")
	joinRoom(t, s, room1, viewer, "viewer")
	t1, _ := createTrack(t, s, room1, owner, "s1")
	t2, _ := createTrack(t, s, room1, owner, "s2")

	res := mustSucceed(t, s, "agent.delete", map[string]any{"id": owner}, nil)

	require.Equal(t, []events.Kind{
		events.TrackDelete, events.TrackDelete,
		events.TrackDelete, events.TrackDelete,
		events.AgentDelete, events.AgentDelete,
	}, kinds(res.Events))

	assert.Equal(t, t1.ID, res.Events[0].Payload.(trackResponse).ID)
	assert.Equal(t, room1, res.Events[0].RoomID)
	assert.Equal(t, room2, res.Events[1].RoomID)
	assert.Equal(t, t2.ID, res.Events[2].Payload.(trackResponse).ID)
	assert.Equal(t, agentResponse{ID: owner}, res.Events[4].Payload)
	assert.Equal(t, room1, res.Events[4].RoomID)
	assert.Equal(t, room2, res.Events[5].RoomID)

	var members []memberResponse
	mustSucceed(t, s, "agent.list", map[string]any{"room_id": room1}, &members)
	require.Len(t, members, 1)
	assert.Equal(t, viewer, members[0].ID)

	mustFail(t, s, "agent.delete", map[string]any{"id": owner}, jsonrpc.CodeNotFound)
}

type failingStore struct {
	domain.Store
}

func (f failingStore) Transaction(ctx context.Context, fn func(tx domain.Tx) error) error {
	return f.Store.Transaction(ctx, func(tx domain.Tx) error {
		return fn(failingTx{Tx: tx})
	})
}

type failingTx struct {
	domain.Tx
}

func (failingTx) DeleteAgent(context.Context, uuid.UUID) (*domain.Agent, error) {
	return nil, errors.New("connection reset by peer")
}

func TestAgentDelete_FailureRollsBackAndEmitsNothing(t *testing.T) {
	store := memstore.New()
	s := newTestServer(t, store)
	roomID := createRoom(t, s, 5)
	owner := uuid.New()
	joinRoom(t, s, roomID, owner, "owner")
	createTrack(t, s, roomID, owner, "s1")

	broken := newTestServer(t, failingStore{Store: store})
	wire, res := invoke(t, broken, "agent.delete", map[string]any{"id": owner})
	require.NotNil(t, wire.Error)
	assert.Equal(t, jsonrpc.CodeInternalFailure, wire.Error.Code)
	assert.NotContains(t, wire.Error.Message, "connection reset")
	assert.Empty(t, res.Events)

	var listed []trackResponse
	mustSucceed(t, s, "track.list", map[string]any{"owner_id": owner}, &listed)
	assert.Len(t, listed, 1)

	var members []memberResponse
	mustSucceed(t, s, "agent.list", map[string]any{"room_id": roomID}, &members)
	assert.Len(t, members, 1)
}

type panickingStore struct {
	domain.Store
}

func (panickingStore) Transaction(context.Context, func(tx domain.Tx) error) error {
	panic("boom")
}

func TestDispatch_RecoversFromPanic(t *testing.T) {
	s := newTestServer(t, panickingStore{Store: memstore.New()})

	mustFail(t, s, "room.list", nil, jsonrpc.CodeInternalFailure)
}

func TestWebrtc(t *testing.T) {
	s := newTestServer(t, nil)
	roomID := createRoom(t, s, 5)
	alice, bob := uuid.New(), uuid.New()
	joinRoom(t, s, roomID, alice, "alice")

	offer := map[string]any{
		"room_id": roomID,
		"data": map[string]any{
			"jsep":   map[string]any{"type": "offer", "sdp": "v=0"},
			"from":   alice,
			"to":     bob,
			"tracks": []any{},
		},
	}
	mustFail(t, s, "webrtc.offer", offer, jsonrpc.CodeNotFound)

	joinRoom(t, s, roomID, bob, "bob")

	var result map[string]any
	res := mustSucceed(t, s, "webrtc.offer", offer, &result)
	assert.Empty(t, result)
	require.Len(t, res.Events, 1)
	assert.Equal(t, events.WebrtcOffer, res.Events[0].Kind)
	assert.Equal(t, bob, res.Events[0].To)

	dest, body, err := events.Encode(res.Events[0])
	require.NoError(t, err)
	assert.Equal(t, topic.NewAgentIn(bob), dest)
	assert.JSONEq(t, `{
		"jsonrpc": "2.0",
		"method": "webrtc.offer",
		"params": [{"room_id": "`+roomID.String()+`", "data": {"jsep": {"type": "offer", "sdp": "v=0"}, "from": "`+alice.String()+`", "tracks": []}}]
	}`, string(body))

	res = mustSucceed(t, s, "webrtc.candidate", map[string]any{
		"room_id": roomID,
		"data":    map[string]any{"candidate": map[string]any{"candidate": "a=1"}, "from": bob, "to": alice},
	}, nil)
	require.Len(t, res.Events, 1)
	assert.Equal(t, alice, res.Events[0].To)
	assert.Equal(t, candidateNotification{Candidate: json.RawMessage(`{"candidate":"a=1"}`), From: bob}, res.Events[0].Payload)

	mustFail(t, s, "webrtc.answer", map[string]any{"room_id": roomID, "data": map[string]any{"from": bob}}, json2.E_BAD_PARAMS)
}

func TestSubscriptionCreate(t *testing.T) {
	s := newTestServer(t, nil)
	roomID := createRoom(t, s, 5)

	var resp struct {
		Data struct {
			Topic string `json:"topic"`
		} `json:"data"`
	}
	mustSucceed(t, s, "subscription.create", map[string]any{
		"room_id":  roomID,
		"agent_id": uuid.New(),
		"data":     map[string]any{"resource": "tracks"},
	}, &resp)
	assert.Equal(t, "apps/signals.netology-group.services/api/v1/rooms/"+roomID.String()+"/tracks", resp.Data.Topic)

	mustFail(t, s, "subscription.create", map[string]any{
		"room_id":  roomID,
		"agent_id": uuid.New(),
		"data":     map[string]any{"resource": "messages"},
	}, json2.E_BAD_PARAMS)

	mustFail(t, s, "subscription.create", map[string]any{
		"room_id":  uuid.New(),
		"agent_id": uuid.New(),
		"data":     map[string]any{"resource": "agents"},
	}, jsonrpc.CodeNotFound)
}

func TestStateEvent_OfflineDeletesAgent(t *testing.T) {
	s := newTestServer(t, nil)
	roomID := createRoom(t, s, 5)
	agentID := uuid.New()
	joinRoom(t, s, roomID, agentID, "leaving")
	createTrack(t, s, roomID, agentID, "s1")

	notify := func(online bool, id uuid.UUID) Result {
		params, err := json.Marshal([]any{map[string]any{
			"type":    "state.update",
			"payload": map[string]any{"agent_id": id, "data": map[string]any{"online": online}},
		}})
		require.NoError(t, err)
		return s.Dispatch(context.Background(), Meta{Topic: topic.NewState(id)}, &jsonrpc.Request{
			JSONRPC: jsonrpc.Version,
			Method:  events.MethodEvent,
			Params:  params,
		})
	}

	res := notify(true, agentID)
	assert.Nil(t, res.Response)
	assert.Empty(t, res.Events)

	res = notify(false, agentID)
	assert.Nil(t, res.Response)
	assert.Equal(t, OutcomeOK, res.Outcome)
	assert.Equal(t, []events.Kind{events.TrackDelete, events.AgentDelete}, kinds(res.Events))

	res = notify(false, agentID)
	assert.Equal(t, OutcomeOK, res.Outcome)
	assert.Empty(t, res.Events)
}

func TestMethodsCoverSurface(t *testing.T) {
	assert.ElementsMatch(t, []string{
		"ping",
		"room.create", "room.read", "room.update", "room.delete", "room.list",
		"agent.create", "agent.read", "agent.update", "agent.delete", "agent.list",
		"agent.join_room", "agent.leave_room",
		"track.create", "track.delete", "track.register", "track.unregister", "track.list",
		"webrtc.offer", "webrtc.answer", "webrtc.candidate",
		"subscription.create",
		"event",
	}, Methods())
}
