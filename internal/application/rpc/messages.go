package rpc

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hilthontt/signals/internal/domain"
	"github.com/hilthontt/signals/internal/protocol/topic"
)

// Rooms

type roomCreateParams struct {
	Data struct {
		Capacity      int        `json:"capacity"`
		AvailableFrom *time.Time `json:"available_from"`
		AvailableTo   *time.Time `json:"available_to"`
	} `json:"data"`
}

type roomIDParams struct {
	RoomID uuid.UUID `json:"room_id"`
}

type roomUpdateParams struct {
	RoomID uuid.UUID `json:"room_id"`
	Data   struct {
		Capacity      *int       `json:"capacity"`
		AvailableFrom *time.Time `json:"available_from"`
		AvailableTo   *time.Time `json:"available_to"`
	} `json:"data"`
}

type roomData struct {
	Capacity      int       `json:"capacity"`
	AvailableFrom time.Time `json:"available_from"`
	AvailableTo   time.Time `json:"available_to"`
	CreatedAt     time.Time `json:"created_at"`
}

type roomResponse struct {
	ID   uuid.UUID `json:"id"`
	Data roomData  `json:"data"`
}

func newRoomResponse(r *domain.Room) roomResponse {
	return roomResponse{
		ID: r.ID,
		Data: roomData{
			Capacity:      r.Capacity,
			AvailableFrom: r.AvailableFrom,
			AvailableTo:   r.AvailableTo,
			CreatedAt:     r.CreatedAt,
		},
	}
}

// Agents

type agentIDParams struct {
	ID uuid.UUID `json:"id"`
}

type agentInRoomParams struct {
	RoomID uuid.UUID `json:"room_id"`
	ID     uuid.UUID `json:"id"`
}

type agentJoinParams struct {
	RoomID uuid.UUID `json:"room_id"`
	ID     uuid.UUID `json:"id"`
	Data   struct {
		Label string `json:"label"`
	} `json:"data"`
}

type agentResponse struct {
	ID uuid.UUID `json:"id"`
}

type memberData struct {
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
}

type memberResponse struct {
	ID   uuid.UUID  `json:"id"`
	Data memberData `json:"data"`
}

func newMemberResponse(m *domain.Member) memberResponse {
	return memberResponse{
		ID:   m.AgentID,
		Data: memberData{Label: m.Label, CreatedAt: m.CreatedAt},
	}
}

type joinEventPayload struct {
	AgentID uuid.UUID `json:"agent_id"`
	RoomID  uuid.UUID `json:"room_id"`
}

// Tracks

type trackCreateParams struct {
	RoomID uuid.UUID `json:"room_id"`
	Data   struct {
		StreamID string    `json:"stream_id"`
		TrackID  string    `json:"track_id"`
		Device   string    `json:"device"`
		Kind     string    `json:"kind"`
		Label    string    `json:"label"`
		OwnerID  uuid.UUID `json:"owner_id"`
	} `json:"data"`
}

type trackInRoomParams struct {
	RoomID uuid.UUID `json:"room_id"`
	ID     uuid.UUID `json:"id"`
}

type trackRegisterParams struct {
	RoomID uuid.UUID `json:"room_id"`
	Data   struct {
		StreamID string    `json:"stream_id"`
		TrackID  string    `json:"track_id"`
		AgentID  uuid.UUID `json:"agent_id"`
	} `json:"data"`
}

type trackListParams struct {
	RoomID  uuid.UUID `json:"room_id"`
	OwnerID uuid.UUID `json:"owner_id"`
}

type holder struct {
	ID uuid.UUID `json:"id"`
}

type trackData struct {
	StreamID string    `json:"stream_id"`
	TrackID  string    `json:"track_id"`
	Device   string    `json:"device"`
	Kind     string    `json:"kind"`
	Label    string    `json:"label"`
	OwnerID  uuid.UUID `json:"owner_id"`
	Holders  []holder  `json:"holders"`
}

type trackResponse struct {
	ID   uuid.UUID `json:"id"`
	Data trackData `json:"data"`
}

func newTrackResponse(t *domain.LocalTrack, holders []domain.RemoteTrack) trackResponse {
	resp := trackResponse{
		ID: t.ID,
		Data: trackData{
			StreamID: t.StreamID,
			TrackID:  t.TrackID,
			Device:   t.Device,
			Kind:     t.Kind,
			Label:    t.Label,
			OwnerID:  t.OwnerID,
			Holders:  make([]holder, 0, len(holders)),
		},
	}
	for _, h := range holders {
		resp.Data.Holders = append(resp.Data.Holders, holder{ID: h.AgentID})
	}
	return resp
}

// WebRTC

type trackRef struct {
	ID uuid.UUID `json:"id"`
}

type webrtcParams[T any] struct {
	RoomID uuid.UUID `json:"room_id"`
	Data   T         `json:"data"`
}

type offerData struct {
	Jsep   json.RawMessage `json:"jsep"`
	From   uuid.UUID       `json:"from"`
	To     uuid.UUID       `json:"to"`
	Tracks []trackRef      `json:"tracks"`
}

type offerNotification struct {
	Jsep   json.RawMessage `json:"jsep"`
	From   uuid.UUID       `json:"from"`
	Tracks []trackRef      `json:"tracks"`
}

type answerData struct {
	Jsep json.RawMessage `json:"jsep"`
	From uuid.UUID       `json:"from"`
	To   uuid.UUID       `json:"to"`
}

type answerNotification struct {
	Jsep json.RawMessage `json:"jsep"`
	From uuid.UUID       `json:"from"`
}

type candidateData struct {
	Candidate json.RawMessage `json:"candidate"`
	From      uuid.UUID       `json:"from"`
	To        uuid.UUID       `json:"to"`
}

type candidateNotification struct {
	Candidate json.RawMessage `json:"candidate"`
	From      uuid.UUID       `json:"from"`
}

// Subscriptions

type subscriptionCreateParams struct {
	RoomID  uuid.UUID `json:"room_id"`
	AgentID uuid.UUID `json:"agent_id"`
	Data    struct {
		Resource *topic.Resource `json:"resource"`
	} `json:"data"`
}

type subscriptionResponse struct {
	Data struct {
		Topic topic.App `json:"topic"`
	} `json:"data"`
}

// State

type stateEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type stateUpdatePayload struct {
	AgentID uuid.UUID `json:"agent_id"`
	Data    struct {
		Online *bool `json:"online"`
	} `json:"data"`
}
