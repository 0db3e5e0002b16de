package domain

import (
	"context"

	"github.com/google/uuid"
)

// Store runs fn inside a single transaction. If fn returns an error nothing
// it did is kept.
type Store interface {
	Transaction(ctx context.Context, fn func(tx Tx) error) error
	Ping(ctx context.Context) error
	Close() error
}

type Tx interface {
	RoomRepository
	AgentRepository
	MemberRepository
	TrackRepository
}

type RoomRepository interface {
	CreateRoom(ctx context.Context, room *Room) error
	GetRoom(ctx context.Context, id uuid.UUID) (*Room, error)
	UpdateRoom(ctx context.Context, room *Room) error
	DeleteRoom(ctx context.Context, id uuid.UUID) (*Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
}

type AgentRepository interface {
	CreateAgent(ctx context.Context, agent *Agent) error
	GetAgent(ctx context.Context, id uuid.UUID) (*Agent, error)
	DeleteAgent(ctx context.Context, id uuid.UUID) (*Agent, error)
}

type MemberRepository interface {
	CreateMember(ctx context.Context, member *Member) error
	GetMember(ctx context.Context, roomID, agentID uuid.UUID) (*Member, error)
	UpdateMember(ctx context.Context, member *Member) error
	DeleteMember(ctx context.Context, roomID, agentID uuid.UUID) (*Member, error)
	ListMembers(ctx context.Context, roomID uuid.UUID) ([]Member, error)
	// AgentRoomIDs lists the rooms an agent is in, ordered by join time.
	AgentRoomIDs(ctx context.Context, agentID uuid.UUID) ([]uuid.UUID, error)
}

type TrackRepository interface {
	CreateTrack(ctx context.Context, track *LocalTrack) error
	GetTrack(ctx context.Context, id uuid.UUID) (*LocalTrack, error)
	FindTrack(ctx context.Context, streamID, trackID string) (*LocalTrack, error)
	// DeleteTrack removes the track together with its holders.
	DeleteTrack(ctx context.Context, id uuid.UUID) (*LocalTrack, error)
	ListTracks(ctx context.Context, filter TrackFilter) ([]LocalTrack, error)
	TracksByOwner(ctx context.Context, ownerID uuid.UUID) ([]LocalTrack, error)

	AddHolder(ctx context.Context, holder *RemoteTrack) error
	RemoveHolder(ctx context.Context, localTrackID, agentID uuid.UUID) error
	RemoveHoldersByAgent(ctx context.Context, agentID uuid.UUID) error
	Holders(ctx context.Context, localTrackID uuid.UUID) ([]RemoteTrack, error)
}
