package domain

import (
	"github.com/google/uuid"
)

// LocalTrack is a media track published by its owner.
type LocalTrack struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StreamID string    `gorm:"not null" json:"stream_id"`
	TrackID  string    `gorm:"not null" json:"track_id"`
	Device   string    `gorm:"not null" json:"device"`
	Kind     string    `gorm:"not null" json:"kind"`
	Label    string    `gorm:"not null" json:"label"`
	OwnerID  uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
}

func (LocalTrack) TableName() string {
	return "local_track"
}

// RemoteTrack records that an agent holds a copy of someone's local track.
type RemoteTrack struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LocalTrackID uuid.UUID `gorm:"type:uuid;not null;index" json:"local_track_id"`
	AgentID      uuid.UUID `gorm:"type:uuid;not null;index" json:"agent_id"`
}

func (RemoteTrack) TableName() string {
	return "remote_track"
}

func NewRemoteTrack(localTrackID, agentID uuid.UUID) *RemoteTrack {
	return &RemoteTrack{
		ID:           uuid.New(),
		LocalTrackID: localTrackID,
		AgentID:      agentID,
	}
}

// TrackFilter narrows track listings. Zero fields are ignored.
type TrackFilter struct {
	RoomID  uuid.UUID
	OwnerID uuid.UUID
}
