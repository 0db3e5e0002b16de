package memstore

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/hilthontt/signals/internal/domain"
)

func (t *tx) CreateTrack(ctx context.Context, track *domain.LocalTrack) error {
	if track == nil || track.ID == uuid.Nil {
		return domain.ErrInvalidInput
	}
	if t.trackIndex(track.ID) >= 0 {
		return domain.ErrAlreadyExists
	}
	if t.agentIndex(track.OwnerID) < 0 {
		return domain.ErrAgentNotFound
	}
	t.state.tracks = append(t.state.tracks, *track)
	return nil
}

func (t *tx) GetTrack(ctx context.Context, id uuid.UUID) (*domain.LocalTrack, error) {
	i := t.trackIndex(id)
	if i < 0 {
		return nil, domain.ErrTrackNotFound
	}
	track := t.state.tracks[i]
	return &track, nil
}

func (t *tx) FindTrack(ctx context.Context, streamID, trackID string) (*domain.LocalTrack, error) {
	i := slices.IndexFunc(t.state.tracks, func(lt domain.LocalTrack) bool {
		return lt.StreamID == streamID && lt.TrackID == trackID
	})
	if i < 0 {
		return nil, domain.ErrTrackNotFound
	}
	track := t.state.tracks[i]
	return &track, nil
}

func (t *tx) DeleteTrack(ctx context.Context, id uuid.UUID) (*domain.LocalTrack, error) {
	i := t.trackIndex(id)
	if i < 0 {
		return nil, domain.ErrTrackNotFound
	}
	track := t.state.tracks[i]
	t.state.tracks = slices.Delete(t.state.tracks, i, i+1)
	t.state.holders = slices.DeleteFunc(t.state.holders, func(h domain.RemoteTrack) bool {
		return h.LocalTrackID == id
	})
	return &track, nil
}

func (t *tx) ListTracks(ctx context.Context, filter domain.TrackFilter) ([]domain.LocalTrack, error) {
	var tracks []domain.LocalTrack
	for _, lt := range t.state.tracks {
		if filter.OwnerID != uuid.Nil && lt.OwnerID != filter.OwnerID {
			continue
		}
		if filter.RoomID != uuid.Nil && t.memberIndex(filter.RoomID, lt.OwnerID) < 0 {
			continue
		}
		tracks = append(tracks, lt)
	}
	return tracks, nil
}

func (t *tx) TracksByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.LocalTrack, error) {
	return t.ListTracks(ctx, domain.TrackFilter{OwnerID: ownerID})
}

func (t *tx) AddHolder(ctx context.Context, holder *domain.RemoteTrack) error {
	if holder == nil {
		return domain.ErrInvalidInput
	}
	if t.trackIndex(holder.LocalTrackID) < 0 {
		return domain.ErrTrackNotFound
	}
	if t.holderIndex(holder.LocalTrackID, holder.AgentID) >= 0 {
		return domain.ErrAlreadyExists
	}
	t.state.holders = append(t.state.holders, *holder)
	return nil
}

func (t *tx) RemoveHolder(ctx context.Context, localTrackID, agentID uuid.UUID) error {
	i := t.holderIndex(localTrackID, agentID)
	if i < 0 {
		return domain.ErrTrackNotFound
	}
	t.state.holders = slices.Delete(t.state.holders, i, i+1)
	return nil
}

func (t *tx) RemoveHoldersByAgent(ctx context.Context, agentID uuid.UUID) error {
	t.state.holders = slices.DeleteFunc(t.state.holders, func(h domain.RemoteTrack) bool {
		return h.AgentID == agentID
	})
	return nil
}

func (t *tx) Holders(ctx context.Context, localTrackID uuid.UUID) ([]domain.RemoteTrack, error) {
	var holders []domain.RemoteTrack
	for _, h := range t.state.holders {
		if h.LocalTrackID == localTrackID {
			holders = append(holders, h)
		}
	}
	return holders, nil
}

func (t *tx) trackIndex(id uuid.UUID) int {
	return slices.IndexFunc(t.state.tracks, func(lt domain.LocalTrack) bool { return lt.ID == id })
}

func (t *tx) holderIndex(localTrackID, agentID uuid.UUID) int {
	return slices.IndexFunc(t.state.holders, func(h domain.RemoteTrack) bool {
		return h.LocalTrackID == localTrackID && h.AgentID == agentID
	})
}
