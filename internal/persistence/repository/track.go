package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hilthontt/signals/internal/domain"
	"gorm.io/gorm"
)

func (t *tx) CreateTrack(ctx context.Context, track *domain.LocalTrack) error {
	ok, err := t.exists(&domain.Agent{}, "id = ?", track.OwnerID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrAgentNotFound
	}
	return translate(t.db.Create(track).Error, domain.ErrTrackNotFound)
}

func (t *tx) GetTrack(ctx context.Context, id uuid.UUID) (*domain.LocalTrack, error) {
	var track domain.LocalTrack
	if err := t.db.Where("id = ?", id).First(&track).Error; err != nil {
		return nil, translate(err, domain.ErrTrackNotFound)
	}
	return &track, nil
}

func (t *tx) FindTrack(ctx context.Context, streamID, trackID string) (*domain.LocalTrack, error) {
	var track domain.LocalTrack
	err := t.db.Where("stream_id = ? AND track_id = ?", streamID, trackID).First(&track).Error
	if err != nil {
		return nil, translate(err, domain.ErrTrackNotFound)
	}
	return &track, nil
}

func (t *tx) DeleteTrack(ctx context.Context, id uuid.UUID) (*domain.LocalTrack, error) {
	track, err := t.GetTrack(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := t.db.Where("local_track_id = ?", id).Delete(&domain.RemoteTrack{}).Error; err != nil {
		return nil, translate(err, domain.ErrTrackNotFound)
	}
	if err := t.db.Where("id = ?", id).Delete(&domain.LocalTrack{}).Error; err != nil {
		return nil, translate(err, domain.ErrTrackNotFound)
	}
	return track, nil
}

func (t *tx) ListTracks(ctx context.Context, filter domain.TrackFilter) ([]domain.LocalTrack, error) {
	query := t.db.Model(&domain.LocalTrack{})

	if filter.OwnerID != uuid.Nil {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.RoomID != uuid.Nil {
		members := t.db.Session(&gorm.Session{NewDB: true}).
			Model(&domain.Member{}).
			Select("agent_id").
			Where("room_id = ?", filter.RoomID)
		query = query.Where("owner_id IN (?)", members)
	}

	var tracks []domain.LocalTrack
	if err := query.Order("id").Find(&tracks).Error; err != nil {
		return nil, translate(err, domain.ErrTrackNotFound)
	}
	return tracks, nil
}

func (t *tx) TracksByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.LocalTrack, error) {
	return t.ListTracks(ctx, domain.TrackFilter{OwnerID: ownerID})
}

func (t *tx) AddHolder(ctx context.Context, holder *domain.RemoteTrack) error {
	ok, err := t.exists(&domain.LocalTrack{}, "id = ?", holder.LocalTrackID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrTrackNotFound
	}

	ok, err = t.exists(&domain.RemoteTrack{}, "local_track_id = ? AND agent_id = ?", holder.LocalTrackID, holder.AgentID)
	if err != nil {
		return err
	}
	if ok {
		return domain.ErrAlreadyExists
	}
	return translate(t.db.Create(holder).Error, domain.ErrTrackNotFound)
}

func (t *tx) RemoveHolder(ctx context.Context, localTrackID, agentID uuid.UUID) error {
	res := t.db.Where("local_track_id = ? AND agent_id = ?", localTrackID, agentID).Delete(&domain.RemoteTrack{})
	if res.Error != nil {
		return translate(res.Error, domain.ErrTrackNotFound)
	}
	if res.RowsAffected == 0 {
		return domain.ErrTrackNotFound
	}
	return nil
}

func (t *tx) RemoveHoldersByAgent(ctx context.Context, agentID uuid.UUID) error {
	err := t.db.Where("agent_id = ?", agentID).Delete(&domain.RemoteTrack{}).Error
	return translate(err, domain.ErrTrackNotFound)
}

func (t *tx) Holders(ctx context.Context, localTrackID uuid.UUID) ([]domain.RemoteTrack, error) {
	var holders []domain.RemoteTrack
	if err := t.db.Where("local_track_id = ?", localTrackID).Order("id").Find(&holders).Error; err != nil {
		return nil, translate(err, domain.ErrTrackNotFound)
	}
	return holders, nil
}
