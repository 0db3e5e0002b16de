package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hilthontt/signals/internal/domain"
)

func (t *tx) CreateRoom(ctx context.Context, room *domain.Room) error {
	return translate(t.db.Create(room).Error, domain.ErrRoomNotFound)
}

func (t *tx) GetRoom(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	var room domain.Room
	if err := t.db.Where("id = ?", id).First(&room).Error; err != nil {
		return nil, translate(err, domain.ErrRoomNotFound)
	}
	return &room, nil
}

func (t *tx) UpdateRoom(ctx context.Context, room *domain.Room) error {
	res := t.db.Model(&domain.Room{}).
		Where("id = ?", room.ID).
		Updates(map[string]any{
			"capacity":       room.Capacity,
			"available_from": room.AvailableFrom,
			"available_to":   room.AvailableTo,
		})
	if res.Error != nil {
		return translate(res.Error, domain.ErrRoomNotFound)
	}
	if res.RowsAffected == 0 {
		return domain.ErrRoomNotFound
	}
	return nil
}

func (t *tx) DeleteRoom(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	room, err := t.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := t.db.Where("room_id = ?", id).Delete(&domain.Member{}).Error; err != nil {
		return nil, translate(err, domain.ErrRoomNotFound)
	}
	if err := t.db.Where("id = ?", id).Delete(&domain.Room{}).Error; err != nil {
		return nil, translate(err, domain.ErrRoomNotFound)
	}

	return room, nil
}

func (t *tx) ListRooms(ctx context.Context) ([]domain.Room, error) {
	var rooms []domain.Room
	if err := t.db.Order("created_at").Find(&rooms).Error; err != nil {
		return nil, translate(err, domain.ErrRoomNotFound)
	}
	return rooms, nil
}
