package memstore

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/hilthontt/signals/internal/domain"
)

// Store keeps everything in process memory. Transactions are serialized and
// work on a copy of the data that replaces the original only on success.
type Store struct {
	state *state
	mu    *sync.Mutex
}

func New() *Store {
	return &Store{
		state: &state{},
		mu:    &sync.Mutex{},
	}
}

func (s *Store) Transaction(ctx context.Context, fn func(tx domain.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(&tx{state: work}); err != nil {
		return err
	}

	s.state = work
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close() error {
	return nil
}

type state struct {
	rooms   []domain.Room
	agents  []domain.Agent
	members []domain.Member
	tracks  []domain.LocalTrack
	holders []domain.RemoteTrack
}

func (s *state) clone() *state {
	return &state{
		rooms:   slices.Clone(s.rooms),
		agents:  slices.Clone(s.agents),
		members: slices.Clone(s.members),
		tracks:  slices.Clone(s.tracks),
		holders: slices.Clone(s.holders),
	}
}

type tx struct {
	state *state
}

var _ domain.Tx = (*tx)(nil)

func (t *tx) CreateRoom(ctx context.Context, room *domain.Room) error {
	if room == nil || room.ID == uuid.Nil {
		return domain.ErrInvalidInput
	}
	if t.roomIndex(room.ID) >= 0 {
		return domain.ErrAlreadyExists
	}
	t.state.rooms = append(t.state.rooms, *room)
	return nil
}

func (t *tx) GetRoom(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	i := t.roomIndex(id)
	if i < 0 {
		return nil, domain.ErrRoomNotFound
	}
	room := t.state.rooms[i]
	return &room, nil
}

func (t *tx) UpdateRoom(ctx context.Context, room *domain.Room) error {
	i := t.roomIndex(room.ID)
	if i < 0 {
		return domain.ErrRoomNotFound
	}
	t.state.rooms[i] = *room
	return nil
}

func (t *tx) DeleteRoom(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	i := t.roomIndex(id)
	if i < 0 {
		return nil, domain.ErrRoomNotFound
	}
	room := t.state.rooms[i]
	t.state.rooms = slices.Delete(t.state.rooms, i, i+1)
	t.state.members = slices.DeleteFunc(t.state.members, func(m domain.Member) bool {
		return m.RoomID == id
	})
	return &room, nil
}

func (t *tx) ListRooms(ctx context.Context) ([]domain.Room, error) {
	return slices.Clone(t.state.rooms), nil
}

func (t *tx) roomIndex(id uuid.UUID) int {
	return slices.IndexFunc(t.state.rooms, func(r domain.Room) bool { return r.ID == id })
}
