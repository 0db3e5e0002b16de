package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hilthontt/signals/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_TransactionCommits(t *testing.T) {
	ctx := context.Background()
	store := New()
	room := domain.NewRoom(5, time.Now(), time.Now().Add(time.Hour))

	err := store.Transaction(ctx, func(tx domain.Tx) error {
		return tx.CreateRoom(ctx, room)
	})
	require.NoError(t, err)

	err = store.Transaction(ctx, func(tx domain.Tx) error {
		got, err := tx.GetRoom(ctx, room.ID)
		require.NoError(t, err)
		assert.Equal(t, room.Capacity, got.Capacity)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_TransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	store := New()
	room := domain.NewRoom(5, time.Now(), time.Now().Add(time.Hour))
	boom := errors.New("boom")

	err := store.Transaction(ctx, func(tx domain.Tx) error {
		require.NoError(t, tx.CreateRoom(ctx, room))
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = store.Transaction(ctx, func(tx domain.Tx) error {
		_, err := tx.GetRoom(ctx, room.ID)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := New().Transaction(ctx, func(tx domain.Tx) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestStore_Members(t *testing.T) {
	ctx := context.Background()
	store := New()
	room := domain.NewRoom(5, time.Now(), time.Now().Add(time.Hour))
	agent := domain.NewAgent(uuid.New())

	err := store.Transaction(ctx, func(tx domain.Tx) error {
		require.NoError(t, tx.CreateRoom(ctx, room))
		require.ErrorIs(t, tx.CreateMember(ctx, domain.NewMember(agent.ID, room.ID, "web")), domain.ErrAgentNotFound)
		require.NoError(t, tx.CreateAgent(ctx, agent))
		require.NoError(t, tx.CreateMember(ctx, domain.NewMember(agent.ID, room.ID, "web")))
		require.ErrorIs(t, tx.CreateMember(ctx, domain.NewMember(agent.ID, room.ID, "web")), domain.ErrAlreadyInRoom)

		ids, err := tx.AgentRoomIDs(ctx, agent.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{room.ID}, ids)

		_, err = tx.DeleteRoom(ctx, room.ID)
		require.NoError(t, err)

		members, err := tx.ListMembers(ctx, room.ID)
		require.NoError(t, err)
		assert.Empty(t, members)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_Tracks(t *testing.T) {
	ctx := context.Background()
	store := New()
	roomA := domain.NewRoom(5, time.Now(), time.Now().Add(time.Hour))
	roomB := domain.NewRoom(5, time.Now(), time.Now().Add(time.Hour))
	owner := domain.NewAgent(uuid.New())
	viewer := domain.NewAgent(uuid.New())

	track := &domain.LocalTrack{ID: uuid.New(), StreamID: "s1", TrackID: "t1", Device: "camera", Kind: "video", Label: "cam", OwnerID: owner.ID}

	err := store.Transaction(ctx, func(tx domain.Tx) error {
		require.NoError(t, tx.CreateRoom(ctx, roomA))
		require.NoError(t, tx.CreateRoom(ctx, roomB))
		require.NoError(t, tx.CreateAgent(ctx, owner))
		require.NoError(t, tx.CreateAgent(ctx, viewer))
		require.NoError(t, tx.CreateMember(ctx, domain.NewMember(owner.ID, roomA.ID, "owner")))
		require.NoError(t, tx.CreateTrack(ctx, track))
		require.NoError(t, tx.AddHolder(ctx, domain.NewRemoteTrack(track.ID, viewer.ID)))

		found, err := tx.FindTrack(ctx, "s1", "t1")
		require.NoError(t, err)
		assert.Equal(t, track.ID, found.ID)

		inA, err := tx.ListTracks(ctx, domain.TrackFilter{RoomID: roomA.ID})
		require.NoError(t, err)
		assert.Len(t, inA, 1)

		inB, err := tx.ListTracks(ctx, domain.TrackFilter{RoomID: roomB.ID})
		require.NoError(t, err)
		assert.Empty(t, inB)

		holders, err := tx.Holders(ctx, track.ID)
		require.NoError(t, err)
		require.Len(t, holders, 1)
		assert.Equal(t, viewer.ID, holders[0].AgentID)

		_, err = tx.DeleteTrack(ctx, track.ID)
		require.NoError(t, err)

		holders, err = tx.Holders(ctx, track.ID)
		require.NoError(t, err)
		assert.Empty(t, holders)
		return nil
	})
	require.NoError(t, err)
}
