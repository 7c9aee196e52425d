package database

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"partyserver/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame(t *testing.T, s *MemoryStore, players ...string) *models.Game {
	t.Helper()
	g := &models.Game{JoinCode: "1234", Players: players}
	require.NoError(t, s.Insert(context.Background(), g))
	return g
}

func TestNewGameID(t *testing.T) {
	id := NewGameID()
	assert.Len(t, id, 24)
	assert.True(t, ValidGameID(id))
	assert.NotEqual(t, id, NewGameID())
}

func TestValidGameID(t *testing.T) {
	assert.True(t, ValidGameID("5f43a1b2c3d4e5f6a7b8c9d0"))
	assert.False(t, ValidGameID(""))
	assert.False(t, ValidGameID("not-an-id"))
	assert.False(t, ValidGameID("5f43a1b2c3d4e5f6a7b8c9d"))  // 23文字
	assert.False(t, ValidGameID("zz43a1b2c3d4e5f6a7b8c9d0")) // 16進数以外
}

func TestMemoryStoreInsertNormalizes(t *testing.T) {
	s := NewMemoryStore()
	g := newTestGame(t, s)

	got, err := s.FindByID(context.Background(), g.ID)
	require.NoError(t, err)
	assert.Equal(t, "1234", got.JoinCode)
	assert.NotNil(t, got.Players)
	assert.NotNil(t, got.Rounds)
	assert.Equal(t, 0, got.CurrentRound)
}

func TestMemoryStoreFindReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	g := newTestGame(t, s, "Kristin")

	got, err := s.FindByID(context.Background(), g.ID)
	require.NoError(t, err)
	got.Players[0] = "changed"

	again, err := s.FindByID(context.Background(), g.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Kristin"}, again.Players)
}

func TestMemoryStoreNotFound(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	id := NewGameID()

	_, err := s.FindByID(ctx, id)
	assert.ErrorIs(t, err, ErrGameNotFound)
	_, err = s.AddPlayer(ctx, id, "Jeff")
	assert.ErrorIs(t, err, ErrGameNotFound)
	_, err = s.AppendRound(ctx, id, models.Round{})
	assert.ErrorIs(t, err, ErrGameNotFound)
	_, err = s.AdvanceRound(ctx, id)
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestMemoryStoreAddPlayerIdempotent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	g := newTestGame(t, s)

	for i := 0; i < 3; i++ {
		got, err := s.AddPlayer(ctx, g.ID, "Kristin")
		require.NoError(t, err)
		assert.Equal(t, []string{"Kristin"}, got.Players)
	}
}

func TestMemoryStoreConcurrentAddPlayer(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	g := newTestGame(t, s)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.AddPlayer(ctx, g.ID, fmt.Sprintf("player-%d", i))
			assert.NoError(t, err)
			// 同じ名前での重複参加
			_, err = s.AddPlayer(ctx, g.ID, fmt.Sprintf("player-%d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := s.FindByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Len(t, got.Players, n)
	for i := 0; i < n; i++ {
		assert.Contains(t, got.Players, fmt.Sprintf("player-%d", i))
	}
}

func TestMemoryStoreAppendRound(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	g := newTestGame(t, s, "Kristin", "Jeff")

	got, err := s.AppendRound(ctx, g.ID, models.Round{ID: "r1", Players: []string{"Kristin", "Jeff"}, Judge: "Jeff"})
	require.NoError(t, err)
	require.Len(t, got.Rounds, 1)
	assert.Equal(t, "Jeff", got.Rounds[0].Judge)

	got, err = s.AppendRound(ctx, g.ID, models.Round{ID: "r2", Players: []string{"Kristin", "Mallory"}})
	assert.ErrorIs(t, err, ErrNoChange)
	require.NotNil(t, got)
	assert.Len(t, got.Rounds, 1)
}

func TestMemoryStoreAdvanceRoundClamps(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	g := newTestGame(t, s, "Kristin")

	// ラウンドが無い場合は進まない
	got, err := s.AdvanceRound(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CurrentRound)
	assert.True(t, got.Finished())

	for i := 0; i < 2; i++ {
		_, err = s.AppendRound(ctx, g.ID, models.Round{ID: fmt.Sprint(i), Players: []string{"Kristin"}})
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.AdvanceRound(ctx, g.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err = s.FindByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CurrentRound)
	assert.True(t, got.Finished())
}

func TestMemoryStoreCount(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	newTestGame(t, s)
	newTestGame(t, s)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestMemoryStoreCanceledContext(t *testing.T) {
	s := NewMemoryStore()
	g := newTestGame(t, s)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.AddPlayer(ctx, g.ID, "Jeff")
	assert.ErrorIs(t, err, context.Canceled)
}
