package database

import (
	"context"
	"sync"

	"partyserver/models"
)

// MemoryStore keeps games in process. Each game has its own lock, so
// updates to different games never wait on each other; the map lock is
// only held to find or insert an entry.
type MemoryStore struct {
	mu    sync.RWMutex
	games map[string]*memoryEntry
}

type memoryEntry struct {
	mu   sync.Mutex
	game *models.Game
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{games: make(map[string]*memoryEntry)}
}

func (s *MemoryStore) entry(id string) (*memoryEntry, error) {
	s.mu.RLock()
	e, ok := s.games[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrGameNotFound
	}
	return e, nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id string) (*models.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game.Clone(), nil
}

func (s *MemoryStore) Insert(ctx context.Context, game *models.Game) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if game.ID == "" {
		game.ID = NewGameID()
	}
	game.Normalize()
	stored := game.Clone()

	s.mu.Lock()
	s.games[game.ID] = &memoryEntry{game: stored}
	s.mu.Unlock()
	return nil
}

// update runs fn with the game locked. fn reports whether it changed the game.
func (s *MemoryStore) update(ctx context.Context, id string, fn func(g *models.Game) bool) (*models.Game, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	e, err := s.entry(id)
	if err != nil {
		return nil, false, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	changed := fn(e.game)
	return e.game.Clone(), changed, nil
}

func (s *MemoryStore) AddPlayer(ctx context.Context, id, player string) (*models.Game, error) {
	game, _, err := s.update(ctx, id, func(g *models.Game) bool {
		if g.HasPlayer(player) {
			return false
		}
		g.Players = append(g.Players, player)
		return true
	})
	return game, err
}

func (s *MemoryStore) AppendRound(ctx context.Context, id string, round models.Round) (*models.Game, error) {
	round = round.Clone()
	game, changed, err := s.update(ctx, id, func(g *models.Game) bool {
		for _, p := range round.Players {
			if !g.HasPlayer(p) {
				return false
			}
		}
		g.Rounds = append(g.Rounds, round)
		return true
	})
	if err == nil && !changed {
		return game, ErrNoChange
	}
	return game, err
}

func (s *MemoryStore) AdvanceRound(ctx context.Context, id string) (*models.Game, error) {
	game, _, err := s.update(ctx, id, func(g *models.Game) bool {
		if g.CurrentRound >= len(g.Rounds) {
			return false
		}
		g.CurrentRound++
		return true
	})
	return game, err
}

func (s *MemoryStore) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.games)), nil
}
