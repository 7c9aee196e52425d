// Package game は参加とラウンド進行のためのゲーム状態の変更をまとめます。
// 同じゲームに対する同時操作は、ストア側の1件単位のアトミック更新で整合性を保つ
package game

import (
	"context"
	"errors"
	"strings"

	"partyserver/database"
	"partyserver/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store is the keyed document collection the coordinator mutates.
// Every update must be a single atomic operation on one game.
type Store interface {
	FindByID(ctx context.Context, id string) (*models.Game, error)
	Insert(ctx context.Context, game *models.Game) error
	AddPlayer(ctx context.Context, id, player string) (*models.Game, error)
	AppendRound(ctx context.Context, id string, round models.Round) (*models.Game, error)
	AdvanceRound(ctx context.Context, id string) (*models.Game, error)
	Count(ctx context.Context) (int64, error)
}

type Coordinator struct {
	store  Store
	logger *zap.Logger
}

func NewCoordinator(store Store, logger *zap.Logger) *Coordinator {
	return &Coordinator{store: store, logger: logger}
}

// CreateGame は新しいゲームを作成します。playersは任意で、重複と空文字は除かれる
func (c *Coordinator) CreateGame(ctx context.Context, joincode string, players ...string) (*models.Game, error) {
	if strings.TrimSpace(joincode) == "" {
		return nil, validationError("game must have a non-empty join code")
	}

	game := &models.Game{
		JoinCode:     joincode,
		Players:      []string{},
		Rounds:       []models.Round{},
		CurrentRound: 0,
	}
	for _, p := range players {
		if strings.TrimSpace(p) == "" || game.HasPlayer(p) {
			continue
		}
		game.Players = append(game.Players, p)
	}

	if err := c.store.Insert(ctx, game); err != nil {
		return nil, storeError("create game", joincode, err)
	}
	c.logger.Info("Game created", zap.String("game_id", game.ID), zap.String("joincode", joincode), zap.Strings("players", game.Players))
	return game, nil
}

func (c *Coordinator) GetGame(ctx context.Context, id string) (*models.Game, error) {
	if !database.ValidGameID(id) {
		return nil, ErrInvalidID
	}
	game, err := c.store.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("get game", id, err)
	}
	return game, nil
}

// JoinGame はプレイヤーを集合に追加します。同じ名前での再参加は何もしない
func (c *Coordinator) JoinGame(ctx context.Context, id, player string) (*models.Game, error) {
	if !database.ValidGameID(id) {
		return nil, ErrInvalidID
	}
	if strings.TrimSpace(player) == "" {
		return nil, validationError("player name must not be empty")
	}

	game, err := c.store.AddPlayer(ctx, id, player)
	if err != nil {
		return nil, storeError("join game", id, err)
	}
	c.logger.Info("Player joined game", zap.String("game_id", id), zap.String("player", player), zap.Int("players", len(game.Players)))
	return game, nil
}

// AddRound はラウンドを末尾に追加します。審判は参加者に含まれ、参加者は全員ゲームに参加済みであること
func (c *Coordinator) AddRound(ctx context.Context, id string, req models.AddRoundRequest) (*models.Game, error) {
	if !database.ValidGameID(id) {
		return nil, ErrInvalidID
	}

	round := models.Round{
		ID:      uuid.New().String(),
		Players: []string{},
		Judge:   req.Judge,
		Prompt:  req.Prompt,
	}
	for _, p := range req.Players {
		if strings.TrimSpace(p) == "" {
			return nil, validationError("round players must not be empty")
		}
		if !containsString(round.Players, p) {
			round.Players = append(round.Players, p)
		}
	}
	if !round.JudgeIsPlayer() {
		return nil, validationError("judge %q is not one of the round players", round.Judge)
	}

	game, err := c.store.AppendRound(ctx, id, round)
	if errors.Is(err, database.ErrNoChange) {
		return nil, validationError("every round player must have joined game %s", id)
	}
	if err != nil {
		return nil, storeError("add round", id, err)
	}
	c.logger.Info("Round added", zap.String("game_id", id), zap.String("round_id", round.ID), zap.Int("rounds", len(game.Rounds)))
	return game, nil
}

// AdvanceRound はcurrentRoundを1つ進めます。ラウンド数に達している場合は変更しない
func (c *Coordinator) AdvanceRound(ctx context.Context, id string) (*models.Game, error) {
	if !database.ValidGameID(id) {
		return nil, ErrInvalidID
	}
	game, err := c.store.AdvanceRound(ctx, id)
	if err != nil {
		return nil, storeError("advance round", id, err)
	}
	c.logger.Info("Round advanced", zap.String("game_id", id), zap.Int("current_round", game.CurrentRound), zap.Bool("finished", game.Finished()))
	return game, nil
}

// Count returns the number of stored games.
func (c *Coordinator) Count(ctx context.Context) (int64, error) {
	n, err := c.store.Count(ctx)
	if err != nil {
		return 0, storeError("count games", "", err)
	}
	return n, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
