package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"partyserver/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

var (
	// ErrGameNotFound is returned when no game has the requested id.
	ErrGameNotFound = errors.New("game not found")
	// ErrNoChange is returned when a conditional update matched the game
	// but its precondition did not hold.
	ErrNoChange = errors.New("update precondition not met")
)

// NewGameID はストアが払い出す24文字の16進IDを生成します。
func NewGameID() string {
	return primitive.NewObjectID().Hex()
}

// ValidGameID reports whether id is a well-formed object id.
func ValidGameID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

// GameStore はgamesテーブルへのアクセスをまとめたもの。
// 更新はすべて1文の条件付きUPDATEで行い、アプリ側での読み込み→書き戻しはしない
type GameStore struct {
	db *gorm.DB
}

func NewGameStore(db *gorm.DB) *GameStore {
	return &GameStore{db: db}
}

func (s *GameStore) FindByID(ctx context.Context, id string) (*models.Game, error) {
	var game models.Game
	if err := s.db.WithContext(ctx).First(&game, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	game.Normalize()
	return &game, nil
}

func (s *GameStore) Insert(ctx context.Context, game *models.Game) error {
	if game.ID == "" {
		game.ID = NewGameID()
	}
	game.Normalize()
	return s.db.WithContext(ctx).Create(game).Error
}

// AddPlayer はplayersに名前が無い場合のみ追加します（$addToSet相当）。
func (s *GameStore) AddPlayer(ctx context.Context, id, player string) (*models.Game, error) {
	res := s.db.WithContext(ctx).Model(&models.Game{}).
		Where("id = ? AND NOT (players @> jsonb_build_array(?::text))", id, player).
		Update("players", gorm.Expr("players || jsonb_build_array(?::text)", player))
	if res.Error != nil {
		return nil, res.Error
	}
	// 0件の場合は既に参加済みか、ゲームが存在しないかのどちらか
	return s.FindByID(ctx, id)
}

// AppendRound はラウンドの参加者が全員ゲームに参加済みの場合のみ追加します。
func (s *GameStore) AppendRound(ctx context.Context, id string, round models.Round) (*models.Game, error) {
	round = round.Clone()
	roundJSON, err := json.Marshal(round)
	if err != nil {
		return nil, fmt.Errorf("encode round: %w", err)
	}
	playersJSON, err := json.Marshal(round.Players)
	if err != nil {
		return nil, fmt.Errorf("encode round players: %w", err)
	}

	res := s.db.WithContext(ctx).Model(&models.Game{}).
		Where("id = ? AND players @> ?::jsonb", id, string(playersJSON)).
		Update("rounds", gorm.Expr("rounds || jsonb_build_array(?::jsonb)", string(roundJSON)))
	if res.Error != nil {
		return nil, res.Error
	}
	game, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return game, ErrNoChange
	}
	return game, nil
}

// AdvanceRound はcurrentRoundがラウンド数未満の場合のみ1つ進めます。
func (s *GameStore) AdvanceRound(ctx context.Context, id string) (*models.Game, error) {
	res := s.db.WithContext(ctx).Model(&models.Game{}).
		Where("id = ? AND current_round < jsonb_array_length(rounds)", id).
		Update("current_round", gorm.Expr("current_round + 1"))
	if res.Error != nil {
		return nil, res.Error
	}
	return s.FindByID(ctx, id)
}

func (s *GameStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Game{}).Count(&n).Error
	return n, err
}
