package migrations

import (
	"fmt"

	"partyserver/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GINインデックスで players @> の検索を速くする
const createPlayersIndex = `CREATE INDEX IF NOT EXISTS idx_games_players ON games USING GIN (players jsonb_path_ops)`

// Migrate はgamesテーブルを作成し、必要なインデックスを追加します。
// 何度実行しても同じ結果になる
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	if err := db.AutoMigrate(&models.Game{}); err != nil {
		return fmt.Errorf("gamesテーブルのマイグレーションに失敗しました: %w", err)
	}
	if err := db.Exec(createPlayersIndex).Error; err != nil {
		return fmt.Errorf("playersインデックスの作成に失敗しました: %w", err)
	}
	logger.Info("games table migrated successfully")
	return nil
}
