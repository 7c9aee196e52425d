package database

import (
	"context"
	"fmt"
	"time"

	"partyserver/migrations"
	"partyserver/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const maxRetries = 3                  // 最大再試行回数
const retryInterval = 5 * time.Second // 再試行間の待機時間

// InitPostgreSQL はPostgreSQLに接続し、gamesテーブルをマイグレーションします。
func InitPostgreSQL(config *models.Config, logger *zap.Logger) (*gorm.DB, error) {
	var err error
	for i := 0; i <= maxRetries; i++ {
		var gormDB *gorm.DB
		gormDB, err = gorm.Open(postgres.Open(config.DSN()), &gorm.Config{})
		if err == nil {
			if err = migrations.Migrate(gormDB, logger); err != nil {
				return nil, err
			}
			logger.Info("Connected to PostgreSQL", zap.String("host", config.DBHost), zap.String("db", config.DBName))
			return gormDB, nil
		}
		logger.Error("データベース接続のリトライ", zap.Int("retry", i), zap.Error(err))
		if i < maxRetries {
			time.Sleep(retryInterval)
		}
	}
	return nil, fmt.Errorf("データベース接続に失敗しました: %w", err)
}

// InitRedis はセッションID保存用のRedisクライアントを返します。
// RedisAddrが空の場合はnilを返し、セッション機能は無効になる
func InitRedis(config *models.Config, logger *zap.Logger) (*redis.Client, error) {
	if config.RedisAddr == "" {
		logger.Info("Redis address not set, connection sessions disabled")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
		DB:       config.RedisDB,
	})

	// Redisへの接続テスト
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		logger.Error("Failed to connect to Redis", zap.Error(err))
		_ = rdb.Close()
		return nil, err
	}

	logger.Info("Connected to Redis", zap.String("addr", config.RedisAddr))
	return rdb, nil
}
