package utils

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// GameCounter reports how many games are stored.
type GameCounter interface {
	Count(ctx context.Context) (int64, error)
}

// ConnectionCounter reports how many websocket clients are connected.
type ConnectionCounter interface {
	Len() int
}

// StatsJob はゲーム数と接続数をログに出すジョブです。
func StatsJob(games GameCounter, connections ConnectionCounter, logger *zap.Logger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		n, err := games.Count(ctx)
		if err != nil {
			logger.Error("ゲーム数の取得に失敗しました", zap.Error(err))
			return
		}
		logger.Info("stats",
			zap.Int64("games", n),
			zap.Int("connections", connections.Len()),
		)
	}
}

// CronStats はスケジューラを起動します。停止は呼び出し側でStop()する
func CronStats(schedule string, games GameCounter, connections ConnectionCounter, logger *zap.Logger) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(schedule, StatsJob(games, connections, logger)); err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
