package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const sessionTTL = 24 * time.Hour // 24時間の有効期限

// SessionStore はWebSocket接続ごとのセッションIDをRedisに保存します。
type SessionStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewSessionStore(rdb *redis.Client, logger *zap.Logger) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: sessionTTL, logger: logger}
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

// Create は新しいセッションIDを発行し、接続情報と一緒に保存します。
func (s *SessionStore) Create(ctx context.Context, connID, remoteAddr string) (string, error) {
	sessionID := uuid.New().String()

	// セッション情報をJSON形式でエンコード
	sessionInfo := map[string]interface{}{
		"connectionID": connID,
		"remoteAddr":   remoteAddr,
		"connectedAt":  time.Now().UTC().Format(time.RFC3339),
	}
	sessionInfoJSON, err := json.Marshal(sessionInfo)
	if err != nil {
		s.logger.Error("Error encoding session info", zap.Error(err))
		return "", err
	}

	if err := s.rdb.Set(ctx, sessionKey(sessionID), sessionInfoJSON, s.ttl).Err(); err != nil {
		s.logger.Error("Error storing session info in Redis", zap.Error(err))
		return "", err
	}
	return sessionID, nil
}

// Delete は切断時にセッション情報を削除します。
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, sessionKey(sessionID)).Err()
}
