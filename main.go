package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"partyserver/database"      //PostgreSQL・メモリのゲームストアとRedisの初期化
	"partyserver/handlers"      //HTTPリクエストとWebSocketのハンドラー
	"partyserver/internal/game" //参加とラウンド進行のゲーム状態変更
	ws "partyserver/internal/websocket"
	"partyserver/middlewares"
	"partyserver/models"
	"partyserver/utils" //ロガーの初期化とCronジョブ

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const releaseVersion = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cobra.CheckErr(newCmd().ExecuteContext(ctx))
}

// openStore は設定に応じたゲームストアを返します。
func openStore(cfg *models.Config, logger *zap.Logger) (game.Store, func(), error) {
	if cfg.Store == models.StoreMemory {
		logger.Warn("Using in-memory game store, games are lost on restart")
		return database.NewMemoryStore(), func() {}, nil
	}

	db, err := database.InitPostgreSQL(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return database.NewGameStore(db), closeDB, nil
}

func run(ctx context.Context, cfg *models.Config) error {
	logger, err := utils.InitLogger(cfg.Verbose) // ロガーの初期化
	if err != nil {
		return err
	}
	defer logger.Sync() // ロガーのクリーンアップ

	logger.Info("Starting server", zap.String("version", releaseVersion), zap.String("store", cfg.Store))

	// 非同期でゲームストアとRedisの初期化
	var (
		store      game.Store
		closeStore func()
		storeErr   error
		rdb        *redis.Client
		redisErr   error
	)
	done := make(chan bool)
	go func() {
		store, closeStore, storeErr = openStore(cfg, logger)
		done <- true
	}()
	go func() {
		rdb, redisErr = database.InitRedis(cfg, logger)
		done <- true
	}()

	// 2つの初期化が完了するのを待つ
	<-done
	<-done

	if storeErr != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		return storeErr
	}
	defer closeStore()
	if redisErr != nil {
		return redisErr
	}

	var sessions ws.SessionStore
	if rdb != nil {
		defer rdb.Close()
		sessions = database.NewSessionStore(rdb, logger)
	}

	coordinator := game.NewCoordinator(store, logger)
	hub := ws.NewHub(ws.NewRegistry(), coordinator, sessions, ws.Options{
		PingInterval: cfg.PingInterval,
		PongWait:     cfg.PongWait,
		WriteWait:    cfg.WriteWait,
		SendBuffer:   cfg.SendBuffer,
	}, logger)

	// クーロンスケジューラのセットアップと呼び出し
	cronJobs, err := utils.CronStats(cfg.StatsSchedule, coordinator, hub.Registry(), logger)
	if err != nil {
		return err
	}
	defer cronJobs.Stop()

	if !cfg.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middlewares.Recovery(logger), utils.RequestLogger(logger), middlewares.CORS(cfg.AllowOrigins))
	handlers.RegisterRoutes(router.Group(cfg.Prefix), coordinator, hub, logger)

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Bind, strconv.Itoa(cfg.Port)),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       10 * time.Minute,
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("Listening", zap.String("addr", srv.Addr), zap.String("prefix", cfg.Prefix))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
	case err := <-errs:
		hub.Close()
		return err
	}

	// Shutdownはハイジャックされた接続を待たないので、先にHubの接続を閉じる
	hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
