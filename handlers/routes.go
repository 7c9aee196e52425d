package handlers

import (
	ws "partyserver/internal/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterRoutes は各HTTPリクエストのルーティングを設定します。
func RegisterRoutes(r gin.IRouter, games GameService, hub *ws.Hub, logger *zap.Logger) {
	r.GET("/games/:id", func(c *gin.Context) {
		GetGame(c, games, logger)
	})
	r.POST("/games", func(c *gin.Context) {
		CreateGame(c, games, logger)
	})
	r.PUT("/games/:id/:player", func(c *gin.Context) {
		AddPlayer(c, games, logger)
	})
	r.POST("/games/:id/rounds", func(c *gin.Context) {
		AddRound(c, games, logger)
	})
	r.POST("/games/:id/advance", func(c *gin.Context) {
		AdvanceRound(c, games, logger)
	})
	r.GET("/games/:id/qr", func(c *gin.Context) {
		GameQRCode(c, games, logger)
	})
	r.GET("/healthz", func(c *gin.Context) {
		HealthCheck(c, hub)
	})
	r.GET("/websocket", func(c *gin.Context) {
		HandleConnections(c, hub, logger)
	})
}
