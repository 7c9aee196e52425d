package handlers

import (
	"net/http"

	ws "partyserver/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// オリジンの制限はCORSミドルウェアと同じくリバースプロキシ側で行う
		return true
	},
}

// GET /websocket はWebSocket接続へアップグレードし、切断されるまでHubに任せます。
func HandleConnections(c *gin.Context, hub *ws.Hub, logger *zap.Logger) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgradeが失敗した場合はレスポンスが既に書き込まれている
		logger.Error("Error upgrading WebSocket", zap.Error(err))
		return
	}
	hub.Serve(c.Request.Context(), conn)
}

// GET /healthz
func HealthCheck(c *gin.Context, hub *ws.Hub) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"connections": hub.Registry().Len(),
	})
}
