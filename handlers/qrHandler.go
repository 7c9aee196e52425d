package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

const qrSize = 320 // スマホで読み取りやすいサイズ

// GET /games/:id/qr はゲームIDのQRコードをPNGで返します。参加画面でIDを入力する代わりに使う
func GameQRCode(c *gin.Context, games GameService, logger *zap.Logger) {
	game, err := games.GetGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err)
		return
	}

	png, err := qrcode.Encode(game.ID, qrcode.Medium, qrSize)
	if err != nil {
		logger.Error("QR code generation failed", zap.String("game_id", game.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "qr generation failed"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
