package handlers

import (
	"errors"
	"net/http"

	"partyserver/internal/game"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError はコーディネーターのエラーをHTTPステータスに変換して返します。
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, game.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	} else {
		logger.Info("Request rejected", zap.String("path", c.FullPath()), zap.Int("status", status), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
