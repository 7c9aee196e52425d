package handlers

import (
	"context"
	"net/http"

	"partyserver/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GameService is the coordinator surface the HTTP handlers use.
type GameService interface {
	CreateGame(ctx context.Context, joincode string, players ...string) (*models.Game, error)
	GetGame(ctx context.Context, id string) (*models.Game, error)
	JoinGame(ctx context.Context, id, player string) (*models.Game, error)
	AddRound(ctx context.Context, id string, req models.AddRoundRequest) (*models.Game, error)
	AdvanceRound(ctx context.Context, id string) (*models.Game, error)
}

// GET /games/:id
func GetGame(c *gin.Context, games GameService, logger *zap.Logger) {
	game, err := games.GetGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// POST /games
func CreateGame(c *gin.Context, games GameService, logger *zap.Logger) {
	var request models.CreateGameRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.Info("Game create request bind error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	game, err := games.CreateGame(c.Request.Context(), request.JoinCode, request.Players...)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	// 作成したゲームのIDを返す
	c.JSON(http.StatusCreated, gin.H{"id": game.ID})
}

// PUT /games/:id/:player
// ソケット経由の参加と違い、ここではブロードキャストしない
func AddPlayer(c *gin.Context, games GameService, logger *zap.Logger) {
	game, err := games.JoinGame(c.Request.Context(), c.Param("id"), c.Param("player"))
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// POST /games/:id/rounds
func AddRound(c *gin.Context, games GameService, logger *zap.Logger) {
	var request models.AddRoundRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.Info("Round request bind error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	game, err := games.AddRound(c.Request.Context(), c.Param("id"), request)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, game)
}

// POST /games/:id/advance
func AdvanceRound(c *gin.Context, games GameService, logger *zap.Logger) {
	game, err := games.AdvanceRound(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, game)
}
