package websocket

import (
	"context"
	"time"

	"partyserver/models"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// 受信メッセージ1件あたりのゲーム操作のタイムアウト
const intentTimeout = 5 * time.Second

// GameCoordinator is the game mutation surface the hub drives from
// socket messages.
type GameCoordinator interface {
	JoinGame(ctx context.Context, id, player string) (*models.Game, error)
	AdvanceRound(ctx context.Context, id string) (*models.Game, error)
}

// SessionStore issues a session id for each connection.
type SessionStore interface {
	Create(ctx context.Context, connID, remoteAddr string) (string, error)
	Delete(ctx context.Context, sessionID string) error
}

type Options struct {
	PingInterval time.Duration
	PongWait     time.Duration
	WriteWait    time.Duration
	SendBuffer   int
}

// withDefaults は0以下の値をDefaultOptionsの値で埋めます。
// PongWaitがPingInterval以下の場合はPingIntervalの3倍にする
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.PingInterval <= 0 {
		o.PingInterval = d.PingInterval
	}
	if o.WriteWait <= 0 {
		o.WriteWait = d.WriteWait
	}
	if o.SendBuffer <= 0 {
		o.SendBuffer = d.SendBuffer
	}
	if o.PongWait <= o.PingInterval {
		o.PongWait = 3 * o.PingInterval
	}
	return o
}

func DefaultOptions() Options {
	return Options{
		PingInterval: 5 * time.Second,
		PongWait:     15 * time.Second,
		WriteWait:    10 * time.Second,
		SendBuffer:   16,
	}
}

// Hub は全接続へのブロードキャストを担当します。ゲームごとの振り分けはしない
type Hub struct {
	registry *Registry
	games    GameCoordinator
	sessions SessionStore // nilの場合セッションIDは発行しない
	opts     Options
	logger   *zap.Logger
	intents  map[string]intentHandler
}

type intentHandler func(ctx context.Context, c *Client, msg Message)

func NewHub(registry *Registry, games GameCoordinator, sessions SessionStore, opts Options, logger *zap.Logger) *Hub {
	h := &Hub{
		registry: registry,
		games:    games,
		sessions: sessions,
		opts:     opts.withDefaults(),
		logger:   logger,
	}
	h.intents = map[string]intentHandler{}
	// gamesが無い場合は中継だけを行う
	if games != nil {
		h.intents[TypeAddPlayer] = h.handleAddPlayer
		h.intents[TypeAdvanceRound] = h.handleAdvanceRound
	}
	return h
}

func (h *Hub) Registry() *Registry {
	return h.registry
}

// Serve runs the protocol for one upgraded connection and blocks until it
// disconnects.
func (h *Hub) Serve(ctx context.Context, conn Conn) {
	client := newClient(conn, h.opts.SendBuffer)

	// Pongを受信したら読み取りデッドラインを更新
	_ = conn.SetReadDeadline(time.Now().Add(h.opts.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.opts.PongWait))
	})

	h.registry.Add(client)
	logger := h.logger.With(zap.String("connection_id", client.ID))
	logger.Info("Client connected", zap.String("remote_addr", client.remoteAddr()), zap.Int("connections", h.registry.Len()))

	defer func() {
		h.registry.Remove(client)
		client.Close()
		h.endSession(client)
		logger.Info("Client disconnected", zap.Int("connections", h.registry.Len()))
	}()

	go client.writePump(h.opts.WriteWait)
	go client.keepalive(h.opts.PingInterval, h.opts.WriteWait)

	h.startSession(ctx, client)

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(h.opts.PongWait))
		if messageType != websocket.TextMessage {
			// バイナリは解釈せずにそのまま中継する
			h.broadcast(messageType, data)
			continue
		}
		h.handleMessage(ctx, client, data)
	}
}

// handleMessage は受信メッセージを解釈した後、元のフレームをそのまま全員に送ります。
// 解釈できないメッセージもブロードキャストは行う
func (h *Hub) handleMessage(ctx context.Context, c *Client, data []byte) {
	msg, err := ParseMessage(data)
	if err != nil {
		h.logger.Debug("Received uninterpretable message", zap.String("connection_id", c.ID), zap.Error(err))
	} else if handle, ok := h.intents[msg.Type]; ok {
		handle(ctx, c, msg)
	} else {
		h.logger.Info("Received unknown message type", zap.String("connection_id", c.ID), zap.String("type", msg.Type))
	}

	h.Broadcast(data)
}

func (h *Hub) handleAddPlayer(ctx context.Context, c *Client, msg Message) {
	p := msg.Game()
	if p.GameID == "" || p.PlayerName == "" {
		h.logger.Info("ADD_PLAYER without gameId or playerName", zap.String("connection_id", c.ID))
		return
	}
	ctx, cancel := context.WithTimeout(ctx, intentTimeout)
	defer cancel()
	if _, err := h.games.JoinGame(ctx, p.GameID, p.PlayerName); err != nil {
		h.logger.Warn("Failed to add player from socket message",
			zap.String("connection_id", c.ID),
			zap.String("game_id", p.GameID),
			zap.String("player", p.PlayerName),
			zap.Error(err),
		)
	}
}

func (h *Hub) handleAdvanceRound(ctx context.Context, c *Client, msg Message) {
	p := msg.Game()
	if p.GameID == "" {
		h.logger.Info("ADVANCE_ROUND without gameId", zap.String("connection_id", c.ID))
		return
	}
	ctx, cancel := context.WithTimeout(ctx, intentTimeout)
	defer cancel()
	if _, err := h.games.AdvanceRound(ctx, p.GameID); err != nil {
		h.logger.Warn("Failed to advance round from socket message",
			zap.String("connection_id", c.ID),
			zap.String("game_id", p.GameID),
			zap.Error(err),
		)
	}
}

// Broadcast queues msg as a text frame to every registered client and
// returns how many accepted it. A client that cannot accept the send is
// removed and closed.
func (h *Hub) Broadcast(msg []byte) int {
	return h.broadcast(websocket.TextMessage, msg)
}

func (h *Hub) broadcast(kind int, msg []byte) int {
	delivered := 0
	h.registry.ForEach(func(c *Client) {
		if err := c.sendFrame(kind, msg); err != nil {
			h.logger.Warn("Dropping client after failed send", zap.String("connection_id", c.ID), zap.Error(err))
			h.registry.Remove(c)
			c.Close()
			return
		}
		delivered++
	})
	return delivered
}

// Close disconnects every client. Used on server shutdown.
func (h *Hub) Close() {
	h.registry.ForEach(func(c *Client) {
		h.registry.Remove(c)
		c.Close()
	})
}

func (h *Hub) startSession(ctx context.Context, c *Client) {
	if h.sessions == nil {
		return
	}
	sessionID, err := h.sessions.Create(ctx, c.ID, c.remoteAddr())
	if err != nil {
		h.logger.Error("Failed to generate or store session ID", zap.String("connection_id", c.ID), zap.Error(err))
		return
	}
	c.setSessionID(sessionID)

	frame, err := newSessionFrame(sessionID)
	if err != nil {
		h.logger.Error("Error marshalling session ID frame", zap.Error(err))
		return
	}
	if err := c.Send(frame); err != nil {
		h.logger.Warn("Error sending session ID to client", zap.String("connection_id", c.ID), zap.Error(err))
	}
}

func (h *Hub) endSession(c *Client) {
	sessionID := c.SessionID()
	if h.sessions == nil || sessionID == "" {
		return
	}
	// 接続のコンテキストは既に終わっている可能性があるので別に用意する
	ctx, cancel := context.WithTimeout(context.Background(), intentTimeout)
	defer cancel()
	if err := h.sessions.Delete(ctx, sessionID); err != nil {
		h.logger.Warn("Failed to delete session", zap.String("session_id", sessionID), zap.Error(err))
	}
}
