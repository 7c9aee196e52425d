package websocket

import (
	"encoding/json"
	"errors"
)

const (
	TypeAddPlayer    = "ADD_PLAYER"
	TypeAdvanceRound = "ADVANCE_ROUND"
	TypeSession      = "SESSION"
)

// Message は受信フレームの構造。payloadの中身はtypeごとに異なる。
// 古いクライアントはgameIdとplayerNameをトップレベルに置くので、そちらも受け付ける
type Message struct {
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	GameID     string          `json:"gameId,omitempty"`
	PlayerName string          `json:"playerName,omitempty"`
}

// GamePayload carries the fields the game intents read.
type GamePayload struct {
	GameID     string `json:"gameId"`
	PlayerName string `json:"playerName"`
}

var errNoType = errors.New("message has no type")

// ParseMessage decodes a text frame. A frame that is not a JSON object or
// has no type is an error; callers treat it as carrying no intent.
func ParseMessage(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, err
	}
	if msg.Type == "" {
		return Message{}, errNoType
	}
	return msg, nil
}

// Game returns the game fields, preferring payload over top level values.
func (m Message) Game() GamePayload {
	p := GamePayload{GameID: m.GameID, PlayerName: m.PlayerName}
	if len(m.Payload) == 0 {
		return p
	}
	var inner GamePayload
	if err := json.Unmarshal(m.Payload, &inner); err != nil {
		return p
	}
	if inner.GameID != "" {
		p.GameID = inner.GameID
	}
	if inner.PlayerName != "" {
		p.PlayerName = inner.PlayerName
	}
	return p
}

type sessionFrame struct {
	Type    string         `json:"type"`
	Payload sessionPayload `json:"payload"`
}

type sessionPayload struct {
	SessionID string `json:"sessionId"`
}

func newSessionFrame(sessionID string) ([]byte, error) {
	return json.Marshal(sessionFrame{Type: TypeSession, Payload: sessionPayload{SessionID: sessionID}})
}
