package models

import (
	"time"
)

// Game モデルの定義。参加コードでプレイヤーが見つけるゲームセッション
type Game struct {
	ID           string    `gorm:"primaryKey;size:24" json:"_id"`                                   // 24文字の16進ObjectID
	JoinCode     string    `gorm:"not null;index" json:"joincode"`                                  // 一意性は保証しない
	Players      []string  `gorm:"type:jsonb;not null;default:'[]';serializer:json" json:"players"` // 重複なし、参加順
	Rounds       []Round   `gorm:"type:jsonb;not null;default:'[]';serializer:json" json:"rounds"`
	CurrentRound int       `gorm:"not null;default:0" json:"currentRound"` // 0 <= CurrentRound <= len(Rounds)
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// HasPlayer reports whether name is already in the roster.
func (g *Game) HasPlayer(name string) bool {
	for _, p := range g.Players {
		if p == name {
			return true
		}
	}
	return false
}

// Finished は全ラウンドが消化されたかどうか。専用のフィールドは持たない
func (g *Game) Finished() bool {
	return g.CurrentRound == len(g.Rounds)
}

// Clone returns a copy that shares no slices with g.
func (g *Game) Clone() *Game {
	c := *g
	c.Players = append([]string{}, g.Players...)
	c.Rounds = make([]Round, len(g.Rounds))
	for i, r := range g.Rounds {
		c.Rounds[i] = r.Clone()
	}
	return &c
}

// nilのスライスはjsonbのnullとして保存されてしまうので空にしておく
func (g *Game) Normalize() {
	if g.Players == nil {
		g.Players = []string{}
	}
	if g.Rounds == nil {
		g.Rounds = []Round{}
	}
	for i := range g.Rounds {
		if g.Rounds[i].Players == nil {
			g.Rounds[i].Players = []string{}
		}
	}
}
