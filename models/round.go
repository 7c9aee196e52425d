package models

// Round はゲーム内の1ラウンド。審判とお題の決め方はここでは扱わない
type Round struct {
	ID      string   `json:"_id"`
	Players []string `json:"players"`
	Judge   string   `json:"judge,omitempty"` // 設定する場合はPlayersに含まれていること
	Prompt  string   `json:"prompt"`
}

func (r Round) Clone() Round {
	r.Players = append([]string{}, r.Players...)
	return r
}

// JudgeIsPlayer は審判が未設定か、参加者の一人であるかを確認します。
func (r Round) JudgeIsPlayer() bool {
	if r.Judge == "" {
		return true
	}
	for _, p := range r.Players {
		if p == r.Judge {
			return true
		}
	}
	return false
}
