package models

// POST /games のリクエストボディ
type CreateGameRequest struct {
	JoinCode string   `json:"joincode"`
	Players  []string `json:"players"` // ホスト名など、任意の初期プレイヤー
}

// POST /games/:id/rounds のリクエストボディ
type AddRoundRequest struct {
	Players []string `json:"players"`
	Judge   string   `json:"judge"`
	Prompt  string   `json:"prompt"`
}
