package tutor

// generateRequest is the body of POST /api/game/generate.
type generateRequest struct {
	SessionID string   `json:"session_id"`
	GameType  string   `json:"game_type"`
	Nuances   []string `json:"nuances"`
}

// generateResponse wraps the generated batch.
type generateResponse struct {
	Response *gameBatch `json:"response"`
}

type gameBatch struct {
	Games []gameSchema `json:"games"`
}

// gameSchema is one round as sent by the service.
type gameSchema struct {
	Pairs map[string]string `json:"pairs"`
	Why   map[string]string `json:"why"`
}

// answerRequest is the body of POST /api/game/answer.
type answerRequest struct {
	SessionID string   `json:"session_id"`
	GameType  string   `json:"game_type"`
	IsCorrect bool     `json:"is_correct"`
	Selected  []string `json:"selected"`
}
