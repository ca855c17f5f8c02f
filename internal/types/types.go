package types

import "time"

type Event struct {
	Type    string         `json:"type"`
	Ts      time.Time      `json:"timestamp"`
	Payload map[string]any `json:"payload,omitempty"`
}

type Session struct {
	ID        string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
	Status    string    `json:"status"`
}

// Transcript is one finalized utterance from the speech pipeline.
type Transcript struct {
	SessionID   string  `json:"session_id"`
	UtteranceID string  `json:"utterance_id"`
	Text        string  `json:"text"`
	Confidence  float64 `json:"confidence"`
}
