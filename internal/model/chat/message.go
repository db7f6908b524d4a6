package chat

import "time"

// Message roles. The AI side may attach suggested replies as choices.
const (
	RoleUser = "user"
	RoleAI   = "ai"
)

// Message is a single turn of a trope conversation. Transcripts live only in
// memory for the duration of a chat session and are never persisted.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Choices   []string  `json:"choices,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
