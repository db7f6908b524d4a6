package chat

import "time"

// Session captures one trope conversation. A fresh session (and transcript)
// is created every time the user enters a trope chat.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	TropeName string    `json:"tropeName"`
	CreatedAt time.Time `json:"createdAt"`
}
