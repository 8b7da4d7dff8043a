package models

import "time"

// Message is a single chat message within a match conversation.
//
// Optimistically created messages carry a client-generated id until the
// conversation cache reconciles them against a server-assigned copy.
type Message struct {
	ID        string    `json:"id"`
	MatchID   string    `json:"match_id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
