package domain

import "time"

// ChatMessage is one exchange with the canned assistant.
type ChatMessage struct {
	ID        string
	UserID    string
	Message   string
	Response  string
	CreatedAt time.Time
}
