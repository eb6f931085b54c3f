package models

import "time"

// Chat roles
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ChatMessage is one turn in a mentor chat session. Sessions are held in
// memory only and are lost on restart.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
