package core

import "time"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn represents one message unit exchanged in a conversation.
type Turn struct {
	Role    Role   `json:"role"`    // Role of the message sender (system, user, assistant).
	Content string `json:"content"` // Text content of the message.
	// Timestamp is assigned by the storage backend at persistence time.
	// In-memory turns may leave it zero.
	Timestamp time.Time `json:"timestamp,omitempty"`
}
