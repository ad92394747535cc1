package chat

import "time"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one immutable conversation turn. HighRisk marks user messages
// whose text matched the risk keyword set at send time.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	HighRisk  bool      `json:"highRisk,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
