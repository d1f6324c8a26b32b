package chat

import (
	"encoding/json"
	"fmt"
	"time"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleBot
}

// Message is a single turn of a conversation. CreatedAt is optional; a zero
// value means the time the message was observed by the renderer.
type Message struct {
	Role      Role      `json:"role"`
	Text      string    `json:"message"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// UserMessage builds a message authored by the user.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Text: text}
}

// BotMessage builds a message authored by the bot.
func BotMessage(text string) Message {
	return Message{Role: RoleBot, Text: text}
}

// timestampLayouts are accepted for created_at; the second is how SQLite
// renders CURRENT_TIMESTAMP.
var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05"}

// UnmarshalJSON accepts created_at as RFC 3339 or as a SQLite timestamp and
// treats an empty or null value as unset.
func (m *Message) UnmarshalJSON(data []byte) error {
	var raw struct {
		Role      Role    `json:"role"`
		Text      string  `json:"message"`
		CreatedAt *string `json:"created_at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	m.Role = raw.Role
	m.Text = raw.Text
	m.CreatedAt = time.Time{}
	if raw.CreatedAt == nil || *raw.CreatedAt == "" {
		return nil
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, *raw.CreatedAt); err == nil {
			m.CreatedAt = t
			return nil
		}
	}
	return fmt.Errorf("invalid created_at %q", *raw.CreatedAt)
}
