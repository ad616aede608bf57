package domain

import "time"

// Origin identifies who a chat message is attributed to.
type Origin int

const (
	// OriginUser marks messages typed by (or attributed to) the user.
	OriginUser Origin = iota
	// OriginBot marks backend replies and informational lines.
	OriginBot
	// OriginError marks error-styled lines.
	OriginError
)

// String returns the string representation of the origin.
func (o Origin) String() string {
	switch o {
	case OriginUser:
		return "user"
	case OriginBot:
		return "bot"
	case OriginError:
		return "error"
	default:
		return "unknown"
	}
}

// ChatMessage is one entry of the append-only transcript.
type ChatMessage struct {
	// ID identifies the message slot. Placeholder updates keep the ID.
	ID string

	// Text is the message body.
	Text string

	// Origin decides attribution and styling.
	Origin Origin

	// Timestamp is refreshed whenever a placeholder is rewritten.
	Timestamp time.Time
}
