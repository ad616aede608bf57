package services

import (
	"sync"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// messageLog is the append-only transcript. The only in-place mutation is
// rewriting a message by ID, used for placeholders.
type messageLog struct {
	mu       sync.RWMutex
	messages []domain.ChatMessage
	now      func() time.Time
	newID    func() string
}

func newMessageLog(now func() time.Time, newID func() string) *messageLog {
	return &messageLog{
		messages: []domain.ChatMessage{},
		now:      now,
		newID:    newID,
	}
}

// append adds a message and returns it.
func (l *messageLog) append(origin domain.Origin, text string) domain.ChatMessage {
	msg := domain.ChatMessage{
		ID:        l.newID(),
		Text:      text,
		Origin:    origin,
		Timestamp: l.now(),
	}

	l.mu.Lock()
	l.messages = append(l.messages, msg)
	l.mu.Unlock()

	return msg
}

// update rewrites the message with the given ID in place and refreshes its
// timestamp. It returns false if no such message exists.
func (l *messageLog) update(id string, origin domain.Origin, text string) (domain.ChatMessage, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.messages {
		if l.messages[i].ID != id {
			continue
		}
		l.messages[i].Text = text
		l.messages[i].Origin = origin
		l.messages[i].Timestamp = l.now()
		return l.messages[i], true
	}
	return domain.ChatMessage{}, false
}

// snapshot returns a copy of the transcript.
func (l *messageLog) snapshot() []domain.ChatMessage {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.ChatMessage, len(l.messages))
	copy(out, l.messages)
	return out
}
