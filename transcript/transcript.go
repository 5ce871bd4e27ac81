// Package transcript holds the ordered, append-only record of exchanged messages.
package transcript

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Origin classifies who authored a message. It only affects presentation.
type Origin int

const (
	User Origin = iota
	Bot
)

func (o Origin) String() string {
	switch o {
	case User:
		return "user"
	case Bot:
		return "bot"
	default:
		return "unknown"
	}
}

// Message is a single transcript entry. Values are never modified after creation.
type Message struct {
	ID     string
	Text   string
	Origin Origin
	Time   time.Time
}

// NewMessage creates a message with a fresh ID and the current time.
func NewMessage(origin Origin, text string) Message {
	return Message{
		ID:     uuid.NewString(),
		Text:   text,
		Origin: origin,
		Time:   time.Now(),
	}
}

// UserMessage creates a user-authored message.
func UserMessage(text string) Message {
	return NewMessage(User, text)
}

// BotMessage creates a bot-authored message.
func BotMessage(text string) Message {
	return NewMessage(Bot, text)
}

// Transcript is an append-only ordered sequence of messages.
type Transcript struct {
	mu       sync.RWMutex
	messages []Message
}

// New creates an empty transcript.
func New() *Transcript {
	return &Transcript{}
}

// Append adds msg to the end of the transcript and returns its index.
func (t *Transcript) Append(msg Message) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, msg)
	return len(t.messages) - 1
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

// Messages returns a copy of all messages in order.
func (t *Transcript) Messages() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Last returns the most recent message, if any.
func (t *Transcript) Last() (Message, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}
