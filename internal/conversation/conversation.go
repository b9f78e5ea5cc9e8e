// Package conversation holds the chat transcript and its two-state
// submission machine.
package conversation

import (
	"errors"
	"sync"
)

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single immutable transcript entry. IDs are unique and
// strictly increasing in creation order; insertion order is the
// transcript.
type Message struct {
	ID      int64  `json:"id"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// State of the transcript's submission machine.
type State int

const (
	// StateIdle accepts new submissions.
	StateIdle State = iota

	// StateAwaitingEnhancement has a submission in flight; further
	// submissions are rejected until the response or failure arrives.
	StateAwaitingEnhancement
)

var (
	// ErrEnhancementPending is returned when a submission arrives while
	// another enhancement request is still in flight.
	ErrEnhancementPending = errors.New("an enhancement request is already pending")

	// ErrEmptyMessage is returned for empty submissions.
	ErrEmptyMessage = errors.New("message cannot be empty")
)

// Transcript is the in-memory chat history for one session.
type Transcript struct {
	mu       sync.Mutex
	messages []Message
	nextID   int64
	state    State
}

// NewTranscript creates an empty transcript in the Idle state.
func NewTranscript() *Transcript {
	return &Transcript{nextID: 1}
}

// Submit appends a user message and moves to AwaitingEnhancement. The
// guard is modeled here, not as a property of disabled UI controls.
func (t *Transcript) Submit(content string) (Message, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if content == "" {
		return Message{}, ErrEmptyMessage
	}
	if t.state == StateAwaitingEnhancement {
		return Message{}, ErrEnhancementPending
	}

	msg := t.append(RoleUser, content)
	t.state = StateAwaitingEnhancement
	return msg, nil
}

// Complete appends the assistant's reply for the pending submission and
// returns to Idle.
func (t *Transcript) Complete(reply string) Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	msg := t.append(RoleAssistant, reply)
	t.state = StateIdle
	return msg
}

// Fail returns to Idle without appending an assistant message, so a
// request failure can never leave the machine stuck in
// AwaitingEnhancement.
func (t *Transcript) Fail() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state = StateIdle
}

// State returns the current submission state.
func (t *Transcript) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.state
}

// Messages returns a copy of the transcript in insertion order.
func (t *Transcript) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	msgs := make([]Message, len(t.messages))
	copy(msgs, t.messages)
	return msgs
}

// FinalPrompt returns the derived final prompt for the transcript.
func (t *Transcript) FinalPrompt() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return FinalPrompt(t.messages)
}

// Reset clears the transcript and returns to Idle.
func (t *Transcript) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.messages = nil
	t.state = StateIdle
}

// append creates a message with the next monotonic ID. Callers hold the
// lock.
func (t *Transcript) append(role Role, content string) Message {
	msg := Message{ID: t.nextID, Role: role, Content: content}
	t.nextID++
	t.messages = append(t.messages, msg)
	return msg
}

// FinalPrompt is a pure derivation over a message sequence: the content of
// the most recent assistant message, or empty until one exists. Assistant
// messages are only appended once an enhancement completes, so a pending
// request never changes the result.
func FinalPrompt(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleAssistant {
			return messages[i].Content
		}
	}
	return ""
}
