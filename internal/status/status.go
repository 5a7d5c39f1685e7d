// Package status buffers transient user-facing messages ("session
// saved", decode errors) until the frontend polls for them.
package status

import "sync"

// Level classifies a status message.
type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Message is one status entry.
type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Reporter is a mutex-guarded message buffer.
type Reporter struct {
	mu       sync.Mutex
	messages []Message
}

// NewReporter creates an empty Reporter.
func NewReporter() *Reporter {
	return &Reporter{}
}

// Push appends a message.
func (r *Reporter) Push(level Level, text string) {
	r.mu.Lock()
	r.messages = append(r.messages, Message{Level: level, Text: text})
	r.mu.Unlock()
}

// Info, Warn, and Error push a message at the corresponding level.
func (r *Reporter) Info(text string)  { r.Push(LevelInfo, text) }
func (r *Reporter) Warn(text string)  { r.Push(LevelWarn, text) }
func (r *Reporter) Error(text string) { r.Push(LevelError, text) }

// Drain returns all buffered messages and clears the buffer.
func (r *Reporter) Drain() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.messages
	r.messages = nil
	return out
}

// Len returns the number of buffered messages.
func (r *Reporter) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}
