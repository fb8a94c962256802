// README: In-memory append-only message log.
package session

import "sync"

// messageLog is the ordered session log. Messages are never mutated or
// deleted; readers get copies.
type messageLog struct {
	mu       sync.RWMutex
	messages []Message
}

func newMessageLog() *messageLog {
	return &messageLog{}
}

func (l *messageLog) Append(msg Message) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
}

func (l *messageLog) All() []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}
