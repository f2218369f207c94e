package chat

import "sync"

// Log is the ordered conversation transcript: the single source of truth the
// presentation shell renders. Appends preserve index order; entries are never
// reordered or removed. The only permitted mutation of an existing entry is
// AmendText, used once per non-text submission when its transcription arrives.
type Log struct {
	mu       sync.RWMutex
	messages []Message
	observer Observer
}

// Observer is notified of log mutations; used to mirror the conversation
// into persistent history. Callbacks run on the mutating goroutine and must
// not call back into the log.
type Observer interface {
	OnAppend(m Message)
	OnAmend(id, text string)
}

// NewLog creates an empty conversation log.
func NewLog() *Log {
	return &Log{}
}

// SetObserver registers the mutation observer. Call before the conversation
// starts; nil disables notifications.
func (l *Log) SetObserver(o Observer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observer = o
}

// Append adds a message to the end of the log.
func (l *Log) Append(m Message) {
	l.mu.Lock()
	l.messages = append(l.messages, m)
	o := l.observer
	l.mu.Unlock()

	if o != nil {
		o.OnAppend(m)
	}
}

// AmendText rewrites the text of the message with the given id in place,
// keeping its identity and position. Reports whether a message was found.
func (l *Log) AmendText(id, text string) bool {
	l.mu.Lock()
	found := false
	for i := range l.messages {
		if l.messages[i].ID == id {
			l.messages[i].Text = text
			found = true
			break
		}
	}
	o := l.observer
	l.mu.Unlock()

	if found && o != nil {
		o.OnAmend(id, text)
	}
	return found
}

// Messages returns a snapshot copy of the log in index order.
func (l *Log) Messages() []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len returns the number of messages in the log.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}
