package history

import (
	"context"
	"sync"

	"github.com/SubhamSharma-IITM/dost-chat/chat"
)

// MemoryStore is an in-memory Store for tests and history-less runs.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append records a message at the end of a session's transcript.
func (s *MemoryStore) Append(_ context.Context, session string, m chat.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, recordFromMessage(session, m))
	return nil
}

// AmendText rewrites the stored text of a message in place.
func (s *MemoryStore) AmendText(_ context.Context, id, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].Text = text
		}
	}
	return nil
}

// Sessions lists session identifiers, oldest first.
func (s *MemoryStore) Sessions(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	var sessions []string
	for _, r := range s.records {
		if !seen[r.Session] {
			seen[r.Session] = true
			sessions = append(sessions, r.Session)
		}
	}
	return sessions, nil
}

// Messages returns a session's transcript in append order.
func (s *MemoryStore) Messages(_ context.Context, session string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var records []Record
	for _, r := range s.records {
		if r.Session == session {
			records = append(records, r)
		}
	}
	return records, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
