// Package history persists conversation transcripts across client runs.
package history

import (
	"context"
	"time"

	"github.com/SubhamSharma-IITM/dost-chat/chat"
	"github.com/SubhamSharma-IITM/dost-chat/pkg/dost"
)

// Record is one persisted conversation message.
type Record struct {
	ID        string
	Session   string
	Role      string
	Kind      string
	Text      string
	Preview   string
	Script    []string
	Results   []dost.ResultRecord
	CreatedAt time.Time
}

// Store persists and retrieves conversation messages. SQLiteStore is the
// durable implementation; MemoryStore backs tests and history-less runs.
type Store interface {
	// Append records a message at the end of a session's transcript.
	Append(ctx context.Context, session string, m chat.Message) error

	// AmendText mirrors the single in-place text amendment of a persisted
	// message. Unknown ids are ignored.
	AmendText(ctx context.Context, id, text string) error

	// Sessions lists session identifiers, oldest first.
	Sessions(ctx context.Context) ([]string, error)

	// Messages returns a session's transcript in append order.
	Messages(ctx context.Context, session string) ([]Record, error)

	// Close releases any resources.
	Close() error
}

func recordFromMessage(session string, m chat.Message) Record {
	return Record{
		ID:        m.ID,
		Session:   session,
		Role:      string(m.Role),
		Kind:      string(m.Kind),
		Text:      m.Text,
		Preview:   m.Preview,
		Script:    m.Script,
		Results:   m.Results,
		CreatedAt: time.Now().UTC(),
	}
}
