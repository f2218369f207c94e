package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/SubhamSharma-IITM/dost-chat/chat"
	"github.com/SubhamSharma-IITM/dost-chat/pkg/dost"
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT NOT NULL,
	session    TEXT NOT NULL,
	role       TEXT NOT NULL,
	kind       TEXT NOT NULL DEFAULT '',
	text       TEXT NOT NULL DEFAULT '',
	preview    TEXT NOT NULL DEFAULT '',
	script     TEXT NOT NULL DEFAULT '[]',
	results    TEXT NOT NULL DEFAULT '[]',
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session, seq);
CREATE INDEX IF NOT EXISTS idx_messages_id ON messages(id);
`

// SQLiteStore persists conversation history in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the history database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Append records a message at the end of a session's transcript.
func (s *SQLiteStore) Append(ctx context.Context, session string, m chat.Message) error {
	r := recordFromMessage(session, m)

	script, err := json.Marshal(r.Script)
	if err != nil {
		return fmt.Errorf("marshal script: %w", err)
	}
	results, err := json.Marshal(r.Results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO messages (id, session, role, kind, text, preview, script, results, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Session, r.Role, r.Kind, r.Text, r.Preview, string(script), string(results), r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// AmendText rewrites the persisted text of a message in place.
func (s *SQLiteStore) AmendText(ctx context.Context, id, text string) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE messages SET text = ? WHERE id = ?`, text, id); err != nil {
		return fmt.Errorf("amend message %s: %w", id, err)
	}
	return nil
}

// Sessions lists session identifiers, oldest first.
func (s *SQLiteStore) Sessions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session FROM messages GROUP BY session ORDER BY MIN(seq)`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []string
	for rows.Next() {
		var session string
		if err := rows.Scan(&session); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// Messages returns a session's transcript in append order.
func (s *SQLiteStore) Messages(ctx context.Context, session string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session, role, kind, text, preview, script, results, created_at
		 FROM messages WHERE session = ? ORDER BY seq`, session)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var script, results string
		var createdAt time.Time
		if err := rows.Scan(&r.ID, &r.Session, &r.Role, &r.Kind, &r.Text, &r.Preview, &script, &results, &createdAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		r.CreatedAt = createdAt
		if err := json.Unmarshal([]byte(script), &r.Script); err != nil {
			return nil, fmt.Errorf("unmarshal script for %s: %w", r.ID, err)
		}
		var recs []dost.ResultRecord
		if err := json.Unmarshal([]byte(results), &recs); err != nil {
			return nil, fmt.Errorf("unmarshal results for %s: %w", r.ID, err)
		}
		r.Results = recs
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
