package history

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/SubhamSharma-IITM/dost-chat/chat"
)

// Archiver mirrors conversation log mutations into a Store. It implements
// chat.Observer; persistence failures are logged and never disturb the
// conversation.
type Archiver struct {
	store   Store
	session string
	logger  *zap.Logger
}

// NewArchiver creates an archiver recording under the given session identity.
func NewArchiver(store Store, session chat.SessionID, logger *zap.Logger) *Archiver {
	return &Archiver{store: store, session: string(session), logger: logger}
}

// OnAppend persists a newly appended message.
func (a *Archiver) OnAppend(m chat.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.store.Append(ctx, a.session, m); err != nil {
		a.logger.Warn("could not persist message", zap.String("id", m.ID), zap.Error(err))
	}
}

// OnAmend mirrors the in-place text amendment.
func (a *Archiver) OnAmend(id, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.store.AmendText(ctx, id, text); err != nil {
		a.logger.Warn("could not amend persisted message", zap.String("id", id), zap.Error(err))
	}
}
