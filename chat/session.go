package chat

import "github.com/google/uuid"

// SessionID is the opaque token correlating all requests from one client
// lifetime for the backend's benefit.
type SessionID string

// NewSessionID generates the session identity. Called once at startup;
// cryptographically random generation makes collision-checking unnecessary.
func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}
