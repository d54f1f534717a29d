package workflow

import (
	"context"
	"errors"
)

// ErrNoSession signals that the user is not signed in. Workflow operations
// that need a session redirect to auth and abort without touching the API.
var ErrNoSession = errors.New("no active session")

// Session is the authenticated identity the workflow acts under.
type Session struct {
	AccessToken string
	UserID      string
}

// SessionProvider resolves the current session, if any.
type SessionProvider interface {
	// CurrentSession returns the active session or ErrNoSession.
	CurrentSession(ctx context.Context) (*Session, error)
}

// StaticSessionProvider serves one fixed session, or none. Used by the
// submit CLI where the token comes from the environment.
type StaticSessionProvider struct {
	Session *Session
}

func (p *StaticSessionProvider) CurrentSession(ctx context.Context) (*Session, error) {
	if p.Session == nil || p.Session.AccessToken == "" {
		return nil, ErrNoSession
	}
	return p.Session, nil
}
