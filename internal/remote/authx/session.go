// Package authx is the client's boundary to the authentication provider:
// account creation, credential sign-in, session issuance with refresh-token
// rotation, and a session-change notification stream the application
// subscribes to for the lifetime of the process.
package authx

import "time"

// Session is an authenticated session as issued by the provider.
type Session struct {
	UserID       string
	Email        string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// EventKind classifies a session-change notification.
type EventKind string

const (
	EventSignedIn  EventKind = "signed_in"
	EventSignedOut EventKind = "signed_out"
	EventRefreshed EventKind = "refreshed"
)

// SessionEvent is one entry of the session-change stream. Session is nil
// for sign-out events.
type SessionEvent struct {
	Kind    EventKind
	Session *Session
}
