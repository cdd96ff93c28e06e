package services

import (
	"context"

	"github.com/ddubrovin/jobtrack/internal/client/snapshot"
	"github.com/ddubrovin/jobtrack/internal/logging"
	"github.com/ddubrovin/jobtrack/internal/remote/authx"
)

// AuthService fronts the auth provider and ties sign-out to the local
// side effects: wiping the session state and the snapshot slots.
type AuthService interface {
	SignUp(ctx context.Context, email string, password []byte) error
	SignIn(ctx context.Context, email string, password []byte) (*authx.Session, error)
	SignOut(ctx context.Context) error
	Session() *authx.Session
	Events() <-chan authx.SessionEvent
	Close() error
}

type authService struct {
	provider authx.Provider
	snap     *snapshot.Store
	state    *SessionState
	log      logging.Logger
}

// NewAuthService wraps the provider with local-state housekeeping.
func NewAuthService(provider authx.Provider, snap *snapshot.Store,
	state *SessionState, log logging.Logger) AuthService {
	return &authService{provider: provider, snap: snap, state: state, log: log}
}

func (s *authService) SignUp(ctx context.Context, email string, password []byte) error {
	return s.provider.SignUp(ctx, email, password)
}

func (s *authService) SignIn(ctx context.Context, email string, password []byte) (*authx.Session, error) {
	return s.provider.SignIn(ctx, email, password)
}

func (s *authService) SignOut(ctx context.Context) error {
	if err := s.provider.SignOut(ctx); err != nil {
		return err
	}
	s.state.reset()
	// cached data belongs to the signed-out account; drop it
	if err := s.snap.Clear(ctx); err != nil {
		s.log.Warn(ctx, "snapshot clear failed", "error", err)
	}
	return nil
}

func (s *authService) Session() *authx.Session {
	return s.provider.CurrentSession()
}

func (s *authService) Events() <-chan authx.SessionEvent {
	return s.provider.Subscribe()
}

func (s *authService) Close() error {
	return s.provider.Close()
}
