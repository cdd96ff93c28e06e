package authx

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ddubrovin/jobtrack/internal/common"
)

// Provider describes the authentication operations the client uses.
type Provider interface {
	SignUp(ctx context.Context, email string, password []byte) error
	SignIn(ctx context.Context, email string, password []byte) (*Session, error)
	SignOut(ctx context.Context) error
	// CurrentSession returns the active session, or nil.
	CurrentSession() *Session
	// Refresh rotates the refresh token and issues a new access token.
	Refresh(ctx context.Context) (*Session, error)
	// Subscribe returns a stream of session-change events. The channel is
	// closed by Close.
	Subscribe() <-chan SessionEvent
	Close() error
}

// Config carries token issuance settings.
type Config struct {
	JWTSecret  []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// provider implements Provider against the users and refresh_tokens tables.
type provider struct {
	users  UserRepository
	tokens RefreshTokenRepository
	cfg    Config

	mu      sync.Mutex
	current *Session
	subs    []chan SessionEvent
	closed  bool
}

// NewProvider constructs a Provider over the given repositories.
func NewProvider(users UserRepository, tokens RefreshTokenRepository, cfg Config) Provider {
	return &provider{users: users, tokens: tokens, cfg: cfg}
}

func (p *provider) SignUp(ctx context.Context, email string, password []byte) error {
	hash, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if _, err := p.users.Create(ctx, email, string(hash)); err != nil {
		return err
	}
	return nil
}

func (p *provider) SignIn(ctx context.Context, email string, password []byte) (*Session, error) {
	user, err := p.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), password); err != nil {
		return nil, common.ErrUnauthorized
	}

	sess, err := p.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	p.setCurrent(sess)
	p.publish(SessionEvent{Kind: EventSignedIn, Session: sess})
	return sess, nil
}

func (p *provider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	current := p.current
	p.current = nil
	p.mu.Unlock()

	if current == nil {
		return nil
	}
	if err := p.tokens.DeleteByUser(ctx, current.UserID); err != nil {
		return err
	}
	p.publish(SessionEvent{Kind: EventSignedOut})
	return nil
}

func (p *provider) CurrentSession() *Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *provider) Refresh(ctx context.Context) (*Session, error) {
	p.mu.Lock()
	current := p.current
	p.mu.Unlock()
	if current == nil {
		return nil, common.ErrUnauthorized
	}

	userID, err := p.tokens.Consume(ctx, current.RefreshToken)
	if err != nil {
		return nil, err
	}

	sess, err := p.issueSession(ctx, &User{ID: userID, Email: current.Email})
	if err != nil {
		return nil, err
	}

	p.setCurrent(sess)
	p.publish(SessionEvent{Kind: EventRefreshed, Session: sess})
	return sess, nil
}

func (p *provider) Subscribe() <-chan SessionEvent {
	ch := make(chan SessionEvent, 8)
	p.mu.Lock()
	p.subs = append(p.subs, ch)
	p.mu.Unlock()
	return ch
}

func (p *provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	for _, ch := range p.subs {
		close(ch)
	}
	p.subs = nil
	return nil
}

func (p *provider) issueSession(ctx context.Context, user *User) (*Session, error) {
	access, err := GenerateToken(user.ID, p.cfg.JWTSecret, p.cfg.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	if err := p.tokens.Create(ctx, user.ID, refresh, p.cfg.RefreshTTL); err != nil {
		return nil, err
	}

	return &Session{
		UserID:       user.ID,
		Email:        user.Email,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().Add(p.cfg.AccessTTL),
	}, nil
}

func (p *provider) setCurrent(s *Session) {
	p.mu.Lock()
	p.current = s
	p.mu.Unlock()
}

// publish delivers the event to every subscriber without blocking; a
// subscriber that stopped draining its channel misses events.
func (p *provider) publish(ev SessionEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ch := range p.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
