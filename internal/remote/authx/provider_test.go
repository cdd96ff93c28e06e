package authx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ddubrovin/jobtrack/internal/common"
)

type fakeUserRepo struct {
	users map[string]*User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, email, passwordHash string) (*User, error) {
	if _, ok := f.users[email]; ok {
		return nil, common.ErrEmailTaken
	}
	u := &User{ID: "id-" + email, Email: email, PasswordHash: passwordHash, CreatedAt: time.Now()}
	f.users[email] = u
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

type fakeTokenRepo struct {
	tokens map[string]string // token -> userID
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]string)}
}

func (f *fakeTokenRepo) Create(ctx context.Context, userID, token string, ttl time.Duration) error {
	f.tokens[token] = userID
	return nil
}

func (f *fakeTokenRepo) Consume(ctx context.Context, token string) (string, error) {
	userID, ok := f.tokens[token]
	if !ok {
		return "", common.ErrInvalidToken
	}
	delete(f.tokens, token)
	return userID, nil
}

func (f *fakeTokenRepo) DeleteByUser(ctx context.Context, userID string) error {
	for t, u := range f.tokens {
		if u == userID {
			delete(f.tokens, t)
		}
	}
	return nil
}

func newTestProvider(t *testing.T) (Provider, *fakeUserRepo, *fakeTokenRepo) {
	t.Helper()
	users := newFakeUserRepo()
	tokens := newFakeTokenRepo()
	p := NewProvider(users, tokens, Config{
		JWTSecret:  []byte("secret"),
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	})
	t.Cleanup(func() { _ = p.Close() })
	return p, users, tokens
}

func TestProvider_SignUpAndSignIn(t *testing.T) {
	p, users, _ := newTestProvider(t)
	ctx := context.Background()

	require.NoError(t, p.SignUp(ctx, "a@b.c", []byte("pw")))

	// passwords are stored hashed
	u := users.users["a@b.c"]
	require.NotNil(t, u)
	assert.NotEqual(t, "pw", u.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("pw")))

	sess, err := p.SignIn(ctx, "a@b.c", []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, "id-a@b.c", sess.UserID)
	assert.NotEmpty(t, sess.AccessToken)
	assert.NotEmpty(t, sess.RefreshToken)

	userID, err := UserIDFromToken(sess.AccessToken, []byte("secret"))
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, userID)

	assert.Same(t, sess, p.CurrentSession())
}

func TestProvider_SignUpDuplicateEmail(t *testing.T) {
	p, _, _ := newTestProvider(t)
	ctx := context.Background()

	require.NoError(t, p.SignUp(ctx, "a@b.c", []byte("pw")))
	assert.ErrorIs(t, p.SignUp(ctx, "a@b.c", []byte("pw2")), common.ErrEmailTaken)
}

func TestProvider_SignInWrongPassword(t *testing.T) {
	p, _, _ := newTestProvider(t)
	ctx := context.Background()

	require.NoError(t, p.SignUp(ctx, "a@b.c", []byte("pw")))

	_, err := p.SignIn(ctx, "a@b.c", []byte("wrong"))
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = p.SignIn(ctx, "nobody@b.c", []byte("pw"))
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	assert.Nil(t, p.CurrentSession())
}

func TestProvider_SignOutRevokesTokens(t *testing.T) {
	p, _, tokens := newTestProvider(t)
	ctx := context.Background()

	require.NoError(t, p.SignUp(ctx, "a@b.c", []byte("pw")))
	sess, err := p.SignIn(ctx, "a@b.c", []byte("pw"))
	require.NoError(t, err)
	require.Contains(t, tokens.tokens, sess.RefreshToken)

	require.NoError(t, p.SignOut(ctx))
	assert.Nil(t, p.CurrentSession())
	assert.NotContains(t, tokens.tokens, sess.RefreshToken)

	// second sign-out is a no-op
	require.NoError(t, p.SignOut(ctx))
}

func TestProvider_RefreshRotatesToken(t *testing.T) {
	p, _, tokens := newTestProvider(t)
	ctx := context.Background()

	require.NoError(t, p.SignUp(ctx, "a@b.c", []byte("pw")))
	first, err := p.SignIn(ctx, "a@b.c", []byte("pw"))
	require.NoError(t, err)

	second, err := p.Refresh(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.NotContains(t, tokens.tokens, first.RefreshToken)
	assert.Contains(t, tokens.tokens, second.RefreshToken)

	// the old token cannot be replayed
	p.(*provider).setCurrent(first)
	_, err = p.Refresh(ctx)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestProvider_RefreshWithoutSession(t *testing.T) {
	p, _, _ := newTestProvider(t)
	_, err := p.Refresh(context.Background())
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestProvider_SubscribeReceivesEvents(t *testing.T) {
	p, _, _ := newTestProvider(t)
	ctx := context.Background()

	events := p.Subscribe()

	require.NoError(t, p.SignUp(ctx, "a@b.c", []byte("pw")))
	_, err := p.SignIn(ctx, "a@b.c", []byte("pw"))
	require.NoError(t, err)
	require.NoError(t, p.SignOut(ctx))

	ev := <-events
	assert.Equal(t, EventSignedIn, ev.Kind)
	require.NotNil(t, ev.Session)

	ev = <-events
	assert.Equal(t, EventSignedOut, ev.Kind)
	assert.Nil(t, ev.Session)
}

func TestProvider_CloseClosesStream(t *testing.T) {
	p, _, _ := newTestProvider(t)
	events := p.Subscribe()

	require.NoError(t, p.Close())
	_, ok := <-events
	assert.False(t, ok)
}
