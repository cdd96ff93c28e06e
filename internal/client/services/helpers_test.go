package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ddubrovin/jobtrack/internal/client/models"
	"github.com/ddubrovin/jobtrack/internal/client/snapshot"
	"github.com/ddubrovin/jobtrack/internal/logging"
	"github.com/ddubrovin/jobtrack/internal/remote/authx"

	_ "modernc.org/sqlite"
)

type fakeAuth struct {
	mu   sync.Mutex
	sess *authx.Session
}

func newFakeAuth(userID string) *fakeAuth {
	return &fakeAuth{sess: &authx.Session{UserID: userID, Email: userID + "@example.com"}}
}

func (f *fakeAuth) SignUp(ctx context.Context, email string, password []byte) error {
	return nil
}

func (f *fakeAuth) SignIn(ctx context.Context, email string, password []byte) (*authx.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sess, nil
}

func (f *fakeAuth) SignOut(ctx context.Context) error {
	f.mu.Lock()
	f.sess = nil
	f.mu.Unlock()
	return nil
}

func (f *fakeAuth) CurrentSession() *authx.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sess
}

func (f *fakeAuth) Refresh(ctx context.Context) (*authx.Session, error) {
	return f.CurrentSession(), nil
}

func (f *fakeAuth) Subscribe() <-chan authx.SessionEvent {
	return make(chan authx.SessionEvent)
}

func (f *fakeAuth) Close() error { return nil }

type fakeJobRepo struct {
	mu        sync.Mutex
	rows      []models.JobRecord
	selectErr error
	insertErr error
	updateErr error
	deleteErr error

	selects  int
	inserted []models.JobRecord
	updated  []models.JobRecord
	deleted  []string
}

func (f *fakeJobRepo) SelectOwned(ctx context.Context, ownerID string) ([]models.JobRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selects++
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	out := make([]models.JobRecord, len(f.rows))
	copy(out, f.rows)
	return out, nil
}

func (f *fakeJobRepo) Insert(ctx context.Context, job *models.JobRecord) (*models.JobRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	stored := *job
	stored.ID = fmt.Sprintf("job-%d", len(f.inserted)+1)
	stored.CreatedAt = time.Now()
	f.inserted = append(f.inserted, stored)
	f.rows = append([]models.JobRecord{stored}, f.rows...)
	return &stored, nil
}

func (f *fakeJobRepo) Update(ctx context.Context, job *models.JobRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = append(f.updated, *job)
	for i := range f.rows {
		if f.rows[i].ID == job.ID {
			f.rows[i] = *job
		}
	}
	return nil
}

func (f *fakeJobRepo) Delete(ctx context.Context, ownerID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeJobRepo) selectCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selects
}

type fakeAttachmentRepo struct {
	mu        sync.Mutex
	rows      []models.AttachmentRecord
	selectErr error
	insertErr error
	deleteErr error

	selects  int
	inserted []models.AttachmentRecord
	deleted  []string
}

func (f *fakeAttachmentRepo) SelectOwned(ctx context.Context, ownerID string) ([]models.AttachmentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selects++
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	out := make([]models.AttachmentRecord, len(f.rows))
	copy(out, f.rows)
	return out, nil
}

func (f *fakeAttachmentRepo) Insert(ctx context.Context, att *models.AttachmentRecord) (*models.AttachmentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	stored := *att
	stored.ID = fmt.Sprintf("att-%d", len(f.inserted)+1)
	stored.CreatedAt = time.Now()
	f.inserted = append(f.inserted, stored)
	return &stored, nil
}

func (f *fakeAttachmentRepo) Delete(ctx context.Context, ownerID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeBlobStore struct {
	mu        sync.Mutex
	uploads   map[string]string // key -> content type
	deletes   []string
	uploadErr error
	deleteErr error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{uploads: make(map[string]string)}
}

func (f *fakeBlobStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return f.uploadErr
	}
	if _, err := io.ReadAll(body); err != nil {
		return err
	}
	f.uploads[key] = contentType
	return nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletes = append(f.deletes, key)
	return nil
}

func (f *fakeBlobStore) PublicURL(key string) string {
	return "http://blobs.local/bucket/" + key
}

func (f *fakeBlobStore) PresignGet(ctx context.Context, key string, expires time.Duration) (string, error) {
	return "http://blobs.local/signed/" + key, nil
}

// env bundles everything a service test needs.
type env struct {
	auth  *fakeAuth
	jobs  *fakeJobRepo
	atts  *fakeAttachmentRepo
	blobs *fakeBlobStore
	snap  *snapshot.Store
	db    *sql.DB
	state *SessionState
	log   logging.Logger
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE slots (key TEXT PRIMARY KEY, value BLOB NOT NULL)`)
	require.NoError(t, err)

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return &env{
		auth:  newFakeAuth("owner-1"),
		jobs:  &fakeJobRepo{},
		atts:  &fakeAttachmentRepo{},
		blobs: newFakeBlobStore(),
		snap:  snapshot.New(db, log),
		db:    db,
		state: NewSessionState(),
		log:   log,
	}
}

func (e *env) jobService(staleAfter time.Duration) JobService {
	return NewJobService(e.auth, e.jobs, e.atts, e.snap, e.state, e.log, staleAfter)
}

func (e *env) attachmentService() AttachmentService {
	return NewAttachmentService(e.auth, e.atts, e.blobs, e.snap, e.state, e.log)
}

func (e *env) authService() AuthService {
	return NewAuthService(e.auth, e.snap, e.state, e.log)
}
