package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/ddubrovin/jobtrack/internal/client/config"
	"github.com/ddubrovin/jobtrack/internal/client/query"
	"github.com/ddubrovin/jobtrack/internal/client/services"
	"github.com/ddubrovin/jobtrack/internal/client/snapshot"
	"github.com/ddubrovin/jobtrack/internal/logging"
	"github.com/ddubrovin/jobtrack/internal/remote/authx"
	"github.com/ddubrovin/jobtrack/internal/remote/blobstore"
	"github.com/ddubrovin/jobtrack/internal/remote/tablestore"

	_ "modernc.org/sqlite"
)

// App ties the services together behind the REPL.
type App struct {
	config      *config.Config
	auth        services.AuthService
	jobs        services.JobService
	attachments services.AttachmentService
	state       *services.SessionState
	view        *query.State
	reader      *bufio.Reader
	log         logging.Logger

	// userEmail feeds the prompt label; the session watcher goroutine
	// writes it while the REPL reads it
	emailMu   sync.RWMutex
	userEmail string
}

// NewApp opens the local snapshot database and the remote stores and wires
// the application services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.NewDefault(parseLevel(c.LogLevel))

	snapDB, err := snapshot.Open(ctx, c.SnapshotPath)
	if err != nil {
		return nil, fmt.Errorf("init snapshot database: %w", err)
	}

	tableDB, err := tablestore.Open(ctx, c.TableStoreDSN)
	if err != nil {
		return nil, fmt.Errorf("connect table store: %w", err)
	}

	blobs, err := blobstore.NewS3Store(ctx, c.Blob)
	if err != nil {
		return nil, fmt.Errorf("connect blob store: %w", err)
	}

	provider := authx.NewProvider(
		authx.NewPostgresUserRepository(tableDB),
		authx.NewPostgresRefreshTokenRepository(tableDB),
		authx.Config{
			JWTSecret:  []byte(c.JWTSecret),
			AccessTTL:  c.AccessTTL,
			RefreshTTL: c.RefreshTTL,
		},
	)

	snap := snapshot.New(snapDB, log)
	state := services.NewSessionState()

	jobRepo := tablestore.NewPostgresJobRepository(tableDB)
	attRepo := tablestore.NewPostgresAttachmentRepository(tableDB)

	return &App{
		config:      c,
		auth:        services.NewAuthService(provider, snap, state, log),
		jobs:        services.NewJobService(provider, jobRepo, attRepo, snap, state, log, c.StaleAfter),
		attachments: services.NewAttachmentService(provider, attRepo, blobs, snap, state, log),
		state:       state,
		view:        query.NewState(),
		reader:      bufio.NewReader(os.Stdin),
		log:         log,
	}, nil
}

// Run starts the REPL and blocks until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.auth.Close()
	go a.watchSessionEvents(ctx)
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.auth.Session() != nil
}

// watchSessionEvents mirrors auth state changes into the prompt label.
func (a *App) watchSessionEvents(ctx context.Context) {
	events := a.auth.Events()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev.Kind {
			case authx.EventSignedIn, authx.EventRefreshed:
				a.setUserEmail(ev.Session.Email)
			case authx.EventSignedOut:
				a.setUserEmail("")
			}
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) setUserEmail(email string) {
	a.emailMu.Lock()
	a.userEmail = email
	a.emailMu.Unlock()
}

func (a *App) currentEmail() string {
	a.emailMu.RLock()
	defer a.emailMu.RUnlock()
	return a.userEmail
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
