// Package snapshot persists the last-known job and attachment collections
// plus a last-refresh instant in three named slots of a local SQLite
// database. The slots are a cold-start seed only: they are read once at
// startup and written after every successful fetch or mutation, never
// re-read during a session.
package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ddubrovin/jobtrack/internal/client/models"
	"github.com/ddubrovin/jobtrack/internal/dbx"
	"github.com/ddubrovin/jobtrack/internal/logging"
)

const (
	slotJobs        = "jobs"
	slotAttachments = "attachments"
	slotLastRefresh = "last_refresh"
)

// Store reads and writes the snapshot slots.
type Store struct {
	db  *sql.DB
	log logging.Logger
}

// New returns a Store bound to the given database handle.
func New(db *sql.DB, log logging.Logger) *Store {
	return &Store{db: db, log: log}
}

// Snapshot is the result of one Load. HasJobs / HasAttachments distinguish
// "slot absent or unparsable" from "slot holds an empty collection".
type Snapshot struct {
	Jobs           []models.JobRecord
	Attachments    []models.AttachmentRecord
	LastRefresh    time.Time
	HasJobs        bool
	HasAttachments bool
}

// Load reads the three slots. A missing or unparsable collection is logged
// and reported as absent without affecting the other slots; the error
// return covers storage-level failures only.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}

	raw, err := getSlot(ctx, s.db, slotJobs)
	if err != nil {
		return nil, err
	}
	if raw != nil {
		if err := json.Unmarshal(raw, &snap.Jobs); err != nil {
			s.log.Warn(ctx, "discarding corrupt jobs slot", "error", err)
			snap.Jobs = nil
		} else {
			snap.HasJobs = true
		}
	}

	raw, err = getSlot(ctx, s.db, slotAttachments)
	if err != nil {
		return nil, err
	}
	if raw != nil {
		if err := json.Unmarshal(raw, &snap.Attachments); err != nil {
			s.log.Warn(ctx, "discarding corrupt attachments slot", "error", err)
			snap.Attachments = nil
		} else {
			snap.HasAttachments = true
		}
	}

	raw, err = getSlot(ctx, s.db, slotLastRefresh)
	if err != nil {
		return nil, err
	}
	if raw != nil {
		secs, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			s.log.Warn(ctx, "discarding corrupt last-refresh slot", "error", err)
		} else {
			snap.LastRefresh = time.Unix(secs, 0)
		}
	}

	return snap, nil
}

// SaveJobs overwrites the jobs slot. The refresh instant is not touched.
func (s *Store) SaveJobs(ctx context.Context, jobs []models.JobRecord) error {
	raw, err := encodeJobs(jobs)
	if err != nil {
		return err
	}
	return setSlot(ctx, s.db, slotJobs, raw)
}

// SaveAttachments overwrites the attachments slot.
func (s *Store) SaveAttachments(ctx context.Context, attachments []models.AttachmentRecord) error {
	raw, err := encodeAttachments(attachments)
	if err != nil {
		return err
	}
	return setSlot(ctx, s.db, slotAttachments, raw)
}

// SaveAll overwrites both collection slots in one transaction, so a failure
// between the two writes cannot leave the cache with a pruned job whose
// attachment rows survived.
func (s *Store) SaveAll(ctx context.Context, jobs []models.JobRecord, attachments []models.AttachmentRecord) error {
	rawJobs, err := encodeJobs(jobs)
	if err != nil {
		return err
	}
	rawAtts, err := encodeAttachments(attachments)
	if err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := setSlot(ctx, tx, slotJobs, rawJobs); err != nil {
			return err
		}
		return setSlot(ctx, tx, slotAttachments, rawAtts)
	})
}

func encodeJobs(jobs []models.JobRecord) ([]byte, error) {
	if jobs == nil {
		jobs = []models.JobRecord{}
	}
	raw, err := json.Marshal(jobs)
	if err != nil {
		return nil, fmt.Errorf("encode jobs slot: %w", err)
	}
	return raw, nil
}

func encodeAttachments(attachments []models.AttachmentRecord) ([]byte, error) {
	if attachments == nil {
		attachments = []models.AttachmentRecord{}
	}
	raw, err := json.Marshal(attachments)
	if err != nil {
		return nil, fmt.Errorf("encode attachments slot: %w", err)
	}
	return raw, nil
}

// StampRefresh records the instant of the last successful remote fetch,
// independently of the collection slots.
func (s *Store) StampRefresh(ctx context.Context, now time.Time) error {
	return setSlot(ctx, s.db, slotLastRefresh, []byte(strconv.FormatInt(now.Unix(), 10)))
}

// Clear wipes all slots, e.g. on sign-out.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM slots`)
	if err != nil {
		return fmt.Errorf("failed to clear slots: %w", err)
	}
	return nil
}

func getSlot(ctx context.Context, db dbx.DBTX, key string) ([]byte, error) {
	var value []byte
	err := db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slot[%s]: %w", key, err)
	}
	return value, nil
}

func setSlot(ctx context.Context, db dbx.DBTX, key string, value []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO slots (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set slot[%s]: %w", key, err)
	}
	return nil
}
