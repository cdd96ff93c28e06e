package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ddubrovin/jobtrack/internal/client/models"
	"github.com/ddubrovin/jobtrack/internal/client/snapshot"
	"github.com/ddubrovin/jobtrack/internal/common"
	"github.com/ddubrovin/jobtrack/internal/logging"
	"github.com/ddubrovin/jobtrack/internal/remote/authx"
	"github.com/ddubrovin/jobtrack/internal/remote/tablestore"
)

// DefaultStaleAfter is how old a snapshot may be before a session start
// schedules a background refresh.
const DefaultStaleAfter = 5 * time.Minute

// JobService drives session hydration and the job mutations.
type JobService interface {
	// Load hydrates the session from the local snapshot and decides, based
	// on snapshot age, whether to fetch remotely now, in the background, or
	// not at all.
	Load(ctx context.Context) error
	// RefreshJobs replaces the job collection from the remote store and
	// stamps the snapshot.
	RefreshJobs(ctx context.Context) error
	// RefreshAttachments replaces the attachment collection from the remote
	// store and stamps the snapshot.
	RefreshAttachments(ctx context.Context) error
	Create(ctx context.Context, job models.JobRecord) error
	Update(ctx context.Context, job models.JobRecord) error
	Delete(ctx context.Context, id string) error
}

type jobService struct {
	auth        authx.Provider
	jobs        tablestore.JobRepository
	attachments tablestore.AttachmentRepository
	snap        *snapshot.Store
	state       *SessionState
	log         logging.Logger
	staleAfter  time.Duration
	now         func() time.Time
}

// NewJobService wires a JobService over the remote repositories, the local
// snapshot store and the shared session state.
func NewJobService(auth authx.Provider, jobs tablestore.JobRepository,
	attachments tablestore.AttachmentRepository, snap *snapshot.Store,
	state *SessionState, log logging.Logger, staleAfter time.Duration) JobService {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &jobService{
		auth:        auth,
		jobs:        jobs,
		attachments: attachments,
		snap:        snap,
		state:       state,
		log:         log,
		staleAfter:  staleAfter,
		now:         time.Now,
	}
}

func (s *jobService) Load(ctx context.Context) error {
	snap, err := s.snap.Load(ctx)
	if err != nil {
		// local storage trouble is not fatal; behave as if nothing is cached
		s.log.Error(ctx, "snapshot load failed", "error", err)
		snap = &snapshot.Snapshot{}
	}

	if !snap.HasJobs && !snap.HasAttachments {
		if err := s.RefreshJobs(ctx); err != nil {
			return err
		}
		if err := s.RefreshAttachments(ctx); err != nil {
			return err
		}
		s.state.markLoaded()
		return nil
	}

	s.state.setJobs(snap.Jobs)
	s.state.setAttachments(snap.Attachments)
	s.state.setLastRefresh(snap.LastRefresh)
	s.state.markLoaded()

	if snap.LastRefresh.IsZero() || s.now().Sub(snap.LastRefresh) > s.staleAfter {
		bg := context.WithoutCancel(ctx)
		go func() {
			// failures are logged inside the refreshers; cached data stays
			_ = s.RefreshJobs(bg)
			_ = s.RefreshAttachments(bg)
		}()
	}
	return nil
}

func (s *jobService) RefreshJobs(ctx context.Context) error {
	sess := s.auth.CurrentSession()
	if sess == nil {
		return common.ErrUnauthorized
	}

	rows, err := s.jobs.SelectOwned(ctx, sess.UserID)
	if err != nil {
		s.log.Error(ctx, "jobs refresh failed", "error", err)
		return err
	}

	s.state.setJobs(rows)
	s.stamp(ctx)
	if err := s.snap.SaveJobs(ctx, rows); err != nil {
		s.log.Warn(ctx, "snapshot save failed", "slot", "jobs", "error", err)
	}
	return nil
}

func (s *jobService) RefreshAttachments(ctx context.Context) error {
	sess := s.auth.CurrentSession()
	if sess == nil {
		return common.ErrUnauthorized
	}

	rows, err := s.attachments.SelectOwned(ctx, sess.UserID)
	if err != nil {
		s.log.Error(ctx, "attachments refresh failed", "error", err)
		return err
	}

	s.state.setAttachments(rows)
	s.stamp(ctx)
	if err := s.snap.SaveAttachments(ctx, rows); err != nil {
		s.log.Warn(ctx, "snapshot save failed", "slot", "attachments", "error", err)
	}
	return nil
}

func (s *jobService) Create(ctx context.Context, job models.JobRecord) error {
	sess := s.auth.CurrentSession()
	if sess == nil {
		return common.ErrUnauthorized
	}

	if err := job.Validate(); err != nil {
		return err
	}
	job.Normalize()
	job.OwnerID = sess.UserID

	if _, err := s.jobs.Insert(ctx, &job); err != nil {
		s.log.Error(ctx, "job insert failed", "error", err)
		return err
	}

	// re-read the whole collection so server-side defaults and ordering win;
	// the row is already persisted, so a failed refetch is logged inside the
	// refresher and only leaves the local view behind
	_ = s.RefreshJobs(ctx)
	return nil
}

func (s *jobService) Update(ctx context.Context, job models.JobRecord) error {
	sess := s.auth.CurrentSession()
	if sess == nil {
		return common.ErrUnauthorized
	}

	if strings.TrimSpace(job.ID) == "" {
		return fmt.Errorf("%w: id is required", common.ErrValidation)
	}
	if err := job.Validate(); err != nil {
		return err
	}
	job.Normalize()
	job.OwnerID = sess.UserID

	if err := s.jobs.Update(ctx, &job); err != nil {
		s.log.Error(ctx, "job update failed", "job_id", job.ID, "error", err)
		return err
	}

	// as in Create: the row is replaced remotely, a failed refetch is not
	// this operation's failure
	_ = s.RefreshJobs(ctx)
	return nil
}

func (s *jobService) Delete(ctx context.Context, id string) error {
	sess := s.auth.CurrentSession()
	if sess == nil {
		return common.ErrUnauthorized
	}

	if err := s.jobs.Delete(ctx, sess.UserID, id); err != nil {
		s.log.Error(ctx, "job delete failed", "job_id", id, "error", err)
		return err
	}

	// the store cascades attachment rows; mirror that in local state
	s.state.removeJob(id)
	s.state.pruneAttachmentsByJob(id)

	if err := s.snap.SaveAll(ctx, s.state.Jobs(), s.state.Attachments()); err != nil {
		s.log.Warn(ctx, "snapshot save failed", "error", err)
	}
	return nil
}

func (s *jobService) stamp(ctx context.Context) {
	now := s.now()
	s.state.setLastRefresh(now)
	if err := s.snap.StampRefresh(ctx, now); err != nil {
		s.log.Warn(ctx, "refresh stamp failed", "error", err)
	}
}
