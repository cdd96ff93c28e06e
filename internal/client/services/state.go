// Package services contains the application services of the jobtrack
// client: session hydration and staleness policy, remote sync, mutation
// effects and attachment handling.
package services

import (
	"sync"
	"time"

	"github.com/ddubrovin/jobtrack/internal/client/models"
)

// SessionState holds the in-memory collections the views render from.
// It is the single source of truth during a session; the snapshot store is
// only its cold-start seed. A mutex guards it because the background
// stale-refresh goroutine writes concurrently with user-triggered
// mutations; writers are not sequenced beyond that (last write wins).
type SessionState struct {
	mu          sync.RWMutex
	jobs        []models.JobRecord
	attachments []models.AttachmentRecord
	lastRefresh time.Time
	loaded      bool
}

// NewSessionState returns empty state.
func NewSessionState() *SessionState {
	return &SessionState{}
}

// Jobs returns a copy of the job collection.
func (s *SessionState) Jobs() []models.JobRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.JobRecord, len(s.jobs))
	copy(out, s.jobs)
	return out
}

// Attachments returns a copy of the attachment collection.
func (s *SessionState) Attachments() []models.AttachmentRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.AttachmentRecord, len(s.attachments))
	copy(out, s.attachments)
	return out
}

// AttachmentsForJob returns the attachments bound to jobID.
func (s *SessionState) AttachmentsForJob(jobID string) []models.AttachmentRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.AttachmentRecord
	for _, a := range s.attachments {
		if a.JobID == jobID {
			out = append(out, a)
		}
	}
	return out
}

// AttachmentByID looks an attachment up by identifier.
func (s *SessionState) AttachmentByID(id string) (models.AttachmentRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.attachments {
		if a.ID == id {
			return a, true
		}
	}
	return models.AttachmentRecord{}, false
}

// JobByID looks a job up by identifier.
func (s *SessionState) JobByID(id string) (models.JobRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, j := range s.jobs {
		if j.ID == id {
			return j, true
		}
	}
	return models.JobRecord{}, false
}

// LastRefresh returns the instant of the last successful remote fetch.
func (s *SessionState) LastRefresh() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRefresh
}

// Loaded reports whether the session passed initial hydration.
func (s *SessionState) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *SessionState) setJobs(jobs []models.JobRecord) {
	s.mu.Lock()
	s.jobs = jobs
	s.mu.Unlock()
}

func (s *SessionState) setAttachments(attachments []models.AttachmentRecord) {
	s.mu.Lock()
	s.attachments = attachments
	s.mu.Unlock()
}

func (s *SessionState) setLastRefresh(t time.Time) {
	s.mu.Lock()
	s.lastRefresh = t
	s.mu.Unlock()
}

func (s *SessionState) markLoaded() {
	s.mu.Lock()
	s.loaded = true
	s.mu.Unlock()
}

func (s *SessionState) removeJob(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.jobs[:0]
	for _, j := range s.jobs {
		if j.ID != id {
			out = append(out, j)
		}
	}
	s.jobs = out
}

// pruneAttachmentsByJob drops every attachment bound to jobID, mirroring
// the store-side cascade in local state.
func (s *SessionState) pruneAttachmentsByJob(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.attachments[:0]
	for _, a := range s.attachments {
		if a.JobID != jobID {
			out = append(out, a)
		}
	}
	s.attachments = out
}

func (s *SessionState) prependAttachment(a models.AttachmentRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attachments = append([]models.AttachmentRecord{a}, s.attachments...)
}

func (s *SessionState) removeAttachment(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.attachments[:0]
	for _, a := range s.attachments {
		if a.ID != id {
			out = append(out, a)
		}
	}
	s.attachments = out
}

// reset wipes everything, e.g. on sign-out.
func (s *SessionState) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = nil
	s.attachments = nil
	s.lastRefresh = time.Time{}
	s.loaded = false
}
