package services

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/ddubrovin/jobtrack/internal/client/models"
	"github.com/ddubrovin/jobtrack/internal/client/snapshot"
	"github.com/ddubrovin/jobtrack/internal/common"
	"github.com/ddubrovin/jobtrack/internal/logging"
	"github.com/ddubrovin/jobtrack/internal/remote/authx"
	"github.com/ddubrovin/jobtrack/internal/remote/blobstore"
	"github.com/ddubrovin/jobtrack/internal/remote/tablestore"
)

// AttachmentService handles the two-phase attachment lifecycle: a blob
// upload followed by a metadata insert, and the inverse order on delete.
type AttachmentService interface {
	// Upload stores the file at path in the blob store, then records its
	// metadata. When the metadata insert fails the blob is removed again on
	// a best-effort basis so no orphan survives the failed operation.
	Upload(ctx context.Context, jobID, path string) (*models.AttachmentRecord, error)

	// Delete removes the blob first and the metadata row second; a blob
	// failure aborts the whole operation so the row keeps pointing at an
	// existing object.
	Delete(ctx context.Context, id string) error

	// URL returns the public download URL of a stored attachment.
	URL(id string) (string, error)

	// PresignURL returns a time-limited download URL of a stored attachment.
	PresignURL(ctx context.Context, id string, expires time.Duration) (string, error)
}

type attachmentService struct {
	auth  authx.Provider
	repo  tablestore.AttachmentRepository
	blobs blobstore.Store
	snap  *snapshot.Store
	state *SessionState
	log   logging.Logger
	now   func() time.Time
}

// NewAttachmentService wires an AttachmentService over the blob store, the
// metadata repository and the shared session state.
func NewAttachmentService(auth authx.Provider, repo tablestore.AttachmentRepository,
	blobs blobstore.Store, snap *snapshot.Store, state *SessionState,
	log logging.Logger) AttachmentService {
	return &attachmentService{
		auth:  auth,
		repo:  repo,
		blobs: blobs,
		snap:  snap,
		state: state,
		log:   log,
		now:   time.Now,
	}
}

func (s *attachmentService) Upload(ctx context.Context, jobID, path string) (*models.AttachmentRecord, error) {
	sess := s.auth.CurrentSession()
	if sess == nil {
		return nil, common.ErrUnauthorized
	}
	if _, ok := s.state.JobByID(jobID); !ok {
		return nil, fmt.Errorf("job %s: %w", jobID, common.ErrNotFound)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open attachment file: %w", err)
	}
	defer f.Close()

	name := filepath.Base(path)
	key := models.AttachmentStoragePath(sess.UserID, jobID, s.now(), name)
	contentType := mime.TypeByExtension(filepath.Ext(name))

	if err := s.blobs.Upload(ctx, key, f, contentType); err != nil {
		s.log.Error(ctx, "blob upload failed", "key", key, "error", err)
		return nil, err
	}

	rec := &models.AttachmentRecord{
		JobID:       jobID,
		OwnerID:     sess.UserID,
		StoragePath: key,
		FileName:    models.SanitizeFileName(name),
		MimeType:    contentType,
	}
	inserted, err := s.repo.Insert(ctx, rec)
	if err != nil {
		s.log.Error(ctx, "attachment insert failed", "key", key, "error", err)
		// best effort: remove the blob the failed insert would orphan
		if derr := s.blobs.Delete(ctx, key); derr != nil {
			s.log.Error(ctx, "orphan blob cleanup failed", "key", key, "error", derr)
		}
		return nil, err
	}

	s.state.prependAttachment(*inserted)
	if err := s.snap.SaveAttachments(ctx, s.state.Attachments()); err != nil {
		s.log.Warn(ctx, "snapshot save failed", "slot", "attachments", "error", err)
	}
	return inserted, nil
}

func (s *attachmentService) Delete(ctx context.Context, id string) error {
	sess := s.auth.CurrentSession()
	if sess == nil {
		return common.ErrUnauthorized
	}

	rec, ok := s.state.AttachmentByID(id)
	if !ok {
		return fmt.Errorf("attachment %s: %w", id, common.ErrNotFound)
	}

	if err := s.blobs.Delete(ctx, rec.StoragePath); err != nil {
		s.log.Error(ctx, "blob delete failed", "key", rec.StoragePath, "error", err)
		return err
	}

	if err := s.repo.Delete(ctx, sess.UserID, id); err != nil {
		s.log.Error(ctx, "attachment delete failed", "attachment_id", id, "error", err)
		return err
	}

	s.state.removeAttachment(id)
	if err := s.snap.SaveAttachments(ctx, s.state.Attachments()); err != nil {
		s.log.Warn(ctx, "snapshot save failed", "slot", "attachments", "error", err)
	}
	return nil
}

func (s *attachmentService) URL(id string) (string, error) {
	rec, ok := s.state.AttachmentByID(id)
	if !ok {
		return "", fmt.Errorf("attachment %s: %w", id, common.ErrNotFound)
	}
	return s.blobs.PublicURL(rec.StoragePath), nil
}

func (s *attachmentService) PresignURL(ctx context.Context, id string, expires time.Duration) (string, error) {
	rec, ok := s.state.AttachmentByID(id)
	if !ok {
		return "", fmt.Errorf("attachment %s: %w", id, common.ErrNotFound)
	}
	return s.blobs.PresignGet(ctx, rec.StoragePath, expires)
}
