// Package tablestore is the client's boundary to the remote relational
// store holding job records and attachment metadata. Every query is scoped
// to the owner identifier; the backing deployment is expected to enforce
// row-level policies of its own on top of that.
package tablestore

import (
	"context"

	"github.com/ddubrovin/jobtrack/internal/client/models"
)

// JobRepository describes the remote operations on the jobs table.
type JobRepository interface {
	// SelectOwned returns every job owned by ownerID, newest first.
	SelectOwned(ctx context.Context, ownerID string) ([]models.JobRecord, error)

	// Insert stores a new job and returns it with the store-assigned
	// identifier and creation timestamp filled in.
	Insert(ctx context.Context, job *models.JobRecord) (*models.JobRecord, error)

	// Update replaces the row identified by job.ID (full-record semantics).
	// common.ErrNotFound is returned when no owned row matches.
	Update(ctx context.Context, job *models.JobRecord) error

	// Delete removes the owned row by id. Attachment rows cascade at the
	// store level via the job_id foreign key.
	Delete(ctx context.Context, ownerID, id string) error
}

// AttachmentRepository describes the remote operations on the attachment
// metadata table.
type AttachmentRepository interface {
	SelectOwned(ctx context.Context, ownerID string) ([]models.AttachmentRecord, error)
	Insert(ctx context.Context, att *models.AttachmentRecord) (*models.AttachmentRecord, error)
	Delete(ctx context.Context, ownerID, id string) error
}
