package tablestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ddubrovin/jobtrack/internal/client/models"
	"github.com/ddubrovin/jobtrack/internal/common"
	"github.com/ddubrovin/jobtrack/internal/dbx"
)

// PostgresAttachmentRepository implements AttachmentRepository over a
// dbx.DBTX.
type PostgresAttachmentRepository struct {
	db dbx.DBTX
}

// NewPostgresAttachmentRepository returns a repository bound to the given DBTX.
func NewPostgresAttachmentRepository(db dbx.DBTX) *PostgresAttachmentRepository {
	return &PostgresAttachmentRepository{db: db}
}

// SelectOwned returns all attachment metadata owned by ownerID, newest first.
func (r *PostgresAttachmentRepository) SelectOwned(ctx context.Context, ownerID string) ([]models.AttachmentRecord, error) {
	query := `
		SELECT id, job_id, owner_id, storage_path, file_name, mime_type, created_at
		FROM attachments
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select attachments: %w", err)
	}
	defer rows.Close()

	var result []models.AttachmentRecord
	for rows.Next() {
		var (
			item models.AttachmentRecord
			mime sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.JobID, &item.OwnerID, &item.StoragePath,
			&item.FileName, &mime, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attachment row: %w", err)
		}
		item.MimeType = mime.String
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Insert stores a metadata row after its blob upload succeeded. The storage
// path carries a uniqueness constraint; a conflict maps to
// common.ErrDuplicatePath.
func (r *PostgresAttachmentRepository) Insert(ctx context.Context, att *models.AttachmentRecord) (*models.AttachmentRecord, error) {
	query := `
		INSERT INTO attachments (job_id, owner_id, storage_path, file_name, mime_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	inserted := *att
	err := r.db.QueryRowContext(ctx, query,
		att.JobID, att.OwnerID, att.StoragePath, att.FileName, nullStr(att.MimeType),
	).Scan(&inserted.ID, &inserted.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrDuplicatePath
		}
		return nil, fmt.Errorf("failed to insert attachment: %w", err)
	}
	return &inserted, nil
}

// Delete removes the owned metadata row by id.
func (r *PostgresAttachmentRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM attachments WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// isUniqueViolation reports whether err is a unique-constraint violation
// raised by the table store.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
