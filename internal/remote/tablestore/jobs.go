package tablestore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ddubrovin/jobtrack/internal/client/models"
	"github.com/ddubrovin/jobtrack/internal/common"
	"github.com/ddubrovin/jobtrack/internal/dbx"
)

// PostgresJobRepository implements JobRepository over a dbx.DBTX
// (either *sql.DB or *sql.Tx).
type PostgresJobRepository struct {
	db dbx.DBTX
}

// NewPostgresJobRepository returns a repository bound to the given DBTX.
func NewPostgresJobRepository(db dbx.DBTX) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

// SelectOwned returns all jobs owned by ownerID ordered by creation
// timestamp descending.
func (r *PostgresJobRepository) SelectOwned(ctx context.Context, ownerID string) ([]models.JobRecord, error) {
	query := `
		SELECT id, owner_id, company, position, source_url, date_found, description,
		       applied, applied_date, status, created_at
		FROM jobs
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select jobs: %w", err)
	}
	defer rows.Close()

	var result []models.JobRecord
	for rows.Next() {
		item, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Insert stores a new job row. The identifier and creation timestamp are
// assigned by the store and returned on the inserted record.
func (r *PostgresJobRepository) Insert(ctx context.Context, job *models.JobRecord) (*models.JobRecord, error) {
	query := `
		INSERT INTO jobs (owner_id, company, position, source_url, date_found, description,
		                  applied, applied_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`
	inserted := *job
	err := r.db.QueryRowContext(ctx, query,
		job.OwnerID, job.Company, job.Position, nullStr(job.SourceURL), job.DateFound,
		nullStr(job.Description), job.Applied, job.AppliedDate, string(job.Status),
	).Scan(&inserted.ID, &inserted.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert job: %w", err)
	}
	return &inserted, nil
}

// Update replaces every mutable column of the owned row. It expects exactly
// one row to be affected; zero means the row does not exist or belongs to
// another owner.
func (r *PostgresJobRepository) Update(ctx context.Context, job *models.JobRecord) error {
	query := `
		UPDATE jobs
		SET company = $1, position = $2, source_url = $3, date_found = $4, description = $5,
		    applied = $6, applied_date = $7, status = $8
		WHERE id = $9 AND owner_id = $10
	`
	res, err := r.db.ExecContext(ctx, query,
		job.Company, job.Position, nullStr(job.SourceURL), job.DateFound, nullStr(job.Description),
		job.Applied, job.AppliedDate, string(job.Status), job.ID, job.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
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

// Delete removes the owned row by id. Attachment metadata rows referencing
// it are removed by the store's cascading foreign key.
func (r *PostgresJobRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
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

func scanJob(rows *sql.Rows) (*models.JobRecord, error) {
	var (
		item        models.JobRecord
		sourceURL   sql.NullString
		description sql.NullString
		appliedDate sql.NullString
		status      string
	)
	if err := rows.Scan(
		&item.ID, &item.OwnerID, &item.Company, &item.Position, &sourceURL, &item.DateFound,
		&description, &item.Applied, &appliedDate, &status, &item.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to scan job row: %w", err)
	}
	item.SourceURL = sourceURL.String
	item.Description = description.String
	if appliedDate.Valid {
		item.AppliedDate = &appliedDate.String
	}
	item.Status = models.Status(status)
	return &item, nil
}

// nullStr maps an empty string to NULL so optional text columns stay NULL
// instead of collecting empty strings.
func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
