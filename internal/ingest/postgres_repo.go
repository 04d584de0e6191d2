package ingest

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	CreateRun(ctx context.Context, run *Run) error
	FinishRun(ctx context.Context, run *Run) error
	ListRuns(ctx context.Context, sellerID int64, limit int) ([]Run, error)
}

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) CreateRun(ctx context.Context, run *Run) error {
	const sql = `
		INSERT INTO import_runs (seller_id, file_name, status, started_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, sql, run.SellerID, run.FileName, run.Status, run.StartedAt).Scan(&run.ID)
}

func (r *PostgresRepo) FinishRun(ctx context.Context, run *Run) error {
	const sql = `
		UPDATE import_runs SET
			finished_at = $1,
			status = $2,
			rows_read = $3,
			rows_accepted = $4,
			rows_rejected = $5,
			error = $6
		WHERE id = $7`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, sql, run.FinishedAt, run.Status, run.RowsRead, run.RowsAccepted, run.RowsRejected, run.Error, run.ID)
	return err
}

func (r *PostgresRepo) ListRuns(ctx context.Context, sellerID int64, limit int) ([]Run, error) {
	const sql = `
		SELECT id, seller_id, file_name, status, rows_read, rows_accepted, rows_rejected,
		       error, started_at, finished_at
		FROM import_runs
		WHERE seller_id = $1
		ORDER BY started_at DESC, id DESC
		LIMIT $2`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, sql, sellerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Run{}
	for rows.Next() {
		var run Run
		if err := rows.Scan(
			&run.ID, &run.SellerID, &run.FileName, &run.Status, &run.RowsRead, &run.RowsAccepted, &run.RowsRejected,
			&run.Error, &run.StartedAt, &run.FinishedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
