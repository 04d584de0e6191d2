package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"bookstore/internal/book"
)

// BookStore is the part of the catalogue an import writes to.
type BookStore interface {
	ExistingKeys(ctx context.Context) (book.KeySet, error)
	CreateBatch(ctx context.Context, books []book.Book) (int64, error)
}

type Service struct {
	books  BookStore
	runs   Repository
	logger *zap.Logger
}

func NewService(books BookStore, runs Repository, logger *zap.Logger) *Service {
	return &Service{
		books:  books,
		runs:   runs,
		logger: logger,
	}
}

// Import reads src, drops rows that would duplicate a stored or earlier
// (title, author) pair, and stores the rest for ownerID in one batch.
// The returned Summary lists every rejection, also when err is
// ErrNothingToImport.
func (s *Service) Import(ctx context.Context, ownerID int64, fileName string, src io.Reader) (summary Summary, err error) {
	run := &Run{
		SellerID:  ownerID,
		FileName:  fileName,
		Status:    StatusRunning,
		StartedAt: time.Now(),
	}
	if rErr := s.runs.CreateRun(ctx, run); rErr != nil {
		return Summary{}, fmt.Errorf("record import run: %w", rErr)
	}
	summary.RunID = run.ID
	summary.Rejected = []Rejection{}

	defer func() {
		s.finish(ctx, run, err)
	}()

	rows, err := ReadRows(src)
	if err != nil {
		return summary, err
	}
	run.RowsRead = len(rows)

	existing, err := s.books.ExistingKeys(ctx)
	if err != nil {
		return summary, fmt.Errorf("load existing keys: %w", err)
	}

	res := Deduplicate(existing, rows, ownerID)
	summary.Rejected = res.Rejected
	run.RowsRejected = len(res.Rejected)

	if len(res.Accepted) == 0 {
		return summary, ErrNothingToImport
	}

	n, err := s.books.CreateBatch(ctx, res.Accepted)
	if err != nil {
		if errors.Is(err, book.ErrIncompleteBatch) {
			return summary, fmt.Errorf("%w: %v", ErrPartialImport, err)
		}
		return summary, err
	}
	if n != int64(len(res.Accepted)) {
		return summary, fmt.Errorf("%w: stored %d of %d", ErrPartialImport, n, len(res.Accepted))
	}

	run.RowsAccepted = int(n)
	summary.Imported = int(n)
	return summary, nil
}

func (s *Service) finish(ctx context.Context, run *Run, err error) {
	now := time.Now()
	run.FinishedAt = &now

	switch {
	case err == nil:
		run.Status = StatusCompleted
	case errors.Is(err, ErrNothingToImport):
		run.Status = StatusEmpty
	default:
		run.Status = StatusFailed
		run.Error = err.Error()
	}

	s.logger.Info("import finished",
		zap.Int64("run_id", run.ID),
		zap.Int64("seller_id", run.SellerID),
		zap.String("status", run.Status),
		zap.Int("rows_read", run.RowsRead),
		zap.Int("rows_accepted", run.RowsAccepted),
		zap.Int("rows_rejected", run.RowsRejected),
		zap.Duration("duration", now.Sub(run.StartedAt)),
	)

	// The ledger is written even when the client has gone away.
	if updateErr := s.runs.FinishRun(context.WithoutCancel(ctx), run); updateErr != nil {
		s.logger.Error("failed to update import run", zap.Int64("run_id", run.ID), zap.Error(updateErr))
	}
}

// ListRuns returns the most recent imports of ownerID, newest first.
func (s *Service) ListRuns(ctx context.Context, ownerID int64, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.runs.ListRuns(ctx, ownerID, limit)
}
