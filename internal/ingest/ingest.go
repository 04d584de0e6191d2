package ingest

import (
	"errors"
	"time"

	"bookstore/internal/book"
)

var (
	ErrNothingToImport = errors.New("no new books to upload")
	ErrPartialImport   = errors.New("import stored fewer books than accepted")
	ErrBadHeader       = errors.New("header row must name title, author and price columns")
	ErrMalformedFile   = errors.New("file is not valid CSV")
)

// Reason explains why a single row was left out of an import.
type Reason string

const (
	ReasonDuplicate    Reason = "DUPLICATE_BOOK"
	ReasonMissingField Reason = "MISSING_FIELD"
	ReasonInvalidPrice Reason = "INVALID_PRICE"
)

const (
	StatusRunning   = "RUNNING"
	StatusCompleted = "COMPLETED"
	StatusEmpty     = "EMPTY"
	StatusFailed    = "FAILED"
)

// Row is one raw record of an uploaded file. Line is 1-based.
type Row struct {
	Line          int
	Title         string
	Author        string
	Price         string
	PublishedDate string
}

type Rejection struct {
	Line   int    `json:"line"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Reason Reason `json:"reason"`
}

// Result is the outcome of a deduplication pass.
type Result struct {
	Accepted []book.Book
	Rejected []Rejection
}

// Run is one bulk import as recorded in the ledger.
type Run struct {
	ID           int64      `json:"id"`
	SellerID     int64      `json:"seller_id"`
	FileName     string     `json:"file_name"`
	Status       string     `json:"status"`
	RowsRead     int        `json:"rows_read"`
	RowsAccepted int        `json:"rows_accepted"`
	RowsRejected int        `json:"rows_rejected"`
	Error        string     `json:"error,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

// Summary is returned to the uploader.
type Summary struct {
	RunID    int64       `json:"run_id"`
	Imported int         `json:"imported"`
	Rejected []Rejection `json:"rejected"`
}
