package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// bookSelect joins the seller so listings carry the seller's username.
const bookSelect = `
		SELECT b.id, b.title, b.author, b.price, b.published_date, b.seller_id, u.username, b.created_at, b.updated_at
		FROM books b
		JOIN users u ON u.id = b.seller_id`

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

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]Book, error) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if q.SellerID > 0 {
		clauses = append(clauses, fmt.Sprintf("b.seller_id = $%d", argn))
		args = append(args, q.SellerID)
		argn++
	}

	if q.Q != "" {
		clauses = append(clauses, fmt.Sprintf("(b.title ILIKE $%d OR b.author ILIKE $%d)", argn, argn))
		args = append(args, "%"+q.Q+"%")
		argn++
	}

	if q.AfterID > 0 {
		clauses = append(clauses, fmt.Sprintf("b.id > $%d", argn))
		args = append(args, q.AfterID)
		argn++
	}

	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY b.id ASC
		LIMIT $%d`,
		bookSelect, strings.Join(clauses, " AND "), argn)
	args = append(args, q.Limit)

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	query := bookSelect + " WHERE b.id = $1"

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Book{}, ErrNotFound
	}
	return b, err
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	const query = `
		INSERT INTO books (title, author, price, published_date, seller_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, b.Title, b.Author, b.Price, b.PublishedDate, b.SellerID).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	return mapWriteErr(err)
}

// Update rewrites the listing only when it still belongs to b.SellerID.
func (r *PostgresRepo) Update(ctx context.Context, b *Book) error {
	const query = `
		UPDATE books
		SET title = $1, author = $2, price = $3, published_date = $4, updated_at = NOW()
		WHERE id = $5 AND seller_id = $6
		RETURNING created_at, updated_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, b.Title, b.Author, b.Price, b.PublishedDate, b.ID, b.SellerID).
		Scan(&b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return mapWriteErr(err)
}

func (r *PostgresRepo) Delete(ctx context.Context, id, sellerID int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, "DELETE FROM books WHERE id = $1 AND seller_id = $2", id, sellerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ExistingKeys loads every stored (title, author) pair.
func (r *PostgresRepo) ExistingKeys(ctx context.Context) (KeySet, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, "SELECT title, author FROM books")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := KeySet{}
	for rows.Next() {
		var title, author string
		if err := rows.Scan(&title, &author); err != nil {
			return nil, err
		}
		keys[KeyOf(title, author)] = struct{}{}
	}
	return keys, rows.Err()
}

// CreateBatch copies all books inside one transaction. Nothing is kept
// unless every row was stored.
func (r *PostgresRepo) CreateBatch(ctx context.Context, books []Book) (int64, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return 0, fmt.Errorf("begin batch: %w", err)
	}
	defer func() { _ = tx.Rollback(timeoutCtx) }()

	n, err := tx.CopyFrom(timeoutCtx,
		pgx.Identifier{"books"},
		[]string{"title", "author", "price", "published_date", "seller_id"},
		pgx.CopyFromSlice(len(books), func(i int) ([]any, error) {
			b := books[i]
			return []any{b.Title, b.Author, b.Price, b.PublishedDate, b.SellerID}, nil
		}),
	)
	if err != nil {
		return 0, mapWriteErr(err)
	}
	if n != int64(len(books)) {
		return n, fmt.Errorf("%w: stored %d of %d", ErrIncompleteBatch, n, len(books))
	}

	if err := tx.Commit(timeoutCtx); err != nil {
		return 0, mapWriteErr(err)
	}
	return n, nil
}

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Price, &b.PublishedDate, &b.SellerID, &b.SellerName, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}
