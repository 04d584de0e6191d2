package book

import (
	"context"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns one page of books ordered by id.
func (s *Service) List(ctx context.Context, q Query) (Page, error) {
	cursor, err := DecodeCursor(q.Cursor)
	if err != nil {
		return Page{}, err
	}
	q.AfterID = cursor.AfterID

	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	pageSize := q.Limit
	q.Limit++

	books, err := s.repo.List(ctx, q)
	if err != nil {
		return Page{}, err
	}

	page := Page{Books: books}
	if len(books) > pageSize {
		page.Books = books[:pageSize]
		page.NextCursor = EncodeCursor(CursorData{AfterID: page.Books[pageSize-1].ID})
	}
	return page, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores a new listing for sellerID. Duplicates are left to the
// storage constraint.
func (s *Service) Create(ctx context.Context, sellerID int64, in Input) (Book, error) {
	b := Book{SellerID: sellerID}
	in.apply(&b)
	if err := s.repo.Create(ctx, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// Owned returns the book when it belongs to sellerID.
func (s *Service) Owned(ctx context.Context, sellerID, id int64) (Book, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Book{}, err
	}
	if b.SellerID != sellerID {
		return Book{}, ErrForbidden
	}
	return b, nil
}

func (s *Service) Update(ctx context.Context, sellerID, id int64, in Input) (Book, error) {
	b, err := s.Owned(ctx, sellerID, id)
	if err != nil {
		return Book{}, err
	}
	return s.Replace(ctx, b, in)
}

// Replace writes in over a book previously returned by Owned. The storage
// write stays scoped to owned.SellerID.
func (s *Service) Replace(ctx context.Context, owned Book, in Input) (Book, error) {
	in.apply(&owned)
	if err := s.repo.Update(ctx, &owned); err != nil {
		return Book{}, err
	}
	return owned, nil
}

func (s *Service) Delete(ctx context.Context, sellerID, id int64) error {
	if _, err := s.Owned(ctx, sellerID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id, sellerID)
}
