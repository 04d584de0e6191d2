package book

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrForbidden is returned when a seller touches another seller's listing.
	ErrForbidden = errors.New("book belongs to another seller")
	// ErrDuplicate is returned when the storage rejects a (title, author) pair that already exists.
	ErrDuplicate = errors.New("book with this title and author already exists")
	// ErrIncompleteBatch is returned when a batch insert stored fewer rows than it was given.
	ErrIncompleteBatch = errors.New("batch insert incomplete")
	ErrInvalidCursor   = errors.New("invalid cursor")
)

// MaxPrice is the largest price NUMERIC(10,2) storage accepts.
const MaxPrice = 99999999.99

// Book represents a listing owned by a seller.
type Book struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Price         float64   `json:"price"`
	PublishedDate string    `json:"published_date,omitempty"`
	SellerID      int64     `json:"seller_id"`
	SellerName    string    `json:"seller_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Key identifies a book for duplicate detection.
type Key struct {
	Title  string
	Author string
}

// KeyOf builds the comparison key from raw values. Surrounding whitespace is ignored.
func KeyOf(title, author string) Key {
	return Key{Title: strings.TrimSpace(title), Author: strings.TrimSpace(author)}
}

func (b Book) Key() Key {
	return KeyOf(b.Title, b.Author)
}

// KeySet is a read-only snapshot of stored keys.
type KeySet map[Key]struct{}

func (s KeySet) Has(k Key) bool {
	_, ok := s[k]
	return ok
}

// Input is the writable part of a book.
type Input struct {
	Title         string  `json:"title" validate:"required,max=255"`
	Author        string  `json:"author" validate:"required,max=255"`
	Price         float64 `json:"price" validate:"gte=0,lte=99999999.99"`
	PublishedDate string  `json:"published_date" validate:"max=32"`
}

func (in Input) apply(b *Book) {
	b.Title = strings.TrimSpace(in.Title)
	b.Author = strings.TrimSpace(in.Author)
	b.Price = in.Price
	b.PublishedDate = strings.TrimSpace(in.PublishedDate)
}

// Query defines filters and pagination for listing books.
type Query struct {
	SellerID int64
	Q        string
	Cursor   string
	Limit    int

	// AfterID is resolved from Cursor by the service.
	AfterID int64
}

// Page is one slice of a listing plus the cursor of the next one.
type Page struct {
	Books      []Book
	NextCursor string
}
