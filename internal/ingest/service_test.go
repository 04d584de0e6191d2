package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookstore/internal/book"
)

type mockBookStore struct {
	mock.Mock
}

func (m *mockBookStore) ExistingKeys(ctx context.Context) (book.KeySet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(book.KeySet), args.Error(1)
}

func (m *mockBookStore) CreateBatch(ctx context.Context, books []book.Book) (int64, error) {
	args := m.Called(ctx, books)
	return args.Get(0).(int64), args.Error(1)
}

type mockRunRepo struct {
	mock.Mock
}

func (m *mockRunRepo) CreateRun(ctx context.Context, run *Run) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *mockRunRepo) FinishRun(ctx context.Context, run *Run) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *mockRunRepo) ListRuns(ctx context.Context, sellerID int64, limit int) ([]Run, error) {
	args := m.Called(ctx, sellerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Run), args.Error(1)
}

func newTestService() (*Service, *mockBookStore, *mockRunRepo) {
	books := new(mockBookStore)
	runs := new(mockRunRepo)
	runs.On("CreateRun", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*Run).ID = 7
	})
	return NewService(books, runs, zap.NewNop()), books, runs
}

func finishedWith(status string) any {
	return mock.MatchedBy(func(run *Run) bool {
		return run.Status == status && run.FinishedAt != nil
	})
}

func TestService_Import(t *testing.T) {
	ctx := context.Background()

	t.Run("repeated row in one file", func(t *testing.T) {
		s, books, runs := newTestService()
		csv := "title,author,price,publishedDate\nDune,Herbert,10.5,1965\nDune,Herbert,12.0,1966\n"

		books.On("ExistingKeys", mock.Anything).Return(book.KeySet{}, nil)
		books.On("CreateBatch", mock.Anything, []book.Book{
			{Title: "Dune", Author: "Herbert", Price: 10.5, PublishedDate: "1965", SellerID: 3},
		}).Return(int64(1), nil)
		runs.On("FinishRun", mock.Anything, mock.MatchedBy(func(run *Run) bool {
			return run.Status == StatusCompleted && run.RowsRead == 2 && run.RowsAccepted == 1 && run.RowsRejected == 1
		})).Return(nil)

		summary, err := s.Import(ctx, 3, "books.csv", strings.NewReader(csv))
		require.NoError(t, err)
		assert.Equal(t, int64(7), summary.RunID)
		assert.Equal(t, 1, summary.Imported)
		assert.Equal(t, []Rejection{{Line: 3, Title: "Dune", Author: "Herbert", Reason: ReasonDuplicate}}, summary.Rejected)

		books.AssertExpectations(t)
		runs.AssertExpectations(t)
	})

	t.Run("all duplicates", func(t *testing.T) {
		s, books, runs := newTestService()
		csv := "title,author,price\nDune,Herbert,10\n"

		books.On("ExistingKeys", mock.Anything).Return(book.KeySet{book.KeyOf("Dune", "Herbert"): {}}, nil)
		runs.On("FinishRun", mock.Anything, finishedWith(StatusEmpty)).Return(nil)

		summary, err := s.Import(ctx, 3, "books.csv", strings.NewReader(csv))
		assert.ErrorIs(t, err, ErrNothingToImport)
		assert.Len(t, summary.Rejected, 1)
		books.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
		runs.AssertExpectations(t)
	})

	t.Run("bad header", func(t *testing.T) {
		s, books, runs := newTestService()
		runs.On("FinishRun", mock.Anything, finishedWith(StatusFailed)).Return(nil)

		_, err := s.Import(ctx, 3, "books.csv", strings.NewReader("name,writer\nx,y\n"))
		assert.ErrorIs(t, err, ErrBadHeader)
		books.AssertNotCalled(t, "ExistingKeys", mock.Anything)
		runs.AssertExpectations(t)
	})

	t.Run("concurrent duplicate", func(t *testing.T) {
		s, books, runs := newTestService()
		books.On("ExistingKeys", mock.Anything).Return(book.KeySet{}, nil)
		books.On("CreateBatch", mock.Anything, mock.Anything).Return(int64(0), book.ErrDuplicate)
		runs.On("FinishRun", mock.Anything, finishedWith(StatusFailed)).Return(nil)

		_, err := s.Import(ctx, 3, "books.csv", strings.NewReader("title,author,price\nDune,Herbert,1\n"))
		assert.ErrorIs(t, err, book.ErrDuplicate)
	})

	t.Run("short batch", func(t *testing.T) {
		s, books, runs := newTestService()
		books.On("ExistingKeys", mock.Anything).Return(book.KeySet{}, nil)
		books.On("CreateBatch", mock.Anything, mock.Anything).Return(int64(1), nil)
		runs.On("FinishRun", mock.Anything, finishedWith(StatusFailed)).Return(nil)

		_, err := s.Import(ctx, 3, "books.csv", strings.NewReader("title,author,price\nDune,Herbert,1\nEmma,Austen,2\n"))
		assert.ErrorIs(t, err, ErrPartialImport)
	})

	t.Run("incomplete batch from storage", func(t *testing.T) {
		s, books, runs := newTestService()
		books.On("ExistingKeys", mock.Anything).Return(book.KeySet{}, nil)
		books.On("CreateBatch", mock.Anything, mock.Anything).Return(int64(0), book.ErrIncompleteBatch)
		runs.On("FinishRun", mock.Anything, finishedWith(StatusFailed)).Return(nil)

		_, err := s.Import(ctx, 3, "books.csv", strings.NewReader("title,author,price\nDune,Herbert,1\n"))
		assert.ErrorIs(t, err, ErrPartialImport)
	})

	t.Run("run ledger unavailable", func(t *testing.T) {
		books := new(mockBookStore)
		runs := new(mockRunRepo)
		runs.On("CreateRun", mock.Anything, mock.Anything).Return(errors.New("db down"))
		s := NewService(books, runs, zap.NewNop())

		_, err := s.Import(ctx, 3, "books.csv", strings.NewReader("title,author,price\n"))
		assert.Error(t, err)
		runs.AssertNotCalled(t, "FinishRun", mock.Anything, mock.Anything)
	})

	t.Run("finish failure is not returned", func(t *testing.T) {
		s, books, runs := newTestService()
		books.On("ExistingKeys", mock.Anything).Return(book.KeySet{}, nil)
		books.On("CreateBatch", mock.Anything, mock.Anything).Return(int64(1), nil)
		runs.On("FinishRun", mock.Anything, mock.Anything).Return(errors.New("db down"))

		summary, err := s.Import(ctx, 3, "books.csv", strings.NewReader("title,author,price\nDune,Herbert,1\n"))
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Imported)
	})
}

func TestService_ListRuns(t *testing.T) {
	runs := new(mockRunRepo)
	s := NewService(new(mockBookStore), runs, zap.NewNop())
	runs.On("ListRuns", mock.Anything, int64(3), 20).Return([]Run{{ID: 1, SellerID: 3}}, nil)
	runs.On("ListRuns", mock.Anything, int64(3), 100).Return([]Run{}, nil)

	got, err := s.ListRuns(context.Background(), 3, 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = s.ListRuns(context.Background(), 3, 1000)
	require.NoError(t, err)
	runs.AssertExpectations(t)
}
