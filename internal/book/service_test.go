package book

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *MockRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	return NewService(repo), repo
}

func TestService_ForeignSellerCannotModify(t *testing.T) {
	ctx := context.Background()
	stored := Book{ID: 5, Title: "Dune", Author: "Herbert", Price: 10, SellerID: 1}

	t.Run("update", func(t *testing.T) {
		svc, repo := newTestService(t)
		repo.EXPECT().GetByID(gomock.Any(), int64(5)).Return(stored, nil)
		// no Update expectation: the record must stay untouched

		_, err := svc.Update(ctx, 2, 5, Input{Title: "Dune Messiah", Author: "Herbert", Price: 12})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("delete", func(t *testing.T) {
		svc, repo := newTestService(t)
		repo.EXPECT().GetByID(gomock.Any(), int64(5)).Return(stored, nil)

		err := svc.Delete(ctx, 2, 5)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestService_OwnerCanModify(t *testing.T) {
	ctx := context.Background()
	stored := Book{ID: 5, Title: "Dune", Author: "Herbert", Price: 10, SellerID: 1}

	t.Run("update", func(t *testing.T) {
		svc, repo := newTestService(t)
		repo.EXPECT().GetByID(gomock.Any(), int64(5)).Return(stored, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b *Book) error {
			assert.Equal(t, int64(1), b.SellerID)
			assert.Equal(t, "Dune Messiah", b.Title)
			return nil
		})

		b, err := svc.Update(ctx, 1, 5, Input{Title: " Dune Messiah ", Author: "Herbert", Price: 12})
		require.NoError(t, err)
		assert.Equal(t, 12.0, b.Price)
	})

	t.Run("delete", func(t *testing.T) {
		svc, repo := newTestService(t)
		repo.EXPECT().GetByID(gomock.Any(), int64(5)).Return(stored, nil)
		repo.EXPECT().Delete(gomock.Any(), int64(5), int64(1)).Return(nil)

		assert.NoError(t, svc.Delete(ctx, 1, 5))
	})

	t.Run("missing book", func(t *testing.T) {
		svc, repo := newTestService(t)
		repo.EXPECT().GetByID(gomock.Any(), int64(99)).Return(Book{}, ErrNotFound)

		_, err := svc.Update(ctx, 1, 99, Input{Title: "x", Author: "y"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestService_Create(t *testing.T) {
	svc, repo := newTestService(t)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b *Book) error {
		b.ID = 77
		return nil
	})

	b, err := svc.Create(context.Background(), 3, Input{Title: "Emma", Author: "Austen", Price: 4.5})
	require.NoError(t, err)
	assert.Equal(t, int64(77), b.ID)
	assert.Equal(t, int64(3), b.SellerID)
}

func TestService_CreateDuplicateFromStorage(t *testing.T) {
	svc, repo := newTestService(t)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(ErrDuplicate)

	_, err := svc.Create(context.Background(), 3, Input{Title: "Emma", Author: "Austen"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("next cursor when more rows exist", func(t *testing.T) {
		svc, repo := newTestService(t)
		repo.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, q Query) ([]Book, error) {
			assert.Equal(t, 3, q.Limit)
			assert.Equal(t, int64(42), q.AfterID)
			return []Book{{ID: 43}, {ID: 44}, {ID: 45}}, nil
		})

		page, err := svc.List(ctx, Query{Limit: 2, Cursor: EncodeCursor(CursorData{AfterID: 42})})
		require.NoError(t, err)
		assert.Len(t, page.Books, 2)
		assert.Equal(t, EncodeCursor(CursorData{AfterID: 44}), page.NextCursor)
	})

	t.Run("last page", func(t *testing.T) {
		svc, repo := newTestService(t)
		repo.EXPECT().List(gomock.Any(), gomock.Any()).Return([]Book{{ID: 1}}, nil)

		page, err := svc.List(ctx, Query{})
		require.NoError(t, err)
		assert.Len(t, page.Books, 1)
		assert.Empty(t, page.NextCursor)
	})

	t.Run("limit is clamped", func(t *testing.T) {
		svc, repo := newTestService(t)
		repo.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, q Query) ([]Book, error) {
			assert.Equal(t, MaxLimit+1, q.Limit)
			return nil, nil
		})

		_, err := svc.List(ctx, Query{Limit: 5000})
		require.NoError(t, err)
	})

	t.Run("bad cursor", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.List(ctx, Query{Cursor: "%%%"})
		assert.ErrorIs(t, err, ErrInvalidCursor)
	})

	t.Run("storage error", func(t *testing.T) {
		svc, repo := newTestService(t)
		boom := errors.New("boom")
		repo.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, boom)

		_, err := svc.List(ctx, Query{})
		assert.ErrorIs(t, err, boom)
	})
}
