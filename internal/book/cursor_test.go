package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeCursor(t *testing.T) {
	t.Run("empty data", func(t *testing.T) {
		result := EncodeCursor(CursorData{})
		assert.Empty(t, result)
	})

	t.Run("with after_id", func(t *testing.T) {
		result := EncodeCursor(CursorData{AfterID: 42})
		// base64 of {"after_id":42}
		assert.Equal(t, "eyJhZnRlcl9pZCI6NDJ9", result)
	})
}

func TestDecodeCursor(t *testing.T) {
	t.Run("empty cursor", func(t *testing.T) {
		data, err := DecodeCursor("")
		assert.NoError(t, err)
		assert.Equal(t, CursorData{}, data)
	})

	t.Run("valid cursor", func(t *testing.T) {
		data, err := DecodeCursor("eyJhZnRlcl9pZCI6NDJ9")
		assert.NoError(t, err)
		assert.Equal(t, int64(42), data.AfterID)
	})

	t.Run("invalid base64", func(t *testing.T) {
		data, err := DecodeCursor("invalid-base64!!!")
		assert.ErrorIs(t, err, ErrInvalidCursor)
		assert.Equal(t, CursorData{}, data)
	})

	t.Run("not json", func(t *testing.T) {
		// base64 of "hello"
		_, err := DecodeCursor("aGVsbG8=")
		assert.ErrorIs(t, err, ErrInvalidCursor)
	})
}
