package crypto

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken_WithJTI(t *testing.T) {
	secret := "test-secret"

	token, jti, err := GenerateToken(secret, 42, "SELLER", time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, jti)

	claims, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, jti, claims.ID)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "SELLER", claims.Role)
}

func TestGenerateToken_UniqueJTIs(t *testing.T) {
	token1, jti1, err1 := GenerateToken("s", 1, "BUYER", time.Hour)
	token2, jti2, err2 := GenerateToken("s", 1, "BUYER", time.Hour)
	require.NoError(t, err1)
	require.NoError(t, err2)

	assert.NotEqual(t, jti1, jti2)
	assert.NotEqual(t, token1, token2)
}

func TestParseToken(t *testing.T) {
	secret := "test-secret-key"

	t.Run("invalid signature", func(t *testing.T) {
		token, _, err := GenerateToken("wrong-secret", 7, "SELLER", time.Hour)
		require.NoError(t, err)

		claims, err := ParseToken(secret, token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("expired token", func(t *testing.T) {
		token, _, err := GenerateToken(secret, 7, "SELLER", -time.Minute)
		require.NoError(t, err)

		claims, err := ParseToken(secret, token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
		assert.Nil(t, claims)
	})

	t.Run("missing expiry", func(t *testing.T) {
		tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 7, Role: "SELLER"})
		token, err := tkn.SignedString([]byte(secret))
		require.NoError(t, err)

		_, err = ParseToken(secret, token)
		assert.Error(t, err)
	})

	t.Run("unexpected algorithm", func(t *testing.T) {
		c := Claims{
			UserID: 7,
			Role:   "SELLER",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		tkn := jwt.NewWithClaims(jwt.SigningMethodHS512, c)
		token, err := tkn.SignedString([]byte(secret))
		require.NoError(t, err)

		_, err = ParseToken(secret, token)
		assert.Error(t, err)
	})

	t.Run("malformed token", func(t *testing.T) {
		claims, err := ParseToken(secret, "not.a.valid.token")
		assert.Error(t, err)
		assert.Nil(t, claims)
	})
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("testpassword123")
	require.NoError(t, err)
	assert.NotEqual(t, "testpassword123", hash)

	assert.True(t, VerifyPassword(hash, "testpassword123"))
	assert.False(t, VerifyPassword(hash, "wrongpassword"))

	hash2, err := HashPassword("testpassword123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		want     error
	}{
		{"Password1", nil},
		{"longenough9", nil},
		{"abc12", ErrPasswordTooShort},
		{strings.Repeat("a1", 40), ErrPasswordTooLong},
		{"12345678", ErrPasswordNoLetter},
		{"abcdefgh", ErrPasswordNoNumber},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidatePasswordStrength(tt.password), tt.password)
	}
}
