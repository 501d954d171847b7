package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndVerify(t *testing.T) {
	maker := NewMaker("test-secret-at-least-32-bytes-long", time.Hour)

	tokenStr, err := maker.Create(42, "SELLER")
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)

	claims, err := maker.Verify(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "SELLER", claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestVerifyExpiredToken(t *testing.T) {
	maker := NewMaker("test-secret-at-least-32-bytes-long", -time.Minute)

	tokenStr, err := maker.Create(42, "SELLER")
	require.NoError(t, err)

	_, err = maker.Verify(tokenStr)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	maker := NewMaker("correct-secret-correct-secret-32", time.Hour)
	other := NewMaker("another-secret-another-secret-32", time.Hour)

	tokenStr, err := maker.Create(42, "SELLER")
	require.NoError(t, err)

	_, err = other.Verify(tokenStr)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	maker := NewMaker("test-secret-at-least-32-bytes-long", time.Hour)

	_, err := maker.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = maker.Verify("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
