package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	hash, err := HashPassword("admin123", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "admin123"))
	assert.ErrorIs(t, ComparePassword(hash, "admin124"), ErrPasswordMismatch)
}

func TestHashPasswordClampsCost(t *testing.T) {
	hash, err := HashPassword("x", 99)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestComparePasswordMalformedHash(t *testing.T) {
	err := ComparePassword("not-a-hash", "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPasswordMismatch)
}
