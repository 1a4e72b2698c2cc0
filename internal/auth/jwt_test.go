package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	mgr := NewManager("test-secret", time.Hour)

	token, err := mgr.Generate("user-1", "a@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := mgr.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestValidateExpiredToken(t *testing.T) {
	mgr := NewManager("test-secret", -time.Minute)

	token, err := mgr.Generate("user-1", "a@example.com")
	require.NoError(t, err)

	_, err = mgr.Validate(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateWrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour).Generate("user-1", "a@example.com")
	require.NoError(t, err)

	_, err = NewManager("secret-b", time.Hour).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateGarbage(t *testing.T) {
	mgr := NewManager("test-secret", time.Hour)

	_, err := mgr.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
