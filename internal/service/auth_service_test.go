package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mozhilabs/chat-server/internal/auth"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo, *auth.Manager) {
	t.Helper()
	users := newFakeUserRepo()
	tokens := auth.NewManager("test-secret", time.Hour)
	return NewAuthService(users, tokens, zap.NewNop().Sugar()), users, tokens
}

func TestRegister(t *testing.T) {
	svc, users, tokens := newAuthFixture(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, "Asha@Example.com", "s3cret", "Asha", "")
	require.NoError(t, err)

	assert.Equal(t, "asha@example.com", res.User.Email)
	assert.Equal(t, "Asha", res.User.Name)
	assert.Equal(t, "en", res.User.PreferredLanguage, "preferred language defaults to english")
	assert.Equal(t, "https://i.pravatar.cc/150?u=asha@example.com", res.User.Avatar)

	userID, err := tokens.Validate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, userID)

	stored, err := users.FindByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@example.com", "pw", "A", "ta")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "a@example.com", "pw2", "A2", "en")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc, _, tokens := newAuthFixture(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "a@example.com", "pw", "A", "ta")
	require.NoError(t, err)

	res, err := svc.Login(ctx, "a@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, res.User.ID)

	userID, err := tokens.Validate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, userID)
}

func TestLoginRejections(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@example.com", "pw", "A", "en")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "a@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
