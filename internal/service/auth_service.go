package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mozhilabs/chat-server/internal/auth"
	"github.com/mozhilabs/chat-server/internal/models"
	"github.com/mozhilabs/chat-server/internal/repository"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AuthResult pairs a freshly issued access token with the account it
// belongs to.
type AuthResult struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// AuthService handles registration and login.
type AuthService struct {
	users  repository.UserRepository
	tokens *auth.Manager
	log    *zap.SugaredLogger
}

func NewAuthService(users repository.UserRepository, tokens *auth.Manager, log *zap.SugaredLogger) *AuthService {
	return &AuthService{users: users, tokens: tokens, log: log}
}

// Register creates an account with a bcrypt password hash and a generated
// avatar, then issues a token for the new user.
func (s *AuthService) Register(ctx context.Context, email, password, name, preferredLanguage string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	if preferredLanguage == "" {
		preferredLanguage = "en"
	}
	user := &models.User{
		Email:             email,
		PasswordHash:      string(hash),
		Name:              name,
		PreferredLanguage: preferredLanguage,
		Avatar:            fmt.Sprintf("https://i.pravatar.cc/150?u=%s", email),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.log.Infow("user registered", "user", user.ID.Hex(), "email", email)

	return s.issue(user)
}

// Login verifies the password against the stored hash and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.ID.Hex(), user.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user.Public()}, nil
}
