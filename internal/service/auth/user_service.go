// Package auth provides user authentication: registration, credential
// login, and JWT access/refresh token issuance and validation.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pklenglish/study-api/internal/domain"
	"github.com/pklenglish/study-api/internal/platform/logger"
	"github.com/pklenglish/study-api/internal/store"
)

// ErrEmailTaken indicates registration with an already-registered email.
var ErrEmailTaken = errors.New("email already registered")

// TokenPair is an access token and its companion refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// UserService registers and authenticates users.
type UserService interface {
	// Register creates a user and issues their first token pair.
	// Returns ErrEmailTaken if the email is already registered and the
	// domain validation errors for bad input.
	Register(ctx context.Context, email, password string) (*domain.User, *TokenPair, error)

	// Login verifies credentials and issues a token pair.
	// Returns ErrInvalidCredentials on unknown email or wrong password.
	Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error)

	// Refresh exchanges a valid refresh token for a new token pair.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type userService struct {
	users    store.UserStore
	jwt      JWTService
	hasher   PasswordHasher
	verifier PasswordVerifier
	logger   *slog.Logger
}

var _ UserService = (*userService)(nil)

// NewUserService creates a UserService. logger may be nil.
func NewUserService(
	users store.UserStore,
	jwt JWTService,
	hasher PasswordHasher,
	verifier PasswordVerifier,
	log *slog.Logger,
) UserService {
	if users == nil {
		panic("user store cannot be nil")
	}
	if jwt == nil {
		panic("jwt service cannot be nil")
	}
	if hasher == nil {
		panic("password hasher cannot be nil")
	}
	if verifier == nil {
		panic("password verifier cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &userService{
		users:    users,
		jwt:      jwt,
		hasher:   hasher,
		verifier: verifier,
		logger:   log.With(slog.String("component", "user_service")),
	}
}

func (s *userService) Register(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(email, password)
	if err != nil {
		return nil, nil, err
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return user, pair, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login rejected", slog.String("user_id", user.ID.String()))
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *userService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	// The user may have been deleted since the token was issued.
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	return s.issueTokens(ctx, user)
}

func (s *userService) issueTokens(ctx context.Context, user *domain.User) (*TokenPair, error) {
	access, err := s.jwt.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.jwt.GenerateRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
