package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/taskpulse/taskpulse-api/internal/domain"
	"github.com/taskpulse/taskpulse-api/internal/service/auth"
	"github.com/taskpulse/taskpulse-api/internal/store"
)

// UserService provides registration and authentication operations.
type UserService interface {
	// Register creates a new user and returns it together with an access
	// token. Returns ErrEmailExists if the email is taken.
	Register(ctx context.Context, name, email, password string) (*domain.User, string, error)

	// Login authenticates a user by email and password and returns the
	// user with a fresh access token. Returns ErrInvalidCredentials on any
	// authentication failure, never revealing which part was wrong.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)

	// GetUser retrieves a user by their ID.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// userServiceImpl implements the UserService interface.
type userServiceImpl struct {
	userStore  store.UserStore
	jwtService auth.JWTService
	verifier   auth.PasswordVerifier
	logger     *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	userStore store.UserStore,
	jwtService auth.JWTService,
	verifier auth.PasswordVerifier,
	logger *slog.Logger,
) (UserService, error) {
	if userStore == nil {
		return nil, errors.New("userStore cannot be nil")
	}
	if jwtService == nil {
		return nil, errors.New("jwtService cannot be nil")
	}
	if verifier == nil {
		return nil, errors.New("verifier cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &userServiceImpl{
		userStore:  userStore,
		jwtService: jwtService,
		verifier:   verifier,
		logger:     logger.With("component", "user_service"),
	}, nil
}

// Register implements UserService.Register
func (s *userServiceImpl) Register(
	ctx context.Context,
	name, email, password string,
) (*domain.User, string, error) {
	user, err := domain.NewUser(name, email, password)
	if err != nil {
		return nil, "", wrapError("register_user", "invalid user data", err)
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		return nil, "", wrapError("register_user", "failed to create user", err)
	}

	token, err := s.jwtService.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, "", wrapError("register_user", "failed to generate token", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return user, token, nil
}

// Login implements UserService.Login
func (s *userServiceImpl) Login(
	ctx context.Context,
	email, password string,
) (*domain.User, string, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", wrapError("login", "failed to look up user", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		s.logger.Debug("password mismatch", "user_id", user.ID)
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, "", wrapError("login", "failed to generate token", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return user, token, nil
}

// GetUser implements UserService.GetUser
func (s *userServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, wrapError("get_user", "failed to retrieve user", err)
	}
	return user, nil
}
