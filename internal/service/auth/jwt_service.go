// Package auth provides token-based authentication services: issuing and
// validating the HMAC-signed JWTs that resolve a request to its owning
// user, plus password verification.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Authentication errors returned by JWTService.
var (
	// ErrInvalidToken is returned when a token is malformed or its
	// signature does not verify.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a token's expiry has passed.
	ErrExpiredToken = errors.New("token expired")
)

// Claims holds the validated identity carried by a token.
type Claims struct {
	UserID uuid.UUID
}

// JWTService issues and validates access tokens.
type JWTService interface {
	// GenerateToken creates a signed access token for the given user.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken verifies a token and returns its claims.
	// Returns ErrExpiredToken or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, token string) (*Claims, error)
}

// Config carries the settings a JWTService needs.
type Config struct {
	Secret        string
	TokenLifetime time.Duration
}
