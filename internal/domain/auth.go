// Package domain contains the entities of a weight cut and the ports the
// application uses to persist them.
package domain

import (
	"context"
	"time"
)

// User is an athlete account. Each user owns at most one AthleteProfile and
// all of its weight logs.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Session is an active login bound to the user agent that created it.
type Session struct {
	Token     string
	UserID    int64
	UserAgent string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// UserRepository defines the port for user persistence operations.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, username, passwordHash string) (*User, error)
	Count(ctx context.Context) (int, error)
}

// SessionRepository defines the port for session persistence operations.
// GetByToken returns (nil, nil) for an unknown token.
type SessionRepository interface {
	Create(ctx context.Context, userID int64, token, userAgent string, expiresAt time.Time) error
	GetByToken(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) error
}
