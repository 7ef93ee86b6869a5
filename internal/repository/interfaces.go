package repository

import (
	"context"
	"errors"

	"github.com/Kerhoff/WebinarBoT/internal/models"
)

// ErrUserNotFound is returned by the flag setters when no record matches.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// GetByTelegramID returns (nil, nil) when the user does not exist.
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	SetSubscribed(ctx context.Context, telegramID int64, value bool) error
	SetRegistered(ctx context.Context, telegramID int64, value bool) error
}
