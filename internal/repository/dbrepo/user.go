package dbrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Kerhoff/WebinarBoT/internal/models"
	"github.com/Kerhoff/WebinarBoT/internal/repository"
)

type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository. Queries are written with
// `?` placeholders and rebound for the connection's driver.
func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := r.db.Rebind(`
		INSERT INTO users (user_id, username, first_name, last_name, is_subscribed, is_registered, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.IsSubscribed = false
	user.IsRegistered = false

	err := r.db.QueryRowContext(ctx, query,
		user.TelegramID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.IsSubscribed,
		user.IsRegistered,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (r *userRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	query := r.db.Rebind(`
		SELECT id, user_id, username, first_name, last_name, is_subscribed, is_registered, created_at, updated_at
		FROM users
		WHERE user_id = ?`)

	user := &models.User{}
	if err := r.db.GetContext(ctx, user, query, telegramID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by telegram ID: %w", err)
	}

	return user, nil
}

func (r *userRepository) SetSubscribed(ctx context.Context, telegramID int64, value bool) error {
	return r.setFlag(ctx, `UPDATE users SET is_subscribed = ?, updated_at = ? WHERE user_id = ?`, telegramID, value)
}

func (r *userRepository) SetRegistered(ctx context.Context, telegramID int64, value bool) error {
	return r.setFlag(ctx, `UPDATE users SET is_registered = ?, updated_at = ? WHERE user_id = ?`, telegramID, value)
}

func (r *userRepository) setFlag(ctx context.Context, query string, telegramID int64, value bool) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), value, time.Now().UTC(), telegramID)
	if err != nil {
		return fmt.Errorf("failed to update user %d: %w", telegramID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user with telegram ID %d: %w", telegramID, repository.ErrUserNotFound)
	}

	return nil
}
