// Package memory is a process-local UserRepository used by tests and by
// DATABASE_URL=memory:// dry runs.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Kerhoff/WebinarBoT/internal/models"
	"github.com/Kerhoff/WebinarBoT/internal/repository"
)

type UserRepository struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]models.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[int64]models.User)}
}

func (r *UserRepository) GetByTelegramID(_ context.Context, telegramID int64) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[telegramID]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.TelegramID]; exists {
		return nil, fmt.Errorf("failed to create user: duplicate telegram ID %d", user.TelegramID)
	}

	r.nextID++
	now := time.Now().UTC()
	user.ID = r.nextID
	user.IsSubscribed = false
	user.IsRegistered = false
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.TelegramID] = *user

	return user, nil
}

func (r *UserRepository) SetSubscribed(_ context.Context, telegramID int64, value bool) error {
	return r.update(telegramID, func(u *models.User) { u.IsSubscribed = value })
}

func (r *UserRepository) SetRegistered(_ context.Context, telegramID int64, value bool) error {
	return r.update(telegramID, func(u *models.User) { u.IsRegistered = value })
}

// Len returns the number of stored users.
func (r *UserRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

func (r *UserRepository) update(telegramID int64, apply func(*models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[telegramID]
	if !ok {
		return fmt.Errorf("user with telegram ID %d: %w", telegramID, repository.ErrUserNotFound)
	}
	apply(&u)
	u.UpdatedAt = time.Now().UTC()
	r.users[telegramID] = u
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
