package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/WebinarBoT/internal/metrics"
	"github.com/Kerhoff/WebinarBoT/internal/models"
	"github.com/Kerhoff/WebinarBoT/internal/repository"
)

// MembershipChecker reports a user's status in a group.
type MembershipChecker interface {
	GetChatMember(groupID string, userID int64) (string, error)
}

// Service is the business logic layer between the Telegram handlers and the
// user store.
type Service struct {
	logger     *logrus.Logger
	metrics    *metrics.Metrics
	Users      repository.UserRepository
	membership MembershipChecker
	groupID    string
}

// New creates a new Service with all required dependencies.
func New(logger *logrus.Logger, m *metrics.Metrics,
	users repository.UserRepository,
	membership MembershipChecker,
	groupID string,
) *Service {
	return &Service{
		logger:     logger,
		metrics:    m,
		Users:      users,
		membership: membership,
		groupID:    groupID,
	}
}

// Profile is the display information captured when a user is first seen.
type Profile struct {
	TelegramID int64
	Username   string
	FirstName  string
	LastName   string
}

// EnsureUser retrieves an existing user by Telegram ID, or creates a new one
// with both flags false if not found. Profiles of existing users are left as
// first recorded.
func (s *Service) EnsureUser(ctx context.Context, profile Profile) (*models.User, error) {
	user, err := s.Users.GetByTelegramID(ctx, profile.TelegramID)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup user (telegram_id=%d): %w", profile.TelegramID, err)
	}
	if user != nil {
		return user, nil
	}

	user, err = s.Users.Create(ctx, &models.User{
		TelegramID: profile.TelegramID,
		Username:   strings.TrimSpace(profile.Username),
		FirstName:  strings.TrimSpace(profile.FirstName),
		LastName:   strings.TrimSpace(profile.LastName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user (telegram_id=%d): %w", profile.TelegramID, err)
	}

	s.metrics.UsersCreated.Inc()
	s.logger.Infof("Created new user: %s (telegram_id=%d)", user.DisplayName(), profile.TelegramID)
	return user, nil
}
