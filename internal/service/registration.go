package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Outcome is the result of a registration attempt.
type Outcome int

const (
	// OutcomeNotMember means the user is not in the group yet; nothing was stored.
	OutcomeNotMember Outcome = iota
	// OutcomeRegistered means membership was confirmed and both flags are set.
	OutcomeRegistered
	// OutcomeCheckFailed means membership could not be determined or saved.
	OutcomeCheckFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNotMember:
		return "not_member"
	case OutcomeRegistered:
		return "registered"
	case OutcomeCheckFailed:
		return "check_failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// IsSubscribedStatus reports whether a chat member status counts as joined.
func IsSubscribedStatus(status string) bool {
	switch status {
	case "member", "administrator", "creator":
		return true
	default:
		return false
	}
}

// CompleteRegistration checks the user's group membership and, when
// confirmed, marks them subscribed and registered. A member without a record
// (a stale button, a wiped database) gets one created from profile first.
// Failures of the platform call or the store collapse into OutcomeCheckFailed.
func (s *Service) CompleteRegistration(ctx context.Context, profile Profile) Outcome {
	outcome := s.completeRegistration(ctx, profile)
	s.metrics.MembershipChecks.WithLabelValues(outcome.String()).Inc()
	return outcome
}

func (s *Service) completeRegistration(ctx context.Context, profile Profile) Outcome {
	telegramID := profile.TelegramID
	log := s.logger.WithFields(logrus.Fields{
		"user_id":  telegramID,
		"group_id": s.groupID,
	})

	status, err := s.membership.GetChatMember(s.groupID, telegramID)
	if err != nil {
		log.WithError(err).Warn("Membership check failed")
		return OutcomeCheckFailed
	}

	if !IsSubscribedStatus(status) {
		log.WithField("status", status).Info("User is not a group member")
		return OutcomeNotMember
	}

	if _, err := s.EnsureUser(ctx, profile); err != nil {
		log.WithError(err).Error("Failed to ensure user record")
		return OutcomeCheckFailed
	}
	if err := s.Users.SetSubscribed(ctx, telegramID, true); err != nil {
		log.WithError(err).Error("Failed to mark user subscribed")
		return OutcomeCheckFailed
	}
	if err := s.Users.SetRegistered(ctx, telegramID, true); err != nil {
		log.WithError(err).Error("Failed to mark user registered")
		return OutcomeCheckFailed
	}

	log.WithField("status", status).Info("User registered for the webinar")
	return OutcomeRegistered
}
