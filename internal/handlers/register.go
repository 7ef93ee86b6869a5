package handlers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/WebinarBoT/internal/service"
)

// Registrar verifies group membership and records the registration.
type Registrar interface {
	CompleteRegistration(ctx context.Context, profile service.Profile) service.Outcome
}

// MembershipHandler serves both the register button and the
// check-subscription button; only the wording differs.
type MembershipHandler struct {
	registrar Registrar
	messenger Messenger
	screens   *Screens
	logger    *logrus.Logger
	recheck   bool
}

// NewRegisterHandler handles the first registration attempt from the main menu.
func NewRegisterHandler(registrar Registrar, messenger Messenger, screens *Screens, logger *logrus.Logger) *MembershipHandler {
	return &MembershipHandler{registrar: registrar, messenger: messenger, screens: screens, logger: logger}
}

// NewCheckSubscriptionHandler handles the recheck after the subscribe prompt.
func NewCheckSubscriptionHandler(registrar Registrar, messenger Messenger, screens *Screens, logger *logrus.Logger) *MembershipHandler {
	return &MembershipHandler{registrar: registrar, messenger: messenger, screens: screens, logger: logger, recheck: true}
}

func (h *MembershipHandler) Handle(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	chatID := query.Message.Chat.ID
	outcome := h.registrar.CompleteRegistration(ctx, profileOf(query.From))

	h.logger.WithFields(logrus.Fields{
		"chat_id": chatID,
		"user_id": query.From.ID,
		"outcome": outcome.String(),
		"recheck": h.recheck,
	}).Info("Membership checked")

	switch outcome {
	case service.OutcomeRegistered:
		if err := send(h.messenger, chatID, h.screens.Registered(h.recheck)); err != nil {
			return fmt.Errorf("failed to send registration confirmation: %w", err)
		}
		if err := send(h.messenger, chatID, h.screens.MainMenu()); err != nil {
			return fmt.Errorf("failed to send main menu: %w", err)
		}
	case service.OutcomeNotMember:
		if err := send(h.messenger, chatID, h.screens.SubscribePrompt(h.recheck)); err != nil {
			return fmt.Errorf("failed to send subscribe prompt: %w", err)
		}
	default:
		if err := send(h.messenger, chatID, h.screens.CheckFailed(h.recheck)); err != nil {
			return fmt.Errorf("failed to send check failure: %w", err)
		}
	}

	return nil
}
