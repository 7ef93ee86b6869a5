package handlers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// HelpHandler handles the help button
type HelpHandler struct {
	messenger Messenger
	screens   *Screens
	logger    *logrus.Logger
}

func NewHelpHandler(messenger Messenger, screens *Screens, logger *logrus.Logger) *HelpHandler {
	return &HelpHandler{messenger: messenger, screens: screens, logger: logger}
}

func (h *HelpHandler) Handle(_ context.Context, query *tgbotapi.CallbackQuery) error {
	if err := send(h.messenger, query.Message.Chat.ID, h.screens.Help()); err != nil {
		return fmt.Errorf("failed to send help message: %w", err)
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": query.Message.Chat.ID,
		"user_id": query.From.ID,
	}).Info("Sent help message")

	return nil
}
