package handlers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/WebinarBoT/internal/models"
	"github.com/Kerhoff/WebinarBoT/internal/service"
)

// Messenger sends a message to a chat.
type Messenger interface {
	SendMessage(chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error
}

// UserEnsurer creates the user record on first contact.
type UserEnsurer interface {
	EnsureUser(ctx context.Context, profile service.Profile) (*models.User, error)
}

// StartHandler handles the /start command
type StartHandler struct {
	users     UserEnsurer
	messenger Messenger
	screens   *Screens
	logger    *logrus.Logger
}

// NewStartHandler creates a new start command handler
func NewStartHandler(users UserEnsurer, messenger Messenger, screens *Screens, logger *logrus.Logger) *StartHandler {
	return &StartHandler{
		users:     users,
		messenger: messenger,
		screens:   screens,
		logger:    logger,
	}
}

// Handle processes the /start command
func (h *StartHandler) Handle(ctx context.Context, message *tgbotapi.Message) error {
	if _, err := h.users.EnsureUser(ctx, profileOf(message.From)); err != nil {
		return fmt.Errorf("failed to ensure user: %w", err)
	}

	if err := send(h.messenger, message.Chat.ID, h.screens.MainMenu()); err != nil {
		return fmt.Errorf("failed to send main menu: %w", err)
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
	}).Info("Sent main menu")

	return nil
}

// MainMenuHandler returns the user to the main menu
type MainMenuHandler struct {
	messenger Messenger
	screens   *Screens
}

func NewMainMenuHandler(messenger Messenger, screens *Screens) *MainMenuHandler {
	return &MainMenuHandler{messenger: messenger, screens: screens}
}

func (h *MainMenuHandler) Handle(_ context.Context, query *tgbotapi.CallbackQuery) error {
	if err := send(h.messenger, query.Message.Chat.ID, h.screens.MainMenu()); err != nil {
		return fmt.Errorf("failed to send main menu: %w", err)
	}
	return nil
}

func profileOf(u *tgbotapi.User) service.Profile {
	return service.Profile{
		TelegramID: u.ID,
		Username:   u.UserName,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
	}
}

func send(m Messenger, chatID int64, s Screen) error {
	return m.SendMessage(chatID, s.Text, s.Keyboard)
}
