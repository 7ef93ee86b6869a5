package telegram

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Client is a thin wrapper around the Telegram Bot API exposing only the
// methods the bot needs.
type Client struct {
	api    *tgbotapi.BotAPI
	logger *logrus.Logger
}

// ClientOptions configures a Client.
type ClientOptions struct {
	// Endpoint is a format string taking the token and the method name,
	// tgbotapi.APIEndpoint when empty.
	Endpoint string
	// Timeout bounds each HTTP round trip; it must exceed the long-poll timeout.
	Timeout time.Duration
	Debug   bool
}

// NewClient creates a Bot API client and verifies the token with getMe.
func NewClient(token string, opts ClientOptions, logger *logrus.Logger) (*Client, error) {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	if err := tgbotapi.SetLogger(logger); err != nil {
		return nil, fmt.Errorf("failed to set bot API logger: %w", err)
	}

	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, &http.Client{Timeout: opts.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	api.Debug = opts.Debug

	logger.Infof("Authorized on account %s", api.Self.UserName)

	return &Client{
		api:    api,
		logger: logger,
	}, nil
}

// Username returns the bot's own username.
func (c *Client) Username() string {
	return c.api.Self.UserName
}

// Call issues a single Bot API method call. Transport failures and responses
// with ok=false are both returned as errors; there is no retry.
func (c *Client) Call(method string, params tgbotapi.Params) (*tgbotapi.APIResponse, error) {
	resp, err := c.api.MakeRequest(method, params)
	if err != nil {
		return resp, fmt.Errorf("%s failed: %w", method, err)
	}
	return resp, nil
}

// SendMessage sends an HTML-formatted message with an optional inline keyboard.
func (c *Client) SendMessage(chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if keyboard != nil {
		msg.ReplyMarkup = *keyboard
	}

	if _, err := c.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

// GetChatMember returns the membership status of userID in groupID. The group
// may be given as @username or as a numeric chat id.
func (c *Client) GetChatMember(groupID string, userID int64) (string, error) {
	params := tgbotapi.Params{"chat_id": groupID}
	params.AddNonZero64("user_id", userID)

	resp, err := c.Call("getChatMember", params)
	if err != nil {
		return "", fmt.Errorf("failed to get chat member: %w", err)
	}

	var member tgbotapi.ChatMember
	if err := json.Unmarshal(resp.Result, &member); err != nil {
		return "", fmt.Errorf("failed to decode chat member: %w", err)
	}

	return member.Status, nil
}

// GetUpdates long-polls for updates starting at offset. The server holds the
// request for up to timeoutSeconds.
func (c *Client) GetUpdates(offset, timeoutSeconds int) ([]tgbotapi.Update, error) {
	updates, err := c.api.GetUpdates(tgbotapi.UpdateConfig{
		Offset:  offset,
		Timeout: timeoutSeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get updates: %w", err)
	}
	return updates, nil
}

// AnswerCallbackQuery stops the client-side loading indicator of a callback.
func (c *Client) AnswerCallbackQuery(callbackID string) error {
	if _, err := c.api.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		return fmt.Errorf("failed to answer callback query: %w", err)
	}
	return nil
}

// DeleteWebhook removes a configured webhook so that getUpdates is allowed.
func (c *Client) DeleteWebhook() error {
	if _, err := c.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}
	return nil
}
