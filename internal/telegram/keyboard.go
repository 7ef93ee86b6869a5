package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// URLPrefix marks a button payload as a link instead of callback data.
const URLPrefix = "url:"

// Button is a label and the payload returned when it is pressed.
type Button struct {
	Label   string
	Payload string
}

// Single wraps a bare label/payload pair into a one-button row.
func Single(label, payload string) []Button {
	return []Button{{Label: label, Payload: payload}}
}

// Row groups buttons into one keyboard row.
func Row(buttons ...Button) []Button {
	return buttons
}

// BuildKeyboard produces an inline keyboard with one row per input row.
// Payloads starting with URLPrefix become URL buttons.
func BuildKeyboard(rows ...[]Button) tgbotapi.InlineKeyboardMarkup {
	keyboard := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, newButton(b))
		}
		keyboard = append(keyboard, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

func newButton(b Button) tgbotapi.InlineKeyboardButton {
	if link, ok := strings.CutPrefix(b.Payload, URLPrefix); ok {
		return tgbotapi.NewInlineKeyboardButtonURL(b.Label, link)
	}
	return tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Payload)
}
