package handlers

import (
	"fmt"
	"html"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Kerhoff/WebinarBoT/internal/telegram"
)

// Command and callback tokens understood by the bot.
const (
	CommandStart = "start"

	CallbackRegister          = "register"
	CallbackHelp              = "help"
	CallbackBackToMain        = "back_to_main"
	CallbackCheckSubscription = "check_subscription"
)

// Screen is one message the bot can send: HTML text plus an optional keyboard.
type Screen struct {
	Text     string
	Keyboard *tgbotapi.InlineKeyboardMarkup
}

// Screens renders every message of the registration flow.
type Screens struct {
	groupName   string
	groupLink   string
	webinarLink string
}

func NewScreens(groupName, groupLink, webinarLink string) *Screens {
	return &Screens{
		groupName:   groupName,
		groupLink:   groupLink,
		webinarLink: webinarLink,
	}
}

func (s *Screens) MainMenu() Screen {
	return screen(
		"👋 Welcome to the webinar registration bot!\n\nChoose an action:",
		telegram.Single("🎟️ Register for the webinar", CallbackRegister),
		telegram.Single("ℹ️ Help", CallbackHelp),
	)
}

func (s *Screens) Help() Screen {
	return screen(
		"ℹ️ <b>Bot help</b>\n\n"+
			"This bot registers you for the webinar.\n\n"+
			"To register:\n"+
			"1. Press 'Register for the webinar'\n"+
			"2. Join our Telegram group\n"+
			"3. Come back to the bot and finish the registration\n\n"+
			"Once registered you will receive the webinar link.",
		telegram.Single("🔙 Back", CallbackBackToMain),
	)
}

// Registered is sent once membership is confirmed. The recheck variant
// thanks the user for joining.
func (s *Screens) Registered(recheck bool) Screen {
	link := html.EscapeString(s.webinarLink)
	if recheck {
		return screen(fmt.Sprintf(
			"✅ <b>Thanks for joining!</b>\n\n"+
				"Your webinar registration is complete.\n\n"+
				"Webinar link: %s\n\n"+
				"See you at the event!", link))
	}
	return screen(fmt.Sprintf(
		"✅ <b>Registration complete!</b>\n\n"+
			"Webinar link: %s\n\n"+
			"See you at the event!", link))
}

// SubscribePrompt asks the user to join the group and offers a recheck.
func (s *Screens) SubscribePrompt(recheck bool) Screen {
	group := html.EscapeString(s.groupName)
	joinRow := telegram.Single("🔗 Open the group", telegram.URLPrefix+s.groupLink)
	backRow := telegram.Single("🔙 Back", CallbackBackToMain)

	if recheck {
		return screen(fmt.Sprintf(
			"❌ <b>You have not joined the group yet</b>\n\n"+
				"Please join %s and try again.", group),
			joinRow,
			telegram.Single("🔄 Check again", CallbackCheckSubscription),
			backRow,
		)
	}
	return screen(fmt.Sprintf(
		"📋 <b>Webinar registration</b>\n\n"+
			"To finish registering, please join our Telegram group:\n%s\n\n"+
			"Then press 'Check subscription'.", group),
		joinRow,
		telegram.Single("✅ Check subscription", CallbackCheckSubscription),
		backRow,
	)
}

// CheckFailed is the single message for every membership check failure.
func (s *Screens) CheckFailed(recheck bool) Screen {
	if recheck {
		return screen("❌ <b>Subscription check failed</b>\n\n" +
			"Could not verify your subscription. Please try again later.")
	}
	return screen("❌ <b>Subscription check failed</b>\n\n" +
		"Please make sure the group exists and the bot has access to it.")
}

func screen(text string, rows ...[]telegram.Button) Screen {
	if len(rows) == 0 {
		return Screen{Text: text}
	}
	kb := telegram.BuildKeyboard(rows...)
	return Screen{Text: text, Keyboard: &kb}
}
