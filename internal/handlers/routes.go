package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/WebinarBoT/internal/service"
	"github.com/Kerhoff/WebinarBoT/internal/telegram"
)

// Register wires the registration flow into the router.
func Register(r *telegram.Router, svc *service.Service, messenger Messenger, screens *Screens, logger *logrus.Logger) {
	r.RegisterCommand(CommandStart, NewStartHandler(svc, messenger, screens, logger))

	r.RegisterCallback(CallbackRegister, NewRegisterHandler(svc, messenger, screens, logger))
	r.RegisterCallback(CallbackHelp, NewHelpHandler(messenger, screens, logger))
	r.RegisterCallback(CallbackBackToMain, NewMainMenuHandler(messenger, screens))
	r.RegisterCallback(CallbackCheckSubscription, NewCheckSubscriptionHandler(svc, messenger, screens, logger))
}
