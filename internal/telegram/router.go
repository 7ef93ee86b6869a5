package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/WebinarBoT/internal/metrics"
)

// CommandHandler handles a slash command sent as a text message.
type CommandHandler interface {
	Handle(ctx context.Context, message *tgbotapi.Message) error
}

// CallbackHandler handles a press on an inline keyboard button.
type CallbackHandler interface {
	Handle(ctx context.Context, query *tgbotapi.CallbackQuery) error
}

// CallbackAnswerer acknowledges callback queries.
type CallbackAnswerer interface {
	AnswerCallbackQuery(callbackID string) error
}

// Router classifies updates and routes them to the registered handlers
type Router struct {
	answerer  CallbackAnswerer
	username  string
	logger    *logrus.Logger
	metrics   *metrics.Metrics
	commands  map[string]CommandHandler
	callbacks map[string]CallbackHandler
}

// NewRouter creates a new update router
func NewRouter(answerer CallbackAnswerer, logger *logrus.Logger, m *metrics.Metrics) *Router {
	return &Router{
		answerer:  answerer,
		logger:    logger,
		metrics:   m,
		commands:  make(map[string]CommandHandler),
		callbacks: make(map[string]CallbackHandler),
	}
}

// SetUsername makes "/cmd@name" addressed to other bots ignored. With no
// username every suffix is accepted.
func (r *Router) SetUsername(username string) {
	r.username = strings.TrimPrefix(username, "@")
}

// RegisterCommand registers a command handler
func (r *Router) RegisterCommand(command string, handler CommandHandler) {
	r.commands[command] = handler
	r.logger.Debugf("Registered command: %s", command)
}

// RegisterCallback registers a handler for exact callback data
func (r *Router) RegisterCallback(data string, handler CallbackHandler) {
	r.callbacks[data] = handler
	r.logger.Debugf("Registered callback: %s", data)
}

// HandleUpdate routes a single update. The returned error is meant for the
// poll loop; handlers report user-facing problems themselves.
func (r *Router) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	traceID := uuid.NewString()

	switch {
	case update.Message != nil:
		r.metrics.Updates.WithLabelValues("message").Inc()
		return r.HandleMessage(ctx, update.Message, traceID)
	case update.CallbackQuery != nil:
		r.metrics.Updates.WithLabelValues("callback").Inc()
		return r.HandleCallbackQuery(ctx, update.CallbackQuery, traceID)
	default:
		r.metrics.Updates.WithLabelValues("other").Inc()
		r.logger.WithFields(logrus.Fields{
			"trace_id":  traceID,
			"update_id": update.UpdateID,
		}).Debug("Ignoring unsupported update")
		return nil
	}
}

// HandleMessage handles incoming messages
func (r *Router) HandleMessage(ctx context.Context, message *tgbotapi.Message, traceID string) error {
	if message.Chat == nil || message.From == nil || message.Text == "" {
		return nil
	}

	log := r.logger.WithFields(logrus.Fields{
		"trace_id":   traceID,
		"chat_id":    message.Chat.ID,
		"user_id":    message.From.ID,
		"username":   message.From.UserName,
		"message_id": message.MessageID,
	})
	log.WithField("text", message.Text).Info("Received message")

	command, ok := parseCommand(message.Text, r.username)
	if !ok {
		return nil
	}

	handler, exists := r.commands[command]
	if !exists {
		log.WithField("command", command).Debug("Unknown command")
		return nil
	}

	if err := handler.Handle(ctx, message); err != nil {
		log.WithFields(logrus.Fields{
			"command": command,
			"error":   err,
		}).Error("Command handler failed")
		return err
	}
	return nil
}

// HandleCallbackQuery handles callback queries from inline keyboards. The
// query is answered exactly once, after the handler ran, whatever happened.
func (r *Router) HandleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery, traceID string) error {
	fields := logrus.Fields{
		"trace_id":    traceID,
		"callback_id": query.ID,
		"data":        query.Data,
	}
	if query.From != nil {
		fields["user_id"] = query.From.ID
	}
	log := r.logger.WithFields(fields)
	log.Info("Received callback query")

	var result *multierror.Error

	handler, exists := r.callbacks[query.Data]
	switch {
	case !exists:
		log.Warn("Unknown callback data")
		r.metrics.Callbacks.WithLabelValues("unknown").Inc()
	case query.Message == nil || query.Message.Chat == nil || query.From == nil:
		log.Warn("Callback query without originating chat")
		r.metrics.Callbacks.WithLabelValues("unknown").Inc()
	default:
		r.metrics.Callbacks.WithLabelValues(query.Data).Inc()
		if err := runCallback(ctx, handler, query); err != nil {
			log.WithError(err).Error("Callback handler failed")
			result = multierror.Append(result, err)
		}
	}

	if err := r.answerer.AnswerCallbackQuery(query.ID); err != nil {
		log.WithError(err).Error("Failed to answer callback query")
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

// runCallback turns a handler panic into an error so the query is still
// answered.
func runCallback(ctx context.Context, handler CallbackHandler, query *tgbotapi.CallbackQuery) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic in callback handler: %v", p)
		}
	}()
	return handler.Handle(ctx, query)
}

// parseCommand extracts the command name from "/start", "/start payload" or
// "/start@botname". A suffix naming another bot is rejected when username is
// known.
func parseCommand(text, username string) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", false
	}
	command, target, addressed := strings.Cut(strings.TrimPrefix(fields[0], "/"), "@")
	if command == "" {
		return "", false
	}
	if addressed && username != "" && !strings.EqualFold(target, username) {
		return "", false
	}
	return strings.ToLower(command), true
}
