package telegram

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/WebinarBoT/internal/metrics"
)

// UpdateSource fetches updates by long polling.
type UpdateSource interface {
	GetUpdates(offset, timeoutSeconds int) ([]tgbotapi.Update, error)
}

// UpdateHandler processes one update to completion.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update) error
}

// PollConfig controls the long-polling loop.
type PollConfig struct {
	// Timeout is the server-side long-poll timeout in seconds.
	Timeout int
	// Interval is the pause after every successful poll cycle.
	Interval time.Duration
	// RetryDelay is the fixed pause after any failure.
	RetryDelay time.Duration
}

// Bot runs the sequential long-polling loop
type Bot struct {
	source  UpdateSource
	handler UpdateHandler
	logger  *logrus.Logger
	metrics *metrics.Metrics
	cfg     PollConfig
}

// NewBot creates a polling loop that feeds updates from source to handler
func NewBot(source UpdateSource, handler UpdateHandler, cfg PollConfig, logger *logrus.Logger, m *metrics.Metrics) *Bot {
	return &Bot{
		source:  source,
		handler: handler,
		logger:  logger,
		metrics: m,
		cfg:     cfg,
	}
}

// Start polls until ctx is cancelled. Updates are handled one at a time in
// the order received. Any failure is logged and followed by RetryDelay;
// nothing short of cancellation stops the loop.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.WithField("timeout", b.cfg.Timeout).Info("Bot started with long polling")

	offset := 0
	for {
		if ctx.Err() != nil {
			b.logger.Info("Stopping bot...")
			return nil
		}

		delay := b.cfg.Interval

		updates, err := b.source.GetUpdates(offset, b.cfg.Timeout)
		if err != nil {
			b.metrics.PollErrors.Inc()
			b.logger.WithError(err).Error("Polling failed")
			delay = b.cfg.RetryDelay
		}

		for _, update := range updates {
			offset = update.UpdateID + 1
			if err := b.handleUpdate(ctx, update); err != nil {
				b.metrics.UpdateErrors.Inc()
				b.logger.WithFields(logrus.Fields{
					"update_id": update.UpdateID,
					"error":     err,
				}).Error("Update handling failed")
				delay = b.cfg.RetryDelay
				break
			}
		}

		if !sleep(ctx, delay) {
			b.logger.Info("Stopping bot...")
			return nil
		}
	}
}

// handleUpdate converts a panic from a malformed update into an error
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in update handler: %v", r)
		}
	}()

	return b.handler.HandleUpdate(ctx, update)
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
