package telegram

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/WebinarBoT/internal/metrics"
	"github.com/Kerhoff/WebinarBoT/pkg/logger"
)

// recorder keeps the order of handler invocations and acknowledgements.
type recorder struct {
	events  []string
	ackErr  error
	answers []string
}

func (r *recorder) AnswerCallbackQuery(id string) error {
	r.events = append(r.events, "ack:"+id)
	r.answers = append(r.answers, id)
	return r.ackErr
}

type commandFunc func(ctx context.Context, message *tgbotapi.Message) error

func (f commandFunc) Handle(ctx context.Context, message *tgbotapi.Message) error {
	return f(ctx, message)
}

type callbackFunc func(ctx context.Context, query *tgbotapi.CallbackQuery) error

func (f callbackFunc) Handle(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	return f(ctx, query)
}

func newTestRouter(rec *recorder) (*Router, *metrics.Metrics) {
	m := metrics.New()
	return NewRouter(rec, logger.Discard(), m), m
}

func messageUpdate(chatID, userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			MessageID: 10,
			Chat:      &tgbotapi.Chat{ID: chatID, Type: "private"},
			From:      &tgbotapi.User{ID: userID},
			Text:      text,
		},
	}
}

func callbackUpdate(id, data string, chatID, userID int64) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 2,
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   id,
			Data: data,
			From: &tgbotapi.User{ID: userID},
			Message: &tgbotapi.Message{
				MessageID: 11,
				Chat:      &tgbotapi.Chat{ID: chatID, Type: "private"},
			},
		},
	}
}

func TestStartCommandIsRouted(t *testing.T) {
	rec := &recorder{}
	r, m := newTestRouter(rec)

	var got *tgbotapi.Message
	r.RegisterCommand("start", commandFunc(func(_ context.Context, msg *tgbotapi.Message) error {
		got = msg
		return nil
	}))

	require.NoError(t, r.HandleUpdate(context.Background(), messageUpdate(1, 42, "/start")))

	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.Chat.ID)
	assert.Equal(t, int64(42), got.From.ID)
	assert.Empty(t, rec.answers)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Updates.WithLabelValues("message")))
}

func TestCommandVariants(t *testing.T) {
	for _, text := range []string{"/start", "/start promo", "/start@webinar_bot", "/START"} {
		t.Run(text, func(t *testing.T) {
			rec := &recorder{}
			r, _ := newTestRouter(rec)

			calls := 0
			r.RegisterCommand("start", commandFunc(func(context.Context, *tgbotapi.Message) error {
				calls++
				return nil
			}))

			require.NoError(t, r.HandleUpdate(context.Background(), messageUpdate(1, 42, text)))
			assert.Equal(t, 1, calls)
		})
	}
}

func TestCommandsForOtherBotsAreIgnored(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"/start@webinar_bot", 1},
		{"/start@Webinar_Bot promo", 1},
		{"/start", 1},
		{"/start@other_bot", 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			rec := &recorder{}
			r, _ := newTestRouter(rec)
			r.SetUsername("@webinar_bot")

			calls := 0
			r.RegisterCommand("start", commandFunc(func(context.Context, *tgbotapi.Message) error {
				calls++
				return nil
			}))

			require.NoError(t, r.HandleUpdate(context.Background(), messageUpdate(-100, 42, tt.text)))
			assert.Equal(t, tt.want, calls)
		})
	}
}

func TestNonCommandsAreIgnored(t *testing.T) {
	for _, text := range []string{"", "hello", "/unknown", "/", "start"} {
		t.Run(text, func(t *testing.T) {
			rec := &recorder{}
			r, _ := newTestRouter(rec)

			r.RegisterCommand("start", commandFunc(func(context.Context, *tgbotapi.Message) error {
				t.Fatal("start handler must not run")
				return nil
			}))

			assert.NoError(t, r.HandleUpdate(context.Background(), messageUpdate(1, 42, text)))
		})
	}
}

func TestCommandHandlerErrorPropagates(t *testing.T) {
	rec := &recorder{}
	r, _ := newTestRouter(rec)
	boom := errors.New("boom")

	r.RegisterCommand("start", commandFunc(func(context.Context, *tgbotapi.Message) error {
		return boom
	}))

	assert.ErrorIs(t, r.HandleUpdate(context.Background(), messageUpdate(1, 42, "/start")), boom)
}

func TestHelpCallbackThenAck(t *testing.T) {
	rec := &recorder{}
	r, m := newTestRouter(rec)

	r.RegisterCallback("help", callbackFunc(func(_ context.Context, q *tgbotapi.CallbackQuery) error {
		assert.Equal(t, int64(1), q.Message.Chat.ID)
		assert.Equal(t, int64(42), q.From.ID)
		rec.events = append(rec.events, "help")
		return nil
	}))

	require.NoError(t, r.HandleUpdate(context.Background(), callbackUpdate("cb1", "help", 1, 42)))

	assert.Equal(t, []string{"help", "ack:cb1"}, rec.events)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Callbacks.WithLabelValues("help")))
}

func TestCallbackAckedOnceWhenHandlerFails(t *testing.T) {
	rec := &recorder{}
	r, _ := newTestRouter(rec)
	boom := errors.New("send failed")

	r.RegisterCallback("register", callbackFunc(func(context.Context, *tgbotapi.CallbackQuery) error {
		return boom
	}))

	err := r.HandleUpdate(context.Background(), callbackUpdate("cb2", "register", 1, 42))

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"cb2"}, rec.answers)
}

func TestCallbackAckedOnceWhenHandlerPanics(t *testing.T) {
	rec := &recorder{}
	r, _ := newTestRouter(rec)

	r.RegisterCallback("help", callbackFunc(func(context.Context, *tgbotapi.CallbackQuery) error {
		panic("runtime error: invalid memory address or nil pointer dereference")
	}))

	var err error
	require.NotPanics(t, func() {
		err = r.HandleUpdate(context.Background(), callbackUpdate("cb1", "help", 1, 42))
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic in callback handler")
	assert.Equal(t, []string{"cb1"}, rec.answers)
}

func TestUnknownCallbackIsStillAcked(t *testing.T) {
	rec := &recorder{}
	r, m := newTestRouter(rec)

	require.NoError(t, r.HandleUpdate(context.Background(), callbackUpdate("cb3", "nope", 1, 42)))

	assert.Equal(t, []string{"cb3"}, rec.answers)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Callbacks.WithLabelValues("unknown")))
}

func TestCallbackWithoutMessageIsAcked(t *testing.T) {
	rec := &recorder{}
	r, _ := newTestRouter(rec)

	r.RegisterCallback("help", callbackFunc(func(context.Context, *tgbotapi.CallbackQuery) error {
		t.Fatal("handler must not run without a chat")
		return nil
	}))

	update := callbackUpdate("cb4", "help", 1, 42)
	update.CallbackQuery.Message = nil

	require.NoError(t, r.HandleUpdate(context.Background(), update))
	assert.Equal(t, []string{"cb4"}, rec.answers)
}

func TestAckFailureIsReported(t *testing.T) {
	rec := &recorder{ackErr: errors.New("network down")}
	r, _ := newTestRouter(rec)
	handlerErr := errors.New("handler failed")

	r.RegisterCallback("help", callbackFunc(func(context.Context, *tgbotapi.CallbackQuery) error {
		return handlerErr
	}))

	err := r.HandleUpdate(context.Background(), callbackUpdate("cb5", "help", 1, 42))

	require.Error(t, err)
	assert.ErrorIs(t, err, handlerErr)
	assert.ErrorIs(t, err, rec.ackErr)
	assert.Equal(t, []string{"cb5"}, rec.answers)
}

func TestOtherUpdatesAreIgnored(t *testing.T) {
	rec := &recorder{}
	r, m := newTestRouter(rec)

	assert.NoError(t, r.HandleUpdate(context.Background(), tgbotapi.Update{UpdateID: 3}))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Updates.WithLabelValues("other")))
}
