package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildKeyboardRows(t *testing.T) {
	kb := BuildKeyboard(
		Single("A", "a"),
		Row(Button{"B", "b"}, Button{"C", "c"}),
	)

	require.Len(t, kb.InlineKeyboard, 2)

	first := kb.InlineKeyboard[0]
	require.Len(t, first, 1)
	assert.Equal(t, "A", first[0].Text)
	require.NotNil(t, first[0].CallbackData)
	assert.Equal(t, "a", *first[0].CallbackData)

	second := kb.InlineKeyboard[1]
	require.Len(t, second, 2)
	assert.Equal(t, "B", second[0].Text)
	assert.Equal(t, "b", *second[0].CallbackData)
	assert.Equal(t, "C", second[1].Text)
	assert.Equal(t, "c", *second[1].CallbackData)
}

func TestBuildKeyboardURLButton(t *testing.T) {
	kb := BuildKeyboard(Single("Join", "url:https://t.me/group"))

	btn := kb.InlineKeyboard[0][0]
	assert.Nil(t, btn.CallbackData)
	require.NotNil(t, btn.URL)
	assert.Equal(t, "https://t.me/group", *btn.URL)
}

func TestBuildKeyboardEmpty(t *testing.T) {
	kb := BuildKeyboard()
	assert.Empty(t, kb.InlineKeyboard)
}
