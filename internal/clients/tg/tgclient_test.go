package tg

import (
	"context"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"max.ks1230/gastos-bot/internal/entity/category"
	"max.ks1230/gastos-bot/internal/model/messages"
)

type fakeAPI struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	sendErr  error
	updates  chan tgbotapi.Update
	stopped  bool
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.sendErr
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeAPI) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

type recordingHandler struct {
	mu     sync.Mutex
	events []messages.Incoming
}

func (h *recordingHandler) HandleIncoming(_ context.Context, in messages.Incoming) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, in)
	return nil
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

func commandUpdate(text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			MessageID: 10,
			From:      &tgbotapi.User{ID: 7, FirstName: "Ana"},
			Chat:      &tgbotapi.Chat{ID: 42},
			Text:      text,
			Entities: []tgbotapi.MessageEntity{
				{Type: "bot_command", Offset: 0, Length: len(text)},
			},
		},
	}
}

func Test_OnCommandUpdate_ShouldProduceCommandEvent(t *testing.T) {
	in, ok := ToIncoming(commandUpdate("/gasto@GastosBot"))

	require.True(t, ok)
	assert.Equal(t, messages.CommandEvent, in.Kind)
	assert.Equal(t, "gasto", in.Command)
	assert.Equal(t, int64(42), in.ChatID)
	assert.Equal(t, int64(7), in.UserID)
	assert.Equal(t, "Ana", in.UserName)
}

func Test_OnTextUpdate_ShouldProduceTextEvent(t *testing.T) {
	in, ok := ToIncoming(tgbotapi.Update{
		Message: &tgbotapi.Message{
			From: &tgbotapi.User{ID: 7},
			Chat: &tgbotapi.Chat{ID: 42},
			Text: "35,50 Almuerzo",
		},
	})

	require.True(t, ok)
	assert.Equal(t, messages.TextEvent, in.Kind)
	assert.Equal(t, "35,50 Almuerzo", in.Text)
}

func Test_OnCallbackUpdate_ShouldProduceCategoryEvent(t *testing.T) {
	in, ok := ToIncoming(tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb-1",
			From: &tgbotapi.User{ID: 7},
			Data: "categoria_salud",
			Message: &tgbotapi.Message{
				MessageID: 99,
				Chat:      &tgbotapi.Chat{ID: 42},
			},
		},
	})

	require.True(t, ok)
	assert.Equal(t, messages.CategoryEvent, in.Kind)
	assert.Equal(t, "salud", in.CategoryKey)
	assert.Equal(t, 99, in.MessageID)
	assert.Equal(t, "cb-1", in.CallbackID)
	assert.Equal(t, int64(42), in.ChatID)
}

func Test_OnIrrelevantUpdates_ShouldBeIgnored(t *testing.T) {
	cases := map[string]tgbotapi.Update{
		"empty": {},
		"sticker": {Message: &tgbotapi.Message{
			Chat:    &tgbotapi.Chat{ID: 42},
			Sticker: &tgbotapi.Sticker{FileID: "x"},
		}},
		"foreign callback": {CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb",
			From: &tgbotapi.User{ID: 7},
			Data: "other_data",
		}},
	}
	for name, update := range cases {
		t.Run(name, func(t *testing.T) {
			_, ok := ToIncoming(update)
			assert.False(t, ok)
		})
	}
}

func Test_OnCategoryKeyboard_ShouldPlaceTwoPerRow(t *testing.T) {
	markup := CategoryKeyboard(messages.Reply{Categories: category.Default().List()})

	require.Len(t, markup.InlineKeyboard, 4)
	assert.Len(t, markup.InlineKeyboard[0], 2)
	assert.Len(t, markup.InlineKeyboard[3], 1)
	first := markup.InlineKeyboard[0][0]
	assert.Equal(t, "🥦 Alimentación", first.Text)
	require.NotNil(t, first.CallbackData)
	assert.Equal(t, "categoria_alimentacion", *first.CallbackData)
	assert.Equal(t, "categoria_otros", *markup.InlineKeyboard[3][0].CallbackData)
}

func Test_OnEditReply_ShouldAnswerCallbackAndEditMessage(t *testing.T) {
	api := &fakeAPI{}
	client := newWithAPI(api)

	err := client.SendReply(context.Background(), messages.Reply{
		Kind:       messages.EditLastPrompt,
		ChatID:     42,
		MessageID:  99,
		CallbackID: "cb-1",
		Text:       "Categoría: 🏥 Salud",
	})

	require.NoError(t, err)
	require.Len(t, api.requests, 1)
	assert.Equal(t, "cb-1", api.requests[0].(tgbotapi.CallbackConfig).CallbackQueryID)
	require.Len(t, api.sent, 1)
	edit, ok := api.sent[0].(tgbotapi.EditMessageTextConfig)
	require.True(t, ok)
	assert.Equal(t, 99, edit.MessageID)
	assert.Equal(t, "Categoría: 🏥 Salud", edit.Text)
}

func Test_OnMenuReply_ShouldAttachKeyboard(t *testing.T) {
	api := &fakeAPI{}
	client := newWithAPI(api)

	err := client.SendReply(context.Background(), messages.Reply{
		Kind:       messages.ReplyWithCategoryMenu,
		ChatID:     42,
		Text:       "menu",
		Categories: category.Default().List(),
	})

	require.NoError(t, err)
	assert.Empty(t, api.requests)
	msg, ok := api.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.IsType(t, tgbotapi.InlineKeyboardMarkup{}, msg.ReplyMarkup)
}

func Test_OnSendFailure_ShouldReturnError(t *testing.T) {
	api := &fakeAPI{sendErr: errors.New("bad gateway")}
	client := newWithAPI(api)

	err := client.SendReply(context.Background(), messages.Reply{Kind: messages.ReplyText, ChatID: 42, Text: "x"})

	assert.Error(t, err)
}

func Test_OnListenUpdates_ShouldDispatchUntilCancelled(t *testing.T) {
	api := &fakeAPI{updates: make(chan tgbotapi.Update, 2)}
	client := newWithAPI(api)
	handler := &recordingHandler{}
	api.updates <- commandUpdate("/start")
	api.updates <- tgbotapi.Update{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		client.ListenUpdates(ctx, handler)
		close(done)
	}()

	assert.Eventually(t, func() bool { return handler.count() == 1 }, time.Second, 10*time.Millisecond)
	cancel()
	<-done

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.True(t, api.stopped)
}
