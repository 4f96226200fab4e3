package tg

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"max.ks1230/gastos-bot/internal/entity/category"
	"max.ks1230/gastos-bot/internal/model/messages"
)

// CallbackPrefix marks inline buttons that carry a category key.
const CallbackPrefix = "categoria_"

// ToIncoming maps the updates the bot reacts to: commands, category buttons
// and plain text. Anything else reports false.
func ToIncoming(update tgbotapi.Update) (messages.Incoming, bool) {
	switch {
	case update.CallbackQuery != nil:
		return fromCallback(update.CallbackQuery)
	case update.Message != nil:
		return fromMessage(update.Message)
	}
	return messages.Incoming{}, false
}

func fromCallback(q *tgbotapi.CallbackQuery) (messages.Incoming, bool) {
	if !strings.HasPrefix(q.Data, CallbackPrefix) {
		return messages.Incoming{}, false
	}
	in := messages.Incoming{
		Kind:        messages.CategoryEvent,
		CategoryKey: strings.TrimPrefix(q.Data, CallbackPrefix),
		CallbackID:  q.ID,
	}
	if q.From != nil {
		in.UserID = q.From.ID
		in.UserName = q.From.FirstName
		in.ChatID = q.From.ID
	}
	if q.Message != nil {
		in.MessageID = q.Message.MessageID
		if q.Message.Chat != nil {
			in.ChatID = q.Message.Chat.ID
		}
	}
	return in, in.ChatID != 0
}

func fromMessage(m *tgbotapi.Message) (messages.Incoming, bool) {
	if m.Chat == nil {
		return messages.Incoming{}, false
	}
	in := messages.Incoming{
		ChatID:    m.Chat.ID,
		MessageID: m.MessageID,
	}
	if m.From != nil {
		in.UserID = m.From.ID
		in.UserName = m.From.FirstName
	}

	switch {
	case m.IsCommand():
		in.Kind = messages.CommandEvent
		in.Command = strings.ToLower(m.Command())
	case strings.TrimSpace(m.Text) != "":
		in.Kind = messages.TextEvent
		in.Text = m.Text
	default:
		return messages.Incoming{}, false
	}
	return in, true
}

// CategoryKeyboard lays the reply's categories out messages.MenuColumns per row.
func CategoryKeyboard(reply messages.Reply) tgbotapi.InlineKeyboardMarkup {
	rows := category.Rows(reply.Categories, messages.MenuColumns)
	keyboard := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, c := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(c.Label, CallbackPrefix+c.Key))
		}
		keyboard = append(keyboard, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}
