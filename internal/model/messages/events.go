package messages

import "max.ks1230/gastos-bot/internal/entity/category"

type EventKind int

const (
	CommandEvent EventKind = iota + 1
	CategoryEvent
	TextEvent
)

func (k EventKind) String() string {
	switch k {
	case CommandEvent:
		return "command"
	case CategoryEvent:
		return "category"
	case TextEvent:
		return "text"
	}
	return "unknown"
}

// Incoming is a chat event stripped of its transport.
type Incoming struct {
	Kind     EventKind
	ChatID   int64
	UserID   int64
	UserName string

	Command     string
	CategoryKey string
	Text        string

	// MessageID and CallbackID identify the menu a category was picked from.
	MessageID  int
	CallbackID string
}

type ReplyKind int

const (
	ReplyText ReplyKind = iota + 1
	ReplyWithCategoryMenu
	EditLastPrompt
)

// MenuColumns is how many categories share a menu row.
const MenuColumns = 2

type Reply struct {
	Kind       ReplyKind
	ChatID     int64
	MessageID  int
	CallbackID string
	Text       string
	Categories []category.Category
}

func textReply(in Incoming, text string) Reply {
	return Reply{
		Kind:       ReplyText,
		ChatID:     in.ChatID,
		CallbackID: in.CallbackID,
		Text:       text,
	}
}
