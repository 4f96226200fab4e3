package messages

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/gastos-bot/internal/entity/category"
	"max.ks1230/gastos-bot/internal/entity/expense"
	"max.ks1230/gastos-bot/internal/logger"
)

type sessionStore interface {
	SetCategory(ctx context.Context, chatID int64, key string) error
	GetCategory(ctx context.Context, chatID int64) (string, bool, error)
	Clear(ctx context.Context, chatID int64) error
}

type expenseLedger interface {
	Append(ctx context.Context, rec expense.Record) bool
}

type commandHandler func(ctx context.Context, in Incoming) (Reply, error)

// Controller runs the two-step wizard: a conversation is idle until a
// category is picked, then awaits "AMOUNT [DESCRIPTION]".
type Controller struct {
	commands map[string]commandHandler
	catalog  *category.Catalog
	sessions sessionStore
	ledger   expenseLedger
	location *time.Location
	clock    func() time.Time
}

func NewController(catalog *category.Catalog, sessions sessionStore, ledger expenseLedger, location *time.Location) *Controller {
	if location == nil {
		location = time.UTC
	}
	c := &Controller{
		catalog:  catalog,
		sessions: sessions,
		ledger:   ledger,
		location: location,
		clock:    time.Now,
	}
	c.commands = map[string]commandHandler{
		startCommand:   c.handleStart,
		expenseCommand: c.handleNewExpense,
		cancelCommand:  c.handleCancel,
	}
	return c
}

func (c *Controller) Handle(ctx context.Context, in Incoming) (Reply, error) {
	switch in.Kind {
	case CommandEvent:
		handler, ok := c.commands[in.Command]
		if !ok {
			return textReply(in, unknownCommandMessage), nil
		}
		return handler(ctx, in)
	case CategoryEvent:
		return c.handleCategory(ctx, in)
	case TextEvent:
		return c.handleText(ctx, in)
	}
	return Reply{}, errors.Errorf("unsupported event kind %d", in.Kind)
}

func (c *Controller) handleStart(_ context.Context, in Incoming) (Reply, error) {
	return textReply(in, greetingMessage(in.UserName)), nil
}

func (c *Controller) handleNewExpense(_ context.Context, in Incoming) (Reply, error) {
	return Reply{
		Kind:       ReplyWithCategoryMenu,
		ChatID:     in.ChatID,
		Text:       menuMessage,
		Categories: c.catalog.List(),
	}, nil
}

func (c *Controller) handleCancel(ctx context.Context, in Incoming) (Reply, error) {
	if err := c.sessions.Clear(ctx, in.ChatID); err != nil {
		return textReply(in, internalErrorMessage), errors.Wrap(err, "handle cancel")
	}
	return textReply(in, cancelledMessage), nil
}

func (c *Controller) handleCategory(ctx context.Context, in Incoming) (Reply, error) {
	label, err := c.catalog.LabelOf(in.CategoryKey)
	if err != nil {
		logger.Warn("unknown category selected", zap.String("key", in.CategoryKey), zap.Int64("chatID", in.ChatID))
		return textReply(in, unknownCategoryMessage), nil
	}

	if err = c.sessions.SetCategory(ctx, in.ChatID, in.CategoryKey); err != nil {
		return textReply(in, internalErrorMessage), errors.Wrap(err, "handle category")
	}

	return Reply{
		Kind:       EditLastPrompt,
		ChatID:     in.ChatID,
		MessageID:  in.MessageID,
		CallbackID: in.CallbackID,
		Text:       categoryPromptMessage(label),
	}, nil
}

func (c *Controller) handleText(ctx context.Context, in Incoming) (Reply, error) {
	key, ok, err := c.sessions.GetCategory(ctx, in.ChatID)
	if err != nil {
		return textReply(in, internalErrorMessage), errors.Wrap(err, "handle text")
	}
	if !ok {
		return textReply(in, startFirstMessage), nil
	}

	parsed, err := expense.ParseInput(in.Text)
	if err != nil {
		logger.Debug("malformed expense input", zap.Error(err), zap.Int64("chatID", in.ChatID))
		return textReply(in, formatErrorMessage), nil
	}

	label, err := c.catalog.LabelOf(key)
	if err != nil {
		// the stored key no longer exists in the catalog
		if clearErr := c.sessions.Clear(ctx, in.ChatID); clearErr != nil {
			logger.Warn("stale session not cleared", zap.Error(clearErr), zap.Int64("chatID", in.ChatID))
		}
		return textReply(in, unknownCategoryMessage), nil
	}

	rec := expense.New(in.UserID, c.clock().In(c.location), parsed, label)
	if !c.ledger.Append(ctx, rec) {
		// the category stays selected so the user can resend the same text
		return textReply(in, saveFailedMessage), nil
	}

	if err = c.sessions.Clear(ctx, in.ChatID); err != nil {
		logger.Warn("expense stored but session not cleared", zap.Error(err), zap.Int64("chatID", in.ChatID))
	}
	return textReply(in, successMessage(rec)), nil
}
