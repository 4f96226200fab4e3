package messages

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"max.ks1230/gastos-bot/internal/entity/category"
	"max.ks1230/gastos-bot/internal/entity/expense"
	"max.ks1230/gastos-bot/internal/model/session"
)

const testChatID = int64(42)

type ledgerStub struct {
	mu      sync.Mutex
	ok      bool
	records []expense.Record
}

func (l *ledgerStub) Append(_ context.Context, rec expense.Record) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
	return l.ok
}

type brokenSessions struct{}

func (brokenSessions) SetCategory(context.Context, int64, string) error {
	return errors.New("cache down")
}

func (brokenSessions) GetCategory(context.Context, int64) (string, bool, error) {
	return "", false, errors.New("cache down")
}

func (brokenSessions) Clear(context.Context, int64) error {
	return errors.New("cache down")
}

func newTestController(ledgerOK bool) (*Controller, *session.InMemStore, *ledgerStub) {
	store := session.NewInMemStore(0)
	ledger := &ledgerStub{ok: ledgerOK}
	c := NewController(category.Default(), store, ledger, time.UTC)
	c.clock = func() time.Time {
		return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	}
	return c, store, ledger
}

func command(name string) Incoming {
	return Incoming{Kind: CommandEvent, ChatID: testChatID, UserID: 7, UserName: "Ana", Command: name}
}

func selected(key string) Incoming {
	return Incoming{Kind: CategoryEvent, ChatID: testChatID, UserID: 7, CategoryKey: key, MessageID: 100, CallbackID: "cb-1"}
}

func text(t string) Incoming {
	return Incoming{Kind: TextEvent, ChatID: testChatID, UserID: 7, Text: t}
}

func Test_OnStartCommand_ShouldGreetByName(t *testing.T) {
	c, _, _ := newTestController(true)

	reply, err := c.Handle(context.Background(), command(startCommand))

	require.NoError(t, err)
	assert.Equal(t, ReplyText, reply.Kind)
	assert.Equal(t, testChatID, reply.ChatID)
	assert.Contains(t, reply.Text, "¡Hola, Ana!")
	assert.Contains(t, reply.Text, "/gasto")
}

func Test_OnStartCommandWithoutName_ShouldUseFallback(t *testing.T) {
	c, _, _ := newTestController(true)
	in := command(startCommand)
	in.UserName = ""

	reply, err := c.Handle(context.Background(), in)

	require.NoError(t, err)
	assert.Contains(t, reply.Text, "¡Hola, allí!")
}

func Test_OnExpenseCommand_ShouldOfferCategoryMenu(t *testing.T) {
	c, store, _ := newTestController(true)

	reply, err := c.Handle(context.Background(), command(expenseCommand))

	require.NoError(t, err)
	assert.Equal(t, ReplyWithCategoryMenu, reply.Kind)
	assert.Equal(t, menuMessage, reply.Text)
	assert.Equal(t, category.Default().List(), reply.Categories)
	assert.Equal(t, 0, store.Len())
}

func Test_OnUnknownCommand_ShouldAnswerWithHelp(t *testing.T) {
	c, _, _ := newTestController(true)

	reply, err := c.Handle(context.Background(), command("none"))

	require.NoError(t, err)
	assert.Equal(t, unknownCommandMessage, reply.Text)
}

func Test_OnFullWizard_ShouldStoreExpenseAndClearSession(t *testing.T) {
	ctx := context.Background()
	c, store, ledger := newTestController(true)

	_, err := c.Handle(ctx, command(expenseCommand))
	require.NoError(t, err)

	reply, err := c.Handle(ctx, selected("alimentacion"))
	require.NoError(t, err)
	assert.Equal(t, EditLastPrompt, reply.Kind)
	assert.Equal(t, 100, reply.MessageID)
	assert.Equal(t, "cb-1", reply.CallbackID)
	assert.Contains(t, reply.Text, "Categoría: 🥦 Alimentación")

	reply, err = c.Handle(ctx, text("35.50 Almuerzo con amigos"))
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "✅")
	assert.Contains(t, reply.Text, "🥦 Alimentación")
	assert.Contains(t, reply.Text, "Monto: 35.5")
	assert.Contains(t, reply.Text, "Descripción: Almuerzo con amigos")

	require.Len(t, ledger.records, 1)
	rec := ledger.records[0]
	assert.Equal(t, int64(7), rec.UserID)
	assert.Equal(t, 35.50, rec.Amount)
	assert.Equal(t, "🥦 Alimentación", rec.Category)
	assert.Equal(t, "2024-03-09 14:05:07", rec.RecordedAt.Format(expense.TimestampLayout))
	assert.Equal(t, "2024-03-09", rec.ExpenseDate.Format(expense.DateLayout))

	_, ok, err := store.GetCategory(ctx, testChatID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func Test_OnTextWithoutCategory_ShouldAskToStart(t *testing.T) {
	c, _, ledger := newTestController(true)

	reply, err := c.Handle(context.Background(), text("hola"))

	require.NoError(t, err)
	assert.Equal(t, startFirstMessage, reply.Text)
	assert.Empty(t, ledger.records)
}

func Test_OnMalformedAmount_ShouldKeepCategory(t *testing.T) {
	ctx := context.Background()
	c, store, ledger := newTestController(true)

	_, err := c.Handle(ctx, selected("alimentacion"))
	require.NoError(t, err)

	reply, err := c.Handle(ctx, text("notanumber algo"))
	require.NoError(t, err)
	assert.Equal(t, formatErrorMessage, reply.Text)
	assert.Empty(t, ledger.records)

	key, ok, err := store.GetCategory(ctx, testChatID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "alimentacion", key)
}

func Test_OnAmountWithoutDescription_ShouldUseDefault(t *testing.T) {
	ctx := context.Background()
	c, _, ledger := newTestController(true)

	_, err := c.Handle(ctx, selected("transporte"))
	require.NoError(t, err)

	reply, err := c.Handle(ctx, text("120"))
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "✅")

	require.Len(t, ledger.records, 1)
	assert.Equal(t, expense.DefaultDescription, ledger.records[0].Description)
	assert.Equal(t, "🚗 Transporte", ledger.records[0].Category)
}

func Test_OnLedgerFailure_ShouldReportAndRetainCategory(t *testing.T) {
	ctx := context.Background()
	c, store, ledger := newTestController(false)

	_, err := c.Handle(ctx, selected("salud"))
	require.NoError(t, err)

	reply, err := c.Handle(ctx, text("80,25 Farmacia"))
	require.NoError(t, err)
	assert.Equal(t, saveFailedMessage, reply.Text)
	require.Len(t, ledger.records, 1)
	assert.Equal(t, 80.25, ledger.records[0].Amount)

	key, ok, err := store.GetCategory(ctx, testChatID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "salud", key)
}

func Test_OnUnknownCategory_ShouldNotTouchSession(t *testing.T) {
	ctx := context.Background()
	c, store, _ := newTestController(true)

	reply, err := c.Handle(ctx, selected("viajes"))

	require.NoError(t, err)
	assert.Equal(t, ReplyText, reply.Kind)
	assert.Equal(t, unknownCategoryMessage, reply.Text)
	assert.Equal(t, "cb-1", reply.CallbackID)
	assert.Equal(t, 0, store.Len())
}

func Test_OnCancel_ShouldClearSession(t *testing.T) {
	ctx := context.Background()
	c, store, _ := newTestController(true)

	_, err := c.Handle(ctx, selected("ropa"))
	require.NoError(t, err)

	reply, err := c.Handle(ctx, command(cancelCommand))
	require.NoError(t, err)
	assert.Equal(t, cancelledMessage, reply.Text)

	reply, err = c.Handle(ctx, text("10 camisa"))
	require.NoError(t, err)
	assert.Equal(t, startFirstMessage, reply.Text)
	assert.Equal(t, 0, store.Len())
}

func Test_OnSessionsPerChat_ShouldNotLeak(t *testing.T) {
	ctx := context.Background()
	c, _, ledger := newTestController(true)

	_, err := c.Handle(ctx, selected("vivienda"))
	require.NoError(t, err)

	other := text("50 luz")
	other.ChatID = testChatID + 1
	reply, err := c.Handle(ctx, other)

	require.NoError(t, err)
	assert.Equal(t, startFirstMessage, reply.Text)
	assert.Empty(t, ledger.records)
}

func Test_OnSessionStoreFailure_ShouldReturnGenericReply(t *testing.T) {
	c := NewController(category.Default(), brokenSessions{}, &ledgerStub{ok: true}, nil)

	reply, err := c.Handle(context.Background(), text("10 pan"))

	assert.Error(t, err)
	assert.Equal(t, internalErrorMessage, reply.Text)
}

type staleSessions struct {
	clears   int
	clearErr error
}

func (s *staleSessions) SetCategory(context.Context, int64, string) error {
	return nil
}

func (s *staleSessions) GetCategory(context.Context, int64) (string, bool, error) {
	return "viajes", true, nil
}

func (s *staleSessions) Clear(context.Context, int64) error {
	s.clears++
	return s.clearErr
}

func Test_OnStoredKeyMissingFromCatalog_ShouldClearSession(t *testing.T) {
	sessions := &staleSessions{}
	ledger := &ledgerStub{ok: true}
	c := NewController(category.Default(), sessions, ledger, time.UTC)

	reply, err := c.Handle(context.Background(), text("10 hotel"))

	require.NoError(t, err)
	assert.Equal(t, unknownCategoryMessage, reply.Text)
	assert.Equal(t, 1, sessions.clears)
	assert.Empty(t, ledger.records)
}

func Test_OnStaleSessionClearFailure_ShouldStillReply(t *testing.T) {
	sessions := &staleSessions{clearErr: errors.New("cache down")}
	c := NewController(category.Default(), sessions, &ledgerStub{ok: true}, time.UTC)

	reply, err := c.Handle(context.Background(), text("10 hotel"))

	require.NoError(t, err)
	assert.Equal(t, unknownCategoryMessage, reply.Text)
	assert.Equal(t, 1, sessions.clears)
}
