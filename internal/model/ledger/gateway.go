package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/gastos-bot/internal/entity/expense"
	"max.ks1230/gastos-bot/internal/logger"
)

var (
	ErrLedgerWrite          = errors.New("ledger write failed")
	ErrConfigurationMissing = errors.New("ledger is not configured")
)

const defaultPublishTimeout = 5 * time.Second

// writeError is reported as ErrLedgerWrite while keeping the backend cause.
type writeError struct {
	cause error
}

func (e *writeError) Error() string {
	return ErrLedgerWrite.Error() + ": " + e.cause.Error()
}

func (e *writeError) Unwrap() error {
	return e.cause
}

func (e *writeError) Is(target error) bool {
	return target == ErrLedgerWrite
}

type writer interface {
	Write(ctx context.Context, rec expense.Record) error
}

type publisher interface {
	PublishExpense(ctx context.Context, rec expense.Record) error
}

type Option func(*Gateway)

// WithPublisher announces every stored record. Publish failures are logged
// and do not affect Append's result.
func WithPublisher(p publisher) Option {
	return func(g *Gateway) {
		g.publisher = p
	}
}

func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		g.timeout = d
	}
}

// WithPublishTimeout bounds a single event publish.
func WithPublishTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		g.publishTimeout = d
	}
}

// Gateway makes exactly one write attempt per Append and reports the outcome
// as a bool.
type Gateway struct {
	writer         writer
	publisher      publisher
	timeout        time.Duration
	publishTimeout time.Duration
	reason         error
	pending        sync.WaitGroup
}

func NewGateway(w writer, opts ...Option) *Gateway {
	g := &Gateway{writer: w, publishTimeout: defaultPublishTimeout}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewDisabledGateway fails every Append. It stands in for a ledger whose
// credentials could not be loaded.
func NewDisabledGateway(reason error) *Gateway {
	if reason == nil {
		reason = ErrConfigurationMissing
	}
	logger.Error("ledger disabled, every expense will be rejected", zap.Error(reason))
	return &Gateway{reason: reason}
}

func (g *Gateway) Enabled() bool {
	return g.writer != nil
}

func (g *Gateway) Append(ctx context.Context, rec expense.Record) bool {
	span, ctx := opentracing.StartSpanFromContext(ctx, "ledgerAppend")
	defer span.Finish()
	span.SetTag("expense.id", rec.ID.String())

	start := time.Now()
	err := g.write(ctx, rec)
	observeWrite(time.Since(start), err == nil)

	if err != nil {
		ext.Error.Set(span, true)
		logger.Error("failed to append expense",
			zap.Error(err),
			zap.String("id", rec.ID.String()),
			zap.Int64("userID", rec.UserID))
		return false
	}

	logger.Info("expense appended", zap.String("id", rec.ID.String()), zap.Int64("userID", rec.UserID))
	g.publish(ctx, rec)
	return true
}

func (g *Gateway) write(ctx context.Context, rec expense.Record) (err error) {
	if g.writer == nil {
		return &writeError{cause: g.missingReason()}
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = &writeError{cause: fmt.Errorf("panic: %v", r)}
		}
	}()

	if err = g.writer.Write(ctx, rec); err != nil {
		return &writeError{cause: err}
	}
	return nil
}

// publish runs in the background so a slow broker never delays the reply.
func (g *Gateway) publish(ctx context.Context, rec expense.Record) {
	if g.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.publishTimeout)
	g.pending.Add(1)
	go func() {
		defer g.pending.Done()
		defer cancel()
		if err := g.publisher.PublishExpense(ctx, rec); err != nil {
			logger.Error("failed to publish expense event", zap.Error(err), zap.String("id", rec.ID.String()))
		}
	}()
}

// Wait blocks until in-flight event publishes are done.
func (g *Gateway) Wait() {
	g.pending.Wait()
}

func (g *Gateway) missingReason() error {
	if g.reason != nil {
		return g.reason
	}
	return ErrConfigurationMissing
}
