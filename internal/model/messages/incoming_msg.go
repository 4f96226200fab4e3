package messages

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/gastos-bot/internal/logger"
)

type replySender interface {
	SendReply(ctx context.Context, reply Reply) error
}

type Handler interface {
	Handle(ctx context.Context, in Incoming) (Reply, error)
}

type Service struct {
	sender  replySender
	handler Handler
}

func NewService(sender replySender, handler Handler) *Service {
	return &Service{
		sender:  sender,
		handler: handler,
	}
}

func (s *Service) HandleIncoming(ctx context.Context, in Incoming) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "handleIncoming")
	defer span.Finish()
	span.SetTag("event", in.Kind.String())

	start := time.Now()
	err := s.handle(ctx, in)
	elapsed := time.Since(start)

	observeResponse(elapsed, in.Kind, err != nil)
	if err != nil {
		ext.Error.Set(span, true)
	}
	return err
}

func (s *Service) handle(ctx context.Context, in Incoming) error {
	reply, err := s.handler.Handle(ctx, in)
	if err != nil {
		logger.Error("failed to handle event", zap.Error(err),
			zap.Stringer("kind", in.Kind), zap.Int64("chatID", in.ChatID))
		if reply.Text == "" {
			reply = textReply(in, internalErrorMessage)
		}
		if sendErr := s.sender.SendReply(ctx, reply); sendErr != nil {
			logger.Error("failed to send error reply", zap.Error(sendErr), zap.Int64("chatID", in.ChatID))
		}
		return err
	}
	return errors.Wrap(s.sender.SendReply(ctx, reply), "send reply")
}
