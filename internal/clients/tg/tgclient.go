package tg

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/gastos-bot/internal/logger"
	"max.ks1230/gastos-bot/internal/model/messages"
)

const (
	defaultUpdateOffset = 0
	timeoutSeconds      = 15
)

type tokenGetter interface {
	Token() string
	PollTimeoutSeconds() int
}

type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type incomingHandler interface {
	HandleIncoming(ctx context.Context, in messages.Incoming) error
}

type Client struct {
	client      botAPI
	pollTimeout int
}

func New(cfg tokenGetter) (*Client, error) {
	if cfg.Token() == "" {
		return nil, errors.New("telegram token is empty")
	}
	client, err := tgbotapi.NewBotAPI(cfg.Token())
	if err != nil {
		return nil, errors.Wrap(err, "cannot NewBotApi")
	}
	return &Client{client: client, pollTimeout: cfg.PollTimeoutSeconds()}, nil
}

func newWithAPI(api botAPI) *Client {
	return &Client{client: api, pollTimeout: 60}
}

// SendReply answers the pending callback query, if any, then renders the reply.
func (c *Client) SendReply(_ context.Context, reply messages.Reply) error {
	if reply.CallbackID != "" {
		if _, err := c.client.Request(tgbotapi.NewCallback(reply.CallbackID, "")); err != nil {
			logger.Warn("cannot answer callback query", zap.Error(err), zap.String("callbackID", reply.CallbackID))
		}
	}

	if _, err := c.client.Send(render(reply)); err != nil {
		return errors.Wrap(err, "client.Send")
	}
	return nil
}

func render(reply messages.Reply) tgbotapi.Chattable {
	switch reply.Kind {
	case messages.ReplyWithCategoryMenu:
		msg := tgbotapi.NewMessage(reply.ChatID, reply.Text)
		msg.ReplyMarkup = CategoryKeyboard(reply)
		return msg
	case messages.EditLastPrompt:
		if reply.MessageID != 0 {
			return tgbotapi.NewEditMessageText(reply.ChatID, reply.MessageID, reply.Text)
		}
	}
	return tgbotapi.NewMessage(reply.ChatID, reply.Text)
}

func (c *Client) ListenUpdates(ctx context.Context, handler incomingHandler) {
	u := tgbotapi.NewUpdate(defaultUpdateOffset)
	u.Timeout = c.pollTimeout

	updates := c.client.GetUpdatesChan(u)

	logger.Info("Start listening for messages")

	for {
		select {
		case <-ctx.Done():
			c.client.StopReceivingUpdates()
			logger.Info("Stop listening for messages")
			return
		case update, ok := <-updates:
			if !ok {
				logger.Info("Update channel closed")
				return
			}
			c.listenOnce(ctx, update, handler)
		}
	}
}

func (c *Client) listenOnce(ctx context.Context, update tgbotapi.Update, handler incomingHandler) {
	in, ok := ToIncoming(update)
	if !ok {
		logger.Debug("skipping update", zap.Int("updateID", update.UpdateID))
		return
	}
	logger.Info("incoming event", zap.Stringer("kind", in.Kind), zap.Int64("chatID", in.ChatID))

	ctx, cancel := context.WithTimeout(ctx, time.Second*timeoutSeconds)
	defer cancel()

	if err := handler.HandleIncoming(ctx, in); err != nil {
		logger.Error("error processing update:", zap.Error(err))
	}
}
