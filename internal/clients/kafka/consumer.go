package kafka

import (
	"context"
	"fmt"

	"github.com/Shopify/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/gastos-bot/internal/entity/expense"
	"max.ks1230/gastos-bot/internal/logger"
)

type consumerConfig interface {
	producerConfig
	ConsumerGroup() string
}

type journal interface {
	Write(ctx context.Context, rec expense.Record) error
}

// Consumer copies ExpenseRecorded events into a journal.
type Consumer struct {
	consumerGroup sarama.ConsumerGroup
	topic         string
	journal       journal
}

func NewConsumer(cfg consumerConfig, journal journal) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_5_0_0
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	consumerGroup, err := sarama.NewConsumerGroup(cfg.Brokers(), cfg.ConsumerGroup(), config)
	if err != nil {
		return nil, errors.Wrap(err, "new consumer group")
	}
	return &Consumer{
		consumerGroup: consumerGroup,
		topic:         cfg.ExpensesTopic(),
		journal:       journal,
	}, nil
}

func (c *Consumer) StartConsuming(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			err := c.consumerGroup.Consume(ctx, []string{c.topic}, c)
			if err != nil {
				return errors.Wrap(err, fmt.Sprintf("consume from %s", c.topic))
			}
		}
	}
}

func (c *Consumer) Close() {
	if err := c.consumerGroup.Close(); err != nil {
		logger.Error("failed to close consumer group", zap.Error(err))
	}
}

func (c *Consumer) Setup(sarama.ConsumerGroupSession) error {
	logger.Info("consumer - setup")
	return nil
}

func (c *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	logger.Info("consumer - cleanup")
	return nil
}

// ConsumeClaim marks undecodable messages as consumed; a journal failure
// leaves the message unmarked so it is redelivered.
func (c *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		rec, err := DecodeExpense(message.Value)
		if err != nil {
			logger.Error("cannot decode kafka message", zap.Error(err), zap.Int64("offset", message.Offset))
			session.MarkMessage(message, "")
			continue
		}

		logger.Info("received expense event",
			zap.ByteString("key", message.Key),
			zap.String("id", rec.ID.String()),
			zap.Int64("userID", rec.UserID))

		if err = c.journal.Write(session.Context(), rec); err != nil {
			logger.Error("failed to journal expense", zap.Error(err), zap.String("id", rec.ID.String()))
			return err
		}
		session.MarkMessage(message, "")
	}

	return nil
}
