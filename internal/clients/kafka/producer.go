package kafka

import (
	"context"
	"strconv"

	"github.com/Shopify/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/gastos-bot/internal/entity/expense"
	"max.ks1230/gastos-bot/internal/logger"
)

type producerConfig interface {
	Brokers() []string
	ExpensesTopic() string
}

type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewProducer(cfg producerConfig) (*Producer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_5_0_0
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(cfg.Brokers(), config)
	if err != nil {
		return nil, errors.Wrap(err, "new sync producer")
	}
	return NewProducerWith(producer, cfg.ExpensesTopic()), nil
}

func NewProducerWith(producer sarama.SyncProducer, topic string) *Producer {
	return &Producer{producer: producer, topic: topic}
}

// PublishExpense sends an ExpenseRecorded event keyed by user, so one user's
// events stay ordered within a partition.
// The call returns when ctx is done even if the producer is still retrying.
func (p *Producer) PublishExpense(ctx context.Context, rec expense.Record) error {
	payload, err := EncodeExpense(rec)
	if err != nil {
		return err
	}

	type sendResult struct {
		partition int32
		offset    int64
		err       error
	}
	done := make(chan sendResult, 1)
	go func() {
		partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
			Topic: p.topic,
			Key:   sarama.StringEncoder(strconv.FormatInt(rec.UserID, 10)),
			Value: sarama.ByteEncoder(payload),
		})
		done <- sendResult{partition: partition, offset: offset, err: err}
	}()

	select {
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "send expense event")
	case res := <-done:
		if res.err != nil {
			return errors.Wrap(res.err, "send expense event")
		}
		logger.Debug("expense event published",
			zap.String("id", rec.ID.String()),
			zap.Int32("partition", res.partition),
			zap.Int64("offset", res.offset))
		return nil
	}
}

func (p *Producer) Close() {
	err := p.producer.Close()
	if err != nil {
		logger.Error("failed to close producer", zap.Error(err))
	}
}
