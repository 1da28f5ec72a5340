package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type MessageHandler func(ctx context.Context, key, value []byte) error

type Consumer struct {
	reader  *kafka.Reader
	log     *zap.SugaredLogger
	backoff time.Duration
}

func NewConsumer(brokers []string, topic, groupID string, log *zap.SugaredLogger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     groupID,
		MinBytes:    1,
		MaxBytes:    10e6, // 10MB
		StartOffset: kafka.FirstOffset,
	})
	return &Consumer{reader: reader, log: log, backoff: 300 * time.Millisecond}
}

// Consume fetches messages until ctx is cancelled. A message is committed
// once the handler has seen it, whether or not the handler succeeded.
func (c *Consumer) Consume(ctx context.Context, handler MessageHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.Warnw("kafka fetch error", "err", err)
			time.Sleep(c.backoff)
			continue
		}

		if err := handler(ctx, msg.Key, msg.Value); err != nil {
			c.log.Errorw("kafka handle error",
				"topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset, "err", err)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			c.log.Warnw("kafka commit failed", "offset", msg.Offset, "err", err)
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
