package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
)

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &Producer{writer: writer}
}

func (p *Producer) Publish(ctx context.Context, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	})
}

// PublishEvent wraps payload in an Envelope and writes it keyed by key.
func (p *Producer) PublishEvent(ctx context.Context, eventType, key string, payload any) error {
	env, err := NewEnvelope(eventType, key, payload)
	if err != nil {
		return err
	}
	return p.Publish(ctx, key, env)
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// Ping dials the first reachable broker. It is the messaging health probe.
func Ping(ctx context.Context, brokers []string) error {
	lastErr := errors.New("no kafka brokers configured")
	for _, b := range brokers {
		conn, err := kafka.DialContext(ctx, "tcp", b)
		if err != nil {
			lastErr = err
			continue
		}
		return conn.Close()
	}
	return lastErr
}
