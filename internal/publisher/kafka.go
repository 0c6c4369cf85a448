package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
	log    *slog.Logger
}

func NewKafkaPublisher(log *slog.Logger, topic string, brokers ...string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		// one event per confirmed checkout; flush it right away
		BatchSize:    1,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
	}
	return &KafkaPublisher{writer: w, log: log}
}

func (p *KafkaPublisher) PublishCheckoutConfirmed(ctx context.Context, evt CheckoutConfirmed) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal checkout event failed: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(evt.DraftID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventCheckoutConfirmed)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.ErrorContext(ctx, "failed to publish checkout event", "draft_id", evt.DraftID, "error", err)
		return fmt.Errorf("publish checkout event failed: %w", err)
	}
	p.log.InfoContext(ctx, "checkout event published", "draft_id", evt.DraftID, "order_number", evt.OrderNumber)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
