package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Domenick1991/carrental/pkg/logger"
	"github.com/segmentio/kafka-go"
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type Consumer struct {
	reader messageReader
	log    logger.Logger
}

func NewConsumer(brokers []string, groupID, topic string, log logger.Logger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
		log: log,
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume blocks until ctx is canceled or handler returns an error.
// Cancellation is not reported as an error.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, kafka.Message) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				return nil
			}
			return err
		}

		if err := handler(ctx, msg); err != nil {
			return err
		}
	}
}

// ConsumeNotifications decodes each message as a Notification. Messages that
// do not decode, or carry another event type, are logged and skipped.
func (c *Consumer) ConsumeNotifications(ctx context.Context, handler func(context.Context, Notification) error) error {
	return c.Consume(ctx, func(ctx context.Context, msg kafka.Message) error {
		var n Notification
		if err := json.Unmarshal(msg.Value, &n); err != nil {
			c.log.Warn("skipping undecodable notification", "offset", msg.Offset, "partition", msg.Partition, "error", err)
			return nil
		}
		if n.Type != EventInvoiceEmailRequest {
			c.log.Debug("skipping notification", "type", n.Type, "id", n.ID)
			return nil
		}
		return handler(ctx, n)
	})
}
