// Package events carries tag-set change events between services over a
// Redis stream.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pixtag/pixtag/common/logger"
	"github.com/pixtag/pixtag/common/models"
	redisWrapper "github.com/pixtag/pixtag/common/redis"
)

// Stream is the change stream every metadata write publishes to
const Stream = "pixtag:changes"

const payloadField = "payload"

// Publisher appends change events to the stream
type Publisher struct {
	redis *redisWrapper.Client
	log   *logger.Logger
}

// NewPublisher creates a change event publisher
func NewPublisher(redis *redisWrapper.Client, log *logger.Logger) *Publisher {
	return &Publisher{
		redis: redis,
		log:   log,
	}
}

// Publish appends one change event. Callers treat a publish failure as an
// upstream error on the write path.
func (p *Publisher) Publish(ctx context.Context, ev models.ChangeEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}

	if _, err := p.redis.AddToStream(ctx, Stream, map[string]interface{}{
		payloadField: string(payload),
	}); err != nil {
		return fmt.Errorf("publish change event: %w", err)
	}

	p.log.Debug("change event published", "event", ev.Event, "kind", ev.Kind, "id", ev.ID)
	return nil
}

// Handler processes one change event
type Handler func(ctx context.Context, ev models.ChangeEvent) error

// Consumer reads the change stream through a consumer group and hands each
// record to a handler. Records inside one read batch are processed
// sequentially in delivery order; a handler failure is logged and the batch
// continues.
type Consumer struct {
	redis    *redisWrapper.Client
	group    string
	consumer string
	log      *logger.Logger
}

// NewConsumer creates a consumer and ensures its group exists
func NewConsumer(ctx context.Context, redis *redisWrapper.Client, group, consumer string, log *logger.Logger) (*Consumer, error) {
	if err := redis.CreateStreamGroup(ctx, Stream, group); err != nil {
		return nil, fmt.Errorf("create consumer group: %w", err)
	}

	return &Consumer{
		redis:    redis,
		group:    group,
		consumer: consumer,
		log:      log,
	}, nil
}

// Run blocks reading the stream until the context is cancelled
func (c *Consumer) Run(ctx context.Context, handler Handler) error {
	c.log.Info("change stream consumer started", "stream", Stream, "group", c.group)

	for {
		select {
		case <-ctx.Done():
			c.log.Info("change stream consumer stopping")
			return ctx.Err()
		default:
		}

		streams, err := c.redis.ReadFromStreamGroup(ctx, c.group, c.consumer, Stream, 16, 5*time.Second)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.Error("change stream read failed", "error", err)
			time.Sleep(time.Second)
			continue
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				c.dispatch(ctx, handler, msg.ID, msg.Values)
			}
		}
	}
}

// dispatch decodes and handles one stream record. Bad or failing records
// are acknowledged anyway so one record cannot block the rest of the stream.
func (c *Consumer) dispatch(ctx context.Context, handler Handler, msgID string, values map[string]interface{}) {
	defer func() {
		if err := c.redis.AckStreamMessage(ctx, Stream, c.group, msgID); err != nil {
			c.log.Error("failed to ack change event", "message_id", msgID, "error", err)
		}
	}()

	payload, ok := values[payloadField].(string)
	if !ok {
		c.log.Error("change event missing payload", "message_id", msgID)
		return
	}

	var ev models.ChangeEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		c.log.Error("failed to decode change event", "message_id", msgID, "error", err)
		return
	}

	if err := handler(ctx, ev); err != nil {
		c.log.Error("change event handler failed",
			"message_id", msgID,
			"kind", ev.Kind,
			"id", ev.ID,
			"error", err,
		)
	}
}
