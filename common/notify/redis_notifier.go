package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pixtag/pixtag/common/apperr"
	redisWrapper "github.com/pixtag/pixtag/common/redis"
)

// RedisService delivers notifications over Redis pub/sub. Endpoints are
// tracked in a per-topic set so delivery processes can enumerate them.
type RedisService struct {
	redis  *redisWrapper.Client
	logger redisWrapper.Logger
}

// NewRedisService creates a Redis-backed notification service
func NewRedisService(redis *redisWrapper.Client, logger redisWrapper.Logger) *RedisService {
	return &RedisService{
		redis:  redis,
		logger: logger,
	}
}

// Subscribe registers an endpoint on a topic. Re-registering is a no-op.
func (s *RedisService) Subscribe(ctx context.Context, topic, endpoint string) error {
	if err := s.redis.AddToSet(ctx, subscribersKey(topic), endpoint); err != nil {
		return apperr.Wrap(apperr.KindUpstream, fmt.Sprintf("subscribe %s to topic %s", endpoint, topic), err)
	}
	s.logger.Info("endpoint subscribed", "topic", topic, "endpoint", endpoint)
	return nil
}

// Publish delivers a message on a topic channel
func (s *RedisService) Publish(ctx context.Context, topic string, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	if err := s.redis.PublishEvent(ctx, topicChannel(topic), string(payload)); err != nil {
		return apperr.Wrap(apperr.KindUpstream, fmt.Sprintf("publish to topic %s", topic), err)
	}
	return nil
}

func subscribersKey(topic string) string {
	return fmt.Sprintf("notify:subscribers:%s", topic)
}

func topicChannel(topic string) string {
	return fmt.Sprintf("notify:topic:%s", topic)
}
