package blob

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/pixtag/pixtag/common/apperr"
	redisWrapper "github.com/pixtag/pixtag/common/redis"
)

// RedisStore keeps blobs in Redis. Objects are stored base64-encoded under
// blob:{bucket}:{key}, with metadata in a sibling hash. Suitable for
// single-node deployments; swap for a real object store behind the same
// interface in production.
type RedisStore struct {
	redis  *redisWrapper.Client
	logger redisWrapper.Logger
}

// NewRedisStore creates a Redis-backed object store
func NewRedisStore(redis *redisWrapper.Client, logger redisWrapper.Logger) *RedisStore {
	return &RedisStore{
		redis:  redis,
		logger: logger,
	}
}

// Get retrieves an object
func (s *RedisStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	encoded, err := s.redis.Get(ctx, objectKey(bucket, key))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindNotFound, fmt.Sprintf("object %s/%s not found", bucket, key), err)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, "corrupt object encoding", err)
	}

	s.logger.Debug("blob GET", "bucket", bucket, "key", key, "size", len(data))
	return data, nil
}

// Put stores an object with optional metadata
func (s *RedisStore) Put(ctx context.Context, bucket, key string, data []byte, metadata map[string]string) error {
	objKey := objectKey(bucket, key)
	encoded := base64.StdEncoding.EncodeToString(data)

	if err := s.redis.Set(ctx, objKey, encoded, 0); err != nil {
		return apperr.Wrap(apperr.KindUpstream, fmt.Sprintf("store object %s/%s", bucket, key), err)
	}

	for field, value := range metadata {
		if err := s.redis.SetHash(ctx, objKey+":meta", field, value); err != nil {
			return apperr.Wrap(apperr.KindUpstream, fmt.Sprintf("store metadata for %s/%s", bucket, key), err)
		}
	}

	s.logger.Debug("blob PUT", "bucket", bucket, "key", key, "size", len(data))
	return nil
}

// Delete removes an object and its metadata
func (s *RedisStore) Delete(ctx context.Context, bucket, key string) error {
	objKey := objectKey(bucket, key)
	if err := s.redis.Delete(ctx, objKey, objKey+":meta"); err != nil {
		return apperr.Wrap(apperr.KindUpstream, fmt.Sprintf("delete object %s/%s", bucket, key), err)
	}

	s.logger.Debug("blob DEL", "bucket", bucket, "key", key)
	return nil
}

func objectKey(bucket, key string) string {
	return fmt.Sprintf("blob:%s:%s", bucket, key)
}
