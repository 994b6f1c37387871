package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/s4sachin/dynamic-form-builder/internal/models"
)

const defaultRedisKey = "formbuilder:submissions"

// RedisStore keeps submissions as JSON entries of one Redis list.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore wraps an existing client. An empty key uses the default list key.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	key = strings.TrimSpace(key)
	if key == "" {
		key = defaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

// NewRedisStoreFromURL connects using a redis:// URL and checks the connection.
func NewRedisStoreFromURL(ctx context.Context, rawURL, key string) (*RedisStore, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisStore(client, key), nil
}

func (s *RedisStore) ReadAll(ctx context.Context) ([]models.Submission, error) {
	items, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read submissions: %w", err)
	}
	subs := make([]models.Submission, 0, len(items))
	for _, item := range items {
		sub, err := decodeSubmission([]byte(item))
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

func (s *RedisStore) Append(ctx context.Context, sub models.Submission) error {
	b, err := encodeSubmission(sub)
	if err != nil {
		return err
	}
	if err := s.client.RPush(ctx, s.key, b).Err(); err != nil {
		return fmt.Errorf("append submission: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
