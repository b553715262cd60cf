// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "recosys:profile:"

// RedisStore keeps each profile in one Redis hash whose fields are the
// storage keys. Saves run as a MULTI/EXEC transaction.
type RedisStore struct {
	client *redis.Client
}

// OpenRedisStore connects using a redis:// URL and verifies the connection.
func OpenRedisStore(ctx context.Context, rawURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

// NewRedisStore wraps an existing client. Close closes it.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisHashKey(profile string) string {
	return redisKeyPrefix + profile
}

func (s *RedisStore) Load(ctx context.Context, profile string, keys ...Key) (*Record, error) {
	keys = keysOrAll(keys)
	if err := validateKeys(keys); err != nil {
		return nil, err
	}

	fields := make([]string, len(keys))
	for i, k := range keys {
		fields[i] = string(k)
	}

	values, err := s.client.HMGet(ctx, redisHashKey(profile), fields...).Result()
	if err != nil {
		return nil, fmt.Errorf("hmget: %w", err)
	}

	rec := &Record{}
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			continue
		}
		if err := decodeField(rec, keys[i], []byte(str)); err != nil {
			return nil, err
		}
	}
	rec.normalize()
	return rec, nil
}

func (s *RedisStore) Save(ctx context.Context, profile string, rec *Record, keys ...Key) error {
	encoded, err := encodeFields(rec, keysOrAll(keys))
	if err != nil {
		return err
	}

	values := make(map[string]interface{}, len(encoded))
	for k, data := range encoded {
		values[string(k)] = data
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, redisHashKey(profile), values)
		return nil
	})
	if err != nil {
		return fmt.Errorf("hset: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, profile string) error {
	if err := s.client.Del(ctx, redisHashKey(profile)).Err(); err != nil {
		return fmt.Errorf("del: %w", err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
