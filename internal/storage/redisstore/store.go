// Package redisstore keeps each owner's score archive in a Redis list.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"

	"dominoscore/internal/domain"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "score_history:"

// Store implements ports.HistoryStore with one list per owner.
type Store struct {
	rdb    *redis.Client
	prefix string
}

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, url string) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewStore(rdb, ""), nil
}

func NewStore(rdb *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Store{rdb: rdb, prefix: prefix}
}

func (s *Store) Close() error {
	return s.rdb.Close()
}

func (s *Store) key(ownerID string) string {
	return s.prefix + ownerID
}

func (s *Store) Load(ctx context.Context, ownerID string) ([]domain.MatchRecord, error) {
	items, err := s.rdb.LRange(ctx, s.key(ownerID), 0, -1).Result()
	if err == redis.Nil {
		return []domain.MatchRecord{}, nil
	}
	if err != nil {
		return nil, err
	}
	out := make([]domain.MatchRecord, 0, len(items))
	for _, item := range items {
		var rec domain.MatchRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Save replaces the owner's list atomically.
func (s *Store) Save(ctx context.Context, ownerID string, records []domain.MatchRecord) error {
	values := make([]interface{}, 0, len(records))
	for _, rec := range records {
		raw, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode record %s: %w", rec.ID, err)
		}
		values = append(values, raw)
	}

	key := s.key(ownerID)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(values) > 0 {
			pipe.RPush(ctx, key, values...)
		}
		return nil
	})
	return err
}

func (s *Store) Clear(ctx context.Context, ownerID string) error {
	return s.rdb.Del(ctx, s.key(ownerID)).Err()
}
