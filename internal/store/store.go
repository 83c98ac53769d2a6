// Package store persists named state slices. Values are JSON documents
// addressed by key, with last-write-wins semantics.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chrisdamba/cafeorder/internal/models"
)

var ErrNotFound = errors.New("key not found")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Load decodes the value under key into a T. A miss, a read failure or a
// value that does not decode all yield def.
func Load[T any](ctx context.Context, s Store, key string, def T) T {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return def
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return def
	}
	return v
}

func Save[T any](ctx context.Context, s Store, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Open returns the backend named by cfg.Driver.
func Open(ctx context.Context, cfg models.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemory(), nil
	case "file":
		return NewFile(cfg.Dir)
	case "postgres":
		return NewPostgres(ctx, cfg.DSN)
	case "redis":
		return NewRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	case "s3":
		return NewS3(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.Driver)
	}
}
