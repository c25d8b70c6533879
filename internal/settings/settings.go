// Package settings holds the key/value configuration rows the
// dashboard's admin surface edits at runtime, most importantly the
// assistant system prompt.
package settings

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("settings: not found")

type Store interface {
	HealthCheck(ctx context.Context) error
	Get(ctx context.Context, key string) (Setting, error)
	Upsert(ctx context.Context, key, value string) (Setting, error)
}

type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
