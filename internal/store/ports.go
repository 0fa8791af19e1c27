package store

import (
	"context"
	"time"

	"semihos/internal/core"
)

// KV is the key-value persistence the store writes its records to.
type KV interface {
	// Load returns ok=false when the key has never been saved.
	Load(ctx context.Context, key string) (value string, ok bool, err error)
	Save(ctx context.Context, key, value string) error
}

// ChangeEvent describes one applied mutation.
type ChangeEvent struct {
	Entity string    `json:"entity"`
	Op     string    `json:"op"`
	ID     core.ID   `json:"id,omitempty"`
	Keys   []string  `json:"keys"`
	At     time.Time `json:"at"`
}

// Publisher receives change events after the mutation is applied.
type Publisher interface {
	PublishChange(ctx context.Context, ev ChangeEvent) error
}
