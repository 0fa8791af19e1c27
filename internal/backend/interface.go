package backend

import (
	"context"

	"semihos/internal/store"
)

// KV is the persistence a backend provides to the store.
type KV interface {
	store.KV
	Keys(ctx context.Context) ([]string, error)
}

type CleanupFunc func() error

// BackendResult bundles what a backend created. Publisher is nil when
// change events are disabled.
type BackendResult struct {
	KV        KV
	Publisher store.Publisher
	Cleanup   CleanupFunc
}

type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

type Config struct {
	Type BackendType

	SQLiteDBPath  string
	DataDirectory string

	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string { return string(bt) }

func (bt BackendType) IsValid() bool {
	return bt == SQLiteBackend || bt == MemoryBackend
}
