// Package backend wires the configured persistence and change publisher.
package backend

import (
	"context"
	"errors"
	"fmt"

	"semihos/internal/amqp"
	"semihos/internal/log"
	"semihos/internal/storage"
)

type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var res *BackendResult
	switch config.Type {
	case SQLiteBackend:
		kv, err := storage.NewSQLiteKV(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite storage: %w", err)
		}
		res = &BackendResult{KV: kv, Cleanup: kv.Close}
		f.logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	case MemoryBackend:
		var kv *storage.MemoryKV
		if config.DataDirectory != "" {
			kv = storage.NewMemoryKVFromDir(config.DataDirectory)
		} else {
			kv = storage.NewMemoryKV(nil)
		}
		res = &BackendResult{KV: kv}
		f.logger.InfoContext(ctx, "Initialized memory backend", "data_directory", config.DataDirectory)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	// change events are optional; a broker outage never blocks startup
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without change events", log.FieldError, err)
		} else {
			res.Publisher = client
			res.Cleanup = chain(res.Cleanup, client.Close)
			f.logger.InfoContext(ctx, "Initialized AMQP client", "exchange", config.AMQPExchange, "queue", config.AMQPQueue)
		}
	}
	return res, nil
}

func chain(fns ...CleanupFunc) CleanupFunc {
	return func() error {
		var errs []error
		for i := len(fns) - 1; i >= 0; i-- {
			if fns[i] != nil {
				errs = append(errs, fns[i]())
			}
		}
		return errors.Join(errs...)
	}
}
