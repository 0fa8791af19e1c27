package store

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"semihos/internal/core"
	"semihos/internal/storage"
)

// ErrHistoryUnavailable is returned when the KV keeps no revisions.
var ErrHistoryUnavailable = errors.New("record history not available")

type historian interface {
	History(ctx context.Context, key string, limit int) ([]storage.Revision, error)
}

// History returns up to limit saved values of a record, newest first.
func (s *Store) History(ctx context.Context, key string, limit int) ([]storage.Revision, error) {
	if !slices.Contains(Keys, key) {
		return nil, fmt.Errorf("record %q: %w", key, core.ErrNotFound)
	}
	h, ok := s.kv.(historian)
	if !ok {
		return nil, ErrHistoryUnavailable
	}
	revs, err := h.History(ctx, key, limit)
	if err != nil {
		return nil, err
	}
	if revs == nil {
		revs = []storage.Revision{}
	}
	return revs, nil
}

var _ historian = (*storage.SQLiteKV)(nil)
