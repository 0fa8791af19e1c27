package storage

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// MemoryKV keeps records in a map. Useful for tests and throwaway runs.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemoryKV(initial map[string]string) *MemoryKV {
	data := make(map[string]string, len(initial))
	for k, v := range initial {
		data[k] = v
	}
	return &MemoryKV{data: data}
}

// NewMemoryKVFromDir preloads every <key>.json file found in dir.
// A missing directory yields an empty store.
func NewMemoryKVFromDir(dir string) *MemoryKV {
	kv := NewMemoryKV(nil)
	matches, _ := filepath.Glob(filepath.Join(dir, "*.json"))
	for _, path := range matches {
		b, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		key := strings.TrimSuffix(filepath.Base(path), ".json")
		kv.data[key] = string(b)
	}
	return kv
}

func (m *MemoryKV) Load(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryKV) Save(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryKV) Keys(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Dump returns a copy of every record.
func (m *MemoryKV) Dump() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.data))
	for k, v := range m.data {
		out[k] = v
	}
	return out
}
