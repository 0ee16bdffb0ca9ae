package persist

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
)

// MemoryStore keeps preferences in process. It has the same clear-then-write
// save semantics as PrefsRepo and is used when no database is configured.
type MemoryStore struct {
	mu    sync.Mutex
	prefs map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{prefs: make(map[string]string)}
}

func (m *MemoryStore) LoadHighScore(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.prefs[HighScoreKey]
	if !ok {
		return 0, nil
	}
	score, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("high score %q: %w", v, err)
	}
	return score, nil
}

func (m *MemoryStore) SaveHighScore(ctx context.Context, score int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.prefs)
	m.prefs[HighScoreKey] = strconv.Itoa(score)
	return nil
}

// Set writes an arbitrary preference.
func (m *MemoryStore) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs[key] = value
}

// Keys lists the stored keys in order.
func (m *MemoryStore) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.prefs))
	for k := range m.prefs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
