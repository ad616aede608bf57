package memory

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// MemoryPath is reported by ConfigStore.Path.
const MemoryPath = ":memory:"

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore holds settings for an --ephemeral run. It starts from a
// snapshot of the saved settings and never writes anything back, so
// `docchat config set` only lasts for the current process.
type ConfigStore struct {
	mu     sync.RWMutex
	saved  map[string]any
	values map[string]any
}

// NewConfigStore creates a store seeded with saved, keyed in dot
// notation. saved may be nil.
func NewConfigStore(saved map[string]any) *ConfigStore {
	return &ConfigStore{
		saved:  copyValues(saved),
		values: copyValues(saved),
	}
}

// Get retrieves a configuration value by key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.values[key]
	return val, ok
}

// GetString returns the value of key if it is a string.
func (s *ConfigStore) GetString(key string) string {
	str, _ := lookup[string](s, key)
	return str
}

// GetInt returns the value of key as an int. TOML decodes integers as
// int64 and the CLI may store whole floats, so both are accepted.
func (s *ConfigStore) GetInt(key string) int {
	val, ok := s.Get(key)
	if !ok {
		return 0
	}
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		if v == math.Trunc(v) {
			return int(v)
		}
	}
	return 0
}

// GetBool returns the value of key if it is a bool.
func (s *ConfigStore) GetBool(key string) bool {
	b, _ := lookup[bool](s, key)
	return b
}

// GetStringSlice returns the string elements of key.
func (s *ConfigStore) GetStringSlice(key string) []string {
	val, ok := s.Get(key)
	if !ok {
		return nil
	}
	switch v := val.(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

// Set stores value under key for the rest of the process.
func (s *ConfigStore) Set(key string, value any) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: empty config key", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Save is a no-op: ephemeral settings are never written.
func (s *ConfigStore) Save() error {
	return nil
}

// Load discards every Set since construction and returns to the saved
// snapshot.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = copyValues(s.saved)
	return nil
}

// All returns a copy of every stored key.
func (s *ConfigStore) All() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyValues(s.values)
}

// Path returns MemoryPath.
func (s *ConfigStore) Path() string {
	return MemoryPath
}

func lookup[T any](s *ConfigStore, key string) (T, bool) {
	val, ok := s.Get(key)
	if !ok {
		var zero T
		return zero, false
	}
	typed, ok := val.(T)
	return typed, ok
}

func copyValues(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
