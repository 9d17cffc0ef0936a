package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Repository is the flat configuration store the container resolves
// ":key" tokens against. Keys map to arbitrary values (strings, numbers,
// slices, nested maps); the last write for a key wins.
type Repository struct {
	mu    sync.RWMutex
	items map[string]any
}

// New creates a repository seeded with items (may be nil).
func New(items map[string]any) *Repository {
	r := &Repository{items: make(map[string]any, len(items))}
	for k, v := range items {
		r.items[k] = v
	}
	return r
}

// UnknownKeyError is returned by Get for a key that was never set.
type UnknownKeyError struct {
	Key string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("config: unknown key %q", e.Key)
}

// ── Access ───────────────────────────────────────────────────────────────────

// Set stores value under key.
func (r *Repository) Set(key string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[key] = value
}

// Has reports whether key was set. A key explicitly set to nil counts.
func (r *Repository) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.items[key]
	return ok
}

// Get returns the value for key, or an *UnknownKeyError.
func (r *Repository) Get(key string) (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.items[key]
	if !ok {
		return nil, &UnknownKeyError{Key: key}
	}
	return v, nil
}

// All returns a copy of every item.
func (r *Repository) All() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]any, len(r.items))
	for k, v := range r.items {
		out[k] = v
	}
	return out
}

// Keys returns the sorted list of keys.
func (r *Repository) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.items))
	for k := range r.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Replace swaps the whole store for items.
func (r *Repository) Replace(items map[string]any) {
	fresh := make(map[string]any, len(items))
	for k, v := range items {
		fresh[k] = v
	}
	r.mu.Lock()
	r.items = fresh
	r.mu.Unlock()
}

// Merge copies items over the existing store.
func (r *Repository) Merge(items map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range items {
		r.items[k] = v
	}
}

// ── Typed getters ────────────────────────────────────────────────────────────

// String returns key as a string, falling back when unset or empty.
func (r *Repository) String(key, fallback string) string {
	v, err := r.Get(key)
	if err != nil || v == nil {
		return fallback
	}
	s := fmt.Sprint(v)
	if s == "" {
		return fallback
	}
	return s
}

// Int returns key as an int, falling back when unset or not numeric.
func (r *Repository) Int(key string, fallback int) int {
	v, err := r.Get(key)
	if err != nil {
		return fallback
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return fallback
		}
		return i
	}
	return fallback
}

// Bool returns key as a bool, falling back when unset or unparsable.
func (r *Repository) Bool(key string, fallback bool) bool {
	v, err := r.Get(key)
	if err != nil {
		return fallback
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return fallback
		}
		return parsed
	}
	return fallback
}

// ── Loaders ──────────────────────────────────────────────────────────────────

// LoadEnv reads dotenv files and merges them into r. Variable names are
// flattened to dotted lower case: APP_NAME → app.name. A process environment
// variable with the same name overrides the file value. Missing files are
// skipped.
//
//	repo.LoadEnv(".env", ".env.local")
func (r *Repository) LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	items := make(map[string]any)
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		vars, err := godotenv.Read(f)
		if err != nil {
			return errors.Wrapf(err, "config: reading %s", f)
		}
		for name, value := range vars {
			if env, ok := os.LookupEnv(name); ok {
				value = env
			}
			items[EnvKey(name)] = value
		}
	}
	r.Merge(items)
	return nil
}

// LoadYAML merges the top-level keys of a YAML mapping file into r.
func (r *Repository) LoadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "config: reading %s", path)
	}
	var items map[string]any
	if err := yaml.Unmarshal(data, &items); err != nil {
		return errors.Wrapf(err, "config: parsing %s", path)
	}
	r.Merge(items)
	return nil
}

// EnvKey converts an environment variable name into a repository key.
func EnvKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "_", ".")
}
