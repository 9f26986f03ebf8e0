// Package normalization maps loosely written configuration strings onto typed enums.
package normalization

import (
	"fmt"
	"sort"
	"strings"
)

// Func rewrites a raw string before lookup.
type Func func(string) string

// Normalizer resolves strings to enum values of type T.
type Normalizer[T comparable] struct {
	name         string
	clean        Func
	values       map[string]T
	defaultValue T
	keys         []string
}

// New builds a normalizer for the named enum. Keys are compared after
// lower-casing and trimming; unknown input falls back to defaultValue.
func New[T comparable](name string, values map[string]T, defaultValue T) *Normalizer[T] {
	return WithFunc(name, values, defaultValue, Lower)
}

// WithFunc builds a normalizer that cleans keys and input with clean.
func WithFunc[T comparable](name string, values map[string]T, defaultValue T, clean Func) *Normalizer[T] {
	n := &Normalizer[T]{
		name:         name,
		clean:        clean,
		values:       make(map[string]T, len(values)),
		defaultValue: defaultValue,
		keys:         make([]string, 0, len(values)),
	}
	for k, v := range values {
		key := clean(k)
		n.values[key] = v
		n.keys = append(n.keys, key)
	}
	sort.Strings(n.keys)
	return n
}

// Lower trims surrounding whitespace and lower-cases s.
func Lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Normalize returns the enum value for raw, or the default.
func (n *Normalizer[T]) Normalize(raw string) T {
	if v, ok := n.values[n.clean(raw)]; ok {
		return v
	}
	return n.defaultValue
}

// Parse returns the enum value for raw. Empty input yields the default;
// unknown input is an error naming the valid options.
func (n *Normalizer[T]) Parse(raw string) (T, error) {
	if strings.TrimSpace(raw) == "" {
		return n.defaultValue, nil
	}
	if v, ok := n.values[n.clean(raw)]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q, valid options: %s", n.name, raw, strings.Join(n.keys, ", "))
}

// Valid reports whether raw names a known value.
func (n *Normalizer[T]) Valid(raw string) bool {
	_, ok := n.values[n.clean(raw)]
	return ok
}

// Keys returns the sorted, cleaned keys.
func (n *Normalizer[T]) Keys() []string {
	out := make([]string, len(n.keys))
	copy(out, n.keys)
	return out
}
