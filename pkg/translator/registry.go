package translator

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownTranslator is returned when no translator matches a name or target.
var ErrUnknownTranslator = errors.New("unknown translator")

// Factory creates a fresh translator. A nil logger discards output.
type Factory func(*slog.Logger) Translator

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds a translator factory under its display name.
// Called by translator implementations in their init() functions.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Get retrieves a translator factory by display name.
func Get(name string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// IsRegistered checks if a translator name is registered.
func IsRegistered(name string) bool {
	_, ok := Get(name)
	return ok
}

// New creates a translator by display name. Every call returns a new
// instance with its own properties.
func New(name string, logger *slog.Logger) (Translator, error) {
	factory, ok := Get(name)
	if !ok {
		return nil, &UnknownTranslatorError{Name: name, Available: List()}
	}
	return factory(logger), nil
}

// ByTarget creates every translator producing target (e.g. "sql").
func ByTarget(target string, logger *slog.Logger) []Translator {
	var out []Translator
	for _, name := range List() {
		if t, err := New(name, logger); err == nil && strings.EqualFold(t.Target(), target) {
			out = append(out, t)
		}
	}
	return out
}

// Resolve creates one translator per selector. A selector is a display
// name or a target tag; a target selects every matching translator.
func Resolve(selectors []string, logger *slog.Logger) ([]Translator, error) {
	var out []Translator
	seen := make(map[string]bool)
	add := func(t Translator) {
		if !seen[t.Name()] {
			seen[t.Name()] = true
			out = append(out, t)
		}
	}
	for _, sel := range selectors {
		if t, err := New(sel, logger); err == nil {
			add(t)
			continue
		}
		matched := ByTarget(sel, logger)
		if len(matched) == 0 {
			return nil, &UnknownTranslatorError{Name: sel, Available: List()}
		}
		for _, t := range matched {
			add(t)
		}
	}
	return out, nil
}

// List returns all registered translator names (sorted).
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownTranslatorError is returned when an unknown translator is requested.
type UnknownTranslatorError struct {
	Name      string
	Available []string
}

func (e *UnknownTranslatorError) Error() string {
	return fmt.Sprintf("unknown translator %q\nAvailable translators: %v\nHint: use a translator name or a target such as sql or java", e.Name, e.Available)
}

func (e *UnknownTranslatorError) Unwrap() error {
	return ErrUnknownTranslator
}
