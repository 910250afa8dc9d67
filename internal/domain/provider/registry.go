package provider

import (
	"fmt"
	"sort"
	"sync"
)

// Factory builds a provider from its configuration.
type Factory func(cfg *Config) (Provider, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes a provider type available to New. Adapters call this from
// their init function.
func Register(providerType string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[providerType] = factory
}

// New builds a provider for cfg.Type. Construction is cheap, so callers may
// build per request from freshly resolved configuration.
func New(cfg *Config) (Provider, error) {
	registryMu.RLock()
	factory, ok := registry[cfg.Type]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown provider type %q (available: %v)", cfg.Type, Types())
	}
	return factory(cfg)
}

// Types lists the registered provider types, sorted for stable output.
func Types() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	types := make([]string, 0, len(registry))
	for name := range registry {
		types = append(types, name)
	}
	sort.Strings(types)
	return types
}
