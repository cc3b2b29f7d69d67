package network

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/thep2p/validator-load/internal/config"
)

// Factory opens a Source from network configuration.
type Factory func(ctx context.Context, logger zerolog.Logger, cfg config.NetworkConfig) (Source, error)

// Registry maps backend names to the factories that open them.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a backend factory under name.
//
// Returns an error if a backend with the same name is already registered.
func (r *Registry) Register(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("backend %s already registered", name)
	}

	r.factories[name] = factory
	return nil
}

// Get returns the factory registered under name.
func (r *Registry) Get(name string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("backend %s not found", name)
	}

	return factory, nil
}

// Available returns all registered backend names, sorted alphabetically.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open looks up cfg.Backend and opens a Source with it.
func (r *Registry) Open(ctx context.Context, logger zerolog.Logger, cfg config.NetworkConfig) (Source, error) {
	factory, err := r.Get(cfg.Backend)
	if err != nil {
		return nil, err
	}

	src, err := factory(ctx, logger, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", cfg.Backend, err)
	}
	return src, nil
}

// DefaultRegistry holds the built-in backends.
var DefaultRegistry = NewRegistry()

func init() {
	builtins := map[string]Factory{
		config.BackendRPC:  openRPC,
		config.BackendFile: openFile,
	}
	for name, factory := range builtins {
		if err := DefaultRegistry.Register(name, factory); err != nil {
			panic(fmt.Sprintf("failed to register %s backend: %v", name, err))
		}
	}
}
