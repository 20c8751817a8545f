package tensor

import (
	"fmt"
	"sync"
)

// BackendFactory constructs a backend on first use.
type BackendFactory func() (Backend, error)

var registry = struct {
	mu          sync.Mutex
	factories   map[string]BackendFactory
	instances   map[string]Backend
	defaultName string
}{
	factories: make(map[string]BackendFactory),
	instances: make(map[string]Backend),
}

// RegisterBackend makes a backend available by name. The first registered
// backend becomes the default. Registering a name twice panics.
func RegisterBackend(name string, f BackendFactory) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	if _, ok := registry.factories[name]; ok {
		panic("tensor: backend already registered: " + name)
	}
	registry.factories[name] = f
	if registry.defaultName == "" {
		registry.defaultName = name
	}
}

// SetDefaultBackend selects the backend used by default construction.
func SetDefaultBackend(name string) error {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	if _, ok := registry.factories[name]; !ok {
		return fmt.Errorf("unknown backend %q: %w", name, ErrInvalidArgument)
	}
	registry.defaultName = name
	return nil
}

// DefaultBackend returns the default backend, constructing it once.
func DefaultBackend() (Backend, error) {
	registry.mu.Lock()
	name := registry.defaultName
	registry.mu.Unlock()

	if name == "" {
		return nil, ErrNoDefaultBackend
	}
	return LookupBackend(name)
}

// LookupBackend returns the named backend, constructing it once.
func LookupBackend(name string) (Backend, error) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	if b, ok := registry.instances[name]; ok {
		return b, nil
	}
	f, ok := registry.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown backend %q: %w", name, ErrInvalidArgument)
	}
	b, err := f()
	if err != nil {
		return nil, fmt.Errorf("backend %q: %w", name, err)
	}
	registry.instances[name] = b
	return b, nil
}
