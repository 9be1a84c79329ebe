package backend

import (
	"slices"
	"sync"
)

// Factory builds a backend. A nil result means the backend cannot run
// here, for instance because no device was injected.
type Factory func() Backend

var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)

	// backendPriority is the order Default tries. The preview backend is
	// the CPU fallback.
	backendPriority = []string{BackendNative, BackendPreview}
)

// Register installs factory under name, replacing any earlier one.
// Backend packages call it from init; hosts call it again to inject a
// device or a screen.
func Register(name string, factory Factory) {
	registryMu.Lock()
	backends[name] = factory
	registryMu.Unlock()
}

// Unregister removes the named factory.
func Unregister(name string) {
	registryMu.Lock()
	delete(backends, name)
	registryMu.Unlock()
}

// Available lists registered names in sorted order.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return sortedNames(func(string) bool { return true })
}

// IsRegistered reports whether a factory is installed under name.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Get builds the named backend. It returns nil for unknown names and for
// factories that cannot run.
func Get(name string) Backend {
	registryMu.RLock()
	factory := backends[name]
	registryMu.RUnlock()
	if factory == nil {
		return nil
	}
	return factory()
}

// Default builds the first backend that can run: native, then preview,
// then the remaining names in sorted order. It returns nil when none can.
func Default() Backend {
	registryMu.RLock()
	order := slices.Clone(backendPriority)
	order = append(order, sortedNames(func(name string) bool {
		return !slices.Contains(backendPriority, name)
	})...)
	registryMu.RUnlock()

	for _, name := range order {
		if b := Get(name); b != nil {
			return b
		}
	}
	return nil
}

// MustDefault is Default for hosts that cannot continue without a backend.
func MustDefault() Backend {
	if b := Default(); b != nil {
		return b
	}
	panic("backend: no backend available")
}

// Open builds and initializes the named backend. An empty name selects
// Default.
func Open(name string) (Backend, error) {
	var b Backend
	if name == "" {
		b = Default()
	} else {
		b = Get(name)
	}
	if b == nil {
		return nil, ErrBackendNotAvailable
	}
	if err := b.Init(); err != nil {
		return nil, err
	}
	return b, nil
}

// sortedNames returns the registered names accepted by keep. The caller
// holds registryMu.
func sortedNames(keep func(string) bool) []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		if keep(name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}
