package backend

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/gles/gl"
)

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
	// Priority order for Default (first that opens wins).
	priority = []string{WebGL, Native, Fake}
)

// Register registers a factory under name, replacing any previous one.
// It is typically called from init functions in backend packages.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = f
}

// Unregister removes a factory. This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Available returns the registered backend names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return sortedNames()
}

// IsRegistered reports whether a factory is registered under name.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}

// Open creates an API with the factory registered under name.
func Open(name string) (gl.API, error) {
	registryMu.RLock()
	f, ok := factories[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	return open(name, f)
}

func open(name string, f Factory) (gl.API, error) {
	api, err := f()
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", name, err)
	}
	if api == nil {
		return nil, fmt.Errorf("%w: %s returned no API", ErrBackendNotAvailable, name)
	}
	return api, nil
}

// Default opens the best registered backend: webgl, then native, then fake,
// then any other in name order. It returns the name of the backend opened.
// When every factory fails the errors are joined.
func Default() (gl.API, string, error) {
	registryMu.RLock()
	names := slices.Clone(priority)
	for _, name := range sortedNames() {
		if !slices.Contains(priority, name) {
			names = append(names, name)
		}
	}
	fs := make(map[string]Factory, len(factories))
	for name, f := range factories {
		fs[name] = f
	}
	registryMu.RUnlock()

	var errs []error
	for _, name := range names {
		f, ok := fs[name]
		if !ok {
			continue
		}
		api, err := open(name, f)
		if err == nil {
			return api, name, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, "", ErrBackendNotAvailable
	}
	return nil, "", errors.Join(append([]error{ErrBackendNotAvailable}, errs...)...)
}

// MustDefault is Default that panics on failure.
func MustDefault() (gl.API, string) {
	api, name, err := Default()
	if err != nil {
		panic(err)
	}
	return api, name
}

// sortedNames returns the registered names; the caller holds registryMu.
func sortedNames() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
