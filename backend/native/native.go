//go:build (linux || darwin) && !js

package native

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/ebitengine/purego"

	"github.com/gogpu/gles/backend"
	"github.com/gogpu/gles/gl"
)

// Errors returned by Load.
var (
	// ErrLibraryNotFound is returned when none of the candidate libraries
	// could be opened.
	ErrLibraryNotFound = errors.New("native: GLES library not found")

	// ErrMissingSymbol is returned when the library lacks an entry point
	// the API needs, usually because it only implements ES 2.0.
	ErrMissingSymbol = errors.New("native: missing entry point")
)

// Options configures Load.
type Options struct {
	// Library is the path or soname of the GLES library. Empty tries the
	// platform defaults.
	Library string

	// Logger receives load diagnostics. Nil is silent.
	Logger *slog.Logger
}

// defaultLibraries returns the libraries tried when Options.Library is empty.
func defaultLibraries() []string {
	if runtime.GOOS == "darwin" {
		// ANGLE; the system OpenGL framework has no ES 3.0 entry points.
		return []string{"libGLESv2.dylib", "@rpath/libGLESv2.dylib"}
	}
	return []string{"libGLESv2.so.2", "libGLESv2.so"}
}

func init() {
	backend.Register(backend.Native, func() (gl.API, error) {
		return Load(Options{})
	})
}

// Load opens a GLES library and resolves every entry point. The returned
// API is only usable on a thread with a current context.
func Load(opts Options) (*API, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	candidates := defaultLibraries()
	if opts.Library != "" {
		candidates = []string{opts.Library}
	}

	var errs []error
	for _, name := range candidates {
		lib, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		a := &API{lib: lib, log: log, syncs: make(map[gl.Object]uintptr)}
		if err := a.fn.resolve(lib); err != nil {
			_ = purego.Dlclose(lib)
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		log.Info("native: library loaded", "library", name)
		return a, nil
	}
	return nil, fmt.Errorf("%w: %w", ErrLibraryNotFound, errors.Join(errs...))
}

// Close unloads the library. The API must not be used afterwards.
func (a *API) Close() error {
	return purego.Dlclose(a.lib)
}
