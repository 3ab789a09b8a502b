package backend

import (
	"errors"

	"github.com/gogpu/gles/gl"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when no factory is registered under
	// the requested name, or every registered factory failed.
	ErrBackendNotAvailable = errors.New("backend: not available")
)

// Factory opens a native API. It is called once per Open and must return
// an error rather than a nil API.
type Factory func() (gl.API, error)

// Backend names used by the packages of this module.
const (
	WebGL  = "webgl"
	Native = "native"
	Fake   = "fake"
)
