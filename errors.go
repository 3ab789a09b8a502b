package gles

import (
	"errors"
	"fmt"

	"github.com/gogpu/gles/gl"
)

// Package errors.
var (
	// ErrUnsupported is returned when a native create call yields no object:
	// the context lacks the resource kind or has been lost.
	ErrUnsupported = errors.New("gles: unsupported operation")

	// ErrRange is returned when a region or sub-range does not fit the
	// destination. It is reported before any native call.
	ErrRange = errors.New("gles: range out of bounds")

	// ErrInvalidArgument is returned for malformed arguments: negative sizes,
	// a target the resource kind cannot use, an empty attachment.
	ErrInvalidArgument = errors.New("gles: invalid argument")

	// ErrDeleted is returned when a deleted resource is used.
	ErrDeleted = errors.New("gles: resource deleted")

	// ErrForeignContext is returned when resources from different contexts
	// are combined in one operation.
	ErrForeignContext = errors.New("gles: resource belongs to another context")

	// ErrIncompleteFramebuffer is returned by Framebuffer.Check.
	ErrIncompleteFramebuffer = errors.New("gles: framebuffer incomplete")

	// ErrContextLost is returned by backends once the native context is gone.
	ErrContextLost = errors.New("gles: context lost")

	// ErrFenceTimeout is returned when a fence does not signal in time.
	ErrFenceTimeout = errors.New("gles: fence wait timed out")
)

// ShaderError carries the native compile log of a shader stage.
type ShaderError struct {
	Stage gl.Enum
	Log   string
}

func (e *ShaderError) Error() string {
	stage := "shader"
	switch e.Stage {
	case gl.VertexShader:
		stage = "vertex shader"
	case gl.FragmentShader:
		stage = "fragment shader"
	}
	return fmt.Sprintf("gles: %s compile failed: %s", stage, e.Log)
}

// LinkError carries the native program link log.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return "gles: program link failed: " + e.Log
}

// NativeError is a code reported by GetError after a native call, when the
// context was created with WithErrorCheck.
type NativeError struct {
	Op   string
	Code gl.Enum
}

func (e *NativeError) Error() string {
	return fmt.Sprintf("gles: %s: native error %s", e.Op, e.Code)
}

// Is maps lost-context codes onto ErrContextLost.
func (e *NativeError) Is(target error) bool {
	return target == ErrContextLost && e.Code == gl.ContextLostWebGL
}
