// Package gl defines the native graphics surface wrapped by package gles:
// the GL enumerants, the opaque object name type and the [API] interface
// implemented by the browser (backend/webgl), desktop (backend/native) and
// in-memory (gltest) backends.
//
// Nothing in this package caches state. Every [API] method maps one to one
// onto an OpenGL ES 3.0 / WebGL2 entry point.
package gl
