// Package native implements gl.API over a desktop OpenGL ES 3.0 library
// loaded at runtime with purego, so no cgo toolchain is needed.
//
// The package does not create GL contexts. The caller makes a context
// current on the calling thread (with EGL, GLFW, SDL or similar) before the
// first call and keeps every call on that thread:
//
//	runtime.LockOSThread()
//	// ... create and make current an ES 3.0 context ...
//	api, err := native.Load(native.Options{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	c := gles.NewContext(api, gles.WithBackendName("native"))
//
// Importing the package registers it with the backend registry as "native".
package native
