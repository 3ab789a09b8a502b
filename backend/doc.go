// Package backend is the registry of native gl.API implementations.
//
// Backend packages register a factory from init, so importing them for side
// effects is enough to make them selectable by name:
//
//	import _ "github.com/gogpu/gles/backend/native"
//
//	api, name, err := backend.Default()
//	if err != nil {
//		log.Fatal(err)
//	}
//	c := gles.NewContext(api, gles.WithBackendName(name))
//
// # Available Backends
//
//   - "webgl": the first canvas of the page, through syscall/js (js/wasm only)
//   - "native": libGLESv2 loaded with purego (linux and darwin)
//   - "fake": gltest.Fake, registered by cmd/glreplay
package backend
