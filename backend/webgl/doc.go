// Package webgl implements gl.API on a browser WebGL2 rendering context
// through syscall/js.
//
// WebGL objects are JavaScript values. The package numbers them as they are
// created so the gles binding cache can compare them as gl.Object values,
// and tags each JavaScript object with its number so binding queries can be
// mapped back.
//
// Importing the package registers the "webgl" backend, which uses the
// first canvas element of the document:
//
//	import _ "github.com/gogpu/gles/backend/webgl"
//
//	api, name, err := backend.Default()
package webgl
