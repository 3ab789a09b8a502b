// Package gles wraps WebGL2 and OpenGL ES 3.0 resources so that redundant
// native bind calls are never issued.
//
// # Overview
//
// Every WebGL / GLES call that operates on a buffer, texture, framebuffer,
// renderbuffer, program or vertex array operates on whatever is currently
// bound to a target. Binding is expensive, especially through the browser.
// A [Context] mirrors what the native context has bound, per kind and per
// binding point, and skips a bind when the cache shows the object already
// there. A binding point the Context has never seen is read once from the
// native layer and then cached.
//
// # Quick Start
//
//	c := gles.NewContext(api) // api is a gl.API from backend/webgl or backend/native
//
//	buf, err := gles.NewBuffer(c, gl.ArrayBuffer)
//	if err != nil {
//		return err
//	}
//	defer buf.Delete()
//	if err := buf.SetData(vertices, gl.StaticDraw); err != nil {
//		return err
//	}
//
//	// Bind for the duration of fn, then restore the previous binding.
//	err = gles.With(tex, func(t *gles.Texture) error {
//		return t.SetSubImage(0, 0, 0, 16, 16, pixels)
//	})
//
// # Resources
//
// [Buffer], [Texture], [Framebuffer], [Renderbuffer], [Program] and
// [VertexArray] implement [Bindable]: Bind, Unbind, Delete, Live, Handle
// and Target, plus Bound. Operations that need a binding, such as uploads or
// attachments, bind the resource themselves through the cache. [Fence] wraps
// a native sync object and has no binding target.
//
// # Native semantics mirrored
//
//   - FRAMEBUFFER sets both DRAW_FRAMEBUFFER and READ_FRAMEBUFFER.
//   - A buffer is bound to at most one generic target at a time.
//   - The ELEMENT_ARRAY_BUFFER binding belongs to the bound vertex array.
//   - Deleting an object unbinds it everywhere, except a current program,
//     which stays current until another program is used.
//   - Texture bindings are per texture unit; the active unit is cached too.
//
// # Concurrency
//
// A Context is confined to one goroutine unless it is created with
// [WithLocking]. Native GL contexts are thread-bound, so most programs run
// every Context on the goroutine that owns the GL context.
package gles
