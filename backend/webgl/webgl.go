//go:build js && wasm

package webgl

import (
	"errors"
	"fmt"
	"syscall/js"

	"github.com/gogpu/gles/backend"
	"github.com/gogpu/gles/gl"
)

var (
	// ErrNotSupported is returned when the canvas cannot provide a WebGL2
	// context.
	ErrNotSupported = errors.New("webgl: webgl2 is not supported")

	// ErrNoCanvas is returned by the registered factory when the document
	// has no canvas element.
	ErrNoCanvas = errors.New("webgl: no canvas element")

	// ErrContextLost is returned by New when the context is already lost.
	ErrContextLost = errors.New("webgl: context lost")
)

// idKey is the expando property holding an object's number.
const idKey = "__glesID"

func init() {
	backend.Register(backend.WebGL, func() (gl.API, error) {
		cnv := js.Global().Get("document").Call("querySelector", "canvas")
		if cnv.IsNull() || cnv.IsUndefined() {
			return nil, ErrNoCanvas
		}
		return New(cnv)
	})
}

// API is a WebGL2 context. It implements gl.API.
type API struct {
	ctx js.Value

	objs     map[gl.Object]js.Value
	uniforms map[gl.Uniform]js.Value
	next     gl.Object
	nextLoc  gl.Uniform

	// Scratch typed arrays, grown on demand.
	byteBuf  js.Value
	floatBuf js.Value
}

var _ gl.API = (*API)(nil)

// New creates a WebGL2 context on cnv.
func New(cnv js.Value) (*API, error) {
	args := map[string]any{
		"preserveDrawingBuffer": true,
	}
	ctx := cnv.Call("getContext", "webgl2", args)
	if ctx.IsNull() || ctx.IsUndefined() {
		return nil, ErrNotSupported
	}
	if ctx.Call("isContextLost").Bool() {
		return nil, ErrContextLost
	}
	return &API{
		ctx:      ctx,
		objs:     make(map[gl.Object]js.Value),
		uniforms: make(map[gl.Uniform]js.Value),
	}, nil
}

// ContextLost reports whether the browser has dropped the context.
func (a *API) ContextLost() bool {
	return a.ctx.Call("isContextLost").Bool()
}

func (a *API) track(v js.Value) gl.Object {
	if v.IsNull() || v.IsUndefined() {
		return gl.Null
	}
	a.next++
	v.Set(idKey, int(a.next))
	a.objs[a.next] = v
	return a.next
}

func (a *API) value(o gl.Object) js.Value {
	if v, ok := a.objs[o]; ok {
		return v
	}
	return js.Null()
}

func (a *API) release(o gl.Object) js.Value {
	v := a.value(o)
	delete(a.objs, o)
	return v
}

// lookup maps a JavaScript object returned by a query back to its number.
func (a *API) lookup(v js.Value) gl.Object {
	if v.Type() != js.TypeObject {
		return gl.Null
	}
	id := v.Get(idKey)
	if id.Type() != js.TypeNumber {
		return gl.Null
	}
	return gl.Object(id.Int())
}

func (a *API) CreateBuffer() gl.Object       { return a.track(a.ctx.Call("createBuffer")) }
func (a *API) CreateTexture() gl.Object      { return a.track(a.ctx.Call("createTexture")) }
func (a *API) CreateFramebuffer() gl.Object  { return a.track(a.ctx.Call("createFramebuffer")) }
func (a *API) CreateRenderbuffer() gl.Object { return a.track(a.ctx.Call("createRenderbuffer")) }
func (a *API) CreateVertexArray() gl.Object  { return a.track(a.ctx.Call("createVertexArray")) }
func (a *API) CreateProgram() gl.Object      { return a.track(a.ctx.Call("createProgram")) }

func (a *API) CreateShader(typ gl.Enum) gl.Object {
	return a.track(a.ctx.Call("createShader", int(typ)))
}

func (a *API) DeleteBuffer(b gl.Object)        { a.ctx.Call("deleteBuffer", a.release(b)) }
func (a *API) DeleteTexture(t gl.Object)       { a.ctx.Call("deleteTexture", a.release(t)) }
func (a *API) DeleteFramebuffer(fb gl.Object)  { a.ctx.Call("deleteFramebuffer", a.release(fb)) }
func (a *API) DeleteRenderbuffer(rb gl.Object) { a.ctx.Call("deleteRenderbuffer", a.release(rb)) }
func (a *API) DeleteVertexArray(va gl.Object)  { a.ctx.Call("deleteVertexArray", a.release(va)) }
func (a *API) DeleteShader(s gl.Object)        { a.ctx.Call("deleteShader", a.release(s)) }

// DeleteProgram keeps the program's uniform locations; they die with the
// JavaScript object.
func (a *API) DeleteProgram(p gl.Object) {
	a.ctx.Call("deleteProgram", a.release(p))
}

func (a *API) BindBuffer(target gl.Enum, b gl.Object) {
	a.ctx.Call("bindBuffer", int(target), a.value(b))
}

func (a *API) BindBufferBase(target gl.Enum, index int, b gl.Object) {
	a.ctx.Call("bindBufferBase", int(target), index, a.value(b))
}

func (a *API) ActiveTexture(unit gl.Enum) { a.ctx.Call("activeTexture", int(unit)) }

func (a *API) BindTexture(target gl.Enum, t gl.Object) {
	a.ctx.Call("bindTexture", int(target), a.value(t))
}

func (a *API) BindFramebuffer(target gl.Enum, fb gl.Object) {
	a.ctx.Call("bindFramebuffer", int(target), a.value(fb))
}

func (a *API) BindRenderbuffer(target gl.Enum, rb gl.Object) {
	a.ctx.Call("bindRenderbuffer", int(target), a.value(rb))
}

func (a *API) BindVertexArray(va gl.Object) { a.ctx.Call("bindVertexArray", a.value(va)) }
func (a *API) UseProgram(p gl.Object)       { a.ctx.Call("useProgram", a.value(p)) }

func (a *API) GetBinding(pname gl.Enum) gl.Object {
	return a.lookup(a.ctx.Call("getParameter", int(pname)))
}

func (a *API) GetBindingi(pname gl.Enum, index int) gl.Object {
	return a.lookup(a.ctx.Call("getIndexedParameter", int(pname), index))
}

func (a *API) GetInteger(pname gl.Enum) int {
	return paramVal(a.ctx.Call("getParameter", int(pname)))
}

func (a *API) GetError() gl.Enum { return gl.Enum(a.ctx.Call("getError").Int()) }

func (a *API) BufferData(target gl.Enum, size int, data []byte, usage gl.Enum) {
	if data == nil {
		a.ctx.Call("bufferData", int(target), size, int(usage))
		return
	}
	a.ctx.Call("bufferData", int(target), a.byteArrayOf(data), int(usage), 0, len(data))
}

func (a *API) BufferSubData(target gl.Enum, offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	a.ctx.Call("bufferSubData", int(target), offset, a.byteArrayOf(data), 0, len(data))
}

func (a *API) CopyBufferSubData(readTarget, writeTarget gl.Enum, readOffset, writeOffset, size int) {
	a.ctx.Call("copyBufferSubData", int(readTarget), int(writeTarget), readOffset, writeOffset, size)
}

func (a *API) GetBufferSubData(target gl.Enum, offset int, dst []byte) {
	if len(dst) == 0 {
		return
	}
	a.resizeByteBuffer(len(dst))
	a.ctx.Call("getBufferSubData", int(target), offset, a.byteBuf, 0, len(dst))
	js.CopyBytesToGo(dst, a.byteBuf)
}

func (a *API) TexImage2D(target gl.Enum, level int, internalFormat gl.Enum, width, height int, format, typ gl.Enum, data []byte) {
	a.ctx.Call("texImage2D", int(target), level, int(internalFormat), width, height, 0, int(format), int(typ), a.pixelsOf(typ, data))
}

func (a *API) TexImage3D(target gl.Enum, level int, internalFormat gl.Enum, width, height, depth int, format, typ gl.Enum, data []byte) {
	a.ctx.Call("texImage3D", int(target), level, int(internalFormat), width, height, depth, 0, int(format), int(typ), a.pixelsOf(typ, data))
}

func (a *API) TexSubImage2D(target gl.Enum, level, x, y, width, height int, format, typ gl.Enum, data []byte) {
	a.ctx.Call("texSubImage2D", int(target), level, x, y, width, height, int(format), int(typ), a.pixelsOf(typ, data))
}

func (a *API) TexStorage2D(target gl.Enum, levels int, internalFormat gl.Enum, width, height int) {
	a.ctx.Call("texStorage2D", int(target), levels, int(internalFormat), width, height)
}

func (a *API) TexParameteri(target, pname gl.Enum, param int) {
	a.ctx.Call("texParameteri", int(target), int(pname), param)
}

func (a *API) GenerateMipmap(target gl.Enum) { a.ctx.Call("generateMipmap", int(target)) }

func (a *API) CopyTexSubImage2D(target gl.Enum, level, xoffset, yoffset, x, y, width, height int) {
	a.ctx.Call("copyTexSubImage2D", int(target), level, xoffset, yoffset, x, y, width, height)
}

func (a *API) PixelStorei(pname gl.Enum, param int) {
	a.ctx.Call("pixelStorei", int(pname), param)
}

func (a *API) FramebufferTexture2D(target, attachment, texTarget gl.Enum, t gl.Object, level int) {
	a.ctx.Call("framebufferTexture2D", int(target), int(attachment), int(texTarget), a.value(t), level)
}

func (a *API) FramebufferTextureLayer(target, attachment gl.Enum, t gl.Object, level, layer int) {
	a.ctx.Call("framebufferTextureLayer", int(target), int(attachment), a.value(t), level, layer)
}

func (a *API) FramebufferRenderbuffer(target, attachment, rbTarget gl.Enum, rb gl.Object) {
	a.ctx.Call("framebufferRenderbuffer", int(target), int(attachment), int(rbTarget), a.value(rb))
}

func (a *API) CheckFramebufferStatus(target gl.Enum) gl.Enum {
	return gl.Enum(a.ctx.Call("checkFramebufferStatus", int(target)).Int())
}

func (a *API) DrawBuffers(bufs []gl.Enum) {
	arr := make([]any, len(bufs))
	for i, b := range bufs {
		arr[i] = int(b)
	}
	a.ctx.Call("drawBuffers", arr)
}

func (a *API) BlitFramebuffer(sx0, sy0, sx1, sy1, dx0, dy0, dx1, dy1 int, mask, filter gl.Enum) {
	a.ctx.Call("blitFramebuffer", sx0, sy0, sx1, sy1, dx0, dy0, dx1, dy1, int(mask), int(filter))
}

func (a *API) RenderbufferStorage(target, internalFormat gl.Enum, width, height int) {
	a.ctx.Call("renderbufferStorage", int(target), int(internalFormat), width, height)
}

func (a *API) RenderbufferStorageMultisample(target gl.Enum, samples int, internalFormat gl.Enum, width, height int) {
	a.ctx.Call("renderbufferStorageMultisample", int(target), samples, int(internalFormat), width, height)
}

func (a *API) ShaderSource(s gl.Object, src string) {
	a.ctx.Call("shaderSource", a.value(s), src)
}

func (a *API) CompileShader(s gl.Object) { a.ctx.Call("compileShader", a.value(s)) }

func (a *API) GetShaderi(s gl.Object, pname gl.Enum) int {
	return paramVal(a.ctx.Call("getShaderParameter", a.value(s), int(pname)))
}

func (a *API) GetShaderInfoLog(s gl.Object) string {
	return stringVal(a.ctx.Call("getShaderInfoLog", a.value(s)))
}

func (a *API) AttachShader(p, s gl.Object) { a.ctx.Call("attachShader", a.value(p), a.value(s)) }
func (a *API) DetachShader(p, s gl.Object) { a.ctx.Call("detachShader", a.value(p), a.value(s)) }
func (a *API) LinkProgram(p gl.Object)     { a.ctx.Call("linkProgram", a.value(p)) }
func (a *API) ValidateProgram(p gl.Object) { a.ctx.Call("validateProgram", a.value(p)) }

func (a *API) GetProgrami(p gl.Object, pname gl.Enum) int {
	return paramVal(a.ctx.Call("getProgramParameter", a.value(p), int(pname)))
}

func (a *API) GetProgramInfoLog(p gl.Object) string {
	return stringVal(a.ctx.Call("getProgramInfoLog", a.value(p)))
}

// GetUniformLocation numbers each WebGLUniformLocation it hands out.
// Locations are numbered per call, so the caller should cache them.
func (a *API) GetUniformLocation(p gl.Object, name string) gl.Uniform {
	v := a.ctx.Call("getUniformLocation", a.value(p), name)
	if v.IsNull() || v.IsUndefined() {
		return gl.NoUniform
	}
	u := a.nextLoc
	a.nextLoc++
	a.uniforms[u] = v
	return u
}

func (a *API) GetAttribLocation(p gl.Object, name string) int {
	return a.ctx.Call("getAttribLocation", a.value(p), name).Int()
}

func (a *API) location(u gl.Uniform) js.Value {
	if v, ok := a.uniforms[u]; ok {
		return v
	}
	return js.Null()
}

func (a *API) Uniform1i(u gl.Uniform, v int)     { a.ctx.Call("uniform1i", a.location(u), v) }
func (a *API) Uniform1f(u gl.Uniform, v float32) { a.ctx.Call("uniform1f", a.location(u), v) }

func (a *API) Uniform2f(u gl.Uniform, v0, v1 float32) {
	a.ctx.Call("uniform2f", a.location(u), v0, v1)
}

func (a *API) Uniform3f(u gl.Uniform, v0, v1, v2 float32) {
	a.ctx.Call("uniform3f", a.location(u), v0, v1, v2)
}

func (a *API) Uniform4f(u gl.Uniform, v0, v1, v2, v3 float32) {
	a.ctx.Call("uniform4f", a.location(u), v0, v1, v2, v3)
}

func (a *API) UniformMatrix4fv(u gl.Uniform, transpose bool, v []float32) {
	if len(v) == 0 {
		return
	}
	if a.floatBuf.IsUndefined() || a.floatBuf.Length() != len(v) {
		a.floatBuf = js.Global().Get("Float32Array").New(len(v))
	}
	for i, f := range v {
		a.floatBuf.SetIndex(i, f)
	}
	a.ctx.Call("uniformMatrix4fv", a.location(u), transpose, a.floatBuf)
}

func (a *API) EnableVertexAttribArray(at gl.Attrib) {
	a.ctx.Call("enableVertexAttribArray", int(at))
}

func (a *API) DisableVertexAttribArray(at gl.Attrib) {
	a.ctx.Call("disableVertexAttribArray", int(at))
}

func (a *API) VertexAttribPointer(at gl.Attrib, size int, typ gl.Enum, normalized bool, stride, offset int) {
	a.ctx.Call("vertexAttribPointer", int(at), size, int(typ), normalized, stride, offset)
}

func (a *API) FenceSync(condition, flags gl.Enum) gl.Object {
	return a.track(a.ctx.Call("fenceSync", int(condition), int(flags)))
}

// ClientWaitSync never blocks: browsers reject timeouts above
// MAX_CLIENT_WAIT_TIMEOUT_WEBGL, which is usually zero.
func (a *API) ClientWaitSync(s gl.Object, flags gl.Enum, timeout uint64) gl.Enum {
	v, ok := a.objs[s]
	if !ok {
		return gl.WaitFailed
	}
	return gl.Enum(a.ctx.Call("clientWaitSync", v, int(flags), 0).Int())
}

func (a *API) DeleteSync(s gl.Object) { a.ctx.Call("deleteSync", a.release(s)) }

func (a *API) byteArrayOf(data []byte) js.Value {
	if len(data) == 0 {
		return js.Null()
	}
	a.resizeByteBuffer(len(data))
	js.CopyBytesToJS(a.byteBuf, data)
	return a.byteBuf
}

// pixelsOf wraps data in the typed array WebGL expects for typ.
func (a *API) pixelsOf(typ gl.Enum, data []byte) js.Value {
	b := a.byteArrayOf(data)
	if b.IsNull() {
		return b
	}
	buf, off := b.Get("buffer"), 0
	switch typ {
	case gl.Float:
		return js.Global().Get("Float32Array").New(buf, off, len(data)/4)
	case gl.HalfFloat, gl.UnsignedShort:
		return js.Global().Get("Uint16Array").New(buf, off, len(data)/2)
	case gl.UnsignedInt, gl.UnsignedInt248:
		return js.Global().Get("Uint32Array").New(buf, off, len(data)/4)
	default:
		return js.Global().Get("Uint8Array").New(buf, off, len(data))
	}
}

func (a *API) resizeByteBuffer(n int) {
	if n == 0 {
		return
	}
	if !a.byteBuf.IsUndefined() && a.byteBuf.Length() >= n {
		return
	}
	a.byteBuf = js.Global().Get("Uint8Array").New(n)
}

func paramVal(v js.Value) int {
	switch v.Type() {
	case js.TypeBoolean:
		if v.Bool() {
			return 1
		}
		return 0
	case js.TypeNumber:
		return v.Int()
	default:
		return 0
	}
}

func stringVal(v js.Value) string {
	if v.Type() != js.TypeString {
		return ""
	}
	return v.String()
}

// String describes the context for logs.
func (a *API) String() string {
	return fmt.Sprintf("webgl2(%d objects)", len(a.objs))
}
