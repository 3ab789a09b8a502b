//go:build (linux || darwin) && !js

package native

import (
	"log/slog"
	"runtime"
	"unsafe"

	"github.com/gogpu/gles/gl"
)

const (
	infoLogLength = 0x8B84
	mapReadBit    = 0x0001
)

// API drives a GLES 3.0 library through purego. It implements gl.API.
type API struct {
	lib uintptr
	log *slog.Logger
	fn  funcs

	// Sync objects are pointers natively; gl.Object is 32 bits.
	syncs    map[gl.Object]uintptr
	nextSync gl.Object
}

var _ gl.API = (*API)(nil)

func bytesPtr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Pointer(&b[0])
}

func gen(f func(int32, unsafe.Pointer)) gl.Object {
	var id uint32
	f(1, unsafe.Pointer(&id))
	return gl.Object(id)
}

func del(f func(int32, unsafe.Pointer), o gl.Object) {
	id := uint32(o)
	f(1, unsafe.Pointer(&id))
}

func (a *API) CreateBuffer() gl.Object       { return gen(a.fn.glGenBuffers) }
func (a *API) CreateTexture() gl.Object      { return gen(a.fn.glGenTextures) }
func (a *API) CreateFramebuffer() gl.Object  { return gen(a.fn.glGenFramebuffers) }
func (a *API) CreateRenderbuffer() gl.Object { return gen(a.fn.glGenRenderbuffers) }
func (a *API) CreateVertexArray() gl.Object  { return gen(a.fn.glGenVertexArrays) }
func (a *API) CreateProgram() gl.Object      { return gl.Object(a.fn.glCreateProgram()) }

func (a *API) CreateShader(typ gl.Enum) gl.Object {
	return gl.Object(a.fn.glCreateShader(uint32(typ)))
}

func (a *API) DeleteBuffer(b gl.Object)        { del(a.fn.glDeleteBuffers, b) }
func (a *API) DeleteTexture(t gl.Object)       { del(a.fn.glDeleteTextures, t) }
func (a *API) DeleteFramebuffer(fb gl.Object)  { del(a.fn.glDeleteFramebuffers, fb) }
func (a *API) DeleteRenderbuffer(rb gl.Object) { del(a.fn.glDeleteRenderbuffers, rb) }
func (a *API) DeleteVertexArray(va gl.Object)  { del(a.fn.glDeleteVertexArrays, va) }
func (a *API) DeleteProgram(p gl.Object)       { a.fn.glDeleteProgram(uint32(p)) }
func (a *API) DeleteShader(s gl.Object)        { a.fn.glDeleteShader(uint32(s)) }

func (a *API) BindBuffer(target gl.Enum, b gl.Object) {
	a.fn.glBindBuffer(uint32(target), uint32(b))
}

func (a *API) BindBufferBase(target gl.Enum, index int, b gl.Object) {
	a.fn.glBindBufferBase(uint32(target), uint32(index), uint32(b))
}

func (a *API) ActiveTexture(unit gl.Enum) { a.fn.glActiveTexture(uint32(unit)) }

func (a *API) BindTexture(target gl.Enum, t gl.Object) {
	a.fn.glBindTexture(uint32(target), uint32(t))
}

func (a *API) BindFramebuffer(target gl.Enum, fb gl.Object) {
	a.fn.glBindFramebuffer(uint32(target), uint32(fb))
}

func (a *API) BindRenderbuffer(target gl.Enum, rb gl.Object) {
	a.fn.glBindRenderbuffer(uint32(target), uint32(rb))
}

func (a *API) BindVertexArray(va gl.Object) { a.fn.glBindVertexArray(uint32(va)) }
func (a *API) UseProgram(p gl.Object)       { a.fn.glUseProgram(uint32(p)) }

func (a *API) GetBinding(pname gl.Enum) gl.Object {
	return gl.Object(a.GetInteger(pname))
}

func (a *API) GetBindingi(pname gl.Enum, index int) gl.Object {
	var v int32
	a.fn.glGetIntegeri_v(uint32(pname), uint32(index), unsafe.Pointer(&v))
	return gl.Object(uint32(v))
}

func (a *API) GetInteger(pname gl.Enum) int {
	var v int32
	a.fn.glGetIntegerv(uint32(pname), unsafe.Pointer(&v))
	return int(v)
}

func (a *API) GetError() gl.Enum { return gl.Enum(a.fn.glGetError()) }

func (a *API) BufferData(target gl.Enum, size int, data []byte, usage gl.Enum) {
	a.fn.glBufferData(uint32(target), size, bytesPtr(data), uint32(usage))
	runtime.KeepAlive(data)
}

func (a *API) BufferSubData(target gl.Enum, offset int, data []byte) {
	a.fn.glBufferSubData(uint32(target), offset, len(data), bytesPtr(data))
	runtime.KeepAlive(data)
}

func (a *API) CopyBufferSubData(readTarget, writeTarget gl.Enum, readOffset, writeOffset, size int) {
	a.fn.glCopyBufferSubData(uint32(readTarget), uint32(writeTarget), readOffset, writeOffset, size)
}

// GetBufferSubData maps the range for reading; ES 3.0 has no
// glGetBufferSubData.
func (a *API) GetBufferSubData(target gl.Enum, offset int, dst []byte) {
	if len(dst) == 0 {
		return
	}
	p := a.fn.glMapBufferRange(uint32(target), offset, len(dst), mapReadBit)
	if p == nil {
		return
	}
	copy(dst, unsafe.Slice((*byte)(p), len(dst)))
	a.fn.glUnmapBuffer(uint32(target))
}

func (a *API) TexImage2D(target gl.Enum, level int, internalFormat gl.Enum, width, height int, format, typ gl.Enum, data []byte) {
	a.fn.glTexImage2D(uint32(target), int32(level), int32(internalFormat), int32(width), int32(height), 0,
		uint32(format), uint32(typ), bytesPtr(data))
	runtime.KeepAlive(data)
}

func (a *API) TexImage3D(target gl.Enum, level int, internalFormat gl.Enum, width, height, depth int, format, typ gl.Enum, data []byte) {
	a.fn.glTexImage3D(uint32(target), int32(level), int32(internalFormat), int32(width), int32(height), int32(depth), 0,
		uint32(format), uint32(typ), bytesPtr(data))
	runtime.KeepAlive(data)
}

func (a *API) TexSubImage2D(target gl.Enum, level, x, y, width, height int, format, typ gl.Enum, data []byte) {
	a.fn.glTexSubImage2D(uint32(target), int32(level), int32(x), int32(y), int32(width), int32(height),
		uint32(format), uint32(typ), bytesPtr(data))
	runtime.KeepAlive(data)
}

func (a *API) TexStorage2D(target gl.Enum, levels int, internalFormat gl.Enum, width, height int) {
	a.fn.glTexStorage2D(uint32(target), int32(levels), uint32(internalFormat), int32(width), int32(height))
}

func (a *API) TexParameteri(target, pname gl.Enum, param int) {
	a.fn.glTexParameteri(uint32(target), uint32(pname), int32(param))
}

func (a *API) GenerateMipmap(target gl.Enum) { a.fn.glGenerateMipmap(uint32(target)) }

func (a *API) CopyTexSubImage2D(target gl.Enum, level, xoffset, yoffset, x, y, width, height int) {
	a.fn.glCopyTexSubImage2D(uint32(target), int32(level), int32(xoffset), int32(yoffset),
		int32(x), int32(y), int32(width), int32(height))
}

func (a *API) PixelStorei(pname gl.Enum, param int) {
	a.fn.glPixelStorei(uint32(pname), int32(param))
}

func (a *API) FramebufferTexture2D(target, attachment, texTarget gl.Enum, t gl.Object, level int) {
	a.fn.glFramebufferTexture2D(uint32(target), uint32(attachment), uint32(texTarget), uint32(t), int32(level))
}

func (a *API) FramebufferTextureLayer(target, attachment gl.Enum, t gl.Object, level, layer int) {
	a.fn.glFramebufferTextureLayer(uint32(target), uint32(attachment), uint32(t), int32(level), int32(layer))
}

func (a *API) FramebufferRenderbuffer(target, attachment, rbTarget gl.Enum, rb gl.Object) {
	a.fn.glFramebufferRenderbuffer(uint32(target), uint32(attachment), uint32(rbTarget), uint32(rb))
}

func (a *API) CheckFramebufferStatus(target gl.Enum) gl.Enum {
	return gl.Enum(a.fn.glCheckFramebufferStatus(uint32(target)))
}

func (a *API) DrawBuffers(bufs []gl.Enum) {
	if len(bufs) == 0 {
		a.fn.glDrawBuffers(0, nil)
		return
	}
	a.fn.glDrawBuffers(int32(len(bufs)), unsafe.Pointer(&bufs[0]))
	runtime.KeepAlive(bufs)
}

func (a *API) BlitFramebuffer(sx0, sy0, sx1, sy1, dx0, dy0, dx1, dy1 int, mask, filter gl.Enum) {
	a.fn.glBlitFramebuffer(int32(sx0), int32(sy0), int32(sx1), int32(sy1),
		int32(dx0), int32(dy0), int32(dx1), int32(dy1), uint32(mask), uint32(filter))
}

func (a *API) RenderbufferStorage(target, internalFormat gl.Enum, width, height int) {
	a.fn.glRenderbufferStorage(uint32(target), uint32(internalFormat), int32(width), int32(height))
}

func (a *API) RenderbufferStorageMultisample(target gl.Enum, samples int, internalFormat gl.Enum, width, height int) {
	a.fn.glRenderbufferStorageMultisample(uint32(target), int32(samples), uint32(internalFormat), int32(width), int32(height))
}

func (a *API) ShaderSource(s gl.Object, src string) {
	b := []byte(src)
	ptr := bytesPtr(b)
	length := int32(len(b))
	a.fn.glShaderSource(uint32(s), 1, unsafe.Pointer(&ptr), unsafe.Pointer(&length))
	runtime.KeepAlive(b)
}

func (a *API) CompileShader(s gl.Object) { a.fn.glCompileShader(uint32(s)) }

func (a *API) GetShaderi(s gl.Object, pname gl.Enum) int {
	var v int32
	a.fn.glGetShaderiv(uint32(s), uint32(pname), unsafe.Pointer(&v))
	return int(v)
}

func (a *API) GetShaderInfoLog(s gl.Object) string {
	n := a.GetShaderi(s, infoLogLength)
	if n <= 1 {
		return ""
	}
	buf := make([]byte, n)
	var written int32
	a.fn.glGetShaderInfoLog(uint32(s), int32(n), unsafe.Pointer(&written), unsafe.Pointer(&buf[0]))
	return string(buf[:written])
}

func (a *API) AttachShader(p, s gl.Object) { a.fn.glAttachShader(uint32(p), uint32(s)) }
func (a *API) DetachShader(p, s gl.Object) { a.fn.glDetachShader(uint32(p), uint32(s)) }
func (a *API) LinkProgram(p gl.Object)     { a.fn.glLinkProgram(uint32(p)) }
func (a *API) ValidateProgram(p gl.Object) { a.fn.glValidateProgram(uint32(p)) }

func (a *API) GetProgrami(p gl.Object, pname gl.Enum) int {
	var v int32
	a.fn.glGetProgramiv(uint32(p), uint32(pname), unsafe.Pointer(&v))
	return int(v)
}

func (a *API) GetProgramInfoLog(p gl.Object) string {
	n := a.GetProgrami(p, infoLogLength)
	if n <= 1 {
		return ""
	}
	buf := make([]byte, n)
	var written int32
	a.fn.glGetProgramInfoLog(uint32(p), int32(n), unsafe.Pointer(&written), unsafe.Pointer(&buf[0]))
	return string(buf[:written])
}

// purego passes Go strings as NUL-terminated C strings.
func (a *API) GetUniformLocation(p gl.Object, name string) gl.Uniform {
	return gl.Uniform(a.fn.glGetUniformLocation(uint32(p), name))
}

func (a *API) GetAttribLocation(p gl.Object, name string) int {
	return int(a.fn.glGetAttribLocation(uint32(p), name))
}

func (a *API) Uniform1i(u gl.Uniform, v int)          { a.fn.glUniform1i(int32(u), int32(v)) }
func (a *API) Uniform1f(u gl.Uniform, v float32)      { a.fn.glUniform1f(int32(u), v) }
func (a *API) Uniform2f(u gl.Uniform, v0, v1 float32) { a.fn.glUniform2f(int32(u), v0, v1) }

func (a *API) Uniform3f(u gl.Uniform, v0, v1, v2 float32) {
	a.fn.glUniform3f(int32(u), v0, v1, v2)
}

func (a *API) Uniform4f(u gl.Uniform, v0, v1, v2, v3 float32) {
	a.fn.glUniform4f(int32(u), v0, v1, v2, v3)
}

func (a *API) UniformMatrix4fv(u gl.Uniform, transpose bool, v []float32) {
	if len(v) < 16 {
		return
	}
	a.fn.glUniformMatrix4fv(int32(u), int32(len(v)/16), transpose, unsafe.Pointer(&v[0]))
	runtime.KeepAlive(v)
}

func (a *API) EnableVertexAttribArray(at gl.Attrib)  { a.fn.glEnableVertexAttribArray(uint32(at)) }
func (a *API) DisableVertexAttribArray(at gl.Attrib) { a.fn.glDisableVertexAttribArray(uint32(at)) }

func (a *API) VertexAttribPointer(at gl.Attrib, size int, typ gl.Enum, normalized bool, stride, offset int) {
	a.fn.glVertexAttribPointer(uint32(at), int32(size), uint32(typ), normalized, int32(stride), uintptr(offset))
}

func (a *API) FenceSync(condition, flags gl.Enum) gl.Object {
	s := a.fn.glFenceSync(uint32(condition), uint32(flags))
	if s == 0 {
		return gl.Null
	}
	a.nextSync++
	a.syncs[a.nextSync] = s
	return a.nextSync
}

func (a *API) ClientWaitSync(s gl.Object, flags gl.Enum, timeout uint64) gl.Enum {
	h, ok := a.syncs[s]
	if !ok {
		a.log.Warn("native: unknown sync object", "sync", uint32(s))
		return gl.WaitFailed
	}
	return gl.Enum(a.fn.glClientWaitSync(h, uint32(flags), timeout))
}

func (a *API) DeleteSync(s gl.Object) {
	h, ok := a.syncs[s]
	if !ok {
		return
	}
	delete(a.syncs, s)
	a.fn.glDeleteSync(h)
}
