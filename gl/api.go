package gl

// Object is an opaque native object name (buffer, texture, framebuffer,
// renderbuffer, program, shader, vertex array or sync object).
// The zero value is the null object.
type Object uint32

// Null is the null object. Binding Null to a target unbinds it.
const Null Object = 0

// Valid reports whether o names a native object.
func (o Object) Valid() bool {
	return o != Null
}

// Uniform is a uniform location. -1 marks an unknown or inactive uniform.
type Uniform int32

// NoUniform is the location returned for names the program does not use.
const NoUniform Uniform = -1

// Valid reports whether u is a live uniform location.
func (u Uniform) Valid() bool {
	return u >= 0
}

// Attrib is a vertex attribute index.
type Attrib uint32

// API is the subset of the OpenGL ES 3.0 / WebGL2 entry points the gles
// package drives.
//
// Every call operates on the native context the implementation was created
// for. Implementations are not expected to be safe for concurrent use and
// must not cache binding state themselves: the caller mirrors it.
//
// Create calls return Null when the object kind is unsupported or the context
// is lost. Driver-level errors are reported through GetError, never by panics.
type API interface {
	CreateBuffer() Object
	CreateTexture() Object
	CreateFramebuffer() Object
	CreateRenderbuffer() Object
	CreateVertexArray() Object
	CreateProgram() Object
	CreateShader(typ Enum) Object

	DeleteBuffer(b Object)
	DeleteTexture(t Object)
	DeleteFramebuffer(fb Object)
	DeleteRenderbuffer(rb Object)
	DeleteVertexArray(va Object)
	DeleteProgram(p Object)
	DeleteShader(s Object)

	BindBuffer(target Enum, b Object)
	BindBufferBase(target Enum, index int, b Object)
	ActiveTexture(unit Enum)
	BindTexture(target Enum, t Object)
	BindFramebuffer(target Enum, fb Object)
	BindRenderbuffer(target Enum, rb Object)
	BindVertexArray(va Object)
	UseProgram(p Object)

	// GetBinding returns the object bound for a *_BINDING query.
	GetBinding(pname Enum) Object
	// GetBindingi returns the object bound at an indexed binding point.
	GetBindingi(pname Enum, index int) Object
	GetInteger(pname Enum) int
	GetError() Enum

	BufferData(target Enum, size int, data []byte, usage Enum)
	BufferSubData(target Enum, offset int, data []byte)
	CopyBufferSubData(readTarget, writeTarget Enum, readOffset, writeOffset, size int)
	GetBufferSubData(target Enum, offset int, dst []byte)

	TexImage2D(target Enum, level int, internalFormat Enum, width, height int, format, typ Enum, data []byte)
	TexImage3D(target Enum, level int, internalFormat Enum, width, height, depth int, format, typ Enum, data []byte)
	TexSubImage2D(target Enum, level, x, y, width, height int, format, typ Enum, data []byte)
	TexStorage2D(target Enum, levels int, internalFormat Enum, width, height int)
	TexParameteri(target, pname Enum, param int)
	GenerateMipmap(target Enum)
	CopyTexSubImage2D(target Enum, level, xoffset, yoffset, x, y, width, height int)
	PixelStorei(pname Enum, param int)

	FramebufferTexture2D(target, attachment, texTarget Enum, t Object, level int)
	FramebufferTextureLayer(target, attachment Enum, t Object, level, layer int)
	FramebufferRenderbuffer(target, attachment, rbTarget Enum, rb Object)
	CheckFramebufferStatus(target Enum) Enum
	DrawBuffers(bufs []Enum)
	BlitFramebuffer(sx0, sy0, sx1, sy1, dx0, dy0, dx1, dy1 int, mask, filter Enum)

	RenderbufferStorage(target, internalFormat Enum, width, height int)
	RenderbufferStorageMultisample(target Enum, samples int, internalFormat Enum, width, height int)

	ShaderSource(s Object, src string)
	CompileShader(s Object)
	GetShaderi(s Object, pname Enum) int
	GetShaderInfoLog(s Object) string
	AttachShader(p, s Object)
	DetachShader(p, s Object)
	LinkProgram(p Object)
	ValidateProgram(p Object)
	GetProgrami(p Object, pname Enum) int
	GetProgramInfoLog(p Object) string

	GetUniformLocation(p Object, name string) Uniform
	GetAttribLocation(p Object, name string) int
	Uniform1i(u Uniform, v int)
	Uniform1f(u Uniform, v float32)
	Uniform2f(u Uniform, v0, v1 float32)
	Uniform3f(u Uniform, v0, v1, v2 float32)
	Uniform4f(u Uniform, v0, v1, v2, v3 float32)
	UniformMatrix4fv(u Uniform, transpose bool, v []float32)

	EnableVertexAttribArray(a Attrib)
	DisableVertexAttribArray(a Attrib)
	VertexAttribPointer(a Attrib, size int, typ Enum, normalized bool, stride, offset int)

	FenceSync(condition, flags Enum) Object
	ClientWaitSync(s Object, flags Enum, timeout uint64) Enum
	DeleteSync(s Object)
}
