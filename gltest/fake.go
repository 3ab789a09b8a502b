// Package gltest provides an in-memory implementation of gl.API for tests
// and offline tooling.
//
// Fake keeps the binding state a real OpenGL ES 3.0 context would keep
// (per-target buffer bindings, per-unit texture bindings, the element array
// binding owned by the current vertex array, aliased FRAMEBUFFER binding) and
// counts every call by entry point name, so callers can assert both what the
// native layer ended up with and how many calls it took to get there.
package gltest

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gogpu/gles/gl"
)

// Object kinds accepted by FailCreate.
const (
	KindBuffer       = "buffer"
	KindTexture      = "texture"
	KindFramebuffer  = "framebuffer"
	KindRenderbuffer = "renderbuffer"
	KindVertexArray  = "vertexarray"
	KindProgram      = "program"
	KindShader       = "shader"
	KindSync         = "sync"
)

// CompileFailMarker makes CompileShader fail for any source containing it.
const CompileFailMarker = "#error"

type bindKey struct {
	pname gl.Enum
	index int
}

type level struct {
	width, height, depth int
}

type fakeObject struct {
	kind    string
	deleted bool

	// buffers
	data  []byte
	usage gl.Enum

	// textures
	levels    map[int]level
	params    map[gl.Enum]int
	immutable bool

	// framebuffers
	attachments map[gl.Enum]gl.Object
	drawBuffers []gl.Enum

	// renderbuffers
	rbFormat  gl.Enum
	rbSize    level
	rbSamples int

	// shaders and programs
	shaderType gl.Enum
	source     string
	compiled   bool
	shaders    []gl.Object
	linked     bool
	uniforms   map[string]gl.Uniform

	// vertex arrays
	attribs map[gl.Attrib]bool

	// sync objects
	pending int
}

// Fake is an in-memory gl.API. The zero value is not usable; call New.
//
// Fake is safe for concurrent use; every call is serialized.
type Fake struct {
	mu sync.Mutex

	calls map[string]int
	trace []string

	// Tracing records every call in Trace when set.
	Tracing bool

	// LinkFail makes every LinkProgram fail with LinkLog.
	LinkFail bool
	LinkLog  string

	// SyncPolls is the number of ClientWaitSync polls that time out before a
	// new fence reports signaled.
	SyncPolls int

	// Status overrides CheckFramebufferStatus when non-zero.
	Status gl.Enum

	next    gl.Object
	objects map[gl.Object]*fakeObject
	failing map[string]bool
	errors  []gl.Enum

	bindings   map[bindKey]gl.Object
	indexed    map[bindKey]gl.Object
	activeUnit int
	currentVAO gl.Object
	elements   map[gl.Object]gl.Object
	program    gl.Object
	uniformsV  map[gl.Uniform][]float32
	unpack     map[gl.Enum]int
}

var _ gl.API = (*Fake)(nil)

// New returns a Fake with no objects and every binding null.
func New() *Fake {
	return &Fake{
		calls:     make(map[string]int),
		objects:   make(map[gl.Object]*fakeObject),
		failing:   make(map[string]bool),
		bindings:  make(map[bindKey]gl.Object),
		indexed:   make(map[bindKey]gl.Object),
		elements:  make(map[gl.Object]gl.Object),
		uniformsV: make(map[gl.Uniform][]float32),
		unpack:    make(map[gl.Enum]int),
		LinkLog:   "link failed",
	}
}

// FailCreate makes every subsequent create call for kind return gl.Null.
func (f *Fake) FailCreate(kind string, fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[kind] = fail
}

// InjectError queues a code for the next GetError call.
func (f *Fake) InjectError(code gl.Enum) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = append(f.errors, code)
}

// Calls returns how many times the named entry point was called.
func (f *Fake) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

// TotalCalls returns the number of calls across all entry points.
func (f *Fake) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

// CallCounts returns a copy of the per-entry-point counters.
func (f *Fake) CallCounts() map[string]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]int, len(f.calls))
	for k, v := range f.calls {
		out[k] = v
	}
	return out
}

// CallNames returns the names of every entry point called so far, sorted.
func (f *Fake) CallNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for k := range f.calls {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ResetCalls clears the counters and the trace. Native state is kept.
func (f *Fake) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = make(map[string]int)
	f.trace = nil
}

// Trace returns the recorded call log when Tracing is enabled.
func (f *Fake) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.trace...)
}

// Peek returns what GetBinding(pname) would return, without counting a call.
func (f *Fake) Peek(pname gl.Enum) gl.Object {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.binding(pname)
}

// PeekUnit returns the texture bound on unit for a TEXTURE_BINDING_* query,
// without counting a call or changing the active unit.
func (f *Fake) PeekUnit(pname gl.Enum, unit int) gl.Object {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bindings[bindKey{pname, unit}]
}

// PeekIndexed returns the object at an indexed binding point.
func (f *Fake) PeekIndexed(pname gl.Enum, index int) gl.Object {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.indexed[bindKey{pname, index}]
}

// ActiveUnit returns the active texture unit index.
func (f *Fake) ActiveUnit() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.activeUnit
}

// Attached returns the object attached at point of framebuffer fb.
func (f *Fake) Attached(fb gl.Object, point gl.Enum) gl.Object {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.objects[fb]
	if o == nil {
		return gl.Null
	}
	return o.attachments[point]
}

// BufferContents returns a copy of the data store of buffer b.
func (f *Fake) BufferContents(b gl.Object) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.objects[b]
	if o == nil {
		return nil
	}
	return append([]byte(nil), o.data...)
}

// TextureParam returns a parameter last set on texture t.
func (f *Fake) TextureParam(t gl.Object, pname gl.Enum) (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.objects[t]
	if o == nil {
		return 0, false
	}
	v, ok := o.params[pname]
	return v, ok
}

// TextureLevel returns the size of a texture level, as uploaded.
func (f *Fake) TextureLevel(t gl.Object, lvl int) (w, h, d int, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.objects[t]
	if o == nil {
		return 0, 0, 0, false
	}
	l, ok := o.levels[levelKey(gl.Texture2D, lvl)]
	return l.width, l.height, l.depth, ok
}

// UniformValue returns the last value written to location u of the current
// program (matrices included).
func (f *Fake) UniformValue(u gl.Uniform) []float32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]float32(nil), f.uniformsV[u]...)
}

// AttribEnabled reports whether attribute a is enabled in vertex array va.
func (f *Fake) AttribEnabled(va gl.Object, a gl.Attrib) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.objects[va]
	return o != nil && o.attribs[a]
}

// IsDeleted reports whether o was passed to a delete call.
func (f *Fake) IsDeleted(o gl.Object) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj := f.objects[o]
	return obj != nil && obj.deleted
}

// LiveObjects returns the number of created objects not yet deleted.
func (f *Fake) LiveObjects() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, o := range f.objects {
		if !o.deleted {
			n++
		}
	}
	return n
}

func (f *Fake) record(name string, args ...any) {
	f.calls[name]++
	if !f.Tracing {
		return
	}
	if len(args) == 0 {
		f.trace = append(f.trace, name)
		return
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	f.trace = append(f.trace, name+"("+strings.Join(parts, ", ")+")")
}

func (f *Fake) pushError(code gl.Enum) {
	f.errors = append(f.errors, code)
}

func (f *Fake) create(name, kind string) gl.Object {
	f.record(name)
	if f.failing[kind] {
		return gl.Null
	}
	f.next++
	f.objects[f.next] = &fakeObject{kind: kind}
	return f.next
}

func (f *Fake) lookup(o gl.Object, kind string) *fakeObject {
	obj := f.objects[o]
	if obj == nil || obj.deleted || obj.kind != kind {
		return nil
	}
	return obj
}

func bufferQuery(target gl.Enum) (gl.Enum, bool) {
	q := gl.BufferBinding(target)
	return q, q != 0
}

func textureQuery(target gl.Enum) (gl.Enum, bool) {
	q := gl.TextureBinding(target)
	return q, q != 0
}

func (f *Fake) binding(pname gl.Enum) gl.Object {
	switch pname {
	case gl.ElementArrayBufferBinding:
		return f.elements[f.currentVAO]
	case gl.VertexArrayBinding:
		return f.currentVAO
	case gl.CurrentProgram:
		return f.program
	case gl.TextureBinding2D, gl.TextureBinding3D, gl.TextureBinding2DArray, gl.TextureBindingCubeMap:
		return f.bindings[bindKey{pname, f.activeUnit}]
	}
	return f.bindings[bindKey{pname, 0}]
}

func (f *Fake) boundBuffer(target gl.Enum) *fakeObject {
	q, ok := bufferQuery(target)
	if !ok {
		f.pushError(gl.InvalidEnum)
		return nil
	}
	obj := f.lookup(f.binding(q), KindBuffer)
	if obj == nil {
		f.pushError(gl.InvalidOperation)
	}
	return obj
}

func (f *Fake) boundTexture(target gl.Enum) *fakeObject {
	q, ok := textureQuery(target)
	if !ok {
		f.pushError(gl.InvalidEnum)
		return nil
	}
	obj := f.lookup(f.binding(q), KindTexture)
	if obj == nil {
		f.pushError(gl.InvalidOperation)
	}
	return obj
}

func (f *Fake) boundFramebuffer(target gl.Enum) *fakeObject {
	q := gl.DrawFramebufferBinding
	switch target {
	case gl.Framebuffer, gl.DrawFramebuffer:
	case gl.ReadFramebuffer:
		q = gl.ReadFramebufferBinding
	default:
		f.pushError(gl.InvalidEnum)
		return nil
	}
	obj := f.lookup(f.binding(q), KindFramebuffer)
	if obj == nil {
		f.pushError(gl.InvalidOperation)
	}
	return obj
}

// CreateBuffer implements gl.API.
func (f *Fake) CreateBuffer() gl.Object {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.create("CreateBuffer", KindBuffer)
}

// CreateTexture implements gl.API.
func (f *Fake) CreateTexture() gl.Object {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.create("CreateTexture", KindTexture)
	if o.Valid() {
		t := f.objects[o]
		t.levels = make(map[int]level)
		t.params = make(map[gl.Enum]int)
	}
	return o
}

// CreateFramebuffer implements gl.API.
func (f *Fake) CreateFramebuffer() gl.Object {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.create("CreateFramebuffer", KindFramebuffer)
	if o.Valid() {
		f.objects[o].attachments = make(map[gl.Enum]gl.Object)
	}
	return o
}

// CreateRenderbuffer implements gl.API.
func (f *Fake) CreateRenderbuffer() gl.Object {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.create("CreateRenderbuffer", KindRenderbuffer)
}

// CreateVertexArray implements gl.API.
func (f *Fake) CreateVertexArray() gl.Object {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.create("CreateVertexArray", KindVertexArray)
	if o.Valid() {
		f.objects[o].attribs = make(map[gl.Attrib]bool)
	}
	return o
}

// CreateProgram implements gl.API.
func (f *Fake) CreateProgram() gl.Object {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.create("CreateProgram", KindProgram)
	if o.Valid() {
		f.objects[o].uniforms = make(map[string]gl.Uniform)
	}
	return o
}

// CreateShader implements gl.API.
func (f *Fake) CreateShader(typ gl.Enum) gl.Object {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.create("CreateShader", KindShader)
	if o.Valid() {
		f.objects[o].shaderType = typ
	}
	return o
}

func (f *Fake) markDeleted(name string, o gl.Object, kind string) bool {
	f.record(name, o)
	obj := f.lookup(o, kind)
	if obj == nil {
		return false
	}
	obj.deleted = true
	return true
}

// clearBindings resets every binding in m that holds o.
func clearBindings(m map[bindKey]gl.Object, o gl.Object, match func(gl.Enum) bool) {
	for k, v := range m {
		if v == o && match(k.pname) {
			m[k] = gl.Null
		}
	}
}

func isBufferQuery(p gl.Enum) bool {
	switch p {
	case gl.ArrayBufferBinding, gl.CopyReadBufferBinding, gl.CopyWriteBufferBinding,
		gl.PixelPackBufferBinding, gl.PixelUnpackBufferBinding,
		gl.TransformFeedbackBufferBinding, gl.UniformBufferBinding:
		return true
	}
	return false
}

func isTextureQuery(p gl.Enum) bool {
	switch p {
	case gl.TextureBinding2D, gl.TextureBinding3D, gl.TextureBinding2DArray, gl.TextureBindingCubeMap:
		return true
	}
	return false
}

// DeleteBuffer implements gl.API. Like a real context it unbinds the buffer
// from every target, and from the element binding of the current vertex array.
func (f *Fake) DeleteBuffer(b gl.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.markDeleted("DeleteBuffer", b, KindBuffer) {
		return
	}
	clearBindings(f.bindings, b, isBufferQuery)
	clearBindings(f.indexed, b, isBufferQuery)
	if f.elements[f.currentVAO] == b {
		f.elements[f.currentVAO] = gl.Null
	}
}

// DeleteTexture implements gl.API. The texture is unbound from every unit.
func (f *Fake) DeleteTexture(t gl.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.markDeleted("DeleteTexture", t, KindTexture) {
		return
	}
	clearBindings(f.bindings, t, isTextureQuery)
}

// DeleteFramebuffer implements gl.API. Bindings revert to the default
// framebuffer.
func (f *Fake) DeleteFramebuffer(fb gl.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.markDeleted("DeleteFramebuffer", fb, KindFramebuffer) {
		return
	}
	clearBindings(f.bindings, fb, func(p gl.Enum) bool {
		return p == gl.DrawFramebufferBinding || p == gl.ReadFramebufferBinding
	})
}

// DeleteRenderbuffer implements gl.API.
func (f *Fake) DeleteRenderbuffer(rb gl.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.markDeleted("DeleteRenderbuffer", rb, KindRenderbuffer) {
		return
	}
	clearBindings(f.bindings, rb, func(p gl.Enum) bool { return p == gl.RenderbufferBinding })
}

// DeleteVertexArray implements gl.API. Deleting the bound vertex array
// reverts to the default one.
func (f *Fake) DeleteVertexArray(va gl.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.markDeleted("DeleteVertexArray", va, KindVertexArray) {
		return
	}
	if f.currentVAO == va {
		f.currentVAO = gl.Null
	}
	delete(f.elements, va)
}

// DeleteProgram implements gl.API. A program in use stays current until
// another one is installed, as in GL.
func (f *Fake) DeleteProgram(p gl.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markDeleted("DeleteProgram", p, KindProgram)
}

// DeleteShader implements gl.API.
func (f *Fake) DeleteShader(s gl.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markDeleted("DeleteShader", s, KindShader)
}

func (f *Fake) checkBindable(o gl.Object, kind string) bool {
	if o == gl.Null {
		return true
	}
	if f.lookup(o, kind) == nil {
		f.pushError(gl.InvalidOperation)
		return false
	}
	return true
}

// BindBuffer implements gl.API.
func (f *Fake) BindBuffer(target gl.Enum, b gl.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("BindBuffer", target, b)
	q, ok := bufferQuery(target)
	if !ok {
		f.pushError(gl.InvalidEnum)
		return
	}
	if !f.checkBindable(b, KindBuffer) {
		return
	}
	if target == gl.ElementArrayBuffer {
		f.elements[f.currentVAO] = b
		return
	}
	f.bindings[bindKey{q, 0}] = b
}

// BindBufferBase implements gl.API. It also sets the generic binding.
func (f *Fake) BindBufferBase(target gl.Enum, index int, b gl.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("BindBufferBase", target, index, b)
	if target != gl.UniformBuffer && target != gl.TransformFeedbackBuffer {
		f.pushError(gl.InvalidEnum)
		return
	}
	if !f.checkBindable(b, KindBuffer) {
		return
	}
	q, _ := bufferQuery(target)
	f.indexed[bindKey{q, index}] = b
	f.bindings[bindKey{q, 0}] = b
}

// ActiveTexture implements gl.API.
func (f *Fake) ActiveTexture(unit gl.Enum) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ActiveTexture", unit)
	if unit < gl.Texture0 || unit >= gl.Texture0+32 {
		f.pushError(gl.InvalidEnum)
		return
	}
	f.activeUnit = int(unit - gl.Texture0)
}

// BindTexture implements gl.API.
func (f *Fake) BindTexture(target gl.Enum, t gl.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("BindTexture", target, t)
	q, ok := textureQuery(target)
	if !ok || target != gl.TextureCubeMap && q == gl.TextureBindingCubeMap {
		f.pushError(gl.InvalidEnum)
		return
	}
	if !f.checkBindable(t, KindTexture) {
		return
	}
	f.bindings[bindKey{q, f.activeUnit}] = t
}

// BindFramebuffer implements gl.API. FRAMEBUFFER sets both the draw and the
// read binding.
func (f *Fake) BindFramebuffer(target gl.Enum, fb gl.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("BindFramebuffer", target, fb)
	if !f.checkBindable(fb, KindFramebuffer) {
		return
	}
	switch target {
	case gl.Framebuffer:
		f.bindings[bindKey{gl.DrawFramebufferBinding, 0}] = fb
		f.bindings[bindKey{gl.ReadFramebufferBinding, 0}] = fb
	case gl.DrawFramebuffer:
		f.bindings[bindKey{gl.DrawFramebufferBinding, 0}] = fb
	case gl.ReadFramebuffer:
		f.bindings[bindKey{gl.ReadFramebufferBinding, 0}] = fb
	default:
		f.pushError(gl.InvalidEnum)
	}
}

// BindRenderbuffer implements gl.API.
func (f *Fake) BindRenderbuffer(target gl.Enum, rb gl.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("BindRenderbuffer", target, rb)
	if target != gl.Renderbuffer {
		f.pushError(gl.InvalidEnum)
		return
	}
	if !f.checkBindable(rb, KindRenderbuffer) {
		return
	}
	f.bindings[bindKey{gl.RenderbufferBinding, 0}] = rb
}

// BindVertexArray implements gl.API.
func (f *Fake) BindVertexArray(va gl.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("BindVertexArray", va)
	if !f.checkBindable(va, KindVertexArray) {
		return
	}
	f.currentVAO = va
}

// UseProgram implements gl.API.
func (f *Fake) UseProgram(p gl.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UseProgram", p)
	if p != gl.Null {
		obj := f.lookup(p, KindProgram)
		if obj == nil || !obj.linked {
			f.pushError(gl.InvalidOperation)
			return
		}
	}
	f.program = p
}

// GetBinding implements gl.API.
func (f *Fake) GetBinding(pname gl.Enum) gl.Object {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetBinding", pname)
	return f.binding(pname)
}

// GetBindingi implements gl.API.
func (f *Fake) GetBindingi(pname gl.Enum, index int) gl.Object {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetBindingi", pname, index)
	return f.indexed[bindKey{pname, index}]
}

// GetInteger implements gl.API.
func (f *Fake) GetInteger(pname gl.Enum) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetInteger", pname)
	switch pname {
	case gl.ActiveTexture:
		return int(gl.Texture0) + f.activeUnit
	case gl.MaxCombinedTextureImageUnits:
		return 32
	case gl.MaxColorAttachments, gl.MaxDrawBuffers:
		return 8
	case gl.MaxSamples:
		return 4
	case gl.MaxVertexAttribs:
		return 16
	}
	return 0
}

// GetError implements gl.API.
func (f *Fake) GetError() gl.Enum {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetError")
	if len(f.errors) == 0 {
		return gl.NoError
	}
	e := f.errors[0]
	f.errors = f.errors[1:]
	return e
}

// BufferData implements gl.API.
func (f *Fake) BufferData(target gl.Enum, size int, data []byte, usage gl.Enum) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("BufferData", target, size, usage)
	b := f.boundBuffer(target)
	if b == nil {
		return
	}
	if size < 0 || (data != nil && len(data) < size) {
		f.pushError(gl.InvalidValue)
		return
	}
	b.data = make([]byte, size)
	copy(b.data, data)
	b.usage = usage
}

// BufferSubData implements gl.API.
func (f *Fake) BufferSubData(target gl.Enum, offset int, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("BufferSubData", target, offset, len(data))
	b := f.boundBuffer(target)
	if b == nil {
		return
	}
	if offset < 0 || offset+len(data) > len(b.data) {
		f.pushError(gl.InvalidValue)
		return
	}
	copy(b.data[offset:], data)
}

// CopyBufferSubData implements gl.API.
func (f *Fake) CopyBufferSubData(readTarget, writeTarget gl.Enum, readOffset, writeOffset, size int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CopyBufferSubData", readTarget, writeTarget, readOffset, writeOffset, size)
	src := f.boundBuffer(readTarget)
	dst := f.boundBuffer(writeTarget)
	if src == nil || dst == nil {
		return
	}
	if readOffset < 0 || writeOffset < 0 || size < 0 ||
		readOffset+size > len(src.data) || writeOffset+size > len(dst.data) {
		f.pushError(gl.InvalidValue)
		return
	}
	copy(dst.data[writeOffset:writeOffset+size], src.data[readOffset:readOffset+size])
}

// GetBufferSubData implements gl.API.
func (f *Fake) GetBufferSubData(target gl.Enum, offset int, dst []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetBufferSubData", target, offset, len(dst))
	b := f.boundBuffer(target)
	if b == nil {
		return
	}
	if offset < 0 || offset+len(dst) > len(b.data) {
		f.pushError(gl.InvalidValue)
		return
	}
	copy(dst, b.data[offset:])
}

// levelKey folds cube faces into the level map: face n of level l is stored
// under l*8+n+1, plain levels under l*8.
func levelKey(target gl.Enum, lvl int) int {
	if gl.IsCubeFace(target) {
		return lvl*8 + int(target-gl.TextureCubeMapPositiveX) + 1
	}
	return lvl * 8
}

// TexImage2D implements gl.API.
func (f *Fake) TexImage2D(target gl.Enum, lvl int, internalFormat gl.Enum, width, height int, format, typ gl.Enum, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("TexImage2D", target, lvl, internalFormat, width, height)
	t := f.boundTexture(target)
	if t == nil {
		return
	}
	if t.immutable || lvl < 0 || width < 0 || height < 0 {
		f.pushError(gl.InvalidOperation)
		return
	}
	t.levels[levelKey(target, lvl)] = level{width, height, 1}
}

// TexImage3D implements gl.API.
func (f *Fake) TexImage3D(target gl.Enum, lvl int, internalFormat gl.Enum, width, height, depth int, format, typ gl.Enum, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("TexImage3D", target, lvl, internalFormat, width, height, depth)
	t := f.boundTexture(target)
	if t == nil {
		return
	}
	if t.immutable || lvl < 0 || width < 0 || height < 0 || depth < 0 {
		f.pushError(gl.InvalidOperation)
		return
	}
	t.levels[levelKey(target, lvl)] = level{width, height, depth}
}

// TexSubImage2D implements gl.API.
func (f *Fake) TexSubImage2D(target gl.Enum, lvl, x, y, width, height int, format, typ gl.Enum, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("TexSubImage2D", target, lvl, x, y, width, height)
	t := f.boundTexture(target)
	if t == nil {
		return
	}
	l, ok := t.levels[levelKey(target, lvl)]
	if !ok || x < 0 || y < 0 || x+width > l.width || y+height > l.height {
		f.pushError(gl.InvalidValue)
	}
}

// TexStorage2D implements gl.API.
func (f *Fake) TexStorage2D(target gl.Enum, levels int, internalFormat gl.Enum, width, height int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("TexStorage2D", target, levels, internalFormat, width, height)
	t := f.boundTexture(target)
	if t == nil {
		return
	}
	if t.immutable || levels < 1 {
		f.pushError(gl.InvalidOperation)
		return
	}
	t.immutable = true
	w, h := width, height
	for i := 0; i < levels; i++ {
		if target == gl.TextureCubeMap {
			for face := 0; face < 6; face++ {
				t.levels[levelKey(gl.CubeFace(face), i)] = level{w, h, 1}
			}
		} else {
			t.levels[levelKey(target, i)] = level{w, h, 1}
		}
		w, h = max(1, w/2), max(1, h/2)
	}
}

// TexParameteri implements gl.API.
func (f *Fake) TexParameteri(target, pname gl.Enum, param int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("TexParameteri", target, pname, param)
	if t := f.boundTexture(target); t != nil {
		t.params[pname] = param
	}
}

// GenerateMipmap implements gl.API.
func (f *Fake) GenerateMipmap(target gl.Enum) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GenerateMipmap", target)
	t := f.boundTexture(target)
	if t == nil {
		return
	}
	base, ok := t.levels[levelKey(target, 0)]
	if !ok {
		f.pushError(gl.InvalidOperation)
		return
	}
	w, h := base.width, base.height
	for i := 1; w > 1 || h > 1; i++ {
		w, h = max(1, w/2), max(1, h/2)
		t.levels[levelKey(target, i)] = level{w, h, 1}
	}
}

// CopyTexSubImage2D implements gl.API.
func (f *Fake) CopyTexSubImage2D(target gl.Enum, lvl, xoffset, yoffset, x, y, width, height int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CopyTexSubImage2D", target, lvl, xoffset, yoffset, x, y, width, height)
	t := f.boundTexture(target)
	if t == nil {
		return
	}
	l, ok := t.levels[levelKey(target, lvl)]
	if !ok || xoffset+width > l.width || yoffset+height > l.height {
		f.pushError(gl.InvalidValue)
	}
}

// PixelStorei implements gl.API.
func (f *Fake) PixelStorei(pname gl.Enum, param int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("PixelStorei", pname, param)
	f.unpack[pname] = param
}

func (f *Fake) attach(fb *fakeObject, point gl.Enum, o gl.Object) {
	if point == gl.DepthStencilAttachment {
		fb.attachments[gl.DepthAttachment] = o
		fb.attachments[gl.StencilAttachment] = o
	}
	fb.attachments[point] = o
}

// FramebufferTexture2D implements gl.API.
func (f *Fake) FramebufferTexture2D(target, attachment, texTarget gl.Enum, t gl.Object, lvl int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("FramebufferTexture2D", target, attachment, texTarget, t, lvl)
	fb := f.boundFramebuffer(target)
	if fb == nil || !f.checkBindable(t, KindTexture) {
		return
	}
	f.attach(fb, attachment, t)
}

// FramebufferTextureLayer implements gl.API.
func (f *Fake) FramebufferTextureLayer(target, attachment gl.Enum, t gl.Object, lvl, layer int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("FramebufferTextureLayer", target, attachment, t, lvl, layer)
	fb := f.boundFramebuffer(target)
	if fb == nil || !f.checkBindable(t, KindTexture) {
		return
	}
	f.attach(fb, attachment, t)
}

// FramebufferRenderbuffer implements gl.API.
func (f *Fake) FramebufferRenderbuffer(target, attachment, rbTarget gl.Enum, rb gl.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("FramebufferRenderbuffer", target, attachment, rbTarget, rb)
	fb := f.boundFramebuffer(target)
	if fb == nil || !f.checkBindable(rb, KindRenderbuffer) {
		return
	}
	f.attach(fb, attachment, rb)
}

// CheckFramebufferStatus implements gl.API.
func (f *Fake) CheckFramebufferStatus(target gl.Enum) gl.Enum {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CheckFramebufferStatus", target)
	if f.Status != 0 {
		return f.Status
	}
	fb := f.boundFramebuffer(target)
	if fb == nil {
		return gl.FramebufferComplete
	}
	for _, o := range fb.attachments {
		if o != gl.Null {
			return gl.FramebufferComplete
		}
	}
	return gl.FramebufferIncompleteMissingAttachment
}

// DrawBuffers implements gl.API.
func (f *Fake) DrawBuffers(bufs []gl.Enum) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DrawBuffers", bufs)
	if fb := f.lookup(f.binding(gl.DrawFramebufferBinding), KindFramebuffer); fb != nil {
		fb.drawBuffers = append([]gl.Enum(nil), bufs...)
	}
}

// BlitFramebuffer implements gl.API.
func (f *Fake) BlitFramebuffer(sx0, sy0, sx1, sy1, dx0, dy0, dx1, dy1 int, mask, filter gl.Enum) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("BlitFramebuffer", sx0, sy0, sx1, sy1, dx0, dy0, dx1, dy1, mask, filter)
}

// RenderbufferStorage implements gl.API.
func (f *Fake) RenderbufferStorage(target, internalFormat gl.Enum, width, height int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("RenderbufferStorage", target, internalFormat, width, height)
	f.renderbufferStorage(0, internalFormat, width, height)
}

// RenderbufferStorageMultisample implements gl.API.
func (f *Fake) RenderbufferStorageMultisample(target gl.Enum, samples int, internalFormat gl.Enum, width, height int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("RenderbufferStorageMultisample", target, samples, internalFormat, width, height)
	f.renderbufferStorage(samples, internalFormat, width, height)
}

func (f *Fake) renderbufferStorage(samples int, internalFormat gl.Enum, width, height int) {
	rb := f.lookup(f.binding(gl.RenderbufferBinding), KindRenderbuffer)
	if rb == nil {
		f.pushError(gl.InvalidOperation)
		return
	}
	rb.rbFormat = internalFormat
	rb.rbSize = level{width, height, 1}
	rb.rbSamples = samples
}

// ShaderSource implements gl.API.
func (f *Fake) ShaderSource(s gl.Object, src string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ShaderSource", s)
	if sh := f.lookup(s, KindShader); sh != nil {
		sh.source = src
	}
}

// CompileShader implements gl.API. Sources containing CompileFailMarker fail.
func (f *Fake) CompileShader(s gl.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CompileShader", s)
	if sh := f.lookup(s, KindShader); sh != nil {
		sh.compiled = !strings.Contains(sh.source, CompileFailMarker)
	}
}

// GetShaderi implements gl.API.
func (f *Fake) GetShaderi(s gl.Object, pname gl.Enum) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetShaderi", s, pname)
	sh := f.lookup(s, KindShader)
	if sh == nil || pname != gl.CompileStatus {
		return 0
	}
	return boolInt(sh.compiled)
}

// GetShaderInfoLog implements gl.API.
func (f *Fake) GetShaderInfoLog(s gl.Object) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetShaderInfoLog", s)
	sh := f.lookup(s, KindShader)
	if sh == nil || sh.compiled {
		return ""
	}
	return "ERROR: 0:1: '" + CompileFailMarker + "' : user error"
}

// AttachShader implements gl.API.
func (f *Fake) AttachShader(p, s gl.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("AttachShader", p, s)
	if prog := f.lookup(p, KindProgram); prog != nil {
		prog.shaders = append(prog.shaders, s)
	}
}

// DetachShader implements gl.API.
func (f *Fake) DetachShader(p, s gl.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DetachShader", p, s)
	prog := f.lookup(p, KindProgram)
	if prog == nil {
		return
	}
	for i, sh := range prog.shaders {
		if sh == s {
			prog.shaders = append(prog.shaders[:i], prog.shaders[i+1:]...)
			break
		}
	}
}

// LinkProgram implements gl.API.
func (f *Fake) LinkProgram(p gl.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("LinkProgram", p)
	prog := f.lookup(p, KindProgram)
	if prog == nil {
		return
	}
	prog.linked = !f.LinkFail && len(prog.shaders) > 0
	for _, s := range prog.shaders {
		if sh := f.objects[s]; sh == nil || !sh.compiled {
			prog.linked = false
		}
	}
}

// ValidateProgram implements gl.API.
func (f *Fake) ValidateProgram(p gl.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ValidateProgram", p)
}

// GetProgrami implements gl.API.
func (f *Fake) GetProgrami(p gl.Object, pname gl.Enum) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetProgrami", p, pname)
	prog := f.lookup(p, KindProgram)
	if prog == nil {
		return 0
	}
	switch pname {
	case gl.LinkStatus, gl.ValidateStatus:
		return boolInt(prog.linked)
	}
	return 0
}

// GetProgramInfoLog implements gl.API.
func (f *Fake) GetProgramInfoLog(p gl.Object) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetProgramInfoLog", p)
	prog := f.lookup(p, KindProgram)
	if prog == nil || prog.linked {
		return ""
	}
	return f.LinkLog
}

// GetUniformLocation implements gl.API. Names starting with "unused" are
// reported inactive; every other name gets a stable location per program.
func (f *Fake) GetUniformLocation(p gl.Object, name string) gl.Uniform {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetUniformLocation", p, name)
	prog := f.lookup(p, KindProgram)
	if prog == nil || !prog.linked || strings.HasPrefix(name, "unused") {
		return gl.NoUniform
	}
	if u, ok := prog.uniforms[name]; ok {
		return u
	}
	u := gl.Uniform(len(prog.uniforms))
	prog.uniforms[name] = u
	return u
}

// GetAttribLocation implements gl.API.
func (f *Fake) GetAttribLocation(p gl.Object, name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetAttribLocation", p, name)
	prog := f.lookup(p, KindProgram)
	if prog == nil || !prog.linked || strings.HasPrefix(name, "unused") {
		return -1
	}
	return len(name) % 8
}

func (f *Fake) setUniform(name string, u gl.Uniform, v ...float32) {
	f.record(name, u)
	if f.program == gl.Null {
		f.pushError(gl.InvalidOperation)
		return
	}
	if u.Valid() {
		f.uniformsV[u] = v
	}
}

// Uniform1i implements gl.API.
func (f *Fake) Uniform1i(u gl.Uniform, v int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setUniform("Uniform1i", u, float32(v))
}

// Uniform1f implements gl.API.
func (f *Fake) Uniform1f(u gl.Uniform, v float32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setUniform("Uniform1f", u, v)
}

// Uniform2f implements gl.API.
func (f *Fake) Uniform2f(u gl.Uniform, v0, v1 float32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setUniform("Uniform2f", u, v0, v1)
}

// Uniform3f implements gl.API.
func (f *Fake) Uniform3f(u gl.Uniform, v0, v1, v2 float32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setUniform("Uniform3f", u, v0, v1, v2)
}

// Uniform4f implements gl.API.
func (f *Fake) Uniform4f(u gl.Uniform, v0, v1, v2, v3 float32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setUniform("Uniform4f", u, v0, v1, v2, v3)
}

// UniformMatrix4fv implements gl.API.
func (f *Fake) UniformMatrix4fv(u gl.Uniform, transpose bool, v []float32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setUniform("UniformMatrix4fv", u, append([]float32(nil), v...)...)
}

func (f *Fake) currentVertexArray() *fakeObject {
	if f.currentVAO == gl.Null {
		return nil
	}
	return f.lookup(f.currentVAO, KindVertexArray)
}

// EnableVertexAttribArray implements gl.API.
func (f *Fake) EnableVertexAttribArray(a gl.Attrib) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("EnableVertexAttribArray", a)
	if va := f.currentVertexArray(); va != nil {
		va.attribs[a] = true
	}
}

// DisableVertexAttribArray implements gl.API.
func (f *Fake) DisableVertexAttribArray(a gl.Attrib) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DisableVertexAttribArray", a)
	if va := f.currentVertexArray(); va != nil {
		va.attribs[a] = false
	}
}

// VertexAttribPointer implements gl.API.
func (f *Fake) VertexAttribPointer(a gl.Attrib, size int, typ gl.Enum, normalized bool, stride, offset int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("VertexAttribPointer", a, size, typ, normalized, stride, offset)
	if f.bindings[bindKey{gl.ArrayBufferBinding, 0}] == gl.Null {
		f.pushError(gl.InvalidOperation)
	}
}

// FenceSync implements gl.API.
func (f *Fake) FenceSync(condition, flags gl.Enum) gl.Object {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.create("FenceSync", KindSync)
	if o.Valid() {
		f.objects[o].pending = f.SyncPolls
	}
	return o
}

// ClientWaitSync implements gl.API.
func (f *Fake) ClientWaitSync(s gl.Object, flags gl.Enum, timeout uint64) gl.Enum {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ClientWaitSync", s, flags, timeout)
	obj := f.lookup(s, KindSync)
	if obj == nil {
		return gl.WaitFailed
	}
	if obj.pending > 0 {
		obj.pending--
		return gl.TimeoutExpired
	}
	return gl.AlreadySignaled
}

// DeleteSync implements gl.API.
func (f *Fake) DeleteSync(s gl.Object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markDeleted("DeleteSync", s, KindSync)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
