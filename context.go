package gles

import (
	"fmt"
	"sync"

	"github.com/gogpu/gles/gl"
)

// Context is one native graphics session: the gl.API it drives plus the
// binding caches mirroring that API's state.
//
// All binding state for a native context must flow through a single Context.
// Code that calls the gl.API directly behind its back must call Invalidate
// afterwards.
//
// A Context must not be copied after creation.
type Context struct {
	api  gl.API
	opts options

	mu sync.Mutex // held per operation when opts.locking

	caches [numKinds]bindingCache
	dead   [numKinds]map[gl.Object]struct{}
	live   [numKinds]int

	unit      int
	unitKnown bool
	unpack    int // UNPACK_ALIGNMENT, 0 until first set
	limits    map[gl.Enum]int

	stats counters
}

// NewContext wraps api. The api must not be nil and must stay current for
// the lifetime of the Context.
//
// Example:
//
//	c := gles.NewContext(webgl.New(canvas))
//	buf, err := gles.NewBuffer(c, gl.ArrayBuffer)
func NewContext(api gl.API, opts ...Option) *Context {
	if api == nil {
		panic("gles: NewContext with nil api")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	c := &Context{api: api, opts: o, limits: make(map[gl.Enum]int)}
	for k := range c.caches {
		c.caches[k].entries = make(map[slot]gl.Object)
		c.dead[k] = make(map[gl.Object]struct{})
	}
	c.log().Info("gles: context created",
		"backend", o.backend,
		"cache", !o.passThrough,
		"locking", o.locking,
		"coherency_check", o.check)
	return c
}

// API returns the native API the Context drives.
func (c *Context) API() gl.API {
	return c.api
}

// Invalidate drops every cached binding and the cached active texture unit.
// The next read of each binding queries the native API again.
func (c *Context) Invalidate() {
	c.lock()
	defer c.unlock()
	for k := range c.caches {
		n := len(c.caches[k].entries)
		clear(c.caches[k].entries)
		c.stats.invalidations += uint64(n)
	}
	c.unitKnown = false
	c.unpack = 0
}

// ActiveUnit returns the active texture unit index.
func (c *Context) ActiveUnit() int {
	c.lock()
	defer c.unlock()
	c.loadUnit()
	return c.unit
}

// MaxTextureUnits reports MAX_COMBINED_TEXTURE_IMAGE_UNITS, queried once.
func (c *Context) MaxTextureUnits() int {
	c.lock()
	defer c.unlock()
	return c.maxTextureUnits()
}

func (c *Context) lock() {
	if c.opts.locking {
		c.mu.Lock()
	}
}

func (c *Context) unlock() {
	if c.opts.locking {
		c.mu.Unlock()
	}
}

func (c *Context) loadUnit() {
	if c.unitKnown {
		return
	}
	c.unit = c.api.GetInteger(gl.ActiveTexture) - int(gl.Texture0)
	c.unitKnown = true
	c.stats.queries++
}

// activate makes unit the active texture unit.
func (c *Context) activate(unit int) {
	c.loadUnit()
	if c.unit == unit {
		return
	}
	c.api.ActiveTexture(gl.Texture0 + gl.Enum(unit))
	c.unit = unit
}

// Minimums guaranteed by OpenGL ES 3.0, used when a query reports nothing.
var minLimits = map[gl.Enum]int{
	gl.MaxCombinedTextureImageUnits: 32,
	gl.MaxColorAttachments:          4,
	gl.MaxDrawBuffers:               4,
	gl.MaxSamples:                   4,
	gl.MaxVertexAttribs:             16,
}

// limit returns an implementation limit, queried once per Context.
func (c *Context) limit(pname gl.Enum) int {
	if v, ok := c.limits[pname]; ok {
		return v
	}
	v := c.api.GetInteger(pname)
	c.stats.queries++
	if v <= 0 {
		v = minLimits[pname]
	}
	c.limits[pname] = v
	return v
}

func (c *Context) maxTextureUnits() int {
	return c.limit(gl.MaxCombinedTextureImageUnits)
}

// checkError reads GetError after op when error checking is enabled.
func (c *Context) checkError(op string) error {
	if !c.opts.errorCheck {
		return nil
	}
	code := c.api.GetError()
	if code == gl.NoError {
		return nil
	}
	return &NativeError{Op: op, Code: code}
}

// create allocates a native object of kind k.
func (c *Context) create(k kind) (gl.Object, error) {
	var h gl.Object
	switch k {
	case kindBuffer:
		h = c.api.CreateBuffer()
	case kindTexture:
		h = c.api.CreateTexture()
	case kindFramebuffer:
		h = c.api.CreateFramebuffer()
	case kindRenderbuffer:
		h = c.api.CreateRenderbuffer()
	case kindProgram:
		h = c.api.CreateProgram()
	case kindVertexArray:
		h = c.api.CreateVertexArray()
	default:
		return gl.Null, fmt.Errorf("%w: create %s", ErrInvalidArgument, k)
	}
	if !h.Valid() {
		return gl.Null, fmt.Errorf("%w: create %s", ErrUnsupported, k)
	}
	c.adopt(k, h)
	return h, nil
}

// adopt records a freshly created handle. GL may recycle names, so a handle
// coming back from a create call is no longer dead.
func (c *Context) adopt(k kind, h gl.Object) {
	delete(c.dead[k], h)
	c.live[k]++
	c.stats.created++
	c.log().Debug("gles: created", "kind", k.String(), "handle", uint32(h))
}

// destroy releases a native object and clears every cached slot holding it.
func (c *Context) destroy(k kind, h gl.Object) {
	switch k {
	case kindBuffer:
		c.api.DeleteBuffer(h)
	case kindTexture:
		c.api.DeleteTexture(h)
	case kindFramebuffer:
		c.api.DeleteFramebuffer(h)
	case kindRenderbuffer:
		c.api.DeleteRenderbuffer(h)
	case kindProgram:
		c.api.DeleteProgram(h)
	case kindVertexArray:
		c.api.DeleteVertexArray(h)
	}
	c.forget(k, h)
	c.dead[k][h] = struct{}{}
	c.live[k]--
	c.stats.deleted++
	c.log().Debug("gles: deleted", "kind", k.String(), "handle", uint32(h))
}

func (c *Context) isDead(k kind, h gl.Object) bool {
	if k == kindIndexedBuffer {
		k = kindBuffer
	}
	_, ok := c.dead[k][h]
	return ok
}
