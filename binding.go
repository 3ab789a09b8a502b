package gles

import (
	"log/slog"

	"github.com/gogpu/gles/gl"
)

// kind is a resource kind with its own binding namespace.
type kind uint8

const (
	kindBuffer kind = iota
	kindIndexedBuffer
	kindTexture
	kindFramebuffer
	kindRenderbuffer
	kindProgram
	kindVertexArray
	numKinds
)

var kindNames = [numKinds]string{
	kindBuffer:        "buffer",
	kindIndexedBuffer: "indexed buffer",
	kindTexture:       "texture",
	kindFramebuffer:   "framebuffer",
	kindRenderbuffer:  "renderbuffer",
	kindProgram:       "program",
	kindVertexArray:   "vertex array",
}

func (k kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return "unknown"
}

// slot is one binding point. index is the texture unit for textures and the
// binding point index for indexed buffers; zero otherwise.
type slot struct {
	target gl.Enum
	index  int
}

// bindingCache mirrors what the native context has bound, per slot.
// A missing entry means "not known yet"; gl.Null is a known empty slot.
type bindingCache struct {
	entries map[slot]gl.Object
}

// change records the value a slot held before a bind, so it can be undone.
type change struct {
	kind kind
	slot slot
	prev gl.Object
}

// canonical folds aliased slots: FRAMEBUFFER reads report the draw binding.
func canonical(k kind, s slot) slot {
	if k == kindFramebuffer && s.target == gl.Framebuffer {
		s.target = gl.DrawFramebuffer
	}
	return s
}

// bound returns the object bound at s, querying the native API only the
// first time s is read.
func (c *Context) bound(k kind, s slot) gl.Object {
	s = canonical(k, s)
	entries := c.caches[k].entries
	o, ok := entries[s]
	if !ok {
		o = c.query(k, s)
		entries[s] = o
		c.logSlot(slog.LevelDebug, "gles: binding loaded", k, s, o)
		return o
	}
	if c.opts.check {
		if native := c.query(k, s); native != o {
			c.stats.mismatches++
			c.logSlot(slog.LevelWarn, "gles: binding cache mismatch", k, s, native,
				slog.Uint64("cached", uint64(o)))
			entries[s] = native
			o = native
		}
	}
	return o
}

func (c *Context) query(k kind, s slot) gl.Object {
	c.stats.queries++
	switch k {
	case kindBuffer:
		return c.api.GetBinding(gl.BufferBinding(s.target))
	case kindIndexedBuffer:
		return c.api.GetBindingi(gl.BufferBinding(s.target), s.index)
	case kindTexture:
		c.loadUnit()
		prev := c.unit
		c.activate(s.index)
		o := c.api.GetBinding(gl.TextureBinding(s.target))
		c.activate(prev)
		return o
	case kindFramebuffer:
		if s.target == gl.ReadFramebuffer {
			return c.api.GetBinding(gl.ReadFramebufferBinding)
		}
		return c.api.GetBinding(gl.DrawFramebufferBinding)
	case kindRenderbuffer:
		return c.api.GetBinding(gl.RenderbufferBinding)
	case kindProgram:
		return c.api.GetBinding(gl.CurrentProgram)
	case kindVertexArray:
		return c.api.GetBinding(gl.VertexArrayBinding)
	}
	return gl.Null
}

// issue performs the native bind for s.
func (c *Context) issue(k kind, s slot, o gl.Object) {
	c.stats.binds++
	switch k {
	case kindBuffer:
		c.api.BindBuffer(s.target, o)
	case kindIndexedBuffer:
		c.api.BindBufferBase(s.target, s.index, o)
	case kindTexture:
		c.activate(s.index)
		c.api.BindTexture(s.target, o)
	case kindFramebuffer:
		c.api.BindFramebuffer(s.target, o)
	case kindRenderbuffer:
		c.api.BindRenderbuffer(s.target, o)
	case kindProgram:
		c.api.UseProgram(o)
	case kindVertexArray:
		c.api.BindVertexArray(o)
	}
	c.logSlot(slog.LevelDebug, "gles: bind", k, s, o)
}

// bind makes o the object bound at s and returns the slot values it
// replaced, oldest first. A bind of the object already cached at s issues no
// native call and returns nil.
//
// Buffers occupy at most one generic target: binding one evicts it from
// every other target it is cached at.
func (c *Context) bind(k kind, s slot, o gl.Object) []change {
	if k == kindFramebuffer && s.target == gl.Framebuffer {
		return c.bindFramebuffer(o)
	}
	prev := c.bound(k, s)
	if prev == o && !c.opts.passThrough {
		c.stats.skipped++
		c.logSlot(slog.LevelDebug, "gles: bind skipped", k, s, o)
		return nil
	}

	var changes []change
	if o != gl.Null && (k == kindBuffer || k == kindIndexedBuffer) {
		changes = c.evict(o, s.target)
	}
	generic := slot{target: s.target}
	var genericPrev gl.Object
	if k == kindIndexedBuffer {
		genericPrev = c.bound(kindBuffer, generic)
	}

	c.issue(k, s, o)
	c.caches[k].entries[s] = o
	changes = append(changes, change{kind: k, slot: s, prev: prev})

	switch k {
	case kindIndexedBuffer:
		// BindBufferBase also sets the generic binding of the target.
		c.caches[kindBuffer].entries[generic] = o
		changes = append(changes, change{kind: kindBuffer, slot: generic, prev: genericPrev})
	case kindVertexArray:
		// The element array binding belongs to the vertex array.
		c.invalidate(kindBuffer, slot{target: gl.ElementArrayBuffer})
	}
	return changes
}

// bindFramebuffer binds o to FRAMEBUFFER, which sets both the draw and the
// read binding.
func (c *Context) bindFramebuffer(o gl.Object) []change {
	draw := slot{target: gl.DrawFramebuffer}
	read := slot{target: gl.ReadFramebuffer}
	prevDraw, prevRead := c.bound(kindFramebuffer, draw), c.bound(kindFramebuffer, read)
	if prevDraw == o && prevRead == o && !c.opts.passThrough {
		c.stats.skipped++
		c.logSlot(slog.LevelDebug, "gles: bind skipped", kindFramebuffer, slot{target: gl.Framebuffer}, o)
		return nil
	}
	c.issue(kindFramebuffer, slot{target: gl.Framebuffer}, o)
	entries := c.caches[kindFramebuffer].entries
	entries[draw] = o
	entries[read] = o
	return []change{
		{kind: kindFramebuffer, slot: draw, prev: prevDraw},
		{kind: kindFramebuffer, slot: read, prev: prevRead},
	}
}

// evict unbinds buffer o from every generic target other than keep.
func (c *Context) evict(o gl.Object, keep gl.Enum) []change {
	var changes []change
	entries := c.caches[kindBuffer].entries
	for s, cur := range entries {
		if cur != o || s.target == keep {
			continue
		}
		c.issue(kindBuffer, s, gl.Null)
		entries[s] = gl.Null
		c.stats.evictions++
		changes = append(changes, change{kind: kindBuffer, slot: s, prev: o})
	}
	return changes
}

// unbind clears s if, and only if, o is what is bound there. For
// FRAMEBUFFER the draw and read bindings are checked one by one, so another
// framebuffer bound to one of them stays.
func (c *Context) unbind(k kind, s slot, o gl.Object) []change {
	if k == kindFramebuffer && s.target == gl.Framebuffer {
		draw := slot{target: gl.DrawFramebuffer}
		read := slot{target: gl.ReadFramebuffer}
		onDraw, onRead := c.bound(k, draw) == o, c.bound(k, read) == o
		switch {
		case onDraw && onRead:
			return c.bindFramebuffer(gl.Null)
		case onDraw:
			return c.bind(k, draw, gl.Null)
		case onRead:
			return c.bind(k, read, gl.Null)
		}
		return nil
	}
	if c.bound(k, s) != o {
		return nil
	}
	return c.bind(k, s, gl.Null)
}

// snapshot returns the current value of every slot a bind at s touches, in
// the form bind returns.
func (c *Context) snapshot(k kind, s slot) []change {
	if k == kindFramebuffer && s.target == gl.Framebuffer {
		draw := slot{target: gl.DrawFramebuffer}
		read := slot{target: gl.ReadFramebuffer}
		return []change{
			{kind: k, slot: draw, prev: c.bound(k, draw)},
			{kind: k, slot: read, prev: c.bound(k, read)},
		}
	}
	return []change{{kind: k, slot: s, prev: c.bound(k, s)}}
}

// restore undoes changes, newest first. Objects deleted in the meantime
// restore as gl.Null, which is what the native context reverted to.
func (c *Context) restore(changes []change) {
	for i := len(changes) - 1; i >= 0; i-- {
		ch := changes[i]
		prev := ch.prev
		if prev != gl.Null && c.isDead(ch.kind, prev) {
			prev = gl.Null
		}
		if ch.kind == kindFramebuffer && i > 0 {
			if p := changes[i-1]; p.kind == kindFramebuffer && p.slot != ch.slot && p.prev == ch.prev {
				c.bind(kindFramebuffer, slot{target: gl.Framebuffer}, prev)
				i--
				continue
			}
		}
		c.bind(ch.kind, ch.slot, prev)
	}
}

// withSlot binds o at s for the duration of fn and restores the previous
// bindings afterwards, also when fn panics. The caller holds the lock.
func (c *Context) withSlot(k kind, s slot, o gl.Object, fn func() error) error {
	unit := c.savedUnit(k)
	changes := c.bind(k, s, o)
	if changes == nil {
		changes = c.snapshot(k, s)
	}
	defer func() {
		c.restore(changes)
		c.restoreUnit(unit)
	}()
	return fn()
}

// savedUnit returns the active texture unit if a bind of kind k can change
// it, and -1 otherwise.
func (c *Context) savedUnit(k kind) int {
	if k != kindTexture {
		return -1
	}
	c.loadUnit()
	return c.unit
}

// restoreUnit makes unit active again unless it is -1.
func (c *Context) restoreUnit(unit int) {
	if unit >= 0 {
		c.activate(unit)
	}
}

// invalidate forgets what is cached at s.
func (c *Context) invalidate(k kind, s slot) {
	if _, ok := c.caches[k].entries[s]; ok {
		delete(c.caches[k].entries, s)
		c.stats.invalidations++
	}
}

// forget mirrors the native "delete unbinds" rule for a deleted object. A
// deleted program stays current until another program is used, so programs
// are left alone.
func (c *Context) forget(k kind, o gl.Object) {
	switch k {
	case kindProgram:
		return
	case kindBuffer:
		c.clearSlots(kindIndexedBuffer, o)
	case kindVertexArray:
		if c.caches[k].entries[slot{target: gl.VertexArrayBinding}] == o {
			c.invalidate(kindBuffer, slot{target: gl.ElementArrayBuffer})
		}
	}
	c.clearSlots(k, o)
}

func (c *Context) clearSlots(k kind, o gl.Object) {
	entries := c.caches[k].entries
	for s, cur := range entries {
		if cur == o {
			entries[s] = gl.Null
		}
	}
}
