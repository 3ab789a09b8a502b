package gles

import (
	"fmt"
	"image"
	"slices"

	"github.com/gogpu/gles/gl"
)

// Attachment is what a framebuffer attachment point can hold: a
// RenderbufferAttachment, a TextureAttachment or a LayerAttachment.
type Attachment interface {
	attachment()
}

// RenderbufferAttachment attaches a whole renderbuffer.
type RenderbufferAttachment struct {
	Renderbuffer *Renderbuffer
}

// TextureAttachment attaches one mip level of a 2D texture, or of one face
// (0..5) of a cube map.
type TextureAttachment struct {
	Texture *Texture
	Level   int
	Face    int
}

// LayerAttachment attaches one layer of a mip level of a 3D texture or 2D
// array.
type LayerAttachment struct {
	Texture *Texture
	Level   int
	Layer   int
}

func (RenderbufferAttachment) attachment() {}
func (TextureAttachment) attachment()      {}
func (LayerAttachment) attachment()        {}

// Framebuffer is a native framebuffer object. It records which resource
// occupies each attachment point but does not own those resources.
type Framebuffer struct {
	object
	attachments map[gl.Enum]Attachment
	drawBuffers []gl.Enum
}

func isFramebufferTarget(t gl.Enum) bool {
	return t == gl.Framebuffer || t == gl.DrawFramebuffer || t == gl.ReadFramebuffer
}

// NewFramebuffer creates a framebuffer that binds to target: FRAMEBUFFER,
// DRAW_FRAMEBUFFER or READ_FRAMEBUFFER.
func NewFramebuffer(c *Context, target gl.Enum) (*Framebuffer, error) {
	if !isFramebufferTarget(target) {
		return nil, fmt.Errorf("%w: framebuffer target %s", ErrInvalidArgument, target)
	}
	c.lock()
	defer c.unlock()
	h, err := c.create(kindFramebuffer)
	if err != nil {
		return nil, err
	}
	return &Framebuffer{
		object:      object{ctx: c, kind: kindFramebuffer, handle: h, target: target},
		attachments: make(map[gl.Enum]Attachment),
	}, nil
}

// BindDefaultFramebuffer binds the window-system framebuffer to FRAMEBUFFER.
func (c *Context) BindDefaultFramebuffer() {
	c.lock()
	defer c.unlock()
	c.bind(kindFramebuffer, slot{target: gl.Framebuffer}, gl.Null)
}

// SetTarget moves the framebuffer to target, unbinding it from the old one
// first if it is bound there.
func (f *Framebuffer) SetTarget(target gl.Enum) error {
	if !isFramebufferTarget(target) {
		return fmt.Errorf("%w: framebuffer target %s", ErrInvalidArgument, target)
	}
	f.ctx.lock()
	defer f.ctx.unlock()
	if err := f.usable(); err != nil {
		return err
	}
	f.retarget(target)
	return nil
}

// attachTarget is the target attachment calls are made through. A read-only
// framebuffer binding still accepts attachments.
func (f *Framebuffer) attachTarget() gl.Enum {
	if f.target == gl.Framebuffer {
		return gl.DrawFramebuffer
	}
	return f.target
}

func (f *Framebuffer) checkPoint(point gl.Enum) error {
	switch point {
	case gl.DepthAttachment, gl.StencilAttachment, gl.DepthStencilAttachment:
		return nil
	}
	if gl.IsColorAttachment(point) {
		if i := int(point - gl.ColorAttachment0); i < f.ctx.limit(gl.MaxColorAttachments) {
			return nil
		}
	}
	return fmt.Errorf("%w: attachment point %s", ErrInvalidArgument, point)
}

// Attach puts a at point, replacing what was there. Attaching at
// DEPTH_STENCIL_ATTACHMENT also occupies DEPTH and STENCIL.
//
// Whether a's format suits point is left to the native layer.
func (f *Framebuffer) Attach(point gl.Enum, a Attachment) error {
	c := f.ctx
	c.lock()
	defer c.unlock()
	if err := f.usable(); err != nil {
		return err
	}
	if err := f.checkPoint(point); err != nil {
		return err
	}

	target := f.attachTarget()
	var issue func()
	switch a := a.(type) {
	case RenderbufferAttachment:
		if a.Renderbuffer == nil {
			return fmt.Errorf("%w: nil renderbuffer", ErrInvalidArgument)
		}
		if err := f.sameContext(&a.Renderbuffer.object); err != nil {
			return err
		}
		issue = func() {
			c.api.FramebufferRenderbuffer(target, point, gl.Renderbuffer, a.Renderbuffer.handle)
		}
	case TextureAttachment:
		t := a.Texture
		if t == nil {
			return fmt.Errorf("%w: nil texture", ErrInvalidArgument)
		}
		if err := f.sameContext(&t.object); err != nil {
			return err
		}
		texTarget := t.target
		switch t.target {
		case gl.Texture2D:
		case gl.TextureCubeMap:
			if a.Face < 0 || a.Face > 5 {
				return fmt.Errorf("%w: cube face %d", ErrInvalidArgument, a.Face)
			}
			texTarget = gl.CubeFace(a.Face)
		default:
			return fmt.Errorf("%w: texture attachment of %s, use LayerAttachment", ErrInvalidArgument, t.target)
		}
		if a.Level < 0 {
			return fmt.Errorf("%w: level %d", ErrInvalidArgument, a.Level)
		}
		issue = func() {
			c.api.FramebufferTexture2D(target, point, texTarget, t.handle, a.Level)
		}
	case LayerAttachment:
		t := a.Texture
		if t == nil {
			return fmt.Errorf("%w: nil texture", ErrInvalidArgument)
		}
		if err := f.sameContext(&t.object); err != nil {
			return err
		}
		if t.target != gl.Texture3D && t.target != gl.Texture2DArray {
			return fmt.Errorf("%w: layer attachment of %s", ErrInvalidArgument, t.target)
		}
		if a.Level < 0 || a.Layer < 0 {
			return fmt.Errorf("%w: level %d layer %d", ErrInvalidArgument, a.Level, a.Layer)
		}
		if e, ok := t.levels[levelKey{level: a.Level}]; ok && a.Layer >= int(e.DepthOrArrayLayers) {
			return fmt.Errorf("%w: layer %d of %d", ErrRange, a.Layer, e.DepthOrArrayLayers)
		}
		issue = func() {
			c.api.FramebufferTextureLayer(target, point, t.handle, a.Level, a.Layer)
		}
	default:
		return fmt.Errorf("%w: attachment %T", ErrInvalidArgument, a)
	}

	if err := f.bindForAttach(); err != nil {
		return err
	}
	issue()
	if err := c.checkError("attach"); err != nil {
		return err
	}
	f.setAttachment(point, a)
	return nil
}

// Detach empties point.
func (f *Framebuffer) Detach(point gl.Enum) error {
	c := f.ctx
	c.lock()
	defer c.unlock()
	if err := f.usable(); err != nil {
		return err
	}
	if err := f.checkPoint(point); err != nil {
		return err
	}
	if err := f.bindForAttach(); err != nil {
		return err
	}
	c.api.FramebufferRenderbuffer(f.attachTarget(), point, gl.Renderbuffer, gl.Null)
	if err := c.checkError("detach"); err != nil {
		return err
	}
	f.setAttachment(point, nil)
	return nil
}

// bindForAttach binds the framebuffer where attachment calls will find it.
func (f *Framebuffer) bindForAttach() error {
	if err := f.usable(); err != nil {
		return err
	}
	f.ctx.bind(kindFramebuffer, f.slot(), f.handle)
	return nil
}

// setAttachment records a at point; nil clears it.
func (f *Framebuffer) setAttachment(point gl.Enum, a Attachment) {
	set := func(p gl.Enum) {
		if a == nil {
			delete(f.attachments, p)
		} else {
			f.attachments[p] = a
		}
	}
	switch point {
	case gl.DepthStencilAttachment:
		set(gl.DepthAttachment)
		set(gl.StencilAttachment)
	case gl.DepthAttachment, gl.StencilAttachment:
		// The combined entry no longer describes both halves.
		delete(f.attachments, gl.DepthStencilAttachment)
	}
	set(point)
}

// Attachment returns what occupies point.
func (f *Framebuffer) Attachment(point gl.Enum) (Attachment, bool) {
	f.ctx.lock()
	defer f.ctx.unlock()
	a, ok := f.attachments[point]
	return a, ok
}

// Points returns the occupied attachment points in ascending order.
func (f *Framebuffer) Points() []gl.Enum {
	f.ctx.lock()
	defer f.ctx.unlock()
	points := make([]gl.Enum, 0, len(f.attachments))
	for p := range f.attachments {
		points = append(points, p)
	}
	slices.Sort(points)
	return points
}

// Status returns the native completeness status.
func (f *Framebuffer) Status() (gl.Enum, error) {
	c := f.ctx
	c.lock()
	defer c.unlock()
	if err := f.bindForAttach(); err != nil {
		return 0, err
	}
	return c.api.CheckFramebufferStatus(f.attachTarget()), nil
}

// Check returns ErrIncompleteFramebuffer, wrapped with the status, unless
// the framebuffer is complete.
func (f *Framebuffer) Check() error {
	status, err := f.Status()
	if err != nil {
		return err
	}
	if status != gl.FramebufferComplete {
		return fmt.Errorf("%w: %s", ErrIncompleteFramebuffer, status)
	}
	return nil
}

// SetDrawBuffers selects the color attachments fragment outputs write to.
// Entry i must be COLOR_ATTACHMENTi or NONE. The framebuffer is bound as
// the draw framebuffer for the call and the previous binding restored.
func (f *Framebuffer) SetDrawBuffers(bufs ...gl.Enum) error {
	c := f.ctx
	c.lock()
	defer c.unlock()
	if err := f.usable(); err != nil {
		return err
	}
	if n := c.limit(gl.MaxDrawBuffers); len(bufs) > n {
		return fmt.Errorf("%w: %d draw buffers, at most %d", ErrInvalidArgument, len(bufs), n)
	}
	for i, b := range bufs {
		if b != gl.None && b != gl.ColorAttachment(i) {
			return fmt.Errorf("%w: draw buffer %d is %s", ErrInvalidArgument, i, b)
		}
	}
	if f.drawBuffers != nil && slices.Equal(f.drawBuffers, bufs) {
		return nil
	}
	err := c.withSlot(kindFramebuffer, slot{target: gl.DrawFramebuffer}, f.handle, func() error {
		c.api.DrawBuffers(bufs)
		return c.checkError("DrawBuffers")
	})
	if err != nil {
		return err
	}
	f.drawBuffers = slices.Clone(bufs)
	return nil
}

// DrawBuffers returns the draw buffers last set with SetDrawBuffers.
func (f *Framebuffer) DrawBuffers() []gl.Enum {
	f.ctx.lock()
	defer f.ctx.unlock()
	return slices.Clone(f.drawBuffers)
}

// BlitTo copies src of this framebuffer into dst of target, or of the
// default framebuffer when target is nil. mask selects color, depth and
// stencil; depth and stencil blits require NEAREST filtering. Framebuffer
// bindings are restored afterwards.
func (f *Framebuffer) BlitTo(target *Framebuffer, src, dst image.Rectangle, mask, filter gl.Enum) error {
	const all = gl.ColorBufferBit | gl.DepthBufferBit | gl.StencilBufferBit
	if mask == 0 || mask&^all != 0 {
		return fmt.Errorf("%w: blit mask %#x", ErrInvalidArgument, uint32(mask))
	}
	if filter != gl.Nearest && filter != gl.Linear {
		return fmt.Errorf("%w: blit filter %s", ErrInvalidArgument, filter)
	}
	if filter == gl.Linear && mask&(gl.DepthBufferBit|gl.StencilBufferBit) != 0 {
		return fmt.Errorf("%w: depth or stencil blit with LINEAR", ErrInvalidArgument)
	}
	c := f.ctx
	c.lock()
	defer c.unlock()
	if err := f.usable(); err != nil {
		return err
	}
	dstHandle := gl.Null
	if target != nil {
		if err := f.sameContext(&target.object); err != nil {
			return err
		}
		dstHandle = target.handle
	}
	if w, h, ok := f.sizeLocked(); ok && !src.In(image.Rect(0, 0, w, h)) {
		return fmt.Errorf("%w: blit source %v outside %dx%d", ErrRange, src, w, h)
	}
	return c.withSlot(kindFramebuffer, slot{target: gl.ReadFramebuffer}, f.handle, func() error {
		return c.withSlot(kindFramebuffer, slot{target: gl.DrawFramebuffer}, dstHandle, func() error {
			c.api.BlitFramebuffer(src.Min.X, src.Min.Y, src.Max.X, src.Max.Y,
				dst.Min.X, dst.Min.Y, dst.Max.X, dst.Max.Y, mask, filter)
			return c.checkError("BlitFramebuffer")
		})
	})
}

// Size returns the largest area all attachments cover; ok is false when no
// attachment has a known size.
func (f *Framebuffer) Size() (width, height int, ok bool) {
	f.ctx.lock()
	defer f.ctx.unlock()
	return f.sizeLocked()
}

func (f *Framebuffer) sizeLocked() (width, height int, ok bool) {
	for _, a := range f.attachments {
		w, h, known := attachmentSize(a)
		if !known {
			continue
		}
		if !ok || w < width {
			width = w
		}
		if !ok || h < height {
			height = h
		}
		ok = true
	}
	return width, height, ok
}

func attachmentSize(a Attachment) (w, h int, ok bool) {
	switch a := a.(type) {
	case RenderbufferAttachment:
		r := a.Renderbuffer
		return r.width, r.height, r.hasData
	case TextureAttachment:
		face := 0
		if a.Texture.target == gl.TextureCubeMap {
			face = a.Face + 1
		}
		e, ok := a.Texture.levels[levelKey{face: face, level: a.Level}]
		return int(e.Width), int(e.Height), ok
	case LayerAttachment:
		e, ok := a.Texture.levels[levelKey{level: a.Level}]
		return int(e.Width), int(e.Height), ok
	}
	return 0, 0, false
}
