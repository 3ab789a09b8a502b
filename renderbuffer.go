package gles

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/gles/gl"
)

// Renderbuffer is a native renderbuffer, an image that can only be rendered
// to, never sampled.
type Renderbuffer struct {
	object
	format  gputypes.TextureFormat
	pixel   PixelFormat
	width   int
	height  int
	samples int
	hasData bool
}

// NewRenderbuffer creates a renderbuffer without storage.
func NewRenderbuffer(c *Context) (*Renderbuffer, error) {
	c.lock()
	defer c.unlock()
	h, err := c.create(kindRenderbuffer)
	if err != nil {
		return nil, err
	}
	return &Renderbuffer{
		object: object{ctx: c, kind: kindRenderbuffer, handle: h, target: gl.Renderbuffer},
	}, nil
}

// Storage allocates width x height storage in format. samples > 0 allocates
// multisampled storage, capped by MAX_SAMPLES.
func (r *Renderbuffer) Storage(format gputypes.TextureFormat, width, height, samples int) error {
	pf, err := LookupFormat(format)
	if err != nil {
		return err
	}
	if width <= 0 || height <= 0 || samples < 0 {
		return fmt.Errorf("%w: renderbuffer %dx%d, %d samples", ErrInvalidArgument, width, height, samples)
	}
	c := r.ctx
	c.lock()
	defer c.unlock()
	if err := r.bindLocked(); err != nil {
		return err
	}
	if samples > 0 {
		if maxSamples := c.limit(gl.MaxSamples); samples > maxSamples {
			return fmt.Errorf("%w: %d samples, at most %d", ErrInvalidArgument, samples, maxSamples)
		}
		c.api.RenderbufferStorageMultisample(gl.Renderbuffer, samples, pf.Internal, width, height)
	} else {
		c.api.RenderbufferStorage(gl.Renderbuffer, pf.Internal, width, height)
	}
	if err := c.checkError("RenderbufferStorage"); err != nil {
		return err
	}
	r.format, r.pixel = format, pf
	r.width, r.height, r.samples = width, height, samples
	r.hasData = true
	return nil
}

// Size returns the storage size; ok is false before Storage.
func (r *Renderbuffer) Size() (width, height int, ok bool) {
	r.ctx.lock()
	defer r.ctx.unlock()
	return r.width, r.height, r.hasData
}

// Format returns the storage format.
func (r *Renderbuffer) Format() gputypes.TextureFormat {
	r.ctx.lock()
	defer r.ctx.unlock()
	return r.format
}

// Samples returns the sample count, 0 for single-sampled storage.
func (r *Renderbuffer) Samples() int {
	r.ctx.lock()
	defer r.ctx.unlock()
	return r.samples
}
