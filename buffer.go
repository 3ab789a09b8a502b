package gles

import (
	"context"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/gles/gl"
)

// Buffer is a native buffer object. A buffer is bound to one generic target
// at a time; SetTarget moves it. Indexed bindings made with BindBase are not
// generic targets and survive both SetTarget and binding elsewhere.
type Buffer struct {
	object
	size  int
	usage gl.Enum
}

func isBufferTarget(t gl.Enum) bool {
	return gl.BufferBinding(t) != 0
}

// NewBuffer creates a buffer that binds to target.
func NewBuffer(c *Context, target gl.Enum) (*Buffer, error) {
	if !isBufferTarget(target) {
		return nil, fmt.Errorf("%w: buffer target %s", ErrInvalidArgument, target)
	}
	c.lock()
	defer c.unlock()
	h, err := c.create(kindBuffer)
	if err != nil {
		return nil, err
	}
	return &Buffer{
		object: object{ctx: c, kind: kindBuffer, handle: h, target: target},
		usage:  gl.StaticDraw,
	}, nil
}

// NewBufferFor creates a buffer whose target and usage hint suit usage:
// Index buffers bind to ELEMENT_ARRAY_BUFFER, Uniform to UNIFORM_BUFFER,
// MapRead to PIXEL_PACK_BUFFER with a STREAM_READ hint, and so on.
func NewBufferFor(c *Context, usage gputypes.BufferUsage) (*Buffer, error) {
	target, hint := bufferTargetFor(usage)
	b, err := NewBuffer(c, target)
	if err != nil {
		return nil, err
	}
	b.usage = hint
	return b, nil
}

// Size returns the size of the data store in bytes.
func (b *Buffer) Size() int {
	b.ctx.lock()
	defer b.ctx.unlock()
	return b.size
}

// Usage returns the usage hint of the data store.
func (b *Buffer) Usage() gl.Enum {
	b.ctx.lock()
	defer b.ctx.unlock()
	return b.usage
}

// SetTarget moves the buffer to target. If the buffer is bound to its old
// target it is unbound there first.
func (b *Buffer) SetTarget(target gl.Enum) error {
	if !isBufferTarget(target) {
		return fmt.Errorf("%w: buffer target %s", ErrInvalidArgument, target)
	}
	b.ctx.lock()
	defer b.ctx.unlock()
	if err := b.usable(); err != nil {
		return err
	}
	b.retarget(target)
	return nil
}

// SetData replaces the data store with a copy of data.
// A zero usage keeps the current hint.
func (b *Buffer) SetData(data []byte, usage gl.Enum) error {
	return b.store(len(data), data, usage)
}

// Allocate replaces the data store with size uninitialized bytes.
func (b *Buffer) Allocate(size int, usage gl.Enum) error {
	if size < 0 {
		return fmt.Errorf("%w: buffer size %d", ErrInvalidArgument, size)
	}
	return b.store(size, nil, usage)
}

func (b *Buffer) store(size int, data []byte, usage gl.Enum) error {
	c := b.ctx
	c.lock()
	defer c.unlock()
	if usage == 0 {
		usage = b.usage
	}
	if err := b.bindLocked(); err != nil {
		return err
	}
	c.api.BufferData(b.target, size, data, usage)
	if err := c.checkError("BufferData"); err != nil {
		return err
	}
	b.size = size
	b.usage = usage
	return nil
}

// SetSubData writes data at offset. The range must lie inside the store.
func (b *Buffer) SetSubData(offset int, data []byte) error {
	c := b.ctx
	c.lock()
	defer c.unlock()
	if err := b.usable(); err != nil {
		return err
	}
	if err := checkRange(offset, len(data), b.size); err != nil {
		return fmt.Errorf("buffer sub data: %w", err)
	}
	if err := b.bindLocked(); err != nil {
		return err
	}
	c.api.BufferSubData(b.target, offset, data)
	return c.checkError("BufferSubData")
}

// CopyFrom copies size bytes from src at srcOffset into b at dstOffset
// through the COPY_READ_BUFFER and COPY_WRITE_BUFFER targets. Both buffers
// return to their own targets afterwards.
func (b *Buffer) CopyFrom(src *Buffer, srcOffset, dstOffset, size int) error {
	c := b.ctx
	c.lock()
	defer c.unlock()
	if err := b.usable(); err != nil {
		return err
	}
	if err := b.sameContext(&src.object); err != nil {
		return err
	}
	if err := checkRange(srcOffset, size, src.size); err != nil {
		return fmt.Errorf("buffer copy source: %w", err)
	}
	if err := checkRange(dstOffset, size, b.size); err != nil {
		return fmt.Errorf("buffer copy destination: %w", err)
	}

	readSlot := slot{target: gl.CopyReadBuffer}
	writeSlot := slot{target: gl.CopyWriteBuffer}
	return c.withSlot(kindBuffer, readSlot, src.handle, func() error {
		if src.handle == b.handle {
			// A buffer copying onto itself reads and writes one binding.
			c.api.CopyBufferSubData(gl.CopyReadBuffer, gl.CopyReadBuffer, srcOffset, dstOffset, size)
			return c.checkError("CopyBufferSubData")
		}
		return c.withSlot(kindBuffer, writeSlot, b.handle, func() error {
			c.api.CopyBufferSubData(gl.CopyReadBuffer, gl.CopyWriteBuffer, srcOffset, dstOffset, size)
			return c.checkError("CopyBufferSubData")
		})
	})
}

// ReadSubData reads len(dst) bytes at offset into dst.
func (b *Buffer) ReadSubData(offset int, dst []byte) error {
	c := b.ctx
	c.lock()
	defer c.unlock()
	if err := b.usable(); err != nil {
		return err
	}
	if err := checkRange(offset, len(dst), b.size); err != nil {
		return fmt.Errorf("buffer read: %w", err)
	}
	if err := b.bindLocked(); err != nil {
		return err
	}
	c.api.GetBufferSubData(b.target, offset, dst)
	return c.checkError("GetBufferSubData")
}

// ReadSubDataAfter waits for f to signal, then reads like ReadSubData.
// The fence is deleted once it has signaled. A nil fence reads immediately.
func (b *Buffer) ReadSubDataAfter(ctx context.Context, f *Fence, offset int, dst []byte) error {
	if f != nil {
		if err := f.Wait(ctx); err != nil {
			return err
		}
		if err := f.Delete(); err != nil {
			return err
		}
	}
	return b.ReadSubData(offset, dst)
}

// BindBase binds the buffer to binding point index of its target, which
// must be UNIFORM_BUFFER or TRANSFORM_FEEDBACK_BUFFER. Like the native call,
// it also sets the generic binding of the target.
func (b *Buffer) BindBase(index int) error {
	c := b.ctx
	c.lock()
	defer c.unlock()
	if err := b.checkIndexed(index); err != nil {
		return err
	}
	c.bind(kindIndexedBuffer, slot{target: b.target, index: index}, b.handle)
	return nil
}

// UnbindBase clears binding point index if the buffer is bound there.
func (b *Buffer) UnbindBase(index int) error {
	c := b.ctx
	c.lock()
	defer c.unlock()
	if err := b.checkIndexed(index); err != nil {
		return err
	}
	c.unbind(kindIndexedBuffer, slot{target: b.target, index: index}, b.handle)
	return nil
}

func (b *Buffer) checkIndexed(index int) error {
	if err := b.usable(); err != nil {
		return err
	}
	if b.target != gl.UniformBuffer && b.target != gl.TransformFeedbackBuffer {
		return fmt.Errorf("%w: indexed binding on %s", ErrInvalidArgument, b.target)
	}
	if index < 0 {
		return fmt.Errorf("%w: binding point %d", ErrInvalidArgument, index)
	}
	return nil
}

// checkRange reports ErrRange unless [offset, offset+n) lies within [0, size).
func checkRange(offset, n, size int) error {
	if offset < 0 || n < 0 || offset > size || n > size-offset {
		return fmt.Errorf("%w: [%d, %d) outside [0, %d)", ErrRange, offset, offset+n, size)
	}
	return nil
}
