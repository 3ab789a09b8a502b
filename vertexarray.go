package gles

import (
	"fmt"

	"github.com/gogpu/gles/gl"
)

// VertexAttribute describes where one vertex attribute reads its data.
type VertexAttribute struct {
	Buffer     *Buffer
	Size       int // components, 1 to 4
	Type       gl.Enum
	Normalized bool
	Stride     int
	Offset     int
}

// VertexArray is a native vertex array object. It owns the attribute layout
// and the element array binding; binding a different vertex array switches
// both.
type VertexArray struct {
	object
	attribs map[gl.Attrib]VertexAttribute
	indices *Buffer
}

// NewVertexArray creates an empty vertex array.
func NewVertexArray(c *Context) (*VertexArray, error) {
	c.lock()
	defer c.unlock()
	h, err := c.create(kindVertexArray)
	if err != nil {
		return nil, err
	}
	return &VertexArray{
		object:  object{ctx: c, kind: kindVertexArray, handle: h, target: gl.VertexArrayBinding},
		attribs: make(map[gl.Attrib]VertexAttribute),
	}, nil
}

// SetAttribute points attribute a at attr.Buffer and enables it. The vertex
// array and the ARRAY_BUFFER binding are restored afterwards.
func (v *VertexArray) SetAttribute(a gl.Attrib, attr VertexAttribute) error {
	if attr.Buffer == nil {
		return fmt.Errorf("%w: attribute %d without buffer", ErrInvalidArgument, a)
	}
	if attr.Size < 1 || attr.Size > 4 || attr.Stride < 0 || attr.Offset < 0 {
		return fmt.Errorf("%w: attribute %d size %d stride %d offset %d",
			ErrInvalidArgument, a, attr.Size, attr.Stride, attr.Offset)
	}
	c := v.ctx
	c.lock()
	defer c.unlock()
	if err := v.usable(); err != nil {
		return err
	}
	if err := v.sameContext(&attr.Buffer.object); err != nil {
		return err
	}
	if n := c.limit(gl.MaxVertexAttribs); int(a) >= n {
		return fmt.Errorf("%w: attribute %d, at most %d", ErrRange, a, n)
	}
	err := c.withSlot(kindVertexArray, v.slot(), v.handle, func() error {
		return c.withSlot(kindBuffer, slot{target: gl.ArrayBuffer}, attr.Buffer.handle, func() error {
			c.api.VertexAttribPointer(a, attr.Size, attr.Type, attr.Normalized, attr.Stride, attr.Offset)
			c.api.EnableVertexAttribArray(a)
			return c.checkError("VertexAttribPointer")
		})
	})
	if err != nil {
		return err
	}
	v.attribs[a] = attr
	return nil
}

// DisableAttribute disables attribute a.
func (v *VertexArray) DisableAttribute(a gl.Attrib) error {
	c := v.ctx
	c.lock()
	defer c.unlock()
	if err := v.usable(); err != nil {
		return err
	}
	if _, ok := v.attribs[a]; !ok {
		return nil
	}
	err := c.withSlot(kindVertexArray, v.slot(), v.handle, func() error {
		c.api.DisableVertexAttribArray(a)
		return c.checkError("DisableVertexAttribArray")
	})
	if err != nil {
		return err
	}
	delete(v.attribs, a)
	return nil
}

// Attribute returns the layout of an enabled attribute.
func (v *VertexArray) Attribute(a gl.Attrib) (VertexAttribute, bool) {
	v.ctx.lock()
	defer v.ctx.unlock()
	attr, ok := v.attribs[a]
	return attr, ok
}

// SetIndexBuffer records buf as the element array of the vertex array. buf
// is moved to ELEMENT_ARRAY_BUFFER. A nil buf clears the element array.
func (v *VertexArray) SetIndexBuffer(buf *Buffer) error {
	c := v.ctx
	c.lock()
	defer c.unlock()
	if err := v.usable(); err != nil {
		return err
	}
	h := gl.Null
	if buf != nil {
		if err := v.sameContext(&buf.object); err != nil {
			return err
		}
		buf.retarget(gl.ElementArrayBuffer)
		h = buf.handle
	}
	err := c.withSlot(kindVertexArray, v.slot(), v.handle, func() error {
		// Not restored: the element binding is part of the vertex array.
		c.bind(kindBuffer, slot{target: gl.ElementArrayBuffer}, h)
		return c.checkError("BindBuffer")
	})
	if err != nil {
		return err
	}
	v.indices = buf
	return nil
}

// IndexBuffer returns the element array buffer, or nil.
func (v *VertexArray) IndexBuffer() *Buffer {
	v.ctx.lock()
	defer v.ctx.unlock()
	return v.indices
}
