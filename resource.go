package gles

import (
	"fmt"

	"github.com/gogpu/gles/gl"
)

// Bindable is implemented by every resource type of this package.
type Bindable interface {
	// Handle returns the native object name.
	Handle() gl.Object

	// Target returns the binding target the resource binds to.
	Target() gl.Enum

	// Bind binds the resource to its target. Binding the resource that is
	// already bound issues no native call.
	Bind() error

	// Unbind clears the resource's target if the resource is bound there,
	// and does nothing otherwise.
	Unbind() error

	// Delete releases the native object. The resource is unusable afterwards.
	Delete() error

	// Live reports whether Delete has not been called.
	Live() bool

	base() *object
}

// object is the state shared by all resource kinds.
type object struct {
	ctx     *Context
	kind    kind
	handle  gl.Object
	target  gl.Enum
	index   int
	deleted bool
}

func (o *object) base() *object { return o }

// Handle returns the native object name.
func (o *object) Handle() gl.Object { return o.handle }

// Target returns the binding target.
func (o *object) Target() gl.Enum { return o.target }

// Context returns the Context that created the resource.
func (o *object) Context() *Context { return o.ctx }

// Live reports whether the resource has not been deleted.
func (o *object) Live() bool {
	o.ctx.lock()
	defer o.ctx.unlock()
	return !o.deleted
}

func (o *object) slot() slot {
	return slot{target: o.target, index: o.index}
}

// usable reports ErrDeleted for a deleted resource. The caller holds the lock.
func (o *object) usable() error {
	if o.deleted {
		return fmt.Errorf("%w: %s %d", ErrDeleted, o.kind, o.handle)
	}
	return nil
}

// sameContext checks that other was created by the Context of o.
func (o *object) sameContext(other *object) error {
	if other.ctx != o.ctx {
		return fmt.Errorf("%w: %s %d", ErrForeignContext, other.kind, other.handle)
	}
	return other.usable()
}

// Bind binds the resource to its target.
func (o *object) Bind() error {
	o.ctx.lock()
	defer o.ctx.unlock()
	if err := o.usable(); err != nil {
		return err
	}
	o.ctx.bind(o.kind, o.slot(), o.handle)
	return nil
}

// Unbind clears the resource's target if the resource is bound there.
func (o *object) Unbind() error {
	o.ctx.lock()
	defer o.ctx.unlock()
	if err := o.usable(); err != nil {
		return err
	}
	o.ctx.unbind(o.kind, o.slot(), o.handle)
	return nil
}

// Bound reports whether the resource is what its target currently holds.
func (o *object) Bound() bool {
	o.ctx.lock()
	defer o.ctx.unlock()
	return !o.deleted && o.ctx.bound(o.kind, o.slot()) == o.handle
}

// Delete releases the native object and clears every binding holding it.
func (o *object) Delete() error {
	o.ctx.lock()
	defer o.ctx.unlock()
	if err := o.usable(); err != nil {
		return err
	}
	o.ctx.destroy(o.kind, o.handle)
	o.deleted = true
	return nil
}

// retarget moves the resource to a new target, unbinding it from the old one
// first. The caller holds the lock.
func (o *object) retarget(target gl.Enum) {
	if target == o.target {
		return
	}
	o.ctx.unbind(o.kind, o.slot(), o.handle)
	o.target = target
}

// bindLocked binds the resource for a following native call. The caller
// holds the lock.
func (o *object) bindLocked() error {
	if err := o.usable(); err != nil {
		return err
	}
	o.ctx.bind(o.kind, o.slot(), o.handle)
	return nil
}

// With binds r, runs fn and then restores whatever r's target held before,
// including bindings fn made to that target. Restoration also happens when
// fn panics. Calls nest: each captures its own previous state.
//
// With a locking Context the lock is released while fn runs.
//
// Example:
//
//	err := gles.With(tex, func(t *gles.Texture) error {
//	    return t.SetSubImage(0, 0, 0, 16, 16, pixels)
//	})
func With[R Bindable](r R, fn func(R) error) error {
	_, err := WithResult(r, func(r R) (struct{}, error) {
		return struct{}{}, fn(r)
	})
	return err
}

// WithResult is With for functions returning a value.
func WithResult[R Bindable, T any](r R, fn func(R) (T, error)) (T, error) {
	o := r.base()
	c := o.ctx

	c.lock()
	if err := o.usable(); err != nil {
		c.unlock()
		var zero T
		return zero, err
	}
	s := o.slot()
	unit := c.savedUnit(o.kind)
	changes := c.bind(o.kind, s, o.handle)
	if changes == nil {
		changes = c.snapshot(o.kind, s)
	}
	c.unlock()

	defer func() {
		c.lock()
		defer c.unlock()
		c.restore(changes)
		c.restoreUnit(unit)
	}()
	return fn(r)
}
