package gles

import (
	"context"
	"fmt"
	"time"

	"github.com/gogpu/gles/gl"
)

// fencePoll is the interval between non-blocking fence polls.
const fencePoll = time.Millisecond

// Fence is a native sync object inserted into the command stream. It has no
// binding target.
type Fence struct {
	ctx      *Context
	handle   gl.Object
	signaled bool
	deleted  bool
}

// NewFence inserts a fence after all commands issued so far.
func NewFence(c *Context) (*Fence, error) {
	c.lock()
	defer c.unlock()
	h := c.api.FenceSync(gl.SyncGPUCommandsComplete, 0)
	if !h.Valid() {
		return nil, fmt.Errorf("%w: fence sync", ErrUnsupported)
	}
	c.stats.created++
	return &Fence{ctx: c, handle: h}, nil
}

// Handle returns the native sync object.
func (f *Fence) Handle() gl.Object { return f.handle }

// Signaled polls the fence without blocking.
func (f *Fence) Signaled() (bool, error) {
	f.ctx.lock()
	defer f.ctx.unlock()
	return f.poll()
}

func (f *Fence) poll() (bool, error) {
	if f.deleted {
		return false, fmt.Errorf("%w: fence %d", ErrDeleted, f.handle)
	}
	if f.signaled {
		return true, nil
	}
	switch r := f.ctx.api.ClientWaitSync(f.handle, gl.SyncFlushCommandsBit, 0); r {
	case gl.AlreadySignaled, gl.ConditionSatisfied:
		f.signaled = true
		return true, nil
	case gl.TimeoutExpired:
		return false, nil
	default:
		return false, &NativeError{Op: "ClientWaitSync", Code: r}
	}
}

// Wait blocks until the fence signals or ctx is done. The lock is not held
// between polls.
func (f *Fence) Wait(ctx context.Context) error {
	t := time.NewTicker(fencePoll)
	defer t.Stop()
	for {
		ok, err := f.Signaled()
		if err != nil || ok {
			return err
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrFenceTimeout, ctx.Err())
		case <-t.C:
		}
	}
}

// Delete releases the sync object.
func (f *Fence) Delete() error {
	f.ctx.lock()
	defer f.ctx.unlock()
	if f.deleted {
		return fmt.Errorf("%w: fence %d", ErrDeleted, f.handle)
	}
	f.ctx.api.DeleteSync(f.handle)
	f.ctx.stats.deleted++
	f.deleted = true
	return nil
}
