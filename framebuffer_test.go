package gles

import (
	"errors"
	"image"
	"slices"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/gles/gl"
)

func mustRenderbuffer(t *testing.T, c *Context, format gputypes.TextureFormat, w, h int) *Renderbuffer {
	t.Helper()
	rb, err := NewRenderbuffer(c)
	if err != nil {
		t.Fatalf("NewRenderbuffer() error = %v", err)
	}
	if err := rb.Storage(format, w, h, 0); err != nil {
		t.Fatalf("Storage() error = %v", err)
	}
	return rb
}

func TestAttachReplaces(t *testing.T) {
	c, f := newTestContext(t)
	fb := mustFramebuffer(t, c)
	t1 := mustTexture(t, c, gl.Texture2D)
	t2 := mustTexture(t, c, gl.Texture2D)

	if err := fb.Attach(gl.ColorAttachment0, TextureAttachment{Texture: t1}); err != nil {
		t.Fatal(err)
	}
	if err := fb.Attach(gl.ColorAttachment0, TextureAttachment{Texture: t2}); err != nil {
		t.Fatal(err)
	}
	a, ok := fb.Attachment(gl.ColorAttachment0)
	if !ok {
		t.Fatal("Attachment() ok = false")
	}
	if ta, _ := a.(TextureAttachment); ta.Texture != t2 {
		t.Errorf("Attachment() = %+v, want t2", a)
	}
	if got := f.Attached(fb.Handle(), gl.ColorAttachment0); got != t2.Handle() {
		t.Errorf("native attachment = %d, want %d", got, t2.Handle())
	}
	if pts := fb.Points(); !slices.Equal(pts, []gl.Enum{gl.ColorAttachment0}) {
		t.Errorf("Points() = %v, want [COLOR_ATTACHMENT0]", pts)
	}
}

func TestAttachDepthStencil(t *testing.T) {
	c, f := newTestContext(t)
	fb := mustFramebuffer(t, c)
	ds := mustRenderbuffer(t, c, gputypes.TextureFormatDepth24PlusStencil8, 4, 4)
	depth := mustRenderbuffer(t, c, gputypes.TextureFormatDepth16Unorm, 4, 4)

	if err := fb.Attach(gl.DepthStencilAttachment, RenderbufferAttachment{ds}); err != nil {
		t.Fatal(err)
	}
	for _, p := range []gl.Enum{gl.DepthAttachment, gl.StencilAttachment, gl.DepthStencilAttachment} {
		if _, ok := fb.Attachment(p); !ok {
			t.Errorf("Attachment(%s) missing", p)
		}
		if got := f.Attached(fb.Handle(), p); got != ds.Handle() {
			t.Errorf("native %s = %d, want %d", p, got, ds.Handle())
		}
	}

	// Replacing the depth half splits the combined entry.
	if err := fb.Attach(gl.DepthAttachment, RenderbufferAttachment{depth}); err != nil {
		t.Fatal(err)
	}
	if _, ok := fb.Attachment(gl.DepthStencilAttachment); ok {
		t.Error("DEPTH_STENCIL_ATTACHMENT still recorded")
	}
	if a, _ := fb.Attachment(gl.StencilAttachment); a.(RenderbufferAttachment).Renderbuffer != ds {
		t.Error("STENCIL_ATTACHMENT lost its renderbuffer")
	}

	if err := fb.Detach(gl.DepthStencilAttachment); err != nil {
		t.Fatal(err)
	}
	if pts := fb.Points(); len(pts) != 0 {
		t.Errorf("Points() after Detach = %v, want none", pts)
	}
}

func TestAttachErrors(t *testing.T) {
	c, f := newTestContext(t)
	fb := mustFramebuffer(t, c)
	flat := mustTexture(t, c, gl.Texture2D)
	cube := mustTexture(t, c, gl.TextureCubeMap)
	vol := mustTexture(t, c, gl.Texture3D)
	if err := vol.SetMip3D(0, 2, 2, 2, nil); err != nil {
		t.Fatal(err)
	}
	f.ResetCalls()

	tests := []struct {
		name    string
		point   gl.Enum
		a       Attachment
		wantErr error
	}{
		{"nil texture", gl.ColorAttachment0, TextureAttachment{}, ErrInvalidArgument},
		{"nil renderbuffer", gl.ColorAttachment0, RenderbufferAttachment{}, ErrInvalidArgument},
		{"bad point", gl.Texture2D, TextureAttachment{Texture: flat}, ErrInvalidArgument},
		{"beyond max attachments", gl.ColorAttachment(8), TextureAttachment{Texture: flat}, ErrInvalidArgument},
		{"negative level", gl.ColorAttachment0, TextureAttachment{Texture: flat, Level: -1}, ErrInvalidArgument},
		{"cube face", gl.ColorAttachment0, TextureAttachment{Texture: cube, Face: 6}, ErrInvalidArgument},
		{"3d as 2d", gl.ColorAttachment0, TextureAttachment{Texture: vol}, ErrInvalidArgument},
		{"2d as layer", gl.ColorAttachment0, LayerAttachment{Texture: flat}, ErrInvalidArgument},
		{"layer out of range", gl.ColorAttachment0, LayerAttachment{Texture: vol, Layer: 2}, ErrRange},
		{"nil attachment", gl.ColorAttachment0, nil, ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := fb.Attach(tt.point, tt.a); !errors.Is(err, tt.wantErr) {
				t.Errorf("Attach() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
	if n := f.Calls("FramebufferTexture2D") + f.Calls("FramebufferTextureLayer") + f.Calls("FramebufferRenderbuffer"); n != 0 {
		t.Errorf("attach calls = %d, want 0", n)
	}

	if err := fb.Attach(gl.ColorAttachment(1), LayerAttachment{Texture: vol, Layer: 1}); err != nil {
		t.Errorf("Attach(layer 1) error = %v", err)
	}
	if err := fb.Attach(gl.ColorAttachment(2), TextureAttachment{Texture: cube, Face: 5}); err != nil {
		t.Errorf("Attach(cube face 5) error = %v", err)
	}
}

func TestFramebufferCheck(t *testing.T) {
	c, f := newTestContext(t)
	fb := mustFramebuffer(t, c)
	if err := fb.Check(); !errors.Is(err, ErrIncompleteFramebuffer) {
		t.Errorf("Check() on empty framebuffer error = %v, want ErrIncompleteFramebuffer", err)
	}
	rb := mustRenderbuffer(t, c, gputypes.TextureFormatRGBA8Unorm, 4, 4)
	if err := fb.Attach(gl.ColorAttachment0, RenderbufferAttachment{rb}); err != nil {
		t.Fatal(err)
	}
	if err := fb.Check(); err != nil {
		t.Errorf("Check() error = %v", err)
	}
	f.Status = gl.FramebufferIncompleteDimensions
	status, err := fb.Status()
	if err != nil || status != gl.FramebufferIncompleteDimensions {
		t.Errorf("Status() = %s, %v, want FRAMEBUFFER_INCOMPLETE_DIMENSIONS", status, err)
	}
	if err := fb.Check(); !errors.Is(err, ErrIncompleteFramebuffer) {
		t.Errorf("Check() error = %v, want ErrIncompleteFramebuffer", err)
	}
}

func TestSetDrawBuffers(t *testing.T) {
	c, f := newTestContext(t)
	fb := mustFramebuffer(t, c)
	other := mustFramebuffer(t, c)
	if err := other.Bind(); err != nil {
		t.Fatal(err)
	}
	f.ResetCalls()

	bufs := []gl.Enum{gl.ColorAttachment0, gl.None, gl.ColorAttachment(2)}
	if err := fb.SetDrawBuffers(bufs...); err != nil {
		t.Fatalf("SetDrawBuffers() error = %v", err)
	}
	if err := fb.SetDrawBuffers(bufs...); err != nil {
		t.Fatal(err)
	}
	if n := f.Calls("DrawBuffers"); n != 1 {
		t.Errorf("DrawBuffers calls = %d, want 1", n)
	}
	if got := fb.DrawBuffers(); !slices.Equal(got, bufs) {
		t.Errorf("DrawBuffers() = %v, want %v", got, bufs)
	}
	if got := f.Peek(gl.DrawFramebufferBinding); got != other.Handle() {
		t.Errorf("DRAW_FRAMEBUFFER = %d, want %d", got, other.Handle())
	}

	tests := []struct {
		name string
		bufs []gl.Enum
	}{
		{"out of order", []gl.Enum{gl.ColorAttachment(1)}},
		{"depth", []gl.Enum{gl.DepthAttachment}},
		{"too many", make([]gl.Enum, 9)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := fb.SetDrawBuffers(tt.bufs...); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("SetDrawBuffers() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestBlitTo(t *testing.T) {
	c, f := newTestContext(t)
	src := mustFramebuffer(t, c)
	dst := mustFramebuffer(t, c)
	rb := mustRenderbuffer(t, c, gputypes.TextureFormatRGBA8Unorm, 16, 8)
	if err := src.Attach(gl.ColorAttachment0, RenderbufferAttachment{rb}); err != nil {
		t.Fatal(err)
	}
	if err := dst.Bind(); err != nil {
		t.Fatal(err)
	}
	if w, h, ok := src.Size(); !ok || w != 16 || h != 8 {
		t.Errorf("Size() = %d, %d, %v, want 16, 8, true", w, h, ok)
	}

	r := image.Rect(0, 0, 16, 8)
	if err := src.BlitTo(nil, r, r, gl.ColorBufferBit, gl.Linear); err != nil {
		t.Fatalf("BlitTo() error = %v", err)
	}
	if n := f.Calls("BlitFramebuffer"); n != 1 {
		t.Errorf("BlitFramebuffer calls = %d, want 1", n)
	}
	for _, q := range []gl.Enum{gl.DrawFramebufferBinding, gl.ReadFramebufferBinding} {
		if got := f.Peek(q); got != dst.Handle() {
			t.Errorf("%s after blit = %d, want %d", q, got, dst.Handle())
		}
	}

	tests := []struct {
		name         string
		src          image.Rectangle
		mask, filter gl.Enum
		wantErr      error
	}{
		{"empty mask", r, 0, gl.Nearest, ErrInvalidArgument},
		{"unknown bit", r, gl.ColorBufferBit | 1, gl.Nearest, ErrInvalidArgument},
		{"bad filter", r, gl.ColorBufferBit, gl.Repeat, ErrInvalidArgument},
		{"linear depth", r, gl.DepthBufferBit, gl.Linear, ErrInvalidArgument},
		{"source outside", image.Rect(8, 0, 24, 8), gl.ColorBufferBit, gl.Nearest, ErrRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.ResetCalls()
			if err := src.BlitTo(dst, tt.src, r, tt.mask, tt.filter); !errors.Is(err, tt.wantErr) {
				t.Errorf("BlitTo() error = %v, want %v", err, tt.wantErr)
			}
			if n := f.TotalCalls(); n != 0 {
				t.Errorf("native calls = %v, want none", f.CallNames())
			}
		})
	}
}

func TestFramebufferSizeIsSmallestAttachment(t *testing.T) {
	c, _ := newTestContext(t)
	fb := mustFramebuffer(t, c)
	if _, _, ok := fb.Size(); ok {
		t.Error("Size() ok = true on an empty framebuffer")
	}
	color := mustTexture(t, c, gl.Texture2D)
	if err := color.SetMip(0, 32, 8, nil); err != nil {
		t.Fatal(err)
	}
	depth := mustRenderbuffer(t, c, gputypes.TextureFormatDepth24Plus, 16, 16)
	if err := fb.Attach(gl.ColorAttachment0, TextureAttachment{Texture: color}); err != nil {
		t.Fatal(err)
	}
	if err := fb.Attach(gl.DepthAttachment, RenderbufferAttachment{depth}); err != nil {
		t.Fatal(err)
	}
	if w, h, ok := fb.Size(); !ok || w != 16 || h != 8 {
		t.Errorf("Size() = %d, %d, %v, want 16, 8, true", w, h, ok)
	}
}

func TestFramebufferSetTarget(t *testing.T) {
	c, f := newTestContext(t)
	fb := mustFramebuffer(t, c)
	if err := fb.SetTarget(gl.ReadFramebuffer); err != nil {
		t.Fatal(err)
	}
	if err := fb.Bind(); err != nil {
		t.Fatal(err)
	}
	if got := f.Peek(gl.ReadFramebufferBinding); got != fb.Handle() {
		t.Errorf("READ_FRAMEBUFFER = %d, want %d", got, fb.Handle())
	}
	if got := f.Peek(gl.DrawFramebufferBinding); got != gl.Null {
		t.Errorf("DRAW_FRAMEBUFFER = %d, want 0", got)
	}
	if err := fb.SetTarget(gl.Texture2D); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("SetTarget(TEXTURE_2D) error = %v, want ErrInvalidArgument", err)
	}
	if _, err := NewFramebuffer(c, gl.ArrayBuffer); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("NewFramebuffer(ARRAY_BUFFER) error = %v, want ErrInvalidArgument", err)
	}
}

func TestFramebufferUnbindKeepsOtherRead(t *testing.T) {
	c, f := newTestContext(t)
	fb := mustFramebuffer(t, c)
	read, err := NewFramebuffer(c, gl.ReadFramebuffer)
	if err != nil {
		t.Fatal(err)
	}
	if err := fb.Bind(); err != nil {
		t.Fatal(err)
	}
	if err := read.Bind(); err != nil {
		t.Fatal(err)
	}
	if err := fb.Unbind(); err != nil {
		t.Fatalf("Unbind() error = %v", err)
	}
	if got := f.Peek(gl.ReadFramebufferBinding); got != read.Handle() {
		t.Errorf("READ_FRAMEBUFFER = %d, want %d", got, read.Handle())
	}
	if got := f.Peek(gl.DrawFramebufferBinding); got != gl.Null {
		t.Errorf("DRAW_FRAMEBUFFER = %d, want 0", got)
	}
	if !read.Bound() {
		t.Error("read.Bound() = false, want true")
	}
	if fb.Bound() {
		t.Error("fb.Bound() = true, want false")
	}

	// Unbinding an object bound nowhere is free.
	f.ResetCalls()
	if err := fb.Unbind(); err != nil {
		t.Fatal(err)
	}
	if n := f.TotalCalls(); n != 0 {
		t.Errorf("native calls = %v, want none", f.CallNames())
	}
}

func TestRenderbufferStorage(t *testing.T) {
	tests := []struct {
		name        string
		format      gputypes.TextureFormat
		w, h, n     int
		wantErr     error
		wantCall    string
		wantSamples int
	}{
		{"single", gputypes.TextureFormatRGBA8Unorm, 4, 4, 0, nil, "RenderbufferStorage", 0},
		{"multisample", gputypes.TextureFormatRGBA8Unorm, 4, 4, 4, nil, "RenderbufferStorageMultisample", 4},
		{"too many samples", gputypes.TextureFormatRGBA8Unorm, 4, 4, 8, ErrInvalidArgument, "", 0},
		{"zero size", gputypes.TextureFormatRGBA8Unorm, 0, 4, 0, ErrInvalidArgument, "", 0},
		{"unsupported format", gputypes.TextureFormatBGRA8Unorm, 4, 4, 0, ErrInvalidArgument, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, f := newTestContext(t)
			rb, err := NewRenderbuffer(c)
			if err != nil {
				t.Fatal(err)
			}
			err = rb.Storage(tt.format, tt.w, tt.h, tt.n)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Storage() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if _, _, ok := rb.Size(); ok {
					t.Error("Size() ok = true after a failed Storage")
				}
				return
			}
			if n := f.Calls(tt.wantCall); n != 1 {
				t.Errorf("%s calls = %d, want 1", tt.wantCall, n)
			}
			if rb.Samples() != tt.wantSamples || rb.Format() != tt.format {
				t.Errorf("Samples(), Format() = %d, %v, want %d, %v", rb.Samples(), rb.Format(), tt.wantSamples, tt.format)
			}
		})
	}
}
