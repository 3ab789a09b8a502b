package gles

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/gles/gl"
)

func TestTextureUnits(t *testing.T) {
	c, f := newTestContext(t)
	a := mustTexture(t, c, gl.Texture2D)
	b := mustTexture(t, c, gl.Texture2D)

	if err := a.BindTo(0); err != nil {
		t.Fatal(err)
	}
	if err := b.BindTo(3); err != nil {
		t.Fatal(err)
	}
	if got := f.PeekUnit(gl.TextureBinding2D, 0); got != a.Handle() {
		t.Errorf("unit 0 = %d, want %d", got, a.Handle())
	}
	if got := f.PeekUnit(gl.TextureBinding2D, 3); got != b.Handle() {
		t.Errorf("unit 3 = %d, want %d", got, b.Handle())
	}
	if !a.Bound() || !b.Bound() {
		t.Errorf("Bound() = %v, %v, want true, true", a.Bound(), b.Bound())
	}
	if c.ActiveUnit() != 3 || f.ActiveUnit() != 3 {
		t.Errorf("ActiveUnit() = %d (native %d), want 3", c.ActiveUnit(), f.ActiveUnit())
	}

	// Rebinding on a known unit costs nothing.
	f.ResetCalls()
	if err := a.Bind(); err != nil {
		t.Fatal(err)
	}
	if n := f.Calls("BindTexture") + f.Calls("ActiveTexture"); n != 0 {
		t.Errorf("native calls = %v, want none", f.CallNames())
	}

	if err := a.SetUnit(c.MaxTextureUnits()); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("SetUnit(max) error = %v, want ErrInvalidArgument", err)
	}

	// Moving a bound texture unbinds it from its old unit.
	if err := a.SetUnit(5); err != nil {
		t.Fatal(err)
	}
	if got := f.PeekUnit(gl.TextureBinding2D, 0); got != gl.Null {
		t.Errorf("unit 0 after SetUnit = %d, want 0", got)
	}
	if a.Unit() != 5 {
		t.Errorf("Unit() = %d, want 5", a.Unit())
	}
}

func TestTextureCallsReachActiveUnit(t *testing.T) {
	c, f := newTestContext(t)
	a := mustTexture(t, c, gl.Texture2D)
	b := mustTexture(t, c, gl.Texture2D)
	if err := a.BindTo(1); err != nil {
		t.Fatal(err)
	}
	if err := b.BindTo(2); err != nil {
		t.Fatal(err)
	}

	// a is bound already, but unit 2 is active: the upload must switch.
	if err := a.SetMip(0, 2, 2, make([]byte, 16)); err != nil {
		t.Fatal(err)
	}
	if w, h, _, ok := f.TextureLevel(a.Handle(), 0); !ok || w != 2 || h != 2 {
		t.Errorf("level 0 of a = %dx%d (ok %v), want 2x2", w, h, ok)
	}
	if _, _, _, ok := f.TextureLevel(b.Handle(), 0); ok {
		t.Error("upload reached b")
	}
}

func TestTextureActiveUnitRestored(t *testing.T) {
	c, f := newTestContext(t)
	a := mustTexture(t, c, gl.Texture2D)
	b := mustTexture(t, c, gl.Texture2D)
	if err := a.SetUnit(3); err != nil {
		t.Fatal(err)
	}
	if err := b.SetUnit(5); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		run  func() error
	}{
		{"Bound", func() error { b.Bound(); return nil }},
		{"With", func() error {
			return With(a, func(a *Texture) error {
				if got := f.PeekUnit(gl.TextureBinding2D, 3); got != a.Handle() {
					t.Errorf("unit 3 inside With = %d, want %d", got, a.Handle())
				}
				return nil
			})
		}},
		{"WithResult", func() error {
			_, err := WithResult(b, func(b *Texture) (int, error) { return b.Unit(), nil })
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); err != nil {
				t.Fatal(err)
			}
			if c.ActiveUnit() != 0 || f.ActiveUnit() != 0 {
				t.Errorf("ActiveUnit() = %d (native %d), want 0", c.ActiveUnit(), f.ActiveUnit())
			}
		})
	}
	if got := f.PeekUnit(gl.TextureBinding2D, 3); got != gl.Null {
		t.Errorf("unit 3 after With = %d, want 0", got)
	}
}

func TestTextureSetMip(t *testing.T) {
	c, f := newTestContext(t)
	tex := mustTexture(t, c, gl.Texture2D)
	if err := tex.SetMip(0, 4, 2, make([]byte, 32)); err != nil {
		t.Fatalf("SetMip() error = %v", err)
	}
	if err := tex.SetMip(1, 2, 1, nil); err != nil {
		t.Fatalf("SetMip(nil data) error = %v", err)
	}
	e, ok := tex.Size(0)
	if !ok || e.Width != 4 || e.Height != 2 || e.DepthOrArrayLayers != 1 {
		t.Errorf("Size(0) = %+v, %v, want 4x2x1", e, ok)
	}
	if n := tex.Levels(); n != 2 {
		t.Errorf("Levels() = %d, want 2", n)
	}
	if err := tex.SetMip(0, 4, 2, make([]byte, 31)); !errors.Is(err, ErrRange) {
		t.Errorf("SetMip(short data) error = %v, want ErrRange", err)
	}
	if err := tex.SetMip(-1, 1, 1, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("SetMip(-1) error = %v, want ErrInvalidArgument", err)
	}
	if n := f.Calls("TexImage2D"); n != 2 {
		t.Errorf("TexImage2D calls = %d, want 2", n)
	}
}

func TestTextureSizeOverflow(t *testing.T) {
	c, f := newTestContext(t)
	tex := mustTexture(t, c, gl.Texture2D)
	huge := math.MaxInt / 2
	vol := mustTexture(t, c, gl.Texture3D)

	tests := []struct {
		name string
		run  func() error
	}{
		{"SetMip", func() error { return tex.SetMip(0, huge, 4, nil) }},
		{"SetMip row", func() error { return tex.SetMip(0, huge, 0, nil) }},
		{"SetSubImage", func() error { return tex.SetSubImage(0, 0, 0, huge, huge, make([]byte, 16)) }},
		{"SetMip3D", func() error { return vol.SetMip3D(0, 1<<20, 1<<20, 1<<24, nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.ResetCalls()
			if err := tt.run(); !errors.Is(err, ErrRange) {
				t.Errorf("%s() error = %v, want ErrRange", tt.name, err)
			}
			if n := f.TotalCalls(); n != 0 {
				t.Errorf("native calls = %v, want none", f.CallNames())
			}
		})
	}
}

func TestByteSize(t *testing.T) {
	tests := []struct {
		bpp  int
		dims []int
		want int
		ok   bool
	}{
		{4, []int{8, 2}, 64, true},
		{4, []int{0, math.MaxInt}, 0, true},
		{1, []int{math.MaxInt}, math.MaxInt, true},
		{2, []int{math.MaxInt}, 0, false},
		{4, []int{math.MaxInt / 4, 8}, 0, false},
	}
	for _, tt := range tests {
		got, ok := byteSize(tt.bpp, tt.dims...)
		if got != tt.want || ok != tt.ok {
			t.Errorf("byteSize(%d, %v) = %d, %v, want %d, %v", tt.bpp, tt.dims, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTextureUnpackAlignmentCached(t *testing.T) {
	c, f := newTestContext(t)
	tex := mustTexture(t, c, gl.Texture2D)
	r8, err := NewTexture(c, gl.Texture2D, gputypes.TextureFormatR8Unorm)
	if err != nil {
		t.Fatal(err)
	}
	steps := []struct {
		name  string
		do    func() error
		calls int
	}{
		{"rgba 4x4", func() error { return tex.SetMip(0, 4, 4, nil) }, 1},
		{"rgba 2x2", func() error { return tex.SetMip(1, 2, 2, nil) }, 1},
		{"r8 3x3", func() error { return r8.SetMip(0, 3, 3, nil) }, 2},
		{"r8 3x1", func() error { return r8.SetMip(1, 3, 1, nil) }, 2},
		{"r8 4x4", func() error { return r8.SetMip(0, 4, 4, nil) }, 3},
	}
	for _, s := range steps {
		if err := s.do(); err != nil {
			t.Fatalf("%s: %v", s.name, err)
		}
		if n := f.Calls("PixelStorei"); n != s.calls {
			t.Errorf("%s: PixelStorei calls = %d, want %d", s.name, n, s.calls)
		}
	}
}

func TestTextureCubeFaces(t *testing.T) {
	c, _ := newTestContext(t)
	cube := mustTexture(t, c, gl.TextureCubeMap)
	for face := range 6 {
		if err := cube.SetFaceMip(face, 0, 8, nil); err != nil {
			t.Fatalf("SetFaceMip(%d) error = %v", face, err)
		}
	}
	if err := cube.SetFaceMip(6, 0, 8, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("SetFaceMip(6) error = %v, want ErrInvalidArgument", err)
	}
	if err := cube.SetMip(0, 8, 8, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("SetMip on cube error = %v, want ErrInvalidArgument", err)
	}
	if err := cube.GenerateMipmap(); err != nil {
		t.Fatalf("GenerateMipmap() error = %v", err)
	}
	if n := cube.Levels(); n != 4 {
		t.Errorf("Levels() = %d, want 4", n)
	}
}

func TestTextureSubImage(t *testing.T) {
	tests := []struct {
		name       string
		x, y, w, h int
		wantErr    error
	}{
		{"whole", 0, 0, 4, 4, nil},
		{"corner", 3, 3, 1, 1, nil},
		{"past right", 3, 0, 2, 1, ErrRange},
		{"past bottom", 0, 4, 1, 1, ErrRange},
		{"negative", -1, 0, 1, 1, ErrRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, f := newTestContext(t)
			tex := mustTexture(t, c, gl.Texture2D)
			if err := tex.SetMip(0, 4, 4, nil); err != nil {
				t.Fatal(err)
			}
			f.ResetCalls()
			err := tex.SetSubImage(0, tt.x, tt.y, tt.w, tt.h, make([]byte, tt.w*tt.h*4))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SetSubImage() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil && f.TotalCalls() != 0 {
				t.Errorf("native calls on range error = %v, want none", f.CallNames())
			}
		})
	}

	c, _ := newTestContext(t)
	tex := mustTexture(t, c, gl.Texture2D)
	if err := tex.SetSubImage(0, 0, 0, 1, 1, make([]byte, 4)); !errors.Is(err, ErrRange) {
		t.Errorf("SetSubImage on missing level error = %v, want ErrRange", err)
	}
}

func TestTextureStorage(t *testing.T) {
	c, f := newTestContext(t)
	tex := mustTexture(t, c, gl.Texture2D)
	if err := tex.Storage(3, 8, 4); err != nil {
		t.Fatalf("Storage() error = %v", err)
	}
	if !tex.Immutable() {
		t.Error("Immutable() = false, want true")
	}
	e, ok := tex.Size(2)
	if !ok || e.Width != 2 || e.Height != 1 {
		t.Errorf("Size(2) = %+v, %v, want 2x1", e, ok)
	}
	if w, h, _, ok := f.TextureLevel(tex.Handle(), 2); !ok || w != 2 || h != 1 {
		t.Errorf("native level 2 = %dx%d, %v, want 2x1", w, h, ok)
	}
	if err := tex.SetMip(0, 8, 4, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("SetMip on immutable error = %v, want ErrInvalidArgument", err)
	}
	if err := tex.Storage(1, 8, 4); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("second Storage error = %v, want ErrInvalidArgument", err)
	}
	if err := tex.SetSubImage(1, 0, 0, 4, 2, make([]byte, 32)); err != nil {
		t.Errorf("SetSubImage on storage level error = %v", err)
	}

	other := mustTexture(t, c, gl.Texture2D)
	if err := other.Storage(5, 8, 4); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Storage(5 levels of 8x4) error = %v, want ErrInvalidArgument", err)
	}
}

func TestTextureGenerateMipmap(t *testing.T) {
	c, _ := newTestContext(t)
	tex := mustTexture(t, c, gl.Texture2D)
	if err := tex.GenerateMipmap(); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("GenerateMipmap() without level 0 error = %v, want ErrInvalidArgument", err)
	}
	if err := tex.SetMip(0, 16, 4, nil); err != nil {
		t.Fatal(err)
	}
	if err := tex.GenerateMipmap(); err != nil {
		t.Fatal(err)
	}
	if n := tex.Levels(); n != 5 {
		t.Errorf("Levels() = %d, want 5", n)
	}
}

func TestTexture3D(t *testing.T) {
	c, _ := newTestContext(t)
	vol := mustTexture(t, c, gl.Texture3D)
	if err := vol.SetMip3D(0, 4, 4, 4, make([]byte, 4*4*4*4)); err != nil {
		t.Fatalf("SetMip3D() error = %v", err)
	}
	e, _ := vol.Size(0)
	if e.DepthOrArrayLayers != 4 {
		t.Errorf("depth = %d, want 4", e.DepthOrArrayLayers)
	}
	if err := vol.SetWrapR(gputypes.AddressModeClampToEdge); err != nil {
		t.Errorf("SetWrapR() error = %v", err)
	}
	flat := mustTexture(t, c, gl.Texture2D)
	if err := flat.SetMip3D(0, 1, 1, 1, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("SetMip3D on 2D error = %v, want ErrInvalidArgument", err)
	}
}

func TestTextureParamsSkipRedundant(t *testing.T) {
	c, f := newTestContext(t)
	tex := mustTexture(t, c, gl.Texture2D)
	f.ResetCalls()

	if err := tex.SetFilter(gputypes.FilterModeLinear, gputypes.FilterModeNearest); err != nil {
		t.Fatal(err)
	}
	if err := tex.SetFilter(gputypes.FilterModeLinear, gputypes.FilterModeNearest); err != nil {
		t.Fatal(err)
	}
	if n := f.Calls("TexParameteri"); n != 2 {
		t.Errorf("TexParameteri calls = %d, want 2", n)
	}
	if v, ok := f.TextureParam(tex.Handle(), gl.TextureMinFilter); !ok || gl.Enum(v) != gl.Linear {
		t.Errorf("native MIN_FILTER = %#x, want LINEAR", v)
	}
	if v, ok := tex.Param(gl.TextureMagFilter); !ok || gl.Enum(v) != gl.Nearest {
		t.Errorf("Param(MAG_FILTER) = %#x, want NEAREST", v)
	}

	if err := tex.SetMipmapFilter(gputypes.FilterModeLinear, gputypes.FilterModeNearest, gputypes.FilterModeLinear); err != nil {
		t.Fatal(err)
	}
	if v, _ := tex.Param(gl.TextureMinFilter); gl.Enum(v) != gl.LinearMipmapLinear {
		t.Errorf("MIN_FILTER = %#x, want LINEAR_MIPMAP_LINEAR", v)
	}
	if n := f.Calls("TexParameteri"); n != 3 {
		t.Errorf("TexParameteri calls = %d, want 3", n)
	}

	if err := tex.SetWrap(gputypes.AddressModeRepeat, gputypes.AddressModeMirrorRepeat); err != nil {
		t.Fatal(err)
	}
	if v, _ := f.TextureParam(tex.Handle(), gl.TextureWrapT); gl.Enum(v) != gl.MirroredRepeat {
		t.Errorf("WRAP_T = %#x, want MIRRORED_REPEAT", v)
	}
	if err := tex.SetLevelRange(2, 1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("SetLevelRange(2, 1) error = %v, want ErrInvalidArgument", err)
	}
}

func TestMinFilterEnum(t *testing.T) {
	n, l := gputypes.FilterModeNearest, gputypes.FilterModeLinear
	tests := []struct {
		min, mip gputypes.FilterMode
		want     gl.Enum
	}{
		{n, n, gl.NearestMipmapNearest},
		{l, n, gl.LinearMipmapNearest},
		{n, l, gl.NearestMipmapLinear},
		{l, l, gl.LinearMipmapLinear},
	}
	for _, tt := range tests {
		got, err := minFilterEnum(tt.min, tt.mip)
		if err != nil || got != tt.want {
			t.Errorf("minFilterEnum(%v, %v) = %s, %v, want %s", tt.min, tt.mip, got, err, tt.want)
		}
	}
}

func TestTextureShadowUnchangedOnNativeError(t *testing.T) {
	c, f := newTestContext(t, WithErrorCheck())
	tex := mustTexture(t, c, gl.Texture2D)
	if err := tex.SetFilter(gputypes.FilterModeNearest, gputypes.FilterModeNearest); err != nil {
		t.Fatal(err)
	}
	f.InjectError(gl.InvalidEnum)
	if err := tex.SetMip(0, 2, 2, nil); err == nil {
		t.Fatal("SetMip() error = nil, want native error")
	}
	if _, ok := tex.Size(0); ok {
		t.Error("Size(0) recorded after a failed upload")
	}
}

func TestCopyFromFramebuffer(t *testing.T) {
	c, f := newTestContext(t)
	src := mustFramebuffer(t, c)
	rb, err := NewRenderbuffer(c)
	if err != nil {
		t.Fatal(err)
	}
	if err := rb.Storage(gputypes.TextureFormatRGBA8Unorm, 8, 8, 0); err != nil {
		t.Fatal(err)
	}
	if err := src.Attach(gl.ColorAttachment0, RenderbufferAttachment{rb}); err != nil {
		t.Fatal(err)
	}
	c.BindDefaultFramebuffer()

	tex := mustTexture(t, c, gl.Texture2D)
	if err := tex.SetMip(0, 4, 4, nil); err != nil {
		t.Fatal(err)
	}
	if err := tex.CopyFromFramebuffer(src, 0, 0, 0, 4, 4, 4, 4); err != nil {
		t.Fatalf("CopyFromFramebuffer() error = %v", err)
	}
	if n := f.Calls("CopyTexSubImage2D"); n != 1 {
		t.Errorf("CopyTexSubImage2D calls = %d, want 1", n)
	}
	if got := f.Peek(gl.ReadFramebufferBinding); got != gl.Null {
		t.Errorf("READ_FRAMEBUFFER = %d, want 0 after copy", got)
	}

	tests := []struct {
		name                 string
		dx, dy, sx, sy, w, h int
	}{
		{"source outside", 0, 0, 6, 0, 4, 4},
		{"destination outside", 2, 2, 0, 0, 4, 4},
		{"negative source", 0, 0, -1, 0, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.ResetCalls()
			err := tex.CopyFromFramebuffer(src, 0, tt.dx, tt.dy, tt.sx, tt.sy, tt.w, tt.h)
			if !errors.Is(err, ErrRange) {
				t.Errorf("CopyFromFramebuffer() error = %v, want ErrRange", err)
			}
			if n := f.TotalCalls(); n != 0 {
				t.Errorf("native calls = %v, want none", f.CallNames())
			}
		})
	}
}

func TestTextureSetImage(t *testing.T) {
	c, f := newTestContext(t)
	tex := mustTexture(t, c, gl.Texture2D)

	// A sub-image with a non-zero origin is converted first.
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := range 8 {
		for x := range 8 {
			src.Set(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	sub := src.SubImage(image.Rect(2, 2, 7, 5))
	if err := tex.SetImage(0, sub); err != nil {
		t.Fatalf("SetImage() error = %v", err)
	}
	if w, h, _, ok := f.TextureLevel(tex.Handle(), 0); !ok || w != 5 || h != 3 {
		t.Errorf("level 0 = %dx%d, want 5x3", w, h)
	}

	if err := tex.SetMipmapImages(image.NewRGBA(image.Rect(0, 0, 8, 2))); err != nil {
		t.Fatalf("SetMipmapImages() error = %v", err)
	}
	if n := tex.Levels(); n != 4 {
		t.Errorf("Levels() = %d, want 4", n)
	}
	if w, h, _, ok := f.TextureLevel(tex.Handle(), 3); !ok || w != 1 || h != 1 {
		t.Errorf("level 3 = %dx%d, want 1x1", w, h)
	}

	r8, err := NewTexture(c, gl.Texture2D, gputypes.TextureFormatR8Unorm)
	if err != nil {
		t.Fatal(err)
	}
	if err := r8.SetImage(0, src); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("SetImage on R8 error = %v, want ErrInvalidArgument", err)
	}
}

func TestToRGBA(t *testing.T) {
	tight := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if got := toRGBA(tight); got != tight {
		t.Error("toRGBA() copied a tightly packed image")
	}
	gray := image.NewGray(image.Rect(0, 0, 2, 1))
	gray.SetGray(1, 0, color.Gray{Y: 200})
	got := toRGBA(gray)
	if c := got.RGBAAt(1, 0); c.R != 200 || c.G != 200 || c.B != 200 || c.A != 255 {
		t.Errorf("toRGBA() pixel = %v, want gray 200", c)
	}
}

func TestLookupFormat(t *testing.T) {
	tests := []struct {
		format  gputypes.TextureFormat
		want    gl.Enum
		bpp     int
		wantErr bool
	}{
		{gputypes.TextureFormatRGBA8Unorm, gl.RGBA8, 4, false},
		{gputypes.TextureFormatR8Unorm, gl.R8, 1, false},
		{gputypes.TextureFormatRGBA16Float, gl.RGBA16F, 8, false},
		{gputypes.TextureFormatDepth24PlusStencil8, gl.Depth24Stencil8, 4, false},
		{gputypes.TextureFormatBGRA8Unorm, 0, 0, true},
	}
	for _, tt := range tests {
		pf, err := LookupFormat(tt.format)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("LookupFormat(%v) error = %v, want ErrInvalidArgument", tt.format, err)
			}
			continue
		}
		if err != nil || pf.Internal != tt.want || pf.BytesPerPixel != tt.bpp {
			t.Errorf("LookupFormat(%v) = %s/%d, %v, want %s/%d", tt.format, pf.Internal, pf.BytesPerPixel, err, tt.want, tt.bpp)
		}
	}
}
