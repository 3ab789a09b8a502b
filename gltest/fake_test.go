package gltest

import (
	"testing"

	"github.com/gogpu/gles/gl"
)

func TestFakeFramebufferAlias(t *testing.T) {
	f := New()
	fb := f.CreateFramebuffer()
	f.BindFramebuffer(gl.Framebuffer, fb)
	if got := f.Peek(gl.DrawFramebufferBinding); got != fb {
		t.Errorf("DRAW_FRAMEBUFFER_BINDING = %v, want %v", got, fb)
	}
	if got := f.Peek(gl.ReadFramebufferBinding); got != fb {
		t.Errorf("READ_FRAMEBUFFER_BINDING = %v, want %v", got, fb)
	}
	f.BindFramebuffer(gl.ReadFramebuffer, gl.Null)
	if got := f.Peek(gl.DrawFramebufferBinding); got != fb {
		t.Errorf("READ bind changed DRAW_FRAMEBUFFER_BINDING to %v", got)
	}
}

func TestFakeElementBindingFollowsVertexArray(t *testing.T) {
	f := New()
	va1, va2 := f.CreateVertexArray(), f.CreateVertexArray()
	b := f.CreateBuffer()

	f.BindVertexArray(va1)
	f.BindBuffer(gl.ElementArrayBuffer, b)
	f.BindVertexArray(va2)
	if got := f.GetBinding(gl.ElementArrayBufferBinding); got != gl.Null {
		t.Errorf("element binding under second VAO = %v, want Null", got)
	}
	f.BindVertexArray(va1)
	if got := f.GetBinding(gl.ElementArrayBufferBinding); got != b {
		t.Errorf("element binding under first VAO = %v, want %v", got, b)
	}
}

func TestFakeTextureUnits(t *testing.T) {
	f := New()
	t1, t2 := f.CreateTexture(), f.CreateTexture()
	f.BindTexture(gl.Texture2D, t1)
	f.ActiveTexture(gl.Texture0 + 2)
	f.BindTexture(gl.Texture2D, t2)

	if got := f.PeekUnit(gl.TextureBinding2D, 0); got != t1 {
		t.Errorf("unit 0 = %v, want %v", got, t1)
	}
	if got := f.PeekUnit(gl.TextureBinding2D, 2); got != t2 {
		t.Errorf("unit 2 = %v, want %v", got, t2)
	}
	if got := f.GetInteger(gl.ActiveTexture); got != int(gl.Texture0)+2 {
		t.Errorf("ACTIVE_TEXTURE = %#x, want TEXTURE2", got)
	}
	if f.ActiveUnit() != 2 {
		t.Errorf("ActiveUnit() = %d, want 2", f.ActiveUnit())
	}
}

func TestFakeDeleteUnbinds(t *testing.T) {
	f := New()
	b := f.CreateBuffer()
	f.BindBuffer(gl.ArrayBuffer, b)
	f.BindBuffer(gl.CopyReadBuffer, b)
	f.DeleteBuffer(b)

	for _, q := range []gl.Enum{gl.ArrayBufferBinding, gl.CopyReadBufferBinding} {
		if got := f.Peek(q); got != gl.Null {
			t.Errorf("Peek(%v) after delete = %v, want Null", q, got)
		}
	}
	if !f.IsDeleted(b) {
		t.Error("IsDeleted() = false")
	}
	f.BindBuffer(gl.ArrayBuffer, b)
	if got := f.GetError(); got != gl.InvalidOperation {
		t.Errorf("binding a deleted buffer: GetError() = %v, want INVALID_OPERATION", got)
	}
}

func TestFakeProgramSurvivesDelete(t *testing.T) {
	f := New()
	vs := f.CreateShader(gl.VertexShader)
	f.ShaderSource(vs, "void main() {}")
	f.CompileShader(vs)
	p := f.CreateProgram()
	f.AttachShader(p, vs)
	f.LinkProgram(p)
	f.UseProgram(p)
	f.DeleteProgram(p)
	if got := f.GetBinding(gl.CurrentProgram); got != p {
		t.Errorf("CURRENT_PROGRAM after delete = %v, want %v", got, p)
	}
}

func TestFakeCallCounting(t *testing.T) {
	f := New()
	b := f.CreateBuffer()
	f.BindBuffer(gl.ArrayBuffer, b)
	f.BindBuffer(gl.ArrayBuffer, b)
	f.BufferData(gl.ArrayBuffer, 4, []byte{1, 2, 3, 4}, gl.StaticDraw)

	if got := f.Calls("BindBuffer"); got != 2 {
		t.Errorf("Calls(BindBuffer) = %d, want 2", got)
	}
	if got := f.TotalCalls(); got != 4 {
		t.Errorf("TotalCalls() = %d, want 4", got)
	}
	if got := f.BufferContents(b); len(got) != 4 || got[3] != 4 {
		t.Errorf("BufferContents() = %v", got)
	}
	f.ResetCalls()
	if f.TotalCalls() != 0 {
		t.Errorf("TotalCalls() after ResetCalls = %d", f.TotalCalls())
	}
}

func TestFakeFailCreate(t *testing.T) {
	f := New()
	f.FailCreate(KindTexture, true)
	if got := f.CreateTexture(); got != gl.Null {
		t.Errorf("CreateTexture() = %v, want Null", got)
	}
	f.FailCreate(KindTexture, false)
	if got := f.CreateTexture(); !got.Valid() {
		t.Error("CreateTexture() = Null after FailCreate(false)")
	}
}

func TestFakeInjectError(t *testing.T) {
	f := New()
	f.InjectError(gl.OutOfMemory)
	if got := f.GetError(); got != gl.OutOfMemory {
		t.Errorf("GetError() = %v, want OUT_OF_MEMORY", got)
	}
	if got := f.GetError(); got != gl.NoError {
		t.Errorf("second GetError() = %v, want NO_ERROR", got)
	}
}

func TestFakeTracing(t *testing.T) {
	f := New()
	f.Tracing = true
	b := f.CreateBuffer()
	f.BindBuffer(gl.ArrayBuffer, b)
	tr := f.Trace()
	if len(tr) != 2 || tr[0] != "CreateBuffer" {
		t.Errorf("Trace() = %q", tr)
	}
}
