package gles

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/gogpu/gles/gl"
)

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.uniformLimit != defaultUniformCacheLimit {
		t.Errorf("uniformLimit = %d, want %d", o.uniformLimit, defaultUniformCacheLimit)
	}
	if o.backend != "unknown" {
		t.Errorf("backend = %q, want %q", o.backend, "unknown")
	}
	if o.locking || o.check || o.passThrough || o.errorCheck || o.logger != nil {
		t.Errorf("defaultOptions() = %+v, want every switch off", o)
	}
}

func TestOptions(t *testing.T) {
	logger := slog.Default()
	tests := []struct {
		name  string
		opt   Option
		check func(options) bool
	}{
		{"WithLogger", WithLogger(logger), func(o options) bool { return o.logger == logger }},
		{"WithLocking", WithLocking(), func(o options) bool { return o.locking }},
		{"WithCoherencyCheck", WithCoherencyCheck(), func(o options) bool { return o.check }},
		{"WithoutCache", WithoutCache(), func(o options) bool { return o.passThrough }},
		{"WithErrorCheck", WithErrorCheck(), func(o options) bool { return o.errorCheck }},
		{"WithUniformCacheLimit", WithUniformCacheLimit(8), func(o options) bool { return o.uniformLimit == 8 }},
		{"WithUniformCacheLimit zero", WithUniformCacheLimit(0), func(o options) bool { return o.uniformLimit == defaultUniformCacheLimit }},
		{"WithBackendName", WithBackendName("webgl"), func(o options) bool { return o.backend == "webgl" }},
		{"WithBackendName empty", WithBackendName(""), func(o options) bool { return o.backend == "unknown" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := defaultOptions()
			tt.opt(&o)
			if !tt.check(o) {
				t.Errorf("options after %s = %+v", tt.name, o)
			}
		})
	}
}

func TestMultipleOptions(t *testing.T) {
	c, _ := newTestContext(t, WithBackendName("fake"), WithLocking(), WithUniformCacheLimit(4))
	if !c.opts.locking || c.opts.uniformLimit != 4 {
		t.Errorf("opts = %+v, want locking and limit 4", c.opts)
	}
	if s := c.Stats(); s.Backend != "fake" {
		t.Errorf("Stats().Backend = %q, want %q", s.Backend, "fake")
	}
}

func TestLockingConcurrentUse(t *testing.T) {
	c, f := newTestContext(t, WithLocking())
	const goroutines = 8
	bufs := make([]*Buffer, goroutines)
	for i := range bufs {
		bufs[i] = mustBuffer(t, c, gl.ArrayBuffer)
	}

	var wg sync.WaitGroup
	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data := []byte{byte(i), byte(i), byte(i), byte(i)}
			for range 50 {
				err := With(bufs[i], func(b *Buffer) error {
					return b.SetData(data, gl.DynamicDraw)
				})
				if err != nil {
					t.Errorf("With() error = %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	for i, b := range bufs {
		if got := f.BufferContents(b.Handle()); len(got) != 4 || got[0] != byte(i) {
			t.Errorf("buffer %d contents = %v, want four bytes of %d", i, got, i)
		}
	}
}
