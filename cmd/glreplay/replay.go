package main

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gles"
	"github.com/gogpu/gles/gl"
)

const (
	vertexSource = `#version 300 es
in vec4 position;
void main() { gl_Position = position; }
`
	fragmentSource = `#version 300 es
precision mediump float;
out vec4 color;
void main() { color = vec4(1.0); }
`
)

// replayer runs a scenario on one Context.
type replayer struct {
	ctx  *gles.Context
	log  *slog.Logger
	res  map[string]gles.Bindable
	defs map[string]Resource
}

// Result is the outcome of one replay.
type Result struct {
	Stats gles.Stats

	// Calls counts native calls per entry point, when the backend counts them.
	Calls map[string]int
}

type callCounter interface {
	CallCounts() map[string]int
	ResetCalls()
}

// Replay creates the scenario's resources on api, runs its steps and deletes
// everything. Call counts cover the steps only.
func Replay(api gl.API, s *Scenario, log *slog.Logger, opts ...gles.Option) (Result, error) {
	opts = append([]gles.Option{gles.WithLogger(log)}, opts...)
	r := &replayer{
		ctx:  gles.NewContext(api, opts...),
		log:  log,
		res:  make(map[string]gles.Bindable, len(s.Resources)),
		defs: make(map[string]Resource, len(s.Resources)),
	}
	defer r.close()

	for _, def := range s.Resources {
		if err := r.create(def); err != nil {
			return Result{}, fmt.Errorf("resource %q: %w", def.ID, err)
		}
	}
	counter, counting := api.(callCounter)
	if counting {
		counter.ResetCalls()
	}
	r.ctx.ResetStats()

	repeat := max(s.Repeat, 1)
	for range repeat {
		if err := r.run(s.Steps); err != nil {
			return Result{}, err
		}
	}

	res := Result{Stats: r.ctx.Stats()}
	if counting {
		res.Calls = counter.CallCounts()
	}
	return res, nil
}

func (r *replayer) create(def Resource) error {
	var (
		res gles.Bindable
		err error
	)
	switch def.Kind {
	case kindBuffer:
		target, perr := parseTarget(def.Target, gl.ArrayBuffer)
		if perr != nil {
			return perr
		}
		var b *gles.Buffer
		if b, err = gles.NewBuffer(r.ctx, target); err == nil && def.Size > 0 {
			err = b.Allocate(def.Size, gl.DynamicDraw)
		}
		res = b
	case kindTexture:
		res, err = r.createTexture(def)
	case kindFramebuffer:
		target, perr := parseTarget(def.Target, gl.Framebuffer)
		if perr != nil {
			return perr
		}
		res, err = gles.NewFramebuffer(r.ctx, target)
	case kindRenderbuffer:
		format, perr := parseFormat(def.Format)
		if perr != nil {
			return perr
		}
		var rb *gles.Renderbuffer
		if rb, err = gles.NewRenderbuffer(r.ctx); err == nil {
			err = rb.Storage(format, max(def.Width, 1), max(def.Height, 1), 0)
		}
		res = rb
	case kindVertexArray:
		res, err = gles.NewVertexArray(r.ctx)
	case kindProgram:
		res, err = gles.NewProgram(r.ctx, vertexSource, fragmentSource)
	default:
		return fmt.Errorf("%w: unknown kind %q", errScenario, def.Kind)
	}
	if err != nil {
		return err
	}
	r.res[def.ID] = res
	r.defs[def.ID] = def
	r.log.Debug("glreplay: created", "id", def.ID, "kind", def.Kind, "handle", uint32(res.Handle()))
	return nil
}

func (r *replayer) createTexture(def Resource) (*gles.Texture, error) {
	target, err := parseTarget(def.Target, gl.Texture2D)
	if err != nil {
		return nil, err
	}
	format, err := parseFormat(def.Format)
	if err != nil {
		return nil, err
	}
	t, err := gles.NewTexture(r.ctx, target, format)
	if err != nil {
		return nil, err
	}
	if target == gl.Texture2D && def.Width > 0 && def.Height > 0 {
		if err := t.SetMip(0, def.Width, def.Height, nil); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (r *replayer) run(steps []Step) error {
	for i, st := range steps {
		if err := r.step(st); err != nil {
			return fmt.Errorf("step %d (%s %s): %w", i, st.Op, st.ID, err)
		}
	}
	return nil
}

func (r *replayer) step(st Step) error {
	res, ok := r.res[st.ID]
	if !ok {
		return fmt.Errorf("%w: unknown resource %q", errScenario, st.ID)
	}
	switch st.Op {
	case opBind:
		return res.Bind()
	case opUnbind:
		return res.Unbind()
	case opDelete:
		err := res.Delete()
		delete(r.res, st.ID)
		return err
	case opWith:
		return gles.With(res, func(gles.Bindable) error {
			return r.run(st.Steps)
		})
	case opData:
		b := res.(*gles.Buffer)
		return b.SetSubData(0, make([]byte, min(b.Size(), 64)))
	case opIndex:
		return res.(*gles.Buffer).BindBase(st.Unit)
	case opUnit:
		return res.(*gles.Texture).SetUnit(st.Unit)
	case opImage:
		t := res.(*gles.Texture)
		def := r.defs[st.ID]
		w, h := max(def.Width>>st.Level, 1), max(def.Height>>st.Level, 1)
		return t.SetSubImage(st.Level, 0, 0, w, h, make([]byte, w*h*t.PixelFormat().BytesPerPixel))
	case opAttach:
		return r.attach(res.(*gles.Framebuffer), st)
	case opDetach:
		point, err := gl.ParseEnum(st.Point)
		if err != nil {
			return err
		}
		return res.(*gles.Framebuffer).Detach(point)
	case opCheck:
		return res.(*gles.Framebuffer).Check()
	case opRetarget:
		target, err := parseTarget(st.Target, 0)
		if err != nil {
			return err
		}
		rt, ok := res.(interface{ SetTarget(gl.Enum) error })
		if !ok {
			return fmt.Errorf("%w: %q cannot change target", errScenario, st.ID)
		}
		return rt.SetTarget(target)
	}
	return fmt.Errorf("%w: unknown op %q", errScenario, st.Op)
}

func (r *replayer) attach(fb *gles.Framebuffer, st Step) error {
	point, err := gl.ParseEnum(st.Point)
	if err != nil {
		return err
	}
	var a gles.Attachment
	switch src := r.res[st.Source].(type) {
	case *gles.Texture:
		a = gles.TextureAttachment{Texture: src, Level: st.Level}
	case *gles.Renderbuffer:
		a = gles.RenderbufferAttachment{Renderbuffer: src}
	default:
		return fmt.Errorf("%w: attach source %q", errScenario, st.Source)
	}
	return fb.Attach(point, a)
}

func (r *replayer) close() {
	for id, res := range r.res {
		if !res.Live() {
			continue
		}
		if err := res.Delete(); err != nil {
			r.log.Warn("glreplay: delete failed", "id", id, "err", err)
		}
	}
}
