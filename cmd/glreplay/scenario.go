package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/gles/gl"
)

// Scenario is a replayable sequence of resource operations.
type Scenario struct {
	Name string `toml:"name"`

	// Repeat runs Steps this many times; zero means once.
	Repeat int `toml:"repeat,omitempty"`

	Resources []Resource `toml:"resource"`
	Steps     []Step     `toml:"step"`
}

// Resource declares a resource created before the first step.
type Resource struct {
	ID     string `toml:"id"`
	Kind   string `toml:"kind"`
	Target string `toml:"target,omitempty"`
	Format string `toml:"format,omitempty"`
	Width  int    `toml:"width,omitempty"`
	Height int    `toml:"height,omitempty"`
	Size   int    `toml:"size,omitempty"`
}

// Step is one operation. Op selects which of the other fields apply.
type Step struct {
	Op     string `toml:"op"`
	ID     string `toml:"id,omitempty"`
	Unit   int    `toml:"unit,omitempty"`
	Point  string `toml:"point,omitempty"`
	Source string `toml:"source,omitempty"`
	Level  int    `toml:"level,omitempty"`
	Target string `toml:"target,omitempty"`

	// Steps run inside a "with" scope.
	Steps []Step `toml:"steps,omitempty"`
}

// Resource kinds.
const (
	kindBuffer       = "buffer"
	kindTexture      = "texture"
	kindFramebuffer  = "framebuffer"
	kindRenderbuffer = "renderbuffer"
	kindVertexArray  = "vertexarray"
	kindProgram      = "program"
)

// Step operations.
const (
	opBind     = "bind"
	opUnbind   = "unbind"
	opWith     = "with"
	opData     = "data"
	opUnit     = "unit"
	opImage    = "image"
	opAttach   = "attach"
	opDetach   = "detach"
	opCheck    = "check"
	opRetarget = "retarget"
	opIndex    = "index"
	opDelete   = "delete"
)

var errScenario = errors.New("scenario")

var formats = map[string]gputypes.TextureFormat{
	"r8unorm":              gputypes.TextureFormatR8Unorm,
	"rg8unorm":             gputypes.TextureFormatRG8Unorm,
	"rgba8unorm":           gputypes.TextureFormatRGBA8Unorm,
	"rgba8unorm-srgb":      gputypes.TextureFormatRGBA8UnormSrgb,
	"r32float":             gputypes.TextureFormatR32Float,
	"rgba16float":          gputypes.TextureFormatRGBA16Float,
	"rgba32float":          gputypes.TextureFormatRGBA32Float,
	"depth16unorm":         gputypes.TextureFormatDepth16Unorm,
	"depth24plus":          gputypes.TextureFormatDepth24Plus,
	"depth32float":         gputypes.TextureFormatDepth32Float,
	"depth24plus-stencil8": gputypes.TextureFormatDepth24PlusStencil8,
}

func parseFormat(name string) (gputypes.TextureFormat, error) {
	if name == "" {
		return gputypes.TextureFormatRGBA8Unorm, nil
	}
	f, ok := formats[name]
	if !ok {
		return f, fmt.Errorf("%w: unknown format %q", errScenario, name)
	}
	return f, nil
}

func parseTarget(s string, def gl.Enum) (gl.Enum, error) {
	if s == "" {
		return def, nil
	}
	e, err := gl.ParseEnum(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errScenario, err)
	}
	return e, nil
}

// LoadScenario reads a scenario file and checks it.
func LoadScenario(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeScenario(f)
}

// DecodeScenario decodes TOML from r and checks the result.
func DecodeScenario(r io.Reader) (*Scenario, error) {
	var s Scenario
	md, err := toml.NewDecoder(r).Decode(&s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errScenario, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown keys %v", errScenario, undecoded)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Encode writes s as TOML.
func (s *Scenario) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(s)
}

// Validate checks resource ids and step references without replaying.
func (s *Scenario) Validate() error {
	kinds := make(map[string]string, len(s.Resources))
	for _, r := range s.Resources {
		if r.ID == "" {
			return fmt.Errorf("%w: resource without id", errScenario)
		}
		if _, dup := kinds[r.ID]; dup {
			return fmt.Errorf("%w: duplicate resource %q", errScenario, r.ID)
		}
		switch r.Kind {
		case kindBuffer, kindTexture, kindFramebuffer, kindRenderbuffer, kindVertexArray, kindProgram:
		default:
			return fmt.Errorf("%w: resource %q: unknown kind %q", errScenario, r.ID, r.Kind)
		}
		if _, err := parseTarget(r.Target, 0); err != nil {
			return err
		}
		if r.Kind == kindTexture || r.Kind == kindRenderbuffer {
			if _, err := parseFormat(r.Format); err != nil {
				return err
			}
		}
		kinds[r.ID] = r.Kind
	}
	return validateSteps(s.Steps, kinds)
}

func validateSteps(steps []Step, kinds map[string]string) error {
	for i, st := range steps {
		kind, ok := kinds[st.ID]
		if !ok {
			return fmt.Errorf("%w: step %d (%s): unknown resource %q", errScenario, i, st.Op, st.ID)
		}
		var want string
		switch st.Op {
		case opBind, opUnbind, opDelete:
		case opWith:
			if err := validateSteps(st.Steps, kinds); err != nil {
				return err
			}
		case opData, opIndex:
			want = kindBuffer
		case opUnit, opImage:
			want = kindTexture
		case opAttach, opDetach, opCheck:
			want = kindFramebuffer
		case opRetarget:
			if _, err := parseTarget(st.Target, 0); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: step %d: unknown op %q", errScenario, i, st.Op)
		}
		if want != "" && kind != want {
			return fmt.Errorf("%w: step %d: %s needs a %s, %q is a %s", errScenario, i, st.Op, want, st.ID, kind)
		}
		if st.Op == opAttach || st.Op == opDetach {
			if _, err := gl.ParseEnum(st.Point); err != nil {
				return fmt.Errorf("%w: step %d: %w", errScenario, i, err)
			}
		}
		if st.Op == opAttach {
			if k := kinds[st.Source]; k != kindTexture && k != kindRenderbuffer {
				return fmt.Errorf("%w: step %d: attach source %q is not a texture or renderbuffer", errScenario, i, st.Source)
			}
		}
	}
	return nil
}

// exampleScenario renders into an offscreen framebuffer while a draw loop
// keeps rebinding the same vertex buffer and texture.
func exampleScenario() *Scenario {
	return &Scenario{
		Name:   "offscreen frame",
		Repeat: 4,
		Resources: []Resource{
			{ID: "vbo", Kind: kindBuffer, Target: "ARRAY_BUFFER", Size: 256},
			{ID: "ibo", Kind: kindBuffer, Target: "ELEMENT_ARRAY_BUFFER", Size: 64},
			{ID: "vao", Kind: kindVertexArray},
			{ID: "albedo", Kind: kindTexture, Target: "TEXTURE_2D", Format: "rgba8unorm", Width: 64, Height: 64},
			{ID: "color", Kind: kindTexture, Target: "TEXTURE_2D", Format: "rgba8unorm", Width: 256, Height: 256},
			{ID: "depth", Kind: kindRenderbuffer, Format: "depth24plus-stencil8", Width: 256, Height: 256},
			{ID: "fbo", Kind: kindFramebuffer, Target: "FRAMEBUFFER"},
			{ID: "shader", Kind: kindProgram},
		},
		Steps: []Step{
			{Op: opAttach, ID: "fbo", Point: "COLOR_ATTACHMENT0", Source: "color"},
			{Op: opAttach, ID: "fbo", Point: "DEPTH_STENCIL_ATTACHMENT", Source: "depth"},
			{Op: opCheck, ID: "fbo"},
			{Op: opBind, ID: "fbo"},
			{Op: opBind, ID: "shader"},
			{Op: opBind, ID: "vao"},
			{Op: opUnit, ID: "albedo", Unit: 1},
			{Op: opBind, ID: "albedo"},
			{Op: opWith, ID: "vbo", Steps: []Step{
				{Op: opData, ID: "vbo"},
			}},
			{Op: opBind, ID: "vbo"},
			{Op: opBind, ID: "albedo"},
			{Op: opBind, ID: "shader"},
		},
	}
}
