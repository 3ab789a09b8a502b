package gles

import (
	"fmt"
	"slices"

	"github.com/gogpu/gles/gl"
	"github.com/gogpu/gles/internal/cache"
)

// Program is a linked GLSL ES program. Its binding target is the
// CURRENT_PROGRAM of the Context.
//
// Uniform locations are cached per program, and uniform values written
// through the setters are remembered so repeated writes of the same value
// are skipped.
type Program struct {
	object
	uniforms *cache.Cache[string, gl.Uniform]
	attribs  map[string]int
	values   map[gl.Uniform][]float32
}

// NewProgram compiles vertexSrc and fragmentSrc and links them. On failure
// no native object is left behind; compile failures return *ShaderError and
// link failures *LinkError.
func NewProgram(c *Context, vertexSrc, fragmentSrc string) (*Program, error) {
	c.lock()
	defer c.unlock()

	vs, err := c.compile(gl.VertexShader, vertexSrc)
	if err != nil {
		return nil, err
	}
	defer c.api.DeleteShader(vs)
	fs, err := c.compile(gl.FragmentShader, fragmentSrc)
	if err != nil {
		return nil, err
	}
	defer c.api.DeleteShader(fs)

	h, err := c.create(kindProgram)
	if err != nil {
		return nil, err
	}
	c.api.AttachShader(h, vs)
	c.api.AttachShader(h, fs)
	c.api.LinkProgram(h)
	c.api.DetachShader(h, vs)
	c.api.DetachShader(h, fs)
	if c.api.GetProgrami(h, gl.LinkStatus) == 0 {
		log := c.api.GetProgramInfoLog(h)
		c.destroy(kindProgram, h)
		c.log().Warn("gles: program link failed", "log", log)
		return nil, &LinkError{Log: log}
	}

	return &Program{
		object:   object{ctx: c, kind: kindProgram, handle: h, target: gl.CurrentProgram},
		uniforms: cache.New[string, gl.Uniform](c.opts.uniformLimit),
		attribs:  make(map[string]int),
		values:   make(map[gl.Uniform][]float32),
	}, nil
}

func (c *Context) compile(stage gl.Enum, src string) (gl.Object, error) {
	s := c.api.CreateShader(stage)
	if !s.Valid() {
		return gl.Null, fmt.Errorf("%w: create shader %s", ErrUnsupported, stage)
	}
	c.api.ShaderSource(s, src)
	c.api.CompileShader(s)
	if c.api.GetShaderi(s, gl.CompileStatus) == 0 {
		log := c.api.GetShaderInfoLog(s)
		c.api.DeleteShader(s)
		return gl.Null, &ShaderError{Stage: stage, Log: log}
	}
	return s, nil
}

// Use makes the program current. It is Bind under its GL name.
func (p *Program) Use() error {
	return p.Bind()
}

// Delete releases the program. A program that is current stays current on
// the native side until another program is used.
func (p *Program) Delete() error {
	if err := p.object.Delete(); err != nil {
		return err
	}
	p.ctx.lock()
	defer p.ctx.unlock()
	p.uniforms.Clear()
	clear(p.values)
	return nil
}

// UniformLocation returns the location of an active uniform, or
// gl.NoUniform for names the linker removed.
func (p *Program) UniformLocation(name string) (gl.Uniform, error) {
	p.ctx.lock()
	defer p.ctx.unlock()
	return p.location(name)
}

func (p *Program) location(name string) (gl.Uniform, error) {
	if err := p.usable(); err != nil {
		return gl.NoUniform, err
	}
	return p.uniforms.GetOrCreate(name, func() (gl.Uniform, error) {
		return p.ctx.api.GetUniformLocation(p.handle, name), nil
	})
}

// UniformCacheStats reports the uniform location cache counters.
func (p *Program) UniformCacheStats() (hits, misses, evictions uint64) {
	p.ctx.lock()
	defer p.ctx.unlock()
	s := p.uniforms.Stats()
	return s.Hits, s.Misses, s.Evictions
}

// AttribLocation returns the location of an active vertex attribute.
// ok is false if the linker reports no such attribute.
func (p *Program) AttribLocation(name string) (a gl.Attrib, ok bool, err error) {
	p.ctx.lock()
	defer p.ctx.unlock()
	if err := p.usable(); err != nil {
		return 0, false, err
	}
	loc, cached := p.attribs[name]
	if !cached {
		loc = p.ctx.api.GetAttribLocation(p.handle, name)
		p.attribs[name] = loc
	}
	if loc < 0 {
		return 0, false, nil
	}
	return gl.Attrib(loc), true, nil
}

// Validate checks whether the program can run in the current native state.
// Failures are returned as *LinkError carrying the info log.
func (p *Program) Validate() error {
	c := p.ctx
	c.lock()
	defer c.unlock()
	if err := p.usable(); err != nil {
		return err
	}
	c.api.ValidateProgram(p.handle)
	if c.api.GetProgrami(p.handle, gl.ValidateStatus) == 0 {
		return &LinkError{Log: c.api.GetProgramInfoLog(p.handle)}
	}
	return nil
}

// SetInt sets an int or sampler uniform.
func (p *Program) SetInt(name string, v int) error {
	return p.setUniform(name, []float32{float32(v)}, func(u gl.Uniform) {
		p.ctx.api.Uniform1i(u, v)
	})
}

// SetFloat sets a float, vec2, vec3 or vec4 uniform from 1 to 4 values.
func (p *Program) SetFloat(name string, v ...float32) error {
	api := p.ctx.api
	var fn func(gl.Uniform)
	switch len(v) {
	case 1:
		fn = func(u gl.Uniform) { api.Uniform1f(u, v[0]) }
	case 2:
		fn = func(u gl.Uniform) { api.Uniform2f(u, v[0], v[1]) }
	case 3:
		fn = func(u gl.Uniform) { api.Uniform3f(u, v[0], v[1], v[2]) }
	case 4:
		fn = func(u gl.Uniform) { api.Uniform4f(u, v[0], v[1], v[2], v[3]) }
	default:
		return fmt.Errorf("%w: %d uniform components", ErrInvalidArgument, len(v))
	}
	return p.setUniform(name, v, fn)
}

// SetMat4 sets a mat4 uniform from column-major values.
func (p *Program) SetMat4(name string, m [16]float32) error {
	return p.setUniform(name, m[:], func(u gl.Uniform) {
		p.ctx.api.UniformMatrix4fv(u, false, m[:])
	})
}

// setUniform writes one uniform with the program temporarily current.
// Inactive uniforms and unchanged values are skipped without native calls.
func (p *Program) setUniform(name string, v []float32, set func(gl.Uniform)) error {
	c := p.ctx
	c.lock()
	defer c.unlock()
	u, err := p.location(name)
	if err != nil {
		return err
	}
	if !u.Valid() {
		return nil
	}
	if cur, ok := p.values[u]; ok && slices.Equal(cur, v) {
		return nil
	}
	err = c.withSlot(kindProgram, p.slot(), p.handle, func() error {
		set(u)
		return c.checkError("Uniform")
	})
	if err != nil {
		return err
	}
	p.values[u] = slices.Clone(v)
	return nil
}
