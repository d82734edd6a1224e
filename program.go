// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package v3gl

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"
	"golang.org/x/mobile/gl"
	"golang.org/x/xerrors"
)

// ProgramOptions holds the two stages of a program.
type ProgramOptions struct {
	Vertex   *Shader
	Fragment *Shader
}

// A Program is a linked pair of vertex and fragment shaders together with
// the attributes and uniforms the driver reports for it.
//
// A Program also owns the GPU buffers of the Models drawn with it. They are
// cached by name until the program is destroyed or the model asks for them
// to be released.
type Program struct {
	Program  gl.Program
	Vertex   *Shader
	Fragment *Shader

	// Valid reports whether the last link succeeded.
	Valid bool

	// Log is the driver's info log for the last link.
	Log string

	attributes map[string]*Attribute
	uniforms   map[string]*Uniform
	buffers    map[string]gl.Buffer
	destroyed  bool
}

// NewProgram attaches opts.Vertex and opts.Fragment to a new program,
// links it and reflects its active attributes and uniforms.
//
// A link failure is recorded in Valid and Log and is not an error. An
// error is returned if a shader is missing or of the wrong stage, if the
// driver hands out no program object, or if an active uniform has a type
// Uniform cannot write (ErrUnknownUniformType).
func NewProgram(glctx gl.Context, opts ProgramOptions) (*Program, error) {
	if opts.Vertex == nil || opts.Fragment == nil {
		return nil, xerrors.New("v3gl: program needs a vertex and a fragment shader")
	}
	if opts.Vertex.Type != gl.VERTEX_SHADER {
		return nil, xerrors.Errorf("v3gl: %s shader given as vertex stage", stageName(opts.Vertex.Type))
	}
	if opts.Fragment.Type != gl.FRAGMENT_SHADER {
		return nil, xerrors.Errorf("v3gl: %s shader given as fragment stage", stageName(opts.Fragment.Type))
	}

	program := glctx.CreateProgram()
	if program.Value == 0 {
		return nil, xerrors.New("v3gl: no programs available")
	}
	glctx.AttachShader(program, opts.Vertex.Shader)
	glctx.AttachShader(program, opts.Fragment.Shader)

	p := &Program{
		Program:  program,
		Vertex:   opts.Vertex,
		Fragment: opts.Fragment,
		buffers:  make(map[string]gl.Buffer),
	}
	if err := p.Link(glctx); err != nil {
		glctx.DeleteProgram(program)
		return nil, err
	}
	return p, nil
}

// Link relinks the program, for example after Attribute.SetIndex, and
// rebuilds the attribute and uniform tables from the result. Attributes
// and Uniforms obtained before the call are stale afterwards.
//
// If an active uniform has a type Uniform cannot write, Link returns an
// error wrapping ErrUnknownUniformType and the program has no uniforms.
func (p *Program) Link(glctx gl.Context) error {
	glctx.LinkProgram(p.Program)
	p.Valid = glctx.GetProgrami(p.Program, gl.LINK_STATUS) != 0
	p.Log = strings.TrimSpace(glctx.GetProgramInfoLog(p.Program))
	if !p.Valid {
		Logger().Warn("program link failed",
			zap.Uint32("program", p.Program.Value),
			zap.String("log", p.Log))
	}

	p.attributes = p.linkAttributes(glctx)
	uniforms, err := p.linkUniforms(glctx)
	if err != nil {
		p.uniforms = nil
		return err
	}
	p.uniforms = uniforms
	return nil
}

func (p *Program) linkAttributes(glctx gl.Context) map[string]*Attribute {
	n := glctx.GetProgrami(p.Program, gl.ACTIVE_ATTRIBUTES)
	attributes := make(map[string]*Attribute, n)
	for i := 0; i < n; i++ {
		name, size, ty := glctx.GetActiveAttrib(p.Program, uint32(i))
		if name == "" {
			continue
		}
		a := &Attribute{
			Name:     name,
			Type:     ty,
			Size:     size,
			Location: glctx.GetAttribLocation(p.Program, name),
		}
		attributes[name] = a
		Logger().Debug("attribute",
			zap.Uint32("program", p.Program.Value),
			zap.String("name", name),
			zap.Uint("location", a.Location.Value))
	}
	return attributes
}

func (p *Program) linkUniforms(glctx gl.Context) (map[string]*Uniform, error) {
	n := glctx.GetProgrami(p.Program, gl.ACTIVE_UNIFORMS)
	uniforms := make(map[string]*Uniform, n)
	for i := 0; i < n; i++ {
		name, size, ty := glctx.GetActiveUniform(p.Program, uint32(i))
		if name == "" {
			continue
		}
		loc := glctx.GetUniformLocation(p.Program, name)
		// Arrays are reported as "name[0]".
		name = strings.TrimSuffix(name, "[0]")
		u, err := newUniform(name, ty, size, loc)
		if err != nil {
			return nil, err
		}
		uniforms[name] = u
		Logger().Debug("uniform",
			zap.Uint32("program", p.Program.Value),
			zap.String("name", name),
			zap.Int32("location", loc.Value))
	}
	return uniforms, nil
}

// Err returns nil if the program linked, and an error carrying the link
// log otherwise. A program whose shaders failed to compile reports the
// first compile failure instead.
func (p *Program) Err() error {
	if err := p.Vertex.Err(); err != nil {
		return err
	}
	if err := p.Fragment.Err(); err != nil {
		return err
	}
	if p.Valid {
		return nil
	}
	return &compileError{what: "program link", log: p.Log}
}

// Use makes p the current program.
func (p *Program) Use(glctx gl.Context) { glctx.UseProgram(p.Program) }

// Attribute returns the active attribute called name, or nil.
func (p *Program) Attribute(name string) *Attribute { return p.attributes[name] }

// Uniform returns the active uniform called name, or nil.
func (p *Program) Uniform(name string) *Uniform { return p.uniforms[name] }

// Attributes returns the active attributes sorted by name.
func (p *Program) Attributes() []*Attribute {
	out := make([]*Attribute, 0, len(p.attributes))
	for _, a := range p.attributes {
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b *Attribute) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Uniforms returns the active uniforms sorted by name.
func (p *Program) Uniforms() []*Uniform {
	out := make([]*Uniform, 0, len(p.uniforms))
	for _, u := range p.uniforms {
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b *Uniform) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// SetUniform is shorthand for p.Uniform(name).Set(glctx, v). It returns an
// error if p has no active uniform called name.
func (p *Program) SetUniform(glctx gl.Context, name string, v interface{}) error {
	u := p.uniforms[name]
	if u == nil {
		return xerrors.Errorf("v3gl: no active uniform %q", name)
	}
	return u.Set(glctx, v)
}

// buffer binds the cached buffer called key to target, creating it first
// if needed. The buffer's contents are (re)uploaded from data when the
// buffer is new or update is set; otherwise the existing contents are
// reused as they are.
func (p *Program) buffer(glctx gl.Context, key string, target gl.Enum, update bool, data func() []byte) gl.Buffer {
	b, ok := p.buffers[key]
	if !ok {
		b = glctx.CreateBuffer()
		p.buffers[key] = b
		update = true
	}
	glctx.BindBuffer(target, b)
	if update {
		src := data()
		glctx.BufferData(target, src, gl.STATIC_DRAW)
		Logger().Debug("buffer upload",
			zap.String("key", key),
			zap.Uint32("buffer", b.Value),
			zap.Int("bytes", len(src)))
	}
	return b
}

// ReleaseBuffers deletes the cached buffers of the model with the given
// identifier.
func (p *Program) ReleaseBuffers(glctx gl.Context, id string) {
	for _, suffix := range bufferSuffixes {
		key := id + suffix
		if b, ok := p.buffers[key]; ok {
			glctx.DeleteBuffer(b)
			delete(p.buffers, key)
		}
	}
}

// Destroy deletes the program, its two shaders and every cached buffer.
// Calls after the first do nothing.
func (p *Program) Destroy(glctx gl.Context) {
	if p.destroyed {
		return
	}
	p.destroyed = true
	for key, b := range p.buffers {
		glctx.DeleteBuffer(b)
		delete(p.buffers, key)
	}
	glctx.DeleteProgram(p.Program)
	p.Vertex.Destroy(glctx)
	p.Fragment.Destroy(glctx)
}
