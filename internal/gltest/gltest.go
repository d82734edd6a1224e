// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gltest provides an in-memory gl.Context for tests.
//
// The Context does not render anything. It keeps enough driver state to
// exercise code that compiles shaders, links programs, reflects their
// attributes and uniforms and uploads buffers, and it records every call
// it receives so tests can compare them with go-cmp.
//
// Shaders compile when their source declares main and contains no #error
// directive. Linking parses the attribute and uniform declarations of the
// attached sources, applies pending glBindAttribLocation bindings and
// assigns the remaining attribute locations in declaration order.
//
// Only the methods the v3gl packages use are implemented; calling any other
// gl.Context method panics.
package gltest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/exp/slices"
	"golang.org/x/mobile/gl"
)

// A Call is one recorded gl.Context method call.
type Call struct {
	Name string
	Args []interface{}
}

func (c Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = fmt.Sprint(a)
	}
	return c.Name + "(" + strings.Join(args, ", ") + ")"
}

// Context is a fake gl.Context. The zero value is not usable; call
// NewContext.
type Context struct {
	// The embedded interface is nil; it only supplies the methods the
	// fake does not implement.
	gl.Context

	mu sync.Mutex

	calls    []Call
	next     uint32
	shaders  map[uint32]*shader
	programs map[uint32]*program
	buffers  map[uint32]*buffer
	bound    map[gl.Enum]uint32
	current  uint32
	errs     []gl.Enum

	// NoObjects makes CreateShader and CreateProgram fail by returning
	// the zero object.
	NoObjects bool
}

type shader struct {
	ty       gl.Enum
	src      string
	compiled bool
	log      string
	deleted  bool
}

type variable struct {
	name string
	ty   gl.Enum
	size int
	loc  int
}

type program struct {
	attached []uint32
	bindings map[string]uint
	linked   bool
	log      string
	attribs  []variable
	uniforms []variable
	deleted  bool
}

type buffer struct {
	data    []byte
	usage   gl.Enum
	deleted bool
}

var _ gl.Context = (*Context)(nil)

// NewContext returns an empty fake context.
func NewContext() *Context {
	return &Context{
		shaders:  make(map[uint32]*shader),
		programs: make(map[uint32]*program),
		buffers:  make(map[uint32]*buffer),
		bound:    make(map[gl.Enum]uint32),
	}
}

// record must be called with c.mu held.
func (c *Context) record(name string, args ...interface{}) {
	c.calls = append(c.calls, Call{Name: name, Args: args})
}

// Calls returns the calls recorded since the last Reset.
func (c *Context) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.calls...)
}

// CallNames returns the names of the recorded calls, optionally only
// those in keep.
func (c *Context) CallNames(keep ...string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var names []string
	for _, call := range c.calls {
		if len(keep) == 0 || slices.Contains(keep, call.Name) {
			names = append(names, call.Name)
		}
	}
	return names
}

// Count returns how many times the named method was called.
func (c *Context) Count(name string) int {
	return len(c.CallNames(name))
}

// Reset forgets the recorded calls but keeps driver state.
func (c *Context) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = nil
}

// Diff compares the recorded calls with want using cmp.Diff.
func (c *Context) Diff(want []Call) string {
	return cmp.Diff(want, c.Calls())
}

// PushError queues e to be returned by the next GetError call.
func (c *Context) PushError(e gl.Enum) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs = append(c.errs, e)
}

// BufferContents returns the data last uploaded to b.
func (c *Context) BufferContents(b gl.Buffer) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if buf := c.buffers[b.Value]; buf != nil {
		return buf.data
	}
	return nil
}

// Live returns the number of shader, program and buffer objects that have
// been created and not deleted.
func (c *Context) Live() (shaders, programs, buffers int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.shaders {
		if !s.deleted {
			shaders++
		}
	}
	for _, p := range c.programs {
		if !p.deleted {
			programs++
		}
	}
	for _, b := range c.buffers {
		if !b.deleted {
			buffers++
		}
	}
	return shaders, programs, buffers
}

// CurrentProgram returns the program last passed to UseProgram.
func (c *Context) CurrentProgram() gl.Program {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gl.Program{Value: c.current}
}

func (c *Context) newName() uint32 {
	c.next++
	return c.next
}

func (c *Context) CreateShader(ty gl.Enum) gl.Shader {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("CreateShader", ty)
	if c.NoObjects {
		return gl.Shader{}
	}
	n := c.newName()
	c.shaders[n] = &shader{ty: ty}
	return gl.Shader{Value: n}
}

func (c *Context) ShaderSource(s gl.Shader, src string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("ShaderSource", s.Value, src)
	if sh := c.shaders[s.Value]; sh != nil {
		sh.src = src
	}
}

var (
	mainRE  = regexp.MustCompile(`\bvoid\s+main\s*\(`)
	errorRE = regexp.MustCompile(`(?m)^\s*#error\s*(.*)$`)
)

func (c *Context) CompileShader(s gl.Shader) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("CompileShader", s.Value)
	sh := c.shaders[s.Value]
	if sh == nil {
		return
	}
	switch {
	case errorRE.MatchString(sh.src):
		sh.compiled = false
		sh.log = "ERROR: 0:1: '#error' : " + strings.TrimSpace(errorRE.FindStringSubmatch(sh.src)[1])
	case !mainRE.MatchString(sh.src):
		sh.compiled = false
		sh.log = "ERROR: 0:1: 'main' : function not defined"
	default:
		sh.compiled = true
		sh.log = ""
	}
}

func (c *Context) GetShaderi(s gl.Shader, pname gl.Enum) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("GetShaderi", s.Value, pname)
	sh := c.shaders[s.Value]
	if sh == nil {
		return 0
	}
	switch pname {
	case gl.COMPILE_STATUS:
		return boolInt(sh.compiled)
	case gl.SHADER_TYPE:
		return int(sh.ty)
	case gl.DELETE_STATUS:
		return boolInt(sh.deleted)
	}
	return 0
}

func (c *Context) GetShaderInfoLog(s gl.Shader) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("GetShaderInfoLog", s.Value)
	if sh := c.shaders[s.Value]; sh != nil {
		return sh.log
	}
	return ""
}

func (c *Context) DeleteShader(s gl.Shader) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("DeleteShader", s.Value)
	if sh := c.shaders[s.Value]; sh != nil {
		sh.deleted = true
	}
}

func (c *Context) CreateProgram() gl.Program {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("CreateProgram")
	if c.NoObjects {
		return gl.Program{}
	}
	n := c.newName()
	c.programs[n] = &program{bindings: make(map[string]uint)}
	return gl.Program{Init: true, Value: n}
}

func (c *Context) AttachShader(p gl.Program, s gl.Shader) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("AttachShader", p.Value, s.Value)
	if pr := c.programs[p.Value]; pr != nil {
		pr.attached = append(pr.attached, s.Value)
	}
}

func (c *Context) BindAttribLocation(p gl.Program, a gl.Attrib, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("BindAttribLocation", p.Value, a.Value, name)
	if pr := c.programs[p.Value]; pr != nil {
		pr.bindings[name] = a.Value
	}
}

func (c *Context) LinkProgram(p gl.Program) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("LinkProgram", p.Value)
	pr := c.programs[p.Value]
	if pr == nil {
		return
	}
	pr.linked, pr.log = false, ""
	pr.attribs, pr.uniforms = nil, nil

	var vs, fs *shader
	for _, n := range pr.attached {
		sh := c.shaders[n]
		switch {
		case sh == nil:
		case !sh.compiled:
			pr.log = "ERROR: one or more attached shaders not successfully compiled"
			return
		case sh.ty == gl.VERTEX_SHADER:
			vs = sh
		case sh.ty == gl.FRAGMENT_SHADER:
			fs = sh
		}
	}
	if vs == nil || fs == nil {
		pr.log = "ERROR: program needs a vertex and a fragment shader"
		return
	}

	attribs, err := declarations(vs.src, "attribute")
	if err != nil {
		pr.log = err.Error()
		return
	}
	var uniforms []variable
	for _, src := range []string{vs.src, fs.src} {
		us, err := declarations(src, "uniform")
		if err != nil {
			pr.log = err.Error()
			return
		}
		for _, u := range us {
			if !slices.ContainsFunc(uniforms, func(v variable) bool { return v.name == u.name }) {
				uniforms = append(uniforms, u)
			}
		}
	}

	used := make(map[int]bool)
	for i, a := range attribs {
		if loc, ok := pr.bindings[a.name]; ok {
			attribs[i].loc = int(loc)
			used[int(loc)] = true
		} else {
			attribs[i].loc = -1
		}
	}
	next := 0
	for i := range attribs {
		if attribs[i].loc >= 0 {
			continue
		}
		for used[next] {
			next++
		}
		attribs[i].loc = next
		used[next] = true
	}

	loc := 0
	for i := range uniforms {
		uniforms[i].loc = loc
		loc += uniforms[i].size
	}

	pr.attribs, pr.uniforms, pr.linked = attribs, uniforms, true
}

func (c *Context) GetProgrami(p gl.Program, pname gl.Enum) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("GetProgrami", p.Value, pname)
	pr := c.programs[p.Value]
	if pr == nil {
		return 0
	}
	switch pname {
	case gl.LINK_STATUS:
		return boolInt(pr.linked)
	case gl.ACTIVE_ATTRIBUTES:
		return len(pr.attribs)
	case gl.ACTIVE_UNIFORMS:
		return len(pr.uniforms)
	case gl.ATTACHED_SHADERS:
		return len(pr.attached)
	case gl.DELETE_STATUS:
		return boolInt(pr.deleted)
	}
	return 0
}

func (c *Context) GetProgramInfoLog(p gl.Program) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("GetProgramInfoLog", p.Value)
	if pr := c.programs[p.Value]; pr != nil {
		return pr.log
	}
	return ""
}

func (c *Context) GetActiveAttrib(p gl.Program, index uint32) (name string, size int, ty gl.Enum) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("GetActiveAttrib", p.Value, index)
	pr := c.programs[p.Value]
	if pr == nil || int(index) >= len(pr.attribs) {
		return "", 0, 0
	}
	a := pr.attribs[index]
	return a.name, a.size, a.ty
}

func (c *Context) GetActiveUniform(p gl.Program, index uint32) (name string, size int, ty gl.Enum) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("GetActiveUniform", p.Value, index)
	pr := c.programs[p.Value]
	if pr == nil || int(index) >= len(pr.uniforms) {
		return "", 0, 0
	}
	u := pr.uniforms[index]
	name = u.name
	if u.size > 1 {
		name += "[0]"
	}
	return name, u.size, u.ty
}

func (c *Context) GetAttribLocation(p gl.Program, name string) gl.Attrib {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("GetAttribLocation", p.Value, name)
	if pr := c.programs[p.Value]; pr != nil {
		for _, a := range pr.attribs {
			if a.name == name {
				return gl.Attrib{Value: uint(a.loc)}
			}
		}
	}
	return gl.Attrib{Value: ^uint(0)}
}

func (c *Context) GetUniformLocation(p gl.Program, name string) gl.Uniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("GetUniformLocation", p.Value, name)
	if pr := c.programs[p.Value]; pr != nil {
		base := strings.TrimSuffix(name, "[0]")
		for _, u := range pr.uniforms {
			if u.name == base {
				return gl.Uniform{Value: int32(u.loc)}
			}
		}
	}
	return gl.Uniform{Value: -1}
}

func (c *Context) UseProgram(p gl.Program) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("UseProgram", p.Value)
	c.current = p.Value
}

func (c *Context) DeleteProgram(p gl.Program) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("DeleteProgram", p.Value)
	if pr := c.programs[p.Value]; pr != nil {
		pr.deleted = true
	}
}

func (c *Context) Uniform1i(dst gl.Uniform, v int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("Uniform1i", dst.Value, v)
}

func (c *Context) Uniform1iv(dst gl.Uniform, src []int32) { c.uniformiv("Uniform1iv", dst, src) }
func (c *Context) Uniform2iv(dst gl.Uniform, src []int32) { c.uniformiv("Uniform2iv", dst, src) }
func (c *Context) Uniform3iv(dst gl.Uniform, src []int32) { c.uniformiv("Uniform3iv", dst, src) }
func (c *Context) Uniform4iv(dst gl.Uniform, src []int32) { c.uniformiv("Uniform4iv", dst, src) }

func (c *Context) uniformiv(name string, dst gl.Uniform, src []int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record(name, dst.Value, append([]int32(nil), src...))
}

func (c *Context) Uniform1f(dst gl.Uniform, v float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("Uniform1f", dst.Value, v)
}

func (c *Context) Uniform1fv(dst gl.Uniform, src []float32) { c.uniformfv("Uniform1fv", dst, src) }
func (c *Context) Uniform2fv(dst gl.Uniform, src []float32) { c.uniformfv("Uniform2fv", dst, src) }
func (c *Context) Uniform3fv(dst gl.Uniform, src []float32) { c.uniformfv("Uniform3fv", dst, src) }
func (c *Context) Uniform4fv(dst gl.Uniform, src []float32) { c.uniformfv("Uniform4fv", dst, src) }

func (c *Context) UniformMatrix2fv(dst gl.Uniform, src []float32) {
	c.uniformfv("UniformMatrix2fv", dst, src)
}

func (c *Context) UniformMatrix3fv(dst gl.Uniform, src []float32) {
	c.uniformfv("UniformMatrix3fv", dst, src)
}

func (c *Context) UniformMatrix4fv(dst gl.Uniform, src []float32) {
	c.uniformfv("UniformMatrix4fv", dst, src)
}

func (c *Context) uniformfv(name string, dst gl.Uniform, src []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record(name, dst.Value, append([]float32(nil), src...))
}

func (c *Context) CreateBuffer() gl.Buffer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("CreateBuffer")
	n := c.newName()
	c.buffers[n] = &buffer{}
	return gl.Buffer{Value: n}
}

func (c *Context) BindBuffer(target gl.Enum, b gl.Buffer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("BindBuffer", target, b.Value)
	c.bound[target] = b.Value
}

func (c *Context) BufferData(target gl.Enum, src []byte, usage gl.Enum) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("BufferData", target, len(src), usage)
	if b := c.buffers[c.bound[target]]; b != nil {
		b.data = append([]byte(nil), src...)
		b.usage = usage
	}
}

func (c *Context) DeleteBuffer(b gl.Buffer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("DeleteBuffer", b.Value)
	if buf := c.buffers[b.Value]; buf != nil {
		buf.deleted = true
	}
}

func (c *Context) EnableVertexAttribArray(a gl.Attrib) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("EnableVertexAttribArray", a.Value)
}

func (c *Context) DisableVertexAttribArray(a gl.Attrib) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("DisableVertexAttribArray", a.Value)
}

func (c *Context) VertexAttribPointer(dst gl.Attrib, size int, ty gl.Enum, normalized bool, stride, offset int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("VertexAttribPointer", dst.Value, size, ty, normalized, stride, offset)
}

func (c *Context) DrawArrays(mode gl.Enum, first, count int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("DrawArrays", mode, first, count)
}

func (c *Context) DrawElements(mode gl.Enum, count int, ty gl.Enum, offset int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("DrawElements", mode, count, ty, offset)
}

func (c *Context) Viewport(x, y, width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("Viewport", x, y, width, height)
}

func (c *Context) ClearColor(red, green, blue, alpha float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("ClearColor", red, green, blue, alpha)
}

func (c *Context) Clear(mask gl.Enum) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("Clear", mask)
}

func (c *Context) Enable(capability gl.Enum) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("Enable", capability)
}

func (c *Context) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("Flush")
}

func (c *Context) GetError() gl.Enum {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("GetError")
	if len(c.errs) == 0 {
		return gl.NO_ERROR
	}
	e := c.errs[0]
	c.errs = c.errs[1:]
	return e
}

// GLSL type names and the GL enums the driver reports for them. The
// sampler3D and sampler2DShadow entries exist only in GLSL ES 3.00 and
// have no Uniform setter.
var glslTypes = map[string]gl.Enum{
	"bool":            gl.BOOL,
	"bvec2":           gl.BOOL_VEC2,
	"bvec3":           gl.BOOL_VEC3,
	"bvec4":           gl.BOOL_VEC4,
	"int":             gl.INT,
	"ivec2":           gl.INT_VEC2,
	"ivec3":           gl.INT_VEC3,
	"ivec4":           gl.INT_VEC4,
	"float":           gl.FLOAT,
	"vec2":            gl.FLOAT_VEC2,
	"vec3":            gl.FLOAT_VEC3,
	"vec4":            gl.FLOAT_VEC4,
	"mat2":            gl.FLOAT_MAT2,
	"mat3":            gl.FLOAT_MAT3,
	"mat4":            gl.FLOAT_MAT4,
	"sampler2D":       gl.SAMPLER_2D,
	"samplerCube":     gl.SAMPLER_CUBE,
	"sampler3D":       0x8B5F,
	"sampler2DShadow": 0x8B62,
}

var declRE = regexp.MustCompile(`(?m)^\s*(attribute|uniform)\s+(?:(?:lowp|mediump|highp)\s+)?(\w+)\s+(\w+)\s*(?:\[\s*(\d+)\s*\])?\s*;`)

// declarations returns the variables declared with qualifier in src.
func declarations(src, qualifier string) ([]variable, error) {
	var vars []variable
	for _, m := range declRE.FindAllStringSubmatch(src, -1) {
		if m[1] != qualifier {
			continue
		}
		ty, ok := glslTypes[m[2]]
		if !ok {
			return nil, fmt.Errorf("ERROR: 0:1: '%s' : syntax error", m[2])
		}
		size := 1
		if m[4] != "" {
			size, _ = strconv.Atoi(m[4])
		}
		vars = append(vars, variable{name: m[3], ty: ty, size: size})
	}
	return vars, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
