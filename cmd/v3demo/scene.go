// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/v3gl/v3gl"
	"github.com/v3gl/v3gl/engine"
	"golang.org/x/image/colornames"
	"golang.org/x/mobile/gl"
)

// scene is the demo's frame state. GL objects are created on the first
// frame and released by close, since GL calls must come from the frame
// goroutine while Run services the context.
type scene struct {
	out       io.Writer
	info      bool
	maxFrames int

	program *v3gl.Program
	cube    *v3gl.Model
	frames  int
}

func (s *scene) frame(e *engine.Engine) error {
	glctx := e.Context
	if s.program == nil {
		if err := s.setup(glctx); err != nil {
			return err
		}
		if s.info {
			return engine.ErrStop
		}
	}

	e.Clear(colornames.Midnightblue)
	w, h := e.Size()
	if err := s.program.SetUniform(glctx, "u_mvpMatrix", mvp(float32(s.frames)*0.02, w, h)); err != nil {
		return err
	}
	if err := s.cube.Draw(glctx, s.program, false); err != nil {
		return err
	}

	s.frames++
	if s.maxFrames > 0 && s.frames >= s.maxFrames {
		return engine.ErrStop
	}
	return nil
}

func (s *scene) setup(glctx gl.Context) error {
	vs, err := v3gl.NewVertexShader(glctx, v3gl.DefaultVertexSource)
	if err != nil {
		return err
	}
	fs, err := v3gl.NewFragmentShader(glctx, v3gl.DefaultFragmentSource)
	if err != nil {
		return err
	}
	if s.info {
		printShader(s.out, "vertex", vs)
		printShader(s.out, "fragment", fs)
	}

	p, err := v3gl.NewProgram(glctx, v3gl.ProgramOptions{Vertex: vs, Fragment: fs})
	if err != nil {
		return err
	}
	if s.info {
		printProgram(s.out, p)
	}
	if err := p.Err(); err != nil {
		p.Destroy(glctx)
		return err
	}

	s.program = p
	s.cube = v3gl.NewCube(
		colornames.Red, colornames.Orange, colornames.Yellow,
		colornames.Green, colornames.Blue, colornames.Purple,
	)
	glctx.Enable(gl.DEPTH_TEST)
	return nil
}

// close releases what setup created. It runs after the last frame,
// whichever way the run ended.
func (s *scene) close(e *engine.Engine) error {
	if s.program == nil {
		return nil
	}
	s.cube.Release(e.Context, s.program)
	s.program.Destroy(e.Context)
	s.program, s.cube = nil, nil
	return nil
}

// mvp returns the model-view-projection matrix for the cube turned by
// angle radians about the y axis, seen in a w by h viewport.
func mvp(angle float32, w, h int) mgl32.Mat4 {
	aspect := float32(1)
	if w > 0 && h > 0 {
		aspect = float32(w) / float32(h)
	}
	proj := mgl32.Perspective(mgl32.DegToRad(45), aspect, 0.1, 100)
	view := mgl32.LookAtV(mgl32.Vec3{3, 2, 3}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	return proj.Mul4(view).Mul4(mgl32.HomogRotate3DY(angle))
}

func printShader(w io.Writer, stage string, s *v3gl.Shader) {
	fmt.Fprintf(w, "%s shader valid: %v\n", stage, s.Valid)
	if s.Log != "" {
		fmt.Fprintf(w, "%s shader log: %s\n", stage, s.Log)
	}
}

func printProgram(w io.Writer, p *v3gl.Program) {
	fmt.Fprintf(w, "program valid: %v\n", p.Valid)
	if p.Log != "" {
		fmt.Fprintf(w, "program log: %s\n", p.Log)
	}
	for _, a := range p.Attributes() {
		fmt.Fprintf(w, "attribute %s %s location %d\n", a.Name, typeName(a.Type), a.Location.Value)
	}
	for _, u := range p.Uniforms() {
		fmt.Fprintf(w, "uniform %s %s[%d] location %d\n", u.Name, typeName(u.Type), u.Size, u.Location.Value)
	}
}

var typeNames = map[gl.Enum]string{
	gl.FLOAT:        "float",
	gl.FLOAT_VEC2:   "vec2",
	gl.FLOAT_VEC3:   "vec3",
	gl.FLOAT_VEC4:   "vec4",
	gl.INT:          "int",
	gl.INT_VEC2:     "ivec2",
	gl.INT_VEC3:     "ivec3",
	gl.INT_VEC4:     "ivec4",
	gl.BOOL:         "bool",
	gl.BOOL_VEC2:    "bvec2",
	gl.BOOL_VEC3:    "bvec3",
	gl.BOOL_VEC4:    "bvec4",
	gl.FLOAT_MAT2:   "mat2",
	gl.FLOAT_MAT3:   "mat3",
	gl.FLOAT_MAT4:   "mat4",
	gl.SAMPLER_2D:   "sampler2D",
	gl.SAMPLER_CUBE: "samplerCube",
}

func typeName(ty gl.Enum) string {
	if name, ok := typeNames[ty]; ok {
		return name
	}
	return fmt.Sprintf("0x%04x", uint32(ty))
}
