// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package v3gl

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/mobile/gl"
	"golang.org/x/xerrors"
)

// ShaderOptions describes a shader to compile.
type ShaderOptions struct {
	// Type is gl.VERTEX_SHADER or gl.FRAGMENT_SHADER.
	Type gl.Enum

	// Source is the GLSL ES source text.
	Source string
}

// A Shader is a compiled shader object.
//
// A Shader is immutable once created. Destroy releases the driver object.
type Shader struct {
	Shader gl.Shader
	Type   gl.Enum
	Source string

	// Valid reports whether the driver compiled Source successfully.
	Valid bool

	// Log is the driver's info log for the compile. It may be non-empty
	// even for a valid shader.
	Log string

	destroyed bool
}

// NewShader compiles a shader.
//
// A compile failure is not an error: it is recorded in Valid and Log. An
// error is returned only for a bad type or when the driver hands out no
// shader object.
func NewShader(glctx gl.Context, opts ShaderOptions) (*Shader, error) {
	switch opts.Type {
	case gl.VERTEX_SHADER, gl.FRAGMENT_SHADER:
	default:
		return nil, xerrors.Errorf("v3gl: invalid shader type %v", opts.Type)
	}

	shader := glctx.CreateShader(opts.Type)
	if shader.Value == 0 {
		return nil, xerrors.Errorf("v3gl: could not create shader (type %v)", opts.Type)
	}
	glctx.ShaderSource(shader, opts.Source)
	glctx.CompileShader(shader)

	s := &Shader{
		Shader: shader,
		Type:   opts.Type,
		Source: opts.Source,
		Valid:  glctx.GetShaderi(shader, gl.COMPILE_STATUS) != 0,
		Log:    strings.TrimSpace(glctx.GetShaderInfoLog(shader)),
	}
	if !s.Valid {
		Logger().Warn("shader compile failed",
			zap.String("type", stageName(s.Type)),
			zap.Uint32("shader", shader.Value),
			zap.String("log", s.Log))
	}
	return s, nil
}

// NewVertexShader compiles src as a vertex shader.
func NewVertexShader(glctx gl.Context, src string) (*Shader, error) {
	return NewShader(glctx, ShaderOptions{Type: gl.VERTEX_SHADER, Source: src})
}

// NewFragmentShader compiles src as a fragment shader.
func NewFragmentShader(glctx gl.Context, src string) (*Shader, error) {
	return NewShader(glctx, ShaderOptions{Type: gl.FRAGMENT_SHADER, Source: src})
}

// Err returns nil if the shader compiled, and an error carrying the
// compile log otherwise.
func (s *Shader) Err() error {
	if s.Valid {
		return nil
	}
	return &compileError{what: stageName(s.Type) + " shader compile", log: s.Log}
}

// Destroy deletes the driver shader object. Calling it again is a no-op.
func (s *Shader) Destroy(glctx gl.Context) {
	if s.destroyed {
		return
	}
	glctx.DeleteShader(s.Shader)
	s.destroyed = true
}

func stageName(ty gl.Enum) string {
	switch ty {
	case gl.VERTEX_SHADER:
		return "vertex"
	case gl.FRAGMENT_SHADER:
		return "fragment"
	}
	return fmt.Sprintf("0x%04x", uint32(ty))
}

// DefaultVertexSource transforms a_position by u_mvpMatrix and passes
// a_color through to the fragment stage. Precision qualifiers are only
// declared under GL_ES: desktop GLSL before 1.30 has none.
const DefaultVertexSource = `#ifdef GL_ES
precision highp float;
#endif
uniform mat4 u_mvpMatrix;
attribute vec4 a_position;
attribute vec4 a_color;
varying vec4 v_color;
void main(void) {
	v_color = a_color;
	gl_Position = u_mvpMatrix * a_position;
}`

// DefaultFragmentSource writes the interpolated vertex color.
const DefaultFragmentSource = `#ifdef GL_ES
precision highp float;
#endif
varying vec4 v_color;
void main(void) {
	gl_FragColor = v_color;
}`
