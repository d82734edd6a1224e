// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package v3gl_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/v3gl/v3gl"
	"github.com/v3gl/v3gl/internal/gltest"
	"golang.org/x/mobile/gl"
)

// newProgram compiles vsrc and fsrc and links them, failing the test on
// any error.
func newProgram(t *testing.T, glctx gl.Context, vsrc, fsrc string) *v3gl.Program {
	t.Helper()
	vs, err := v3gl.NewVertexShader(glctx, vsrc)
	if err != nil {
		t.Fatal(err)
	}
	fs, err := v3gl.NewFragmentShader(glctx, fsrc)
	if err != nil {
		t.Fatal(err)
	}
	p, err := v3gl.NewProgram(glctx, v3gl.ProgramOptions{Vertex: vs, Fragment: fs})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func newDefaultProgram(t *testing.T, glctx gl.Context) *v3gl.Program {
	t.Helper()
	p := newProgram(t, glctx, v3gl.DefaultVertexSource, v3gl.DefaultFragmentSource)
	if err := p.Err(); err != nil {
		t.Fatal(err)
	}
	return p
}

var ignoreUniformState = cmpopts.IgnoreUnexported(v3gl.Uniform{})

func TestNewProgramReflection(t *testing.T) {
	glctx := gltest.NewContext()
	p := newDefaultProgram(t, glctx)

	wantAttrs := []*v3gl.Attribute{
		{Name: "a_color", Type: gl.FLOAT_VEC4, Size: 1, Location: gl.Attrib{Value: 1}},
		{Name: "a_position", Type: gl.FLOAT_VEC4, Size: 1, Location: gl.Attrib{Value: 0}},
	}
	if diff := cmp.Diff(wantAttrs, p.Attributes()); diff != "" {
		t.Errorf("attributes mismatch (-want +got):\n%s", diff)
	}

	wantUniforms := []*v3gl.Uniform{
		{Name: "u_mvpMatrix", Type: gl.FLOAT_MAT4, Size: 1, Location: gl.Uniform{Value: 0}},
	}
	if diff := cmp.Diff(wantUniforms, p.Uniforms(), ignoreUniformState); diff != "" {
		t.Errorf("uniforms mismatch (-want +got):\n%s", diff)
	}

	if p.Attribute("a_missing") != nil || p.Uniform("u_missing") != nil {
		t.Error("lookup of a missing variable returned non-nil")
	}
}

func TestNewProgramLinkFailure(t *testing.T) {
	glctx := gltest.NewContext()
	p := newProgram(t, glctx, "attribute vec4 a_position;", v3gl.DefaultFragmentSource)
	if p.Valid {
		t.Fatal("program with a broken vertex shader linked")
	}
	if !strings.Contains(p.Log, "not successfully compiled") {
		t.Errorf("link log %q", p.Log)
	}
	err := p.Err()
	if err == nil || !strings.Contains(err.Error(), "vertex shader compile") {
		t.Errorf("Err() = %v, want the vertex compile failure", err)
	}
	if len(p.Attributes()) != 0 || len(p.Uniforms()) != 0 {
		t.Errorf("failed link reflected %d attributes and %d uniforms", len(p.Attributes()), len(p.Uniforms()))
	}
}

func TestNewProgramErrors(t *testing.T) {
	glctx := gltest.NewContext()
	vs, _ := v3gl.NewVertexShader(glctx, v3gl.DefaultVertexSource)
	fs, _ := v3gl.NewFragmentShader(glctx, v3gl.DefaultFragmentSource)

	for _, opts := range []v3gl.ProgramOptions{
		{Vertex: vs},
		{Fragment: fs},
		{Vertex: fs, Fragment: fs},
		{Vertex: vs, Fragment: vs},
	} {
		if _, err := v3gl.NewProgram(glctx, opts); err == nil {
			t.Errorf("NewProgram(%+v) succeeded", opts)
		}
	}
	if n := glctx.Count("CreateProgram"); n != 0 {
		t.Errorf("CreateProgram called %d times for bad options", n)
	}

	glctx.NoObjects = true
	if _, err := v3gl.NewProgram(glctx, v3gl.ProgramOptions{Vertex: vs, Fragment: fs}); err == nil {
		t.Error("zero program object accepted")
	}
}

func TestNewProgramUnknownUniformType(t *testing.T) {
	glctx := gltest.NewContext()
	vs, _ := v3gl.NewVertexShader(glctx, v3gl.DefaultVertexSource)
	fs, _ := v3gl.NewFragmentShader(glctx, `precision highp float;
uniform sampler3D u_volume;
void main(void) {}`)

	_, err := v3gl.NewProgram(glctx, v3gl.ProgramOptions{Vertex: vs, Fragment: fs})
	if !errors.Is(err, v3gl.ErrUnknownUniformType) {
		t.Fatalf("got error %v, want ErrUnknownUniformType", err)
	}
	if !strings.Contains(err.Error(), "u_volume") {
		t.Errorf("error %q does not name the uniform", err)
	}
	if _, programs, _ := glctx.Live(); programs != 0 {
		t.Errorf("%d live programs after a failed NewProgram", programs)
	}
}

func TestAttributeSetIndexRelink(t *testing.T) {
	glctx := gltest.NewContext()
	p := newDefaultProgram(t, glctx)

	color := p.Attribute("a_color")
	if got := color.Index(); got != 1 {
		t.Fatalf("a_color at %d, want 1", got)
	}
	if got := color.SetIndex(glctx, p, 0).Index(); got != 0 {
		t.Errorf("SetIndex(0).Index() = %d", got)
	}

	// The binding is only applied by the next link.
	if got := p.Attribute("a_color").Index(); got != 0 {
		t.Errorf("a_color table entry at %d before relink, want the updated 0", got)
	}
	if err := p.Link(glctx); err != nil {
		t.Fatal(err)
	}
	if p.Attribute("a_color") == color {
		t.Error("Link did not rebuild the attribute table")
	}
	if got := p.Attribute("a_color").Index(); got != 0 {
		t.Errorf("a_color at %d after relink, want 0", got)
	}
	if got := p.Attribute("a_position").Index(); got != 1 {
		t.Errorf("a_position at %d after relink, want 1", got)
	}

	want := gltest.Call{Name: "BindAttribLocation", Args: []interface{}{p.Program.Value, uint(0), "a_color"}}
	var found bool
	for _, c := range glctx.Calls() {
		if cmp.Equal(c, want) {
			found = true
		}
	}
	if !found {
		t.Errorf("no %v call recorded", want)
	}
}

func TestProgramLinkRebuildsUniforms(t *testing.T) {
	glctx := gltest.NewContext()
	p := newDefaultProgram(t, glctx)
	old := p.Uniform("u_mvpMatrix")
	if err := p.Link(glctx); err != nil {
		t.Fatal(err)
	}
	if p.Uniform("u_mvpMatrix") == old {
		t.Error("Link did not rebuild the uniform table")
	}
}

func TestProgramRelinkUnknownUniformType(t *testing.T) {
	glctx := gltest.NewContext()
	p := newDefaultProgram(t, glctx)

	// Recompiling an attached shader changes what the next link sees.
	glctx.ShaderSource(p.Fragment.Shader, `precision highp float;
uniform sampler3D u_volume;
varying vec4 v_color;
void main(void) {
	gl_FragColor = v_color;
}`)
	glctx.CompileShader(p.Fragment.Shader)

	err := p.Link(glctx)
	if !errors.Is(err, v3gl.ErrUnknownUniformType) {
		t.Fatalf("Link = %v, want ErrUnknownUniformType", err)
	}
	if us := p.Uniforms(); len(us) != 0 {
		t.Errorf("failed relink kept uniforms %v", us)
	}
	if p.Uniform("u_mvpMatrix") != nil {
		t.Error("u_mvpMatrix from the previous link is still listed")
	}
	if p.Attribute("a_position") == nil {
		t.Error("attributes of the relinked program are missing")
	}
}

func TestProgramArrayUniform(t *testing.T) {
	glctx := gltest.NewContext()
	p := newProgram(t, glctx, v3gl.DefaultVertexSource, `precision highp float;
uniform float u_weights[3];
varying vec4 v_color;
void main(void) {
	gl_FragColor = v_color * u_weights[0];
}`)
	u := p.Uniform("u_weights")
	if u == nil {
		t.Fatalf("array uniform not registered under its base name; have %v", p.Uniforms())
	}
	if u.Size != 3 || u.Type != gl.FLOAT {
		t.Errorf("u_weights size %d type %v", u.Size, u.Type)
	}
}

func TestProgramDestroy(t *testing.T) {
	glctx := gltest.NewContext()
	p := newDefaultProgram(t, glctx)
	cube := v3gl.NewCube()
	if err := cube.Draw(glctx, p, false); err != nil {
		t.Fatal(err)
	}
	if _, _, buffers := glctx.Live(); buffers != 3 {
		t.Fatalf("%d live buffers after drawing a cube, want 3", buffers)
	}

	p.Destroy(glctx)
	shaders, programs, buffers := glctx.Live()
	if shaders+programs+buffers != 0 {
		t.Errorf("live after Destroy: %d shaders, %d programs, %d buffers", shaders, programs, buffers)
	}

	glctx.Reset()
	p.Destroy(glctx)
	if calls := glctx.Calls(); len(calls) != 0 {
		t.Errorf("second Destroy issued %v", calls)
	}
}

func TestProgramSetUniformMissing(t *testing.T) {
	glctx := gltest.NewContext()
	p := newDefaultProgram(t, glctx)
	if err := p.SetUniform(glctx, "u_missing", 1); err == nil {
		t.Error("SetUniform on a missing uniform succeeded")
	}
}
