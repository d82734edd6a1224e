// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package v3gl_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/v3gl/v3gl"
	"github.com/v3gl/v3gl/internal/gltest"
	"golang.org/x/image/colornames"
	"golang.org/x/mobile/exp/f32"
	"golang.org/x/mobile/gl"
)

func TestNewModelInvalid(t *testing.T) {
	tests := []struct {
		name string
		opts v3gl.ModelOptions
	}{
		{"no vertices", v3gl.ModelOptions{}},
		{"partial vertex", v3gl.ModelOptions{Vertices: []float32{0, 1}}},
		{"short colors", v3gl.ModelOptions{
			Vertices: []float32{0, 0, 0, 1, 1, 1},
			Colors:   []float32{1, 1, 1, 1},
		}},
		{"index out of range", v3gl.ModelOptions{
			Vertices: []float32{0, 0, 0, 1, 1, 1},
			Indices:  []uint16{0, 2},
		}},
	}
	for _, tt := range tests {
		if _, err := v3gl.NewModel(tt.opts); !errors.Is(err, v3gl.ErrInvalidModel) {
			t.Errorf("%s: got %v, want ErrInvalidModel", tt.name, err)
		}
	}
}

func TestNewModelIDs(t *testing.T) {
	a := v3gl.NewTriangle(color.White, color.White, color.White)
	b := v3gl.NewTriangle(color.White, color.White, color.White)
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("model IDs %q and %q are not distinct", a.ID, b.ID)
	}
	if a.Primitive != gl.TRIANGLES {
		t.Errorf("default primitive %v, want TRIANGLES", a.Primitive)
	}
}

func TestModelDrawArrays(t *testing.T) {
	glctx := gltest.NewContext()
	p := newDefaultProgram(t, glctx)
	tri := v3gl.NewTriangle(colornames.Red, colornames.Green, colornames.Blue)
	glctx.Reset()

	if err := tri.Draw(glctx, p, false); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"UseProgram",
		"CreateBuffer", "BindBuffer", "BufferData",
		"EnableVertexAttribArray", "VertexAttribPointer",
		"CreateBuffer", "BindBuffer", "BufferData",
		"EnableVertexAttribArray", "VertexAttribPointer",
		"DrawArrays",
		"DisableVertexAttribArray", "DisableVertexAttribArray",
	}
	if diff := cmp.Diff(want, glctx.CallNames()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}

	pos := p.Attribute(v3gl.PositionAttribute).Location.Value
	col := p.Attribute(v3gl.ColorAttribute).Location.Value
	wantPointers := []gltest.Call{
		{Name: "VertexAttribPointer", Args: []interface{}{pos, 3, gl.Enum(gl.FLOAT), false, 0, 0}},
		{Name: "VertexAttribPointer", Args: []interface{}{col, 4, gl.Enum(gl.FLOAT), false, 0, 0}},
		{Name: "DrawArrays", Args: []interface{}{gl.Enum(gl.TRIANGLES), 0, 3}},
	}
	var got []gltest.Call
	for _, c := range glctx.Calls() {
		if c.Name == "VertexAttribPointer" || c.Name == "DrawArrays" {
			got = append(got, c)
		}
	}
	if diff := cmp.Diff(wantPointers, got); diff != "" {
		t.Errorf("pointer and draw calls mismatch (-want +got):\n%s", diff)
	}
}

func TestModelDrawElements(t *testing.T) {
	glctx := gltest.NewContext()
	p := newDefaultProgram(t, glctx)
	cube := v3gl.NewCube(colornames.Red, colornames.Lime, colornames.Blue)
	glctx.Reset()

	if err := cube.Draw(glctx, p, false); err != nil {
		t.Fatal(err)
	}
	var draw gltest.Call
	for _, c := range glctx.Calls() {
		if c.Name == "DrawElements" {
			draw = c
		}
	}
	want := gltest.Call{Name: "DrawElements", Args: []interface{}{gl.Enum(gl.TRIANGLES), 36, gl.Enum(gl.UNSIGNED_SHORT), 0}}
	if diff := cmp.Diff(want, draw); diff != "" {
		t.Errorf("draw call mismatch (-want +got):\n%s", diff)
	}
	if n := glctx.Count("DrawArrays"); n != 0 {
		t.Errorf("indexed model issued %d DrawArrays", n)
	}
}

func TestModelBufferCache(t *testing.T) {
	glctx := gltest.NewContext()
	p := newDefaultProgram(t, glctx)
	cube := v3gl.NewCube()
	glctx.Reset()

	for i := 0; i < 3; i++ {
		if err := cube.Draw(glctx, p, false); err != nil {
			t.Fatal(err)
		}
	}
	if n := glctx.Count("CreateBuffer"); n != 3 {
		t.Errorf("CreateBuffer called %d times over three draws, want 3", n)
	}
	if n := glctx.Count("BufferData"); n != 3 {
		t.Errorf("BufferData called %d times over three draws, want 3", n)
	}

	// Stale data is drawn until an update is asked for.
	cube.Vertices[0] = 42
	glctx.Reset()
	if err := cube.Draw(glctx, p, false); err != nil {
		t.Fatal(err)
	}
	if n := glctx.Count("BufferData"); n != 0 {
		t.Errorf("draw without update uploaded %d buffers", n)
	}

	glctx.Reset()
	if err := cube.Draw(glctx, p, true); err != nil {
		t.Fatal(err)
	}
	if n := glctx.Count("BufferData"); n != 3 {
		t.Errorf("draw with update uploaded %d buffers, want 3", n)
	}
	if n := glctx.Count("CreateBuffer"); n != 0 {
		t.Errorf("draw with update created %d buffers, want 0", n)
	}
}

func TestModelBufferContents(t *testing.T) {
	glctx := gltest.NewContext()
	p := newDefaultProgram(t, glctx)
	m, err := v3gl.NewModel(v3gl.ModelOptions{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Indices:  []uint16{2, 1, 0},
	})
	if err != nil {
		t.Fatal(err)
	}
	glctx.Reset()
	if err := m.Draw(glctx, p, false); err != nil {
		t.Fatal(err)
	}

	var vbo, ibo gl.Buffer
	for _, c := range glctx.Calls() {
		if c.Name != "BindBuffer" {
			continue
		}
		switch c.Args[0] {
		case gl.Enum(gl.ARRAY_BUFFER):
			vbo = gl.Buffer{Value: c.Args[1].(uint32)}
		case gl.Enum(gl.ELEMENT_ARRAY_BUFFER):
			ibo = gl.Buffer{Value: c.Args[1].(uint32)}
		}
	}
	if got, want := glctx.BufferContents(vbo), f32.Bytes(binary.LittleEndian, m.Vertices...); !bytes.Equal(got, want) {
		t.Errorf("vertex buffer holds %v, want %v", got, want)
	}
	if got, want := glctx.BufferContents(ibo), []byte{2, 0, 1, 0, 0, 0}; !bytes.Equal(got, want) {
		t.Errorf("index buffer holds %v, want %v", got, want)
	}
	// No colors: only the vertex and index buffers exist.
	if _, _, buffers := glctx.Live(); buffers != 2 {
		t.Errorf("%d live buffers, want 2", buffers)
	}
}

func TestModelsShareProgram(t *testing.T) {
	glctx := gltest.NewContext()
	p := newDefaultProgram(t, glctx)
	a, b := v3gl.NewCube(), v3gl.NewCube()
	for _, m := range []*v3gl.Model{a, b, a, b} {
		if err := m.Draw(glctx, p, false); err != nil {
			t.Fatal(err)
		}
	}
	if _, _, buffers := glctx.Live(); buffers != 6 {
		t.Errorf("%d live buffers for two cubes, want 6", buffers)
	}

	a.Release(glctx, p)
	if _, _, buffers := glctx.Live(); buffers != 3 {
		t.Errorf("%d live buffers after releasing one cube, want 3", buffers)
	}

	// A released model uploads again on its next draw.
	glctx.Reset()
	if err := a.Draw(glctx, p, false); err != nil {
		t.Fatal(err)
	}
	if n := glctx.Count("CreateBuffer"); n != 3 {
		t.Errorf("CreateBuffer called %d times after Release, want 3", n)
	}
}

func TestModelDrawNoPosition(t *testing.T) {
	glctx := gltest.NewContext()
	p := newProgram(t, glctx, `attribute vec2 a_uv;
void main(void) {
	gl_Position = vec4(a_uv, 0.0, 1.0);
}`, `void main(void) {
	gl_FragColor = vec4(1.0);
}`)
	err := v3gl.NewCube().Draw(glctx, p, false)
	if !errors.Is(err, v3gl.ErrNoPosition) {
		t.Errorf("got %v, want ErrNoPosition", err)
	}
}

func TestNewCubeColors(t *testing.T) {
	cube := v3gl.NewCube(colornames.Red, nil, colornames.Blue)
	if got, want := cube.VertexCount(), 24; got != want {
		t.Fatalf("cube has %d vertices, want %d", got, want)
	}
	if got, want := len(cube.Indices), 36; got != want {
		t.Errorf("cube has %d indices, want %d", got, want)
	}
	face := func(f int) []float32 { return cube.Colors[16*f : 16*f+4] }
	tests := []struct {
		face int
		want []float32
	}{
		{0, []float32{1, 0, 0, 1}},
		{1, []float32{1, 1, 1, 1}},
		{2, []float32{0, 0, 1, 1}},
		{5, []float32{1, 1, 1, 1}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, face(tt.face)); diff != "" {
			t.Errorf("face %d color mismatch (-want +got):\n%s", tt.face, diff)
		}
	}
}

func TestModelDrawColorsWithoutColorAttribute(t *testing.T) {
	glctx := gltest.NewContext()
	p := newProgram(t, glctx, `attribute vec4 a_position;
void main(void) {
	gl_Position = a_position;
}`, `void main(void) {
	gl_FragColor = vec4(1.0);
}`)
	if err := p.Err(); err != nil {
		t.Fatal(err)
	}
	cube := v3gl.NewCube(colornames.Red)
	glctx.Reset()
	if err := cube.Draw(glctx, p, false); err != nil {
		t.Fatal(err)
	}

	want := []string{"EnableVertexAttribArray", "VertexAttribPointer", "DisableVertexAttribArray"}
	got := glctx.CallNames("EnableVertexAttribArray", "VertexAttribPointer", "DisableVertexAttribArray")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("attribute calls mismatch (-want +got):\n%s", diff)
	}
	// The colors are never uploaded: only the vertex and index buffers exist.
	if n := glctx.Count("CreateBuffer"); n != 2 {
		t.Errorf("CreateBuffer called %d times, want 2", n)
	}
	if _, _, buffers := glctx.Live(); buffers != 2 {
		t.Errorf("%d live buffers, want 2", buffers)
	}
}
