// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package v3gl

import (
	"encoding/binary"

	"github.com/google/uuid"
	"golang.org/x/mobile/exp/f32"
	"golang.org/x/mobile/gl"
	"golang.org/x/xerrors"
)

// Attribute names Model.Draw feeds. They match DefaultVertexSource.
const (
	PositionAttribute = "a_position"
	ColorAttribute    = "a_color"
)

// Suffixes appended to a model's ID to name its cached buffers.
const (
	verticesSuffix = "_vertices"
	indicesSuffix  = "_indices"
	colorsSuffix   = "_colors"
)

var bufferSuffixes = []string{verticesSuffix, indicesSuffix, colorsSuffix}

const (
	coordsPerVertex = 3
	colorsPerVertex = 4
)

// ModelOptions holds the data of a model.
type ModelOptions struct {
	// Vertices holds x, y, z triples.
	Vertices []float32

	// Indices, if set, index into Vertices and the model is drawn with
	// glDrawElements.
	Indices []uint16

	// Colors, if set, holds one r, g, b, a quadruple per vertex.
	Colors []float32

	// Primitive is the draw mode. The zero value means gl.TRIANGLES;
	// to draw points, set Model.Primitive to gl.POINTS after NewModel.
	Primitive gl.Enum
}

// A Model is vertex data to draw with a Program.
//
// The GPU buffers of a model are cached on the Program under the model's
// ID. Changing the model's data has no effect on what is drawn until Draw
// is called with update set.
type Model struct {
	// ID is generated per model and names its buffers.
	ID string

	Vertices  []float32
	Indices   []uint16
	Colors    []float32
	Primitive gl.Enum
}

// NewModel returns a model with a fresh ID. It returns an error wrapping
// ErrInvalidModel if the data does not describe whole vertices or an index
// is out of range.
func NewModel(opts ModelOptions) (*Model, error) {
	m := &Model{
		ID:        uuid.New().String(),
		Vertices:  opts.Vertices,
		Indices:   opts.Indices,
		Colors:    opts.Colors,
		Primitive: opts.Primitive,
	}
	if m.Primitive == 0 {
		m.Primitive = gl.TRIANGLES
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) validate() error {
	if len(m.Vertices) == 0 || len(m.Vertices)%coordsPerVertex != 0 {
		return xerrors.Errorf("%d vertex coordinates: %w", len(m.Vertices), ErrInvalidModel)
	}
	n := len(m.Vertices) / coordsPerVertex
	if len(m.Colors) != 0 && len(m.Colors) != n*colorsPerVertex {
		return xerrors.Errorf("%d color components for %d vertices: %w", len(m.Colors), n, ErrInvalidModel)
	}
	for i, idx := range m.Indices {
		if int(idx) >= n {
			return xerrors.Errorf("index %d is %d, have %d vertices: %w", i, idx, n, ErrInvalidModel)
		}
	}
	return nil
}

// VertexCount returns the number of vertices.
func (m *Model) VertexCount() int { return len(m.Vertices) / coordsPerVertex }

// Draw draws the model with p.
//
// The vertex, index and color buffers are looked up on p by the model's
// ID. They are uploaded only when p has none yet or update is set;
// otherwise the buffers from an earlier Draw are used as they are.
//
// Vertices feed PositionAttribute, which p must have. Colors feed
// ColorAttribute when both the model has colors and p has the attribute.
func (m *Model) Draw(glctx gl.Context, p *Program, update bool) error {
	pos := p.Attribute(PositionAttribute)
	if pos == nil {
		return ErrNoPosition
	}
	if err := m.validate(); err != nil {
		return err
	}
	p.Use(glctx)

	p.buffer(glctx, m.ID+verticesSuffix, gl.ARRAY_BUFFER, update, func() []byte {
		return f32.Bytes(binary.LittleEndian, m.Vertices...)
	})
	glctx.EnableVertexAttribArray(pos.Location)
	glctx.VertexAttribPointer(pos.Location, coordsPerVertex, gl.FLOAT, false, 0, 0)
	defer glctx.DisableVertexAttribArray(pos.Location)

	if col := p.Attribute(ColorAttribute); col != nil && len(m.Colors) > 0 {
		p.buffer(glctx, m.ID+colorsSuffix, gl.ARRAY_BUFFER, update, func() []byte {
			return f32.Bytes(binary.LittleEndian, m.Colors...)
		})
		glctx.EnableVertexAttribArray(col.Location)
		glctx.VertexAttribPointer(col.Location, colorsPerVertex, gl.FLOAT, false, 0, 0)
		defer glctx.DisableVertexAttribArray(col.Location)
	}

	if len(m.Indices) == 0 {
		glctx.DrawArrays(m.Primitive, 0, m.VertexCount())
		return nil
	}
	p.buffer(glctx, m.ID+indicesSuffix, gl.ELEMENT_ARRAY_BUFFER, update, func() []byte {
		return u16Bytes(binary.LittleEndian, m.Indices)
	})
	glctx.DrawElements(m.Primitive, len(m.Indices), gl.UNSIGNED_SHORT, 0)
	return nil
}

// Release deletes the model's buffers cached on p.
func (m *Model) Release(glctx gl.Context, p *Program) {
	p.ReleaseBuffers(glctx, m.ID)
}

func u16Bytes(byteOrder binary.ByteOrder, values []uint16) []byte {
	b := make([]byte, 2*len(values))
	for i, v := range values {
		byteOrder.PutUint16(b[2*i:], v)
	}
	return b
}
