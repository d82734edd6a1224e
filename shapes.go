// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package v3gl

import "image/color"

// NewTriangle returns a triangle in the z = 0 plane with one color per
// corner.
func NewTriangle(a, b, c color.Color) *Model {
	m, err := NewModel(ModelOptions{
		Vertices: []float32{
			0.0, 0.5, 0.0, // top
			-0.5, -0.5, 0.0, // bottom left
			0.5, -0.5, 0.0, // bottom right
		},
		Colors: append(append(rgba(a), rgba(b)...), rgba(c)...),
	})
	if err != nil {
		panic(err)
	}
	return m
}

// NewCube returns a unit cube centered on the origin. Each face has its
// own color, taken from faces in the order front, back, top, bottom,
// right, left; missing colors are white.
func NewCube(faces ...color.Color) *Model {
	vertices := []float32{
		// front
		-0.5, -0.5, 0.5, 0.5, -0.5, 0.5, 0.5, 0.5, 0.5, -0.5, 0.5, 0.5,
		// back
		-0.5, -0.5, -0.5, -0.5, 0.5, -0.5, 0.5, 0.5, -0.5, 0.5, -0.5, -0.5,
		// top
		-0.5, 0.5, -0.5, -0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, -0.5,
		// bottom
		-0.5, -0.5, -0.5, 0.5, -0.5, -0.5, 0.5, -0.5, 0.5, -0.5, -0.5, 0.5,
		// right
		0.5, -0.5, -0.5, 0.5, 0.5, -0.5, 0.5, 0.5, 0.5, 0.5, -0.5, 0.5,
		// left
		-0.5, -0.5, -0.5, -0.5, -0.5, 0.5, -0.5, 0.5, 0.5, -0.5, 0.5, -0.5,
	}

	var colors []float32
	var indices []uint16
	for f := 0; f < 6; f++ {
		var c color.Color = color.White
		if f < len(faces) && faces[f] != nil {
			c = faces[f]
		}
		q := rgba(c)
		for v := 0; v < 4; v++ {
			colors = append(colors, q...)
		}
		base := uint16(4 * f)
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}

	m, err := NewModel(ModelOptions{
		Vertices: vertices,
		Indices:  indices,
		Colors:   colors,
	})
	if err != nil {
		panic(err)
	}
	return m
}

// rgba returns c as non-premultiplied components in [0, 1].
func rgba(c color.Color) []float32 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return []float32{
		float32(n.R) / 0xff,
		float32(n.G) / 0xff,
		float32(n.B) / 0xff,
		float32(n.A) / 0xff,
	}
}
