// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package v3gl

import "golang.org/x/mobile/gl"

// An Attribute is an active vertex attribute of a linked Program.
type Attribute struct {
	Name string

	// Type is the GL type of the attribute, for example gl.FLOAT_VEC4.
	Type gl.Enum

	// Size is the array size reported by the driver; 1 for non-arrays.
	Size int

	Location gl.Attrib
}

// SetIndex binds the attribute to location n in p.
//
// As with glBindAttribLocation, the binding only takes effect when p is
// next linked. Call p.Link afterwards; the rebuilt attribute table then
// reports n as well.
func (a *Attribute) SetIndex(glctx gl.Context, p *Program, n uint) *Attribute {
	loc := gl.Attrib{Value: n}
	glctx.BindAttribLocation(p.Program, loc, a.Name)
	a.Location = loc
	return a
}

// Index returns the attribute's location.
func (a *Attribute) Index() uint { return a.Location.Value }
