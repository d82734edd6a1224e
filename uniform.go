// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package v3gl

import (
	"math"
	"reflect"

	"golang.org/x/mobile/gl"
	"golang.org/x/xerrors"
)

// A Uniform is an active uniform variable of a linked Program.
//
// The GL call used to write the uniform is chosen from its Type when the
// Uniform is created.
type Uniform struct {
	Name string

	// Type is the GL type of the uniform, for example gl.FLOAT_MAT4.
	Type gl.Enum

	// Size is the array size reported by the driver; 1 for non-arrays.
	Size int

	Location gl.Uniform

	setter uniformSetter
	value  interface{}
}

// newUniform returns ErrUnknownUniformType if ty has no setter.
func newUniform(name string, ty gl.Enum, size int, loc gl.Uniform) (*Uniform, error) {
	s, ok := uniformSetters[ty]
	if !ok {
		return nil, xerrors.Errorf("uniform %s has type 0x%04x: %w", name, uint32(ty), ErrUnknownUniformType)
	}
	if size < 1 {
		size = 1
	}
	return &Uniform{
		Name:     name,
		Type:     ty,
		Size:     size,
		Location: loc,
		setter:   s,
	}, nil
}

// Set writes v to the uniform and records it as the current value.
//
// Accepted values depend on the uniform type. Scalars take a Go bool,
// integer or float; vectors and matrices take a fixed-size array (such as
// mgl32.Vec3 or mgl32.Mat4) or a slice. For uniform arrays, a slice may
// hold several elements back to back. Bool, int and sampler uniforms
// reject float values.
//
// If v has the wrong shape, Set returns an error wrapping ErrUniformValue
// and neither the driver nor the current value is touched.
func (u *Uniform) Set(glctx gl.Context, v interface{}) error {
	if err := u.setter.set(glctx, u, v); err != nil {
		return err
	}
	u.value = v
	return nil
}

// Value returns the value last passed to a successful Set, or nil.
func (u *Uniform) Value() interface{} { return u.value }

type setterKind int

const (
	intSetter setterKind = iota
	floatSetter
	matrixSetter
)

// uniformSetter writes n-component values of one kind.
type uniformSetter struct {
	kind setterKind
	n    int
}

var uniformSetters = map[gl.Enum]uniformSetter{
	gl.BOOL:         {intSetter, 1},
	gl.BOOL_VEC2:    {intSetter, 2},
	gl.BOOL_VEC3:    {intSetter, 3},
	gl.BOOL_VEC4:    {intSetter, 4},
	gl.INT:          {intSetter, 1},
	gl.INT_VEC2:     {intSetter, 2},
	gl.INT_VEC3:     {intSetter, 3},
	gl.INT_VEC4:     {intSetter, 4},
	gl.SAMPLER_2D:   {intSetter, 1},
	gl.SAMPLER_CUBE: {intSetter, 1},
	gl.FLOAT:        {floatSetter, 1},
	gl.FLOAT_VEC2:   {floatSetter, 2},
	gl.FLOAT_VEC3:   {floatSetter, 3},
	gl.FLOAT_VEC4:   {floatSetter, 4},
	gl.FLOAT_MAT2:   {matrixSetter, 4},
	gl.FLOAT_MAT3:   {matrixSetter, 9},
	gl.FLOAT_MAT4:   {matrixSetter, 16},
}

func (s uniformSetter) set(glctx gl.Context, u *Uniform, v interface{}) error {
	vals, err := flatten(v, s.kind == intSetter)
	if err != nil {
		return xerrors.Errorf("uniform %s: %v: %w", u.Name, err, ErrUniformValue)
	}
	if len(vals) == 0 || len(vals)%s.n != 0 || len(vals)/s.n > u.Size {
		return xerrors.Errorf("uniform %s wants %d values per element for %d element(s), got %d: %w",
			u.Name, s.n, u.Size, len(vals), ErrUniformValue)
	}

	loc := u.Location
	switch s.kind {
	case intSetter:
		src := make([]int32, len(vals))
		for i, x := range vals {
			src[i] = int32(x)
		}
		switch s.n {
		case 1:
			if len(src) == 1 {
				glctx.Uniform1i(loc, int(src[0]))
			} else {
				glctx.Uniform1iv(loc, src)
			}
		case 2:
			glctx.Uniform2iv(loc, src)
		case 3:
			glctx.Uniform3iv(loc, src)
		case 4:
			glctx.Uniform4iv(loc, src)
		}
	case floatSetter:
		src := toFloat32s(vals)
		switch s.n {
		case 1:
			if len(src) == 1 {
				glctx.Uniform1f(loc, src[0])
			} else {
				glctx.Uniform1fv(loc, src)
			}
		case 2:
			glctx.Uniform2fv(loc, src)
		case 3:
			glctx.Uniform3fv(loc, src)
		case 4:
			glctx.Uniform4fv(loc, src)
		}
	case matrixSetter:
		src := toFloat32s(vals)
		switch s.n {
		case 4:
			glctx.UniformMatrix2fv(loc, src)
		case 9:
			glctx.UniformMatrix3fv(loc, src)
		case 16:
			glctx.UniformMatrix4fv(loc, src)
		}
	}
	return nil
}

// flatten returns the scalar components of v, which is a scalar or an
// array or slice of scalars. Bools become 0 or 1. If integral is set,
// float components and integers outside the int32 range are rejected.
func flatten(v interface{}, integral bool) ([]float64, error) {
	if v == nil {
		return nil, xerrors.New("nil value")
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Array, reflect.Slice:
		out := make([]float64, rv.Len())
		for i := range out {
			x, err := scalar(rv.Index(i), integral)
			if err != nil {
				return nil, xerrors.Errorf("element %d: %w", i, err)
			}
			out[i] = x
		}
		return out, nil
	}
	x, err := scalar(rv, integral)
	if err != nil {
		return nil, err
	}
	return []float64{x}, nil
}

func scalar(rv reflect.Value, integral bool) (float64, error) {
	switch rv.Kind() {
	case reflect.Bool:
		if rv.Bool() {
			return 1, nil
		}
		return 0, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		x := rv.Int()
		if integral && (x < math.MinInt32 || x > math.MaxInt32) {
			return 0, xerrors.Errorf("%d overflows int32", x)
		}
		return float64(x), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		x := rv.Uint()
		if integral && x > math.MaxInt32 {
			return 0, xerrors.Errorf("%d overflows int32", x)
		}
		return float64(x), nil
	case reflect.Float32, reflect.Float64:
		if integral {
			return 0, xerrors.Errorf("float %v for an integer uniform", rv.Float())
		}
		return rv.Float(), nil
	}
	return 0, xerrors.Errorf("unsupported %s", rv.Type())
}

func toFloat32s(vals []float64) []float32 {
	out := make([]float32, len(vals))
	for i, x := range vals {
		out[i] = float32(x)
	}
	return out
}
