// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package v3gl

import "golang.org/x/xerrors"

var (
	// ErrUnknownUniformType is returned when a program has an active
	// uniform whose GL type has no setter.
	ErrUnknownUniformType = xerrors.New("v3gl: unknown uniform type")

	// ErrUniformValue is returned by Uniform.Set when the value does not
	// have the shape the uniform's type requires.
	ErrUniformValue = xerrors.New("v3gl: invalid uniform value")

	// ErrNoPosition is returned by Model.Draw when the program has no
	// position attribute to feed vertices into.
	ErrNoPosition = xerrors.New("v3gl: program has no position attribute")

	// ErrInvalidModel is returned for vertex, index or color data that
	// does not describe whole vertices.
	ErrInvalidModel = xerrors.New("v3gl: invalid model data")
)

// compileError reports a failed compile or link together with the
// driver's info log.
type compileError struct {
	what string
	log  string
}

func (e *compileError) Error() string {
	if e.log == "" {
		return "v3gl: " + e.what + " failed"
	}
	return "v3gl: " + e.what + ": " + e.log
}
