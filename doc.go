// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package v3gl is a thin convenience layer over an OpenGL ES context.
//
// It wraps shader compilation, program linking, attribute and uniform
// reflection, buffer upload and draw calls. Every operation takes the
// gl.Context explicitly and forwards to it almost directly; the types in this
// package only add bookkeeping on top:
//
//   - Shader records the compile status and info log of a shader.
//   - Program links one vertex and one fragment Shader and reflects its
//     active attributes and uniforms by name.
//   - Uniform picks a setter for its GL type once, at reflection time.
//   - Model caches its vertex, index and color buffers on the Program it is
//     drawn with, keyed by the model's identifier.
//
// A compile or link failure is not reported as an error. It is recorded in
// the Valid and Log fields, and Err converts it to an error on demand.
//
// Acquiring a context and driving a render loop lives in the engine
// sub-package.
//
// A typical setup:
//
//	vs, err := v3gl.NewVertexShader(glctx, v3gl.DefaultVertexSource)
//	if err != nil {
//		return err
//	}
//	fs, err := v3gl.NewFragmentShader(glctx, v3gl.DefaultFragmentSource)
//	if err != nil {
//		return err
//	}
//	p, err := v3gl.NewProgram(glctx, v3gl.ProgramOptions{Vertex: vs, Fragment: fs})
//	if err != nil {
//		return err
//	}
//	if err := p.Err(); err != nil {
//		return err
//	}
//	p.Uniform("u_mvpMatrix").Set(glctx, mgl32.Ident4())
//	cube.Draw(glctx, p, false)
package v3gl // import "github.com/v3gl/v3gl"

// Version is the library version.
const Version = "0.1.0"
