// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build cgo && (linux || darwin || freebsd || windows) && !android && !ios
// +build cgo
// +build linux darwin freebsd windows
// +build !android
// +build !ios

package engine

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/v3gl/v3gl"
	"go.uber.org/zap"
	"golang.org/x/mobile/gl"
	"golang.org/x/xerrors"
)

func init() {
	// Make 'the main thread' be 'the glfw / OpenGL thread'.
	runtime.LockOSThread()
}

// window adapts a glfw window to Surface.
type window struct {
	*glfw.Window
}

func (window) PollEvents() { glfw.PollEvents() }

// Open creates a window as described by cfg and acquires an OpenGL ES
// context for it, trying the context versions cfg allows newest first.
//
// Open must be called from the main goroutine, and so must Run and Close
// on the returned Engine.
func Open(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	versions, _ := cfg.Context.versions()
	if versions == nil {
		versions = platformVersions()
	}

	if err := glfw.Init(); err != nil {
		return nil, xerrors.Errorf("engine: glfw init: %w", err)
	}

	var (
		win     *glfw.Window
		version Version
		err     error
	)
	for _, v := range versions {
		glfw.DefaultWindowHints()
		windowHints(cfg, v)
		win, err = glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
		if err == nil {
			version = v
			break
		}
		v3gl.Logger().Debug("context unavailable", zap.Stringer("version", v), zap.Error(err))
	}
	if win == nil {
		glfw.Terminate()
		return nil, xerrors.Errorf("engine: no OpenGL ES context available: %w", err)
	}

	win.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	glctx, worker := gl.NewContext()
	e := New(window{win}, glctx, worker, cfg.Context)
	e.version = version
	e.release = func() {
		win.Destroy()
		glfw.Terminate()
	}
	w, h := win.GetFramebufferSize()
	v3gl.Logger().Info("context acquired",
		zap.Stringer("version", version),
		zap.Int("width", w),
		zap.Int("height", h))
	return e, nil
}

// platformVersions lists the context versions tried when none is asked
// for. macOS has no OpenGL ES; x/mobile/gl calls into its desktop OpenGL
// 2.1 there, which covers the ES 2.0 API.
func platformVersions() []Version {
	if runtime.GOOS == "darwin" {
		return []Version{{2, 1}}
	}
	return []Version{{3, 0}, {2, 0}}
}

func windowHints(cfg Config, v Version) {
	if runtime.GOOS == "darwin" {
		glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
	} else {
		glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLESAPI)
		glfw.WindowHint(glfw.ContextCreationAPI, glfw.EGLContextAPI)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, v.Major)
	glfw.WindowHint(glfw.ContextVersionMinor, v.Minor)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	o := cfg.Context
	glfw.WindowHint(glfw.AlphaBits, bits(o.Alpha, 8))
	glfw.WindowHint(glfw.DepthBits, bits(o.Depth, 24))
	glfw.WindowHint(glfw.StencilBits, bits(o.Stencil, 8))
	glfw.WindowHint(glfw.Samples, bits(o.Antialias, 4))
	if o.Alpha && o.PremultipliedAlpha {
		glfw.WindowHint(glfw.TransparentFramebuffer, glfw.True)
	}
}

func bits(on bool, n int) int {
	if on {
		return n
	}
	return 0
}
