// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package engine pairs a drawing surface with an OpenGL ES context and
// drives a render loop over them.
//
// Open creates a window and acquires its context. Run must then be called
// from the program's main goroutine, as some OS-specific libraries require
// being on 'the main thread':
//
//	func main() {
//		e, err := engine.Open(engine.DefaultConfig())
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer e.Close()
//		err = e.Run(func(e *engine.Engine) error {
//			e.Clear(colornames.Black)
//			return cube.Draw(e.Context, program, false)
//		})
//		...
//	}
package engine // import "github.com/v3gl/v3gl/engine"

import (
	"fmt"
	"image/color"
	"sync"
	"time"

	"github.com/v3gl/v3gl"
	"go.uber.org/zap"
	"golang.org/x/mobile/gl"
	"golang.org/x/xerrors"
)

var (
	// ErrStop may be returned by a frame function to end Run cleanly.
	ErrStop = xerrors.New("engine: stop")

	// ErrUnsupported is returned by Open on platforms without an OpenGL ES
	// context.
	ErrUnsupported = xerrors.New("engine: unsupported platform")
)

// A Surface is something a GL context draws into. *glfw.Window provides
// all methods except PollEvents.
//
// All Surface methods are called on the goroutine running Run.
type Surface interface {
	MakeContextCurrent()
	SwapBuffers()
	ShouldClose() bool
	GetFramebufferSize() (width, height int)
	PollEvents()
}

// Version is an OpenGL ES version.
type Version struct {
	Major, Minor int
}

func (v Version) String() string { return fmt.Sprintf("%d.%d", v.Major, v.Minor) }

// FrameFunc draws one frame. It runs on its own goroutine and issues GL
// calls through e.Context.
type FrameFunc func(e *Engine) error

// An Engine is a drawing surface together with the GL context acquired for
// it.
type Engine struct {
	Surface Surface
	Context gl.Context

	worker    gl.Worker
	version   Version
	opts      ContextOptions
	heartbeat time.Duration
	release   func()
	onClose   FrameFunc
	closeOnce sync.Once

	mu            sync.Mutex
	width, height int
	viewport      [2]int

	publishc    chan struct{}
	publishDone chan bool
}

// New returns an Engine for a surface whose context the caller has already
// made current and wrapped in glctx. worker may be nil if glctx executes
// calls directly.
func New(s Surface, glctx gl.Context, worker gl.Worker, opts ContextOptions) *Engine {
	return &Engine{
		Surface:     s,
		Context:     glctx,
		worker:      worker,
		opts:        opts,
		heartbeat:   time.Second / 60,
		publishc:    make(chan struct{}),
		publishDone: make(chan bool),
	}
}

// Version returns the version of the acquired context, or the zero
// Version if the Engine was built with New.
func (e *Engine) Version() Version { return e.version }

// Size returns the framebuffer size as of the last completed frame.
func (e *Engine) Size() (width, height int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.width, e.height
}

func (e *Engine) updateSize() {
	w, h := e.Surface.GetFramebufferSize()
	e.mu.Lock()
	e.width, e.height = w, h
	e.mu.Unlock()
}

// Clear clears the color buffer, and the depth and stencil buffers if the
// context has them, to c.
func (e *Engine) Clear(c color.Color) {
	r, g, b, a := c.RGBA()
	e.Context.ClearColor(float32(r)/0xffff, float32(g)/0xffff, float32(b)/0xffff, float32(a)/0xffff)
	e.Context.Clear(e.clearMask())
}

func (e *Engine) clearMask() gl.Enum {
	mask := gl.Enum(gl.COLOR_BUFFER_BIT)
	if e.opts.Depth {
		mask |= gl.DEPTH_BUFFER_BIT
	}
	if e.opts.Stencil {
		mask |= gl.STENCIL_BUFFER_BIT
	}
	return mask
}

// OnClose sets f to be called once after the last frame of Run, however
// Run ends. Like a frame, f runs on the frame goroutine while Run still
// services the context, so it can release GL objects. An error from f is
// returned by Run unless the frames already failed.
func (e *Engine) OnClose(f FrameFunc) { e.onClose = f }

// Run calls frame repeatedly, presenting the surface after each call,
// until the surface asks to close or frame returns an error. ErrStop ends
// the loop without an error.
//
// Run must be called on the goroutine the context is current on, which
// for an Engine from Open is the main goroutine. It services the GL
// worker, so frame must not be called from that goroutine.
func (e *Engine) Run(frame FrameFunc) error {
	e.updateSize()

	errc := make(chan error, 1)
	go func() {
		errc <- e.runFrames(frame)
	}()

	// heartbeat is a channel that, at regular intervals, directs the select
	// below to also consider surface events, not just Go channels.
	heartbeat := time.NewTicker(e.heartbeat)
	defer heartbeat.Stop()
	var workAvailable <-chan struct{}
	if e.worker != nil {
		workAvailable = e.worker.WorkAvailable()
	}

	closing := false
	for {
		select {
		case err := <-errc:
			if xerrors.Is(err, ErrStop) {
				return nil
			}
			return err
		case <-e.publishc:
			e.Surface.SwapBuffers()
			e.Surface.PollEvents()
			e.updateSize()
			closing = closing || e.Surface.ShouldClose()
			e.publishDone <- closing
		case <-heartbeat.C:
			e.Surface.PollEvents()
			closing = closing || e.Surface.ShouldClose()
		case <-workAvailable:
			e.worker.DoWork()
		}
	}
}

func (e *Engine) runFrames(frame FrameFunc) error {
	err := e.frames(frame)
	if e.onClose == nil {
		return err
	}
	if cerr := e.onClose(e); cerr != nil && (err == nil || xerrors.Is(err, ErrStop)) {
		return cerr
	}
	return err
}

// frames runs on its own goroutine and never touches the Surface.
func (e *Engine) frames(frame FrameFunc) error {
	for {
		e.applyViewport()
		if !e.opts.PreserveDrawingBuffer {
			e.Context.ClearColor(0, 0, 0, 0)
			e.Context.Clear(e.clearMask())
		}
		if err := frame(e); err != nil {
			return err
		}
		// GetError returns a value, so it also waits for the frame's
		// queued calls to execute before the buffers are swapped.
		e.checkError()

		e.publishc <- struct{}{}
		if closing := <-e.publishDone; closing {
			return ErrStop
		}
	}
}

func (e *Engine) applyViewport() {
	w, h := e.Size()
	if e.viewport == [2]int{w, h} {
		return
	}
	e.Context.Viewport(0, 0, w, h)
	e.viewport = [2]int{w, h}
	v3gl.Logger().Debug("viewport", zap.Int("width", w), zap.Int("height", h))
}

// maxErrors bounds the GetError loop; some drivers never stop reporting
// an error once the context is lost.
const maxErrors = 8

func (e *Engine) checkError() {
	for i := 0; i < maxErrors; i++ {
		code := e.Context.GetError()
		if code == gl.NO_ERROR {
			return
		}
		v3gl.Logger().Warn("GL error", zap.String("error", errorName(code)))
	}
}

func errorName(code gl.Enum) string {
	switch code {
	case gl.INVALID_ENUM:
		return "INVALID_ENUM"
	case gl.INVALID_VALUE:
		return "INVALID_VALUE"
	case gl.INVALID_OPERATION:
		return "INVALID_OPERATION"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "INVALID_FRAMEBUFFER_OPERATION"
	case gl.OUT_OF_MEMORY:
		return "OUT_OF_MEMORY"
	}
	return fmt.Sprintf("0x%04x", uint32(code))
}

// Close releases the surface and the windowing system if the Engine came
// from Open. It must be called on the goroutine that called Run.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		if e.release != nil {
			e.release()
		}
	})
}
