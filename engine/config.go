// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"io"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/xerrors"
)

// Config describes the window and context Open creates.
//
// In TOML:
//
//	title = "cube"
//	width = 800
//	height = 600
//	vsync = true
//
//	[context]
//	version = "auto"
//	depth = true
//	antialias = true
type Config struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`

	// VSync waits for the display's vertical blank before swapping.
	VSync bool `toml:"vsync"`

	Context ContextOptions `toml:"context"`
}

// ContextOptions are the attributes of the rendering context. They mirror
// the WebGL context attributes of the same names.
type ContextOptions struct {
	// Version is "3.0", "2.0" or "auto". Auto, the default, asks for the
	// newest version the platform offers and falls back to older ones.
	Version string `toml:"version"`

	Alpha     bool `toml:"alpha"`
	Depth     bool `toml:"depth"`
	Stencil   bool `toml:"stencil"`
	Antialias bool `toml:"antialias"`

	// PremultipliedAlpha asks the window system to composite the
	// framebuffer as premultiplied. It only has an effect with Alpha.
	PremultipliedAlpha bool `toml:"premultiplied_alpha"`

	// PreserveDrawingBuffer keeps the previous frame's contents. When it
	// is false, Run clears all buffers to transparent black before each
	// frame.
	PreserveDrawingBuffer bool `toml:"preserve_drawing_buffer"`
}

// DefaultConfig returns the configuration Open uses if none is given.
// The context options are the WebGL defaults.
func DefaultConfig() Config {
	return Config{
		Title:  "v3gl",
		Width:  640,
		Height: 480,
		VSync:  true,
		Context: ContextOptions{
			Version:            "auto",
			Alpha:              true,
			Depth:              true,
			Antialias:          true,
			PremultipliedAlpha: true,
		},
	}
}

// LoadConfig reads a TOML configuration from the named file. Settings the
// file leaves out keep their DefaultConfig values.
func LoadConfig(name string) (Config, error) {
	f, err := os.Open(name)
	if err != nil {
		return Config{}, xerrors.Errorf("engine: %w", err)
	}
	defer f.Close()
	cfg, err := ParseConfig(f)
	if err != nil {
		return Config{}, xerrors.Errorf("engine: %s: %w", name, err)
	}
	return cfg, nil
}

// ParseConfig reads a TOML configuration from r. Unknown keys are an
// error.
func ParseConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	d := toml.NewDecoder(r)
	d.DisallowUnknownFields()
	if err := d.Decode(&cfg); err != nil {
		var serr *toml.StrictMissingError
		if xerrors.As(err, &serr) && len(serr.Errors) > 0 {
			first := serr.Errors[0]
			row, col := first.Position()
			return Config{}, xerrors.Errorf("line %d column %d: unknown key %s", row, col, strings.Join(first.Key(), "."))
		}
		var derr *toml.DecodeError
		if xerrors.As(err, &derr) {
			row, col := derr.Position()
			return Config{}, xerrors.Errorf("line %d column %d: %w", row, col, err)
		}
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports whether c describes a window that can be opened.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return xerrors.Errorf("engine: invalid window size %dx%d", c.Width, c.Height)
	}
	if _, err := c.Context.versions(); err != nil {
		return err
	}
	return nil
}

// versions returns the context versions to try, newest first. A nil
// result means the platform default.
func (o ContextOptions) versions() ([]Version, error) {
	switch o.Version {
	case "", "auto":
		return nil, nil
	case "3.0":
		return []Version{{3, 0}}, nil
	case "2.0":
		return []Version{{2, 0}}, nil
	}
	return nil, xerrors.Errorf("engine: unsupported context version %q", o.Version)
}
