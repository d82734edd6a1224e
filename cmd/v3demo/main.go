// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// V3demo opens a window, compiles the default shaders and reports on them,
// then draws a spinning cube.
//
// Usage:
//
//	v3demo [--config file.toml] [--width w] [--height h] [--frames n] [--info] [--debug]
//
// With --info it prints the shaders' compile results and the program's
// attributes and uniforms, then exits.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"github.com/v3gl/v3gl"
	"github.com/v3gl/v3gl/engine"
	"go.uber.org/zap"
)

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML file with window and context settings",
	}
	widthFlag = &cli.IntFlag{
		Name:  "width",
		Usage: "window width, overriding the config file",
	}
	heightFlag = &cli.IntFlag{
		Name:  "height",
		Usage: "window height, overriding the config file",
	}
	titleFlag = &cli.StringFlag{
		Name:  "title",
		Usage: "window title, overriding the config file",
	}
	framesFlag = &cli.IntFlag{
		Name:  "frames",
		Usage: "stop after this many frames (0 runs until the window closes)",
	}
	infoFlag = &cli.BoolFlag{
		Name:  "info",
		Usage: "print shader and program information and exit",
	}
	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "log at debug level",
	}
)

func newApp() *cli.App {
	return &cli.App{
		Name:    "v3demo",
		Usage:   "draw a spinning cube with v3gl",
		Version: v3gl.Version,
		Flags: []cli.Flag{
			configFlag, widthFlag, heightFlag, titleFlag,
			framesFlag, infoFlag, debugFlag,
		},
		Action: run,
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "v3demo: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	logger, err := newLogger(ctx.Bool(debugFlag.Name))
	if err != nil {
		return err
	}
	defer logger.Sync()
	v3gl.SetLogger(logger)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	e, err := engine.Open(cfg)
	if err != nil {
		return err
	}
	defer e.Close()

	s := &scene{
		out:       ctx.App.Writer,
		info:      ctx.Bool(infoFlag.Name),
		maxFrames: ctx.Int(framesFlag.Name),
	}
	e.OnClose(s.close)
	return e.Run(s.frame)
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	c := zap.NewProductionConfig()
	c.Encoding = "console"
	return c.Build()
}

// loadConfig reads the --config file, if any, and applies the flags that
// override it.
func loadConfig(ctx *cli.Context) (engine.Config, error) {
	cfg := engine.DefaultConfig()
	if name := ctx.String(configFlag.Name); name != "" {
		var err error
		if cfg, err = engine.LoadConfig(name); err != nil {
			return engine.Config{}, err
		}
	}
	if ctx.IsSet(widthFlag.Name) {
		cfg.Width = ctx.Int(widthFlag.Name)
	}
	if ctx.IsSet(heightFlag.Name) {
		cfg.Height = ctx.Int(heightFlag.Name)
	}
	if ctx.IsSet(titleFlag.Name) {
		cfg.Title = ctx.String(titleFlag.Name)
	}
	return cfg, cfg.Validate()
}
