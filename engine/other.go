// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !cgo || !(linux || darwin || freebsd || windows) || android || ios
// +build !cgo !linux,!darwin,!freebsd,!windows android ios

package engine

import (
	"runtime"

	"golang.org/x/xerrors"
)

// Open returns ErrUnsupported on this platform.
func Open(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return nil, xerrors.Errorf("%s/%s (cgo required): %w", runtime.GOOS, runtime.GOARCH, ErrUnsupported)
}
