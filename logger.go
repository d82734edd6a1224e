// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package v3gl

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// loggerPtr holds the active logger. It is accessed atomically so that
// SetLogger may race with logging from a render goroutine.
var loggerPtr atomic.Pointer[zap.Logger]

func init() {
	loggerPtr.Store(zap.NewNop())
}

// SetLogger sets the logger used by v3gl and its sub-packages.
// By default nothing is logged. Passing nil restores that.
//
// Levels:
//   - Debug: reflection results and buffer uploads
//   - Info: context lifecycle
//   - Warn: compile and link failures, GL errors reported after a frame
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerPtr.Store(l)
}

// Logger returns the logger set with SetLogger.
func Logger() *zap.Logger {
	return loggerPtr.Load()
}
