// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package fatal provides the abort-on-programmer-error primitive used by
// the checked (non-try_) accessors across archive and lazyarchive.
package fatal

import (
	"fmt"
	"runtime"
)

// Hook, when set, is called instead of panicking. Tests use SetHook to turn
// a Check failure into an observable error rather than crashing the test
// binary.
type Hook func(error)

var hook Hook

// SetHook installs h as the fatal interception hook. Passing nil restores
// the default panic behavior.
func SetHook(h Hook) {
	hook = h
}

// Check panics (or invokes the installed hook) with a message naming the
// call site when cond is false. It mirrors the source's SCHECK macro.
func Check(cond bool, format string, args ...any) {
	if cond {
		return
	}
	_, file, line, ok := runtime.Caller(1)
	msg := fmt.Sprintf(format, args...)
	if ok {
		msg = fmt.Sprintf("%s:%d: %s", file, line, msg)
	}
	if hook != nil {
		hook(fmt.Errorf("%s", msg))
		return
	}
	panic(msg)
}
