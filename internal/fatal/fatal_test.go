// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fatal

import (
	"errors"
	"testing"
)

func TestCheckPasses(t *testing.T) {
	Check(true, "should not fire")
}

func TestCheckHook(t *testing.T) {
	var got error
	SetHook(func(err error) { got = err })
	defer SetHook(nil)

	Check(false, "boom %d", 42)
	if got == nil {
		t.Fatal("expected hook to capture an error")
	}
	if !errors.Is(got, got) {
		t.Fatal("error must compare equal to itself")
	}
}

func TestCheckPanicsWithoutHook(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic")
		}
	}()
	Check(false, "boom")
}
