// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package master

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAsyncWatcherWaitUnblocksOnNotify(t *testing.T) {
	aw := NewAsyncWatcher()
	var ready atomic.Bool

	done := make(chan struct{})
	go func() {
		aw.Wait(func() bool { return ready.Load() })
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Wait returned before the predicate could be true")
	case <-time.After(20 * time.Millisecond):
	}

	ready.Store(true)
	aw.Notify()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not unblock after Notify")
	}
}

func TestAsyncWatcherWaitTimeoutExpires(t *testing.T) {
	aw := NewAsyncWatcher()
	ok := aw.WaitTimeout(30*time.Millisecond, func() bool { return false })
	require.False(t, ok)
}

func TestAsyncWatcherWaitTimeoutSucceedsBeforeDeadline(t *testing.T) {
	aw := NewAsyncWatcher()
	var ready atomic.Bool

	go func() {
		time.Sleep(10 * time.Millisecond)
		ready.Store(true)
		aw.Notify()
	}()

	ok := aw.WaitTimeout(time.Second, func() bool { return ready.Load() })
	require.True(t, ok)
}

func TestAsyncWatcherVersionMonotonic(t *testing.T) {
	aw := NewAsyncWatcher()
	require.Equal(t, uint64(0), aw.Version())
	aw.Notify()
	aw.Notify()
	require.Equal(t, uint64(2), aw.Version())
}
