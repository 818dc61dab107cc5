// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package master

import (
	"sync"
	"time"
)

// AsyncWatcher is a monotonic version counter with blocking wait support,
// grounded on thread/AsyncWatcher.h. Client uses one per blocking
// primitive (WaitTaskReady, barrier, acquireLock) to turn a
// notify-then-recheck loop into a condition variable wait.
type AsyncWatcher struct {
	mu      sync.Mutex
	cond    *sync.Cond
	version uint64
}

// NewAsyncWatcher returns a ready-to-use AsyncWatcher.
func NewAsyncWatcher() *AsyncWatcher {
	w := &AsyncWatcher{}
	w.cond = sync.NewCond(&w.mu)
	return w
}

// Notify bumps the version and wakes every waiter.
func (w *AsyncWatcher) Notify() {
	w.mu.Lock()
	w.version++
	w.mu.Unlock()
	w.cond.Broadcast()
}

// Watch blocks until the version changes from the value last observed by
// the caller (from), returning the new version.
func (w *AsyncWatcher) Watch(from uint64) uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	for w.version == from {
		w.cond.Wait()
	}
	return w.version
}

// Version returns the current version without blocking.
func (w *AsyncWatcher) Version() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.version
}

// Wait blocks, re-checking pred after every notification, until pred
// returns true.
func (w *AsyncWatcher) Wait(pred func() bool) {
	last := w.Version()
	for !pred() {
		last = w.Watch(last)
	}
}

// WaitTimeout is the bounded counterpart of Wait: it returns false if
// timeout elapses before pred becomes true.
func (w *AsyncWatcher) WaitTimeout(timeout time.Duration, pred func() bool) bool {
	deadline := time.Now().Add(timeout)
	for !pred() {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return pred()
		}
		done := make(chan uint64, 1)
		last := w.Version()
		go func() { done <- w.Watch(last) }()
		select {
		case <-done:
		case <-time.After(remaining):
			return pred()
		}
	}
	return true
}
