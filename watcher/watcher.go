// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package watcher implements a keyed multiset of callbacks with stable
// handles, grounded on MasterClient.cpp's WatcherTable. It is the building
// block master.Client uses to dispatch path-tree events to registered
// watch callbacks.
package watcher

import "sync"

// Handle identifies one registered callback for later removal via Erase.
// Handles are unique for the lifetime of the Table that issued them.
type Handle uint64

// Callback is invoked by Invoke for every watcher registered against a key.
// A callback must not call Insert or Erase on the same Table, and must not
// assume any ordering relative to other callbacks registered for the same
// key — both are enforced only by convention, matching the source.
type Callback func(key string)

type entry struct {
	handle   Handle
	callback Callback
}

// Table is a mutex-serialized keyed multiset of callbacks.
type Table struct {
	mu      sync.Mutex
	next    Handle
	entries map[string][]entry
}

// New returns an empty Table.
func New() *Table {
	return &Table{entries: make(map[string][]entry)}
}

// Insert registers cb against key and returns a handle for later removal.
func (t *Table) Insert(key string, cb Callback) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	h := t.next
	t.entries[key] = append(t.entries[key], entry{handle: h, callback: cb})
	return h
}

// Erase removes the callback registered under key with handle h. It is a
// no-op if no such entry exists. If key's callback list becomes empty, the
// key mapping itself is removed.
func (t *Table) Erase(key string, h Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	list := t.entries[key]
	for i, e := range list {
		if e.handle == h {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(t.entries, key)
	} else {
		t.entries[key] = list
	}
}

// Invoke calls every callback registered for key, in insertion order, under
// the table's mutex.
func (t *Table) Invoke(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range t.entries[key] {
		e.callback(key)
	}
}

// Len returns the number of callbacks registered for key.
func (t *Table) Len(key string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries[key])
}
