// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package arena implements the process-wide RPC memory arena: a pooled
// byte-slice allocator with fixed power-of-two size classes, selected by
// buffer.Buffer whenever it is constructed with the is_msg flag set.
//
// The arena is exposed through the Allocator interface so tests can inject
// a deterministic or instrumented allocator instead of the pooled default.
package arena

import "sync"

// Allocator obtains and releases byte slices of at least the requested
// length. Get may return a slice with capacity greater than n; callers must
// reslice to the length they need. Put returns a slice obtained from Get
// back to the allocator. The pooled default keeps any slice whose capacity
// is exactly one of its size classes and drops every other slice.
type Allocator interface {
	Get(n int) []byte
	Put(b []byte)
}

// minClass is the smallest size class, in bytes.
const minClass = 64

// maxClass is the largest pooled size class. Requests larger than maxClass
// bypass the pool and allocate directly.
const maxClass = 1 << 20 // 1MiB

type pooled struct {
	pools []sync.Pool // pools[i] holds slices of capacity minClass<<i
}

// sizeClass returns the index of the smallest pool whose capacity is >= n,
// and that capacity. ok is false when n exceeds maxClass.
func sizeClass(n int) (idx, capacity int, ok bool) {
	capacity = minClass
	idx = 0
	for capacity < n {
		capacity <<= 1
		idx++
		if capacity > maxClass {
			return 0, 0, false
		}
	}
	return idx, capacity, true
}

func newPooled() *pooled {
	numClasses := 0
	for c := minClass; c <= maxClass; c <<= 1 {
		numClasses++
	}
	p := &pooled{pools: make([]sync.Pool, numClasses)}
	for i := range p.pools {
		capacity := minClass << i
		p.pools[i].New = func() any {
			b := make([]byte, 0, capacity)
			return &b
		}
	}
	return p
}

func (p *pooled) Get(n int) []byte {
	idx, capacity, ok := sizeClass(n)
	if !ok {
		return make([]byte, n)
	}
	bp := p.pools[idx].Get().(*[]byte)
	b := (*bp)[:0]
	if cap(b) < capacity {
		b = make([]byte, 0, capacity)
	}
	return b[:n]
}

func (p *pooled) Put(b []byte) {
	c := cap(b)
	if c < minClass || c > maxClass {
		return
	}
	idx, capacity, ok := sizeClass(c)
	if !ok || capacity != c {
		return
	}
	b = b[:0]
	p.pools[idx].Put(&b)
}

var global Allocator = newPooled()

// Default returns the process-wide allocator used by buffer.Buffer when
// is_msg is set: the pooled allocator, unless SetDefault installed another.
func Default() Allocator {
	return global
}

// SetDefault replaces the allocator Default returns. It is not safe to call
// concurrently with allocation; tests call it before creating any is_msg
// buffer.
func SetDefault(a Allocator) {
	global = a
}
