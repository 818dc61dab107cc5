// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package buffer implements the memory buffer primitive underlying archive
// and lazyarchive: a byte region tracked by three offsets (cursor, end,
// border) plus an optional release function for borrowed or pooled memory.
//
// A Buffer is not safe for concurrent use; it models the single-owner,
// move-only buffers of the system it is derived from. Copying a Buffer
// value is forbidden by convention (always pass *Buffer).
package buffer

import "code.hybscloud.com/prpc/internal/arena"

// Buffer is a growable byte region with separate read/write cursors.
//
// Invariant: 0 <= cursor <= end <= border <= cap(data).
//   - data[:border] is the owned/available storage.
//   - data[:end] is the written (valid) region.
//   - data[cursor:end] is the unread (for read-oriented use) or
//     not-yet-consumed region.
//
// buffer is used both for read-oriented traversal (cursor advances as bytes
// are consumed) and for write-oriented accumulation (end advances as bytes
// are appended; cursor stays at 0 unless the caller also reads back).
type Buffer struct {
	data    []byte
	cursor  int
	end     int
	border  int
	release func()
	isMsg   bool
}

// New returns an empty buffer. If isMsg is true, future growth draws from
// the process-wide RPC arena instead of the Go heap, mirroring the source's
// is_msg flag on MemoryArchive.
func New(isMsg bool) *Buffer {
	return &Buffer{isMsg: isMsg}
}

// Len returns the number of written bytes (end - 0), i.e. the valid region
// length, matching MemoryArchive::size().
func (b *Buffer) Len() int { return b.end }

// Cap returns the current backing capacity (border).
func (b *Buffer) Cap() int { return b.border }

// Cursor returns the current read cursor.
func (b *Buffer) Cursor() int { return b.cursor }

// SetCursor repositions the read cursor. It panics if pos is out of
// [0, end] range, matching the checked-access convention used elsewhere in
// this module.
func (b *Buffer) SetCursor(pos int) {
	if pos < 0 || pos > b.end {
		panic("buffer: cursor out of range")
	}
	b.cursor = pos
}

// Bytes returns the written region data[:end]. The slice aliases the
// buffer's storage and is invalidated by the next mutating call.
func (b *Buffer) Bytes() []byte { return b.data[:b.end] }

// Unread returns data[cursor:end], the bytes not yet consumed by readers.
func (b *Buffer) Unread() []byte { return b.data[b.cursor:b.end] }

// allocator returns the arena allocator when isMsg, otherwise nil meaning
// plain Go heap allocation.
func (b *Buffer) allocator() arena.Allocator {
	if b.isMsg {
		return arena.Default()
	}
	return nil
}

// growTo grows the backing array so border >= need, following the growth
// policy: round up to a multiple of 64, then at least double the previous
// capacity. If the buffer was arena-backed, the old block is released back
// to the arena once the copy completes (modeling malloc-copy-free); for a
// plain Go slice, a new slice is allocated and the written bytes are copied
// into it, and the runtime GC reclaims the old array.
func (b *Buffer) growTo(need int) {
	if need <= b.border {
		return
	}
	newCap := need
	if rem := newCap % 64; rem != 0 {
		newCap += 64 - rem
	}
	if dbl := b.border * 2; dbl > newCap {
		newCap = dbl
	}

	a := b.allocator()
	var newData []byte
	if a != nil {
		newData = a.Get(newCap)
	} else {
		newData = make([]byte, newCap)
	}
	copy(newData, b.data[:b.end])

	if a != nil && b.release != nil {
		b.release()
	}
	b.data = newData
	b.border = newCap
	if a != nil {
		b.release = func() { a.Put(newData) }
	} else {
		b.release = nil
	}
}

// Reserve ensures the buffer can hold at least n bytes without
// reallocating, growing the backing storage per the growth policy if
// necessary.
func (b *Buffer) Reserve(n int) {
	b.growTo(n)
}

// Resize sets the valid region length to n, growing storage if necessary.
// Shrinking (n < end) only adjusts end; it does not release storage.
func (b *Buffer) Resize(n int) {
	if n > b.border {
		b.growTo(n)
	}
	b.end = n
	if b.cursor > b.end {
		b.cursor = b.end
	}
}

// Append writes p to the end of the buffer, growing as needed, and returns
// the number of bytes written (always len(p)).
func (b *Buffer) Append(p []byte) int {
	b.growTo(b.end + len(p))
	copy(b.data[b.end:b.end+len(p)], p)
	b.end += len(p)
	return len(p)
}

// Assign replaces the buffer's contents with a copy of p. It calls Release
// (dropping the current storage, borrowed or owned) and then Append(p), so
// the copy always lands in freshly allocated storage.
func (b *Buffer) Assign(p []byte) {
	b.Release()
	b.end = 0
	b.cursor = 0
	b.Append(p)
}

// SetBuffer installs data as a borrowed (non-owning) backing region: the
// buffer will read/write within data but release will not free it. This
// mirrors MemoryArchive::set_buffer used to alias externally owned memory.
func (b *Buffer) SetBuffer(data []byte) {
	b.Release()
	b.data = data
	b.border = cap(data)
	b.end = len(data)
	b.cursor = 0
	b.release = nil
}

// Release returns any arena-backed storage to its allocator and resets the
// buffer to empty. It is safe to call multiple times.
func (b *Buffer) Release() {
	if b.release != nil {
		b.release()
		b.release = nil
	}
	b.data = nil
	b.cursor = 0
	b.end = 0
	b.border = 0
}

// ReleaseShared detaches the written region from the buffer without
// releasing the underlying storage, returning the bytes plus a release
// function the caller must eventually invoke. The release func is not
// reference counted: calling it once hands arena-backed storage back to the
// arena, after which the returned bytes must no longer be used. For heap or
// borrowed storage the release func is a no-op.
//
// After ReleaseShared, the buffer itself is reset to empty and no longer
// owns the returned storage.
func (b *Buffer) ReleaseShared() (data []byte, release func()) {
	data = b.data[:b.end]
	rel := b.release
	b.data = nil
	b.cursor = 0
	b.end = 0
	b.border = 0
	b.release = nil
	if rel == nil {
		return data, func() {}
	}
	return data, rel
}

// View returns a non-owning alias of the written region: the returned
// buffer shares storage with b but its release is a no-op, matching
// MemoryArchive::view().
func (b *Buffer) View() *Buffer {
	return &Buffer{
		data:   b.data,
		end:    b.end,
		border: b.end,
		isMsg:  b.isMsg,
	}
}
