// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rpcmsg

// Cursor is a copyable iterator over a sequence of byte chunks, mirroring
// byte_cursor in the source. Head and Next return the chunks' own storage;
// no bytes are copied.
type Cursor struct {
	chunks [][]byte
}

// NewCursor returns a Cursor over chunks, consumed front to back.
func NewCursor(chunks ...[]byte) *Cursor {
	c := &Cursor{}
	for _, ch := range chunks {
		if len(ch) > 0 {
			c.chunks = append(c.chunks, ch)
		}
	}
	return c
}

// HasNext reports whether any bytes remain.
func (c *Cursor) HasNext() bool { return len(c.chunks) > 0 }

// Size returns the total number of remaining bytes across all chunks.
func (c *Cursor) Size() int {
	n := 0
	for _, ch := range c.chunks {
		n += len(ch)
	}
	return n
}

// Head returns the current front chunk without consuming it.
func (c *Cursor) Head() []byte {
	if len(c.chunks) == 0 {
		return nil
	}
	return c.chunks[0]
}

// Next pops and returns the front chunk in full.
func (c *Cursor) Next() []byte {
	if len(c.chunks) == 0 {
		return nil
	}
	h := c.chunks[0]
	c.chunks = c.chunks[1:]
	return h
}

// Advance consumes n bytes from the front, popping exhausted chunks and
// leaving a partially-consumed chunk's remainder at the front.
func (c *Cursor) Advance(n int) {
	for n > 0 && len(c.chunks) > 0 {
		h := c.chunks[0]
		if n < len(h) {
			c.chunks[0] = h[n:]
			return
		}
		n -= len(h)
		c.chunks = c.chunks[1:]
	}
}

// ZeroCopyCursor is the zero-copy counterpart of Cursor: like Cursor, Next
// returns the underlying chunk slice directly (sharing storage), and it also
// tracks an optional release func per chunk so callers can return
// arena-backed storage once consumed.
type ZeroCopyCursor struct {
	chunks   [][]byte
	releases []func()
}

// NewZeroCopyCursor returns a ZeroCopyCursor over chunks with optional
// per-chunk release funcs (nil entries are allowed).
func NewZeroCopyCursor(chunks [][]byte, releases []func()) *ZeroCopyCursor {
	return &ZeroCopyCursor{chunks: chunks, releases: releases}
}

// HasNext reports whether any chunks remain.
func (c *ZeroCopyCursor) HasNext() bool { return len(c.chunks) > 0 }

// Size returns the total remaining byte count.
func (c *ZeroCopyCursor) Size() int {
	n := 0
	for _, ch := range c.chunks {
		n += len(ch)
	}
	return n
}

// Head returns the front chunk without consuming it.
func (c *ZeroCopyCursor) Head() []byte {
	if len(c.chunks) == 0 {
		return nil
	}
	return c.chunks[0]
}

// Next pops the front chunk, returning its bytes (shared storage) and its
// release func (a no-op func when the chunk has none). Next does not call
// the release; the caller calls it once done with the bytes.
func (c *ZeroCopyCursor) Next() (data []byte, release func()) {
	if len(c.chunks) == 0 {
		return nil, func() {}
	}
	data = c.chunks[0]
	release = c.releases[0]
	c.chunks = c.chunks[1:]
	c.releases = c.releases[1:]
	if release == nil {
		release = func() {}
	}
	return data, release
}
