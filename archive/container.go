// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package archive

import "code.hybscloud.com/prpc/internal/fatal"

// WriteString writes a length-prefixed (uint64) string followed by its raw
// bytes, independent of Format — strings are written as a length plus raw
// payload even in text archives, matching the source's string codec (which
// does not space-delimit string contents, only arithmetic fields).
func (a *Archive) WriteString(s string) {
	WriteArithmetic(a, uint64(len(s)))
	a.WriteBytes([]byte(s))
}

// ReadString reads a string written by WriteString.
func (a *Archive) ReadString() string {
	n := ReadArithmetic[uint64](a)
	return string(a.ReadBytes(int(n)))
}

// TryReadString is the fallible counterpart of ReadString.
func (a *Archive) TryReadString() (string, bool) {
	n, ok := TryReadArithmetic[uint64](a)
	if !ok {
		return "", false
	}
	p, ok := a.TryReadBytes(int(n))
	if !ok {
		return "", false
	}
	return string(p), true
}

// WriteSlice writes a slice of numeric values. On binary archives this is a
// single length-prefixed raw block (the fast path the source takes for
// trivially-copyable vector<T>); on text archives each element is written
// with WriteArithmetic, space-delimited.
func WriteSlice[T Numeric](a *Archive, s []T) {
	WriteArithmetic(a, uint64(len(s)))
	if a.format == Binary {
		for _, v := range s {
			a.appendBytes(encodeLE(v))
		}
		return
	}
	for _, v := range s {
		WriteArithmetic(a, v)
	}
}

// ReadSlice reads a slice written by WriteSlice.
func ReadSlice[T Numeric](a *Archive) []T {
	n := ReadArithmetic[uint64](a)
	out := make([]T, n)
	for i := range out {
		out[i] = ReadArithmetic[T](a)
	}
	return out
}

// WriteBoolSlice writes a []bool. Binary archives pack 8 bools per byte
// (64 bits per 8 bytes of input, matching the source's bit-packed
// vector<bool> codec); text archives write one 0/1 token per element.
func (a *Archive) WriteBoolSlice(s []bool) {
	WriteArithmetic(a, uint64(len(s)))
	if a.format == Text {
		for _, v := range s {
			if v {
				WriteArithmetic(a, uint8(1))
			} else {
				WriteArithmetic(a, uint8(0))
			}
		}
		return
	}
	packed := make([]byte, (len(s)+7)/8)
	for i, v := range s {
		if v {
			packed[i/8] |= 1 << uint(i%8)
		}
	}
	a.WriteBytes(packed)
}

// ReadBoolSlice reads a []bool written by WriteBoolSlice.
func (a *Archive) ReadBoolSlice() []bool {
	n := ReadArithmetic[uint64](a)
	out := make([]bool, n)
	if a.format == Text {
		for i := range out {
			out[i] = ReadArithmetic[uint8](a) != 0
		}
		return out
	}
	packed := a.ReadBytes(int((n + 7) / 8))
	for i := range out {
		out[i] = packed[i/8]&(1<<uint(i%8)) != 0
	}
	return out
}

// Pair mirrors std::pair<T1,T2> for archive codec purposes.
type Pair[A, B any] struct {
	First  A
	Second B
}

// WriteMap writes a map[K]V as a length prefix followed by key/value pairs,
// using writeKey/writeVal for each element. Go map iteration order is
// unspecified; round-trip equality is defined over content, not order (see
// DESIGN.md).
func WriteMap[K comparable, V any](a *Archive, m map[K]V, writeKey func(*Archive, K), writeVal func(*Archive, V)) {
	WriteArithmetic(a, uint64(len(m)))
	for k, v := range m {
		writeKey(a, k)
		writeVal(a, v)
	}
}

// ReadMap reads a map written by WriteMap.
func ReadMap[K comparable, V any](a *Archive, readKey func(*Archive) K, readVal func(*Archive) V) map[K]V {
	n := ReadArithmetic[uint64](a)
	m := make(map[K]V, n)
	for i := uint64(0); i < n; i++ {
		k := readKey(a)
		v := readVal(a)
		m[k] = v
	}
	return m
}

// WriteNested writes another memory archive's bytes as a length-prefixed
// block, matching pico_serialize(Archive<AR>&, const Archive<AR>&).
func (a *Archive) WriteNested(inner *Archive) {
	fatal.Check(inner.medium == Memory, "archive: nested archive must be memory-backed")
	b := inner.buf.Bytes()
	WriteArithmetic(a, uint64(len(b)))
	a.WriteBytes(b)
}

// ReadNested reads a nested archive written by WriteNested, returning a
// fresh read archive over a copy of its bytes.
func (a *Archive) ReadNested() *Archive {
	n := ReadArithmetic[uint64](a)
	data := a.ReadBytes(int(n))
	cp := make([]byte, len(data))
	copy(cp, data)
	return NewMemoryReader(a.format, cp)
}
