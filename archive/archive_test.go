// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package archive

import (
	"path/filepath"
	"testing"
)

func TestArithmeticRoundTripBinary(t *testing.T) {
	w := NewMemoryWriter(Binary, false)
	WriteArithmetic[int32](w, -42)
	WriteArithmetic[uint64](w, 1<<40)
	WriteArithmetic[float64](w, 3.5)

	r := NewMemoryReader(Binary, w.Buffer().Bytes())
	if v := ReadArithmetic[int32](r); v != -42 {
		t.Fatalf("int32 = %d, want -42", v)
	}
	if v := ReadArithmetic[uint64](r); v != 1<<40 {
		t.Fatalf("uint64 = %d, want %d", v, uint64(1<<40))
	}
	if v := ReadArithmetic[float64](r); v != 3.5 {
		t.Fatalf("float64 = %v, want 3.5", v)
	}
}

func TestArithmeticRoundTripText(t *testing.T) {
	w := NewMemoryWriter(Text, false)
	WriteArithmetic[int32](w, -42)
	WriteArithmetic[uint64](w, 7)

	r := NewMemoryReader(Text, w.Buffer().Bytes())
	if v := ReadArithmetic[int32](r); v != -42 {
		t.Fatalf("int32 = %d, want -42", v)
	}
	if v := ReadArithmetic[uint64](r); v != 7 {
		t.Fatalf("uint64 = %d, want 7", v)
	}
}

func TestTryReadExhausted(t *testing.T) {
	r := NewMemoryReader(Binary, nil)
	_, ok := TryReadArithmetic[int32](r)
	if ok {
		t.Fatal("expected exhausted read to fail")
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, format := range []Format{Binary, Text} {
		w := NewMemoryWriter(format, false)
		w.WriteString("hello, archive")
		r := NewMemoryReader(format, w.Buffer().Bytes())
		if s := r.ReadString(); s != "hello, archive" {
			t.Fatalf("format %v: ReadString() = %q", format, s)
		}
	}
}

func TestSliceRoundTrip(t *testing.T) {
	in := []int32{1, 2, 3, -4, 5}
	for _, format := range []Format{Binary, Text} {
		w := NewMemoryWriter(format, false)
		WriteSlice(w, in)
		r := NewMemoryReader(format, w.Buffer().Bytes())
		out := ReadSlice[int32](r)
		if len(out) != len(in) {
			t.Fatalf("format %v: len = %d, want %d", format, len(out), len(in))
		}
		for i := range in {
			if in[i] != out[i] {
				t.Fatalf("format %v: [%d] = %d, want %d", format, i, out[i], in[i])
			}
		}
	}
}

func TestBoolSliceRoundTrip(t *testing.T) {
	in := []bool{true, false, false, true, true, true, false, false, true}
	for _, format := range []Format{Binary, Text} {
		w := NewMemoryWriter(format, false)
		w.WriteBoolSlice(in)
		r := NewMemoryReader(format, w.Buffer().Bytes())
		out := r.ReadBoolSlice()
		if len(out) != len(in) {
			t.Fatalf("format %v: len = %d, want %d", format, len(out), len(in))
		}
		for i := range in {
			if in[i] != out[i] {
				t.Fatalf("format %v: [%d] = %v, want %v", format, i, out[i], in[i])
			}
		}
	}
}

func TestMapRoundTrip(t *testing.T) {
	in := map[string]int32{"a": 1, "b": 2, "c": 3}
	w := NewMemoryWriter(Binary, false)
	WriteMap(w, in, func(a *Archive, k string) { a.WriteString(k) }, func(a *Archive, v int32) { WriteArithmetic(a, v) })
	r := NewMemoryReader(Binary, w.Buffer().Bytes())
	out := ReadMap(r, func(a *Archive) string { return a.ReadString() }, func(a *Archive) int32 { return ReadArithmetic[int32](a) })
	if len(out) != len(in) {
		t.Fatalf("len = %d, want %d", len(out), len(in))
	}
	for k, v := range in {
		if out[k] != v {
			t.Fatalf("out[%q] = %d, want %d", k, out[k], v)
		}
	}
}

func TestNestedArchiveRoundTrip(t *testing.T) {
	inner := NewMemoryWriter(Binary, false)
	WriteArithmetic[int32](inner, 99)

	outer := NewMemoryWriter(Binary, false)
	outer.WriteNested(inner)

	r := NewMemoryReader(Binary, outer.Buffer().Bytes())
	nested := r.ReadNested()
	if v := ReadArithmetic[int32](nested); v != 99 {
		t.Fatalf("nested int32 = %d, want 99", v)
	}
}

func TestFileArchiveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.bin")

	w, err := NewFileWriter(Binary, path)
	if err != nil {
		t.Fatal(err)
	}
	WriteArithmetic[int64](w, 123456789)
	w.WriteString("file archive")
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := NewFileReader(Binary, path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if v := ReadArithmetic[int64](r); v != 123456789 {
		t.Fatalf("int64 = %d, want 123456789", v)
	}
	if s := r.ReadString(); s != "file archive" {
		t.Fatalf("ReadString() = %q", s)
	}
}
