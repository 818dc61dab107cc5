// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package archive implements the archive codec: a positional, streaming
// encoder/decoder over buffer.Buffer (memory archives) or an *os.File (file
// archives), in binary or text form.
//
// Binary archives store values as raw little-endian bytes with container
// fast paths for trivially-copyable element types. Text archives store
// values as space-delimited decimal text, matching the original system's
// human-readable archive format. Both forms round-trip exactly for the
// value set this package supports.
package archive

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"code.hybscloud.com/prpc/buffer"
	"code.hybscloud.com/prpc/internal/fatal"
)

// Format selects binary or text encoding.
type Format int

const (
	Binary Format = iota
	Text
)

// Medium selects where the archive's bytes live.
type Medium int

const (
	Memory Medium = iota
	File
)

// Numeric constrains the arithmetic types WriteArithmetic/ReadArithmetic
// support, matching the source's template instantiations over the built-in
// numeric types.
type Numeric interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int |
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint |
		~float32 | ~float64
}

// Archive is a single-owner, move-only (by convention: always use *Archive)
// encoder/decoder. A write archive accumulates bytes; a read archive
// consumes them in the order they were written.
type Archive struct {
	format Format
	medium Medium
	writing bool

	buf *buffer.Buffer // memory medium

	file   *os.File // file medium
	reader *bufio.Reader
	writer *bufio.Writer
}

// NewMemoryWriter returns a write archive backed by an in-memory buffer. If
// isMsg is set, the buffer draws from the RPC arena (see buffer.New).
func NewMemoryWriter(format Format, isMsg bool) *Archive {
	return &Archive{format: format, medium: Memory, writing: true, buf: buffer.New(isMsg)}
}

// NewMemoryReader returns a read archive over data. data is not copied; the
// caller must keep it alive for the archive's lifetime.
func NewMemoryReader(format Format, data []byte) *Archive {
	b := buffer.New(false)
	b.SetBuffer(data)
	return &Archive{format: format, medium: Memory, writing: false, buf: b}
}

// NewFileWriter returns a write archive over the file at path, creating it
// if necessary and truncating any existing contents.
func NewFileWriter(format Format, path string) (*Archive, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}
	return &Archive{format: format, medium: File, writing: true, file: f, writer: bufio.NewWriter(f)}, nil
}

// NewFileReader opens path for sequential archive reads.
func NewFileReader(format Format, path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Archive{format: format, medium: File, writing: false, file: f, reader: bufio.NewReader(f)}, nil
}

// Close flushes and closes the underlying file, for file-medium archives.
// It is a no-op for memory archives.
func (a *Archive) Close() error {
	if a.medium != File {
		return nil
	}
	if a.writer != nil {
		if err := a.writer.Flush(); err != nil {
			return err
		}
	}
	return a.file.Close()
}

// Buffer returns the backing buffer of a memory archive, or nil for a file
// archive.
func (a *Archive) Buffer() *buffer.Buffer { return a.buf }

func (a *Archive) appendBytes(p []byte) {
	if a.medium == Memory {
		a.buf.Append(p)
		return
	}
	_, err := a.writer.Write(p)
	fatal.Check(err == nil, "archive: write failed: %v", err)
}

func (a *Archive) readBytes(n int) []byte {
	if a.medium == Memory {
		p := a.buf.Unread()
		fatal.Check(len(p) >= n, "archive: short read: need %d have %d", n, len(p))
		out := p[:n]
		a.buf.SetCursor(a.buf.Cursor() + n)
		return out
	}
	out := make([]byte, n)
	_, err := readFull(a.reader, out)
	fatal.Check(err == nil, "archive: read failed: %v", err)
	return out
}

func readFull(r *bufio.Reader, p []byte) (int, error) {
	total := 0
	for total < len(p) {
		n, err := r.Read(p[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// tryReadBytes is the non-fatal counterpart of readBytes, used by
// try-prefixed accessors.
func (a *Archive) tryReadBytes(n int) ([]byte, bool) {
	if a.medium == Memory {
		p := a.buf.Unread()
		if len(p) < n {
			return nil, false
		}
		out := p[:n]
		a.buf.SetCursor(a.buf.Cursor() + n)
		return out, true
	}
	out := make([]byte, n)
	got, err := readFull(a.reader, out)
	if err != nil || got != n {
		return nil, false
	}
	return out, true
}

// WriteBytes appends a raw byte block with no length prefix or
// delimiter — the caller is responsible for framing (used internally by
// container codecs and by rpcmsg for fixed-layout headers).
func (a *Archive) WriteBytes(p []byte) {
	a.appendBytes(p)
}

// ReadBytes reads exactly n raw bytes.
func (a *Archive) ReadBytes(n int) []byte {
	return a.readBytes(n)
}

// TryReadBytes is the fallible counterpart of ReadBytes.
func (a *Archive) TryReadBytes(n int) ([]byte, bool) {
	return a.tryReadBytes(n)
}

// WriteArithmetic writes a single numeric value. Binary archives write raw
// little-endian bytes; text archives write decimal text followed by a
// trailing space, matching write_arithmetic in the source.
func WriteArithmetic[T Numeric](a *Archive, v T) {
	if a.format == Binary {
		a.appendBytes(encodeLE(v))
		return
	}
	a.appendBytes([]byte(formatNumeric(v) + " "))
}

// ReadArithmetic reads a single numeric value, aborting on short input.
func ReadArithmetic[T Numeric](a *Archive) T {
	v, ok := TryReadArithmetic[T](a)
	fatal.Check(ok, "archive: read_arithmetic failed")
	return v
}

// TryReadArithmetic is the fallible counterpart of ReadArithmetic.
func TryReadArithmetic[T Numeric](a *Archive) (T, bool) {
	var zero T
	if a.format == Binary {
		p, ok := a.tryReadBytes(sizeOf(zero))
		if !ok {
			return zero, false
		}
		return decodeLE[T](p), true
	}
	tok, ok := a.readTextToken()
	if !ok {
		return zero, false
	}
	v, ok := parseNumeric[T](tok)
	return v, ok
}

// readTextToken strips leading spaces then reads one space-delimited token,
// matching read_arithmetic's text-mode behavior.
func (a *Archive) readTextToken() (string, bool) {
	if a.medium == Memory {
		p := a.buf.Unread()
		i := 0
		for i < len(p) && p[i] == ' ' {
			i++
		}
		if i >= len(p) {
			return "", false
		}
		j := i
		for j < len(p) && p[j] != ' ' {
			j++
		}
		tok := string(p[i:j])
		end := j
		if end < len(p) {
			end++ // consume the trailing space
		}
		a.buf.SetCursor(a.buf.Cursor() + end)
		return tok, true
	}
	var sb strings.Builder
	started := false
	for {
		b, err := a.reader.ReadByte()
		if err != nil {
			if started {
				return sb.String(), true
			}
			return "", false
		}
		if b == ' ' {
			if started {
				return sb.String(), true
			}
			continue
		}
		started = true
		sb.WriteByte(b)
	}
}

func formatNumeric[T Numeric](v T) string {
	switch x := any(v).(type) {
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprintf("%d", x)
	}
}

func parseNumeric[T Numeric](s string) (T, bool) {
	var zero T
	switch any(zero).(type) {
	case float32:
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return zero, false
		}
		return any(float32(f)).(T), true
	case float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return zero, false
		}
		return any(f).(T), true
	default:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			un, uerr := strconv.ParseUint(s, 10, 64)
			if uerr != nil {
				return zero, false
			}
			return castUint[T](un), true
		}
		return castInt[T](n), true
	}
}
