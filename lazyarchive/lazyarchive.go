// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package lazyarchive implements the deferred-serialization archive: values
// are recorded as an ordered sequence of lazy cells and only turned into
// bytes when Apply is called (for example, right before handing the message
// to a transport). Shareable payloads put with PutBlock bypass the meta
// archive entirely and travel as separate DataBlocks, avoiding a copy into
// the meta stream. Only numeric values, strings and DataBlocks can be put;
// slices, maps and nested archives have no cell type of their own.
//
// A Writer that is never Applied can still be read directly through a live
// Reader — the extraction-law fallback described in the source, which lets
// a producer and consumer in the same process skip serialization.
package lazyarchive

import (
	"code.hybscloud.com/prpc/archive"
	"code.hybscloud.com/prpc/internal/fatal"
)

// DataBlock is a non-owning (or owning, via Release) reference to a byte
// range that travels alongside an archive's meta stream instead of being
// copied into it.
type DataBlock struct {
	Data    []byte
	Release func()
	// Lkey is a slot for a hardware memory-region key. Nothing in this
	// module sets it, so it stays zero unless the caller assigns it.
	Lkey uint32
}

type lazyCell interface {
	apply(meta *archive.Archive, blocks *[]DataBlock)
	value() any
}

type arithCell[T archive.Numeric] struct{ v T }

func (c arithCell[T]) apply(meta *archive.Archive, _ *[]DataBlock) { archive.WriteArithmetic(meta, c.v) }
func (c arithCell[T]) value() any                                 { return c.v }

type stringCell struct{ s string }

func (c stringCell) apply(meta *archive.Archive, _ *[]DataBlock) { meta.WriteString(c.s) }
func (c stringCell) value() any                                  { return c.s }

type blockCell struct {
	block DataBlock
}

func (c blockCell) apply(_ *archive.Archive, blocks *[]DataBlock) {
	*blocks = append(*blocks, c.block)
}
func (c blockCell) value() any { return c.block }

// Writer accumulates an ordered sequence of values to be serialized lazily.
// It is not safe for concurrent use.
type Writer struct {
	cells []lazyCell
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// PutArithmetic appends a numeric value.
func PutArithmetic[T archive.Numeric](w *Writer, v T) {
	w.cells = append(w.cells, arithCell[T]{v: v})
}

// PutString appends a string value.
func (w *Writer) PutString(s string) {
	w.cells = append(w.cells, stringCell{s: s})
}

// PutBlock appends a shareable byte block. block.Data is not copied; it
// must remain valid until Apply has been called and its release func
// (returned via Apply's DataBlock) has been invoked by every holder.
func (w *Writer) PutBlock(block DataBlock) {
	w.cells = append(w.cells, blockCell{block: block})
}

// Apply serializes every accumulated cell in insertion order, appending
// pushed shareable blocks to *out as they are reached and finally appending
// one trailing block holding the meta archive's bytes. This mirrors
// LazyArchive::apply in the source.
func (w *Writer) Apply(out *[]DataBlock) {
	meta := archive.NewMemoryWriter(archive.Binary, false)
	for _, c := range w.cells {
		c.apply(meta, out)
	}
	data, release := meta.Buffer().ReleaseShared()
	*out = append(*out, DataBlock{Data: data, Release: release})
}

// Reader extracts values in the same order they were Put, either from an
// attached (meta archive + shared blocks) stream or, if Attach was never
// called, directly from a Writer's live cells.
type Reader struct {
	meta   *archive.Archive
	shared []DataBlock
	live   []any
	idx    int
}

// NewReader returns a Reader with nothing attached; call Attach or
// NewLiveReader before extracting values.
func NewReader() *Reader { return &Reader{} }

// NewLiveReader returns a Reader that extracts directly from w's live
// cells, without requiring Apply/Attach — the extraction-law fallback for
// intra-process use.
func NewLiveReader(w *Writer) *Reader {
	live := make([]any, len(w.cells))
	for i, c := range w.cells {
		live[i] = c.value()
	}
	return &Reader{live: live}
}

// Attach installs blocks as the data source: the last element becomes the
// meta archive and the rest become the shared-block queue, consumed in
// order by GetBlock. This mirrors LazyArchive::attach.
func (r *Reader) Attach(blocks []DataBlock) {
	fatal.Check(len(blocks) >= 1, "lazyarchive: attach requires at least the meta block")
	metaBlock := blocks[len(blocks)-1]
	r.shared = append([]DataBlock(nil), blocks[:len(blocks)-1]...)
	r.meta = archive.NewMemoryReader(archive.Binary, metaBlock.Data)
	r.live = nil
	r.idx = 0
}

// GetArithmetic reads the next numeric value.
func GetArithmetic[T archive.Numeric](r *Reader) T {
	if r.meta != nil {
		return archive.ReadArithmetic[T](r.meta)
	}
	fatal.Check(r.idx < len(r.live), "lazyarchive: no more live cells")
	v := r.live[r.idx]
	r.idx++
	return v.(T)
}

// GetString reads the next string value.
func (r *Reader) GetString() string {
	if r.meta != nil {
		return r.meta.ReadString()
	}
	fatal.Check(r.idx < len(r.live), "lazyarchive: no more live cells")
	v := r.live[r.idx]
	r.idx++
	return v.(string)
}

// GetBlock reads the next shareable block.
func (r *Reader) GetBlock() DataBlock {
	if r.meta != nil {
		fatal.Check(len(r.shared) > 0, "lazyarchive: shared block queue exhausted")
		b := r.shared[0]
		r.shared = r.shared[1:]
		return b
	}
	fatal.Check(r.idx < len(r.live), "lazyarchive: no more live cells")
	v := r.live[r.idx]
	r.idx++
	return v.(DataBlock)
}
