// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rpcmsg

import (
	"encoding/binary"
	"errors"

	"code.hybscloud.com/prpc/lazyarchive"
)

// DataBlock is an alias of lazyarchive.DataBlock: the envelope and the lazy
// archive share the same non-owning/owning block representation.
type DataBlock = lazyarchive.DataBlock

// BlockDescriptor records one entry of the envelope's block descriptor
// table: a byte length plus whether the block is transmitted out of line
// (Big, zero-copy) or inline within the envelope.
type BlockDescriptor struct {
	Length uint32
	Big    bool
}

const descriptorSize = 5 // 4-byte length + 1-byte flag

var (
	// ErrTruncated reports that a buffer did not contain a complete
	// envelope (header, body, or descriptor table cut short).
	ErrTruncated = errors.New("rpcmsg: truncated envelope")
	// ErrBlockIndex reports an out-of-range FillBigBlock index.
	ErrBlockIndex = errors.New("rpcmsg: block index out of range")
)

// Message is the RPC envelope: header, body (the lazy archive's meta
// stream), a block descriptor table, and the blocks themselves — inline
// small blocks copied into the envelope, big blocks carried separately.
type Message struct {
	Header      Header
	Body        []byte
	Descriptors []BlockDescriptor
	Inline      [][]byte
	Big         []DataBlock

	bodyRelease func()
	sendFailure func()
}

// NewFromWriter builds a sender-side Message from a lazy archive body,
// splitting its shared blocks into inline-small vs big (zero-copy) by the
// MinZeroCopySize threshold, and rewriting h's size fields to match.
// h's ErrorCode, rank and dealer fields are used as given.
func NewFromWriter(h Header, body *lazyarchive.Writer) *Message {
	var blocks []lazyarchive.DataBlock
	body.Apply(&blocks)

	meta := blocks[len(blocks)-1]
	shared := blocks[:len(blocks)-1]

	m := &Message{Header: h, Body: meta.Data, bodyRelease: meta.Release}

	extraLen := uint32(len(shared) * descriptorSize)
	for _, b := range shared {
		big := len(b.Data) >= MinZeroCopySize
		m.Descriptors = append(m.Descriptors, BlockDescriptor{Length: uint32(len(b.Data)), Big: big})
		if big {
			m.Big = append(m.Big, b)
		} else {
			m.Inline = append(m.Inline, b.Data)
			extraLen += uint32(len(b.Data))
		}
	}

	m.Header.BodySize = uint32(len(m.Body))
	m.Header.ExtraBlockCount = uint32(len(m.Descriptors))
	m.Header.ExtraBlockLength = extraLen
	return m
}

// Finalize encodes the header, body, descriptor table and inline blocks
// into one contiguous buffer ready for transport.Writer. Big blocks are not
// included; the caller is responsible for sending them separately (e.g.
// via RDMA or a secondary channel) and the receiver reassembles them with
// FillBigBlock.
func (m *Message) Finalize() []byte {
	descTable := make([]byte, 0, len(m.Descriptors)*descriptorSize)
	for _, d := range m.Descriptors {
		var e [descriptorSize]byte
		binary.LittleEndian.PutUint32(e[0:4], d.Length)
		if d.Big {
			e[4] = 1
		}
		descTable = append(descTable, e[:]...)
	}

	out := make([]byte, 0, HeaderSize+len(m.Body)+len(descTable)+int(m.Header.ExtraBlockLength))
	out = append(out, m.Header.Encode()...)
	out = append(out, m.Body...)
	out = append(out, descTable...)
	for _, b := range m.Inline {
		out = append(out, b...)
	}
	return out
}

// NewFromBuffer parses a receiver-side Message out of buf, produced by
// Finalize. Big blocks are left pending (nil Data) with their declared
// length; the caller fills them via FillBigBlock as bytes arrive on a
// secondary channel.
func NewFromBuffer(buf []byte) (*Message, error) {
	if len(buf) < HeaderSize {
		return nil, ErrTruncated
	}
	h := DecodeHeader(buf)
	off := HeaderSize

	if len(buf) < off+int(h.BodySize) {
		return nil, ErrTruncated
	}
	body := make([]byte, h.BodySize)
	copy(body, buf[off:off+int(h.BodySize)])
	off += int(h.BodySize)

	m := &Message{Header: h, Body: body}

	descTableLen := int(h.ExtraBlockCount) * descriptorSize
	if len(buf) < off+descTableLen {
		return nil, ErrTruncated
	}
	descTable := buf[off : off+descTableLen]
	off += descTableLen

	for i := 0; i < int(h.ExtraBlockCount); i++ {
		e := descTable[i*descriptorSize : (i+1)*descriptorSize]
		d := BlockDescriptor{
			Length: binary.LittleEndian.Uint32(e[0:4]),
			Big:    e[4] != 0,
		}
		m.Descriptors = append(m.Descriptors, d)
		if d.Big {
			m.Big = append(m.Big, DataBlock{})
			continue
		}
		if len(buf) < off+int(d.Length) {
			return nil, ErrTruncated
		}
		inline := make([]byte, d.Length)
		copy(inline, buf[off:off+int(d.Length)])
		off += int(d.Length)
		m.Inline = append(m.Inline, inline)
	}

	return m, nil
}

// PendingBlockCount returns the number of big blocks not yet filled via
// FillBigBlock.
func (m *Message) PendingBlockCount() int {
	n := 0
	for _, b := range m.Big {
		if b.Data == nil {
			n++
		}
	}
	return n
}

// FillBigBlock installs data (and an optional release func) as the i-th big
// block, in the order big descriptors appeared in the descriptor table.
func (m *Message) FillBigBlock(i int, data []byte, release func()) error {
	if i < 0 || i >= len(m.Big) {
		return ErrBlockIndex
	}
	m.Big[i] = DataBlock{Data: data, Release: release}
	return nil
}

// Release returns the message's body storage to its source (if any).
func (m *Message) Release() {
	if m.bodyRelease != nil {
		m.bodyRelease()
		m.bodyRelease = nil
	}
	for _, b := range m.Big {
		if b.Release != nil {
			b.Release()
		}
	}
}

// Blocks reconstructs the ordered shared-block slice a lazyarchive.Reader
// expects: every descriptor's block, in table order, followed by the body
// (the meta archive) as the trailing block.
func (m *Message) Blocks() []lazyarchive.DataBlock {
	blocks := make([]lazyarchive.DataBlock, 0, len(m.Descriptors)+1)
	inlineIdx, bigIdx := 0, 0
	for _, d := range m.Descriptors {
		if d.Big {
			blocks = append(blocks, m.Big[bigIdx])
			bigIdx++
			continue
		}
		blocks = append(blocks, lazyarchive.DataBlock{Data: m.Inline[inlineIdx]})
		inlineIdx++
	}
	blocks = append(blocks, lazyarchive.DataBlock{Data: m.Body})
	return blocks
}

// SetSendFailure installs a callback invoked when the transport fails to
// deliver this message.
func (m *Message) SetSendFailure(f func()) { m.sendFailure = f }

// SendFailure invokes the installed send-failure callback, if any.
func (m *Message) SendFailure() {
	if m.sendFailure != nil {
		m.sendFailure()
	}
}
