// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package rpcmsg implements the RPC message envelope: a packed header, a
// serialized body, a block-descriptor table, and inline small blocks,
// exactly as laid out by the system's RpcMessage/RpcRequest/RpcResponse.
//
// Layout on the wire: [header | body | block descriptor table | inline
// small blocks]. Blocks at or above MinZeroCopySize bytes are never
// inlined; they travel separately and are attached to the message after
// reception via Message.FillBigBlock.
package rpcmsg

import "encoding/binary"

// HeaderSize is the packed wire size of Header, in bytes.
const HeaderSize = 40

// MinZeroCopySize is the threshold below which a block is copied inline
// into the message body rather than transmitted as a separate zero-copy
// block.
const MinZeroCopySize = 4096

// RpcErrorCode enumerates the envelope-level outcome of an RPC, mirroring
// RpcErrorCodeType in the source.
type RpcErrorCode int16

const (
	ErrOK            RpcErrorCode = 0
	ErrNoSuchServer  RpcErrorCode = 101
	ErrNoSuchRank    RpcErrorCode = 102
	ErrNoSuchService RpcErrorCode = 103
	ErrLogicError    RpcErrorCode = 104
	ErrIllegalMsg    RpcErrorCode = 105
	ErrTimeout       RpcErrorCode = 106
	ErrNotFound      RpcErrorCode = 107
	ErrConnection    RpcErrorCode = 108
)

func (c RpcErrorCode) String() string {
	switch c {
	case ErrOK:
		return "ok"
	case ErrNoSuchServer:
		return "no_such_server"
	case ErrNoSuchRank:
		return "no_such_rank"
	case ErrNoSuchService:
		return "no_such_service"
	case ErrLogicError:
		return "logic_error"
	case ErrIllegalMsg:
		return "illegal_msg"
	case ErrTimeout:
		return "timeout"
	case ErrNotFound:
		return "not_found"
	case ErrConnection:
		return "connection"
	default:
		return "unknown"
	}
}

// Header is the fixed 40-byte little-endian envelope header.
type Header struct {
	BodySize         uint32
	SrcRank          int16
	DestRank         int16
	SrcDealer        int32
	DestDealer       int32
	RpcID            int32
	Sid              int32
	ExtraBlockCount  uint32
	ExtraBlockLength uint32
	ErrorCode        RpcErrorCode
}

// MsgSize returns the total on-wire size implied by the header: the header
// itself plus the body plus the extra block region (the descriptor table
// and the inline small blocks), matching rpc_head_t::msg_size() in the
// source.
func (h Header) MsgSize() int {
	return HeaderSize + int(h.ExtraBlockLength) + int(h.BodySize)
}

// Encode writes the packed header to a 40-byte buffer.
func (h Header) Encode() []byte {
	b := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(b[0:4], h.BodySize)
	binary.LittleEndian.PutUint16(b[4:6], uint16(h.SrcRank))
	binary.LittleEndian.PutUint16(b[6:8], uint16(h.DestRank))
	binary.LittleEndian.PutUint32(b[8:12], uint32(h.SrcDealer))
	binary.LittleEndian.PutUint32(b[12:16], uint32(h.DestDealer))
	binary.LittleEndian.PutUint32(b[16:20], uint32(h.RpcID))
	binary.LittleEndian.PutUint32(b[20:24], uint32(h.Sid))
	binary.LittleEndian.PutUint32(b[24:28], h.ExtraBlockCount)
	binary.LittleEndian.PutUint32(b[28:32], h.ExtraBlockLength)
	binary.LittleEndian.PutUint16(b[32:34], uint16(h.ErrorCode))
	// b[34:40] is reserved padding, left zero.
	return b
}

// DecodeHeader parses a packed header from b, which must be at least
// HeaderSize bytes.
func DecodeHeader(b []byte) Header {
	var h Header
	h.BodySize = binary.LittleEndian.Uint32(b[0:4])
	h.SrcRank = int16(binary.LittleEndian.Uint16(b[4:6]))
	h.DestRank = int16(binary.LittleEndian.Uint16(b[6:8]))
	h.SrcDealer = int32(binary.LittleEndian.Uint32(b[8:12]))
	h.DestDealer = int32(binary.LittleEndian.Uint32(b[12:16]))
	h.RpcID = int32(binary.LittleEndian.Uint32(b[16:20]))
	h.Sid = int32(binary.LittleEndian.Uint32(b[20:24]))
	h.ExtraBlockCount = binary.LittleEndian.Uint32(b[24:28])
	h.ExtraBlockLength = binary.LittleEndian.Uint32(b[28:32])
	h.ErrorCode = RpcErrorCode(int16(binary.LittleEndian.Uint16(b[32:34])))
	return h
}
