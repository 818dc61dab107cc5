// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rpcmsg

import "code.hybscloud.com/prpc/lazyarchive"

// Request is an outgoing RPC call: a header plus a lazy archive body that
// the caller populates with PutArithmetic/PutString/PutBlock before
// calling ToMessage.
type Request struct {
	SrcRank, DestRank     int16
	SrcDealer, DestDealer int32
	RpcID                 int32
	Sid                   int32

	Body *lazyarchive.Writer

	sendFailure func()
}

// NewRequest returns an empty Request addressed to (destRank, destDealer)
// for the given rpc id, to be sent from (srcRank, srcDealer).
func NewRequest(srcRank, destRank int16, srcDealer, destDealer, rpcID, sid int32) *Request {
	return &Request{
		SrcRank: srcRank, DestRank: destRank,
		SrcDealer: srcDealer, DestDealer: destDealer,
		RpcID: rpcID, Sid: sid,
		Body: lazyarchive.NewWriter(),
	}
}

// SetSendFailure installs a callback invoked if the transport fails to
// deliver this request.
func (r *Request) SetSendFailure(f func()) { r.sendFailure = f }

// ToMessage finalizes the request into a sendable Message.
func (r *Request) ToMessage() *Message {
	h := Header{
		SrcRank: r.SrcRank, DestRank: r.DestRank,
		SrcDealer: r.SrcDealer, DestDealer: r.DestDealer,
		RpcID: r.RpcID, Sid: r.Sid,
		ErrorCode: ErrOK,
	}
	m := NewFromWriter(h, r.Body)
	m.SetSendFailure(r.sendFailure)
	return m
}

// Response is a reply to a Request: constructed from the request's header
// by swapping src and dest, and copying the rpc id and session id across.
type Response struct {
	SrcRank, DestRank     int16
	SrcDealer, DestDealer int32
	RpcID                 int32
	Sid                   int32
	ErrorCode             RpcErrorCode

	Body *lazyarchive.Writer
}

// NewResponse builds a Response addressed back to the sender of req.
func NewResponse(req *Message) *Response {
	return &Response{
		SrcRank: req.Header.DestRank, DestRank: req.Header.SrcRank,
		SrcDealer: req.Header.DestDealer, DestDealer: req.Header.SrcDealer,
		RpcID: req.Header.RpcID, Sid: req.Header.Sid,
		ErrorCode: ErrOK,
		Body:      lazyarchive.NewWriter(),
	}
}

// ToMessage finalizes the response into a sendable Message.
func (r *Response) ToMessage() *Message {
	h := Header{
		SrcRank: r.SrcRank, DestRank: r.DestRank,
		SrcDealer: r.SrcDealer, DestDealer: r.DestDealer,
		RpcID: r.RpcID, Sid: r.Sid,
		ErrorCode: r.ErrorCode,
	}
	return NewFromWriter(h, r.Body)
}
