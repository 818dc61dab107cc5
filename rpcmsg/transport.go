// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rpcmsg

import (
	"fmt"
	"io"

	"code.hybscloud.com/prpc/transport"
)

// SendMessage writes m's envelope to conn as one framed message, followed
// by one additional framed message per big block, in descriptor order.
// conn is expected to be a transport.Conn (or anything built on
// transport.NewReadWriter/NewWriter) so each Write call carries its own
// length prefix and the receiver can tell the envelope frame from the big
// block frames that follow it.
func SendMessage(conn io.Writer, m *Message) error {
	if _, err := conn.Write(m.Finalize()); err != nil {
		m.SendFailure()
		return fmt.Errorf("rpcmsg: send envelope: %w", err)
	}
	for _, b := range m.Big {
		if _, err := conn.Write(b.Data); err != nil {
			m.SendFailure()
			return fmt.Errorf("rpcmsg: send big block: %w", err)
		}
	}
	return nil
}

// ReceiveMessage reads one envelope from conn plus however many big-block
// frames its descriptor table declares, reassembling them with
// FillBigBlock. conn must frame messages the same way SendMessage wrote
// them (a transport.Conn built with matching options on both ends).
func ReceiveMessage(conn io.Reader) (*Message, error) {
	buf := make([]byte, maxEnvelopeSize)
	n, err := conn.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("rpcmsg: read envelope: %w", err)
	}
	m, err := NewFromBuffer(buf[:n])
	if err != nil {
		return nil, err
	}
	pending := m.PendingBlockCount()
	for i := 0; i < pending; i++ {
		block := make([]byte, maxEnvelopeSize)
		bn, err := conn.Read(block)
		if err != nil {
			return nil, fmt.Errorf("rpcmsg: read big block %d: %w", i, err)
		}
		if err := m.FillBigBlock(i, block[:bn], nil); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// maxEnvelopeSize bounds a single framed read; transport.WithReadLimit on
// the underlying Conn should be set no higher than this for callers of
// ReceiveMessage.
const maxEnvelopeSize = 1 << 20
