// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"io"
	"net"
)

// Conn is a framed connection: Read and Write transfer whole messages
// through the same framing rules as NewReadWriter, and Close releases the
// underlying net.Conn.
type Conn struct {
	io.ReadWriter
	conn net.Conn
}

func (c *Conn) Close() error { return c.conn.Close() }

// LocalAddr and RemoteAddr pass through to the underlying net.Conn, useful
// for logging which peer a framed message came from or went to.
func (c *Conn) LocalAddr() net.Addr  { return c.conn.LocalAddr() }
func (c *Conn) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }

// Dial connects to network/address and wraps the connection in framing.
// Use WithReadTCP/WithWriteTCP (or the matching packet-mode options) to
// select stream length-prefixing vs pass-through, matching the transport
// the dialed network actually provides.
func Dial(network, address string, opts ...Option) (*Conn, error) {
	conn, err := net.Dial(network, address)
	if err != nil {
		return nil, err
	}
	return &Conn{ReadWriter: NewReadWriter(conn, conn, opts...), conn: conn}, nil
}

// Listener accepts connections and wraps each one in framing with the same
// options.
type Listener struct {
	ln   net.Listener
	opts []Option
}

// Listen opens a listener on network/address; every connection returned by
// Accept is pre-wrapped in framing.
func Listen(network, address string, opts ...Option) (*Listener, error) {
	ln, err := net.Listen(network, address)
	if err != nil {
		return nil, err
	}
	return &Listener{ln: ln, opts: opts}, nil
}

// Accept blocks for the next incoming connection and wraps it in framing.
func (l *Listener) Accept() (*Conn, error) {
	conn, err := l.ln.Accept()
	if err != nil {
		return nil, err
	}
	return &Conn{ReadWriter: NewReadWriter(conn, conn, l.opts...), conn: conn}, nil
}

// Addr returns the listener's bound address.
func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

// Close stops accepting new connections.
func (l *Listener) Close() error { return l.ln.Close() }
