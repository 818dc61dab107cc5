// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package master

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-zookeeper/zk"
	"go.uber.org/zap"
)

// ZKBackend is the production Backend, wrapping github.com/go-zookeeper/zk.
// It mirrors ZkMasterClient.cpp: every call that touches the connection is
// serialized under mu, connected is additionally tracked as an atomic for
// lock-free fast shutdown checks, and every Sub arms one-shot backend
// watches rather than a persistent one (Get reads without setting a watch).
type ZKBackend struct {
	mu     sync.Mutex
	conn   *zk.Conn
	events chan string
	log    *zap.Logger

	connected atomic.Bool
	hosts     []string
	sessionMs int64
}

// NewZKBackend dials hosts and returns a ZKBackend once the initial
// connection event arrives or ctx is done.
func NewZKBackend(ctx context.Context, hosts []string, sessionTimeout time.Duration, log *zap.Logger) (*ZKBackend, error) {
	if log == nil {
		log = zap.NewNop()
	}
	conn, zkEvents, err := zk.Connect(hosts, sessionTimeout)
	if err != nil {
		return nil, err
	}
	b := &ZKBackend{
		conn:      conn,
		events:    make(chan string, 1024),
		log:       log,
		hosts:     hosts,
		sessionMs: sessionTimeout.Milliseconds(),
	}
	go b.handleEvents(zkEvents)

	select {
	case <-connectedOrDone(b):
	case <-ctx.Done():
		conn.Close()
		return nil, ctx.Err()
	}
	return b, nil
}

func connectedOrDone(b *ZKBackend) <-chan struct{} {
	ch := make(chan struct{})
	go func() {
		for !b.connected.Load() {
			time.Sleep(10 * time.Millisecond)
		}
		close(ch)
	}()
	return ch
}

// handleEvents mirrors ZkMasterClient::handle_event: session events flip
// the connected flag (fatal on expiry, matching the source's SLOG(FATAL)),
// and create/delete/change/child events forward the firing path for Client
// to prefix-split and dispatch through its watcher table.
func (b *ZKBackend) handleEvents(zkEvents <-chan zk.Event) {
	for ev := range zkEvents {
		switch ev.Type {
		case zk.EventSession:
			switch ev.State {
			case zk.StateHasSession:
				b.connected.Store(true)
				b.log.Info("zk session established", zap.String("endpoint", b.Endpoint()))
			case zk.StateDisconnected:
				b.connected.Store(false)
				b.log.Warn("zk session disconnected")
			case zk.StateExpired:
				b.connected.Store(false)
				b.log.Fatal("zk session expired")
			}
		case zk.EventNodeCreated, zk.EventNodeDeleted, zk.EventNodeDataChanged, zk.EventNodeChildrenChanged:
			select {
			case b.events <- ev.Path:
			default:
			}
		}
	}
}

func (b *ZKBackend) Connected() bool { return b.connected.Load() }

func (b *ZKBackend) Reconnect(ctx context.Context) error {
	// github.com/go-zookeeper/zk reconnects transparently inside Conn;
	// Reconnect here just waits for the next StateHasSession event.
	deadline := time.Now().Add(5 * time.Second)
	for !b.connected.Load() {
		if time.Now().After(deadline) {
			return errors.New("master: zk reconnect timed out")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
	return nil
}

func (b *ZKBackend) Endpoint() string {
	if len(b.hosts) == 0 {
		return ""
	}
	return b.hosts[0]
}

func (b *ZKBackend) SessionTimeoutMillis() int64 { return b.sessionMs }

func checkZKErr(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, zk.ErrNoNode):
		return StatusNodeFailed
	case errors.Is(err, zk.ErrNodeExists):
		return StatusNodeFailed
	case errors.Is(err, zk.ErrNoChildrenForEphemerals):
		return StatusPathFailed
	case errors.Is(err, zk.ErrConnectionClosed), errors.Is(err, zk.ErrNoServer):
		return StatusDisconnected
	default:
		return StatusError
	}
}

func (b *ZKBackend) Add(ctx context.Context, path string, value []byte, ephemeral, sequential bool) (string, Status) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.connected.Load() {
		return "", StatusDisconnected
	}
	var flags int32
	if ephemeral {
		flags |= zk.FlagEphemeral
	}
	if sequential {
		flags |= zk.FlagSequence
	}
	result, err := b.conn.Create(path, value, flags, zk.WorldACL(zk.PermAll))
	return result, checkZKErr(err)
}

func (b *ZKBackend) Set(ctx context.Context, path string, value []byte) Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.connected.Load() {
		return StatusDisconnected
	}
	_, err := b.conn.Set(path, value, -1)
	return checkZKErr(err)
}

func (b *ZKBackend) Get(ctx context.Context, path string) ([]byte, []string, Status) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.connected.Load() {
		return nil, nil, StatusDisconnected
	}
	value, _, err := b.conn.Get(path)
	if err != nil {
		return nil, nil, checkZKErr(err)
	}
	children, _, err := b.conn.Children(path)
	if err != nil {
		return nil, nil, checkZKErr(err)
	}
	return value, children, StatusOK
}

func (b *ZKBackend) Del(ctx context.Context, path string, recursive bool) Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.connected.Load() {
		return StatusDisconnected
	}
	if recursive {
		var delChildren func(p string)
		delChildren = func(p string) {
			children, _, err := b.conn.Children(p)
			if err != nil {
				return
			}
			for _, c := range children {
				delChildren(p + "/" + c)
				b.conn.Delete(p+"/"+c, -1)
			}
		}
		delChildren(path)
	}
	err := b.conn.Delete(path, -1)
	return checkZKErr(err)
}

func (b *ZKBackend) Sub(ctx context.Context, path string) Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.connected.Load() {
		return StatusDisconnected
	}
	// ExistsW/GetW/ChildrenW each arm exactly one future event; arming both
	// data and children watches mirrors ZkMasterClient::master_sub covering
	// both value-change and child-list-change notifications.
	if _, _, _, err := b.conn.GetW(path); err != nil {
		if _, _, _, werr := b.conn.ExistsW(path); werr != nil {
			return checkZKErr(err)
		}
		return StatusOK
	}
	if _, _, _, err := b.conn.ChildrenW(path); err != nil {
		return checkZKErr(err)
	}
	return StatusOK
}

func (b *ZKBackend) Gen(ctx context.Context, path string, value []byte) (string, Status) {
	resultPath, status := b.Add(ctx, path+"/_", value, false, true)
	if status != StatusOK {
		return "", status
	}
	segs := splitPath(resultPath)
	return segs[len(segs)-1], StatusOK
}

func (b *ZKBackend) Events() <-chan string { return b.events }
