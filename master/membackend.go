// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package master

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

type memNode struct {
	value     []byte
	ephemeral bool
	session   int64
	children  map[string]*memNode
}

func newMemNode() *memNode {
	return &memNode{children: make(map[string]*memNode)}
}

// MemBackend is an in-memory Backend for tests and single-process use. It
// supports ephemeral nodes tied to a Session, sequential node generation,
// and one-shot Sub watches delivered over a buffered channel.
type MemBackend struct {
	mu        sync.Mutex
	root      *memNode
	connected bool
	session   int64
	seq       map[string]int64 // per-parent-path sequence counters
	watches   map[string]bool  // armed one-shot watch paths
	events    chan string
}

// NewMemBackend returns a connected, empty MemBackend.
func NewMemBackend() *MemBackend {
	return &MemBackend{
		root:      newMemNode(),
		connected: true,
		seq:       make(map[string]int64),
		watches:   make(map[string]bool),
		events:    make(chan string, 1024),
	}
}

// Session identifies one logical client session for ephemeral-node
// ownership purposes.
type Session int64

// NewSession returns a fresh session id for ephemeral node ownership and
// marks the backend connected under that session.
func (b *MemBackend) NewSession() Session {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.session++
	b.connected = true
	return Session(b.session)
}

// EndSession simulates session expiry: every ephemeral node owned by sess
// is deleted and a delete event fires for each.
func (b *MemBackend) EndSession(sess Session) {
	b.mu.Lock()
	var fired []string
	b.walkDeleteEphemeral(b.root, "", int64(sess), &fired)
	b.mu.Unlock()
	for _, p := range fired {
		b.fireLocked(p)
	}
}

// walkDeleteEphemeral removes every ephemeral node owned by sess and records
// both the node's own path and its parent's path in fired, so that
// parent-watching code (a barrier releaser waiting for siblings to leave, a
// lock waiting for the head of the queue to change) is notified the same way
// it would be for an explicit Del.
func (b *MemBackend) walkDeleteEphemeral(n *memNode, path string, sess int64, fired *[]string) {
	for name, child := range n.children {
		childPath := path + "/" + name
		if child.ephemeral && child.session == sess {
			delete(n.children, name)
			*fired = append(*fired, childPath)
			if path != "" {
				*fired = append(*fired, path)
			} else {
				*fired = append(*fired, "/")
			}
			continue
		}
		b.walkDeleteEphemeral(child, childPath, sess, fired)
	}
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func (b *MemBackend) lookup(path string) (*memNode, bool) {
	n := b.root
	for _, seg := range splitPath(path) {
		child, ok := n.children[seg]
		if !ok {
			return nil, false
		}
		n = child
	}
	return n, true
}

func (b *MemBackend) Connected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.connected
}

func (b *MemBackend) Reconnect(ctx context.Context) error {
	b.mu.Lock()
	b.connected = true
	b.mu.Unlock()
	return nil
}

func (b *MemBackend) Endpoint() string { return "mem://local" }

func (b *MemBackend) SessionTimeoutMillis() int64 { return 30000 }

func (b *MemBackend) Add(ctx context.Context, path string, value []byte, ephemeral, sequential bool) (string, Status) {
	b.mu.Lock()
	if !b.connected {
		b.mu.Unlock()
		return "", StatusDisconnected
	}
	segs := splitPath(path)
	if len(segs) == 0 {
		b.mu.Unlock()
		return "", StatusPathFailed
	}
	parentSegs, last := segs[:len(segs)-1], segs[len(segs)-1]
	parent := b.root
	for _, seg := range parentSegs {
		child, ok := parent.children[seg]
		if !ok {
			b.mu.Unlock()
			return "", StatusPathFailed
		}
		parent = child
	}
	name := last
	if sequential {
		parentPath := "/" + strings.Join(parentSegs, "/")
		b.seq[parentPath]++
		name = fmt.Sprintf("%s%010d", last, b.seq[parentPath])
	}
	if _, exists := parent.children[name]; exists {
		b.mu.Unlock()
		return "", StatusNodeFailed
	}
	n := newMemNode()
	n.value = append([]byte(nil), value...)
	n.ephemeral = ephemeral
	n.session = b.session
	parent.children[name] = n

	resultPath := "/" + strings.Join(append(append([]string{}, parentSegs...), name), "/")
	parentPath := "/" + strings.Join(parentSegs, "/")
	b.mu.Unlock()

	b.fireLocked(parentPath)
	b.fireLocked(resultPath)
	return resultPath, StatusOK
}

func (b *MemBackend) Set(ctx context.Context, path string, value []byte) Status {
	b.mu.Lock()
	n, ok := b.lookup(path)
	if !b.connected {
		b.mu.Unlock()
		return StatusDisconnected
	}
	if !ok {
		b.mu.Unlock()
		return StatusNodeFailed
	}
	n.value = append([]byte(nil), value...)
	b.mu.Unlock()
	b.fireLocked(path)
	return StatusOK
}

func (b *MemBackend) Get(ctx context.Context, path string) ([]byte, []string, Status) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.connected {
		return nil, nil, StatusDisconnected
	}
	n, ok := b.lookup(path)
	if !ok {
		return nil, nil, StatusNodeFailed
	}
	children := make([]string, 0, len(n.children))
	for name := range n.children {
		children = append(children, name)
	}
	sort.Strings(children)
	return append([]byte(nil), n.value...), children, StatusOK
}

func (b *MemBackend) Del(ctx context.Context, path string, recursive bool) Status {
	b.mu.Lock()
	if !b.connected {
		b.mu.Unlock()
		return StatusDisconnected
	}
	segs := splitPath(path)
	if len(segs) == 0 {
		b.mu.Unlock()
		return StatusPathFailed
	}
	parentSegs, last := segs[:len(segs)-1], segs[len(segs)-1]
	parent := b.root
	for _, seg := range parentSegs {
		child, ok := parent.children[seg]
		if !ok {
			b.mu.Unlock()
			return StatusPathFailed
		}
		parent = child
	}
	n, ok := parent.children[last]
	if !ok {
		b.mu.Unlock()
		return StatusNodeFailed
	}
	if len(n.children) > 0 && !recursive {
		b.mu.Unlock()
		return StatusNodeFailed
	}
	delete(parent.children, last)
	// A recreated node starts its children's sequence numbers over, as a
	// ZooKeeper parent does.
	deleted := "/" + strings.Join(segs, "/")
	for p := range b.seq {
		if p == deleted || strings.HasPrefix(p, deleted+"/") {
			delete(b.seq, p)
		}
	}
	parentPath := "/" + strings.Join(parentSegs, "/")
	b.mu.Unlock()
	b.fireLocked(path)
	b.fireLocked(parentPath)
	return StatusOK
}

func (b *MemBackend) Sub(ctx context.Context, path string) Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.connected {
		return StatusDisconnected
	}
	b.watches[path] = true
	return StatusOK
}

func (b *MemBackend) Gen(ctx context.Context, path string, value []byte) (string, Status) {
	resultPath, status := b.Add(ctx, path+"/_", value, false, true)
	if status != StatusOK {
		return "", status
	}
	segs := splitPath(resultPath)
	return segs[len(segs)-1], StatusOK
}

func (b *MemBackend) Events() <-chan string { return b.events }

// fireLocked delivers an event for path if a one-shot watch is armed on it
// or on any of its ancestors, matching the backend's prefix-split event
// contract (watching "/a" also receives events under "/a/b").
func (b *MemBackend) fireLocked(path string) {
	b.mu.Lock()
	segs := splitPath(path)
	var toFire []string
	cur := ""
	for _, seg := range segs {
		cur += "/" + seg
		if b.watches[cur] {
			toFire = append(toFire, cur)
			delete(b.watches, cur) // one-shot: caller must re-arm
		}
	}
	b.mu.Unlock()
	for _, p := range toFire {
		select {
		case b.events <- p:
		default:
		}
	}
}
