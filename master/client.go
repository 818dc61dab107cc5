// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package master

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"code.hybscloud.com/prpc/watcher"
)

// Fixed subtrees created by Initialize, matching MasterClient::initialize.
const (
	pathNode      = "_node_"
	pathTaskState = "_task_state_"
	pathRPC       = "_rpc_"
	pathIDGen     = "_id_gen_"
	pathLock      = "_lock_"
	pathBarrier   = "_barrier_"
	pathContext   = "_context_"
	pathModel     = "_model_"
)

var fixedSubtrees = []string{
	pathNode, pathTaskState, pathRPC, pathIDGen, pathLock, pathBarrier, pathContext, pathModel,
}

// Client drives a Backend through the path-tree protocol: root-path
// normalization, retry-on-disconnected / abort-on-error policy, and event
// dispatch through a watcher.Table.
type Client struct {
	backend  Backend
	rootPath string
	log      *zap.Logger

	table   *watcher.Table
	mu      sync.Mutex        // serializes backend calls; also guards locks
	locks   map[string]string // lock name -> acquired path

	ctx    context.Context
	cancel context.CancelFunc
}

// Option configures a Client.
type Option func(*Client)

// WithLogger installs a zap logger; the default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient returns a Client bound to backend, rooted at rootPath. rootPath
// is normalized to have exactly one leading and one trailing slash.
func NewClient(backend Backend, rootPath string, opts ...Option) *Client {
	rootPath = normalizeRoot(rootPath)
	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		backend:  backend,
		rootPath: rootPath,
		log:      zap.NewNop(),
		table:    watcher.New(),
		locks:    make(map[string]string),
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, o := range opts {
		o(c)
	}
	go c.dispatchEvents()
	return c
}

func normalizeRoot(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

// Close stops the client's event dispatch goroutine.
func (c *Client) Close() {
	c.cancel()
}

func (c *Client) fullPath(rel string) string {
	rel = strings.TrimPrefix(rel, "/")
	return c.rootPath + rel
}

// dispatchEvents forwards fired backend paths (relative to rootPath) into
// the watcher table, splitting into every nonempty prefix segment so that
// watching an ancestor also observes events under its descendants.
func (c *Client) dispatchEvents() {
	for {
		select {
		case <-c.ctx.Done():
			return
		case path, ok := <-c.backend.Events():
			if !ok {
				return
			}
			rel := strings.TrimPrefix(path, strings.TrimSuffix(c.rootPath, "/"))
			rel = strings.TrimPrefix(rel, "/")
			segs := splitPath(rel)
			cur := ""
			for _, seg := range segs {
				cur += "/" + seg
				c.table.Invoke(cur)
			}
		}
	}
}

// retry runs op repeatedly while the backend reports StatusDisconnected,
// attempting Reconnect between tries, matching RETRY_MASTER_METHOD.
func (c *Client) retry(ctx context.Context, op func() Status) Status {
	b := backoff.NewExponentialBackOff()
	for {
		c.mu.Lock()
		st := op()
		c.mu.Unlock()
		if st != StatusDisconnected {
			return st
		}
		c.log.Warn("master backend disconnected, retrying", zap.String("endpoint", c.backend.Endpoint()))
		if err := c.backend.Reconnect(ctx); err != nil {
			select {
			case <-ctx.Done():
				return StatusError
			default:
			}
		}
		d := b.NextBackOff()
		if d == backoff.Stop {
			b.Reset()
			d = b.NextBackOff()
		}
		select {
		case <-ctx.Done():
			return StatusError
		case <-time.After(d):
		}
	}
}

// Add creates a node at relative path rel with value, returning the created
// node's path relative to the root (with the sequence suffix, if any) on
// success.
func (c *Client) Add(ctx context.Context, rel string, value []byte, ephemeral, sequential bool) (string, Status) {
	full := c.fullPath(rel)
	var result string
	st := c.retry(ctx, func() Status {
		p, s := c.backend.Add(ctx, full, value, ephemeral, sequential)
		result = p
		return s
	})
	return strings.TrimPrefix(result, strings.TrimSuffix(c.rootPath, "/")), st
}

// Set overwrites the value at relative path rel.
func (c *Client) Set(ctx context.Context, rel string, value []byte) Status {
	full := c.fullPath(rel)
	return c.retry(ctx, func() Status { return c.backend.Set(ctx, full, value) })
}

// Get reads the value and children at relative path rel.
func (c *Client) Get(ctx context.Context, rel string) ([]byte, []string, Status) {
	full := c.fullPath(rel)
	var value []byte
	var children []string
	st := c.retry(ctx, func() Status {
		v, ch, s := c.backend.Get(ctx, full)
		value, children = v, ch
		return s
	})
	return value, children, st
}

// Del deletes the node at relative path rel.
func (c *Client) Del(ctx context.Context, rel string, recursive bool) Status {
	full := c.fullPath(rel)
	return c.retry(ctx, func() Status { return c.backend.Del(ctx, full, recursive) })
}

// Sub arms a one-shot backend watch on relative path rel.
func (c *Client) Sub(ctx context.Context, rel string) Status {
	full := c.fullPath(rel)
	return c.retry(ctx, func() Status { return c.backend.Sub(ctx, full) })
}

// Gen atomically creates a sequential, persistent (non-ephemeral) child
// under rel, returning the generated child name.
func (c *Client) Gen(ctx context.Context, rel string, value []byte) (string, Status) {
	full := c.fullPath(rel)
	var name string
	st := c.retry(ctx, func() Status {
		n, s := c.backend.Gen(ctx, full, value)
		name = n
		return s
	})
	return name, st
}

// Watch registers cb against relative path rel and immediately issues a
// Get+Sub pair to arm the backend watch. Backend watches are one-shot, but
// cb does not have to re-arm itself: Client issues a fresh Sub on rel after
// every firing, so cb keeps observing changes until Unwatch.
func (c *Client) Watch(ctx context.Context, rel string, cb watcher.Callback) (watcher.Handle, Status) {
	// Backend watches are one-shot; wrap cb so Client re-arms automatically
	// after every firing instead of pushing that contract onto every
	// caller.
	wrapped := func(key string) {
		cb(key)
		c.Sub(ctx, rel)
	}
	h := c.table.Insert(normalizeRel(rel), wrapped)
	if _, _, st := c.Get(ctx, rel); st != StatusOK && st != StatusNodeFailed {
		return h, st
	}
	st := c.Sub(ctx, rel)
	return h, st
}

// Unwatch removes a callback previously registered via Watch.
func (c *Client) Unwatch(rel string, h watcher.Handle) {
	c.table.Erase(normalizeRel(rel), h)
}

// normalizeRel gives every watch key exactly one leading slash, matching
// the prefix segments dispatchEvents builds from fired backend paths.
func normalizeRel(rel string) string {
	return "/" + strings.TrimPrefix(rel, "/")
}

// Initialize idempotently creates every root-path segment plus the eight
// fixed subtrees, matching MasterClient::initialize.
func (c *Client) Initialize(ctx context.Context) Status {
	segs := splitPath(strings.TrimSuffix(c.rootPath, "/"))
	cur := ""
	for _, seg := range segs {
		cur += "/" + seg
		if st := c.createIfAbsent(ctx, cur, nil); st != StatusOK {
			return st
		}
	}
	for _, sub := range fixedSubtrees {
		if st := c.createIfAbsent(ctx, c.fullPath(sub), nil); st != StatusOK {
			return st
		}
	}
	return StatusOK
}

func (c *Client) createIfAbsent(ctx context.Context, full string, value []byte) Status {
	st := c.retry(ctx, func() Status {
		_, s := c.backend.Add(ctx, full, value, false, false)
		return s
	})
	if st == StatusNodeFailed {
		return StatusOK // already exists
	}
	return st
}

// ClearMaster recursively deletes every child of the root path.
func (c *Client) ClearMaster(ctx context.Context) Status {
	_, children, st := c.Get(ctx, "/")
	if st != StatusOK {
		return st
	}
	for _, name := range children {
		if st := c.Del(ctx, "/"+name, true); st != StatusOK && st != StatusNodeFailed {
			return st
		}
	}
	return StatusOK
}
