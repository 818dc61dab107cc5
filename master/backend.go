// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package master

import "context"

// Backend is the ZooKeeper-shaped path-tree store Client drives. All
// methods are safe to call concurrently; Client itself additionally
// serializes calls under its own mutex to match the source's single
// in-flight-call-at-a-time design.
type Backend interface {
	// Connected reports whether the backend currently believes it has a
	// live session with the store.
	Connected() bool
	// Reconnect attempts to re-establish a session. It blocks until either
	// success or ctx is done.
	Reconnect(ctx context.Context) error
	// Endpoint returns a human-readable address of the backend connection,
	// for logging.
	Endpoint() string
	// SessionTimeoutMillis returns the negotiated session timeout.
	SessionTimeoutMillis() int64

	// Add creates path with value. If ephemeral, the node is removed when
	// the owning session ends. If sequential, a monotonically increasing
	// suffix is appended by the backend and the resulting path is returned.
	Add(ctx context.Context, path string, value []byte, ephemeral, sequential bool) (resultPath string, status Status)
	// Set overwrites path's value.
	Set(ctx context.Context, path string, value []byte) Status
	// Get returns path's value and its sorted child names.
	Get(ctx context.Context, path string) (value []byte, children []string, status Status)
	// Del deletes path. If recursive, children are deleted first.
	Del(ctx context.Context, path string, recursive bool) Status
	// Sub arms a one-shot watch on path: the next create/delete/change/
	// child-list event fires exactly once and must be re-armed by the
	// caller via another Sub call.
	Sub(ctx context.Context, path string) Status
	// Gen atomically creates a sequential, persistent (non-ephemeral) child
	// of path carrying value and returns the generated child name (not the
	// full path).
	Gen(ctx context.Context, path string, value []byte) (name string, status Status)

	// Events returns a channel of fired paths for previously Sub'd nodes.
	// A single fired path may represent a node directly watched or one of
	// its ancestors' watches; Client is responsible for prefix-splitting.
	Events() <-chan string
}
