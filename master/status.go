// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package master implements the path-tree coordination client: a
// ZooKeeper-shaped store underpinning node registry, task lifecycle,
// barriers, distributed locks, monotonic id generation, an RPC service
// directory, and a context/model key-value store.
package master

// Status is the outcome of one Backend operation, mirroring MasterStatus
// in the source.
type Status int

const (
	// StatusOK indicates the operation completed successfully.
	StatusOK Status = iota
	// StatusPathFailed indicates a parent path segment does not exist (or
	// already exists, for operations requiring absence).
	StatusPathFailed
	// StatusNodeFailed indicates the target node itself does not exist (or
	// already exists, for creating operations).
	StatusNodeFailed
	// StatusDisconnected indicates the backend is transiently unreachable;
	// Client retries operations indefinitely on this status.
	StatusDisconnected
	// StatusError indicates a non-retryable backend failure; Client aborts
	// the call and surfaces this to the caller.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusPathFailed:
		return "path_failed"
	case StatusNodeFailed:
		return "node_failed"
	case StatusDisconnected:
		return "disconnected"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}
