// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package master

import (
	"context"
	"strconv"

	"code.hybscloud.com/prpc/watcher"
)

const (
	taskReady = pathTaskState + "/ready"
	taskFail  = pathTaskState + "/fail"
)

func taskNodePath(rank int16) string {
	return pathTaskState + "/node/" + strconv.Itoa(int(rank))
}

// SetTaskReady marks the task as ready for every participant to observe.
func (c *Client) SetTaskReady(ctx context.Context) Status {
	_, st := c.Add(ctx, taskReady, nil, false, false)
	if st == StatusNodeFailed {
		return StatusOK
	}
	return st
}

// GetTaskReady reports whether the task has been marked ready.
func (c *Client) GetTaskReady(ctx context.Context) (bool, Status) {
	_, _, st := c.Get(ctx, taskReady)
	if st == StatusNodeFailed {
		return false, StatusOK
	}
	if st != StatusOK {
		return false, st
	}
	return true, StatusOK
}

// SetTaskFailed marks the task as failed with the given reason.
func (c *Client) SetTaskFailed(ctx context.Context, reason string) Status {
	_, st := c.Add(ctx, taskFail, []byte(reason), false, false)
	if st == StatusNodeFailed {
		return c.Set(ctx, taskFail, []byte(reason))
	}
	return st
}

// AddTaskNode registers rank as a live participant of the task.
func (c *Client) AddTaskNode(ctx context.Context, rank int16) Status {
	_, st := c.Add(ctx, taskNodePath(rank), nil, true, false)
	return st
}

// DelTaskNode removes rank's task-node entry.
func (c *Client) DelTaskNode(ctx context.Context, rank int16) Status {
	return c.Del(ctx, taskNodePath(rank), false)
}

// GetTaskNode reports whether rank currently has a live task-node entry.
func (c *Client) GetTaskNode(ctx context.Context, rank int16) (bool, Status) {
	_, _, st := c.Get(ctx, taskNodePath(rank))
	if st == StatusNodeFailed {
		return false, StatusOK
	}
	if st != StatusOK {
		return false, st
	}
	return true, StatusOK
}

// WaitTaskReady blocks until the task is marked ready.
func (c *Client) WaitTaskReady(ctx context.Context) Status {
	aw := NewAsyncWatcher()
	var lastStatus Status
	h, st := c.Watch(ctx, taskReady, func(string) { aw.Notify() })
	if st != StatusOK {
		return st
	}
	defer c.Unwatch(taskReady, h)

	aw.Wait(func() bool {
		ready, s := c.GetTaskReady(ctx)
		lastStatus = s
		return ready || s != StatusOK
	})
	if lastStatus != StatusOK {
		return lastStatus
	}
	return StatusOK
}

// WatchTaskFail registers cb to fire immediately if the task has already
// failed, and again on any future failure notification.
func (c *Client) WatchTaskFail(ctx context.Context, cb func(reason string)) (watcher.Handle, Status) {
	h, st := c.Watch(ctx, taskFail, func(string) {
		value, _, s := c.Get(ctx, taskFail)
		if s == StatusOK {
			cb(string(value))
		}
	})
	if st != StatusOK {
		return h, st
	}
	if value, _, s := c.Get(ctx, taskFail); s == StatusOK {
		cb(string(value))
	}
	return h, StatusOK
}

// WatchTaskNode registers cb to fire whenever rank's task-node entry
// changes (added or removed).
func (c *Client) WatchTaskNode(ctx context.Context, rank int16, cb func()) (watcher.Handle, Status) {
	return c.Watch(ctx, taskNodePath(rank), func(string) { cb() })
}

// WatchCommNode registers cb to fire whenever rank's node-registry entry
// changes.
func (c *Client) WatchCommNode(ctx context.Context, rank int16, cb func()) (watcher.Handle, Status) {
	return c.Watch(ctx, nodePath(rank), func(string) { cb() })
}
