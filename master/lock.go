// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package master

import "context"

// AcquireLock blocks until name is acquired by this client: it creates an
// ephemeral sequential child under _lock_/<name>/, then waits until its own
// child is the first (lowest-numbered) among siblings, matching
// MasterClient::acquire_lock.
func (c *Client) AcquireLock(ctx context.Context, name string) Status {
	lockPath := pathLock + "/" + name

	if st := c.ensurePath(ctx, lockPath); st != StatusOK {
		return st
	}
	myPath, st := c.Add(ctx, lockPath+"/_", nil, true, true)
	if st != StatusOK {
		return st
	}
	mySegs := splitPath(myPath)
	myName := mySegs[len(mySegs)-1]

	aw := NewAsyncWatcher()
	h, st := c.Watch(ctx, lockPath, func(string) { aw.Notify() })
	if st != StatusOK {
		return st
	}
	defer c.Unwatch(lockPath, h)

	aw.Wait(func() bool {
		_, children, _ := c.Get(ctx, lockPath)
		return len(children) > 0 && children[0] == myName
	})

	c.mu.Lock()
	c.locks[name] = myPath
	c.mu.Unlock()
	return StatusOK
}

// ReleaseLock deletes name's acquired member node, if this client holds it.
func (c *Client) ReleaseLock(ctx context.Context, name string) Status {
	c.mu.Lock()
	myPath, ok := c.locks[name]
	if ok {
		delete(c.locks, name)
	}
	c.mu.Unlock()
	if !ok {
		return StatusNodeFailed
	}
	return c.Del(ctx, myPath, false)
}
