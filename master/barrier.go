// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package master

import (
	"context"
)

// ensurePath idempotently creates every segment of rel under the root,
// matching the tree_node_* helper wrappers in MasterClient.cpp.
func (c *Client) ensurePath(ctx context.Context, rel string) Status {
	segs := splitPath(rel)
	cur := ""
	for _, seg := range segs {
		cur += "/" + seg
		if st := c.createIfAbsentRel(ctx, cur); st != StatusOK {
			return st
		}
	}
	return StatusOK
}

func (c *Client) createIfAbsentRel(ctx context.Context, rel string) Status {
	_, st := c.Add(ctx, rel, nil, false, false)
	if st == StatusNodeFailed {
		return StatusOK
	}
	return st
}

// waitReadyAbsent blocks until readyPath does not exist. Called before a
// participant joins members, so a releaser still finishing cleanup from
// the previous round (Del myPath, Del readyPath) cannot be observed
// mid-cleanup by a new round's participant.
func (c *Client) waitReadyAbsent(ctx context.Context, readyPath string) Status {
	aw := NewAsyncWatcher()
	h, st := c.Watch(ctx, readyPath, func(string) { aw.Notify() })
	if st != StatusOK {
		return st
	}
	defer c.Unwatch(readyPath, h)
	aw.Wait(func() bool {
		_, _, s := c.Get(ctx, readyPath)
		return s == StatusNodeFailed
	})
	return StatusOK
}

// Barrier blocks the calling participant until n participants have called
// Barrier with the same name. Exactly one participant — the
// lexicographically-last sequential member, which by sequential numbering
// is also the last to join — becomes the releaser: it creates the "ready"
// marker once all n have joined, waits for every other participant to
// leave, then cleans up both its own member node and the marker.
//
// Open question (carried forward, not resolved): if the releaser's session
// ends between creating "ready" and finishing cleanup, the "ready" node is
// orphaned and the barrier path is left dirty for the next use of this
// name. No watchdog is implemented for this case.
func (c *Client) Barrier(ctx context.Context, name string, n int) Status {
	membersPath := pathBarrier + "/" + name + "/members"
	readyPath := pathBarrier + "/" + name + "/ready"

	if st := c.ensurePath(ctx, pathBarrier+"/"+name); st != StatusOK {
		return st
	}
	if st := c.ensurePath(ctx, membersPath); st != StatusOK {
		return st
	}

	// spec.md §4.7.1 step 1: wait until a prior round's "ready" marker has
	// been cleared before joining, so reusing the same barrier name across
	// rounds cannot let a new participant observe the old round's marker
	// and return before the new round's participants have even joined.
	if st := c.waitReadyAbsent(ctx, readyPath); st != StatusOK {
		return st
	}

	myPath, st := c.Add(ctx, membersPath+"/_", nil, true, true)
	if st != StatusOK {
		return st
	}
	mySegs := splitPath(myPath)
	myName := mySegs[len(mySegs)-1]

	aw := NewAsyncWatcher()
	h, st := c.Watch(ctx, membersPath, func(string) { aw.Notify() })
	if st != StatusOK {
		return st
	}
	defer c.Unwatch(membersPath, h)

	var children []string
	aw.Wait(func() bool {
		_, ch, _ := c.Get(ctx, membersPath)
		children = ch
		return len(ch) >= n
	})

	isReleaser := len(children) > 0 && children[len(children)-1] == myName

	if isReleaser {
		if st := c.Set(ctx, readyPath, nil); st == StatusNodeFailed {
			if _, st := c.Add(ctx, readyPath, nil, false, false); st != StatusOK && st != StatusNodeFailed {
				return st
			}
		} else if st != StatusOK {
			return st
		}

		aw.Wait(func() bool {
			_, ch, _ := c.Get(ctx, membersPath)
			return len(ch) <= 1
		})
		c.Del(ctx, myPath, false)
		c.Del(ctx, readyPath, false)
		return StatusOK
	}

	readyAw := NewAsyncWatcher()
	rh, st := c.Watch(ctx, readyPath, func(string) { readyAw.Notify() })
	if st != StatusOK {
		return st
	}
	readyAw.Wait(func() bool {
		_, _, s := c.Get(ctx, readyPath)
		return s == StatusOK
	})
	c.Unwatch(readyPath, rh)
	c.Del(ctx, myPath, false)
	return StatusOK
}
