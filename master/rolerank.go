// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package master

import (
	"context"
	"sort"
)

// AllocRoleRank assigns a contiguous [0, n) rank to each of n participants
// registering under role with a unique memberID, following the six-step
// protocol: clear the role's path (each participant deletes it in turn under
// a lock), barrier, add own node, barrier, read the sorted children list for
// the rank index, barrier. The second barrier ensures no participant reads
// the list before every member has been added; the final barrier ensures
// none proceeds past this call before every participant has finished
// reading its rank.
func (c *Client) AllocRoleRank(ctx context.Context, role, memberID string, n int) (int16, Status) {
	rolePath := pathNode + "/role/" + role
	clearLock := "rolerank_clear_" + role

	if st := c.ensurePath(ctx, pathNode+"/role"); st != StatusOK {
		return 0, st
	}

	if st := c.AcquireLock(ctx, clearLock); st != StatusOK {
		return 0, st
	}
	clearErr := c.Del(ctx, rolePath, true)
	c.ReleaseLock(ctx, clearLock)
	if clearErr != StatusOK && clearErr != StatusNodeFailed {
		return 0, clearErr
	}

	if st := c.Barrier(ctx, "rolerank_clear_done_"+role, n); st != StatusOK {
		return 0, st
	}

	if st := c.ensurePath(ctx, rolePath); st != StatusOK {
		return 0, st
	}
	if _, st := c.Add(ctx, rolePath+"/"+memberID, nil, true, false); st != StatusOK && st != StatusNodeFailed {
		return 0, st
	}

	if st := c.Barrier(ctx, "rolerank_added_"+role, n); st != StatusOK {
		return 0, st
	}

	_, children, st := c.Get(ctx, rolePath)
	if st != StatusOK {
		return 0, st
	}
	sorted := append([]string(nil), children...)
	sort.Strings(sorted)
	rank := -1
	for i, name := range sorted {
		if name == memberID {
			rank = i
			break
		}
	}
	if rank < 0 {
		return 0, StatusError
	}

	if st := c.Barrier(ctx, "rolerank_done_"+role, n); st != StatusOK {
		return 0, st
	}

	if rank > 1<<15-1 {
		return 0, StatusError
	}
	return int16(rank), StatusOK
}
