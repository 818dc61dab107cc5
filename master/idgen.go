// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package master

import (
	"context"
	"strconv"
	"strings"
)

// GenerateID returns a monotonically increasing integer id scoped to name,
// parsed from the sequential suffix the backend assigns to a generated
// child, matching MasterClient::generate_id.
func (c *Client) GenerateID(ctx context.Context, name string) (int64, Status) {
	idPath := pathIDGen + "/" + name
	if st := c.ensurePath(ctx, idPath); st != StatusOK {
		return 0, st
	}
	childName, st := c.Gen(ctx, idPath, nil)
	if st != StatusOK {
		return 0, st
	}
	idx := strings.LastIndex(childName, "_")
	if idx < 0 {
		return 0, StatusError
	}
	n, err := strconv.ParseInt(childName[idx+1:], 10, 64)
	if err != nil {
		return 0, StatusError
	}
	return n, StatusOK
}

// ResetGenerateID deletes name's id-generator subtree, restarting its
// sequence from zero on next use.
func (c *Client) ResetGenerateID(ctx context.Context, name string) Status {
	return c.Del(ctx, pathIDGen+"/"+name, true)
}
