// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package master

import (
	"context"
	"sort"

	"code.hybscloud.com/prpc/watcher"
)

// AddContext creates a simple key/value node under _context_.
func (c *Client) AddContext(ctx context.Context, key string, value []byte) Status {
	_, st := c.Add(ctx, pathContext+"/"+key, value, false, false)
	return st
}

// SetContext overwrites key's value under _context_.
func (c *Client) SetContext(ctx context.Context, key string, value []byte) Status {
	return c.Set(ctx, pathContext+"/"+key, value)
}

// GetContext reads key's value under _context_.
func (c *Client) GetContext(ctx context.Context, key string) ([]byte, Status) {
	value, _, st := c.Get(ctx, pathContext+"/"+key)
	return value, st
}

// DeleteStorage deletes key under _context_.
func (c *Client) DeleteStorage(ctx context.Context, key string) Status {
	return c.Del(ctx, pathContext+"/"+key, false)
}

// GetStorageList lists every key currently stored under _context_, sorted.
func (c *Client) GetStorageList(ctx context.Context) ([]string, Status) {
	_, children, st := c.Get(ctx, "/"+pathContext)
	if st != StatusOK {
		return nil, st
	}
	sort.Strings(children)
	return children, StatusOK
}

// AddModel creates a named model entry under _model_.
func (c *Client) AddModel(ctx context.Context, name string, value []byte) Status {
	_, st := c.Add(ctx, pathModel+"/"+name, value, false, false)
	return st
}

// SetModel overwrites name's value under _model_.
func (c *Client) SetModel(ctx context.Context, name string, value []byte) Status {
	return c.Set(ctx, pathModel+"/"+name, value)
}

// GetModel reads name's value under _model_.
func (c *Client) GetModel(ctx context.Context, name string) ([]byte, Status) {
	value, _, st := c.Get(ctx, pathModel+"/"+name)
	return value, st
}

// DelModel deletes name under _model_.
func (c *Client) DelModel(ctx context.Context, name string) Status {
	return c.Del(ctx, pathModel+"/"+name, false)
}

// GetModelNames lists every model name currently stored under _model_,
// sorted.
func (c *Client) GetModelNames(ctx context.Context) ([]string, Status) {
	_, children, st := c.Get(ctx, "/"+pathModel)
	if st != StatusOK {
		return nil, st
	}
	sort.Strings(children)
	return children, StatusOK
}

// WatchModel registers cb to fire whenever name's model entry changes.
func (c *Client) WatchModel(ctx context.Context, name string, cb func()) (watcher.Handle, Status) {
	return c.Watch(ctx, pathModel+"/"+name, func(string) { cb() })
}
