// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package master

import (
	"context"
	"strconv"

	"code.hybscloud.com/prpc/watcher"
)

// RpcServiceInfo describes one registered RPC service and its assigned id,
// reconstructed from MasterClient.cpp's rpc-directory method signatures
// (the struct's own header was filtered out of the original source set).
type RpcServiceInfo struct {
	API         string `json:"api"`
	ServiceName string `json:"service_name"`
	RpcID       int32  `json:"rpc_id"`
}

func rpcServicePath(api, name string) string {
	return pathRPC + "/" + api + "/" + name
}

func rpcServerPath(api, name string, serverID int32) string {
	return rpcServicePath(api, name) + "/" + strconv.Itoa(int(serverID))
}

func rpcLockKey(api, name string) string {
	return api + "$" + name
}

// RegisterRPCService publishes api/name with the given rpc id, guarded by
// a lock keyed "<api>$<name>" so concurrent registration attempts do not
// race on the service's first creation.
func (c *Client) RegisterRPCService(ctx context.Context, api, name string, rpcID int32) Status {
	lockKey := rpcLockKey(api, name)
	if st := c.AcquireLock(ctx, lockKey); st != StatusOK {
		return st
	}
	defer c.ReleaseLock(ctx, lockKey)

	if st := c.ensurePath(ctx, pathRPC+"/"+api); st != StatusOK {
		return st
	}
	_, st := c.Add(ctx, rpcServicePath(api, name), []byte(strconv.Itoa(int(rpcID))), false, false)
	if st == StatusNodeFailed {
		return StatusOK
	}
	return st
}

// DeregisterRPCService removes api/name and every registered server under
// it.
func (c *Client) DeregisterRPCService(ctx context.Context, api, name string) Status {
	lockKey := rpcLockKey(api, name)
	if st := c.AcquireLock(ctx, lockKey); st != StatusOK {
		return st
	}
	defer c.ReleaseLock(ctx, lockKey)
	return c.Del(ctx, rpcServicePath(api, name), true)
}

// RegisterServer publishes an ephemeral server entry under api/name
// mapping serverID to globalRank.
func (c *Client) RegisterServer(ctx context.Context, api, name string, serverID int32, globalRank int16) Status {
	_, st := c.Add(ctx, rpcServerPath(api, name, serverID), []byte(strconv.Itoa(int(globalRank))), true, false)
	return st
}

// DeregisterServer removes serverID's entry under api/name.
func (c *Client) DeregisterServer(ctx context.Context, api, name string, serverID int32) Status {
	return c.Del(ctx, rpcServerPath(api, name, serverID), false)
}

// GetRPCServiceInfo reads back api/name's rpc id and currently registered
// server ranks.
func (c *Client) GetRPCServiceInfo(ctx context.Context, api, name string) (RpcServiceInfo, []int16, Status) {
	value, children, st := c.Get(ctx, rpcServicePath(api, name))
	if st != StatusOK {
		return RpcServiceInfo{}, nil, st
	}
	id, err := strconv.Atoi(string(value))
	if err != nil {
		return RpcServiceInfo{}, nil, StatusError
	}
	info := RpcServiceInfo{API: api, ServiceName: name, RpcID: int32(id)}

	ranks := make([]int16, 0, len(children))
	for _, serverIDStr := range children {
		serverID, err := strconv.Atoi(serverIDStr)
		if err != nil {
			continue
		}
		value, _, st := c.Get(ctx, rpcServerPath(api, name, int32(serverID)))
		if st != StatusOK {
			continue
		}
		rank, err := strconv.Atoi(string(value))
		if err != nil {
			continue
		}
		ranks = append(ranks, int16(rank))
	}
	return info, ranks, StatusOK
}

// GetRPCServiceInfoAll lists every service name registered under api.
func (c *Client) GetRPCServiceInfoAll(ctx context.Context, api string) ([]RpcServiceInfo, Status) {
	_, names, st := c.Get(ctx, pathRPC+"/"+api)
	if st != StatusOK {
		return nil, st
	}
	out := make([]RpcServiceInfo, 0, len(names))
	for _, name := range names {
		info, _, st := c.GetRPCServiceInfo(ctx, api, name)
		if st != StatusOK {
			continue
		}
		out = append(out, info)
	}
	return out, StatusOK
}

// WatchRPCServiceInfo registers cb to fire whenever api/name's service
// entry or any of its servers change.
func (c *Client) WatchRPCServiceInfo(ctx context.Context, api, name string, cb func()) (watcher.Handle, Status) {
	return c.Watch(ctx, rpcServicePath(api, name), func(string) { cb() })
}

// WatchNode registers cb to fire whenever the node registry as a whole
// changes (a rank joins or leaves).
func (c *Client) WatchNode(ctx context.Context, cb func()) (watcher.Handle, Status) {
	return c.Watch(ctx, "/"+pathNode, func(string) { cb() })
}
