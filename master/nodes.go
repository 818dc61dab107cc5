// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package master

import (
	"context"
	"fmt"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/sync/errgroup"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CommInfo describes how to reach one rank's RPC endpoint, mirroring the
// source's CommInfo struct (reconstructed from MasterClient.cpp's usage
// since its header was filtered out of the original source set).
type CommInfo struct {
	Rank     int16  `json:"rank"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	DealerID int32  `json:"dealer_id"`
}

func nodePath(rank int16) string {
	return pathNode + "/" + strconv.Itoa(int(rank))
}

// RegisterNode creates an ephemeral node registry entry for info.Rank,
// JSON-encoded exactly as the source's to_json_str.
func (c *Client) RegisterNode(ctx context.Context, info CommInfo) Status {
	data, err := json.Marshal(info)
	if err != nil {
		return StatusError
	}
	_, st := c.Add(ctx, nodePath(info.Rank), data, true, false)
	return st
}

// GetCommInfo reads back the CommInfo registered for rank.
func (c *Client) GetCommInfo(ctx context.Context, rank int16) (CommInfo, Status) {
	var info CommInfo
	value, _, st := c.Get(ctx, nodePath(rank))
	if st != StatusOK {
		return info, st
	}
	if err := json.Unmarshal(value, &info); err != nil {
		return info, StatusError
	}
	return info, StatusOK
}

// GetCommInfoAll reads CommInfo for every currently registered rank,
// fetching ranks concurrently via errgroup — a supplemental enrichment
// over the source's serial loop, safe because reads are independent.
func (c *Client) GetCommInfoAll(ctx context.Context) ([]CommInfo, Status) {
	_, children, st := c.Get(ctx, "/"+pathNode)
	if st != StatusOK {
		return nil, st
	}
	out := make([]CommInfo, len(children))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range children {
		i, name := i, name
		g.Go(func() error {
			rank, err := strconv.Atoi(name)
			if err != nil {
				return fmt.Errorf("master: invalid node name %q: %w", name, err)
			}
			info, st := c.GetCommInfo(gctx, int16(rank))
			if st != StatusOK {
				return fmt.Errorf("master: get comm info for rank %d: %s", rank, st)
			}
			out[i] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, StatusError
	}
	return out, StatusOK
}
