// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "List every registered node's comm info",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		c, cleanup, err := newClient(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		all, st := c.GetCommInfoAll(ctx)
		if err := statusErr(st); err != nil {
			return err
		}
		for _, info := range all {
			fmt.Printf("rank=%d host=%s port=%d dealer=%d\n", info.Rank, info.Host, info.Port, info.DealerID)
		}
		return nil
	},
}
