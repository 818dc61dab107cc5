// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var servicesCmd = &cobra.Command{
	Use:   "services <api>",
	Short: "List every RPC service registered under api",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		c, cleanup, err := newClient(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		all, st := c.GetRPCServiceInfoAll(ctx, args[0])
		if err := statusErr(st); err != nil {
			return err
		}
		for _, info := range all {
			_, ranks, _ := c.GetRPCServiceInfo(ctx, info.API, info.ServiceName)
			fmt.Printf("%s/%s rpc_id=%d servers=%v\n", info.API, info.ServiceName, info.RpcID, ranks)
		}
		return nil
	},
}
