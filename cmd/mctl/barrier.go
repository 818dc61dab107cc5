// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var barrierCmd = &cobra.Command{
	Use:   "barrier <name> <n>",
	Short: "Join a named barrier and block until n participants have joined",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("parse n: %w", err)
		}
		ctx := context.Background()
		c, cleanup, err := newClient(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := statusErr(c.Barrier(ctx, args[0], n)); err != nil {
			return err
		}
		fmt.Println("released")
		return nil
	},
}
