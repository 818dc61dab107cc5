// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var idResetFlag bool

var idCmd = &cobra.Command{
	Use:   "id <name>",
	Short: "Generate the next monotonic id under name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		c, cleanup, err := newClient(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		if idResetFlag {
			return statusErr(c.ResetGenerateID(ctx, args[0]))
		}
		id, st := c.GenerateID(ctx, args[0])
		if err := statusErr(st); err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	},
}

func init() {
	idCmd.Flags().BoolVar(&idResetFlag, "reset", false, "reset the generator instead of generating")
}
