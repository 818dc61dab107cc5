// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var lockCmd = &cobra.Command{
	Use:   "lock <name>",
	Short: "Acquire a named lock, wait for Enter on stdin, then release it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		c, cleanup, err := newClient(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := statusErr(c.AcquireLock(ctx, args[0])); err != nil {
			return err
		}
		fmt.Println("acquired; press Enter to release")
		bufio.NewReader(os.Stdin).ReadString('\n')
		return statusErr(c.ReleaseLock(ctx, args[0]))
	},
}
