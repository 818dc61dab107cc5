// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Read a node's value and children",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		c, cleanup, err := newClient(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		value, children, st := c.Get(ctx, args[0])
		if err := statusErr(st); err != nil {
			return err
		}
		fmt.Printf("value: %s\n", value)
		fmt.Printf("children: %v\n", children)
		return nil
	},
}

var setCmd = &cobra.Command{
	Use:   "set <path> <value>",
	Short: "Overwrite a node's value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		c, cleanup, err := newClient(ctx)
		if err != nil {
			return err
		}
		defer cleanup()
		return statusErr(c.Set(ctx, args[0], []byte(args[1])))
	},
}

var (
	addEphemeral  bool
	addSequential bool
)

var addCmd = &cobra.Command{
	Use:   "add <path> [value]",
	Short: "Create a node",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		c, cleanup, err := newClient(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		var value []byte
		if len(args) == 2 {
			value = []byte(args[1])
		}
		result, st := c.Add(ctx, args[0], value, addEphemeral, addSequential)
		if err := statusErr(st); err != nil {
			return err
		}
		fmt.Println(result)
		return nil
	},
}

func init() {
	addCmd.Flags().BoolVar(&addEphemeral, "ephemeral", false, "node disappears when this session ends")
	addCmd.Flags().BoolVar(&addSequential, "sequential", false, "append a monotonic sequence suffix to the name")
}

var delRecursive bool

var delCmd = &cobra.Command{
	Use:   "del <path>",
	Short: "Delete a node",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		c, cleanup, err := newClient(ctx)
		if err != nil {
			return err
		}
		defer cleanup()
		return statusErr(c.Del(ctx, args[0], delRecursive))
	},
}

func init() {
	delCmd.Flags().BoolVar(&delRecursive, "recursive", false, "delete children too")
}
