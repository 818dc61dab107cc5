// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"code.hybscloud.com/prpc/lazyarchive"
	"code.hybscloud.com/prpc/rpcmsg"
	"code.hybscloud.com/prpc/transport"
)

var pingCmd = &cobra.Command{
	Use:   "ping <addr>",
	Short: "Send a bare rpc ping to a server listening at addr and print its reply",
	Long: "ping dials addr directly over TCP, outside the master path tree, and frames " +
		"a single rpc envelope both ways — useful for checking that an rpc server " +
		"on the other end is actually alive and framing correctly.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := transport.Dial("tcp", args[0],
			transport.WithReadTCP(), transport.WithWriteTCP(), transport.WithBlock())
		if err != nil {
			return fmt.Errorf("dial %s: %w", args[0], err)
		}
		defer conn.Close()

		req := rpcmsg.NewRequest(0, 0, 0, 0, 0, 0)
		req.Body.PutString("ping")
		msg := req.ToMessage()
		defer msg.Release()

		if err := rpcmsg.SendMessage(conn, msg); err != nil {
			return fmt.Errorf("send ping: %w", err)
		}

		reply, err := rpcmsg.ReceiveMessage(conn)
		if err != nil {
			return fmt.Errorf("read reply: %w", err)
		}
		defer reply.Release()

		r := lazyarchive.NewReader()
		r.Attach(reply.Blocks())
		text := r.GetString()
		fmt.Printf("error_code=%v body=%q\n", reply.Header.ErrorCode, text)
		return nil
	},
}
