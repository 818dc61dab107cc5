// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command mctl is a command-line client for the master path tree: it reads
// and mutates nodes directly, and drives the higher-level coordination
// primitives (barrier, lock, id generator) for scripting and debugging.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"code.hybscloud.com/prpc/internal/config"
	"code.hybscloud.com/prpc/master"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "mctl",
	Short: "Command-line client for the prpc master path tree",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to mctl's YAML config file")
	rootCmd.AddCommand(
		getCmd,
		setCmd,
		addCmd,
		delCmd,
		nodesCmd,
		barrierCmd,
		lockCmd,
		idCmd,
		servicesCmd,
		pingCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "mctl: %v\n", err)
		os.Exit(1)
	}
}

// newClient loads config, builds a zap logger at the configured level, dials
// ZooKeeper, and returns a ready master.Client plus a cleanup func.
func newClient(ctx context.Context) (*master.Client, func(), error) {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	zcfg := zap.NewProductionConfig()
	if lvl, err := zap.ParseAtomicLevel(cfg.LogLevel); err == nil {
		zcfg.Level = lvl
	}
	log, err := zcfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}

	backend, err := master.NewZKBackend(ctx, cfg.Master.Hosts, cfg.Master.SessionTimeout, log)
	if err != nil {
		log.Sync()
		return nil, nil, fmt.Errorf("connect to zookeeper: %w", err)
	}

	c := master.NewClient(backend, cfg.Master.RootPath, master.WithLogger(log))
	if st := c.Initialize(ctx); st != master.StatusOK {
		c.Close()
		log.Sync()
		return nil, nil, fmt.Errorf("initialize master tree: %v", st)
	}
	return c, func() { c.Close(); log.Sync() }, nil
}

func statusErr(st master.Status) error {
	if st == master.StatusOK {
		return nil
	}
	return fmt.Errorf("master returned %v", st)
}
