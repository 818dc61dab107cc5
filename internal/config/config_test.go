// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigEmptyPathReturnsDefault(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverlaysFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mctl.yaml")
	content := []byte("master:\n  hosts:\n    - \"zk-1:2181\"\n    - \"zk-2:2181\"\n  root_path: /prpc-prod\nlog_level: debug\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, []string{"zk-1:2181", "zk-2:2181"}, cfg.Master.Hosts)
	require.Equal(t, "/prpc-prod", cfg.Master.RootPath)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, 10*time.Second, cfg.Master.SessionTimeout) // untouched default
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/mctl.yaml")
	require.Error(t, err)
}
