// Copyright 2026 Corvus Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/corvuslabs-io/skink/internal/config"
	"github.com/corvuslabs-io/skink/internal/node"

	"github.com/spf13/cobra"
)

func loadRun(ctx context.Context, args []string, cfg *config.Config) {
	var snapshotPath string

	// CLI argument takes priority over config
	if len(args) >= 1 {
		snapshotPath = args[0]
	} else if cfg.SnapshotPath != "" {
		snapshotPath = cfg.SnapshotPath
	} else {
		slog.Error(
			"path to snapshot required (via argument or snapshotPath config)",
		)
		os.Exit(1)
	}

	logger := commonRun()
	if err := node.Load(ctx, cfg, logger, snapshotPath); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func loadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load [snapshot-path]",
		Short: "Load blocks from a chain snapshot (local file or gs:// URL)",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.FromContext(cmd.Context())
			if cfg == nil {
				slog.Error("no config found in context")
				os.Exit(1)
			}
			loadRun(cmd.Context(), args, cfg)
		},
	}
	return cmd
}
