// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/scc-digitalhub/iadea-cli-sdk/cmd/cmdutil"
	"github.com/scc-digitalhub/iadea-cli-sdk/cmd/configuration"
	"github.com/scc-digitalhub/iadea-cli-sdk/cmd/device"
	"github.com/scc-digitalhub/iadea-cli-sdk/cmd/files"
	"github.com/scc-digitalhub/iadea-cli-sdk/cmd/hardware"
	"github.com/scc-digitalhub/iadea-cli-sdk/cmd/playback"
	"github.com/scc-digitalhub/iadea-cli-sdk/cmd/s3"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "iadea",
	Short: "IADEA signage player CLI",
	Long:  "Control IADEA signage players over their HTTP API: upload and play content, manage files and configuration.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return cmdutil.SetupLogging()
	},
	SilenceUsage: true,
}

func Execute() {
	ctx, stop := cmdutil.SignalContext(context.Background())
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		args := []any{"error", err}
		if hint := cmdutil.ExitHint(err); hint != "" {
			args = append(args, "hint", hint)
		}
		slog.Error("Fail to execute", args...)
		os.Exit(1)
	}
}

func init() {
	cmdutil.RegisterFlags(rootCmd)

	rootCmd.AddCommand(device.Cmds()...)
	rootCmd.AddCommand(files.Cmd)
	rootCmd.AddCommand(files.UploadCmd)
	rootCmd.AddCommand(playback.Cmds()...)
	rootCmd.AddCommand(configuration.Cmd)
	rootCmd.AddCommand(hardware.Cmds()...)
	rootCmd.AddCommand(s3.Cmd)
}
