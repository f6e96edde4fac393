// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package configuration

import (
	"fmt"
	"log/slog"

	"github.com/scc-digitalhub/iadea-cli-sdk/cmd/cmdutil"
	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/services/device"
	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/utils"
	"github.com/spf13/cobra"
)

var importCommit bool

var Cmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"configuration"},
	Short:   "Export, import and commit the player configuration",
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the current configuration set",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := cmdutil.Connect(cmd)
		if err != nil {
			return err
		}
		set, err := svc.ExportConfiguration(cmd.Context())
		if err != nil {
			return err
		}
		return cmdutil.Print(cmd, set)
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Import preferences from a JSON or YAML file",
	Long: `Import preferences from a JSON or YAML file, "-" reading stdin.

The document may be a single {name, value} preference, a list of them,
or a {userPref: [...]} set as printed by "config export".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := utils.ReadConfigDocument(args[0], cmd.InOrStdin())
		if err != nil {
			return err
		}
		in, err := device.ParseConfigInput(raw)
		if err != nil {
			return err
		}

		svc, err := cmdutil.Connect(cmd)
		if err != nil {
			return err
		}
		res, cr, err := svc.ImportConfiguration(cmd.Context(), in, importCommit)
		if err != nil {
			if res != nil {
				slog.Warn("configuration imported but not committed", "commit_id", res.CommitID)
			}
			return err
		}
		if cr != nil {
			return cmdutil.Print(cmd, map[string]any{"import": res, "commit": cr})
		}
		return cmdutil.Print(cmd, res)
	},
}

var commitCmd = &cobra.Command{
	Use:   "commit <commit-id>",
	Short: "Apply a previously imported configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := cmdutil.Connect(cmd)
		if err != nil {
			return err
		}
		cr, err := svc.CommitConfiguration(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if cr.RestartRequired {
			fmt.Fprintln(cmd.ErrOrStderr(), "the player must be restarted for the change to apply")
		}
		return cmdutil.Print(cmd, cr)
	},
}

var autoStartCmd = &cobra.Command{
	Use:   "autostart <on|off>",
	Short: "Enable or disable launching the start content at boot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		enable, err := cmdutil.ParseOnOff(args[0])
		if err != nil {
			return err
		}
		svc, err := cmdutil.Connect(cmd)
		if err != nil {
			return err
		}
		resp, err := svc.EnableAutoStart(cmd.Context(), enable)
		if err != nil {
			return err
		}
		return cmdutil.PrintResponse(cmd, resp)
	},
}

func init() {
	importCmd.Flags().BoolVar(&importCommit, "commit", false, "commit the import right away")

	Cmd.AddCommand(exportCmd, importCmd, commitCmd, autoStartCmd)
}
