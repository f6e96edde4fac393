// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package playback

import (
	"github.com/scc-digitalhub/iadea-cli-sdk/cmd/cmdutil"
	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/services/device"
	"github.com/spf13/cobra"
)

var startFallback bool

var playCmd = &cobra.Command{
	Use:   "play <download-path|url>",
	Short: "Play stored content or a URL now",
	Example: `  iadea play /user-data/media/clip.mp4
  iadea play http://cms.example.org/lobby/index.smil`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := cmdutil.Connect(cmd)
		if err != nil {
			return err
		}
		intent, err := svc.PlayFile(cmd.Context(), device.ContentPath(args[0]))
		if err != nil {
			return err
		}
		return cmdutil.Print(cmd, intent)
	},
}

var startCmd = &cobra.Command{
	Use:   "start <download-path|url>",
	Short: "Set the content played at boot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := cmdutil.Connect(cmd)
		if err != nil {
			return err
		}
		target := device.StartContent(device.ContentPath(args[0]))
		intent, err := svc.SetStart(cmd.Context(), target, startFallback)
		if err != nil {
			return err
		}
		return cmdutil.Print(cmd, intent)
	},
}

var switchCmd = &cobra.Command{
	Use:   "switch [mode]",
	Short: `Switch the foreground app, "start" (default) or "home"`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := cmdutil.Connect(cmd)
		if err != nil {
			return err
		}
		var intent *device.AppIntent
		if len(args) == 0 {
			intent, err = svc.SwitchToDefault(cmd.Context())
		} else {
			intent, err = svc.SwitchTo(cmd.Context(), args[0])
		}
		if err != nil {
			return err
		}
		return cmdutil.Print(cmd, intent)
	},
}

var notifyCmd = &cobra.Command{
	Use:   "notify [smil-event]",
	Short: "Raise an event in the running SMIL presentation",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := cmdutil.Connect(cmd)
		if err != nil {
			return err
		}
		var event string
		if len(args) == 1 {
			event = args[0]
		}
		resp, err := svc.Notify(cmd.Context(), event)
		if err != nil {
			return err
		}
		return cmdutil.PrintResponse(cmd, resp)
	},
}

func Cmds() []*cobra.Command {
	return []*cobra.Command{playCmd, startCmd, switchCmd, notifyCmd}
}

func init() {
	startCmd.Flags().BoolVar(&startFallback, "fallback", false, "set the fallback content instead")
}
