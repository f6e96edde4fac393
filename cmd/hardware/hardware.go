// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package hardware

import (
	"fmt"
	"strconv"

	"github.com/scc-digitalhub/iadea-cli-sdk/cmd/cmdutil"
	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/services/device"
	"github.com/spf13/cobra"
)

var displayCmd = &cobra.Command{
	Use:   "display <on|off>",
	Short: "Turn the screen on or put it in standby",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		on, err := cmdutil.ParseOnOff(args[0])
		if err != nil {
			return err
		}
		svc, err := cmdutil.Connect(cmd)
		if err != nil {
			return err
		}
		state, err := svc.SwitchDisplay(cmd.Context(), on)
		if err != nil {
			return err
		}
		return cmdutil.Print(cmd, state)
	},
}

var colorCmd = &cobra.Command{
	Use:   "color <#RRGGBB | R G B>",
	Short: "Set the color of the frame LEDs",
	Example: `  iadea color '#00FF00'
  iadea color 255 0 16`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 && len(args) != 3 {
			return fmt.Errorf("expected a hex color or three channels, got %d argument(s)", len(args))
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := parseColor(args)
		if err != nil {
			return err
		}
		svc, err := cmdutil.Connect(cmd)
		if err != nil {
			return err
		}
		resp, err := svc.SetColor(cmd.Context(), c)
		if err != nil {
			return err
		}
		return cmdutil.PrintResponse(cmd, resp)
	},
}

// parseColor leaves range and format checks to Color.Format.
func parseColor(args []string) (device.Color, error) {
	if len(args) == 1 {
		return device.ColorHex(args[0]), nil
	}
	var rgb [3]int
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return device.Color{}, fmt.Errorf("invalid channel %q", a)
		}
		rgb[i] = n
	}
	return device.RGB(rgb[0], rgb[1], rgb[2]), nil
}

func Cmds() []*cobra.Command {
	return []*cobra.Command{displayCmd, colorCmd}
}
