// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package device

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/scc-digitalhub/iadea-cli-sdk/cmd/cmdutil"
	sdk "github.com/scc-digitalhub/iadea-cli-sdk/sdk/services/device"
	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/utils"
	"github.com/spf13/cobra"
)

var (
	screenshotOut string
	callBody      string
)

var onlineCmd = &cobra.Command{
	Use:   "online",
	Short: "Check that the player answers and accepts the credentials",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := cmdutil.NewDevice(cmd)
		if err != nil {
			return err
		}
		if !svc.CheckOnline(cmd.Context()) {
			return fmt.Errorf("%s:%d is offline", svc.Host(), svc.Port())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s:%d is online\n", svc.Host(), svc.Port())
		return nil
	},
}

type systemInfo struct {
	Model    *sdk.ModelInfo    `json:"model"`
	Firmware *sdk.FirmwareInfo `json:"firmware"`
	Storage  []sdk.Storage     `json:"storage"`
	Wifi     bool              `json:"wifiEnabled"`
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show model, firmware, storage and wifi state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := cmdutil.Connect(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		var info systemInfo
		if info.Model, err = svc.ModelInfo(ctx); err != nil {
			return err
		}
		if info.Firmware, err = svc.FirmwareInfo(ctx); err != nil {
			return err
		}
		if info.Storage, err = svc.StorageInfo(ctx); err != nil {
			return err
		}
		if info.Wifi, err = svc.IsWifiEnabled(ctx); err != nil {
			return err
		}
		return cmdutil.Print(cmd, info)
	},
}

var rebootCmd = &cobra.Command{
	Use:   "reboot",
	Short: "Restart the player",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := cmdutil.Connect(cmd)
		if err != nil {
			return err
		}
		resp, err := svc.Reboot(cmd.Context())
		if !sdk.IsRebootDisconnect(err) {
			return err
		}
		if err != nil {
			slog.Debug("reboot_disconnect", "error", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "reboot requested")
		return cmdutil.PrintResponse(cmd, resp)
	},
}

var screenshotCmd = &cobra.Command{
	Use:   "screenshot",
	Short: "Save the current screen as an image",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := cmdutil.Connect(cmd)
		if err != nil {
			return err
		}
		img, contentType, err := svc.Screenshot(cmd.Context())
		if err != nil {
			return err
		}
		if len(img) == 0 {
			return errors.New("player returned an empty screenshot")
		}
		out := screenshotOut
		if out == "" {
			out = "screenshot" + imageExt(contentType)
		}
		if err := os.WriteFile(out, img, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%s)\n", out, contentType)
		return nil
	},
}

func imageExt(contentType string) string {
	switch {
	case strings.Contains(contentType, "png"):
		return ".png"
	case strings.Contains(contentType, "jpeg"), strings.Contains(contentType, "jpg"):
		return ".jpg"
	}
	return ".img"
}

var passwdCmd = &cobra.Command{
	Use:   "passwd [new-password]",
	Short: "Change the player admin password",
	Long:  "Change the player admin password. Without an argument the factory password is restored.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := cmdutil.Connect(cmd)
		if err != nil {
			return err
		}
		var password string
		if len(args) == 1 {
			password = args[0]
		}
		resp, err := svc.SetPassword(cmd.Context(), password)
		if err != nil {
			return err
		}
		return cmdutil.PrintResponse(cmd, resp)
	},
}

var callCmd = &cobra.Command{
	Use:   "call <path>",
	Short: "Call any player API path",
	Long:  "Call any player API path. With --data the call is a POST carrying that JSON body, otherwise a GET.",
	Example: `  iadea call /v2/system/firmwareInfo
  iadea call /v2/app/switch --data '{"mode":"home"}'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var body any
		if callBody != "" {
			if !json.Valid([]byte(callBody)) {
				return errors.New("--data is not valid JSON")
			}
			body = json.RawMessage(callBody)
		}
		svc, err := cmdutil.Connect(cmd)
		if err != nil {
			return err
		}
		resp, err := svc.RawCall(cmd.Context(), args[0], body)
		if err != nil {
			return err
		}
		return cmdutil.PrintResponse(cmd, resp)
	},
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the resolved settings, secrets masked",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, profile, err := cmdutil.Viper(cmd)
		if err != nil {
			return err
		}
		return cmdutil.Print(cmd, map[string]any{
			"profile":  profile,
			"settings": utils.Describe(v),
		})
	},
}

// Cmds returns the player level commands.
func Cmds() []*cobra.Command {
	return []*cobra.Command{onlineCmd, infoCmd, rebootCmd, screenshotCmd, passwdCmd, callCmd, settingsCmd}
}

func init() {
	screenshotCmd.Flags().StringVarP(&screenshotOut, "file", "f", "", "output file (default screenshot.<ext>)")
	callCmd.Flags().StringVarP(&callBody, "data", "d", "", "JSON body to POST")
}
