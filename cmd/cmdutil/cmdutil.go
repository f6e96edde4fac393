// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

// Package cmdutil holds the flags and helpers shared by the iadea commands.
package cmdutil

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/apierr"
	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/config"
	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/services/device"
	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	iniPath  string
	profile  string
	logLevel string
	output   string
)

// flag name -> viper key
var boundFlags = map[string]string{
	"host":           utils.HostKey,
	"port":           utils.PortKey,
	"user":           utils.UsernameKey,
	"password":       utils.PasswordKey,
	"timeout":        utils.TimeoutKey,
	"upload-timeout": utils.UploadTimeoutKey,
	"chunk-size":     utils.ChunkSizeKey,
}

// RegisterFlags adds the global flags to root. Device flags have empty
// defaults so the INI profile and environment apply unless a flag is set.
func RegisterFlags(root *cobra.Command) {
	pf := root.PersistentFlags()
	pf.StringVar(&iniPath, "ini", "", "path of the INI file (default $IADEA_INI or ~/"+utils.IniName+")")
	pf.StringVarP(&profile, "profile", "p", "", "INI profile to use")
	pf.StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	pf.StringVarP(&output, "output", "o", utils.FormatJSON, "output format: json or yaml")

	pf.String("host", "", "player host name or IP")
	pf.Int("port", 0, "player HTTP port")
	pf.String("user", "", "player user name")
	pf.String("password", "", "player password")
	pf.String("timeout", "", "request timeout, e.g. 5s or 5000")
	pf.String("upload-timeout", "", "upload and download timeout, 0 for none")
	pf.Int("chunk-size", 0, "upload chunk size in bytes")
}

// SetupLogging installs a text slog handler on stderr as the default logger.
func SetupLogging() error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid log level %q", logLevel)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

// Viper returns the resolved settings for cmd, flags taking precedence.
func Viper(cmd *cobra.Command) (*viper.Viper, string, error) {
	v, prof, err := utils.NewConfigViper(iniPath, profile)
	if err != nil {
		return nil, "", err
	}
	for name, key := range boundFlags {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, "", err
			}
		}
	}
	return v, prof, nil
}

// LoadConfig resolves the settings of cmd into a config.Config.
func LoadConfig(cmd *cobra.Command) (config.Config, *viper.Viper, error) {
	v, prof, err := Viper(cmd)
	if err != nil {
		return config.Config{}, nil, err
	}
	conf, err := utils.ConfigFromViper(v)
	if err != nil {
		return config.Config{}, nil, err
	}
	slog.Debug("config_loaded", "profile", prof, "host", conf.Device.Host, "port", conf.Device.WithDefaults().Port)
	return conf, v, nil
}

// NewDevice builds a device service without authenticating.
func NewDevice(cmd *cobra.Command) (*device.DeviceService, config.Config, error) {
	conf, _, err := LoadConfig(cmd)
	if err != nil {
		return nil, config.Config{}, err
	}
	svc, err := device.NewDeviceService(cmd.Context(), conf, device.WithLogger(slog.Default()))
	if err != nil {
		return nil, config.Config{}, err
	}
	return svc, conf, nil
}

// Connect builds a device service and authenticates it.
func Connect(cmd *cobra.Command) (*device.DeviceService, error) {
	svc, _, err := NewDevice(cmd)
	if err != nil {
		return nil, err
	}
	if _, err := svc.Connect(cmd.Context()); err != nil {
		return nil, fmt.Errorf("connect to %s:%d: %w", svc.Host(), svc.Port(), err)
	}
	return svc, nil
}

// Print writes v to stdout in the selected output format.
func Print(cmd *cobra.Command, v any) error {
	b, err := utils.FormatOutput(v, output)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = cmd.OutOrStdout().Write(b)
	return err
}

// PrintResponse writes a raw device reply: JSON in the output format, any
// other text as is.
func PrintResponse(cmd *cobra.Command, r *device.Response) error {
	if r == nil {
		return nil
	}
	if r.IsJSON() {
		return Print(cmd, r.JSON)
	}
	if len(r.Raw) == 0 || !strings.HasPrefix(r.ContentType, "text/") {
		return nil
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), string(r.Raw))
	return err
}

// ParseOnOff accepts on/off style switches.
func ParseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1", "enable":
		return true, nil
	case "off", "false", "no", "0", "disable", "standby":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}

// ExitHint adds a short explanation to errors the user can act on.
func ExitHint(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, apierr.ErrAuth):
		return "check the user name and password"
	case errors.Is(err, apierr.ErrAPINotFound):
		return "the player firmware does not provide this API"
	case errors.Is(err, apierr.ErrTimeout):
		return "the player did not answer in time, try a higher --timeout"
	case errors.Is(err, apierr.ErrTransport):
		return "the player is not reachable"
	case errors.Is(err, apierr.ErrDevice):
		return "the player refused the request, see the status and body above"
	case errors.Is(err, apierr.ErrConfig):
		return "check the arguments and the device settings (iadea settings)"
	}
	return ""
}

// SignalContext is ctx cancelled on interrupt or SIGTERM.
func SignalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
