// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package cmdutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/apierr"
	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/services/device"
	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/utils"
	"github.com/spf13/cobra"
)

// newRoot returns a root with the global flags and a child that records the
// config it resolves.
func newRoot(t *testing.T, run func(cmd *cobra.Command) error) *cobra.Command {
	t.Helper()
	root := &cobra.Command{Use: "iadea", SilenceUsage: true, SilenceErrors: true}
	RegisterFlags(root)
	root.AddCommand(&cobra.Command{
		Use:  "probe",
		RunE: func(cmd *cobra.Command, args []string) error { return run(cmd) },
	})
	return root
}

func TestLoadConfigFlagPrecedence(t *testing.T) {
	for _, k := range []string{"IADEA_HOST", "IADEA_PORT", "IADEA_TIMEOUT", "IADEA_PASSWORD"} {
		t.Setenv(k, "")
	}
	t.Setenv("IADEA_PORT", "8081")

	ini := filepath.Join(t.TempDir(), "iadea.ini")
	content := "[DEFAULT]\ncurrent_profile = lobby\n\n[lobby]\nhost = 10.0.0.5\ntimeout = 3s\n"
	if err := os.WriteFile(ini, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		args     []string
		wantHost string
		wantPort int
	}{
		{"ini and env", nil, "10.0.0.5", 8081},
		{"flags win", []string{"--host", "player.local", "--port", "9000"}, "player.local", 9000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got struct {
				host string
				port int
			}
			root := newRoot(t, func(cmd *cobra.Command) error {
				conf, _, err := LoadConfig(cmd)
				if err != nil {
					return err
				}
				got.host, got.port = conf.Device.Host, conf.Device.Port
				if conf.Device.Timeout.String() != "3s" {
					return fmt.Errorf("timeout %s, want 3s", conf.Device.Timeout)
				}
				return nil
			})
			root.SetArgs(append([]string{"probe", "--ini", ini}, tt.args...))
			if err := root.Execute(); err != nil {
				t.Fatalf("execute: %v", err)
			}
			if got.host != tt.wantHost || got.port != tt.wantPort {
				t.Fatalf("got %s:%d, want %s:%d", got.host, got.port, tt.wantHost, tt.wantPort)
			}
		})
	}
}

func TestPrintFormats(t *testing.T) {
	rec := device.FileRecord{ID: "7", DownloadPath: "/user-data/media/a.jpg"}

	for _, format := range []string{utils.FormatJSON, utils.FormatYAML} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			root := newRoot(t, func(cmd *cobra.Command) error { return Print(cmd, rec) })
			root.SetOut(&buf)
			root.SetArgs([]string{"probe", "-o", format})
			if err := root.Execute(); err != nil {
				t.Fatalf("execute: %v", err)
			}
			want := `"downloadPath": "/user-data/media/a.jpg"`
			if format == utils.FormatYAML {
				want = "downloadPath: /user-data/media/a.jpg"
			}
			if !strings.Contains(buf.String(), want) {
				t.Fatalf("output %q does not contain %q", buf.String(), want)
			}
		})
	}
}

func TestParseOnOff(t *testing.T) {
	tests := map[string]bool{"on": true, "ON": true, "1": true, "off": false, "standby": false, "no": false}
	for in, want := range tests {
		got, err := ParseOnOff(in)
		if err != nil || got != want {
			t.Errorf("ParseOnOff(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseOnOff("maybe"); err == nil {
		t.Error("expected an error for an unknown switch")
	}
}

func TestExitHint(t *testing.T) {
	if ExitHint(nil) != "" {
		t.Fatal("nil error has no hint")
	}
	err := fmt.Errorf("connect: %w", apierr.New(apierr.ErrAuth, device.PathToken, "bad password"))
	if !strings.Contains(ExitHint(err), "password") {
		t.Fatalf("unexpected hint %q", ExitHint(err))
	}
	devErr := apierr.Wrap(apierr.ErrDevice, device.PathFilesNew, &apierr.DeviceError{StatusCode: 500})
	if !strings.Contains(ExitHint(devErr), "refused") {
		t.Fatalf("unexpected hint %q", ExitHint(devErr))
	}
	if ExitHint(apierr.New(apierr.ErrAPINotFound, "/v2/x", "not found")) == "" {
		t.Fatal("expected a hint for a missing API")
	}
}
