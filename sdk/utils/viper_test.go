// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package utils_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/utils"
)

const testIni = `current_profile = lobby
username = operator
timeout = 3s

[lobby]
host = 10.0.0.5
password = fromini
chunk_size = 16384

[kiosk]
host = 10.0.0.9
port = 9090
timeout = 1500
`

// clearEnv unsets every variable LoadDeviceConfig reads.
func clearEnv(t *testing.T) {
	for _, k := range []string{
		"IADEA_HOST", "IADEA_PORT", "IADEA_USERNAME", "IADEA_PASSWORD",
		"IADEA_TIMEOUT", "IADEA_UPLOAD_TIMEOUT", "IADEA_CHUNK_SIZE",
		"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "AWS_SESSION_TOKEN",
		"AWS_REGION", "AWS_ENDPOINT_URL", "S3_BUCKET",
	} {
		t.Setenv(k, "")
	}
}

func writeIni(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "iadea.ini")
	if err := os.WriteFile(p, []byte(testIni), 0o600); err != nil {
		t.Fatalf("write ini: %v", err)
	}
	return p
}

func TestLoadDeviceConfigProfiles(t *testing.T) {
	clearEnv(t)
	iniPath := writeIni(t)

	tests := []struct {
		profile     string
		wantProfile string
		host        string
		port        int
		username    string
		password    string
		timeout     time.Duration
		chunk       int
	}{
		{"", "lobby", "10.0.0.5", 8080, "operator", "fromini", 3 * time.Second, 16384},
		{"kiosk", "kiosk", "10.0.0.9", 9090, "operator", "", 1500 * time.Millisecond, 8192},
		{"missing", "missing", "", 8080, "operator", "", 3 * time.Second, 8192},
	}

	for _, tt := range tests {
		t.Run(tt.wantProfile, func(t *testing.T) {
			v, profile, err := utils.NewConfigViper(iniPath, tt.profile)
			if err != nil {
				t.Fatalf("load failed: %v", err)
			}
			if profile != tt.wantProfile {
				t.Fatalf("profile = %q, want %q", profile, tt.wantProfile)
			}
			cfg, err := utils.ConfigFromViper(v)
			if err != nil {
				t.Fatalf("convert failed: %v", err)
			}
			d := cfg.Device
			if d.Host != tt.host || d.Port != tt.port || d.Username != tt.username ||
				d.Password != tt.password || d.Timeout != tt.timeout || d.ChunkSize != tt.chunk {
				t.Fatalf("unexpected device config %+v", d)
			}
		})
	}
}

func TestLoadDeviceConfigEnvOverridesIni(t *testing.T) {
	clearEnv(t)
	iniPath := writeIni(t)
	t.Setenv("IADEA_PASSWORD", "fromenv")
	t.Setenv("IADEA_UPLOAD_TIMEOUT", "2m")
	t.Setenv("AWS_ENDPOINT_URL", "http://minio:9000")

	cfg, err := utils.LoadDeviceConfig(iniPath, "")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Device.Password != "fromenv" {
		t.Fatalf("env must win over the INI, got %q", cfg.Device.Password)
	}
	if cfg.Device.UploadTimeout != 2*time.Minute {
		t.Fatalf("upload timeout = %s", cfg.Device.UploadTimeout)
	}
	if cfg.S3.EndpointURL != "http://minio:9000" || cfg.S3.Region != "us-east-1" {
		t.Fatalf("unexpected s3 config %+v", cfg.S3)
	}
}

func TestLoadDeviceConfigWithoutIni(t *testing.T) {
	clearEnv(t)
	t.Setenv("IADEA_HOST", "player.local")

	cfg, err := utils.LoadDeviceConfig(filepath.Join(t.TempDir(), "none.ini"), "")
	if err != nil {
		t.Fatalf("a missing INI is not an error: %v", err)
	}
	if cfg.Device.Host != "player.local" || cfg.Device.Username != "admin" || cfg.Device.Timeout != 5*time.Second {
		t.Fatalf("unexpected config %+v", cfg.Device)
	}
}

func TestLoadDeviceConfigInvalidTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("IADEA_TIMEOUT", "soon")

	if _, err := utils.LoadDeviceConfig(filepath.Join(t.TempDir(), "none.ini"), ""); err == nil {
		t.Fatal("expected an error for an invalid timeout")
	}
}

func TestDescribeMasksSecrets(t *testing.T) {
	clearEnv(t)
	t.Setenv("IADEA_PASSWORD", "hunter2")

	v, _, err := utils.NewConfigViper(filepath.Join(t.TempDir(), "none.ini"), "")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	d := utils.Describe(v)
	if d["password"] == "hunter2" || d["password"] == "" {
		t.Fatalf("password not masked: %q", d["password"])
	}
	if d["username"] != "admin" {
		t.Fatalf("username = %q", d["username"])
	}
}
