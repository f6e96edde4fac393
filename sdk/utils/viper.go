// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/config"
	"github.com/spf13/viper"
	"gopkg.in/ini.v1"
)

// Settings holds all logical keys. Tags:
// - vkey: Viper key, also the INI key
// - env: env name bound to the key
// - default: optional default when nothing else sets the key
// - secret: "true" if sensitive, masked by Describe
type Settings struct {
	Host          string `vkey:"host"           env:"IADEA_HOST"`
	Port          string `vkey:"port"           env:"IADEA_PORT"           default:"8080"`
	Username      string `vkey:"username"       env:"IADEA_USERNAME"       default:"admin"`
	Password      string `vkey:"password"       env:"IADEA_PASSWORD"       secret:"true"`
	Timeout       string `vkey:"timeout"        env:"IADEA_TIMEOUT"        default:"5s"`
	UploadTimeout string `vkey:"upload_timeout" env:"IADEA_UPLOAD_TIMEOUT" default:"0s"`
	ChunkSize     string `vkey:"chunk_size"     env:"IADEA_CHUNK_SIZE"     default:"8192"`

	AwsAccessKeyID     string `vkey:"aws_access_key_id"     env:"AWS_ACCESS_KEY_ID"     secret:"true"`
	AwsSecretAccessKey string `vkey:"aws_secret_access_key" env:"AWS_SECRET_ACCESS_KEY" secret:"true"`
	AwsSessionToken    string `vkey:"aws_session_token"     env:"AWS_SESSION_TOKEN"     secret:"true"`
	AwsRegion          string `vkey:"aws_region"            env:"AWS_REGION"            default:"us-east-1"`
	AwsEndpointURL     string `vkey:"aws_endpoint_url"      env:"AWS_ENDPOINT_URL"`
	S3Bucket           string `vkey:"s3_bucket"             env:"S3_BUCKET"`
}

// resolveProfile: explicit > DEFAULT.current_profile > "default"
func resolveProfile(cfg *ini.File, profile string) string {
	if profile != "" && !strings.EqualFold(profile, "null") {
		return profile
	}
	if cfg != nil {
		if v := cfg.Section(ini.DefaultSection).Key(CurrentProfile).String(); v != "" {
			return v
		}
	}
	return DefaultProfile
}

// bindEnvFromStruct binds env and defaults for all fields of Settings.
func bindEnvFromStruct(v *viper.Viper) {
	rt := reflect.TypeOf(Settings{})
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		key := f.Tag.Get("vkey")
		if key == "" {
			continue
		}
		env := f.Tag.Get("env")
		if env == "" {
			env = "IADEA_" + strings.ToUpper(key)
		}
		_ = v.BindEnv(key, env)
		if def := f.Tag.Get("default"); def != "" {
			v.SetDefault(key, def)
		}
	}
}

// loadIniSection merges [DEFAULT] and [profile] into v. A missing profile
// section falls back to [DEFAULT] alone.
func loadIniSection(v *viper.Viper, cfg *ini.File, profile string) error {
	merged := map[string]any{}
	for _, k := range cfg.Section(ini.DefaultSection).Keys() {
		if k.Name() == CurrentProfile {
			continue
		}
		merged[k.Name()] = k.Value()
	}
	if profile != DefaultProfile && cfg.HasSection(profile) {
		for _, k := range cfg.Section(profile).Keys() {
			merged[k.Name()] = k.Value()
		}
	}
	return v.MergeConfigMap(merged)
}

// NewConfigViper returns a viper holding the device settings, in order of
// precedence: values set or flag-bound later by the caller, IADEA_* and
// AWS_* environment variables, the selected INI profile, then defaults.
//
// The INI file is optional and only ever read. An empty iniPath means
// IniPath(). It returns the profile actually applied.
func NewConfigViper(iniPath, profile string) (*viper.Viper, string, error) {
	v := viper.New()
	bindEnvFromStruct(v)

	if iniPath == "" {
		iniPath = IniPath()
	}
	cfg, err := ini.Load(iniPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return v, resolveProfile(nil, profile), nil
		}
		return nil, "", fmt.Errorf("failed to read %s: %w", iniPath, err)
	}

	profile = resolveProfile(cfg, profile)
	if err := loadIniSection(v, cfg, profile); err != nil {
		return nil, "", fmt.Errorf("failed to load INI into viper: %w", err)
	}
	return v, profile, nil
}

// ConfigFromViper converts the settings held by v into a config.Config.
func ConfigFromViper(v *viper.Viper) (config.Config, error) {
	timeout, err := parseDuration(v, TimeoutKey)
	if err != nil {
		return config.Config{}, err
	}
	uploadTimeout, err := parseDuration(v, UploadTimeoutKey)
	if err != nil {
		return config.Config{}, err
	}

	dc := config.DeviceConfig{
		Host:          v.GetString(HostKey),
		Port:          v.GetInt(PortKey),
		Username:      v.GetString(UsernameKey),
		Password:      v.GetString(PasswordKey),
		Timeout:       timeout,
		UploadTimeout: uploadTimeout,
		ChunkSize:     v.GetInt(ChunkSizeKey),
	}
	if dc.Port < 0 || dc.Port > 65535 {
		return config.Config{}, fmt.Errorf("invalid %s %q", PortKey, v.GetString(PortKey))
	}

	return config.Config{
		Device: dc,
		S3: config.S3Config{
			AccessKey:   v.GetString(AwsAccessKeyID),
			SecretKey:   v.GetString(AwsSecretAccessKey),
			AccessToken: v.GetString(AwsSessionToken),
			Region:      v.GetString(AwsRegion),
			EndpointURL: v.GetString(AwsEndpointURL),
		},
	}, nil
}

// LoadDeviceConfig is NewConfigViper followed by ConfigFromViper.
func LoadDeviceConfig(iniPath, profile string) (config.Config, error) {
	v, _, err := NewConfigViper(iniPath, profile)
	if err != nil {
		return config.Config{}, err
	}
	return ConfigFromViper(v)
}

// Describe lists every setting of v with secrets masked, for display.
func Describe(v *viper.Viper) map[string]string {
	out := map[string]string{}
	rt := reflect.TypeOf(Settings{})
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		key := f.Tag.Get("vkey")
		val := v.GetString(key)
		if f.Tag.Get("secret") == "true" && val != "" {
			val = "********"
		}
		out[key] = val
	}
	return out
}

// parseDuration accepts Go durations ("2s", "750ms") or plain milliseconds.
func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return 0, nil
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d, nil
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return 0, fmt.Errorf("invalid %s %q", key, raw)
}
