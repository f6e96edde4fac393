// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package device

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/apierr"
)

// ExportConfiguration returns the player's current configuration set.
func (s *DeviceService) ExportConfiguration(ctx context.Context) (*ConfigurationSet, error) {
	var set ConfigurationSet
	if err := s.callInto(ctx, PathExportConfiguration, nil, &set); err != nil {
		return nil, err
	}
	return &set, nil
}

// ImportConfiguration sends the canonical form of in. With commit set, the
// import is followed by a commit using the returned commitId, and the commit
// result is returned as well; otherwise the second result is nil.
func (s *DeviceService) ImportConfiguration(ctx context.Context, in ConfigInput, commit bool) (*ImportResult, *CommitResult, error) {
	var res ImportResult
	if err := s.callInto(ctx, PathImportConfiguration, in.Set(), &res); err != nil {
		return nil, nil, err
	}
	s.logger.Info("configuration_imported",
		"prefs", len(in.Set().UserPref), "commit_id", res.CommitID, "restart_required", res.RestartRequired)
	if !commit {
		return &res, nil, nil
	}
	if res.CommitID == "" {
		return &res, nil, apierr.New(apierr.ErrMalformedResponse, PathImportConfiguration, "no commitId in import response")
	}
	cr, err := s.CommitConfiguration(ctx, res.CommitID)
	if err != nil {
		return &res, nil, err
	}
	return &res, cr, nil
}

// CommitConfiguration applies a previously imported set. The player may
// report that a restart is needed for it to take effect.
func (s *DeviceService) CommitConfiguration(ctx context.Context, commitID string) (*CommitResult, error) {
	if commitID == "" {
		return nil, apierr.New(apierr.ErrConfig, PathCommitConfiguration, "commitId is required")
	}
	var out CommitResult
	if err := s.callInto(ctx, PathCommitConfiguration, map[string]string{"commitId": commitID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ParseConfigInput accepts any of the three shapes the player understands:
//
//	{"name": "...", "value": ...}
//	[{"name": "...", "value": ...}, ...]
//	{"userPref": [...]}
func ParseConfigInput(raw []byte) (ConfigInput, error) {
	const op = "parse configuration"

	data := bytes.TrimSpace(raw)
	if len(data) == 0 {
		return ConfigInput{}, apierr.New(apierr.ErrConfig, op, "empty configuration")
	}

	if data[0] == '[' {
		var prefs []Preference
		if err := json.Unmarshal(data, &prefs); err != nil {
			return ConfigInput{}, apierr.Wrap(apierr.ErrConfig, op, err)
		}
		return PreferenceList(prefs), nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return ConfigInput{}, apierr.Wrap(apierr.ErrConfig, op, err)
	}
	if _, ok := probe["userPref"]; ok {
		var set ConfigurationSet
		if err := json.Unmarshal(data, &set); err != nil {
			return ConfigInput{}, apierr.Wrap(apierr.ErrConfig, op, err)
		}
		return WrappedSet(set), nil
	}

	var p Preference
	if err := json.Unmarshal(data, &p); err != nil {
		return ConfigInput{}, apierr.Wrap(apierr.ErrConfig, op, err)
	}
	if p.Name == "" {
		return ConfigInput{}, apierr.New(apierr.ErrConfig, op, "preference has no name")
	}
	return SinglePreference(p), nil
}

// SetPassword changes the admin password. An empty password restores the
// factory default.
func (s *DeviceService) SetPassword(ctx context.Context, password string) (*Response, error) {
	if password == "" {
		password = defaultAdminPassword
	}
	return s.command(ctx, PathAdminUser, map[string]string{"password": password})
}

// SettingsConsoleNew adds console settings that do not exist yet.
func (s *DeviceService) SettingsConsoleNew(ctx context.Context, req SettingsRequest) (*Response, error) {
	return s.command(ctx, PathConsoleSettingsNew, req)
}

// SettingsConsoleUpdate changes existing console settings.
func (s *DeviceService) SettingsConsoleUpdate(ctx context.Context, req SettingsRequest) (*Response, error) {
	return s.command(ctx, PathConsoleSettingsUpdate, req)
}

// EnableAutoStart toggles whether the player launches its start content at
// boot. It reads the configuration first to decide between the new and the
// update endpoint; the two calls are not atomic on the player, so a
// concurrent change between them can make the second one fail.
//
// The player setting is disableAutoStart, so it is written as !enable:
// EnableAutoStart(ctx, true) stores disableAutoStart=false. Older clients
// that wrote enable unchanged set the opposite of what was asked.
func (s *DeviceService) EnableAutoStart(ctx context.Context, enable bool) (*Response, error) {
	set, err := s.ExportConfiguration(ctx)
	if err != nil {
		return nil, err
	}
	if set.UserPref == nil {
		return nil, apierr.New(apierr.ErrMalformedResponse, PathExportConfiguration, "userPref is not set")
	}

	exists := false
	for _, p := range set.UserPref {
		if p.Name == consoleSettingsPrefix+autoStartSetting {
			exists = true
			break
		}
	}

	req := SettingsRequest{Settings: []Setting{{Name: autoStartSetting, Value: !enable}}}
	if exists {
		return s.SettingsConsoleUpdate(ctx, req)
	}
	return s.SettingsConsoleNew(ctx, req)
}
