// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package device

import (
	"context"
	"errors"
	"strings"

	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/apierr"
)

// contentURI turns a downloadPath into the URI the player resolves. Anything
// that already looks like a URL is passed through untouched.
func contentURI(downloadPath string) string {
	if strings.Contains(downloadPath, "http") {
		return downloadPath
	}
	return localContentBase + downloadPath
}

func playerIntent(c ContentRef) AppIntent {
	return AppIntent{
		URI:         contentURI(c.DownloadPath()),
		PackageName: playerPackage,
		ClassName:   playerClass,
		Action:      viewAction,
	}
}

// PlayFile starts playback of content immediately.
func (s *DeviceService) PlayFile(ctx context.Context, c ContentRef) (*AppIntent, error) {
	if c.DownloadPath() == "" {
		return nil, apierr.New(apierr.ErrConfig, PathAppExec, "downloadPath is required")
	}
	var out AppIntent
	if err := s.callInto(ctx, PathAppExec, playerIntent(c), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetStart sets the content played at boot, or the safe fallback when
// fallback is true.
func (s *DeviceService) SetStart(ctx context.Context, target StartTarget, fallback bool) (*AppIntent, error) {
	path := PathAppStart
	if fallback {
		path = PathAppFallback
	}

	var intent AppIntent
	if target.intent != nil {
		intent = *target.intent
	} else {
		if target.content.DownloadPath() == "" {
			return nil, apierr.New(apierr.ErrConfig, path, "downloadPath is required")
		}
		intent = playerIntent(target.content)
	}

	var out AppIntent
	if err := s.callInto(ctx, path, intent, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SwitchToDefault returns to the content set by SetStart.
func (s *DeviceService) SwitchToDefault(ctx context.Context) (*AppIntent, error) {
	return s.SwitchTo(ctx, "start")
}

// SwitchTo switches the foreground app; "home" goes to the home screen.
func (s *DeviceService) SwitchTo(ctx context.Context, mode string) (*AppIntent, error) {
	var out AppIntent
	if err := s.callInto(ctx, PathAppSwitch, map[string]string{"mode": mode}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Notify raises a SMIL event in the running presentation. An empty event
// sends the bare notification.
func (s *DeviceService) Notify(ctx context.Context, event string) (*Response, error) {
	body := map[string]string{}
	if event != "" {
		body["smilEvent"] = event
	}
	return s.command(ctx, PathNotify, body)
}

// Reboot asks the player to restart. The player drops the connection while
// doing so, which normally surfaces as a transport error; see
// IsRebootDisconnect.
func (s *DeviceService) Reboot(ctx context.Context) (*Response, error) {
	s.logger.Info("device_reboot", "host", s.conf.Host)
	return s.command(ctx, PathReboot, nil)
}

// IsRebootDisconnect reports whether err is the expected outcome of Reboot.
func IsRebootDisconnect(err error) bool {
	return err == nil || errors.Is(err, apierr.ErrTransport) || errors.Is(err, apierr.ErrTimeout)
}

func (s *DeviceService) StorageInfo(ctx context.Context) ([]Storage, error) {
	var out []Storage
	if err := s.callInto(ctx, PathStorageInfo, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *DeviceService) FirmwareInfo(ctx context.Context) (*FirmwareInfo, error) {
	var out FirmwareInfo
	if err := s.callInto(ctx, PathFirmwareInfo, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *DeviceService) ModelInfo(ctx context.Context) (*ModelInfo, error) {
	var out ModelInfo
	if err := s.callInto(ctx, PathModelInfo, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *DeviceService) IsWifiEnabled(ctx context.Context) (bool, error) {
	var out bool
	if err := s.callInto(ctx, PathWifiEnabled, nil, &out); err != nil {
		return false, err
	}
	return out, nil
}

// Screenshot returns the current screen as image bytes along with their
// content type.
func (s *DeviceService) Screenshot(ctx context.Context) ([]byte, string, error) {
	resp, err := s.command(ctx, PathScreenshot, nil)
	if err != nil {
		return nil, "", err
	}
	return resp.Raw, resp.ContentType, nil
}
