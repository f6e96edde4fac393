// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package device

import (
	"context"

	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/apierr"
)

type tokenRequest struct {
	GrantType string `json:"grant_type"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	Error       string `json:"error"`
}

// Connect performs the password grant and stores the returned token. On any
// failure the previously held token, if any, is kept.
func (s *DeviceService) Connect(ctx context.Context) (string, error) {
	resp, err := s.Call(ctx, PathToken, tokenRequest{
		GrantType: "password",
		Username:  s.conf.Username,
		Password:  s.conf.Password,
	})
	if err != nil {
		return "", err
	}

	var tr tokenResponse
	if err := resp.Decode(&tr); err != nil {
		return "", apierr.Wrap(apierr.ErrAuth, PathToken, err)
	}
	if tr.Error != "" {
		return "", apierr.New(apierr.ErrAuth, PathToken, "%s", tr.Error)
	}
	if tr.AccessToken == "" {
		return "", apierr.New(apierr.ErrAuth, PathToken, "no access_token in response")
	}

	s.SetToken(tr.AccessToken)
	s.logger.Info("device_connected", "host", s.conf.Host, "port", s.conf.Port)
	return tr.AccessToken, nil
}

// CheckOnline reports whether the player answers a token request. It never
// fails: every error maps to false.
func (s *DeviceService) CheckOnline(ctx context.Context) bool {
	token, err := s.Connect(ctx)
	if err != nil {
		s.logger.Debug("device_offline", "host", s.conf.Host, "error", err)
		return false
	}
	return token != ""
}

func (s *DeviceService) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetToken installs a token obtained elsewhere. An empty token returns the
// session to the unauthenticated state.
func (s *DeviceService) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *DeviceService) Authenticated() bool {
	return s.Token() != ""
}
