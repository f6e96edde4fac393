// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package device

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/apierr"
)

const (
	powerOn      = "on"
	powerStandby = "standby"
)

// PowerBit is the screen power state. Firmware versions disagree on the
// encoding: some answer a boolean, others "on"/"standby".
type PowerBit bool

func (p *PowerBit) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		*p = PowerBit(t)
	case string:
		*p = PowerBit(strings.EqualFold(t, powerOn))
	case nil:
		*p = false
	default:
		return fmt.Errorf("unexpected power value %s", string(b))
	}
	return nil
}

func (p PowerBit) MarshalJSON() ([]byte, error) {
	if p {
		return json.Marshal(powerOn)
	}
	return json.Marshal(powerStandby)
}

// SwitchDisplay turns the screen on or puts it in standby. The returned
// state is the one before the switch.
func (s *DeviceService) SwitchDisplay(ctx context.Context, on bool) (*DisplayState, error) {
	power := powerStandby
	if on {
		power = powerOn
	}
	var out DisplayState
	body := struct {
		ID    int    `json:"id"`
		Power string `json:"power"`
	}{ID: 0, Power: power}
	if err := s.callInto(ctx, PathDisplay, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Format returns the color as #RRGGBB.
func (c Color) Format() (string, error) {
	if c.rgb {
		for _, v := range []int{c.r, c.g, c.b} {
			if v < 0 || v > 255 {
				return "", fmt.Errorf("channel %d out of range 0-255", v)
			}
		}
		return fmt.Sprintf("#%02X%02X%02X", c.r, c.g, c.b), nil
	}
	if !hexColor.MatchString(c.hex) {
		return "", fmt.Errorf("color %q is not #RRGGBB", c.hex)
	}
	return strings.ToUpper(c.hex), nil
}

// SetColor sets the frame light bar color at full brightness.
func (s *DeviceService) SetColor(ctx context.Context, c Color) (*Response, error) {
	color, err := c.Format()
	if err != nil {
		return nil, apierr.Wrap(apierr.ErrConfig, PathLight, err)
	}
	return s.command(ctx, PathLight, map[string]any{
		"name":       "frame",
		"brightness": 1,
		"color":      color,
	})
}
