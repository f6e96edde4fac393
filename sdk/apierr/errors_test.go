// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package apierr_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/apierr"
)

func TestDeviceError(t *testing.T) {
	long := `{"error":"` + strings.Repeat("x", 200) + `"}`
	err := apierr.Wrap(apierr.ErrDevice, "/v2/files/new", &apierr.DeviceError{StatusCode: 500, Body: []byte(long)})

	if !errors.Is(err, apierr.ErrDevice) || apierr.KindOf(err) != apierr.ErrDevice {
		t.Fatalf("kind not reachable from %v", err)
	}
	var de *apierr.DeviceError
	if !errors.As(err, &de) || de.StatusCode != 500 || string(de.Body) != long {
		t.Fatalf("cause not reachable or altered: %+v", de)
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, "/v2/files/new: device reported an error: status 500: ") || !strings.HasSuffix(msg, "...") {
		t.Fatalf("unexpected message %q", msg)
	}

	if got := (&apierr.DeviceError{StatusCode: 503}).Error(); got != "status 503" {
		t.Fatalf("empty body message %q", got)
	}
}
