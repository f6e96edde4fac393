// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package files

import (
	"testing"

	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/services/device"
)

func TestListFilter(t *testing.T) {
	reset := func() {
		listMime, listPath, listCompleted, listIncomplete = "", "", false, false
	}
	t.Cleanup(reset)

	tests := []struct {
		name    string
		set     func()
		want    device.FileFilter
		wantErr bool
	}{
		{"none", func() {}, device.NoFilter(), false},
		{"mime", func() { listMime = "video" }, device.ByMimeType("video"), false},
		{"path", func() { listPath = "lobby" }, device.ByDownloadPath("lobby"), false},
		{"incomplete", func() { listIncomplete = true }, device.ByCompleted(false), false},
		{"two criteria", func() { listMime, listPath = "image", "lobby" }, device.FileFilter{}, true},
		{"both states", func() { listCompleted, listIncomplete = true, true }, device.FileFilter{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reset()
			tt.set()
			got, err := listFilter()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("listFilter: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
