// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package transfer

import "github.com/scc-digitalhub/iadea-cli-sdk/sdk/services/device"

// DefaultRemoteDir is where synced content lands on the player.
const DefaultRemoteDir = "/user-data/media"

type SyncRequest struct {
	Bucket string
	Prefix string
	// RemoteDir is prepended to the object name relative to Prefix.
	RemoteDir string
	// SkipExisting leaves out objects already stored completely on the
	// player under the same downloadPath and size.
	SkipExisting bool
	// Progress receives upload progress for each object by key.
	Progress func(key string, p device.Progress)
}

type SkippedObject struct {
	Key    string `json:"key"    yaml:"key"`
	Reason string `json:"reason" yaml:"reason"`
}

type SyncResult struct {
	Uploaded []device.FileRecord `json:"uploaded" yaml:"uploaded"`
	Skipped  []SkippedObject     `json:"skipped"  yaml:"skipped"`
}

// -------- Archive --------

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type ArchiveRequest struct {
	Bucket string
	Key    string
	// Format is json or yaml; empty picks it from the Key extension.
	Format string
}

type ArchiveResult struct {
	Location string `json:"location" yaml:"location"`
	Format   string `json:"format"   yaml:"format"`
	Prefs    int    `json:"prefs"    yaml:"prefs"`
}
