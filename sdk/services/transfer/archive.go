// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/apierr"
	"sigs.k8s.io/yaml"
)

// ArchiveConfiguration exports the player configuration and stores it in S3.
// The stored document is the same {userPref:[...]} set ImportConfiguration
// accepts, so an archive can be replayed onto another player.
func (s *TransferService) ArchiveConfiguration(ctx context.Context, req ArchiveRequest) (*ArchiveResult, error) {
	const op = "archive configuration"
	if req.Bucket == "" || req.Key == "" {
		return nil, apierr.New(apierr.ErrConfig, op, "bucket and key are required")
	}
	format, err := archiveFormat(req)
	if err != nil {
		return nil, apierr.Wrap(apierr.ErrConfig, op, err)
	}

	set, err := s.device.ExportConfiguration(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode configuration: %w", err)
	}
	contentType := "application/json"
	if format == FormatYAML {
		if data, err = yaml.JSONToYAML(data); err != nil {
			return nil, fmt.Errorf("convert configuration to yaml: %w", err)
		}
		contentType = "application/yaml"
	}

	loc, err := s.store.PutBytes(ctx, req.Bucket, req.Key, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("store s3://%s/%s: %w", req.Bucket, req.Key, err)
	}
	s.logger.Info("configuration_archived", "location", loc, "format", format, "prefs", len(set.UserPref))
	return &ArchiveResult{Location: loc, Format: format, Prefs: len(set.UserPref)}, nil
}

func archiveFormat(req ArchiveRequest) (string, error) {
	f := strings.ToLower(req.Format)
	if f == "" {
		switch strings.ToLower(path.Ext(req.Key)) {
		case ".yaml", ".yml":
			f = FormatYAML
		default:
			f = FormatJSON
		}
	}
	if f == "yml" {
		f = FormatYAML
	}
	if f != FormatJSON && f != FormatYAML {
		return "", fmt.Errorf("unsupported format %q", req.Format)
	}
	return f, nil
}
