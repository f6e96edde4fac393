// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package transfer

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/apierr"
	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/config"
	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/services/device"
	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/utils"
)

// SyncFromS3 copies every supported object under Bucket/Prefix to the
// player. Objects are staged one at a time in a temp file, uploaded, then
// removed; the player sees at most one upload at a time. The first failure
// stops the sync and the result so far is returned with the error.
func (s *TransferService) SyncFromS3(ctx context.Context, req SyncRequest) (*SyncResult, error) {
	const op = "sync from s3"
	if req.Bucket == "" {
		return nil, apierr.New(apierr.ErrConfig, op, "bucket is required")
	}
	remoteDir := req.RemoteDir
	if remoteDir == "" {
		remoteDir = DefaultRemoteDir
	}

	objects, err := s.store.ListFilesAll(ctx, req.Bucket, req.Prefix)
	if err != nil {
		return nil, fmt.Errorf("list s3://%s/%s: %w", req.Bucket, req.Prefix, err)
	}

	var existing map[string]int64
	if req.SkipExisting {
		existing, err = s.completedOnDevice(ctx)
		if err != nil {
			return nil, err
		}
	}

	stage, err := os.MkdirTemp(s.tmpDir, "iadea-sync-")
	if err != nil {
		return nil, apierr.Wrap(apierr.ErrLocalFile, op, err)
	}
	defer os.RemoveAll(stage)

	res := &SyncResult{}
	for _, obj := range objects {
		name := objectName(obj, req.Prefix)
		if _, ok := utils.MimeTypeFor(name); !ok {
			res.Skipped = append(res.Skipped, SkippedObject{Key: obj.Path, Reason: "unsupported extension"})
			continue
		}
		downloadPath := path.Join(remoteDir, name)
		if size, ok := existing[downloadPath]; ok && size == obj.Size {
			res.Skipped = append(res.Skipped, SkippedObject{Key: obj.Path, Reason: "already on device"})
			continue
		}

		rec, err := s.syncObject(ctx, req, obj, stage, downloadPath)
		if err != nil {
			return res, fmt.Errorf("sync %s: %w", obj.Path, err)
		}
		res.Uploaded = append(res.Uploaded, *rec)
	}

	s.logger.Info("s3_sync_done",
		"bucket", req.Bucket, "prefix", req.Prefix,
		"uploaded", len(res.Uploaded), "skipped", len(res.Skipped))
	return res, nil
}

func (s *TransferService) syncObject(ctx context.Context, req SyncRequest, obj config.S3File, stage, downloadPath string) (*device.FileRecord, error) {
	// keep the extension: the upload derives the MIME type from it
	local := filepath.Join(stage, path.Base(obj.Path))
	defer os.Remove(local)

	n, err := s.store.DownloadFile(ctx, req.Bucket, obj.Path, local)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("s3_object_staged", "key", obj.Path, "bytes", n)

	var progress device.ProgressFunc
	if req.Progress != nil {
		key := obj.Path
		progress = func(p device.Progress) { req.Progress(key, p) }
	}
	return s.device.Upload(ctx, device.UploadRequest{
		LocalPath:    local,
		DownloadPath: downloadPath,
		Progress:     progress,
	})
}

// completedOnDevice maps downloadPath to size for every completed file.
func (s *TransferService) completedOnDevice(ctx context.Context) (map[string]int64, error) {
	list, err := s.device.GetFileList(ctx, device.ByCompleted(true))
	if err != nil {
		return nil, fmt.Errorf("list device files: %w", err)
	}
	out := make(map[string]int64, len(list.Items))
	for _, it := range list.Items {
		out[it.DownloadPath] = it.FileSize
	}
	return out, nil
}

// objectName is the object key relative to prefix, slash separated.
func objectName(obj config.S3File, prefix string) string {
	name := obj.Name
	if name == "" {
		name = strings.TrimPrefix(strings.TrimPrefix(obj.Path, prefix), "/")
	}
	return name
}
