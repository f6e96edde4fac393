// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

// Package transfer moves content and configuration between an S3 bucket and
// a player.
package transfer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/config"
	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/services/device"
)

// ObjectStore is the part of config.S3Client the service relies on.
type ObjectStore interface {
	ListFilesAll(ctx context.Context, bucket, prefix string) ([]config.S3File, error)
	DownloadFile(ctx context.Context, bucket, key, localPath string) (int64, error)
	PutBytes(ctx context.Context, bucket, key, contentType string, data []byte) (string, error)
}

// Device is the part of device.DeviceService the service relies on.
type Device interface {
	GetFileList(ctx context.Context, filter device.FileFilter) (*device.FileList, error)
	Upload(ctx context.Context, req device.UploadRequest) (*device.FileRecord, error)
	ExportConfiguration(ctx context.Context) (*device.ConfigurationSet, error)
}

type TransferService struct {
	device Device
	store  ObjectStore
	logger *slog.Logger
	tmpDir string
}

type Option func(*TransferService)

// WithObjectStore replaces the S3 client built from config.
func WithObjectStore(store ObjectStore) Option {
	return func(s *TransferService) { s.store = store }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *TransferService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTempDir sets where objects are staged before upload; the default is
// os.TempDir.
func WithTempDir(dir string) Option {
	return func(s *TransferService) { s.tmpDir = dir }
}

func NewTransferService(ctx context.Context, conf config.Config, dev Device, opts ...Option) (*TransferService, error) {
	if dev == nil {
		return nil, fmt.Errorf("transfer service needs a device")
	}
	s := &TransferService{
		device: dev,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store != nil {
		return s, nil
	}

	s3c, err := config.NewS3Client(ctx, conf.S3)
	if err != nil {
		return nil, fmt.Errorf("S3 init failed: %w", err)
	}
	s.store = s3c
	return s, nil
}
