// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

// Package device is the client for a single IADEA signage player.
//
// A DeviceService holds the session (host, credentials, access token) and
// performs one exchange at a time against the player: the firmware is not
// known to tolerate concurrent commands, so calls on the same service are
// serialized.
//
//	svc, err := device.NewDeviceService(ctx, config.Config{
//	    Device: config.DeviceConfig{Host: "192.168.1.20", Password: "secret"},
//	})
//	if _, err := svc.Connect(ctx); err != nil { ... }
//	rec, err := svc.Upload(ctx, device.UploadRequest{
//	    LocalPath:    "promo.mp4",
//	    DownloadPath: "/user-data/media/promo.mp4",
//	})
package device

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/apierr"
	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/config"
)

type DeviceService struct {
	http   config.CoreHTTP
	conf   config.DeviceConfig
	logger *slog.Logger

	mu    sync.RWMutex
	token string

	// flight is a one-slot semaphore serializing exchanges on this handle
	flight chan struct{}

	httpClient *http.Client
	boundary   func() string
}

type Option func(*DeviceService)

// WithHTTPClient sets the client used by the default transport.
func WithHTTPClient(c *http.Client) Option {
	return func(s *DeviceService) { s.httpClient = c }
}

// WithCoreHTTP replaces the transport entirely.
func WithCoreHTTP(h config.CoreHTTP) Option {
	return func(s *DeviceService) { s.http = h }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *DeviceService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBoundary overrides the multipart boundary generator.
func WithBoundary(fn func() string) Option {
	return func(s *DeviceService) {
		if fn != nil {
			s.boundary = fn
		}
	}
}

func NewDeviceService(_ context.Context, conf config.Config, opts ...Option) (*DeviceService, error) {
	if conf.Device.Host == "" {
		return nil, errors.New("invalid device config: host is required")
	}
	s := &DeviceService{
		conf:     conf.Device.WithDefaults(),
		logger:   slog.New(slog.DiscardHandler),
		boundary: defaultBoundary,
		flight:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.http == nil {
		s.http = config.NewHTTPCore(s.httpClient, s.conf)
	}
	return s, nil
}

// acquire takes the exchange slot, giving up with ErrTimeout when ctx ends
// first. The returned func releases the slot.
func (s *DeviceService) acquire(ctx context.Context, op string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, apierr.Wrap(apierr.ErrTimeout, op, err)
	}
	select {
	case s.flight <- struct{}{}:
		return func() { <-s.flight }, nil
	case <-ctx.Done():
		return nil, apierr.Wrap(apierr.ErrTimeout, op, ctx.Err())
	}
}

func (s *DeviceService) Host() string { return s.conf.Host }

func (s *DeviceService) Port() int { return s.conf.Port }
