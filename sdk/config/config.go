// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package config

import "time"

const (
	DefaultPort     = 8080
	DefaultUsername = "admin"
	DefaultTimeout  = 5000 * time.Millisecond

	// DefaultChunkSize is the upload buffer size. Some firmware rejects
	// chunks above MaxChunkSize; lower it if uploads fail.
	DefaultChunkSize = 8 * 1024
	MaxChunkSize     = 40 * 1024
)

// Config is everything the SDK needs, passed at construction time.
// Nothing here is read from the environment; see utils.LoadDeviceConfig.
type Config struct {
	Device DeviceConfig
	S3     S3Config
}

type DeviceConfig struct {
	Host     string
	Port     int
	Username string
	Password string

	// Timeout applies to every command exchange.
	Timeout time.Duration
	// UploadTimeout bounds a whole upload; zero leaves it to the caller's context.
	UploadTimeout time.Duration
	ChunkSize     int
}

type S3Config struct {
	AccessKey   string
	SecretKey   string
	AccessToken string
	Region      string
	EndpointURL string
}

// WithDefaults fills unset fields with the device defaults.
func (c DeviceConfig) WithDefaults() DeviceConfig {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Username == "" {
		c.Username = DefaultUsername
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.ChunkSize > MaxChunkSize {
		c.ChunkSize = MaxChunkSize
	}
	return c
}
