// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package utils

const (
	IniName        = ".iadea.ini"
	IniPathEnv     = "IADEA_INI"
	CurrentProfile = "current_profile"
	DefaultProfile = "default"

	HostKey          = "host"
	PortKey          = "port"
	UsernameKey      = "username"
	PasswordKey      = "password"
	TimeoutKey       = "timeout"
	UploadTimeoutKey = "upload_timeout"
	ChunkSizeKey     = "chunk_size"

	AwsAccessKeyID     = "aws_access_key_id"
	AwsSecretAccessKey = "aws_secret_access_key"
	AwsSessionToken    = "aws_session_token"
	AwsRegion          = "aws_region"
	AwsEndpointURL     = "aws_endpoint_url"
	S3Bucket           = "s3_bucket"
)

// output formats accepted by FormatOutput
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)
