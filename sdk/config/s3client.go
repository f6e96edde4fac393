// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Client is the content repository that device content is staged from.
type S3Client struct {
	s3 *s3.Client
}

func NewS3Client(ctx context.Context, cfgCreds S3Config) (*S3Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfgCreds.Region),
	}
	if cfgCreds.AccessKey != "" {
		creds := aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
			cfgCreds.AccessKey,
			cfgCreds.SecretKey,
			cfgCreds.AccessToken,
		))
		opts = append(opts, config.WithCredentialsProvider(creds))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Options := func(o *s3.Options) {
		if cfgCreds.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfgCreds.EndpointURL)
			o.UsePathStyle = true // required by most S3-compatible stores
		}
	}

	return &S3Client{
		s3: s3.NewFromConfig(cfg, s3Options),
	}, nil
}

type S3File struct {
	Path         string
	Name         string
	Size         int64
	LastModified string
}

/* -------------------- LIST -------------------- */

func (c *S3Client) ListFilesPaged(
	ctx context.Context,
	bucket string,
	prefix string,
	maxKeys *int32,
	continuationToken *string,
) ([]S3File, *string, error) {
	input := &s3.ListObjectsV2Input{
		Bucket:            aws.String(bucket),
		Prefix:            aws.String(prefix),
		MaxKeys:           maxKeys,
		ContinuationToken: continuationToken,
	}

	resp, err := c.s3.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list objects in S3: %w", err)
	}

	files := make([]S3File, 0, len(resp.Contents))
	for _, obj := range resp.Contents {
		key := aws.ToString(obj.Key)
		// skip "folder" placeholders
		if strings.HasSuffix(key, "/") && aws.ToInt64(obj.Size) == 0 {
			continue
		}
		name := key
		if prefix != "" && strings.HasPrefix(name, prefix) {
			name = strings.TrimPrefix(name, prefix)
		}
		var modified string
		if obj.LastModified != nil {
			modified = obj.LastModified.Format("2006-01-02T15:04:05Z07:00")
		}
		files = append(files, S3File{
			Path:         key,
			Name:         strings.TrimPrefix(name, "/"),
			Size:         aws.ToInt64(obj.Size),
			LastModified: modified,
		})
	}

	return files, resp.NextContinuationToken, nil
}

func (c *S3Client) ListFilesAll(ctx context.Context, bucket string, prefix string) ([]S3File, error) {
	var allFiles []S3File
	var token *string
	max := int32(1000)

	for {
		files, nextToken, err := c.ListFilesPaged(ctx, bucket, prefix, &max, token)
		if err != nil {
			return nil, err
		}
		allFiles = append(allFiles, files...)
		if nextToken == nil || *nextToken == "" {
			break
		}
		token = nextToken
	}
	return allFiles, nil
}

/* -------------------- DOWNLOAD -------------------- */

// DownloadFile writes the object to localPath with the S3 download manager.
func (c *S3Client) DownloadFile(ctx context.Context, bucket, key, localPath string) (int64, error) {
	f, err := os.Create(localPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create local file: %w", err)
	}
	defer f.Close()

	n, err := manager.NewDownloader(c.s3).Download(ctx, f, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return n, fmt.Errorf("failed to get object from S3: %w", err)
	}
	return n, nil
}

/* -------------------- UPLOAD -------------------- */

// PutBytes stores data under key through the S3 upload manager.
func (c *S3Client) PutBytes(ctx context.Context, bucket, key, contentType string, data []byte) (string, error) {
	out, err := manager.NewUploader(c.s3).Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload error: %w", err)
	}
	return out.Location, nil
}
