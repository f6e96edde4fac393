// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package device

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/apierr"
	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/config"
)

// GetFileList fetches the full listing and filters it locally; the player
// has no server-side filter.
func (s *DeviceService) GetFileList(ctx context.Context, filter FileFilter) (*FileList, error) {
	var list FileList
	if err := s.callInto(ctx, PathFilesFind, struct{}{}, &list); err != nil {
		return nil, err
	}
	list.Items = filterFiles(list.Items, filter)
	return &list, nil
}

func filterFiles(items []FileRecord, f FileFilter) []FileRecord {
	if f.Kind == FilterNone || (f.Kind != FilterCompleted && f.Substring == "") {
		return items
	}
	out := make([]FileRecord, 0, len(items))
	for _, it := range items {
		var keep bool
		switch f.Kind {
		case FilterCompleted:
			keep = it.Completed == f.Completed
		case FilterMimeType:
			keep = strings.Contains(it.MimeType, f.Substring)
		default:
			keep = strings.Contains(it.DownloadPath, f.Substring)
		}
		if keep {
			out = append(out, it)
		}
	}
	return out
}

func (s *DeviceService) GetFile(ctx context.Context, id string) (*FileRecord, error) {
	if id == "" {
		return nil, apierr.New(apierr.ErrConfig, PathFiles, "file id is required")
	}
	var rec FileRecord
	if err := s.callInto(ctx, PathFiles+url.PathEscape(id), nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// FindFileByName returns the first record whose downloadPath contains name,
// refreshed by id.
func (s *DeviceService) FindFileByName(ctx context.Context, name string) (*FileRecord, error) {
	list, err := s.GetFileList(ctx, ByDownloadPath(name))
	if err != nil {
		return nil, err
	}
	for _, it := range list.Items {
		if strings.Contains(it.DownloadPath, name) {
			return s.GetFile(ctx, it.ID)
		}
	}
	return nil, apierr.New(apierr.ErrNotFound, PathFilesFind, "no file matching %q", name)
}

// DeleteFiles removes the given files one after the other. Each delete is
// issued only after the previous response arrived; the first failure stops
// the batch and the results gathered so far are returned with it.
func (s *DeviceService) DeleteFiles(ctx context.Context, refs ...FileRef) ([]*Response, error) {
	results := make([]*Response, 0, len(refs))
	for i, ref := range refs {
		id := ref.ID()
		if id == "" {
			return results, apierr.New(apierr.ErrConfig, PathFilesDelete, "ref %d has no id", i)
		}
		resp, err := s.command(ctx, PathFilesDelete, map[string]string{"id": id})
		if err != nil {
			return results, fmt.Errorf("delete %s: %w", id, err)
		}
		s.logger.Debug("file_deleted", "id", id)
		results = append(results, resp)
	}
	return results, nil
}

func (s *DeviceService) DeleteFileList(ctx context.Context, list FileList) ([]*Response, error) {
	return s.DeleteFiles(ctx, Refs(list)...)
}

// DownloadFile copies the stored content at ref to dst without buffering it.
func (s *DeviceService) DownloadFile(ctx context.Context, ref ContentRef, dst io.Writer) (int64, error) {
	p := ref.DownloadPath()
	if p == "" {
		return 0, apierr.New(apierr.ErrConfig, pathContentPrefix, "downloadPath is required")
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	path := pathContentPrefix + p

	token := s.Token()
	if token == "" {
		return 0, apierr.New(apierr.ErrAuthRequired, path, "call Connect first")
	}

	cw := &countingWriter{w: dst}

	release, err := s.acquire(ctx, path)
	if err != nil {
		return 0, err
	}
	defer release()

	out, err := s.http.Do(ctx, config.Request{
		Method:  http.MethodGet,
		URL:     s.http.BuildURL(path, map[string]string{config.TokenParam: token}),
		Op:      path,
		Timeout: s.conf.UploadTimeout,
		Sink:    cw,
	})
	if err != nil {
		return cw.n, err
	}
	switch {
	case out.StatusCode == http.StatusUnauthorized:
		return cw.n, apierr.New(apierr.ErrAuth, path, "device rejected the access token")
	case out.StatusCode >= http.StatusBadRequest:
		return cw.n, deviceError(path, out.StatusCode, out.Body)
	}
	s.logger.Debug("file_downloaded", "path", path, "bytes", cw.n)
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
