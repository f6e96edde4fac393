// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package device

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/apierr"
	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/config"
	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/utils"
)

// localReadError marks failures reading the local file, as opposed to the
// socket going away underneath the body writer.
type localReadError struct{ err error }

func (e *localReadError) Error() string { return "read local file: " + e.err.Error() }
func (e *localReadError) Unwrap() error { return e.err }

// Upload streams req.LocalPath to the player as multipart/form-data and
// returns the record the player created.
//
// The MIME type comes from the file extension; an unknown extension fails
// before the file is touched. Stat failures fail before any connection is
// opened. Partial uploads are left for the player to clean up.
func (s *DeviceService) Upload(ctx context.Context, req UploadRequest) (*FileRecord, error) {
	const op = PathFilesNew

	mimeType, ok := utils.MimeTypeFor(req.LocalPath)
	if !ok {
		return nil, apierr.New(apierr.ErrConfig, op, "unknown mimeType for %q", req.LocalPath)
	}
	if req.DownloadPath == "" {
		return nil, apierr.New(apierr.ErrConfig, op, "downloadPath is required")
	}
	token := s.Token()
	if token == "" {
		return nil, apierr.New(apierr.ErrAuthRequired, op, "call Connect first")
	}

	st, err := os.Stat(req.LocalPath)
	if err != nil {
		return nil, apierr.Wrap(apierr.ErrLocalFile, op, err)
	}
	if st.IsDir() {
		return nil, apierr.New(apierr.ErrLocalFile, op, "%s is a directory", req.LocalPath)
	}
	file, err := os.Open(req.LocalPath)
	if err != nil {
		return nil, apierr.Wrap(apierr.ErrLocalFile, op, err)
	}

	size := st.Size()
	form := newMultipartForm(s.boundary(), formFields{
		DownloadPath: req.DownloadPath,
		FileSize:     size,
		MimeType:     mimeType,
		ModifiedDate: st.ModTime(),
	})

	release, err := s.acquire(ctx, op)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	defer release()

	s.logger.Info("upload_start",
		"file", req.LocalPath, "downloadPath", req.DownloadPath,
		"mimeType", mimeType, "size", size)
	start := time.Now()

	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() {
		defer file.Close()
		done <- writeBody(pw, file, form, size, s.conf.ChunkSize, req.Progress)
	}()

	out, err := s.http.Do(ctx, config.Request{
		Method:        http.MethodPost,
		URL:           s.http.BuildURL(op, map[string]string{config.TokenParam: token}),
		Op:            op,
		ContentType:   form.ContentType(),
		Body:          pr,
		ContentLength: form.ContentLength(size),
		Timeout:       s.conf.UploadTimeout,
	})
	// unblocks the writer if the transport gave up before draining the body
	_ = pr.Close()
	werr := <-done

	var lre *localReadError
	if errors.As(werr, &lre) {
		return nil, apierr.Wrap(apierr.ErrLocalFile, op, lre.err)
	}
	if err != nil {
		s.logger.Warn("upload_failed", "file", req.LocalPath, "error", err)
		return nil, err
	}
	if out.StatusCode == http.StatusUnauthorized {
		return nil, apierr.New(apierr.ErrAuth, op, "device rejected the access token: %s", truncate(out.Body))
	}
	if err := deviceError(op, out.StatusCode, out.Body); err != nil {
		s.logger.Warn("upload_failed", "file", req.LocalPath, "status", out.StatusCode)
		return nil, err
	}

	var rec FileRecord
	if err := toResponse(out).Decode(&rec); err != nil {
		if e, ok := err.(*apierr.Error); ok {
			e.Op = op
		}
		return nil, err
	}
	s.logger.Info("upload_done",
		"file", req.LocalPath, "id", rec.ID, "size", size, "took", time.Since(start))
	return &rec, nil
}

// writeBody writes preamble, file content in chunks, then the closing
// boundary. progress runs after every chunk the transport has taken.
func writeBody(w *io.PipeWriter, r io.Reader, form multipartForm, total int64, chunkSize int, progress ProgressFunc) error {
	fail := func(err error) error {
		_ = w.CloseWithError(err)
		return err
	}

	if _, err := io.WriteString(w, form.preamble); err != nil {
		return fail(err)
	}

	// never send more than announced in Content-Length
	src := io.LimitReader(r, total)
	buf := make([]byte, chunkSize)
	var sent int64
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				return fail(err)
			}
			sent += int64(n)
			if progress != nil {
				progress(Progress{
					TotalSize: total,
					BytesSent: sent,
					Fraction:  float64(sent) / float64(total),
				})
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return fail(&localReadError{err: rerr})
		}
	}
	if sent != total {
		return fail(&localReadError{err: fmt.Errorf("file shrank during upload: sent %d of %d bytes", sent, total)})
	}

	if _, err := io.WriteString(w, form.closing); err != nil {
		return fail(err)
	}
	return w.Close()
}
