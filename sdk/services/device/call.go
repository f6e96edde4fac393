// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package device

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/apierr"
	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/config"
)

const (
	PathToken = "/v2/oauth2/token"

	defaultContentType = "application/json"
)

// Response is the outcome of a single call. JSON is nil when the body was
// empty, not valid JSON, or binary (image) content.
type Response struct {
	StatusCode  int
	ContentType string
	Raw         []byte
	JSON        json.RawMessage
}

func (r *Response) IsJSON() bool { return r != nil && r.JSON != nil }

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if !r.IsJSON() {
		return apierr.New(apierr.ErrMalformedResponse, "", "JSON is expected as output, got %q", truncate(r.Raw))
	}
	if err := json.Unmarshal(r.JSON, v); err != nil {
		return apierr.Wrap(apierr.ErrMalformedResponse, "", err)
	}
	return nil
}

// Call performs a request against path: POST with a JSON body when body is
// non-nil, GET otherwise.
func (s *DeviceService) Call(ctx context.Context, path string, body any) (*Response, error) {
	return s.CallWithContentType(ctx, path, body, "")
}

// RawCall is Call for endpoints the SDK has no typed wrapper for.
func (s *DeviceService) RawCall(ctx context.Context, path string, body any) (*Response, error) {
	return s.Call(ctx, path, body)
}

// CallWithContentType is Call with an explicit request content type.
// []byte, string and json.RawMessage bodies are sent verbatim; anything else
// is JSON-encoded.
func (s *DeviceService) CallWithContentType(ctx context.Context, path string, body any, contentType string) (*Response, error) {
	token := s.Token()
	if token == "" && path != PathToken {
		return nil, apierr.New(apierr.ErrAuthRequired, path, "call Connect first")
	}

	method := http.MethodGet
	var reader io.Reader
	if body != nil {
		method = http.MethodPost
		data, err := encodeBody(body)
		if err != nil {
			return nil, apierr.Wrap(apierr.ErrConfig, path, err)
		}
		reader = bytes.NewReader(data)
	}
	if contentType == "" {
		contentType = defaultContentType
	}

	release, err := s.acquire(ctx, path)
	if err != nil {
		return nil, err
	}
	defer release()

	start := time.Now()
	out, err := s.http.Do(ctx, config.Request{
		Method:      method,
		URL:         s.http.BuildURL(path, map[string]string{config.TokenParam: token}),
		Op:          path,
		ContentType: contentType,
		Body:        reader,
		Timeout:     s.conf.Timeout,
	})
	if err != nil {
		s.logger.Debug("device_call_failed",
			"method", method, "path", path,
			"duration", time.Since(start), "error", err)
		return nil, err
	}
	s.logger.Debug("device_call",
		"method", method, "path", path,
		"status", out.StatusCode, "duration", time.Since(start))

	if out.StatusCode == http.StatusUnauthorized {
		return nil, apierr.New(apierr.ErrAuth, path, "device rejected the access token: %s", truncate(out.Body))
	}

	return toResponse(out), nil
}

func toResponse(out *config.Response) *Response {
	r := &Response{
		StatusCode:  out.StatusCode,
		ContentType: out.ContentType,
		Raw:         out.Body,
	}
	if strings.Contains(out.ContentType, "image") {
		return r
	}
	trimmed := bytes.TrimSpace(out.Body)
	if len(trimmed) > 0 && json.Valid(trimmed) {
		r.JSON = json.RawMessage(trimmed)
	}
	return r
}

func encodeBody(body any) ([]byte, error) {
	switch v := body.(type) {
	case []byte:
		return v, nil
	case json.RawMessage:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return json.Marshal(v)
	}
}

// deviceError reports a 4xx/5xx answer as ErrDevice carrying the body.
func deviceError(op string, statusCode int, body []byte) error {
	if statusCode < http.StatusBadRequest {
		return nil
	}
	return apierr.Wrap(apierr.ErrDevice, op, &apierr.DeviceError{StatusCode: statusCode, Body: body})
}

// command is Call for typed operations: a 4xx/5xx answer fails with
// ErrDevice, and the response is still returned so the device JSON stays
// reachable.
func (s *DeviceService) command(ctx context.Context, path string, body any) (*Response, error) {
	resp, err := s.Call(ctx, path, body)
	if err != nil {
		return nil, err
	}
	return resp, deviceError(path, resp.StatusCode, resp.Raw)
}

// callInto performs command and decodes the JSON response into v.
func (s *DeviceService) callInto(ctx context.Context, path string, body any, v any) error {
	resp, err := s.command(ctx, path, body)
	if err != nil {
		return err
	}
	if err := resp.Decode(v); err != nil {
		if e, ok := err.(*apierr.Error); ok {
			e.Op = path
		}
		return err
	}
	return nil
}

func truncate(b []byte) string {
	const max = 120
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
