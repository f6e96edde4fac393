// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/apierr"
)

const TokenParam = "access_token"

// CoreHTTP performs a single request/response exchange with the device and
// maps every failure onto the apierr taxonomy.
type CoreHTTP interface {
	BuildURL(path string, params map[string]string) string
	Do(ctx context.Context, req Request) (*Response, error)
}

type Request struct {
	Method      string
	URL         string
	Op          string // logical path, used in errors instead of the tokenized URL
	ContentType string
	Body        io.Reader
	// ContentLength is sent as-is when positive so the body is never chunked.
	ContentLength int64
	// Timeout aborts the exchange when it expires; zero means no limit
	// other than ctx.
	Timeout time.Duration
	// Sink, when set, receives a 2xx response body instead of Response.Body.
	Sink io.Writer
}

type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

type httpCore struct {
	httpClient *http.Client
	baseURL    string
}

func NewHTTPCore(httpClient *http.Client, deviceConfig DeviceConfig) CoreHTTP {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	deviceConfig = deviceConfig.WithDefaults()
	return &httpCore{
		httpClient: httpClient,
		baseURL:    "http://" + net.JoinHostPort(deviceConfig.Host, strconv.Itoa(deviceConfig.Port)),
	}
}

func (httpCore *httpCore) BuildURL(path string, params map[string]string) string {
	base := httpCore.baseURL + path
	q := url.Values{}
	for k, v := range params {
		if v == "" {
			continue
		}
		q.Set(k, v)
	}
	if len(q) > 0 {
		base += "?" + q.Encode()
	}
	return base
}

func (httpCore *httpCore) Do(ctx context.Context, r Request) (*Response, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, r.Body)
	if err != nil {
		return nil, apierr.Wrap(apierr.ErrConfig, r.Op, redact(err))
	}
	if r.Body != nil {
		contentType := r.ContentType
		if contentType == "" {
			contentType = "application/json"
		}
		req.Header.Set("Content-Type", contentType)
		if r.ContentLength > 0 {
			req.ContentLength = r.ContentLength
		}
	}

	resp, err := httpCore.httpClient.Do(req)
	if err != nil {
		return nil, classify(ctx, r.Op, err)
	}
	defer resp.Body.Close()

	out := &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}

	// a reachable host answering 404 on /v2/ is not an IADEA player
	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return out, apierr.New(apierr.ErrAPINotFound, r.Op, "device responded with: %s", resp.Status)
	}

	// error bodies are buffered, never streamed into the caller's sink
	if r.Sink != nil && resp.StatusCode < http.StatusMultipleChoices {
		if _, err := io.Copy(r.Sink, resp.Body); err != nil {
			return out, classify(ctx, r.Op, err)
		}
		return out, nil
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return out, classify(ctx, r.Op, err)
	}
	out.Body = b
	return out, nil
}

// classify maps a transport failure to Timeout or Transport. Caller
// cancellation counts as a timeout: the socket was aborted either way.
func classify(ctx context.Context, op string, err error) error {
	err = redact(err)
	if ctx.Err() != nil {
		return apierr.Wrap(apierr.ErrTimeout, op, err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apierr.Wrap(apierr.ErrTimeout, op, err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return apierr.Wrap(apierr.ErrTimeout, op, err)
	}
	return apierr.Wrap(apierr.ErrTransport, op, err)
}

// redact strips the access token from url.Error messages.
func redact(err error) error {
	var ue *url.Error
	if !errors.As(err, &ue) {
		return err
	}
	u, perr := url.Parse(ue.URL)
	if perr != nil {
		return err
	}
	q := u.Query()
	if q.Has(TokenParam) {
		q.Set(TokenParam, "REDACTED")
		u.RawQuery = q.Encode()
	}
	return &url.Error{Op: ue.Op, URL: u.String(), Err: ue.Err}
}

// RedactURL is redact for plain URLs, for logging.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Has(TokenParam) {
		q.Set(TokenParam, "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
