// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package device_test

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/config"
	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/services/device"
)

const testToken = "tok-123"

// fakeDevice is an httptest player that counts every request it receives.
type fakeDevice struct {
	srv  *httptest.Server
	hits atomic.Int64
}

func newFakeDevice(t *testing.T, mux *http.ServeMux) *fakeDevice {
	t.Helper()
	fd := &fakeDevice{}
	fd.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fd.hits.Add(1)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(fd.srv.Close)
	return fd
}

func (fd *fakeDevice) deviceConfig(t *testing.T) config.DeviceConfig {
	t.Helper()
	return hostPortConfig(t, fd.srv.URL)
}

func hostPortConfig(t *testing.T, rawURL string) config.DeviceConfig {
	t.Helper()
	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("parse server url: %v", err)
	}
	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		t.Fatalf("split host port: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("parse port: %v", err)
	}
	return config.DeviceConfig{
		Host:     host,
		Port:     port,
		Username: "admin",
		Password: "secret",
		Timeout:  2 * time.Second,
	}
}

func newService(t *testing.T, dc config.DeviceConfig, opts ...device.Option) *device.DeviceService {
	t.Helper()
	svc, err := device.NewDeviceService(context.Background(), config.Config{Device: dc}, opts...)
	if err != nil {
		t.Fatalf("failed to init sdk: %v", err)
	}
	return svc
}

// connected returns a service against fd that already holds testToken.
func connected(t *testing.T, fd *fakeDevice, opts ...device.Option) *device.DeviceService {
	t.Helper()
	svc := newService(t, fd.deviceConfig(t), opts...)
	svc.SetToken(testToken)
	return svc
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func readBody(t *testing.T, r *http.Request) []byte {
	t.Helper()
	b, err := io.ReadAll(r.Body)
	if err != nil {
		t.Errorf("read request body: %v", err)
	}
	return b
}

// requireToken fails the request with 401 unless it carries testToken.
func requireToken(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get(config.TokenParam) != testToken {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"error":"invalid_token"}`)
			return
		}
		h(w, r)
	}
}

// hangUp drops the connection without answering.
func hangUp(w http.ResponseWriter, _ *http.Request) {
	hj, ok := w.(http.Hijacker)
	if !ok {
		panic("response writer does not support hijacking")
	}
	conn, _, err := hj.Hijack()
	if err != nil {
		panic(err)
	}
	_ = conn.Close()
}

// writeStatus answers with a JSON body and a non-2xx status, the way the
// player reports application errors.
func writeStatus(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
