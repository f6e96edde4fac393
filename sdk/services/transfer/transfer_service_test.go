// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package transfer_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/apierr"
	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/config"
	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/services/device"
	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/services/transfer"
	"sigs.k8s.io/yaml"
)

type fakeStore struct {
	objects map[string]string // key -> content
	order   []string
	puts    map[string][]byte
	types   map[string]string
}

func newFakeStore(pairs ...string) *fakeStore {
	fs := &fakeStore{objects: map[string]string{}, puts: map[string][]byte{}, types: map[string]string{}}
	for i := 0; i+1 < len(pairs); i += 2 {
		fs.objects[pairs[i]] = pairs[i+1]
		fs.order = append(fs.order, pairs[i])
	}
	return fs
}

func (fs *fakeStore) ListFilesAll(_ context.Context, _ string, prefix string) ([]config.S3File, error) {
	var out []config.S3File
	for _, k := range fs.order {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		out = append(out, config.S3File{
			Path: k,
			Name: strings.TrimPrefix(strings.TrimPrefix(k, prefix), "/"),
			Size: int64(len(fs.objects[k])),
		})
	}
	return out, nil
}

func (fs *fakeStore) DownloadFile(_ context.Context, _ string, key, localPath string) (int64, error) {
	content, ok := fs.objects[key]
	if !ok {
		return 0, fmt.Errorf("no such key %s", key)
	}
	return int64(len(content)), os.WriteFile(localPath, []byte(content), 0o644)
}

func (fs *fakeStore) PutBytes(_ context.Context, bucket, key, contentType string, data []byte) (string, error) {
	fs.puts[key] = data
	fs.types[key] = contentType
	return "s3://" + bucket + "/" + key, nil
}

type fakeDevice struct {
	files    []device.FileRecord
	uploads  map[string]string // downloadPath -> content
	uploaded []string
	config   device.ConfigurationSet
	failOn   string
}

func (fd *fakeDevice) GetFileList(_ context.Context, _ device.FileFilter) (*device.FileList, error) {
	return &device.FileList{Items: fd.files}, nil
}

func (fd *fakeDevice) Upload(_ context.Context, req device.UploadRequest) (*device.FileRecord, error) {
	if req.DownloadPath == fd.failOn {
		return nil, apierr.New(apierr.ErrTransport, device.PathFilesNew, "connection reset")
	}
	b, err := os.ReadFile(req.LocalPath)
	if err != nil {
		return nil, apierr.Wrap(apierr.ErrLocalFile, device.PathFilesNew, err)
	}
	if fd.uploads == nil {
		fd.uploads = map[string]string{}
	}
	fd.uploads[req.DownloadPath] = string(b)
	fd.uploaded = append(fd.uploaded, req.DownloadPath)
	if req.Progress != nil {
		req.Progress(device.Progress{TotalSize: int64(len(b)), BytesSent: int64(len(b)), Fraction: 1})
	}
	return &device.FileRecord{ID: fmt.Sprint(len(fd.uploaded)), DownloadPath: req.DownloadPath, FileSize: int64(len(b)), Completed: true}, nil
}

func (fd *fakeDevice) ExportConfiguration(context.Context) (*device.ConfigurationSet, error) {
	return &fd.config, nil
}

func newTransfer(t *testing.T, dev transfer.Device, store transfer.ObjectStore) *transfer.TransferService {
	t.Helper()
	svc, err := transfer.NewTransferService(context.Background(), config.Config{}, dev,
		transfer.WithObjectStore(store), transfer.WithTempDir(t.TempDir()))
	if err != nil {
		t.Fatalf("failed to init sdk: %v", err)
	}
	return svc
}

func TestSyncFromS3(t *testing.T) {
	store := newFakeStore(
		"campaign/a.jpg", "AAAA",
		"campaign/notes.docx", "skip me",
		"campaign/sub/b.mp4", "BBBBBB",
		"campaign/c.png", "CC",
		"other/d.jpg", "DD",
	)
	dev := &fakeDevice{files: []device.FileRecord{
		{DownloadPath: "/user-data/media/c.png", FileSize: 2, Completed: true},
	}}
	svc := newTransfer(t, dev, store)

	var progressKeys []string
	res, err := svc.SyncFromS3(context.Background(), transfer.SyncRequest{
		Bucket:       "content",
		Prefix:       "campaign/",
		SkipExisting: true,
		Progress: func(key string, p device.Progress) {
			progressKeys = append(progressKeys, key)
		},
	})
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	wantUploaded := []string{"/user-data/media/a.jpg", "/user-data/media/sub/b.mp4"}
	if strings.Join(dev.uploaded, ",") != strings.Join(wantUploaded, ",") {
		t.Fatalf("uploaded %v, want %v", dev.uploaded, wantUploaded)
	}
	if dev.uploads["/user-data/media/sub/b.mp4"] != "BBBBBB" {
		t.Fatalf("content not staged correctly: %q", dev.uploads["/user-data/media/sub/b.mp4"])
	}
	if len(res.Uploaded) != 2 || len(res.Skipped) != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	reasons := map[string]string{}
	for _, sk := range res.Skipped {
		reasons[sk.Key] = sk.Reason
	}
	if reasons["campaign/notes.docx"] != "unsupported extension" || reasons["campaign/c.png"] != "already on device" {
		t.Fatalf("unexpected skips %v", reasons)
	}
	if strings.Join(progressKeys, ",") != "campaign/a.jpg,campaign/sub/b.mp4" {
		t.Fatalf("progress reported for %v", progressKeys)
	}
}

func TestSyncFromS3StopsOnFirstError(t *testing.T) {
	store := newFakeStore("x/1.jpg", "1", "x/2.jpg", "2", "x/3.jpg", "3")
	dev := &fakeDevice{failOn: "/media/2.jpg"}
	svc := newTransfer(t, dev, store)

	res, err := svc.SyncFromS3(context.Background(), transfer.SyncRequest{Bucket: "b", Prefix: "x/", RemoteDir: "/media"})
	if !errors.Is(err, apierr.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	if res == nil || len(res.Uploaded) != 1 || len(dev.uploaded) != 1 {
		t.Fatalf("expected one upload before the failure, got %+v", res)
	}
}

func TestSyncFromS3RequiresBucket(t *testing.T) {
	svc := newTransfer(t, &fakeDevice{}, newFakeStore())
	if _, err := svc.SyncFromS3(context.Background(), transfer.SyncRequest{}); !errors.Is(err, apierr.ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}

func TestArchiveConfiguration(t *testing.T) {
	dev := &fakeDevice{config: device.ConfigurationSet{UserPref: []device.Preference{
		device.Pref("app.settings.com.iadea.console.disableAutoStart", false),
		device.Pref("network.hostname", "lobby"),
	}}}

	tests := []struct {
		name       string
		req        transfer.ArchiveRequest
		wantFormat string
		wantType   string
	}{
		{"json by extension", transfer.ArchiveRequest{Bucket: "b", Key: "cfg/lobby.json"}, transfer.FormatJSON, "application/json"},
		{"yaml by extension", transfer.ArchiveRequest{Bucket: "b", Key: "cfg/lobby.yml"}, transfer.FormatYAML, "application/yaml"},
		{"explicit yaml", transfer.ArchiveRequest{Bucket: "b", Key: "cfg/lobby", Format: "yaml"}, transfer.FormatYAML, "application/yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			svc := newTransfer(t, dev, store)

			res, err := svc.ArchiveConfiguration(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("archive failed: %v", err)
			}
			if res.Format != tt.wantFormat || res.Prefs != 2 {
				t.Fatalf("unexpected result %+v", res)
			}
			if store.types[tt.req.Key] != tt.wantType {
				t.Fatalf("content type %q, want %q", store.types[tt.req.Key], tt.wantType)
			}

			data := store.puts[tt.req.Key]
			if tt.wantFormat == transfer.FormatYAML {
				if data, err = yaml.YAMLToJSON(data); err != nil {
					t.Fatalf("stored yaml is invalid: %v", err)
				}
			}
			in, err := device.ParseConfigInput(data)
			if err != nil {
				t.Fatalf("archive cannot be replayed: %v", err)
			}
			got, _ := json.Marshal(in.Set())
			want, _ := json.Marshal(dev.config)
			if string(got) != string(want) {
				t.Fatalf("archive round trip: got %s, want %s", got, want)
			}
		})
	}

	svc := newTransfer(t, dev, newFakeStore())
	_, err := svc.ArchiveConfiguration(context.Background(), transfer.ArchiveRequest{Bucket: "b", Key: "k", Format: "xml"})
	if !errors.Is(err, apierr.ErrConfig) {
		t.Fatalf("expected ErrConfig for an unknown format, got %v", err)
	}
}
