// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package utils

import "testing"

func TestMimeTypeFor(t *testing.T) {
	tests := []struct {
		name string
		mime string
		ok   bool
	}{
		{"/media/photo.jpg", "image/jpeg", true},
		{"PHOTO.JPEG", "image/jpeg", true},
		{"clip.mpe", "video/mpeg", true},
		{"playlist.smi", "application/smil", true},
		{"app.apk", "application/vnd.android.package-archive", true},
		{"archive.tar.gz", "", false},
		{"README", "", false},
		{"dir.v2/notes", "", false},
	}

	for _, tt := range tests {
		mime, ok := MimeTypeFor(tt.name)
		if mime != tt.mime || ok != tt.ok {
			t.Errorf("MimeTypeFor(%q) = %q, %v; want %q, %v", tt.name, mime, ok, tt.mime, tt.ok)
		}
	}
}

func TestNewBoundaryIsUnique(t *testing.T) {
	a, b := NewBoundary(), NewBoundary()
	if a == b {
		t.Fatalf("expected distinct boundaries, got %q twice", a)
	}
	if len(a) != len("iadea")+32 {
		t.Fatalf("unexpected boundary length %d: %q", len(a), a)
	}
}
