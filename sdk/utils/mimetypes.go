// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"path/filepath"
	"strings"
)

// MimeTypes lists the content types the player accepts, by file extension.
var MimeTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"mp4":  "video/mp4",
	"mpe":  "video/mpeg",
	"mpeg": "video/mpeg",
	"mpg":  "video/mpeg",
	"avi":  "video/x-msvideo",
	"wmv":  "video/x-ms-wmv",
	"divx": "video/x-divx",
	"mov":  "video/quicktime",
	"smil": "application/smil",
	"smi":  "application/smil",
	"txt":  "text/plain",
	"mp3":  "audio/mpeg",
	"apk":  "application/vnd.android.package-archive",
}

// MimeTypeFor returns the MIME type for the extension of name, and false
// when the extension is unknown.
func MimeTypeFor(name string) (string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return "", false
	}
	mime, ok := MimeTypes[ext]
	return mime, ok
}
