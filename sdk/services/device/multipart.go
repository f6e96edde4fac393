// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package device

import (
	"strconv"
	"strings"
	"time"

	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/utils"
)

// isoMillis matches the player's own timestamps (UTC with milliseconds).
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

func defaultBoundary() string { return utils.NewBoundary() }

type formFields struct {
	DownloadPath string
	FileSize     int64
	MimeType     string
	ModifiedDate time.Time
}

// multipartForm is the framing around the file bytes of an upload. The
// preamble and closing are built up front so the exact Content-Length is
// known before the first byte goes out; the player does not accept chunked
// transfer encoding.
type multipartForm struct {
	boundary string
	preamble string
	closing  string
}

func newMultipartForm(boundary string, f formFields) multipartForm {
	var sb strings.Builder
	field := func(name, value string) {
		sb.WriteString("--" + boundary + "\r\n")
		sb.WriteString(`Content-Disposition: form-data; name="` + name + "\"\r\n\r\n")
		sb.WriteString(value + "\r\n")
	}
	field("downloadPath", f.DownloadPath)
	field("fileSize", strconv.FormatInt(f.FileSize, 10))
	field("mimeType", f.MimeType)
	field("modifiedDate", f.ModifiedDate.UTC().Format(isoMillis))

	sb.WriteString("--" + boundary + "\r\n")
	sb.WriteString(`Content-Disposition: form-data; name="data"; filename=""` + "\r\n")
	sb.WriteString("Content-Type: application/octet-stream\r\n\r\n")

	return multipartForm{
		boundary: boundary,
		preamble: sb.String(),
		closing:  "\r\n--" + boundary + "--",
	}
}

func (m multipartForm) ContentType() string {
	return `multipart/form-data; boundary="` + m.boundary + `"`
}

// ContentLength is counted in bytes: len of a Go string is its UTF-8 length.
func (m multipartForm) ContentLength(fileSize int64) int64 {
	return int64(len(m.preamble)) + int64(len(m.closing)) + fileSize
}
