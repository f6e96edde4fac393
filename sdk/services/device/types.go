// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package device

import "encoding/json"

// FileRecord is the metadata the player keeps for a stored content file.
type FileRecord struct {
	ID              string `json:"id"`
	ETag            string `json:"etag,omitempty"`
	DownloadPath    string `json:"downloadPath"`
	CreatedDate     string `json:"createdDate,omitempty"`
	ModifiedDate    string `json:"modifiedDate,omitempty"`
	MimeType        string `json:"mimeType"`
	FileSize        int64  `json:"fileSize"`
	TransferredSize int64  `json:"transferredSize"`
	Completed       bool   `json:"completed"`
}

type FileList struct {
	Items []FileRecord `json:"items"`
}

// Preference is one entry of a configuration set. Value is kept raw because
// the player mixes strings, numbers and booleans.
type Preference struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

// Pref builds a Preference from any JSON-encodable value.
func Pref(name string, value any) Preference {
	b, err := json.Marshal(value)
	if err != nil {
		b = []byte("null")
	}
	return Preference{Name: name, Value: b}
}

type ConfigurationSet struct {
	UserPref []Preference `json:"userPref"`
}

type ImportResult struct {
	UserPref        []Preference `json:"userPref,omitempty"`
	RestartRequired bool         `json:"restartRequired"`
	CommitID        string       `json:"commitId"`
}

type CommitResult struct {
	RestartRequired bool   `json:"restartRequired"`
	CommitID        string `json:"commitId"`
}

// AppIntent is the Android intent the player launches for play/start.
type AppIntent struct {
	URI         string `json:"uri"`
	PackageName string `json:"packageName"`
	ClassName   string `json:"className"`
	Action      string `json:"action"`
	Type        string `json:"type,omitempty"`
}

type Storage struct {
	ID          int    `json:"id"`
	FreeSpace   int64  `json:"freeSpace"`
	Capacity    int64  `json:"capacity"`
	MediaType   string `json:"mediaType"`
	StorageType string `json:"storageType"`
}

type FirmwareInfo struct {
	FirmwareVersion string `json:"firmwareVersion"`
	Family          string `json:"family"`
}

type ModelInfo struct {
	ModelDescription string   `json:"modelDescription"`
	ModelName        string   `json:"modelName"`
	ModelURL         string   `json:"modelURL"`
	Manufacturer     string   `json:"manufacturer"`
	LicenseModel     string   `json:"licenseModel"`
	PCBRevision      string   `json:"PCBRevision"`
	ManufacturerURL  string   `json:"manufacturerURL"`
	PCB              string   `json:"PCB"`
	Options          []string `json:"options"`
}

// DisplayState reports the screen state before the switch was applied.
type DisplayState struct {
	ID    int      `json:"id"`
	Power PowerBit `json:"power"`
}

type Setting struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

type SettingsRequest struct {
	Settings []Setting `json:"settings"`
}

// Progress reports an upload in flight. BytesSent never decreases.
type Progress struct {
	TotalSize int64
	BytesSent int64
	Fraction  float64
}

type ProgressFunc func(Progress)

type UploadRequest struct {
	LocalPath string
	// DownloadPath is where the player stores the file, e.g.
	// /user-data/media/test.jpg. Keep it ASCII.
	DownloadPath string
	// Progress is called on the upload goroutine after each chunk.
	Progress ProgressFunc
}

/* -------- tagged inputs -------- */

// FilterKind selects the client-side criterion for GetFileList.
type FilterKind int

const (
	FilterNone FilterKind = iota
	FilterDownloadPath
	FilterMimeType
	FilterCompleted
)

type FileFilter struct {
	Kind      FilterKind
	Substring string
	Completed bool
}

func NoFilter() FileFilter { return FileFilter{} }
func ByDownloadPath(s string) FileFilter { return FileFilter{Kind: FilterDownloadPath, Substring: s} }
func ByMimeType(s string) FileFilter { return FileFilter{Kind: FilterMimeType, Substring: s} }
func ByCompleted(completed bool) FileFilter { return FileFilter{Kind: FilterCompleted, Completed: completed} }

// FileRef names a stored file either by id or by a record the device returned.
type FileRef struct {
	id     string
	record *FileRecord
}

func FileID(id string) FileRef { return FileRef{id: id} }

func Record(r FileRecord) FileRef { return FileRef{record: &r} }

// Refs turns a listing into delete targets, preserving order.
func Refs(list FileList) []FileRef {
	refs := make([]FileRef, 0, len(list.Items))
	for _, it := range list.Items {
		refs = append(refs, Record(it))
	}
	return refs
}

func (r FileRef) ID() string {
	if r.record != nil {
		return r.record.ID
	}
	return r.id
}

// ContentRef is a playable location: a downloadPath on the player, a
// record, or an external http(s) URL.
type ContentRef struct {
	path   string
	record *FileRecord
}

func ContentPath(p string) ContentRef { return ContentRef{path: p} }

func ContentRecord(r FileRecord) ContentRef { return ContentRef{record: &r} }

func (c ContentRef) DownloadPath() string {
	if c.record != nil {
		return c.record.DownloadPath
	}
	return c.path
}

// StartTarget is either content to wrap in the default player intent or a
// fully specified intent.
type StartTarget struct {
	content ContentRef
	intent  *AppIntent
}

func StartContent(c ContentRef) StartTarget { return StartTarget{content: c} }

func StartIntent(i AppIntent) StartTarget { return StartTarget{intent: &i} }

// ConfigInput is one of the three configuration shapes the player accepts
// on import: a single preference, a list, or a wrapped set.
type ConfigInput struct {
	set ConfigurationSet
}

func SinglePreference(p Preference) ConfigInput {
	return ConfigInput{set: ConfigurationSet{UserPref: []Preference{p}}}
}

func PreferenceList(prefs []Preference) ConfigInput {
	return ConfigInput{set: ConfigurationSet{UserPref: prefs}}
}

func WrappedSet(set ConfigurationSet) ConfigInput {
	return ConfigInput{set: set}
}

// Set returns the canonical {userPref:[...]} shape.
func (c ConfigInput) Set() ConfigurationSet {
	if c.set.UserPref == nil {
		return ConfigurationSet{UserPref: []Preference{}}
	}
	return c.set
}

// Color is a light bar color, either preformatted or built from channels.
type Color struct {
	hex     string
	r, g, b int
	rgb     bool
}

func ColorHex(s string) Color { return Color{hex: s} }

func RGB(r, g, b int) Color { return Color{r: r, g: g, b: b, rgb: true} }
