// Package tagcodec reads and writes embedded audio tags as metadata.Track values.
package tagcodec

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"musicagent/internal/errs"
	"musicagent/internal/metadata"
)

// Backend names accepted by New.
const (
	BackendTaglib = "taglib"
	BackendNative = "native"
)

// Backends lists the available codec backends.
var Backends = []string{BackendTaglib, BackendNative}

// Codec reads tags from an audio file and writes tags to one.
//
// Write only sets the fields that are present in track; absent fields keep
// whatever the file already has. Callers must never pass the original source
// file to Write.
type Codec interface {
	Name() string
	Read(path string) (metadata.Track, error)
	Write(path string, track metadata.Track) error
}

// New returns the codec backend called name. An empty name selects taglib.
func New(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendTaglib:
		return Taglib{}, nil
	case BackendNative:
		return Native{}, nil
	}
	return nil, fmt.Errorf("%w: unknown tag codec %q, valid codecs: %v", errs.ErrConfig, name, Backends)
}

// checkSource verifies that path exists and has a supported extension.
func checkSource(path string, supported func(string) bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: file not found: %s: %w", errs.ErrFileAccess, path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: not a file: %s", errs.ErrFileAccess, path)
	}
	if !supported(path) {
		return fmt.Errorf("%w: unsupported audio file: %s", errs.ErrFileAccess, path)
	}
	return nil
}

func isMP3(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".mp3")
}

// optionalString returns nil for blank values. Invalid UTF-8 is replaced so
// the value survives a JSON save and load unchanged.
func optionalString(value string) *string {
	value = strings.TrimSpace(strings.ToValidUTF8(value, "\uFFFD"))
	if value == "" {
		return nil
	}
	return &value
}

// parseYear accepts "1970" as well as dates such as "1970-11-01".
func parseYear(value string) *int {
	value = strings.TrimSpace(value)
	if len(value) > 4 && (value[4] == '-' || value[4] == 'T') {
		value = value[:4]
	}
	year, err := strconv.Atoi(value)
	if err != nil || year == 0 {
		return nil
	}
	return &year
}

// parseTrackNumber accepts "2" as well as "2/12".
func parseTrackNumber(value string) *uint32 {
	value = strings.TrimSpace(value)
	if i := strings.Index(value, "/"); i >= 0 {
		value = value[:i]
	}
	n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 32)
	if err != nil || n == 0 {
		return nil
	}
	track := uint32(n)
	return &track
}
