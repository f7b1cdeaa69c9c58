package suggestion

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"musicagent/internal/errs"
	"musicagent/internal/paths"

	"gopkg.in/yaml.v3"
)

// Format selects the on-disk encoding of a suggestions report.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the supported artifact formats.
var Formats = []Format{FormatJSON, FormatYAML}

// ParseFormat converts a config or flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: unsupported suggestions format %q, valid formats: %v", errs.ErrConfig, s, Formats)
}

// Suffix is appended to the source stem to name the artifact.
func (f Format) Suffix() string {
	if f == FormatYAML {
		return ".suggestions.yaml"
	}
	return ".suggestions.json"
}

func formatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Path returns where Save writes the report for source, without creating anything.
func Path(source string, format Format) string {
	return filepath.Join(paths.SiblingDir(source, paths.SuggestionsDir), paths.Stem(source)+format.Suffix())
}

// Save writes the report next to its source file (see paths.SiblingDir) and
// returns the artifact path. An existing artifact for the same source is
// overwritten.
func Save(r *Report, format Format) (string, error) {
	if _, err := paths.EnsureSiblingDir(r.FilePath, paths.SuggestionsDir); err != nil {
		return "", err
	}

	data, err := encode(r, format)
	if err != nil {
		return "", fmt.Errorf("%w: failed to serialize suggestions: %w", errs.ErrMetadataParse, err)
	}

	path := Path(r.FilePath, format)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("%w: failed to write suggestions file: %w", errs.ErrFileAccess, err)
	}
	return path, nil
}

// Load reads a report written by Save. The decoder is chosen by extension.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read suggestions file %s: %w", errs.ErrFileAccess, path, err)
	}

	r, err := decode(data, formatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse suggestions file %s: %w", errs.ErrMetadataParse, path, err)
	}
	return r, nil
}

func encode(r *Report, format Format) ([]byte, error) {
	if format == FormatYAML {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func decode(data []byte, format Format) (*Report, error) {
	var r Report
	var err error
	if format == FormatYAML {
		err = yaml.Unmarshal(data, &r)
	} else {
		err = json.Unmarshal(data, &r)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}
