// Package paths derives where artifacts for a source audio file are written.
//
// A library is expected to look like
//
//	public/
//	  originals/   source files, never modified
//	  suggestions/ suggestion reports
//	  updated/     edited copies
//
// but any other layout works: artifacts then land in subdirectories next to
// the source file.
package paths

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"musicagent/internal/errs"
)

const (
	SuggestionsDir = "suggestions"
	UpdatedDir     = "updated"

	// DefaultRoot is used when the source path has no directory component.
	DefaultRoot = "public"

	originalsDir     = "originals"
	defaultExtension = ".mp3"
)

// SiblingDir returns the directory named leaf that belongs to source:
//   - source in ".../originals/": "<parent of originals>/<leaf>"
//   - source in ".../public/": "public/<leaf>"
//   - source in any other directory: "<that directory>/<leaf>"
//   - bare file name: "public/<leaf>"
func SiblingDir(source, leaf string) string {
	if !strings.ContainsRune(source, filepath.Separator) && !strings.ContainsRune(source, '/') {
		return filepath.Join(DefaultRoot, leaf)
	}

	parent := filepath.Dir(source)
	if filepath.Base(parent) == originalsDir {
		return filepath.Join(filepath.Dir(parent), leaf)
	}
	// "public" and every other parent share the same rule.
	return filepath.Join(parent, leaf)
}

// EnsureSiblingDir is SiblingDir followed by creating the directory.
func EnsureSiblingDir(source, leaf string) (string, error) {
	dir := SiblingDir(source, leaf)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("%w: failed to create %s directory: %w", errs.ErrFileAccess, leaf, err)
	}
	return dir, nil
}

// Stem returns the base name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// AllocateOutput returns a path in the "updated" sibling directory for an
// edited copy of source. If "<stem><ext>" is taken it tries "<stem>-1<ext>",
// "<stem>-2<ext>" and so on. The returned path never exists at the time of
// the call. Only the directory is created; no file is written.
func AllocateOutput(source string) (string, error) {
	dir, err := EnsureSiblingDir(source, UpdatedDir)
	if err != nil {
		return "", err
	}

	stem := Stem(source)
	ext := strings.ToLower(filepath.Ext(source))
	if ext == "" {
		ext = defaultExtension
	}

	candidate := filepath.Join(dir, stem+ext)
	for n := 1; ; n++ {
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, n, ext))
	}
}

func exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("%w: failed to check %s: %w", errs.ErrFileAccess, path, err)
}
