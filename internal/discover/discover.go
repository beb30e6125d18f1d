// Package discover enumerates extracted ROI time-series files and parses the
// identifying fields encoded in their names.
package discover

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
)

// Time-series files follow a fixed template: <mask>_sub-<subject>_run-<run>.txt,
// e.g. striatum_sub-07_run-2.txt.
var fileNamePattern = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9]*)_sub-(\d+)_run-(\d+)\.txt$`)

// ErrNoFiles indicates that a data directory contained no time-series files
// matching the naming template.
var ErrNoFiles = errors.New("no time-series files found")

// ParseError reports a file whose name does not match the naming template.
type ParseError struct {
	Path string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("file name %q does not match template <mask>_sub-<subject>_run-<run>.txt", e.Path)
}

// Identity is the triple parsed from one time-series file name.
type Identity struct {
	Mask    string
	Path    string
	Subject int
	Run     int
}

// ParseFileName extracts (mask, subject, run) from a time-series file path.
// Only the base name is matched against the template.
func ParseFileName(path string) (Identity, error) {
	m := fileNamePattern.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return Identity{}, &ParseError{Path: path}
	}

	// The pattern guarantees digit-only capture groups.
	subject, err := strconv.Atoi(m[2])
	if err != nil {
		return Identity{}, fmt.Errorf("parsing subject from %q: %w", path, err)
	}
	run, err := strconv.Atoi(m[3])
	if err != nil {
		return Identity{}, fmt.Errorf("parsing run from %q: %w", path, err)
	}

	return Identity{Mask: m[1], Subject: subject, Run: run, Path: path}, nil
}

// Scan enumerates the time-series files in dir. Every regular .txt file must
// match the naming template; a deviating name is an error naming the path
// unless skipUnmatched is set, in which case it is returned in the second
// slice for the caller to report. Returns ErrNoFiles when nothing matches.
func Scan(dir string, skipUnmatched bool) ([]Identity, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("reading data directory: %w", err)
	}

	var found []Identity
	var unmatched []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".txt" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		id, err := ParseFileName(path)
		if err != nil {
			if skipUnmatched {
				unmatched = append(unmatched, path)
				continue
			}
			return nil, nil, err
		}
		found = append(found, id)
	}

	if len(found) == 0 {
		return nil, unmatched, fmt.Errorf("%w in %s", ErrNoFiles, dir)
	}
	return found, unmatched, nil
}
