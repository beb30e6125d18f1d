package discover

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseFileName(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		wantMask    string
		wantSubject int
		wantRun     int
		wantErr     bool
	}{
		{
			name:        "canonical striatum file",
			path:        "striatum_sub-07_run-2.txt",
			wantMask:    "striatum",
			wantSubject: 7,
			wantRun:     2,
		},
		{
			name:        "full path with directories",
			path:        "/data/extracted/caudate_sub-12_run-1.txt",
			wantMask:    "caudate",
			wantSubject: 12,
			wantRun:     1,
		},
		{
			name:        "unpadded subject id",
			path:        "putamen_sub-3_run-10.txt",
			wantMask:    "putamen",
			wantSubject: 3,
			wantRun:     10,
		},
		{
			name:    "missing run segment",
			path:    "striatum_sub-07.txt",
			wantErr: true,
		},
		{
			name:    "wrong extension",
			path:    "striatum_sub-07_run-2.csv",
			wantErr: true,
		},
		{
			name:    "events file is not a time series",
			path:    "sub-07_run-2_events.tsv",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseFileName(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseFileName(%q) succeeded, want error", tt.path)
				}
				var parseErr *ParseError
				if !errors.As(err, &parseErr) {
					t.Errorf("error = %v, want *ParseError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFileName(%q) error: %v", tt.path, err)
			}
			if id.Mask != tt.wantMask || id.Subject != tt.wantSubject || id.Run != tt.wantRun {
				t.Errorf("got (%s, %d, %d), want (%s, %d, %d)",
					id.Mask, id.Subject, id.Run, tt.wantMask, tt.wantSubject, tt.wantRun)
			}
		})
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		"striatum_sub-01_run-1.txt",
		"striatum_sub-01_run-2.txt",
		"striatum_sub-02_run-1.txt",
	}
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("0.0\n"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	found, unmatched, err := Scan(dir, false)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(found) != 3 {
		t.Errorf("Scan() found %d files, want 3", len(found))
	}
	if len(unmatched) != 0 {
		t.Errorf("Scan() reported %d unmatched files, want 0", len(unmatched))
	}
}

func TestScan_UnmatchedName(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "striatum_sub-01_run-1.txt")
	bad := filepath.Join(dir, "striatum_subject1.txt")
	for _, p := range []string{good, bad} {
		if err := os.WriteFile(p, []byte("0.0\n"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	// Strict mode: the deviating name is an error naming the path.
	_, _, err := Scan(dir, false)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Scan() error = %v, want *ParseError", err)
	}
	if parseErr.Path != bad {
		t.Errorf("ParseError.Path = %q, want %q", parseErr.Path, bad)
	}

	// Skip mode: the deviating name is returned for reporting.
	found, unmatched, err := Scan(dir, true)
	if err != nil {
		t.Fatalf("Scan(skip) error: %v", err)
	}
	if len(found) != 1 || len(unmatched) != 1 {
		t.Errorf("Scan(skip) = %d found, %d unmatched; want 1, 1", len(found), len(unmatched))
	}
}

func TestScan_EmptyDirectory(t *testing.T) {
	_, _, err := Scan(t.TempDir(), true)
	if !errors.Is(err, ErrNoFiles) {
		t.Errorf("Scan() error = %v, want ErrNoFiles", err)
	}
}
