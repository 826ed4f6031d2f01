// Package feed supplies raw roster text to the import pipeline and runs
// the scheduled refresh loop. Feed transport is deliberately local:
// sources read files handed over by whatever fetched them.
package feed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source produces one raw roster document per fetch.
type Source interface {
	Fetch(ctx context.Context) (text string, sourceID string, err error)
}

// FileSource reads a single roster file on every fetch.
type FileSource struct {
	Path string
}

// Fetch reads the file. The source id is the file's base name.
func (s FileSource) Fetch(_ context.Context) (string, string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return "", "", fmt.Errorf("feed: read %s: %w", s.Path, err)
	}
	return string(data), filepath.Base(s.Path), nil
}

// DirSource reads the lexically newest *.ics file in a directory, the
// convention for drop-folder style roster exports (file names carry a
// date stamp).
type DirSource struct {
	Dir string
}

// Fetch picks and reads the newest roster file.
func (s DirSource) Fetch(_ context.Context) (string, string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return "", "", fmt.Errorf("feed: read dir %s: %w", s.Dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".ics") {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return "", "", fmt.Errorf("feed: no roster files in %s", s.Dir)
	}
	sort.Strings(names)
	newest := names[len(names)-1]

	data, err := os.ReadFile(filepath.Join(s.Dir, newest))
	if err != nil {
		return "", "", fmt.Errorf("feed: read %s: %w", newest, err)
	}
	return string(data), newest, nil
}

// NewSource picks a source for a path: a directory becomes a DirSource,
// anything else a FileSource.
func NewSource(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("feed: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return DirSource{Dir: path}, nil
	}
	return FileSource{Path: path}, nil
}
