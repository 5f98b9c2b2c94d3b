package bridge

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Listing failures. Callers distinguish them with errors.Is.
var (
	ErrPathNotExist = errors.New("path does not exist")
	ErrNotDirectory = errors.New("path is not a directory")
	ErrReadDir      = errors.New("failed to read directory")
)

// ListLocalDirectories returns the names of the immediate subdirectories
// of path in ascending order. Symlinks to directories count as
// directories. Entries whose metadata cannot be read are skipped.
func ListLocalDirectories(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPathNotExist, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrReadDir, path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadDir, path, err)
	}

	dirs := make([]string, 0, len(entries))
	for _, e := range entries {
		fi, err := os.Stat(filepath.Join(path, e.Name()))
		if err != nil {
			continue
		}
		if fi.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}
