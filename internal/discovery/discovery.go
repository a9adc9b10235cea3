// Package discovery finds analyzable video files on disk.
package discovery

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mpearce/vidvet/internal/errors"
	"github.com/mpearce/vidvet/internal/logging"
	"github.com/mpearce/vidvet/internal/util"
)

// FindVideoFiles finds video files in the given directory.
// Returns files sorted alphabetically by filename.
func FindVideoFiles(inputDir string) ([]string, error) {
	info, err := os.Stat(inputDir)
	if err != nil {
		return nil, errors.NewPathError("directory does not exist: " + inputDir)
	}
	if !info.IsDir() {
		return nil, errors.NewPathError(inputDir + " is not a directory")
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, errors.NewIOError("cannot read directory "+inputDir, err)
	}

	var files []string
	skipped := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()

		// Skip hidden files
		if strings.HasPrefix(name, ".") {
			continue
		}

		fullPath := filepath.Join(inputDir, name)
		if util.IsVideoFile(fullPath) {
			files = append(files, fullPath)
		} else {
			skipped++
		}
	}

	if len(files) == 0 {
		return nil, errors.NewNoFilesFoundError(inputDir)
	}

	sort.Slice(files, func(i, j int) bool {
		return strings.ToLower(filepath.Base(files[i])) < strings.ToLower(filepath.Base(files[j]))
	})

	logging.Debug("discovered video files", "count", len(files), "skipped", skipped)
	return files, nil
}
