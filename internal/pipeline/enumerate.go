package pipeline

import (
	"os"
	"path/filepath"

	"github.com/itsdinok/rekordscratch/internal/tags"
)

// Enumerate walks root recursively and returns every regular file with an
// mp3 extension, in walk order. Unreadable entries are skipped.
func Enumerate(root string) []string {
	var files []string
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		// Skip any walk errors - intentionally continuing to scan other paths
		if walkErr != nil {
			return nil //nolint:nilerr // intentionally skipping errors
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !tags.IsMP3(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files
}
