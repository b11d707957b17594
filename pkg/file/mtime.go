package file

import (
	"fmt"
	"os"
)

// StatFunc looks up the modification time of path in whole seconds since the Unix epoch.
type StatFunc func(path string) (int64, error)

// ModTimeUnix stats path, following symlinks, and returns its mtime in seconds.
func ModTimeUnix(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat %q: %w", path, err)
	}
	return info.ModTime().Unix(), nil
}
