package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome expands a leading "~/" (or "~\" on Windows-style paths) to the
// current user's home directory. Paths without the prefix are returned
// unchanged, as is everything when the home directory cannot be resolved.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
