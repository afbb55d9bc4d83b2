package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandTilde replaces a leading ~ or ~/ with the user's home directory.
// ~username is left alone.
func ExpandTilde(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
}
