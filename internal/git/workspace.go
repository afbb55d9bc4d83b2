package git

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/elliotbe/gitinit/internal/errors"
)

// GitignoreFile is the ignore file written in the working directory.
const GitignoreFile = ".gitignore"

// IsRepository reports whether dir already contains a .git entry.
func IsRepository(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// ListDir returns the entry names of dir, sorted, with directories
// suffixed by a slash ("node_modules/").
func ListDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrWorkspace,
			"Couldn't list "+dir, "Check the directory exists and is readable")
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// AppendGitignore adds entries to dir/.gitignore, one per line, creating
// the file when missing. Empty entries are skipped.
func AppendGitignore(dir string, entries []string) error {
	var b strings.Builder
	for _, e := range entries {
		if strings.TrimSpace(e) == "" {
			continue
		}
		b.WriteString(e)
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return nil
	}

	path := filepath.Join(dir, GitignoreFile)
	prefix := ""
	if existing, err := os.ReadFile(path); err == nil && len(existing) > 0 && existing[len(existing)-1] != '\n' {
		prefix = "\n"
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrWorkspace,
			"Couldn't open .gitignore", "Check the directory is writable")
	}
	defer f.Close()

	if _, err := f.WriteString(prefix + b.String()); err != nil {
		return errors.WrapWithCode(err, errors.ErrWorkspace,
			"Couldn't write .gitignore", "Check there is space left on the disk")
	}
	return nil
}
