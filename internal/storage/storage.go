// Package storage is the persistence adapter between the editor and the
// filesystem.
package storage

import (
	"os"
	"path/filepath"
	"strings"
)

// Store loads and saves whole-file text. Load reports a missing file with an
// error satisfying errors.Is(err, fs.ErrNotExist); save failures are passed
// through untouched.
type Store interface {
	Load(path string) ([]string, error)
	Save(path, text string) error
}

// Disk reads and writes UTF-8 files on the local filesystem. A leading ~ in
// a path is expanded to the user's home directory.
type Disk struct{}

// Load reads path and splits it into lines. Windows line endings are
// normalized; terminators separate lines rather than ending them, so a
// terminated file keeps its final empty line and Save writes the same bytes
// back. An empty file is a single empty line.
func (Disk) Load(path string) ([]string, error) {
	data, err := os.ReadFile(expandHome(path))
	if err != nil {
		return nil, err
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.Split(text, "\n"), nil
}

// Save writes text as the whole file content, creating missing parent
// directories. The caller joins lines with single line breaks and no
// trailing terminator.
func (Disk) Save(path, text string) error {
	path = expandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(text), 0o644)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
