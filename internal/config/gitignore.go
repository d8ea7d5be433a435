package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// cacheDirName is the estimate cache under a loadcalc directory.
const cacheDirName = "cache"

// ignoredEntries are the patterns kept out of version control in a
// project-local .loadcalc/ directory. Config and project files stay tracked.
var ignoredEntries = []string{cacheDirName + "/", "*.tmp", "*.log"}

// GitignoreContent returns the .gitignore written into project-local
// .loadcalc/ directories.
func GitignoreContent() string {
	var b strings.Builder
	b.WriteString("# loadcalc project-local data (auto-generated)\n")
	for _, entry := range ignoredEntries {
		b.WriteString(entry)
		b.WriteByte('\n')
	}
	return b.String()
}

// EnsureGitignore writes GitignoreContent to dir/.gitignore, creating dir as
// needed. An existing file is left alone. It reports whether a file was
// written.
func EnsureGitignore(dir string) (bool, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return false, fmt.Errorf("creating directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, ".gitignore")
	//nolint:gosec // .gitignore must be world-readable.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err = f.WriteString(GitignoreContent()); err != nil {
		_ = f.Close()
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, f.Close()
}
