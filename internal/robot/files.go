package robot

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Files returns the .robot suite files under root, which may be a
// single suite file or a directory tree.  Unreadable paths are
// silently skipped.
func Files(root string) []string {
	if strings.HasSuffix(root, ".robot") {
		if info, err := os.Stat(root); err == nil && !info.IsDir() {
			return []string{root}
		}
		return nil
	}

	var files []string
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip what we cannot read.
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".robot") {
			files = append(files, p)
		}
		return nil
	})
	return files
}
