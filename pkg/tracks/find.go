package tracks

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
)

// FindCatalogs expands a catalog path, which may be a glob pattern, into the
// regular files it names. A plain path matches itself.
func FindCatalogs(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("expanding catalog pattern %s: %w", pattern, err)
	}

	var files []string
	for _, name := range matches {
		info, err := os.Lstat(name)
		if err != nil {
			continue
		}
		if info.Mode().IsRegular() {
			files = append(files, name)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no catalog files matched %s", pattern)
	}
	return files, nil
}
