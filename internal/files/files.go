package files

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultPatterns are the file patterns considered documents.
var DefaultPatterns = []string{"*.pdf", "*.md", "*.txt"}

// Find resolves the batch input set: an explicit file list (every entry
// must exist) or a directory scan by glob patterns, optionally recursive.
// Directory results are deduplicated and sorted.
func Find(directory string, explicit []string, patterns []string, recursive bool) ([]string, error) {
	if len(explicit) > 0 {
		found := make([]string, 0, len(explicit))
		for _, f := range explicit {
			abs, err := filepath.Abs(f)
			if err != nil {
				return nil, err
			}
			if _, err := os.Stat(abs); err != nil {
				return nil, fmt.Errorf("file not found: %s", f)
			}
			found = append(found, abs)
		}
		return found, nil
	}

	if directory == "" {
		return nil, fmt.Errorf("either files or directory must be provided")
	}

	info, err := os.Stat(directory)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("directory not found: %s", directory)
	}

	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}

	seen := make(map[string]bool)
	var found []string

	add := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return
		}
		if !seen[abs] {
			seen[abs] = true
			found = append(found, abs)
		}
	}

	if recursive {
		err = filepath.WalkDir(directory, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			for _, pattern := range patterns {
				ok, err := filepath.Match(pattern, d.Name())
				if err != nil {
					return err
				}
				if ok {
					add(path)
					break
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", directory, err)
		}
	} else {
		for _, pattern := range patterns {
			matches, err := filepath.Glob(filepath.Join(directory, pattern))
			if err != nil {
				return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
			}
			for _, m := range matches {
				add(m)
			}
		}
	}

	sort.Strings(found)
	return found, nil
}

// EnsureDir creates the output directory (and parents) if missing.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// Stem returns the file name without its extension.
func Stem(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
