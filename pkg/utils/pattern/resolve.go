// Package pattern expands asset glob patterns into regular files.
package pattern

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/m-mizutani/ghrelease/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Result holds the files matched by a set of patterns
type Result struct {
	Paths     []string // Matched regular files, deduplicated, in match order
	Unmatched []string // Patterns that matched no regular file
}

// Resolve expands patterns into existing regular files. Patterns support
// "**" for any directory depth. An invalid pattern fails the whole call
// before any pattern is expanded. Empty patterns are ignored.
func Resolve(patterns []string) (*Result, error) {
	var cleaned []string
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !doublestar.ValidatePathPattern(p) {
			return nil, goerr.New("invalid glob pattern",
				goerr.V("pattern", p),
				goerr.T(types.ErrTagConfig),
			)
		}
		cleaned = append(cleaned, p)
	}

	result := &Result{}
	seen := make(map[string]struct{})

	for _, p := range cleaned {
		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, goerr.Wrap(err, "failed to expand glob pattern",
				goerr.V("pattern", p),
				goerr.T(types.ErrTagConfig),
			)
		}

		matched := false
		for _, m := range matches {
			if !isRegularFile(m) {
				continue
			}
			matched = true

			m = filepath.Clean(m)
			key := Key(m)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			result.Paths = append(result.Paths, m)
		}

		if !matched {
			result.Unmatched = append(result.Unmatched, p)
		}
	}

	return result, nil
}

// Key returns the absolute form of path, so a relative and an absolute
// spelling of one file compare equal.
func Key(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// isRegularFile follows symlinks, so a link to a regular file counts
func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
