package fixture

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ExpandGlob expands pattern to the matching file paths, sorted.
// "**" matches any number of directories.
func ExpandGlob(pattern string) ([]string, error) {
	var (
		matches []string
		err     error
	)
	if strings.Contains(pattern, "**") {
		matches, err = doublestar.FilepathGlob(pattern)
	} else {
		matches, err = filepath.Glob(pattern)
	}
	if err != nil {
		return nil, fmt.Errorf("expand glob %q: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}
