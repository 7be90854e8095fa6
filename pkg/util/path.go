package util

import (
	"path/filepath"
	"strings"
)

// SafeFilePathAllowAbsolute cleans p and reports whether it is safe to read.
// Absolute paths are allowed; relative paths must not climb above their base.
func SafeFilePathAllowAbsolute(p string) (string, bool) {
	if p == "" {
		return "", false
	}
	if strings.Contains(p, `\`) && strings.Contains(p, "..") {
		return "", false
	}

	cleaned := filepath.Clean(p)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", false
	}
	return cleaned, true
}
