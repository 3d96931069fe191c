package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxNameLength bounds network names accepted from users.
const maxNameLength = 128

// ValidateNetworkName checks a user-supplied network name.
// Names show up in logs, cache keys and file names, so they are kept to
// printable characters without path separators.
func ValidateNetworkName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "network name cannot be empty")
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "network name too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "network name contains control characters")
		}
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return New(ErrCodeInvalidName, "network name cannot contain path components")
	}
	return nil
}

// ValidateOutputPath checks that path names a file with one of the allowed
// extensions. An empty allowed list accepts any extension.
func ValidateOutputPath(path string, allowed ...string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "output path cannot be empty")
	}
	if strings.ContainsRune(path, 0) {
		return New(ErrCodeInvalidInput, "output path contains null byte")
	}
	if len(allowed) == 0 {
		return nil
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, a := range allowed {
		if ext == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported output extension %q (want one of: %s)", ext, strings.Join(allowed, ", "))
}
