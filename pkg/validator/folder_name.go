package validator

import (
	"regexp"
	"strings"
)

// folderNameRegexp defines the valid format for folder names: letters,
// numbers, spaces, underscores, and hyphens, 1-64 characters.
var folderNameRegexp = regexp.MustCompile(`^[\p{L}\p{N} _-]{1,64}$`)

// ValidateFolderName checks if the given name is a valid folder name.
func ValidateFolderName(name string) bool {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return false
	}
	return folderNameRegexp.MatchString(trimmed)
}

// SanitizeFolderName trims whitespace and validates the folder name.
// Returns the sanitized name and a boolean indicating if it's valid.
func SanitizeFolderName(name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", false
	}
	if !folderNameRegexp.MatchString(trimmed) {
		return trimmed, false
	}
	return trimmed, true
}
