package folderconfig

import (
	"strings"
	"unicode/utf8"
)

const (
	MinNameLength   = 3
	MaxNameLength   = 255
	MinAPIKeyLength = 10
)

// ValidateName trims a project or folder name and checks its length.
// field is reported back in the error ("name" for both forms).
func ValidateName(field, name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	switch {
	case n == 0:
		return "", newError(InvalidName, field, "name is required")
	case n < MinNameLength:
		return "", newError(InvalidName, field, "name must be at least %d characters", MinNameLength)
	case n > MaxNameLength:
		return "", newError(InvalidName, field, "name must be at most %d characters", MaxNameLength)
	}
	return name, nil
}

// ValidateAPIKey performs the shape check done before any remote validation call.
func ValidateAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return newError(InvalidName, "apiKey", "API key is required")
	}
	if len(key) < MinAPIKeyLength {
		return newError(InvalidName, "apiKey", "API key should be at least %d characters", MinAPIKeyLength)
	}
	return nil
}
