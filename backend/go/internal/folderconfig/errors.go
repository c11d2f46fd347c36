package folderconfig

import "fmt"

// ErrorKind classifies a ValidationError.
type ErrorKind string

const (
	OutOfRange      ErrorKind = "out_of_range"
	EmptyOptions    ErrorKind = "empty_options"
	DuplicateKey    ErrorKind = "duplicate_key"
	EmptyKey        ErrorKind = "empty_key"
	InvalidType     ErrorKind = "invalid_type"
	InvalidName     ErrorKind = "invalid_name"
	InvalidMetadata ErrorKind = "invalid_metadata"
	SchemaMismatch  ErrorKind = "schema_mismatch"
)

// ValidationError is returned for rejected user input. Field names the
// offending form field (a metadata key, "name", "chunkSize", ...).
type ValidationError struct {
	Kind    ErrorKind
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newError(kind ErrorKind, field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Message: fmt.Sprintf(format, args...)}
}
