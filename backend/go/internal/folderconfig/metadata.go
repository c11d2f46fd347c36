package folderconfig

import (
	"strconv"
	"strings"
	"time"

	"VectorConsole/backend/go/internal/models"
)

// ValidateDocumentMetadata checks the metadata attached to an upload against
// the folder schema and returns the trimmed values. Keys are checked in params
// order so the first offending field is reported deterministically.
func ValidateDocumentMetadata(params []string, config models.MetadataConfig, metadata map[string]string) (map[string]string, error) {
	for key := range metadata {
		if _, ok := config[key]; !ok {
			return nil, newError(InvalidMetadata, key, "unknown metadata field %q", key)
		}
	}

	out := make(map[string]string, len(metadata))
	for _, key := range params {
		spec := config[key]
		value := strings.TrimSpace(metadata[key])
		if value == "" {
			if spec.Required {
				return nil, newError(InvalidMetadata, key, "field %q is required", key)
			}
			continue
		}
		if err := checkValue(key, spec, value); err != nil {
			return nil, err
		}
		out[key] = value
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func checkValue(key string, spec models.FieldSpec, value string) error {
	switch spec.Type {
	case models.FieldNumber:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return newError(InvalidMetadata, key, "field %q must be a number", key)
		}
	case models.FieldDate:
		if _, err := time.Parse("2006-01-02", value); err == nil {
			return nil
		}
		if _, err := time.Parse(time.RFC3339, value); err != nil {
			return newError(InvalidMetadata, key, "field %q must be a date (YYYY-MM-DD)", key)
		}
	case models.FieldSelect:
		for _, opt := range spec.Options {
			if opt == value {
				return nil
			}
		}
		return newError(InvalidMetadata, key, "%q is not an option of field %q", value, key)
	}
	return nil
}
