package folderconfig

import "VectorConsole/backend/go/internal/models"

// ValidateSchema turns editor rows into a MetadataConfig.
//
// The first select field (in list order) without options is reported as
// EmptyOptions. After that, keys must be non-empty and unique (case-sensitive)
// and every type must be known.
func ValidateSchema(fields []MetadataField) (models.MetadataConfig, error) {
	for _, f := range fields {
		if f.Type == models.FieldSelect && len(f.Options) == 0 {
			return nil, newError(EmptyOptions, f.Key, "field %q must have at least one option", f.Key)
		}
	}

	seen := make(map[string]struct{}, len(fields))
	for i, f := range fields {
		if f.Key == "" {
			return nil, newError(EmptyKey, "", "metadata field #%d has an empty key", i+1)
		}
		if _, dup := seen[f.Key]; dup {
			return nil, newError(DuplicateKey, f.Key, "metadata key %q is used more than once", f.Key)
		}
		seen[f.Key] = struct{}{}
		if !f.Type.Valid() {
			return nil, newError(InvalidType, f.Key, "unsupported field type %q", f.Type)
		}
	}

	config := make(models.MetadataConfig, len(fields))
	for _, f := range fields {
		config[f.Key] = specOf(f)
	}
	return config, nil
}

// CheckSchema validates an already persistable schema, as received by the
// store from any caller. Keys in params are checked first, then params and
// config must describe the same keys.
func CheckSchema(params []string, config models.MetadataConfig) error {
	seen := make(map[string]struct{}, len(params))
	for i, key := range params {
		if key == "" {
			return newError(EmptyKey, "", "metadata field #%d has an empty key", i+1)
		}
		if _, dup := seen[key]; dup {
			return newError(DuplicateKey, key, "metadata key %q is used more than once", key)
		}
		seen[key] = struct{}{}
	}
	if len(params) != len(config) {
		return newError(SchemaMismatch, "metadataParams", "metadataParams lists %d keys but metadataConfig has %d", len(params), len(config))
	}
	fields := make([]MetadataField, 0, len(params))
	for _, key := range params {
		spec, ok := config[key]
		if !ok {
			return newError(SchemaMismatch, key, "metadata key %q has no field definition", key)
		}
		fields = append(fields, MetadataField{Key: key, Type: spec.Type, Options: spec.Options, Required: spec.Required})
	}
	_, err := ValidateSchema(fields)
	return err
}

func specOf(f MetadataField) models.FieldSpec {
	spec := models.FieldSpec{Type: f.Type, Required: f.Required}
	if f.Type == models.FieldSelect {
		spec.Options = append([]string{}, f.Options...)
	}
	return spec
}
