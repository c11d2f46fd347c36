package folderconfig

import "VectorConsole/backend/go/internal/models"

// MetadataField is one row of the metadata schema editor.
type MetadataField struct {
	Key      string           `json:"key"`
	Type     models.FieldType `json:"type"`
	Options  []string         `json:"options"`
	Required bool             `json:"required"`
}

// FieldPatch is a partial update of a MetadataField; nil members are left as is.
type FieldPatch struct {
	Key      *string
	Type     *models.FieldType
	Options  []string
	Required *bool
}

// AddField appends a blank field of the given type (select when empty).
// Keys are not checked here; blank and repeated keys are caught by ValidateSchema.
func AddField(fields []MetadataField, typ models.FieldType) []MetadataField {
	if typ == "" {
		typ = models.FieldSelect
	}
	out := cloneFields(fields)
	return append(out, MetadataField{Type: typ, Options: []string{}, Required: true})
}

// RemoveField drops the field at index i.
func RemoveField(fields []MetadataField, i int) []MetadataField {
	if i < 0 || i >= len(fields) {
		return fields
	}
	out := make([]MetadataField, 0, len(fields)-1)
	for j, f := range fields {
		if j != i {
			out = append(out, cloneField(f))
		}
	}
	return out
}

// UpdateField applies patch to the field at index i.
func UpdateField(fields []MetadataField, i int, patch FieldPatch) []MetadataField {
	if i < 0 || i >= len(fields) {
		return fields
	}
	out := cloneFields(fields)
	f := &out[i]
	if patch.Key != nil {
		f.Key = *patch.Key
	}
	if patch.Type != nil {
		f.Type = *patch.Type
	}
	if patch.Options != nil {
		f.Options = append([]string{}, patch.Options...)
	}
	if patch.Required != nil {
		f.Required = *patch.Required
	}
	return out
}

// AddOption appends an empty option to the field at index i.
func AddOption(fields []MetadataField, i int) []MetadataField {
	if i < 0 || i >= len(fields) {
		return fields
	}
	out := cloneFields(fields)
	out[i].Options = append(out[i].Options, "")
	return out
}

// UpdateOption sets option j of field i.
func UpdateOption(fields []MetadataField, i, j int, value string) []MetadataField {
	if i < 0 || i >= len(fields) || j < 0 || j >= len(fields[i].Options) {
		return fields
	}
	out := cloneFields(fields)
	out[i].Options[j] = value
	return out
}

// RemoveOption drops option j of field i.
func RemoveOption(fields []MetadataField, i, j int) []MetadataField {
	if i < 0 || i >= len(fields) || j < 0 || j >= len(fields[i].Options) {
		return fields
	}
	out := cloneFields(fields)
	opts := out[i].Options
	out[i].Options = append(opts[:j:j], opts[j+1:]...)
	return out
}

// FieldsFromFolder rebuilds the editor rows of an existing folder in
// MetadataParams order, for the settings form.
func FieldsFromFolder(f *models.Folder) []MetadataField {
	fields := make([]MetadataField, 0, len(f.MetadataParams))
	for _, key := range f.MetadataParams {
		spec, ok := f.MetadataConfig[key]
		if !ok {
			spec = models.FieldSpec{Type: models.FieldText}
		}
		fields = append(fields, MetadataField{
			Key:      key,
			Type:     spec.Type,
			Options:  append([]string{}, spec.Options...),
			Required: spec.Required,
		})
	}
	return fields
}

func cloneField(f MetadataField) MetadataField {
	f.Options = append([]string{}, f.Options...)
	return f
}

func cloneFields(fields []MetadataField) []MetadataField {
	out := make([]MetadataField, len(fields), len(fields)+1)
	for i, f := range fields {
		out[i] = cloneField(f)
	}
	return out
}
