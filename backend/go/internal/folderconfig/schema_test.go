package folderconfig

import (
	"errors"
	"reflect"
	"testing"

	"VectorConsole/backend/go/internal/models"
)

func kindOf(t *testing.T, err error) ErrorKind {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	return verr.Kind
}

func TestValidateSchema_EmptyOptions(t *testing.T) {
	fields := []MetadataField{{Key: "category", Type: models.FieldSelect, Options: []string{}, Required: true}}
	_, err := ValidateSchema(fields)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Kind != EmptyOptions || verr.Field != "category" {
		t.Errorf("expected EmptyOptions(category), got %s(%s)", verr.Kind, verr.Field)
	}
}

func TestValidateSchema_Success(t *testing.T) {
	fields := []MetadataField{{Key: "category", Type: models.FieldSelect, Options: []string{"A"}, Required: true}}
	config, err := ValidateSchema(fields)
	if err != nil {
		t.Fatalf("ValidateSchema() error = %v", err)
	}
	want := models.MetadataConfig{"category": {Type: models.FieldSelect, Options: []string{"A"}, Required: true}}
	if !reflect.DeepEqual(config, want) {
		t.Errorf("got %#v, want %#v", config, want)
	}
}

func TestValidateSchema_ReportsFirstEmptySelectInOrder(t *testing.T) {
	fields := []MetadataField{
		{Key: "author", Type: models.FieldText},
		{Key: "region", Type: models.FieldSelect},
		{Key: "category", Type: models.FieldSelect},
	}
	_, err := ValidateSchema(fields)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "region" {
		t.Fatalf("expected EmptyOptions(region), got %v", err)
	}
}

func TestValidateSchema_KeyChecks(t *testing.T) {
	tests := []struct {
		name   string
		fields []MetadataField
		want   ErrorKind
	}{
		{"empty key", []MetadataField{{Key: "", Type: models.FieldText}}, EmptyKey},
		{"duplicate key", []MetadataField{{Key: "a", Type: models.FieldText}, {Key: "a", Type: models.FieldDate}}, DuplicateKey},
		{"unknown type", []MetadataField{{Key: "a", Type: "bool"}}, InvalidType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateSchema(tt.fields)
			if got := kindOf(t, err); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestValidateSchema_KeysAreCaseSensitive(t *testing.T) {
	fields := []MetadataField{{Key: "Region", Type: models.FieldText}, {Key: "region", Type: models.FieldText}}
	if _, err := ValidateSchema(fields); err != nil {
		t.Fatalf("expected keys differing by case to be accepted, got %v", err)
	}
}

func TestAddField_Defaults(t *testing.T) {
	fields := AddField(nil, "")
	fields = AddField(fields, "")
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	for _, f := range fields {
		if f.Key != "" || f.Type != models.FieldSelect || len(f.Options) != 0 || !f.Required {
			t.Errorf("unexpected new field %+v", f)
		}
	}
}

func TestFieldEditing_CopyOnWrite(t *testing.T) {
	key := "category"
	original := AddField(nil, models.FieldSelect)
	edited := UpdateField(original, 0, FieldPatch{Key: &key})
	edited = AddOption(edited, 0)
	edited = UpdateOption(edited, 0, 0, "A")
	edited = AddOption(edited, 0)
	edited = UpdateOption(edited, 0, 1, "B")
	edited = RemoveOption(edited, 0, 0)

	if original[0].Key != "" || len(original[0].Options) != 0 {
		t.Errorf("original mutated: %+v", original[0])
	}
	if edited[0].Key != "category" || !reflect.DeepEqual(edited[0].Options, []string{"B"}) {
		t.Errorf("unexpected edited field %+v", edited[0])
	}
	if got := RemoveField(edited, 0); len(got) != 0 {
		t.Errorf("expected field removed, got %+v", got)
	}
	if got := RemoveField(edited, 5); len(got) != 1 {
		t.Errorf("out of range remove must be a no-op")
	}
}

func TestToPersistable(t *testing.T) {
	fields := []MetadataField{
		{Key: "region", Type: models.FieldSelect, Options: []string{"EU", "US"}, Required: true},
		{Key: "author", Type: models.FieldText, Options: []string{"stale"}, Required: false},
		{Key: "published", Type: models.FieldDate, Required: true},
	}
	p := ToPersistable("Reports", 1000, 200, fields)
	if !reflect.DeepEqual(p.MetadataParams, []string{"region", "author", "published"}) {
		t.Errorf("params out of order: %v", p.MetadataParams)
	}
	if p.MetadataConfig["author"].Options != nil {
		t.Errorf("non-select field must not carry options: %+v", p.MetadataConfig["author"])
	}
	if !reflect.DeepEqual(p.MetadataConfig["region"].Options, []string{"EU", "US"}) {
		t.Errorf("select options lost: %+v", p.MetadataConfig["region"])
	}
	if p.ChunkSize != 1000 || p.ChunkOverlap != 200 || p.Name != "Reports" {
		t.Errorf("unexpected payload %+v", p)
	}
}

func TestBuildFolder(t *testing.T) {
	p, err := BuildFolder(FolderInput{
		ProjectID:    "p1",
		Name:         " Contracts ",
		ChunkSize:    1000,
		ChunkOverlap: 900,
		Fields:       []MetadataField{{Key: "category", Type: models.FieldSelect, Options: []string{"A"}, Required: true}},
	})
	if err != nil {
		t.Fatalf("BuildFolder() error = %v", err)
	}
	if p.ProjectID != "p1" || p.Name != "Contracts" || p.ChunkOverlap != 500 {
		t.Errorf("unexpected payload %+v", p)
	}
	if err := CheckPayload(p); err != nil {
		t.Errorf("built payload must pass the strict check, got %v", err)
	}

	_, err = BuildFolder(FolderInput{Name: "ab"})
	if kindOf(t, err) != InvalidName {
		t.Errorf("expected InvalidName")
	}
}

func TestCheckSchema_ParamsOutOfSync(t *testing.T) {
	text := models.FieldSpec{Type: models.FieldText}
	tests := []struct {
		name   string
		params []string
		config models.MetadataConfig
		want   ErrorKind
	}{
		{"more params than config", []string{"a", "b"}, models.MetadataConfig{"a": text}, SchemaMismatch},
		{"key without definition", []string{"b"}, models.MetadataConfig{"a": text}, SchemaMismatch},
		{"duplicate param", []string{"a", "a"}, models.MetadataConfig{"a": text}, DuplicateKey},
		{"empty param", []string{""}, models.MetadataConfig{"a": text}, EmptyKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSchema(tt.params, tt.config)
			if got := kindOf(t, err); got != tt.want {
				t.Errorf("CheckSchema(%v) kind = %s, want %s", tt.params, got, tt.want)
			}
		})
	}

	if err := CheckSchema([]string{"a"}, models.MetadataConfig{"a": text}); err != nil {
		t.Errorf("CheckSchema() on a consistent schema error = %v", err)
	}
}

func TestFieldsFromFolder(t *testing.T) {
	f := &models.Folder{
		MetadataParams: []string{"b", "a"},
		MetadataConfig: models.MetadataConfig{
			"a": {Type: models.FieldText, Required: true},
			"b": {Type: models.FieldSelect, Options: []string{"x"}},
		},
	}
	fields := FieldsFromFolder(f)
	if len(fields) != 2 || fields[0].Key != "b" || fields[1].Key != "a" {
		t.Fatalf("unexpected fields %+v", fields)
	}
	if _, err := ValidateSchema(fields); err != nil {
		t.Errorf("round trip schema must validate: %v", err)
	}
}

func TestNormalizePayload(t *testing.T) {
	p := NormalizePayload(models.CreateFolderPayload{Name: "Reports"})
	if p.ChunkSize != DefaultChunkSize || p.ChunkOverlap != DefaultChunkOverlap || p.MetadataParams == nil {
		t.Errorf("expected defaults, got %+v", p)
	}
	p = NormalizePayload(models.CreateFolderPayload{Name: "Reports", ChunkSize: 1000, ChunkOverlap: 600})
	if p.ChunkOverlap != 500 {
		t.Errorf("expected overlap clamped to 500, got %d", p.ChunkOverlap)
	}
}
