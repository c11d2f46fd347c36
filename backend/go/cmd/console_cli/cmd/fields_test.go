package cmd

import (
	"errors"
	"reflect"
	"testing"

	"VectorConsole/backend/go/internal/folderconfig"
	"VectorConsole/backend/go/internal/models"
)

func TestParseField(t *testing.T) {
	tests := []struct {
		spec     string
		required bool
		want     folderconfig.MetadataField
	}{
		{"author:text", true, folderconfig.MetadataField{Key: "author", Type: models.FieldText, Options: []string{}, Required: true}},
		{"category:Select:legal, finance", false, folderconfig.MetadataField{Key: "category", Type: models.FieldSelect, Options: []string{"legal", "finance"}}},
		{"when:date:", true, folderconfig.MetadataField{Key: "when", Type: models.FieldDate, Options: []string{""}, Required: true}},
	}
	for _, tt := range tests {
		got, err := parseField(tt.spec, tt.required)
		if err != nil {
			t.Fatalf("parseField(%q) error = %v", tt.spec, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseField(%q) = %+v, want %+v", tt.spec, got, tt.want)
		}
	}

	if _, err := parseField("justakey", true); err == nil {
		t.Errorf("expected error for missing type")
	}
}

func TestParseFieldsThenBuildFolder(t *testing.T) {
	fields, err := parseFields([]string{"category:select:A"}, []string{"notes:text"})
	if err != nil {
		t.Fatalf("parseFields() error = %v", err)
	}
	payload, err := folderconfig.BuildFolder(folderconfig.FolderInput{Name: "Contracts", ChunkSize: 1000, ChunkOverlap: 200, Fields: fields})
	if err != nil {
		t.Fatalf("BuildFolder() error = %v", err)
	}
	if !reflect.DeepEqual(payload.MetadataParams, []string{"category", "notes"}) {
		t.Errorf("required fields should come first, got %v", payload.MetadataParams)
	}
	if !payload.MetadataConfig["category"].Required || payload.MetadataConfig["notes"].Required {
		t.Errorf("unexpected required flags %+v", payload.MetadataConfig)
	}

	fields, _ = parseFields([]string{"category:select"}, nil)
	_, err = folderconfig.BuildFolder(folderconfig.FolderInput{Name: "Contracts", ChunkSize: 1000, Fields: fields})
	var verr *folderconfig.ValidationError
	if !errors.As(err, &verr) || verr.Kind != folderconfig.EmptyOptions || verr.Field != "category" {
		t.Errorf("expected EmptyOptions(category), got %v", err)
	}
}

func TestParseMetadata(t *testing.T) {
	got, err := parseMetadata([]string{"year=2024", "title=a=b"})
	if err != nil {
		t.Fatalf("parseMetadata() error = %v", err)
	}
	if got["year"] != "2024" || got["title"] != "a=b" {
		t.Errorf("unexpected metadata %v", got)
	}
	if m, _ := parseMetadata(nil); m != nil {
		t.Errorf("expected nil for no pairs")
	}
	if _, err := parseMetadata([]string{"=x"}); err == nil {
		t.Errorf("expected error for empty key")
	}
}

func TestDescribe(t *testing.T) {
	err := &models.TransportError{Op: "GET /projects", Err: errors.New("connection refused")}
	if got := describe(err); got != "the console API is unavailable, please retry (GET /projects: connection refused)" {
		t.Errorf("describe() = %q", got)
	}
	verr := &folderconfig.ValidationError{Kind: folderconfig.InvalidName, Field: "name", Message: "name must be at least 3 characters"}
	if got := describe(verr); got != "invalid name: name must be at least 3 characters" {
		t.Errorf("describe() = %q", got)
	}
}
