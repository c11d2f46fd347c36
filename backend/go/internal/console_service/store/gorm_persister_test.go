package store

import (
	"reflect"
	"testing"
	"time"

	"VectorConsole/backend/go/internal/models"
)

func TestFolderRowKeepsSchema(t *testing.T) {
	f := &models.Folder{
		ID:             "f1",
		Name:           "Contracts",
		ProjectID:      "p1",
		ChunkSize:      1000,
		ChunkOverlap:   200,
		MetadataParams: []string{"b", "a"},
		MetadataConfig: models.MetadataConfig{
			"a": {Type: models.FieldText},
			"b": {Type: models.FieldSelect, Options: []string{"x", "y"}, Required: true},
		},
		CreatedAt:     time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		DocumentCount: 4,
	}
	got := folderRowOf(f).model()
	if !reflect.DeepEqual(got, f) {
		t.Errorf("got %+v, want %+v", got, f)
	}
}

func TestDocumentRowWithoutVectors(t *testing.T) {
	d := &models.Document{
		ID:        "d1",
		Name:      "a.pdf",
		FolderID:  "f1",
		ProjectID: "p1",
		Status:    models.DocumentProcessing,
		FileSize:  10,
	}
	row := documentRowOf(d)
	if row.VectorCount != nil || row.Status != "processing" {
		t.Fatalf("unexpected row %+v", row)
	}
	if got := row.model(); got.VectorCount != nil || got.Metadata != nil {
		t.Errorf("unexpected document %+v", got)
	}
}
