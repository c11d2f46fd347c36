package models

import (
	"errors"
	"testing"
)

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1536, "1.5 KB"},
		{2 * 1024 * 1024, "2.0 MB"},
	}
	for _, tt := range tests {
		if got := FormatFileSize(tt.in); got != tt.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTransportErrorMatchesSentinel(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(&TransportError{Op: "create folder", Err: cause})
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected errors.Is(err, ErrTransport)")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be unwrapped")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("transport error must not match ErrNotFound")
	}
}

func TestFolderCloneIsDeep(t *testing.T) {
	f := &Folder{
		ID:             "f1",
		MetadataParams: []string{"category"},
		MetadataConfig: MetadataConfig{"category": {Type: FieldSelect, Options: []string{"A"}, Required: true}},
	}
	cp := f.Clone()
	cp.MetadataParams[0] = "changed"
	spec := cp.MetadataConfig["category"]
	spec.Options[0] = "B"
	if f.MetadataParams[0] != "category" {
		t.Errorf("params shared with clone")
	}
	if f.MetadataConfig["category"].Options[0] != "A" {
		t.Errorf("options shared with clone")
	}
}
