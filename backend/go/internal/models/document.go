package models

import "time"

// DocumentStatus is the processing state of an uploaded document.
type DocumentStatus string

const (
	DocumentProcessing DocumentStatus = "processing"
	DocumentCompleted  DocumentStatus = "completed"
	DocumentError      DocumentStatus = "error"
)

// Terminal reports whether no further transitions are allowed.
func (s DocumentStatus) Terminal() bool {
	return s == DocumentCompleted || s == DocumentError
}

// Document is a file uploaded into a folder. It is created in the processing
// state and transitions exactly once to completed (with VectorCount) or
// error (with ErrorMessage).
type Document struct {
	ID           string            `json:"id" bson:"_id"`
	Name         string            `json:"name" bson:"name"`
	FolderID     string            `json:"folderId" bson:"folder_id"`
	ProjectID    string            `json:"projectId" bson:"project_id"`
	Status       DocumentStatus    `json:"status" bson:"status"`
	CreatedAt    time.Time         `json:"createdAt" bson:"created_at"`
	FileSize     int64             `json:"fileSize" bson:"file_size"`
	VectorCount  *int              `json:"vectorCount,omitempty" bson:"vector_count,omitempty"`
	ErrorMessage string            `json:"errorMessage,omitempty" bson:"error_message,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

// Clone returns a copy that shares no memory with d.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	cp := *d
	if d.VectorCount != nil {
		n := *d.VectorCount
		cp.VectorCount = &n
	}
	if d.Metadata != nil {
		cp.Metadata = make(map[string]string, len(d.Metadata))
		for k, v := range d.Metadata {
			cp.Metadata[k] = v
		}
	}
	return &cp
}
