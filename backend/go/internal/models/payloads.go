package models

// CreateProjectPayload is the input of a project create.
type CreateProjectPayload struct {
	Name string `json:"name"`
}

// CreateFolderPayload is the persistable form of a folder configuration.
// MetadataParams lists the keys of MetadataConfig in field order.
type CreateFolderPayload struct {
	Name           string         `json:"name"`
	ProjectID      string         `json:"projectId"`
	ChunkSize      int            `json:"chunkSize"`
	ChunkOverlap   int            `json:"chunkOverlap"`
	MetadataParams []string       `json:"metadataParams"`
	MetadataConfig MetadataConfig `json:"metadataConfig,omitempty"`
}

// UpdateFolderPayload carries an edit of an existing folder's settings.
// The folder keeps its id, owner, creation time and document count.
type UpdateFolderPayload = CreateFolderPayload

// CreateDocumentPayload is what the upload mechanism hands to the store.
type CreateDocumentPayload struct {
	Name      string            `json:"name"`
	FolderID  string            `json:"folderId"`
	ProjectID string            `json:"projectId"`
	FileSize  int64             `json:"fileSize"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}
