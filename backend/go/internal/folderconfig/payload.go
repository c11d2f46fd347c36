package folderconfig

import "VectorConsole/backend/go/internal/models"

// FolderInput is the raw state of the create/edit folder form.
type FolderInput struct {
	ProjectID    string
	Name         string
	ChunkSize    int
	ChunkOverlap int
	Fields       []MetadataField
}

// ToPersistable assembles the create payload without validating anything.
// Options are only carried for select fields.
func ToPersistable(name string, size, overlap int, fields []MetadataField) models.CreateFolderPayload {
	params := make([]string, 0, len(fields))
	config := make(models.MetadataConfig, len(fields))
	for _, f := range fields {
		params = append(params, f.Key)
		config[f.Key] = specOf(f)
	}
	return models.CreateFolderPayload{
		Name:           name,
		ChunkSize:      size,
		ChunkOverlap:   overlap,
		MetadataParams: params,
		MetadataConfig: config,
	}
}

// BuildFolder runs the full submit-time validation of the folder form and
// returns the payload to hand to the store.
func BuildFolder(in FolderInput) (models.CreateFolderPayload, error) {
	name, err := ValidateName("name", in.Name)
	if err != nil {
		return models.CreateFolderPayload{}, err
	}
	chunking, _ := ValidateChunking(in.ChunkSize, in.ChunkOverlap)
	if _, err := ValidateSchema(in.Fields); err != nil {
		return models.CreateFolderPayload{}, err
	}
	payload := ToPersistable(name, chunking.Size, chunking.Overlap, in.Fields)
	payload.ProjectID = in.ProjectID
	return payload, nil
}

// CheckPayload is the strict check the store applies before persisting.
func CheckPayload(p models.CreateFolderPayload) error {
	if _, err := ValidateName("name", p.Name); err != nil {
		return err
	}
	if err := CheckChunking(p.ChunkSize, p.ChunkOverlap); err != nil {
		return err
	}
	return CheckSchema(p.MetadataParams, p.MetadataConfig)
}

// NormalizePayload applies the form defaults and the live chunking clamp to a
// payload received from an API caller. Name and schema are left for CheckPayload.
func NormalizePayload(p models.CreateFolderPayload) models.CreateFolderPayload {
	if p.ChunkSize == 0 && p.ChunkOverlap == 0 {
		p.ChunkSize, p.ChunkOverlap = DefaultChunkSize, DefaultChunkOverlap
	}
	chunking, _ := ValidateChunking(p.ChunkSize, p.ChunkOverlap)
	p.ChunkSize, p.ChunkOverlap = chunking.Size, chunking.Overlap
	if p.MetadataParams == nil {
		p.MetadataParams = []string{}
	}
	if len(p.MetadataParams) == 0 && len(p.MetadataConfig) == 0 {
		p.MetadataConfig = nil
	}
	return p
}
