package models

import "time"

// Project is the top-level container of the console, analogous to a vector index.
// FolderCount and DocumentCount are maintained by the entity store on every
// folder/document create or delete and are never recomputed from collections.
type Project struct {
	ID            string    `json:"id" bson:"_id"`
	Name          string    `json:"name" bson:"name"`
	CreatedAt     time.Time `json:"createdAt" bson:"created_at"`
	FolderCount   int       `json:"folderCount" bson:"folder_count"`
	DocumentCount int       `json:"documentCount" bson:"document_count"`
}

// Clone returns a copy that shares no memory with p.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
