package store

import (
	"context"

	"VectorConsole/backend/go/internal/models"
)

// Snapshot is the full persisted state, each slice in creation order.
type Snapshot struct {
	Projects  []*models.Project
	Folders   []*models.Folder
	Documents []*models.Document
}

// Mutation is one atomic write. Upserted entities replace their stored rows
// wholesale; deletes are applied before upserts.
type Mutation struct {
	Op string

	Projects  []*models.Project
	Folders   []*models.Folder
	Documents []*models.Document

	DeleteProjects  []string
	DeleteFolders   []string
	DeleteDocuments []string
}

// Persister is the backing transport of the Store. Commit must apply the whole
// mutation or nothing.
type Persister interface {
	Load(ctx context.Context) (*Snapshot, error)
	Commit(ctx context.Context, m Mutation) error
}

type nopPersister struct{}

// NopPersister keeps everything in process memory only.
func NopPersister() Persister { return nopPersister{} }

func (nopPersister) Load(context.Context) (*Snapshot, error) { return &Snapshot{}, nil }

func (nopPersister) Commit(context.Context, Mutation) error { return nil }
