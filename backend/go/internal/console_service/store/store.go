package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"VectorConsole/backend/go/internal/folderconfig"
	"VectorConsole/backend/go/internal/models"
	"VectorConsole/backend/go/pkg/logger"

	"github.com/google/uuid"
)

// Store is the authoritative collection of projects, folders and documents.
// It is the only writer of the derived folder/document counters.
//
// Every write computes the new entity versions under the lock, commits them
// through the Persister and only then applies them to memory, so a failed
// commit leaves the previously loaded state untouched.
type Store struct {
	mu sync.RWMutex

	projects     map[string]*models.Project
	projectOrder []string
	folders      map[string]*models.Folder
	folderOrder  []string
	documents    map[string]*models.Document
	docOrder     []string

	persister Persister
	now       func() time.Time
	newID     func() string
	log       *logger.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithPersister sets the backing transport. Defaults to NopPersister.
func WithPersister(p Persister) Option {
	return func(s *Store) { s.persister = p }
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		persister: NopPersister(),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
		log:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.projects = make(map[string]*models.Project)
	s.folders = make(map[string]*models.Folder)
	s.documents = make(map[string]*models.Document)
	s.projectOrder = nil
	s.folderOrder = nil
	s.docOrder = nil
}

// Reset drops all in-memory state. The persister is not touched.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// Load replaces the in-memory state with the persisted snapshot.
func (s *Store) Load(ctx context.Context) error {
	snap, err := s.persister.Load(ctx)
	if err != nil {
		return transportError("load", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	s.apply(Mutation{Projects: snap.Projects, Folders: snap.Folders, Documents: snap.Documents})
	s.log.WithPayload(map[string]interface{}{
		"projects":  len(snap.Projects),
		"folders":   len(snap.Folders),
		"documents": len(snap.Documents),
	}).Info("store loaded")
	return nil
}

// commit persists m and applies it. Callers hold s.mu.
func (s *Store) commit(ctx context.Context, m Mutation) error {
	if err := s.persister.Commit(ctx, m); err != nil {
		s.log.With("op", m.Op).WithError(err).Error("persist failed, nothing applied")
		return transportError(m.Op, err)
	}
	s.apply(m)
	return nil
}

func (s *Store) apply(m Mutation) {
	for _, id := range m.DeleteDocuments {
		delete(s.documents, id)
		s.docOrder = removeID(s.docOrder, id)
	}
	for _, id := range m.DeleteFolders {
		delete(s.folders, id)
		s.folderOrder = removeID(s.folderOrder, id)
	}
	for _, id := range m.DeleteProjects {
		delete(s.projects, id)
		s.projectOrder = removeID(s.projectOrder, id)
	}
	for _, p := range m.Projects {
		if _, ok := s.projects[p.ID]; !ok {
			s.projectOrder = append(s.projectOrder, p.ID)
		}
		s.projects[p.ID] = p.Clone()
	}
	for _, f := range m.Folders {
		if _, ok := s.folders[f.ID]; !ok {
			s.folderOrder = append(s.folderOrder, f.ID)
		}
		s.folders[f.ID] = f.Clone()
	}
	for _, d := range m.Documents {
		if _, ok := s.documents[d.ID]; !ok {
			s.docOrder = append(s.docOrder, d.ID)
		}
		s.documents[d.ID] = d.Clone()
	}
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}

func transportError(op string, err error) error {
	var te *models.TransportError
	if errors.As(err, &te) {
		return err
	}
	return &models.TransportError{Op: op, Err: err}
}

// --- Projects ---

// CreateProject stores a new project with zeroed counters.
func (s *Store) CreateProject(ctx context.Context, payload models.CreateProjectPayload) (*models.Project, error) {
	name, err := folderconfig.ValidateName("name", payload.Name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := &models.Project{ID: s.newID(), Name: name, CreatedAt: s.now()}
	if err := s.commit(ctx, Mutation{Op: "create project", Projects: []*models.Project{p}}); err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

// GetProjects returns all projects in insertion order.
func (s *Store) GetProjects() []*models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Project, 0, len(s.projectOrder))
	for _, id := range s.projectOrder {
		out = append(out, s.projects[id].Clone())
	}
	return out
}

// GetProject returns one project.
func (s *Store) GetProject(id string) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, models.NotFoundf("project %s", id)
	}
	return p.Clone(), nil
}

// DeleteProject removes a project together with its folders and documents.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[id]; !ok {
		return models.NotFoundf("project %s", id)
	}
	m := Mutation{Op: "delete project", DeleteProjects: []string{id}}
	for _, fid := range s.folderOrder {
		if s.folders[fid].ProjectID == id {
			m.DeleteFolders = append(m.DeleteFolders, fid)
		}
	}
	for _, did := range s.docOrder {
		if s.documents[did].ProjectID == id {
			m.DeleteDocuments = append(m.DeleteDocuments, did)
		}
	}
	return s.commit(ctx, m)
}

// --- Folders ---

// CreateFolder stores a new folder and increments its project's folderCount.
// The payload must already be normalized; out-of-range chunking is rejected,
// not clamped.
func (s *Store) CreateFolder(ctx context.Context, payload models.CreateFolderPayload) (*models.Folder, error) {
	if err := folderconfig.CheckPayload(payload); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[payload.ProjectID]
	if !ok {
		return nil, models.NotFoundf("project %s", payload.ProjectID)
	}
	f := &models.Folder{
		ID:             s.newID(),
		Name:           strings.TrimSpace(payload.Name),
		ProjectID:      p.ID,
		ChunkSize:      payload.ChunkSize,
		ChunkOverlap:   payload.ChunkOverlap,
		MetadataParams: append([]string{}, payload.MetadataParams...),
		MetadataConfig: payload.MetadataConfig.Clone(),
		CreatedAt:      s.now(),
	}
	project := p.Clone()
	project.FolderCount++

	m := Mutation{Op: "create folder", Projects: []*models.Project{project}, Folders: []*models.Folder{f}}
	if err := s.commit(ctx, m); err != nil {
		return nil, err
	}
	return f.Clone(), nil
}

// UpdateFolder replaces a folder's name, chunking and metadata schema.
// Existing documents keep the metadata they were uploaded with.
func (s *Store) UpdateFolder(ctx context.Context, projectID, id string, payload models.UpdateFolderPayload) (*models.Folder, error) {
	if err := folderconfig.CheckPayload(payload); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.folder(projectID, id)
	if err != nil {
		return nil, err
	}
	f := cur.Clone()
	f.Name = strings.TrimSpace(payload.Name)
	f.ChunkSize = payload.ChunkSize
	f.ChunkOverlap = payload.ChunkOverlap
	f.MetadataParams = append([]string{}, payload.MetadataParams...)
	f.MetadataConfig = payload.MetadataConfig.Clone()

	if err := s.commit(ctx, Mutation{Op: "update folder", Folders: []*models.Folder{f}}); err != nil {
		return nil, err
	}
	return f.Clone(), nil
}

// DeleteFolder removes a folder and its documents, adjusting the project counters.
func (s *Store) DeleteFolder(ctx context.Context, projectID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.folder(projectID, id)
	if err != nil {
		return err
	}
	m := Mutation{Op: "delete folder", DeleteFolders: []string{id}}
	for _, did := range s.docOrder {
		if s.documents[did].FolderID == id {
			m.DeleteDocuments = append(m.DeleteDocuments, did)
		}
	}
	if p, ok := s.projects[f.ProjectID]; ok {
		project := p.Clone()
		project.FolderCount--
		project.DocumentCount -= len(m.DeleteDocuments)
		m.Projects = []*models.Project{project}
	}
	return s.commit(ctx, m)
}

// GetFolders returns the folders of a project in insertion order; empty when
// the project is unknown.
func (s *Store) GetFolders(projectID string) []*models.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Folder, 0)
	for _, id := range s.folderOrder {
		if f := s.folders[id]; f.ProjectID == projectID {
			out = append(out, f.Clone())
		}
	}
	return out
}

// ListFolders serves the folder cache.
func (s *Store) ListFolders(_ context.Context, projectID string) ([]*models.Folder, error) {
	return s.GetFolders(projectID), nil
}

// GetFolder returns one folder of a project.
func (s *Store) GetFolder(projectID, id string) (*models.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := s.folder(projectID, id)
	if err != nil {
		return nil, err
	}
	return f.Clone(), nil
}

func (s *Store) folder(projectID, id string) (*models.Folder, error) {
	f, ok := s.folders[id]
	if !ok || f.ProjectID != projectID {
		return nil, models.NotFoundf("folder %s in project %s", id, projectID)
	}
	return f, nil
}

// --- Documents ---

// CreateDocument stores a document in the processing state and increments the
// documentCount of its folder and project.
func (s *Store) CreateDocument(ctx context.Context, payload models.CreateDocumentPayload) (*models.Document, error) {
	name := strings.TrimSpace(payload.Name)
	if name == "" {
		return nil, &folderconfig.ValidationError{Kind: folderconfig.InvalidName, Field: "name", Message: "document name is required"}
	}
	if payload.FileSize < 0 {
		return nil, &folderconfig.ValidationError{Kind: folderconfig.OutOfRange, Field: "fileSize", Message: "file size must not be negative"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.folder(payload.ProjectID, payload.FolderID)
	if err != nil {
		return nil, err
	}
	metadata, err := folderconfig.ValidateDocumentMetadata(f.MetadataParams, f.MetadataConfig, payload.Metadata)
	if err != nil {
		return nil, err
	}

	d := &models.Document{
		ID:        s.newID(),
		Name:      name,
		FolderID:  f.ID,
		ProjectID: f.ProjectID,
		Status:    models.DocumentProcessing,
		CreatedAt: s.now(),
		FileSize:  payload.FileSize,
		Metadata:  metadata,
	}
	p, ok := s.projects[f.ProjectID]
	if !ok {
		return nil, models.NotFoundf("project %s", f.ProjectID)
	}
	folder := f.Clone()
	folder.DocumentCount++
	project := p.Clone()
	project.DocumentCount++

	m := Mutation{
		Op:        "create document",
		Projects:  []*models.Project{project},
		Folders:   []*models.Folder{folder},
		Documents: []*models.Document{d},
	}
	if err := s.commit(ctx, m); err != nil {
		return nil, err
	}
	return d.Clone(), nil
}

// CompleteDocument moves a processing document to completed.
func (s *Store) CompleteDocument(ctx context.Context, id string, vectorCount int) (*models.Document, error) {
	if vectorCount < 1 {
		return nil, &folderconfig.ValidationError{Kind: folderconfig.OutOfRange, Field: "vectorCount", Message: "vector count must be positive"}
	}
	return s.transition(ctx, "complete document", id, func(d *models.Document) {
		d.Status = models.DocumentCompleted
		d.VectorCount = &vectorCount
	})
}

// FailDocument moves a processing document to error.
func (s *Store) FailDocument(ctx context.Context, id, message string) (*models.Document, error) {
	return s.transition(ctx, "fail document", id, func(d *models.Document) {
		d.Status = models.DocumentError
		d.ErrorMessage = message
	})
}

func (s *Store) transition(ctx context.Context, op, id string, fn func(*models.Document)) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.documents[id]
	if !ok {
		return nil, models.NotFoundf("document %s", id)
	}
	if cur.Status != models.DocumentProcessing {
		return nil, fmt.Errorf("document %s is %s: %w", id, cur.Status, models.ErrInvalidStateTransition)
	}
	d := cur.Clone()
	fn(d)
	if err := s.commit(ctx, Mutation{Op: op, Documents: []*models.Document{d}}); err != nil {
		return nil, err
	}
	return d.Clone(), nil
}

// DeleteDocument removes a document and decrements both counters.
// An unknown id returns NotFound and changes nothing.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.documents[id]
	if !ok {
		return models.NotFoundf("document %s", id)
	}
	m := Mutation{Op: "delete document", DeleteDocuments: []string{id}}
	if f, ok := s.folders[d.FolderID]; ok {
		folder := f.Clone()
		folder.DocumentCount--
		m.Folders = []*models.Folder{folder}
	}
	if p, ok := s.projects[d.ProjectID]; ok {
		project := p.Clone()
		project.DocumentCount--
		m.Projects = []*models.Project{project}
	}
	return s.commit(ctx, m)
}

// GetDocuments returns the documents of a folder in insertion order.
func (s *Store) GetDocuments(folderID string) []*models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Document, 0)
	for _, id := range s.docOrder {
		if d := s.documents[id]; d.FolderID == folderID {
			out = append(out, d.Clone())
		}
	}
	return out
}

// GetDocument returns one document.
func (s *Store) GetDocument(id string) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.documents[id]
	if !ok {
		return nil, models.NotFoundf("document %s", id)
	}
	return d.Clone(), nil
}
