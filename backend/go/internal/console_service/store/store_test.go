package store

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"VectorConsole/backend/go/internal/folderconfig"
	"VectorConsole/backend/go/internal/models"
)

func newTestStore(opts ...Option) *Store {
	seq := 0
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	defaults := []Option{
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
		WithClock(func() time.Time { return base.Add(time.Duration(seq) * time.Second) }),
	}
	return New(append(defaults, opts...)...)
}

func folderPayload(projectID string) models.CreateFolderPayload {
	return models.CreateFolderPayload{
		Name:           "Contracts",
		ProjectID:      projectID,
		ChunkSize:      1000,
		ChunkOverlap:   200,
		MetadataParams: []string{"category", "author"},
		MetadataConfig: models.MetadataConfig{
			"category": {Type: models.FieldSelect, Options: []string{"A", "B"}, Required: true},
			"author":   {Type: models.FieldText},
		},
	}
}

// checkCounters recomputes every counter from the collections.
func checkCounters(t *testing.T, s *Store) {
	t.Helper()
	for _, p := range s.GetProjects() {
		folders := s.GetFolders(p.ID)
		if p.FolderCount != len(folders) {
			t.Errorf("project %s folderCount = %d, have %d folders", p.ID, p.FolderCount, len(folders))
		}
		docs := 0
		for _, f := range folders {
			n := len(s.GetDocuments(f.ID))
			if f.DocumentCount != n {
				t.Errorf("folder %s documentCount = %d, have %d documents", f.ID, f.DocumentCount, n)
			}
			docs += n
		}
		if p.DocumentCount != docs {
			t.Errorf("project %s documentCount = %d, have %d documents", p.ID, p.DocumentCount, docs)
		}
	}
}

func TestCreateProject(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	p, err := s.CreateProject(ctx, models.CreateProjectPayload{Name: "Knowledge Base"})
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}
	if p.ID == "" || p.CreatedAt.IsZero() || p.FolderCount != 0 || p.DocumentCount != 0 {
		t.Errorf("unexpected project %+v", p)
	}
	if _, err := s.CreateProject(ctx, models.CreateProjectPayload{Name: "x"}); err == nil {
		t.Errorf("expected short name to be rejected")
	}
	if got := len(s.GetProjects()); got != 1 {
		t.Errorf("expected 1 project, got %d", got)
	}
}

func TestCreateFolder_IncrementsFolderCount(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	p, _ := s.CreateProject(ctx, models.CreateProjectPayload{Name: "Knowledge Base"})

	for i := 1; i <= 3; i++ {
		if _, err := s.CreateFolder(ctx, folderPayload(p.ID)); err != nil {
			t.Fatalf("CreateFolder() error = %v", err)
		}
		got, _ := s.GetProject(p.ID)
		if got.FolderCount != i {
			t.Fatalf("after %d creates folderCount = %d", i, got.FolderCount)
		}
	}
	checkCounters(t, s)
}

func TestCreateFolder_RejectsInvalidPayload(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	p, _ := s.CreateProject(ctx, models.CreateProjectPayload{Name: "Knowledge Base"})

	bad := folderPayload(p.ID)
	bad.ChunkOverlap = 600
	_, err := s.CreateFolder(ctx, bad)
	var verr *folderconfig.ValidationError
	if !errors.As(err, &verr) || verr.Kind != folderconfig.OutOfRange {
		t.Fatalf("expected OutOfRange, got %v", err)
	}

	if _, err := s.CreateFolder(ctx, folderPayload("missing")); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected NotFound for unknown project, got %v", err)
	}
	got, _ := s.GetProject(p.ID)
	if got.FolderCount != 0 {
		t.Errorf("rejected creates must not touch counters, got %d", got.FolderCount)
	}
}

func TestGetFolder_PreservesParamOrder(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	p, _ := s.CreateProject(ctx, models.CreateProjectPayload{Name: "Knowledge Base"})

	fields := []folderconfig.MetadataField{
		{Key: "zeta", Type: models.FieldText},
		{Key: "alpha", Type: models.FieldSelect, Options: []string{"x"}, Required: true},
		{Key: "mid", Type: models.FieldNumber},
	}
	payload, err := folderconfig.BuildFolder(folderconfig.FolderInput{
		ProjectID: p.ID, Name: "Ordered", ChunkSize: 800, ChunkOverlap: 100, Fields: fields,
	})
	if err != nil {
		t.Fatalf("BuildFolder() error = %v", err)
	}
	f, err := s.CreateFolder(ctx, payload)
	if err != nil {
		t.Fatalf("CreateFolder() error = %v", err)
	}
	got, err := s.GetFolder(p.ID, f.ID)
	if err != nil {
		t.Fatalf("GetFolder() error = %v", err)
	}
	if !reflect.DeepEqual(got.MetadataParams, []string{"zeta", "alpha", "mid"}) {
		t.Errorf("metadataParams order lost: %v", got.MetadataParams)
	}
	if _, err := s.GetFolder("other", f.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("folder must not be found under another project, got %v", err)
	}
}

func TestDocumentLifecycleScenario(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	p, _ := s.CreateProject(ctx, models.CreateProjectPayload{Name: "Knowledge Base"})
	f, err := s.CreateFolder(ctx, folderPayload(p.ID))
	if err != nil {
		t.Fatalf("CreateFolder() error = %v", err)
	}
	if got, _ := s.GetProject(p.ID); got.FolderCount != 1 {
		t.Fatalf("expected folderCount 1, got %d", got.FolderCount)
	}

	d, err := s.CreateDocument(ctx, models.CreateDocumentPayload{
		Name: "report.pdf", FolderID: f.ID, ProjectID: p.ID, FileSize: 2048,
		Metadata: map[string]string{"category": "A"},
	})
	if err != nil {
		t.Fatalf("CreateDocument() error = %v", err)
	}
	if d.Status != models.DocumentProcessing || d.VectorCount != nil {
		t.Fatalf("new document must be processing without vectors, got %+v", d)
	}
	if got, _ := s.GetFolder(p.ID, f.ID); got.DocumentCount != 1 {
		t.Fatalf("expected folder documentCount 1, got %d", got.DocumentCount)
	}

	done, err := s.CompleteDocument(ctx, d.ID, 12)
	if err != nil {
		t.Fatalf("CompleteDocument() error = %v", err)
	}
	if done.Status != models.DocumentCompleted || done.VectorCount == nil || *done.VectorCount != 12 {
		t.Fatalf("unexpected completed document %+v", done)
	}

	if err := s.DeleteDocument(ctx, d.ID); err != nil {
		t.Fatalf("DeleteDocument() error = %v", err)
	}
	folder, _ := s.GetFolder(p.ID, f.ID)
	project, _ := s.GetProject(p.ID)
	if folder.DocumentCount != 0 || project.DocumentCount != 0 {
		t.Errorf("expected zero document counts, got folder=%d project=%d", folder.DocumentCount, project.DocumentCount)
	}
	checkCounters(t, s)
}

func TestDeleteDocument_NotFoundLeavesCounts(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	p, _ := s.CreateProject(ctx, models.CreateProjectPayload{Name: "Knowledge Base"})
	f, _ := s.CreateFolder(ctx, folderPayload(p.ID))
	_, _ = s.CreateDocument(ctx, models.CreateDocumentPayload{
		Name: "a.pdf", FolderID: f.ID, ProjectID: p.ID, Metadata: map[string]string{"category": "B"},
	})

	if err := s.DeleteDocument(ctx, "nope"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	project, _ := s.GetProject(p.ID)
	if project.DocumentCount != 1 {
		t.Errorf("expected documentCount 1, got %d", project.DocumentCount)
	}
	checkCounters(t, s)
}

func TestTransitions(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	p, _ := s.CreateProject(ctx, models.CreateProjectPayload{Name: "Knowledge Base"})
	f, _ := s.CreateFolder(ctx, folderPayload(p.ID))
	d, _ := s.CreateDocument(ctx, models.CreateDocumentPayload{
		Name: "a.pdf", FolderID: f.ID, ProjectID: p.ID, Metadata: map[string]string{"category": "A"},
	})

	failed, err := s.FailDocument(ctx, d.ID, "Failed to process document")
	if err != nil {
		t.Fatalf("FailDocument() error = %v", err)
	}
	if failed.Status != models.DocumentError || failed.ErrorMessage == "" {
		t.Errorf("unexpected failed document %+v", failed)
	}

	if _, err := s.CompleteDocument(ctx, d.ID, 3); !errors.Is(err, models.ErrInvalidStateTransition) {
		t.Errorf("expected InvalidStateTransition, got %v", err)
	}
	if _, err := s.FailDocument(ctx, d.ID, "again"); !errors.Is(err, models.ErrInvalidStateTransition) {
		t.Errorf("expected InvalidStateTransition, got %v", err)
	}
	if _, err := s.CompleteDocument(ctx, "missing", 3); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestCompletionAfterDeleteDoesNotResurrect(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	p, _ := s.CreateProject(ctx, models.CreateProjectPayload{Name: "Knowledge Base"})
	f, _ := s.CreateFolder(ctx, folderPayload(p.ID))
	d, _ := s.CreateDocument(ctx, models.CreateDocumentPayload{
		Name: "a.pdf", FolderID: f.ID, ProjectID: p.ID, Metadata: map[string]string{"category": "A"},
	})

	if err := s.DeleteDocument(ctx, d.ID); err != nil {
		t.Fatalf("DeleteDocument() error = %v", err)
	}
	if _, err := s.CompleteDocument(ctx, d.ID, 5); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if _, err := s.GetDocument(d.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("document resurrected")
	}
	if docs := s.GetDocuments(f.ID); len(docs) != 0 {
		t.Errorf("expected no documents, got %d", len(docs))
	}
}

func TestCreateDocument_ValidatesMetadata(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	p, _ := s.CreateProject(ctx, models.CreateProjectPayload{Name: "Knowledge Base"})
	f, _ := s.CreateFolder(ctx, folderPayload(p.ID))

	_, err := s.CreateDocument(ctx, models.CreateDocumentPayload{Name: "a.pdf", FolderID: f.ID, ProjectID: p.ID})
	var verr *folderconfig.ValidationError
	if !errors.As(err, &verr) || verr.Kind != folderconfig.InvalidMetadata {
		t.Fatalf("expected InvalidMetadata for missing required field, got %v", err)
	}
	_, err = s.CreateDocument(ctx, models.CreateDocumentPayload{Name: "a.pdf", FolderID: f.ID, ProjectID: "other"})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected NotFound for folder outside project, got %v", err)
	}
	checkCounters(t, s)
}

func TestDeleteFolderAndProjectCascade(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	p, _ := s.CreateProject(ctx, models.CreateProjectPayload{Name: "Knowledge Base"})
	f1, _ := s.CreateFolder(ctx, folderPayload(p.ID))
	f2, _ := s.CreateFolder(ctx, folderPayload(p.ID))
	for i := 0; i < 2; i++ {
		_, _ = s.CreateDocument(ctx, models.CreateDocumentPayload{
			Name: "a.pdf", FolderID: f1.ID, ProjectID: p.ID, Metadata: map[string]string{"category": "A"},
		})
	}
	_, _ = s.CreateDocument(ctx, models.CreateDocumentPayload{
		Name: "b.pdf", FolderID: f2.ID, ProjectID: p.ID, Metadata: map[string]string{"category": "B"},
	})

	if err := s.DeleteFolder(ctx, p.ID, f1.ID); err != nil {
		t.Fatalf("DeleteFolder() error = %v", err)
	}
	project, _ := s.GetProject(p.ID)
	if project.FolderCount != 1 || project.DocumentCount != 1 {
		t.Errorf("unexpected counters after folder delete: %+v", project)
	}
	checkCounters(t, s)

	if err := s.DeleteProject(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProject() error = %v", err)
	}
	if len(s.GetFolders(p.ID)) != 0 || len(s.GetDocuments(f2.ID)) != 0 {
		t.Errorf("cascade delete left children behind")
	}
	if err := s.DeleteProject(ctx, p.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected NotFound on second delete, got %v", err)
	}
}

func TestUpdateFolder(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	p, _ := s.CreateProject(ctx, models.CreateProjectPayload{Name: "Knowledge Base"})
	f, _ := s.CreateFolder(ctx, folderPayload(p.ID))

	upd := folderPayload(p.ID)
	upd.Name = "Renamed"
	upd.ChunkSize = 2000
	upd.ChunkOverlap = 1000
	upd.MetadataParams = []string{"author"}
	upd.MetadataConfig = models.MetadataConfig{"author": {Type: models.FieldText, Required: true}}

	got, err := s.UpdateFolder(ctx, p.ID, f.ID, upd)
	if err != nil {
		t.Fatalf("UpdateFolder() error = %v", err)
	}
	if got.Name != "Renamed" || got.ChunkSize != 2000 || got.ID != f.ID || !got.CreatedAt.Equal(f.CreatedAt) {
		t.Errorf("unexpected updated folder %+v", got)
	}
	if project, _ := s.GetProject(p.ID); project.FolderCount != 1 {
		t.Errorf("update must not change folderCount")
	}
}

func TestReadsReturnCopies(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	p, _ := s.CreateProject(ctx, models.CreateProjectPayload{Name: "Knowledge Base"})
	f, _ := s.CreateFolder(ctx, folderPayload(p.ID))

	got, _ := s.GetFolder(p.ID, f.ID)
	got.MetadataParams[0] = "tampered"
	got.DocumentCount = 99

	again, _ := s.GetFolder(p.ID, f.ID)
	if again.MetadataParams[0] != "category" || again.DocumentCount != 0 {
		t.Errorf("store state leaked through a read: %+v", again)
	}
	if docs := s.GetDocuments("unknown"); docs == nil || len(docs) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", docs)
	}
}

type failingPersister struct {
	fail    bool
	commits []Mutation
}

func (p *failingPersister) Load(context.Context) (*Snapshot, error) {
	if p.fail {
		return nil, errors.New("connection refused")
	}
	return &Snapshot{}, nil
}

func (p *failingPersister) Commit(_ context.Context, m Mutation) error {
	if p.fail {
		return errors.New("connection refused")
	}
	p.commits = append(p.commits, m)
	return nil
}

func TestPersisterFailureAppliesNothing(t *testing.T) {
	fp := &failingPersister{}
	s := newTestStore(WithPersister(fp))
	ctx := context.Background()
	p, _ := s.CreateProject(ctx, models.CreateProjectPayload{Name: "Knowledge Base"})
	f, _ := s.CreateFolder(ctx, folderPayload(p.ID))
	d, _ := s.CreateDocument(ctx, models.CreateDocumentPayload{
		Name: "a.pdf", FolderID: f.ID, ProjectID: p.ID, Metadata: map[string]string{"category": "A"},
	})

	fp.fail = true
	_, err := s.CreateFolder(ctx, folderPayload(p.ID))
	if !errors.Is(err, models.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if err := s.DeleteDocument(ctx, d.ID); !errors.Is(err, models.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if _, err := s.CompleteDocument(ctx, d.ID, 1); !errors.Is(err, models.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}

	project, _ := s.GetProject(p.ID)
	if project.FolderCount != 1 || project.DocumentCount != 1 {
		t.Errorf("failed writes partially applied: %+v", project)
	}
	doc, err := s.GetDocument(d.ID)
	if err != nil || doc.Status != models.DocumentProcessing {
		t.Errorf("document changed by failed writes: %+v, %v", doc, err)
	}
	checkCounters(t, s)

	if err := s.Load(ctx); !errors.Is(err, models.ErrTransport) {
		t.Errorf("expected transport error from Load, got %v", err)
	}
	if len(s.GetProjects()) != 1 {
		t.Errorf("failed load must keep prior state")
	}
}

func TestCreateFolderCommitsCounterWithFolder(t *testing.T) {
	fp := &failingPersister{}
	s := newTestStore(WithPersister(fp))
	ctx := context.Background()
	p, _ := s.CreateProject(ctx, models.CreateProjectPayload{Name: "Knowledge Base"})
	f, _ := s.CreateFolder(ctx, folderPayload(p.ID))

	if len(fp.commits) != 2 {
		t.Fatalf("expected 2 commits, got %d", len(fp.commits))
	}
	createFolder := fp.commits[1]
	if len(createFolder.Projects) != 1 || createFolder.Projects[0].FolderCount != 1 || len(createFolder.Folders) != 1 {
		t.Errorf("folder create must carry the counter update in the same mutation: %+v", createFolder)
	}

	s.Reset()
	if len(s.GetProjects()) != 0 {
		t.Fatalf("Reset must clear state")
	}
	if _, err := s.GetFolder(p.ID, f.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected NotFound after reset")
	}
}
