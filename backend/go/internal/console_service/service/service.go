package service

import (
	"context"
	"io"

	"VectorConsole/backend/go/internal/console_service/foldercache"
	"VectorConsole/backend/go/internal/console_service/processing"
	"VectorConsole/backend/go/internal/console_service/store"
	"VectorConsole/backend/go/internal/console_service/uploads"
	"VectorConsole/backend/go/internal/folderconfig"
	"VectorConsole/backend/go/internal/models"
	"VectorConsole/backend/go/pkg/logger"
)

// Service 封装了控制台的业务逻辑：校验 → 写入 Store → 刷新导航缓存 → 派发处理任务。
type Service struct {
	store         *store.Store
	cache         *foldercache.Cache
	dispatcher    processing.Dispatcher
	maxUploadSize int64
	log           *logger.Logger
}

// NewService 创建一个新的 Service 实例。
func NewService(st *store.Store, cache *foldercache.Cache, d processing.Dispatcher, maxUploadSize int64, log *logger.Logger) *Service {
	return &Service{
		store:         st,
		cache:         cache,
		dispatcher:    d,
		maxUploadSize: maxUploadSize,
		log:           log,
	}
}

// MaxUploadSize 返回单个上传文件的大小上限。
func (s *Service) MaxUploadSize() int64 {
	if s.maxUploadSize <= 0 {
		return uploads.DefaultMaxSize
	}
	return s.maxUploadSize
}

// refresh 在写操作成功后重新拉取项目的导航缓存，不复用写入前已发出的请求。
// 写入已经提交，刷新失败只记录日志。
func (s *Service) refresh(ctx context.Context, projectID string) {
	if _, err := s.cache.Reload(ctx, projectID); err != nil {
		s.log.With("project_id", projectID).WithError(err).Warn("导航缓存刷新失败")
	}
}

// --- Projects ---

// ListProjects 返回所有项目。
func (s *Service) ListProjects() []*models.Project {
	return s.store.GetProjects()
}

// GetProject 返回单个项目。
func (s *Service) GetProject(id string) (*models.Project, error) {
	return s.store.GetProject(id)
}

// CreateProject 创建项目。
func (s *Service) CreateProject(ctx context.Context, payload models.CreateProjectPayload) (*models.Project, error) {
	return s.store.CreateProject(ctx, payload)
}

// DeleteProject 删除项目及其下的所有文件夹和文档，并清除导航缓存。
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	if err := s.store.DeleteProject(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, id)
	return nil
}

// --- Folders ---

// ListFolders 返回项目下的文件夹，项目不存在时返回 NotFound。
func (s *Service) ListFolders(projectID string) ([]*models.Folder, error) {
	if _, err := s.store.GetProject(projectID); err != nil {
		return nil, err
	}
	return s.store.GetFolders(projectID), nil
}

// GetFolder 返回单个文件夹。
func (s *Service) GetFolder(projectID, id string) (*models.Folder, error) {
	return s.store.GetFolder(projectID, id)
}

// CreateFolder 规范化分块参数后创建文件夹。
func (s *Service) CreateFolder(ctx context.Context, projectID string, payload models.CreateFolderPayload) (*models.Folder, error) {
	payload = folderconfig.NormalizePayload(payload)
	payload.ProjectID = projectID
	f, err := s.store.CreateFolder(ctx, payload)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx, projectID)
	return f, nil
}

// UpdateFolder 修改文件夹设置。
func (s *Service) UpdateFolder(ctx context.Context, projectID, id string, payload models.UpdateFolderPayload) (*models.Folder, error) {
	payload = folderconfig.NormalizePayload(payload)
	payload.ProjectID = projectID
	f, err := s.store.UpdateFolder(ctx, projectID, id, payload)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx, projectID)
	return f, nil
}

// DeleteFolder 删除文件夹及其文档。
func (s *Service) DeleteFolder(ctx context.Context, projectID, id string) error {
	if err := s.store.DeleteFolder(ctx, projectID, id); err != nil {
		return err
	}
	s.refresh(ctx, projectID)
	return nil
}

// --- Documents ---

// UploadRequest 是一次文档上传。
type UploadRequest struct {
	ProjectID string
	FolderID  string
	Name      string
	Size      int64
	Content   io.ReaderAt
	Metadata  map[string]string
}

// ListDocuments 返回文件夹下的文档，文件夹不存在时返回 NotFound。
func (s *Service) ListDocuments(projectID, folderID string) ([]*models.Document, error) {
	if _, err := s.store.GetFolder(projectID, folderID); err != nil {
		return nil, err
	}
	return s.store.GetDocuments(folderID), nil
}

// GetDocument 返回文件夹下的单个文档。
func (s *Service) GetDocument(projectID, folderID, id string) (*models.Document, error) {
	d, err := s.store.GetDocument(id)
	if err != nil {
		return nil, err
	}
	if d.ProjectID != projectID || d.FolderID != folderID {
		return nil, models.NotFoundf("document %s in folder %s", id, folderID)
	}
	return d, nil
}

// UploadDocument 校验上传的文件和元数据，创建 processing 状态的文档并派发处理任务。
func (s *Service) UploadDocument(ctx context.Context, req UploadRequest) (*models.Document, error) {
	folder, err := s.store.GetFolder(req.ProjectID, req.FolderID)
	if err != nil {
		return nil, err
	}
	// 先校验元数据，避免无意义地读取文件内容。
	metadata, err := folderconfig.ValidateDocumentMetadata(folder.MetadataParams, folder.MetadataConfig, req.Metadata)
	if err != nil {
		return nil, err
	}
	info, err := uploads.Inspect(req.Name, req.Content, req.Size, s.maxUploadSize)
	if err != nil {
		return nil, err
	}

	doc, err := s.store.CreateDocument(ctx, models.CreateDocumentPayload{
		Name:      info.Name,
		FolderID:  folder.ID,
		ProjectID: folder.ProjectID,
		FileSize:  info.Size,
		Metadata:  metadata,
	})
	if err != nil {
		return nil, err
	}
	s.log.WithPayload(map[string]interface{}{
		"document_id": doc.ID,
		"folder_id":   folder.ID,
		"pages":       info.Pages,
		"size":        info.Size,
	}).Info("document uploaded")

	job := processing.Job{
		DocumentID:   doc.ID,
		ProjectID:    doc.ProjectID,
		FolderID:     doc.FolderID,
		Name:         doc.Name,
		FileSize:     doc.FileSize,
		ChunkSize:    folder.ChunkSize,
		ChunkOverlap: folder.ChunkOverlap,
	}
	if err := s.dispatcher.Dispatch(ctx, job); err != nil {
		// 任务没有发出去，文档不会再有结果，直接标记失败。
		s.log.With("document_id", doc.ID).WithError(err).Error("processing dispatch failed")
		if failed, ferr := s.store.FailDocument(ctx, doc.ID, processing.FailureMessage); ferr == nil {
			doc = failed
		}
	}

	s.refresh(ctx, folder.ProjectID)
	return doc, nil
}

// DeleteDocument 删除文档。
func (s *Service) DeleteDocument(ctx context.Context, projectID, folderID, id string) error {
	if _, err := s.GetDocument(projectID, folderID, id); err != nil {
		return err
	}
	if err := s.store.DeleteDocument(ctx, id); err != nil {
		return err
	}
	s.refresh(ctx, projectID)
	return nil
}

// --- Navigation ---

// Navigation 返回所有已缓存项目的文件夹列表。
func (s *Service) Navigation() map[string][]*models.Folder {
	out := make(map[string][]*models.Folder)
	for _, id := range s.cache.Projects() {
		out[id] = s.cache.Get(id)
	}
	return out
}

// RefreshNavigation 刷新单个项目的导航缓存。
func (s *Service) RefreshNavigation(ctx context.Context, projectID string) ([]*models.Folder, error) {
	if _, err := s.store.GetProject(projectID); err != nil {
		return nil, err
	}
	return s.cache.Refresh(ctx, projectID)
}

// RefreshAllNavigation 并行刷新所有已缓存项目。
func (s *Service) RefreshAllNavigation(ctx context.Context) error {
	return s.cache.RefreshAll(ctx)
}
