package store

import (
	"context"
	"time"

	"VectorConsole/backend/go/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type projectRow struct {
	ID            string `gorm:"primaryKey;size:36"`
	Name          string `gorm:"size:255;not null"`
	FolderCount   int    `gorm:"not null;default:0"`
	DocumentCount int    `gorm:"not null;default:0"`
	CreatedAt     time.Time
}

func (projectRow) TableName() string { return "console_projects" }

type folderRow struct {
	ID             string `gorm:"primaryKey;size:36"`
	ProjectID      string `gorm:"size:36;not null;index"`
	Name           string `gorm:"size:255;not null"`
	ChunkSize      int    `gorm:"not null"`
	ChunkOverlap   int    `gorm:"not null"`
	MetadataParams datatypes.JSONSlice[string]
	MetadataConfig datatypes.JSONType[models.MetadataConfig]
	DocumentCount  int `gorm:"not null;default:0"`
	CreatedAt      time.Time
}

func (folderRow) TableName() string { return "console_folders" }

type documentRow struct {
	ID           string `gorm:"primaryKey;size:36"`
	FolderID     string `gorm:"size:36;not null;index"`
	ProjectID    string `gorm:"size:36;not null;index"`
	Name         string `gorm:"size:255;not null"`
	Status       string `gorm:"size:16;not null"`
	FileSize     int64
	VectorCount  *int
	ErrorMessage string `gorm:"type:text"`
	Metadata     datatypes.JSONType[map[string]string]
	CreatedAt    time.Time
}

func (documentRow) TableName() string { return "console_documents" }

// GormPersister stores the console entities in MySQL through GORM.
type GormPersister struct {
	db *gorm.DB
}

// NewGormPersister creates a new GormPersister.
func NewGormPersister(db *gorm.DB) *GormPersister {
	return &GormPersister{db: db}
}

// AutoMigrate creates or updates the console tables.
func (p *GormPersister) AutoMigrate(ctx context.Context) error {
	return p.db.WithContext(ctx).AutoMigrate(&projectRow{}, &folderRow{}, &documentRow{})
}

// Load reads every table ordered by creation time.
func (p *GormPersister) Load(ctx context.Context) (*Snapshot, error) {
	db := p.db.WithContext(ctx)

	var projects []projectRow
	if err := db.Order("created_at, id").Find(&projects).Error; err != nil {
		return nil, err
	}
	var folders []folderRow
	if err := db.Order("created_at, id").Find(&folders).Error; err != nil {
		return nil, err
	}
	var documents []documentRow
	if err := db.Order("created_at, id").Find(&documents).Error; err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Projects:  make([]*models.Project, 0, len(projects)),
		Folders:   make([]*models.Folder, 0, len(folders)),
		Documents: make([]*models.Document, 0, len(documents)),
	}
	for i := range projects {
		snap.Projects = append(snap.Projects, projects[i].model())
	}
	for i := range folders {
		snap.Folders = append(snap.Folders, folders[i].model())
	}
	for i := range documents {
		snap.Documents = append(snap.Documents, documents[i].model())
	}
	return snap, nil
}

// Commit applies the mutation in a single transaction.
func (p *GormPersister) Commit(ctx context.Context, m Mutation) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(m.DeleteDocuments) > 0 {
			if err := tx.Where("id IN ?", m.DeleteDocuments).Delete(&documentRow{}).Error; err != nil {
				return err
			}
		}
		if len(m.DeleteFolders) > 0 {
			if err := tx.Where("id IN ?", m.DeleteFolders).Delete(&folderRow{}).Error; err != nil {
				return err
			}
		}
		if len(m.DeleteProjects) > 0 {
			if err := tx.Where("id IN ?", m.DeleteProjects).Delete(&projectRow{}).Error; err != nil {
				return err
			}
		}

		upsert := tx.Clauses(clause.OnConflict{UpdateAll: true})
		for _, project := range m.Projects {
			if err := upsert.Create(projectRowOf(project)).Error; err != nil {
				return err
			}
		}
		for _, folder := range m.Folders {
			if err := upsert.Create(folderRowOf(folder)).Error; err != nil {
				return err
			}
		}
		for _, doc := range m.Documents {
			if err := upsert.Create(documentRowOf(doc)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func projectRowOf(p *models.Project) *projectRow {
	return &projectRow{
		ID:            p.ID,
		Name:          p.Name,
		FolderCount:   p.FolderCount,
		DocumentCount: p.DocumentCount,
		CreatedAt:     p.CreatedAt,
	}
}

func (r *projectRow) model() *models.Project {
	return &models.Project{
		ID:            r.ID,
		Name:          r.Name,
		CreatedAt:     r.CreatedAt,
		FolderCount:   r.FolderCount,
		DocumentCount: r.DocumentCount,
	}
}

func folderRowOf(f *models.Folder) *folderRow {
	return &folderRow{
		ID:             f.ID,
		ProjectID:      f.ProjectID,
		Name:           f.Name,
		ChunkSize:      f.ChunkSize,
		ChunkOverlap:   f.ChunkOverlap,
		MetadataParams: datatypes.NewJSONSlice(append([]string{}, f.MetadataParams...)),
		MetadataConfig: datatypes.NewJSONType(f.MetadataConfig.Clone()),
		DocumentCount:  f.DocumentCount,
		CreatedAt:      f.CreatedAt,
	}
}

func (r *folderRow) model() *models.Folder {
	params := []string(r.MetadataParams)
	if params == nil {
		params = []string{}
	}
	return &models.Folder{
		ID:             r.ID,
		Name:           r.Name,
		ProjectID:      r.ProjectID,
		ChunkSize:      r.ChunkSize,
		ChunkOverlap:   r.ChunkOverlap,
		MetadataParams: append([]string{}, params...),
		MetadataConfig: r.MetadataConfig.Data().Clone(),
		CreatedAt:      r.CreatedAt,
		DocumentCount:  r.DocumentCount,
	}
}

func documentRowOf(d *models.Document) *documentRow {
	return &documentRow{
		ID:           d.ID,
		FolderID:     d.FolderID,
		ProjectID:    d.ProjectID,
		Name:         d.Name,
		Status:       string(d.Status),
		FileSize:     d.FileSize,
		VectorCount:  d.VectorCount,
		ErrorMessage: d.ErrorMessage,
		Metadata:     datatypes.NewJSONType(d.Metadata),
		CreatedAt:    d.CreatedAt,
	}
}

func (r *documentRow) model() *models.Document {
	d := &models.Document{
		ID:           r.ID,
		Name:         r.Name,
		FolderID:     r.FolderID,
		ProjectID:    r.ProjectID,
		Status:       models.DocumentStatus(r.Status),
		CreatedAt:    r.CreatedAt,
		FileSize:     r.FileSize,
		VectorCount:  r.VectorCount,
		ErrorMessage: r.ErrorMessage,
		Metadata:     r.Metadata.Data(),
	}
	return d.Clone()
}
