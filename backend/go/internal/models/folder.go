package models

import "time"

// FieldType 是文件夹元数据字段支持的类型。
type FieldType string

const (
	FieldText   FieldType = "text"
	FieldNumber FieldType = "number"
	FieldDate   FieldType = "date"
	FieldSelect FieldType = "select"
)

// Valid 判断字段类型是否受支持。
func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldNumber, FieldDate, FieldSelect:
		return true
	}
	return false
}

// FieldSpec 描述一个用户自定义的元数据字段。Options 仅对 select 类型有意义。
type FieldSpec struct {
	Type     FieldType `json:"type" bson:"type"`
	Options  []string  `json:"options,omitempty" bson:"options,omitempty"`
	Required bool      `json:"required" bson:"required"`
}

// MetadataConfig 以字段 key 为索引的字段定义集合。
// 字段顺序由 Folder.MetadataParams 保存。
type MetadataConfig map[string]FieldSpec

// Clone 深拷贝配置。
func (c MetadataConfig) Clone() MetadataConfig {
	if c == nil {
		return nil
	}
	out := make(MetadataConfig, len(c))
	for k, spec := range c {
		if spec.Options != nil {
			spec.Options = append([]string(nil), spec.Options...)
		}
		out[k] = spec
	}
	return out
}

// Folder 是 Project 下的命名分区，拥有自己的分块参数和元数据 schema。
// 通过 ProjectID 关联所属项目，而不是内嵌。
type Folder struct {
	ID             string         `json:"id" bson:"_id"`
	Name           string         `json:"name" bson:"name"`
	ProjectID      string         `json:"projectId" bson:"project_id"`
	ChunkSize      int            `json:"chunkSize" bson:"chunk_size"`
	ChunkOverlap   int            `json:"chunkOverlap" bson:"chunk_overlap"`
	MetadataParams []string       `json:"metadataParams" bson:"metadata_params"`
	MetadataConfig MetadataConfig `json:"metadataConfig,omitempty" bson:"metadata_config,omitempty"`
	CreatedAt      time.Time      `json:"createdAt" bson:"created_at"`
	DocumentCount  int            `json:"documentCount" bson:"document_count"`
}

// Clone 返回不与 f 共享内存的副本。
func (f *Folder) Clone() *Folder {
	if f == nil {
		return nil
	}
	cp := *f
	cp.MetadataParams = append([]string{}, f.MetadataParams...)
	cp.MetadataConfig = f.MetadataConfig.Clone()
	return &cp
}
