package cmd

import (
	"fmt"
	"strings"

	"VectorConsole/backend/go/internal/folderconfig"
	"VectorConsole/backend/go/internal/models"
)

// parseField 解析 "key:type[:opt1,opt2]"。类型和选项的合法性留给 folderconfig 校验，
// 这样命令行和表单得到一样的错误。
func parseField(spec string, required bool) (folderconfig.MetadataField, error) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) < 2 {
		return folderconfig.MetadataField{}, fmt.Errorf("field %q: expected key:type[:opt1,opt2]", spec)
	}
	f := folderconfig.MetadataField{
		Key:      strings.TrimSpace(parts[0]),
		Type:     models.FieldType(strings.ToLower(strings.TrimSpace(parts[1]))),
		Required: required,
		Options:  []string{},
	}
	if len(parts) == 3 {
		for _, opt := range strings.Split(parts[2], ",") {
			f.Options = append(f.Options, strings.TrimSpace(opt))
		}
	}
	return f, nil
}

// parseFields 先处理必填字段，再处理可选字段，各自保持命令行上的顺序。
func parseFields(required, optional []string) ([]folderconfig.MetadataField, error) {
	fields := make([]folderconfig.MetadataField, 0, len(required)+len(optional))
	for _, spec := range required {
		f, err := parseField(spec, true)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	for _, spec := range optional {
		f, err := parseField(spec, false)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// parseMetadata 解析重复的 --meta key=value。
func parseMetadata(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("metadata %q: expected key=value", pair)
		}
		out[strings.TrimSpace(key)] = value
	}
	return out, nil
}
