package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// ImagePaths is the list of public paths of the files stored for a record.
// It is persisted as a JSON array and never nil once read.
type ImagePaths []string

// Scan accepts a JSON array, a JSON string holding an encoded array, a bare
// JSON string or a plain path. Anything else is logged and read as empty.
func (p *ImagePaths) Scan(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case nil:
		*p = ImagePaths{}
		return nil
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return fmt.Errorf("unsupported image column type %T", value)
	}

	paths, err := decodeImagePaths(raw)
	if err != nil {
		zap.L().Warn("Undecodable image column, treating as empty",
			zap.String("value", raw),
			zap.Error(err))
		paths = ImagePaths{}
	}
	*p = paths
	return nil
}

func decodeImagePaths(raw string) (ImagePaths, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return ImagePaths{}, nil
	}

	switch raw[0] {
	case '[':
		var paths []string
		if err := json.Unmarshal([]byte(raw), &paths); err != nil {
			return nil, err
		}
		return compact(paths), nil
	case '"':
		var inner string
		if err := json.Unmarshal([]byte(raw), &inner); err != nil {
			return nil, err
		}
		return decodeImagePaths(inner)
	case '{':
		return nil, fmt.Errorf("image column holds an object")
	default:
		return ImagePaths{raw}, nil
	}
}

func compact(paths []string) ImagePaths {
	out := make(ImagePaths, 0, len(paths))
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Value encodes the paths as a JSON array
func (p ImagePaths) Value() (driver.Value, error) {
	if p == nil {
		p = ImagePaths{}
	}
	b, err := json.Marshal([]string(p))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// GormDataType implements schema.GormDataTypeInterface
func (ImagePaths) GormDataType() string {
	return "json"
}

// GormDBDataType picks the column type per dialect
func (ImagePaths) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "JSONB"
	case "mysql":
		return "JSON"
	default:
		return "TEXT"
	}
}

// MarshalJSON keeps the empty list as [] rather than null
func (p ImagePaths) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(p))
}

// Clone returns an independent copy
func (p ImagePaths) Clone() ImagePaths {
	out := make(ImagePaths, len(p))
	copy(out, p)
	return out
}
