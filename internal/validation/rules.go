package validation

import "strings"

// UniqueRule requires the value to be absent from Table.Column
type UniqueRule struct {
	Table  string
	Column string
}

// ExistsRule requires the value to be present in Table.Column
type ExistsRule struct {
	Table  string
	Column string
}

// FieldRule describes the checks applied to one scalar input field.
// Tag holds go-playground/validator tags such as "max=255" or "number".
// An optional field that is not Nullable may be omitted but not sent empty.
type FieldRule struct {
	Field    string
	Label    string
	Required bool
	Nullable bool
	Tag      string
	Unique   *UniqueRule
	Exists   *ExistsRule
}

// FileRule describes the checks applied to an uploaded file field.
// Mimes lists accepted extensions (jpeg, png, jpg, gif, svg).
type FileRule struct {
	Field    string
	Label    string
	Required bool
	Mimes    []string
	MaxKB    int64
}

// RuleSet is the full set of checks for one operation on one entity
type RuleSet struct {
	Fields []FieldRule
	Files  []FileRule
}

// ImageMimes are the image extensions accepted for uploads
var ImageMimes = []string{"jpeg", "png", "jpg", "gif", "svg"}

func label(field, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return strings.ReplaceAll(field, "_", " ")
}

var mimeByExtension = map[string]string{
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"svg":  "image/svg+xml",
	"webp": "image/webp",
	"bmp":  "image/bmp",
}
