package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImagePaths_Scan(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  ImagePaths
	}{
		{"null column", nil, ImagePaths{}},
		{"json array", []byte(`["storage/unit/a.png","storage/unit/b.png"]`), ImagePaths{"storage/unit/a.png", "storage/unit/b.png"}},
		{"double encoded array", `"[\"storage/unit/a.png\"]"`, ImagePaths{"storage/unit/a.png"}},
		{"bare json string", `"storage/residential_estate/a.jpg"`, ImagePaths{"storage/residential_estate/a.jpg"}},
		{"plain legacy path", "storage/residential_estate/a.jpg", ImagePaths{"storage/residential_estate/a.jpg"}},
		{"empty string", "", ImagePaths{}},
		{"blank entries dropped", `["", " storage/unit/a.png "]`, ImagePaths{"storage/unit/a.png"}},
		{"broken json", `["storage/unit/a.png"`, ImagePaths{}},
		{"object", `{"a":1}`, ImagePaths{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p ImagePaths
			require.NoError(t, p.Scan(tt.value))
			assert.Equal(t, tt.want, p)
		})
	}
}

func TestImagePaths_ScanUnsupportedType(t *testing.T) {
	var p ImagePaths
	assert.Error(t, p.Scan(42))
}

func TestImagePaths_Value(t *testing.T) {
	v, err := ImagePaths{"storage/unit/a.png"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["storage/unit/a.png"]`, v)

	var empty ImagePaths
	v, err = empty.Value()
	require.NoError(t, err)
	assert.Equal(t, `[]`, v)
}

func TestImagePaths_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Images ImagePaths `json:"images"`
	}{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"images":[]}`, string(b))
}
