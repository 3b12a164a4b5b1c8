package mcp

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedFormatter() *Formatter {
	return &Formatter{now: func() time.Time {
		return time.Date(2024, 6, 1, 8, 30, 0, 0, time.FixedZone("CEST", 2*60*60))
	}}
}

func TestContentMarshalJSON(t *testing.T) {
	r := Resource{URI: "file://a.md", Name: "A", Description: "About A", MimeType: "text/markdown"}

	tests := []struct {
		name    string
		content Content
		expect  string
	}{
		{"text", TextContent("hi", nil), `{"type":"text","text":"hi"}`},
		{"image", ImageContent("aGk=", "image/png", nil), `{"type":"image","data":"aGk=","mimeType":"image/png"}`},
		{"audio", AudioContent("aGk=", "audio/wav", nil), `{"type":"audio","data":"aGk=","mimeType":"audio/wav"}`},
		{"resource link", ResourceLinkContent(r, nil), `{"type":"resource_link","uri":"file://a.md","name":"A","description":"About A","mimeType":"text/markdown"}`},
		{"resource", ResourceContent(r, "# A", nil), `{"type":"resource","uri":"file://a.md","name":"A","mimeType":"text/markdown","text":"# A"}`},
		{"annotated", TextContent("x", &Annotations{Priority: 0.5}), `{"type":"text","text":"x","annotations":{"priority":0.5}}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(tc.content)
			require.NoError(t, err)
			assert.JSONEq(t, tc.expect, string(data))
		})
	}

	_, err := json.Marshal(Content{Type: "video"})
	assert.Error(t, err)
}

func TestContentUnmarshalJSON(t *testing.T) {
	var c Content
	require.NoError(t, json.Unmarshal([]byte(`{"type":"resource","uri":"file://x","name":"X","mimeType":"text/plain","text":"body"}`), &c))
	assert.Equal(t, Content{Type: ContentResource, URI: "file://x", Name: "X", MimeType: "text/plain", Text: "body"}, c)
}

func TestFormatterSuccess(t *testing.T) {
	f := fixedFormatter()

	blocks, err := f.Success(map[string]interface{}{"name": "Tom & Jerry", "age": 2})
	require.NoError(t, err)
	require.Len(t, blocks, 1)

	assert.Equal(t, ContentText, blocks[0].Type)
	assert.Equal(t, "{\n  \"age\": 2,\n  \"name\": \"Tom & Jerry\"\n}", blocks[0].Text)
	assert.Equal(t, &Annotations{
		Audience:     []string{"user", "assistant"},
		Priority:     0.8,
		LastModified: "2024-06-01T06:30:00Z",
	}, blocks[0].Annotations)

	plain, err := f.Success("done")
	require.NoError(t, err)
	assert.Equal(t, "done", plain[0].Text)

	_, err = f.Success(make(chan int))
	assert.Error(t, err)
}

func TestFormatterError(t *testing.T) {
	blocks := fixedFormatter().Error("Pet with ID 1 not found")
	require.Len(t, blocks, 1)
	assert.Equal(t, "Error: Pet with ID 1 not found", blocks[0].Text)
	assert.Equal(t, 0.1, blocks[0].Annotations.Priority)
	assert.Equal(t, "error", blocks[0].Annotations.Category)
}

func TestNormalize(t *testing.T) {
	type row struct {
		ID   int64   `json:"id"`
		Tags []int   `json:"tags"`
		Note *string `json:"note"`
	}

	out, err := normalize(&row{ID: 5, Tags: []int{1}})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"id": float64(5), "tags": []interface{}{float64(1)}, "note": nil}, out)
	assert.True(t, isStructured(out))

	list, err := normalize([]row{})
	require.NoError(t, err)
	assert.True(t, isStructured(list))

	scalar, err := normalize("text")
	require.NoError(t, err)
	assert.False(t, isStructured(scalar))
}
