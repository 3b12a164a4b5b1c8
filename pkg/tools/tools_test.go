package tools

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTool(name string) Tool {
	return Tool{
		Name:        name,
		Description: "A sample tool",
		InputSchema: ObjectSchema(map[string]*Property{
			"name": String("Name").WithLength(1, 10),
		}, "name"),
	}
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry(sampleTool("b_tool"), sampleTool("a-tool"))

	assert.Equal(t, 2, r.Len())
	all := r.GetAllTools()
	require.Len(t, all, 2)
	assert.Equal(t, "b_tool", all[0].Name)

	tool, ok := r.GetTool("a-tool")
	assert.True(t, ok)
	assert.Equal(t, "a-tool", tool.Name)

	_, ok = r.GetTool("missing")
	assert.False(t, ok)
}

func TestNewRegistryPanics(t *testing.T) {
	noDescription := sampleTool("tool")
	noDescription.Description = ""

	notObject := sampleTool("tool")
	notObject.InputSchema.Type = "array"

	tests := []struct {
		name  string
		tools []Tool
	}{
		{"invalid name", []Tool{sampleTool("bad name")}},
		{"empty name", []Tool{sampleTool("")}},
		{"slash in name", []Tool{sampleTool("pets/create")}},
		{"empty description", []Tool{noDescription}},
		{"non-object schema", []Tool{notObject}},
		{"duplicate", []Tool{sampleTool("tool"), sampleTool("tool")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Panics(t, func() { NewRegistry(tt.tools...) })
		})
	}
}

func TestRegistryValidateUnknownTool(t *testing.T) {
	r := NewRegistry(sampleTool("tool"))

	_, err := r.Validate("nope", map[string]interface{}{})
	assert.True(t, errors.Is(err, ErrToolNotFound))

	args, err := r.Validate("tool", map[string]interface{}{"name": "Rex"})
	require.NoError(t, err)
	assert.Equal(t, "Rex", args["name"])
}

func TestObjectSchemaJSON(t *testing.T) {
	data, err := json.Marshal(ObjectSchema(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"object","properties":{},"required":[],"additionalProperties":false}`, string(data))
}

func TestToolJSON(t *testing.T) {
	tool := sampleTool("tool")
	tool.Annotations = &Annotations{
		Audience:             []string{"user", "assistant"},
		Priority:             0.7,
		Category:             "modification",
		RequiresConfirmation: true,
	}

	data, err := json.Marshal(tool)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "tool", decoded["name"])
	assert.NotContains(t, decoded, "outputSchema")

	schema := decoded["inputSchema"].(map[string]interface{})
	assert.Equal(t, false, schema["additionalProperties"])
	name := schema["properties"].(map[string]interface{})["name"].(map[string]interface{})
	assert.Equal(t, float64(1), name["minLength"])
	assert.Equal(t, float64(10), name["maxLength"])

	annotations := decoded["annotations"].(map[string]interface{})
	assert.Equal(t, true, annotations["requiresConfirmation"])
	assert.NotContains(t, annotations, "destructiveOperation")
}

type reflected struct {
	ID        int64     `json:"id" jsonschema:"description=Identifier"`
	Label     *string   `json:"label" jsonschema:"description=Optional label"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

func TestReflect(t *testing.T) {
	schema := Reflect(&reflected{}, "id")

	assert.Equal(t, "object", schema.Type)
	assert.Equal(t, []string{"id"}, schema.Required)
	require.Contains(t, schema.Properties, "id")
	assert.Equal(t, "integer", schema.Properties["id"].Type)
	assert.Equal(t, "Identifier", schema.Properties["id"].Description)
	assert.Equal(t, "string", schema.Properties["label"].Type)
	assert.Equal(t, "array", schema.Properties["tags"].Type)
	require.NotNil(t, schema.Properties["tags"].Items)
	assert.Equal(t, "string", schema.Properties["tags"].Items.Type)
	assert.Equal(t, "date-time", schema.Properties["created_at"].Format)
	assert.True(t, schema.AllowsAdditional())
}

func TestReflectDefaultRequired(t *testing.T) {
	schema := Reflect(&reflected{})
	assert.ElementsMatch(t, []string{"id", "label", "tags", "created_at"}, schema.Required)
}
