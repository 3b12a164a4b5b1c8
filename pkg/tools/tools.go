package tools

import (
	"errors"
	"fmt"
	"regexp"
)

// Annotations describe how a client should treat a tool
type Annotations struct {
	Audience             []string `json:"audience,omitempty"`
	Priority             float64  `json:"priority,omitempty"`
	Category             string   `json:"category,omitempty"`
	RequiresConfirmation bool     `json:"requiresConfirmation"`
	SensitiveOperation   bool     `json:"sensitiveOperation,omitempty"`
	DestructiveOperation bool     `json:"destructiveOperation,omitempty"`
}

// Tool is the definition of a tool exposed through tools/list
type Tool struct {
	Name         string       `json:"name"`
	Title        string       `json:"title,omitempty"`
	Description  string       `json:"description"`
	InputSchema  Schema       `json:"inputSchema"`
	OutputSchema *Schema      `json:"outputSchema,omitempty"`
	Annotations  *Annotations `json:"annotations,omitempty"`
}

// ErrToolNotFound is returned when a tool is not found
var ErrToolNotFound = errors.New("tool not found")

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidName reports whether name is usable as a tool, resource or prompt name
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// Registry is the immutable tool catalog. It backs both tools/list and
// argument validation.
type Registry struct {
	tools []Tool
	index map[string]int
}

// NewRegistry builds a registry from tool definitions. It panics on an
// invalid or duplicate name, an empty description or a non-object input
// schema, since those are programming errors caught at startup.
func NewRegistry(defs ...Tool) *Registry {
	r := &Registry{
		tools: make([]Tool, 0, len(defs)),
		index: make(map[string]int, len(defs)),
	}
	for _, t := range defs {
		if !ValidName(t.Name) {
			panic(fmt.Sprintf("tools: invalid tool name %q", t.Name))
		}
		if t.Description == "" {
			panic(fmt.Sprintf("tools: tool %q has no description", t.Name))
		}
		if t.InputSchema.Type != "object" {
			panic(fmt.Sprintf("tools: tool %q input schema must be an object", t.Name))
		}
		if _, dup := r.index[t.Name]; dup {
			panic(fmt.Sprintf("tools: duplicate tool %q", t.Name))
		}
		r.index[t.Name] = len(r.tools)
		r.tools = append(r.tools, t)
	}
	return r
}

// GetTool gets a tool by name
func (r *Registry) GetTool(name string) (Tool, bool) {
	i, ok := r.index[name]
	if !ok {
		return Tool{}, false
	}
	return r.tools[i], true
}

// GetAllTools returns the tools in registration order
func (r *Registry) GetAllTools() []Tool {
	out := make([]Tool, len(r.tools))
	copy(out, r.tools)
	return out
}

// Len returns the number of registered tools
func (r *Registry) Len() int {
	return len(r.tools)
}

// Validate checks args against the named tool's input schema
func (r *Registry) Validate(name string, args interface{}) (map[string]interface{}, error) {
	tool, ok := r.GetTool(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return Validate(tool.InputSchema, args)
}
