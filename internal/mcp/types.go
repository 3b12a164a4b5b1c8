package mcp

import (
	"github.com/FreePeak/pet-mcp-server/pkg/tools"
)

// ProtocolVersion is the MCP revision this server speaks
const ProtocolVersion = "2025-06-18"

// ServerInfo identifies the server in initialize and /mcp/info
type ServerInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// InitializeParams are the parameters of an initialize request
type InitializeParams struct {
	ProtocolVersion *string                `json:"protocolVersion"`
	Capabilities    map[string]interface{} `json:"capabilities"`
	ClientInfo      *struct {
		Name    *string `json:"name"`
		Version *string `json:"version"`
	} `json:"clientInfo"`
}

// InitializeResult represents an initialize response
type InitializeResult struct {
	ProtocolVersion string                 `json:"protocolVersion"`
	Capabilities    map[string]interface{} `json:"capabilities"`
	ServerInfo      ServerInfo             `json:"serverInfo"`
}

// ListToolsResult is returned by tools/list
type ListToolsResult struct {
	Tools []tools.Tool `json:"tools"`
}

// CallToolParams are the parameters of tools/call
type CallToolParams struct {
	Name      string      `json:"name"`
	Arguments interface{} `json:"arguments"`
}

// ToolError classifies a tool-level failure
type ToolError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Notifications tells the client which catalogs a tool call may have changed
type Notifications struct {
	ToolsListChanged     bool `json:"tools_list_changed"`
	ResourcesListChanged bool `json:"resources_list_changed"`
	PromptsListChanged   bool `json:"prompts_list_changed"`
}

// Any reports whether at least one flag is set
func (n Notifications) Any() bool {
	return n.ToolsListChanged || n.ResourcesListChanged || n.PromptsListChanged
}

// CallToolResult is returned by tools/call, for failures too
type CallToolResult struct {
	Content           []Content      `json:"content"`
	StructuredContent interface{}    `json:"structuredContent,omitempty"`
	IsError           bool           `json:"isError"`
	Error             *ToolError     `json:"error,omitempty"`
	Notifications     *Notifications `json:"notifications,omitempty"`
}

// Resource represents a readable resource
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MimeType    string `json:"mimeType"`
}

// ListResourcesResult is returned by resources/list
type ListResourcesResult struct {
	Resources []Resource `json:"resources"`
}

// ReadResourceResult is returned by resources/read
type ReadResourceResult struct {
	Contents []Content `json:"contents"`
}

// SubscribeResult is returned by resources/subscribe
type SubscribeResult struct {
	Message        string `json:"message"`
	URI            string `json:"uri"`
	SubscriptionID string `json:"subscription_id"`
	Status         string `json:"status"`
}

// PromptArgument describes one prompt argument
type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Prompt represents a prompt definition
type Prompt struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Arguments   []PromptArgument `json:"arguments"`
}

// ListPromptsResult is returned by prompts/list
type ListPromptsResult struct {
	Prompts []Prompt `json:"prompts"`
}

// PromptMessage is one role-tagged message of a rendered prompt
type PromptMessage struct {
	Role    string  `json:"role"`
	Content Content `json:"content"`
}

// GetPromptResult is returned by prompts/get
type GetPromptResult struct {
	Description string          `json:"description"`
	Messages    []PromptMessage `json:"messages"`
}

// SetLevelResult is returned by logging/setLevel
type SetLevelResult struct {
	Message string `json:"message"`
	Level   string `json:"level"`
}
