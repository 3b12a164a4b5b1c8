package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/FreePeak/pet-mcp-server/internal/logger"
	"github.com/FreePeak/pet-mcp-server/internal/pets"
	"github.com/FreePeak/pet-mcp-server/internal/session"
	"github.com/FreePeak/pet-mcp-server/pkg/jsonrpc"
	"github.com/FreePeak/pet-mcp-server/pkg/tools"
)

// Helper function to log request and response together
func logRequestResponse(req *jsonrpc.Request, state *session.State, response interface{}, err *jsonrpc.Error) {
	reqJSON, _ := json.Marshal(req)

	var respJSON []byte
	if err != nil {
		respJSON, _ = json.Marshal(err)
	} else {
		respJSON, _ = json.Marshal(response)
	}

	requestID := "null"
	if len(req.ID) > 0 {
		requestID = string(req.ID)
	}

	sessionID := "unknown"
	if state != nil {
		sessionID = state.ID
	}

	logger.RequestResponseLog(
		fmt.Sprintf("%s [ID:%s]", req.Method, requestID),
		sessionID,
		string(reqJSON),
		string(respJSON),
	)
}

// MethodHandler handles one JSON-RPC method
type MethodHandler func(ctx context.Context, req *jsonrpc.Request) (interface{}, *jsonrpc.Error)

// Handler handles MCP requests
type Handler struct {
	toolRegistry   *tools.Registry
	executor       *Executor
	resources      *ResourceCatalog
	prompts        *PromptRenderer
	formatter      *Formatter
	state          *session.State
	serverInfo     ServerInfo
	methodHandlers map[string]MethodHandler

	// levelMu keeps the session level and the process logger level in step
	levelMu sync.Mutex
}

// NewHandler creates a new Handler serving the pet tools backed by repo
func NewHandler(repo pets.Repository, state *session.State, info ServerInfo) *Handler {
	h := &Handler{
		toolRegistry: NewToolRegistry(),
		executor:     NewExecutor(repo),
		resources:    NewResourceCatalog(),
		prompts:      NewPromptRenderer(),
		formatter:    NewFormatter(),
		state:        state,
		serverInfo:   info,
	}

	for _, t := range h.toolRegistry.GetAllTools() {
		if !h.executor.Has(t.Name) {
			panic(fmt.Sprintf("mcp: tool %q has no executor", t.Name))
		}
	}

	h.methodHandlers = map[string]MethodHandler{
		"initialize":                h.Initialize,
		"initialized":               h.HandleInitialized,
		"notifications/initialized": h.HandleInitialized,
		"ping":                      h.Ping,
		"tools/list":                h.ListTools,
		"tools/call":                h.ExecuteTool,
		"resources/list":            h.ListResources,
		"resources/read":            h.ReadResource,
		"resources/subscribe":       h.SubscribeResource,
		"prompts/list":              h.ListPrompts,
		"prompts/get":               h.GetPrompt,
		"logging/setLevel":          h.SetLogLevel,
	}

	return h
}

// State returns the session state shared by all requests
func (h *Handler) State() *session.State {
	return h.state
}

// decodeParams unmarshals req.Params into v. Absent or null params leave v
// untouched; anything other than an object is InvalidParams.
func decodeParams(req *jsonrpc.Request, v interface{}) *jsonrpc.Error {
	if !req.HasParams() {
		return nil
	}
	trimmed := strings.TrimSpace(string(req.Params))
	if !strings.HasPrefix(trimmed, "{") {
		return jsonrpc.NewError(jsonrpc.InvalidParamsCode, "params must be an object", nil)
	}
	if err := json.Unmarshal(req.Params, v); err != nil {
		logger.Debug("Failed to unmarshal %s params: %v", req.Method, err)
		return jsonrpc.InvalidParamsError(err.Error())
	}
	return nil
}

func invalidParams(format string, args ...interface{}) *jsonrpc.Error {
	return jsonrpc.NewError(jsonrpc.InvalidParamsCode, fmt.Sprintf(format, args...), nil)
}

// Initialize handles the initialize request
func (h *Handler) Initialize(ctx context.Context, req *jsonrpc.Request) (interface{}, *jsonrpc.Error) {
	logger.Debug("Handling initialize request")

	var params InitializeParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	if params.ProtocolVersion == nil {
		return nil, invalidParams("Missing required field: protocolVersion")
	}
	if params.ClientInfo == nil || params.ClientInfo.Name == nil || params.ClientInfo.Version == nil {
		return nil, invalidParams("Missing required field: clientInfo (name and version)")
	}

	client := session.ClientInfo{Name: *params.ClientInfo.Name, Version: *params.ClientInfo.Version}
	logger.Info("Client connected: %s v%s", client.Name, client.Version)

	if *params.ProtocolVersion != ProtocolVersion {
		logger.Warn("Client requested protocol version %s, server speaks %s", *params.ProtocolVersion, ProtocolVersion)
	}

	if params.Capabilities != nil {
		capsJSON, _ := json.Marshal(params.Capabilities)
		logger.Debug("Client capabilities: %s", string(capsJSON))
	}
	h.state.Initialize(*params.ProtocolVersion, client, params.Capabilities)

	logger.Info("Available tools: %s", h.ListAvailableTools())

	return &InitializeResult{
		ProtocolVersion: ProtocolVersion,
		Capabilities:    ServerCapabilities(),
		ServerInfo:      h.serverInfo,
	}, nil
}

// ServerCapabilities is the fixed capability set advertised during initialize
func ServerCapabilities() map[string]interface{} {
	return map[string]interface{}{
		"tools":     map[string]interface{}{"listChanged": true},
		"resources": map[string]interface{}{"subscribe": true, "listChanged": true},
		"prompts":   map[string]interface{}{"listChanged": true},
		"logging":   map[string]interface{}{},
	}
}

// HandleInitialized handles the initialized acknowledgement
func (h *Handler) HandleInitialized(ctx context.Context, req *jsonrpc.Request) (interface{}, *jsonrpc.Error) {
	logger.Debug("Handling %s request", req.Method)
	h.state.MarkInitialized()
	return map[string]interface{}{}, nil
}

// Ping answers liveness checks
func (h *Handler) Ping(ctx context.Context, req *jsonrpc.Request) (interface{}, *jsonrpc.Error) {
	return map[string]interface{}{}, nil
}

// ListTools handles the tools/list request
func (h *Handler) ListTools(ctx context.Context, req *jsonrpc.Request) (interface{}, *jsonrpc.Error) {
	allTools := h.toolRegistry.GetAllTools()
	logger.Debug("Returning %d tools: %s", len(allTools), h.ListAvailableTools())
	return &ListToolsResult{Tools: allTools}, nil
}

// ListAvailableTools returns a comma-separated list of tool names
func (h *Handler) ListAvailableTools() string {
	allTools := h.toolRegistry.GetAllTools()
	names := make([]string, len(allTools))
	for i, t := range allTools {
		names[i] = t.Name
	}
	return strings.Join(names, ", ")
}

// ExecuteTool handles the tools/call request. Validation and domain failures
// are returned as an isError result, not as a JSON-RPC error.
func (h *Handler) ExecuteTool(ctx context.Context, req *jsonrpc.Request) (interface{}, *jsonrpc.Error) {
	var params CallToolParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	if params.Name == "" {
		return nil, invalidParams("Missing tool name")
	}

	args, err := h.toolRegistry.Validate(params.Name, params.Arguments)
	if err != nil {
		if errors.Is(err, tools.ErrToolNotFound) {
			logger.Warn("Tool not found: %s", params.Name)
			return nil, invalidParams("Tool not found: %s", params.Name)
		}
		return h.toolFailure(params.Name, err)
	}

	result, err := h.executor.Execute(ctx, params.Name, args)
	if err != nil {
		return h.toolFailure(params.Name, err)
	}

	content, err := h.formatter.Success(result)
	if err != nil {
		return nil, jsonrpc.InternalError(err.Error())
	}

	callResult := &CallToolResult{
		Content:       content,
		IsError:       false,
		Notifications: notificationsFor(params.Name),
	}
	if isStructured(result) {
		callResult.StructuredContent = result
	}

	logger.Debug("Tool %s executed successfully", params.Name)
	return callResult, nil
}

// toolFailure turns a validation or domain error into an isError result.
// Any other error is internal.
func (h *Handler) toolFailure(name string, err error) (interface{}, *jsonrpc.Error) {
	code, ok := toolErrorCode(err)
	if !ok {
		logger.Error("Tool %s failed: %v", name, err)
		return nil, jsonrpc.InternalError(err.Error())
	}

	logger.Debug("Tool %s returned %s: %v", name, code, err)
	return &CallToolResult{
		Content: h.formatter.Error(err.Error()),
		IsError: true,
		Error:   &ToolError{Code: code, Message: err.Error()},
	}, nil
}

// toolErrorCode maps an error onto its stable tool error code by kind
func toolErrorCode(err error) (string, bool) {
	var validationErr *tools.ValidationError
	if errors.As(err, &validationErr) {
		return "validation_error", true
	}
	if kind := pets.KindOf(err); kind != 0 {
		return kind.String(), true
	}
	return "", false
}

// ListResources handles the resources/list request
func (h *Handler) ListResources(ctx context.Context, req *jsonrpc.Request) (interface{}, *jsonrpc.Error) {
	return &ListResourcesResult{Resources: h.resources.List()}, nil
}

type uriParams struct {
	URI string `json:"uri"`
}

// ReadResource handles the resources/read request
func (h *Handler) ReadResource(ctx context.Context, req *jsonrpc.Request) (interface{}, *jsonrpc.Error) {
	var params uriParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	if params.URI == "" {
		return nil, invalidParams("Missing required field: uri")
	}

	resource, body, ok := h.resources.Get(params.URI)
	if !ok {
		return nil, invalidParams("Resource not found: %s", params.URI)
	}
	return &ReadResourceResult{Contents: h.formatter.Resource(resource, body)}, nil
}

// SubscribeResource handles the resources/subscribe request
func (h *Handler) SubscribeResource(ctx context.Context, req *jsonrpc.Request) (interface{}, *jsonrpc.Error) {
	var params uriParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	if params.URI == "" {
		return nil, invalidParams("Missing required field: uri")
	}
	if _, _, ok := h.resources.Get(params.URI); !ok {
		return nil, invalidParams("Resource not found: %s", params.URI)
	}

	sub := h.state.Subscribe(params.URI)
	logger.Info("Subscribed to resource %s (%s)", sub.URI, sub.ID)

	return &SubscribeResult{
		Message:        fmt.Sprintf("Successfully subscribed to resource: %s", sub.URI),
		URI:            sub.URI,
		SubscriptionID: sub.ID,
		Status:         "active",
	}, nil
}

// ListPrompts handles the prompts/list request
func (h *Handler) ListPrompts(ctx context.Context, req *jsonrpc.Request) (interface{}, *jsonrpc.Error) {
	return &ListPromptsResult{Prompts: h.prompts.List()}, nil
}

// GetPrompt handles the prompts/get request
func (h *Handler) GetPrompt(ctx context.Context, req *jsonrpc.Request) (interface{}, *jsonrpc.Error) {
	var params struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	}
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	if params.Name == "" {
		return nil, invalidParams("Missing required field: name")
	}

	result, err := h.prompts.Render(params.Name, params.Arguments)
	if err != nil {
		if errors.Is(err, ErrPromptNotFound) {
			return nil, invalidParams("Prompt not found: %s", params.Name)
		}
		return nil, invalidParams("%s", err.Error())
	}
	return result, nil
}

// SetLogLevel handles the logging/setLevel request
func (h *Handler) SetLogLevel(ctx context.Context, req *jsonrpc.Request) (interface{}, *jsonrpc.Error) {
	var params struct {
		Level *string `json:"level"`
	}
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	if params.Level == nil {
		return nil, invalidParams("Missing required field: level")
	}

	level := *params.Level
	h.levelMu.Lock()
	if err := h.state.SetLogLevel(level); err != nil {
		h.levelMu.Unlock()
		return nil, invalidParams("Invalid log level: %s. Must be one of: %s", level, strings.Join(session.LogLevels, ", "))
	}
	logger.SetMCPLevel(level)
	h.levelMu.Unlock()
	logger.Info("Logging level set to %s", level)

	return &SetLevelResult{
		Message: fmt.Sprintf("Logging level set to %s", level),
		Level:   level,
	}, nil
}

// Info describes the server for the /mcp/info endpoint
func (h *Handler) Info() map[string]interface{} {
	toolNames := make([]string, 0, h.toolRegistry.Len())
	for _, t := range h.toolRegistry.GetAllTools() {
		toolNames = append(toolNames, t.Name)
	}
	resourceNames := h.resources.Names()
	promptNames := h.prompts.Names()

	return map[string]interface{}{
		"server": map[string]interface{}{
			"name":             h.serverInfo.Name,
			"version":          h.serverInfo.Version,
			"description":      h.serverInfo.Description,
			"protocol_version": ProtocolVersion,
		},
		"capabilities": map[string]interface{}{
			"tools": map[string]interface{}{
				"count":     len(toolNames),
				"available": toolNames,
			},
			"resources": map[string]interface{}{
				"count":     len(resourceNames),
				"available": resourceNames,
			},
			"prompts": map[string]interface{}{
				"count":     len(promptNames),
				"available": promptNames,
			},
			"logging": map[string]interface{}{
				"current_level":    h.state.LogLevel(),
				"supported_levels": session.LogLevels,
			},
		},
	}
}
