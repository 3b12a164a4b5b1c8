package mcp

import (
	"context"
	"fmt"

	"github.com/FreePeak/pet-mcp-server/internal/logger"
	"github.com/FreePeak/pet-mcp-server/pkg/jsonrpc"
)

// Handle processes one raw JSON-RPC message and returns the response to send.
// It never returns nil; transports decide whether a notification's response
// is written.
func (h *Handler) Handle(ctx context.Context, raw []byte) *jsonrpc.Response {
	req, rpcErr := jsonrpc.DecodeRequest(raw)
	if rpcErr != nil {
		logger.Debug("Rejected request: %s (%v)", rpcErr.Message, rpcErr.Data)
		return jsonrpc.NewErrorResponse(req.ID, rpcErr)
	}

	result, rpcErr := h.dispatch(ctx, req)
	logRequestResponse(req, h.state, result, rpcErr)
	return jsonrpc.NewResponse(req, result, rpcErr)
}

// dispatch routes req through the method table. A panicking handler becomes
// an InternalError carrying the panic value.
func (h *Handler) dispatch(ctx context.Context, req *jsonrpc.Request) (result interface{}, rpcErr *jsonrpc.Error) {
	handler, ok := h.methodHandlers[req.Method]
	if !ok {
		logger.Warn("Method not found: %s", req.Method)
		return nil, jsonrpc.NewError(jsonrpc.MethodNotFoundCode, fmt.Sprintf("Method not found: %s", req.Method), nil)
	}

	defer func() {
		if r := recover(); r != nil {
			logger.ErrorWithStack(fmt.Errorf("panic in %s: %v", req.Method, r))
			result = nil
			rpcErr = jsonrpc.InternalError(fmt.Sprint(r))
		}
	}()

	return handler(ctx, req)
}
