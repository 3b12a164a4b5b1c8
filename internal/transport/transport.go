// Package transport carries JSON-RPC messages between clients and the MCP
// handler over HTTP or stdio.
package transport

import (
	"context"

	"github.com/FreePeak/pet-mcp-server/pkg/jsonrpc"
)

// Dispatcher processes one raw JSON-RPC message
type Dispatcher interface {
	Handle(ctx context.Context, raw []byte) *jsonrpc.Response
}

// InfoProvider describes the server for the info endpoint
type InfoProvider interface {
	Info() map[string]interface{}
}
