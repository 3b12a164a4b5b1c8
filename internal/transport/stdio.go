package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/FreePeak/pet-mcp-server/internal/logger"
	"github.com/FreePeak/pet-mcp-server/pkg/jsonrpc"
)

// maxLineBytes caps one line-delimited message
const maxLineBytes = 4 << 20

// StdioTransport reads one JSON-RPC message per line and writes one response
// per line. Requests without an id get no response.
type StdioTransport struct {
	handler Dispatcher
	in      io.Reader
	out     io.Writer
	mu      sync.Mutex
}

// NewStdioTransport creates a stdio transport over in and out
func NewStdioTransport(handler Dispatcher, in io.Reader, out io.Writer) *StdioTransport {
	return &StdioTransport{handler: handler, in: in, out: out}
}

// Run processes messages until in reaches EOF or ctx is cancelled
func (t *StdioTransport) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(t.in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		logger.Debug("Received request: %s", line)

		resp := t.handler.Handle(ctx, []byte(line))
		if isNotification(line, resp) {
			continue
		}
		if err := t.write(resp); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading from stdin: %w", err)
	}
	logger.Info("Received EOF on stdin, shutting down")
	return nil
}

// isNotification reports whether line was a well-formed request without an
// id. Error responses to malformed input are always written.
func isNotification(line string, resp *jsonrpc.Response) bool {
	if resp.Error != nil {
		switch resp.Error.Code {
		case jsonrpc.ParseErrorCode, jsonrpc.InvalidRequestCode:
			return false
		}
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(line), &probe); err != nil {
		return false
	}
	_, hasID := probe["id"]
	return !hasID
}

func (t *StdioTransport) write(resp *jsonrpc.Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		logger.Error("Failed to marshal response: %v", err)
		data, err = json.Marshal(jsonrpc.NewErrorResponse(resp.ID, jsonrpc.InternalError("failed to marshal response")))
		if err != nil {
			return err
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := fmt.Fprintf(t.out, "%s\n", data); err != nil {
		logger.Error("Error writing to stdout: %v", err)
		return err
	}
	logger.Debug("Sending response: %s", string(data))
	return nil
}
