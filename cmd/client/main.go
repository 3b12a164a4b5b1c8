// Command client sends JSON-RPC requests to a running pet MCP server over
// HTTP. It initializes a session, then lists the tools or calls one.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/FreePeak/pet-mcp-server/internal/mcp"
	"github.com/FreePeak/pet-mcp-server/pkg/jsonrpc"
)

type client struct {
	url    string
	http   *http.Client
	nextID int
}

func (c *client) call(method string, params interface{}) (*jsonrpc.Response, error) {
	c.nextID++
	req := jsonrpc.Request{
		JSONRPC: jsonrpc.Version,
		ID:      json.RawMessage(fmt.Sprintf("%d", c.nextID)),
		Method:  method,
	}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("failed to encode params: %w", err)
		}
		req.Params = raw
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpResp, err := c.http.Post(c.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp jsonrpc.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("invalid response (HTTP %d): %s", httpResp.StatusCode, string(data))
	}
	return &resp, nil
}

func main() {
	url := flag.String("url", "http://localhost:9090/mcp", "MCP endpoint")
	tool := flag.String("tool", "", "Tool to call; lists tools when empty")
	args := flag.String("args", "{}", "Tool arguments as a JSON object")
	flag.Parse()

	c := &client{url: *url, http: &http.Client{Timeout: 30 * time.Second}}

	initResp, err := c.call("initialize", map[string]interface{}{
		"protocolVersion": mcp.ProtocolVersion,
		"capabilities":    map[string]interface{}{},
		"clientInfo":      map[string]string{"name": "pet-mcp-client", "version": "1.0.0"},
	})
	exitOnError(initResp, err)
	_, err = c.call("notifications/initialized", nil)
	exitOnError(nil, err)

	var resp *jsonrpc.Response
	if *tool == "" {
		resp, err = c.call("tools/list", nil)
	} else {
		var arguments map[string]interface{}
		if err := json.Unmarshal([]byte(*args), &arguments); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid -args: %v\n", err)
			os.Exit(2)
		}
		resp, err = c.call("tools/call", map[string]interface{}{"name": *tool, "arguments": arguments})
	}
	exitOnError(resp, err)

	out, _ := json.MarshalIndent(resp.Result, "", "  ")
	fmt.Println(string(out))
}

func exitOnError(resp *jsonrpc.Response, err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if resp != nil && resp.Error != nil {
		fmt.Fprintf(os.Stderr, "%s (%v)\n", resp.Error.Message, resp.Error.Data)
		os.Exit(1)
	}
}
