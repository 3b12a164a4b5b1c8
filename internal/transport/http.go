package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/FreePeak/pet-mcp-server/internal/logger"
	"github.com/FreePeak/pet-mcp-server/pkg/jsonrpc"
)

const (
	headerContentType = "Content-Type"
	contentTypeJSON   = "application/json"

	// maxBodyBytes caps a single JSON-RPC request body
	maxBodyBytes = 1 << 20
)

// HTTPHandler is the interface required by the HTTP transport
type HTTPHandler interface {
	Dispatcher
	InfoProvider
}

// HTTPTransport serves JSON-RPC over POST /mcp and server info over GET /mcp/info
type HTTPTransport struct {
	handler HTTPHandler
	server  *http.Server
}

// NewHTTPTransport creates an HTTP transport listening on port
func NewHTTPTransport(handler HTTPHandler, port int) *HTTPTransport {
	t := &HTTPTransport{handler: handler}
	t.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           t.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return t
}

// Routes returns the transport's HTTP routes
func (t *HTTPTransport) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/mcp", t.HandleMessage)
	mux.HandleFunc("/mcp/info", t.HandleInfo)
	return mux
}

// Start serves until the server is shut down
func (t *HTTPTransport) Start() error {
	logger.Info("Server listening on %s", t.server.Addr)
	if err := t.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully
func (t *HTTPTransport) Shutdown(ctx context.Context) error {
	return t.server.Shutdown(ctx)
}

// HandleMessage handles one JSON-RPC request posted to /mcp
func (t *HTTPTransport) HandleMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		logger.Warn("Rejected request body over %d bytes", tooLarge.Limit)
		writeJSON(w, http.StatusRequestEntityTooLarge, jsonrpc.NewErrorResponse(nil,
			jsonrpc.InvalidRequestError(fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))))
		return
	}
	if err != nil {
		logger.Error("Failed to read request body: %v", err)
		writeJSON(w, http.StatusBadRequest, jsonrpc.NewErrorResponse(nil, jsonrpc.ParseError(err.Error())))
		return
	}
	logger.RequestLog(r.Method, r.URL.String(), "", string(body))

	resp := t.handler.Handle(r.Context(), body)
	status := jsonrpc.HTTPStatus(resp)
	writeJSON(w, status, resp)
}

// HandleInfo reports the server's catalogs and current log level
func (t *HTTPTransport) HandleInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, t.handler.Info())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error("Failed to marshal response: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set(headerContentType, contentTypeJSON)
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logger.Error("Failed to write response: %v", err)
		return
	}
	logger.ResponseLog(status, "", string(data))
}
