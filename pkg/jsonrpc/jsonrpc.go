package jsonrpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	// Version is the JSON-RPC version
	Version = "2.0"
)

// nullID is the id used when the request id cannot be recovered
var nullID = json.RawMessage("null")

// Request represents a JSON-RPC request.
// ID is kept as raw bytes so it can be echoed back without coercion.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification returns true if the request is a notification (no ID member)
func (r *Request) IsNotification() bool {
	return len(r.ID) == 0
}

// HasParams reports whether params were supplied and are not JSON null
func (r *Request) HasParams() bool {
	trimmed := bytes.TrimSpace(r.Params)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, nullID)
}

// Response represents a JSON-RPC response. Exactly one of Result and Error is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error represents a JSON-RPC error
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Standard error codes as defined in the JSON-RPC 2.0 spec
const (
	ParseErrorCode     = -32700
	InvalidRequestCode = -32600
	MethodNotFoundCode = -32601
	InvalidParamsCode  = -32602
	InternalErrorCode  = -32603
)

// Error returns a string representation of the error
func (e *Error) Error() string {
	return fmt.Sprintf("JSON-RPC error %d: %s", e.Code, e.Message)
}

// NewResponse creates a new response for the given request
func NewResponse(req *Request, result interface{}, err *Error) *Response {
	var id json.RawMessage
	if req != nil {
		id = req.ID
	}
	return newResponse(id, result, err)
}

// NewErrorResponse creates an error response carrying the given raw id
func NewErrorResponse(id json.RawMessage, err *Error) *Response {
	return newResponse(id, nil, err)
}

func newResponse(id json.RawMessage, result interface{}, err *Error) *Response {
	if len(id) == 0 {
		id = nullID
	}

	resp := &Response{
		JSONRPC: Version,
		ID:      id,
	}

	if err != nil {
		resp.Error = err
	} else {
		if result == nil {
			result = map[string]interface{}{}
		}
		resp.Result = result
	}

	return resp
}

// NewError creates a new Error with the given code and message
func NewError(code int, message string, data interface{}) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// ParseError creates a parse error
func ParseError(data interface{}) *Error {
	return NewError(ParseErrorCode, "Parse error", data)
}

// InvalidRequestError creates an invalid request error
func InvalidRequestError(data interface{}) *Error {
	return NewError(InvalidRequestCode, "Invalid Request", data)
}

// MethodNotFoundError creates a method not found error
func MethodNotFoundError(data interface{}) *Error {
	return NewError(MethodNotFoundCode, "Method not found", data)
}

// InvalidParamsError creates an invalid params error
func InvalidParamsError(data interface{}) *Error {
	return NewError(InvalidParamsCode, "Invalid params", data)
}

// InternalError creates an internal error
func InternalError(data interface{}) *Error {
	return NewError(InternalErrorCode, "Internal error", data)
}

// HTTPStatus maps a response onto the status code an HTTP transport should use.
// Tool-level failures travel inside a successful result and map to 200.
func HTTPStatus(resp *Response) int {
	if resp == nil || resp.Error == nil {
		return http.StatusOK
	}

	switch resp.Error.Code {
	case ParseErrorCode, InvalidRequestCode, InvalidParamsCode:
		return http.StatusBadRequest
	case MethodNotFoundCode:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
