package jsonrpc

import (
	"bytes"
	"encoding/json"
)

// DecodeRequest parses a raw JSON-RPC envelope and checks the protocol invariants.
// On failure it returns the request decoded so far (so the id can be echoed) and
// the protocol error to send back.
func DecodeRequest(raw []byte) (*Request, *Error) {
	if !json.Valid(raw) {
		return &Request{}, ParseError("request body is not valid JSON")
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return &Request{}, InvalidRequestError("request must be a JSON object")
	}

	req := &Request{}

	if id, ok := envelope["id"]; ok {
		if !validID(id) {
			return req, InvalidRequestError("id must be a string, number or null")
		}
		req.ID = id
	}

	version, ok := envelope["jsonrpc"]
	if !ok {
		return req, InvalidRequestError("missing jsonrpc version")
	}
	if err := json.Unmarshal(version, &req.JSONRPC); err != nil || req.JSONRPC != Version {
		return req, InvalidRequestError("jsonrpc must be \"2.0\"")
	}

	method, ok := envelope["method"]
	if !ok {
		return req, InvalidRequestError("Missing method")
	}
	if err := json.Unmarshal(method, &req.Method); err != nil || req.Method == "" {
		return req, InvalidRequestError("method must be a non-empty string")
	}

	req.Params = envelope["params"]

	return req, nil
}

// validID accepts strings, numbers and null
func validID(id json.RawMessage) bool {
	trimmed := bytes.TrimSpace(id)
	if len(trimmed) == 0 {
		return false
	}
	switch trimmed[0] {
	case '"', 'n', '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return true
	default:
		return false
	}
}
