package odoo

import (
	"encoding/json"
	"strings"
)

// rpcRequest is the envelope of a JSON-RPC 2.0 call.
type rpcRequest struct {
	Jsonrpc string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
	ID      int64     `json:"id"`
}

// rpcParams addresses a method on one of the backend services.
type rpcParams struct {
	Service string `json:"service"`
	Method  string `json:"method"`
	Args    []any  `json:"args"`
}

// rpcResponse is the envelope of a JSON-RPC 2.0 reply.
type rpcResponse struct {
	Jsonrpc string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

// rpcError is the backend fault payload. The outer message is generic
// ("Odoo Server Error"); the meaningful text sits in data.message.
type rpcError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Data    rpcErrorData `json:"data"`
}

type rpcErrorData struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

func (e *rpcError) describe() string {
	if e.Data.Message != "" {
		return e.Data.Message
	}
	return e.Message
}

func (e *rpcError) isAccessDenied() bool {
	return strings.Contains(e.Data.Name, "AccessDenied") ||
		strings.Contains(e.Data.Name, "AccessError") ||
		strings.Contains(strings.ToLower(e.describe()), "access denied")
}
