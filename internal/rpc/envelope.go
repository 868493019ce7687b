// Package rpc implements the request/response envelope, method table and
// dispatch core of the JSON-RPC surface.
package rpc

import "encoding/json"

// Request is the wire envelope of one call. Params is kept raw and handed
// to the handler untouched; a null or absent params is valid.
type Request struct {
	ID     *int64          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

// Response is the wire envelope of one outcome. Exactly one of Result and
// Error is set. A nil ID marshals as null, which is what a caller gets
// when parsing failed before an id could be read.
type Response struct {
	ID     *int64          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *ErrorObject    `json:"error,omitempty"`
}

type ErrorObject struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
