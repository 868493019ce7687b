package shared

import (
	"errors"
	"fmt"
)

// JSON-RPC error codes. The protocol codes follow the usual JSON-RPC
// assignments; CodeHardware is the reserved code the device firmware has
// always used for handler-level hardware failures, kept for client
// compatibility.
const (
	CodeParse          = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternal       = -32603

	CodeHardware = -1
)

// RPCError is returned by a method handler when it wants a specific code
// and message on the wire. Any other error bubbling out of a handler is
// reported to the caller as CodeInternal, with the error text as message.
type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Messages are fixed strings clients match on; do not reword.
var (
	ErrCameraCapture = &RPCError{Code: CodeHardware, Message: "Failed to get image from camera."}
	ErrInvokeFailed  = &RPCError{Code: CodeHardware, Message: "Invoke failed"}
)

// RequestError is used by plain HTTP routes (not the RPC surface) when a
// specific status code and message should be returned.
type RequestError struct {
	StatusCode int
	Err        error
}

func (r *RequestError) Error() string {
	return fmt.Sprintf("status %d: err %v", r.StatusCode, r.Err)
}

var (
	ErrMissingAuth   = &RequestError{Err: errors.New("missing authorization header"), StatusCode: 401}
	ErrInvalidFormat = &RequestError{Err: errors.New("invalid authentication format"), StatusCode: 401}

	ErrInternalServerError = &RequestError{Err: errors.New("internal server error"), StatusCode: 500}
)

// Transport-level protocol violations, surfaced by the connection buffer
// registry. These never reach the wire as-is; the lifecycle adapter wraps
// them into an invalid-request envelope.
var (
	ErrConnInUse    = errors.New("connection already has a pending body")
	ErrUnknownConn  = errors.New("unknown connection")
	ErrBodyOverflow = errors.New("body exceeds declared content length")
)
