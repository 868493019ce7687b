package transport

import (
	"context"

	"iris-api/internal/rpc"
	"iris-api/internal/shared"

	"go.uber.org/zap"
)

// PostHandler is the capability surface a streaming HTTP host drives for
// one POST request: begin with the declared length, feed body chunks as
// they arrive, then finish to obtain the response body. The host issues
// the ConnID and keeps the three calls strictly ordered per connection.
type PostHandler interface {
	PostBegin(conn ConnID, uri string, contentLength int) error
	PostData(conn ConnID, chunk []byte) error
	PostFinished(ctx context.Context, conn ConnID) []byte
}

// ContentFunc is the host's static-content lookup hook for GET requests.
type ContentFunc func(path string) (body []byte, contentType string, ok bool)

// Adapter implements PostHandler over a Registry and a Dispatcher.
type Adapter struct {
	reg        *Registry
	dispatcher *rpc.Dispatcher
	log        *zap.SugaredLogger
}

func NewAdapter(reg *Registry, dispatcher *rpc.Dispatcher, log *zap.SugaredLogger) *Adapter {
	return &Adapter{reg: reg, dispatcher: dispatcher, log: log}
}

func (a *Adapter) PostBegin(conn ConnID, uri string, contentLength int) error {
	if contentLength > shared.MaxContentLength {
		return shared.ErrBodyOverflow
	}
	return a.reg.Begin(conn, contentLength)
}

func (a *Adapter) PostData(conn ConnID, chunk []byte) error {
	return a.reg.Append(conn, chunk)
}

// PostFinished consumes the assembled body and dispatches it. A spurious
// finish (unknown conn) produces no response; every real finish produces
// a complete envelope, whatever happened during dispatch.
func (a *Adapter) PostFinished(ctx context.Context, conn ConnID) []byte {
	body, ok := a.reg.Finish(conn)
	if !ok {
		return nil
	}
	return a.dispatcher.Dispatch(ctx, body)
}

// Abort discards conn's pending body after a mid-request failure.
func (a *Adapter) Abort(conn ConnID) {
	a.reg.Discard(conn)
}

// ProtocolError encodes a transport-level violation as an RPC error
// envelope so the client still receives well-formed JSON.
func (a *Adapter) ProtocolError(err error) []byte {
	msg := "invalid request"
	if err != nil {
		msg = err.Error()
	}
	return rpc.EncodeError(nil, shared.CodeInvalidRequest, msg)
}
