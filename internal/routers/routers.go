// Package routers binds the lifecycle adapter to the echo server: the
// POST surface streams bodies through the PostHandler hooks, GET falls
// through to the static content hook.
package routers

import (
	"io"
	"net/http"
	"sync/atomic"

	"iris-api/internal/setup"
	"iris-api/internal/shared"
	"iris-api/internal/transport"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type RPCRouter struct {
	handler transport.PostHandler
	proto   func(error) []byte
	abort   func(transport.ConnID)
	conns   atomic.Uint64
}

// RegisterRPCRoutes mounts the RPC POST surface. Every POST path is the
// RPC endpoint, mirroring the single-POST-surface device servers this
// replaces; /jsonrpc is the documented one.
func RegisterRPCRoutes(e *echo.Group, adapter *transport.Adapter, log *zap.SugaredLogger) error {
	if adapter == nil {
		return shared.ErrInternalServerError
	}
	rr := &RPCRouter{handler: adapter, proto: adapter.ProtocolError, abort: adapter.Abort}
	e.POST("/*", rr.Post)
	return nil
}

// Post drives one request through the begin/data/finished hooks. The
// three calls for one connection run sequentially on this goroutine,
// which is the ordering guarantee the registry relies on.
func (rr *RPCRouter) Post(cc echo.Context) error {
	c := cc.(*setup.Context)
	req := c.Request()

	conn := transport.ConnID(rr.conns.Add(1))
	declared := int(req.ContentLength)

	if err := rr.handler.PostBegin(conn, req.URL.Path, declared); err != nil {
		c.Log.Warnw("rejecting post body", "error", err.Error())
		return c.JSONBlob(http.StatusBadRequest, rr.proto(err))
	}

	buf := make([]byte, shared.BodyChunkSize)
	for {
		n, err := req.Body.Read(buf)
		if n > 0 {
			if perr := rr.handler.PostData(conn, buf[:n]); perr != nil {
				rr.abort(conn)
				c.Log.Warnw("dropping post body mid-stream", "error", perr.Error())
				return c.JSONBlob(http.StatusBadRequest, rr.proto(perr))
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			rr.abort(conn)
			c.Log.Warnw("post body read failed", "error", err.Error())
			return c.JSONBlob(http.StatusBadRequest, rr.proto(err))
		}
	}

	resp := rr.handler.PostFinished(req.Context(), conn)
	if resp == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSONBlob(http.StatusOK, resp)
}
