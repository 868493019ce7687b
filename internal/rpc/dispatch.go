package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"iris-api/internal/metrics"
	"iris-api/internal/shared"

	"go.uber.org/zap"
)

// Handler runs one method call. Returning is the single report of the
// outcome: a value for a success envelope, or an error for an error
// envelope. Return a *shared.RPCError to control the code on the wire.
type Handler func(ctx context.Context, params json.RawMessage) (any, error)

// Dispatcher owns the method table. Register everything before serving;
// the table is read concurrently at request time and is never written
// after startup.
type Dispatcher struct {
	methods map[string]Handler
	log     *zap.SugaredLogger
}

func NewDispatcher(log *zap.SugaredLogger) *Dispatcher {
	d := &Dispatcher{
		methods: make(map[string]Handler),
		log:     log,
	}
	// Mirrors the built-in method the device firmware's RPC context always
	// exported: the sorted list of registered method names.
	d.methods["rpc.list"] = func(context.Context, json.RawMessage) (any, error) {
		return d.Methods(), nil
	}
	return d
}

func (d *Dispatcher) Register(name string, h Handler) error {
	if name == "" || h == nil {
		return fmt.Errorf("invalid method registration %q", name)
	}
	if _, ok := d.methods[name]; ok {
		return fmt.Errorf("method %q already registered", name)
	}
	d.methods[name] = h
	return nil
}

// Methods returns the registered method names, sorted.
func (d *Dispatcher) Methods() []string {
	names := make([]string, 0, len(d.methods))
	for name := range d.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch parses one assembled body, invokes the matching handler on the
// calling goroutine and returns the encoded response envelope. It always
// returns a complete envelope; no failure escapes as anything else.
func (d *Dispatcher) Dispatch(ctx context.Context, body []byte) []byte {
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		d.log.Warnw("rejecting unparseable request body", "error", err.Error())
		metrics.RPCRequests.WithLabelValues("", "parse_error").Inc()
		return EncodeError(nil, shared.CodeParse, "parse error")
	}

	h, ok := d.methods[req.Method]
	if !ok {
		d.log.Warnw("method not found", "method", req.Method)
		metrics.RPCRequests.WithLabelValues(req.Method, "not_found").Inc()
		return EncodeError(req.ID, shared.CodeMethodNotFound, "method not found")
	}

	start := time.Now()
	value, err := d.invoke(ctx, h, req.Params)
	metrics.RPCDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.RPCRequests.WithLabelValues(req.Method, "error").Inc()
		var rpcErr *shared.RPCError
		if errors.As(err, &rpcErr) {
			return EncodeError(req.ID, rpcErr.Code, rpcErr.Message)
		}
		d.log.Errorw("handler failed", "method", req.Method, "error", err.Error())
		return EncodeError(req.ID, shared.CodeInternal, err.Error())
	}
	metrics.RPCRequests.WithLabelValues(req.Method, "ok").Inc()
	return EncodeSuccess(req.ID, value)
}

// invoke confines a handler panic to this request so the caller still
// receives a well-formed envelope.
func (d *Dispatcher) invoke(ctx context.Context, h Handler, params json.RawMessage) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Errorw("handler panic", "panic", fmt.Sprintf("%v", r))
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h(ctx, params)
}
