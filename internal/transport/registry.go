// Package transport reassembles chunked POST bodies per connection and
// binds the RPC dispatcher to a streaming HTTP host through the
// PostHandler capability interface.
package transport

import (
	"sync"

	"iris-api/internal/metrics"
	"iris-api/internal/shared"

	"go.uber.org/zap"
)

// ConnID is the stable integer handle the HTTP layer issues for one
// in-flight request. The registry only uses it as a lookup key.
type ConnID uint64

type pendingBody struct {
	declared int
	buf      []byte
}

// Registry owns one growing buffer per in-flight connection. The host
// guarantees Begin < Append* < Finish ordering for a single connection;
// the mutex only protects the map against concurrent connections.
type Registry struct {
	mu      sync.Mutex
	pending map[ConnID]*pendingBody
	log     *zap.SugaredLogger
}

func NewRegistry(log *zap.SugaredLogger) *Registry {
	return &Registry{
		pending: make(map[ConnID]*pendingBody),
		log:     log,
	}
}

// Begin registers a fresh buffer for conn, reserved to declaredLength.
// A negative declaredLength means the host does not know the body size
// (chunked transfer); the buffer is then capped at MaxContentLength so a
// streaming client cannot grow it without bound.
func (r *Registry) Begin(conn ConnID, declaredLength int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pending[conn]; ok {
		return shared.ErrConnInUse
	}
	declared := declaredLength
	reserve := declaredLength
	if declared < 0 {
		declared = shared.MaxContentLength
		reserve = 0
	}
	r.pending[conn] = &pendingBody{
		declared: declared,
		buf:      make([]byte, 0, reserve),
	}
	metrics.PendingBodies.Inc()
	return nil
}

// Append adds one chunk to conn's buffer.
func (r *Registry) Append(conn ConnID, chunk []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pending[conn]
	if !ok {
		return shared.ErrUnknownConn
	}
	if len(p.buf)+len(chunk) > p.declared {
		return shared.ErrBodyOverflow
	}
	p.buf = append(p.buf, chunk...)
	return nil
}

// Finish removes conn's buffer and hands ownership to the caller. An
// unknown conn is logged and reported as absent; spurious lifecycle
// callbacks must never fault.
func (r *Registry) Finish(conn ConnID) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pending[conn]
	if !ok {
		r.log.Warnw("finish for unknown connection", "conn", uint64(conn))
		return nil, false
	}
	delete(r.pending, conn)
	metrics.PendingBodies.Dec()
	return p.buf, true
}

// Discard drops conn's buffer, if any. Used when the host aborts a
// request mid-body.
func (r *Registry) Discard(conn ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pending[conn]; ok {
		delete(r.pending, conn)
		metrics.PendingBodies.Dec()
	}
}
