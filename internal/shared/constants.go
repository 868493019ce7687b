package shared

import "time"

// Server configuration
const (
	DefaultListenAddr      = ":80"
	DefaultShutdownTimeout = 10 * time.Second
)

// POST body reassembly
const (
	// BodyChunkSize is the read granularity of the RPC route handler. The
	// registry itself accepts chunks of any size; this only bounds how much
	// of a body sits in the read buffer at once.
	BodyChunkSize = 1024

	// MaxContentLength rejects bodies no plausible RPC envelope needs.
	MaxContentLength = 1 << 20
)

// Model configuration
const (
	DefaultModelWidth  = 128
	DefaultModelHeight = 128
)
