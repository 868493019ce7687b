// Package segment implements the segment_from_camera RPC method: capture
// a frame, run it through the segmentation model, return the raw input
// and the per-pixel class mask.
package segment

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"iris-api/internal/device"
	"iris-api/internal/metrics"
	"iris-api/internal/shared"

	"go.uber.org/zap"
)

// Result is the success value of segment_from_camera. The []byte fields
// marshal as base64 strings on the wire.
type Result struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Base64Data []byte `json:"base64_data"`
	OutputMask []byte `json:"output_mask"`
}

// Handler drives one camera and one engine session. There is exactly one
// of each physical device, so the whole pipeline runs under mu; the host
// dispatches connections concurrently.
type Handler struct {
	mu     sync.Mutex
	cam    device.Camera
	engine device.Engine
	log    *zap.SugaredLogger
}

func NewHandler(cam device.Camera, engine device.Engine, log *zap.SugaredLogger) *Handler {
	return &Handler{cam: cam, engine: engine, log: log}
}

// SegmentFromCamera is the method handler. No params. It blocks the
// calling goroutine for the duration of the hardware operation; there is
// no cancellation below this point.
func (h *Handler) SegmentFromCamera(ctx context.Context, _ json.RawMessage) (any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	width, height := h.engine.InputDims()
	format := device.FrameFormat{Format: device.FormatRGB, Width: width, Height: height}
	frame := make([]byte, format.BufferSize())

	if err := h.acquire(format, frame); err != nil {
		metrics.CaptureFailures.Inc()
		h.log.Warnw("camera acquisition failed", "error", err.Error())
		return nil, shared.ErrCameraCapture
	}

	copy(h.engine.InputTensor(), frame)
	start := time.Now()
	if err := h.engine.Invoke(); err != nil {
		h.log.Errorw("engine invoke failed", "error", err.Error())
		return nil, shared.ErrInvokeFailed
	}
	metrics.InvokeDuration.Observe(time.Since(start).Seconds())

	mask := h.engine.OutputTensor()
	return &Result{
		Width:      width,
		Height:     height,
		Base64Data: frame,
		OutputMask: append([]byte(nil), mask...),
	}, nil
}

// acquire powers the camera, captures into buf and powers it back off.
// The power-off runs on every path out of here, valid sample or not. The
// first capture after power-on carries transients and is discarded; the
// second one is kept.
func (h *Handler) acquire(format device.FrameFormat, buf []byte) (err error) {
	defer func() {
		if derr := h.cam.Disable(); derr != nil && err == nil {
			err = derr
		}
		if perr := h.cam.SetPower(false); perr != nil && err == nil {
			err = perr
		}
	}()

	if err := h.cam.SetPower(true); err != nil {
		return err
	}
	if err := h.cam.Enable(); err != nil {
		return err
	}

	h.cam.GetFrame(format, buf)
	if !h.cam.GetFrame(format, buf) {
		return shared.ErrCameraCapture
	}
	return nil
}
