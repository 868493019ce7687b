package segment

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"testing"

	"iris-api/internal/device"
	"iris-api/internal/rpc"
	"iris-api/internal/shared"

	"go.uber.org/zap"
)

// fakeCamera and fakeEngine share one call recorder so tests can assert
// the acquire/compute ordering across both devices.

type fakeCamera struct {
	rec        *[]string
	powered    bool
	enabled    bool
	captures   int
	failPower  bool
	failFrames bool
}

func (c *fakeCamera) SetPower(on bool) error {
	if on {
		*c.rec = append(*c.rec, "power_on")
		if c.failPower {
			return errors.New("power rail fault")
		}
	} else {
		*c.rec = append(*c.rec, "power_off")
	}
	c.powered = on
	return nil
}

func (c *fakeCamera) Enable() error {
	*c.rec = append(*c.rec, "enable")
	c.enabled = true
	return nil
}

func (c *fakeCamera) Disable() error {
	*c.rec = append(*c.rec, "disable")
	c.enabled = false
	return nil
}

func (c *fakeCamera) GetFrame(fmt device.FrameFormat, buf []byte) bool {
	*c.rec = append(*c.rec, "frame")
	c.captures++
	if c.failFrames || !c.powered || !c.enabled {
		return false
	}
	// Each capture has a distinct fill so tests can tell which one the
	// handler kept.
	for i := range buf[:fmt.BufferSize()] {
		buf[i] = byte(c.captures)
	}
	return true
}

type fakeEngine struct {
	rec        *[]string
	width      int
	height     int
	input      []byte
	output     []byte
	failInvoke bool
}

func newFakeEngine(rec *[]string, w, h int) *fakeEngine {
	return &fakeEngine{
		rec:    rec,
		width:  w,
		height: h,
		input:  make([]byte, w*h*3),
		output: make([]byte, w*h),
	}
}

func (e *fakeEngine) InputDims() (int, int) { return e.width, e.height }
func (e *fakeEngine) InputTensor() []byte   { return e.input }
func (e *fakeEngine) OutputTensor() []byte  { return e.output }

func (e *fakeEngine) Invoke() error {
	*e.rec = append(*e.rec, "invoke")
	if e.failInvoke {
		return errors.New("fault during graph execution")
	}
	for i := range e.output {
		e.output[i] = 2
	}
	return nil
}

func newTestPipeline(w, h int) (*Handler, *fakeCamera, *fakeEngine, *[]string) {
	rec := &[]string{}
	cam := &fakeCamera{rec: rec}
	engine := newFakeEngine(rec, w, h)
	return NewHandler(cam, engine, zap.NewNop().Sugar()), cam, engine, rec
}

func TestSegmentSuccess(t *testing.T) {
	h, cam, engine, rec := newTestPipeline(4, 4)

	value, err := h.SegmentFromCamera(context.Background(), nil)
	if err != nil {
		t.Fatalf("SegmentFromCamera: %v", err)
	}

	wantCalls := []string{"power_on", "enable", "frame", "frame", "disable", "power_off", "invoke"}
	if !reflect.DeepEqual(*rec, wantCalls) {
		t.Errorf("call order %v, want %v", *rec, wantCalls)
	}
	if cam.powered {
		t.Error("camera left powered on")
	}

	res, ok := value.(*Result)
	if !ok {
		t.Fatalf("result has type %T, want *Result", value)
	}
	if res.Width != 4 || res.Height != 4 {
		t.Errorf("dims = %dx%d, want 4x4", res.Width, res.Height)
	}
	// The second capture is the kept sample.
	if !bytes.Equal(res.Base64Data, bytes.Repeat([]byte{2}, 4*4*3)) {
		t.Errorf("raw input is not the second capture: %v", res.Base64Data[:6])
	}
	if !bytes.Equal(res.Base64Data, engine.input) {
		t.Error("engine input tensor does not match the kept sample")
	}
	if !bytes.Equal(res.OutputMask, engine.output) {
		t.Error("output mask does not match the engine output tensor")
	}
}

func TestSegmentFailurePowersOff(t *testing.T) {
	tests := []struct {
		name    string
		rig     func(cam *fakeCamera, engine *fakeEngine)
		wantErr *shared.RPCError
	}{
		{
			name:    "capture failure",
			rig:     func(cam *fakeCamera, _ *fakeEngine) { cam.failFrames = true },
			wantErr: shared.ErrCameraCapture,
		},
		{
			name:    "power failure",
			rig:     func(cam *fakeCamera, _ *fakeEngine) { cam.failPower = true },
			wantErr: shared.ErrCameraCapture,
		},
		{
			name:    "invoke failure",
			rig:     func(_ *fakeCamera, engine *fakeEngine) { engine.failInvoke = true },
			wantErr: shared.ErrInvokeFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, cam, engine, rec := newTestPipeline(4, 4)
			tt.rig(cam, engine)

			_, err := h.SegmentFromCamera(context.Background(), nil)
			if err != tt.wantErr {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
			if cam.powered {
				t.Error("camera left powered on after failure")
			}
			last := (*rec)[len(*rec)-1]
			if tt.wantErr == shared.ErrCameraCapture && last != "power_off" {
				t.Errorf("last device call %q, want power_off", last)
			}
		})
	}
}

// The wire-level shape of a forced acquisition failure, end to end
// through the dispatcher.
func TestSegmentCaptureFailureEnvelope(t *testing.T) {
	h, cam, _, _ := newTestPipeline(4, 4)
	cam.failFrames = true

	d := rpc.NewDispatcher(zap.NewNop().Sugar())
	if err := d.Register("segment_from_camera", h.SegmentFromCamera); err != nil {
		t.Fatalf("Register: %v", err)
	}

	got := d.Dispatch(context.Background(), []byte(`{"id":1,"method":"segment_from_camera","params":null}`))
	want := `{"id":1,"error":{"code":-1,"message":"Failed to get image from camera."}}`
	if string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}
	if cam.powered {
		t.Error("camera left powered on")
	}
}
