// Package device declares the driver surfaces the RPC handlers consume:
// an input camera and an inference engine session. Physical drivers live
// below this package; the sim implementations here stand in for them on
// hosts without the hardware and in tests.
package device

// Format is the pixel format of a captured frame.
type Format int

const (
	FormatRGB Format = iota
	FormatGrayscale
)

// BytesPerPixel reports the storage one pixel needs in this format.
func (f Format) BytesPerPixel() int {
	switch f {
	case FormatRGB:
		return 3
	default:
		return 1
	}
}

// FrameFormat describes the capture the camera should produce. The driver
// scales and converts the sensor output to match.
type FrameFormat struct {
	Format Format
	Width  int
	Height int
}

// BufferSize is the byte length a frame in this format occupies.
func (f FrameFormat) BufferSize() int {
	return f.Width * f.Height * f.Format.BytesPerPixel()
}

// Camera is the input-device driver surface. GetFrame fills buf, which
// must hold at least fmt.BufferSize() bytes, and reports whether a valid
// frame was captured. Callers power the device and enable streaming
// before capturing, and are responsible for powering it back off.
type Camera interface {
	SetPower(on bool) error
	Enable() error
	Disable() error
	GetFrame(fmt FrameFormat, buf []byte) bool
}

// Engine is a loaded model session. The input and output tensors are
// owned by the engine; callers copy a sample in, Invoke, and read the
// output out. One Engine is constructed at startup and shared, so users
// of a single physical accelerator must serialize their access.
type Engine interface {
	InputDims() (width, height int)
	InputTensor() []byte
	OutputTensor() []byte
	Invoke() error
}
