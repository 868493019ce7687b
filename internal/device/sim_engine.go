package device

import (
	"errors"
	"fmt"
)

// SimEngine is a software stand-in for the accelerator session. It
// implements a trivial three-class segmentation: each pixel's luminance is
// quantized into a class id, which is enough to exercise the full RPC
// pipeline end to end with plausible output shapes.
type SimEngine struct {
	width  int
	height int
	input  []byte
	output []byte

	// FailInvoke forces Invoke to report failure, for failure injection.
	FailInvoke bool
}

// NewSimEngine builds a session for a width x height RGB input model.
// model may be nil (the sim has no weights to load); a non-nil empty
// model is rejected the way a real loader would reject a truncated file.
func NewSimEngine(model []byte, width, height int) (*SimEngine, error) {
	if model != nil && len(model) == 0 {
		return nil, errors.New("empty model")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid model dimensions %dx%d", width, height)
	}
	return &SimEngine{
		width:  width,
		height: height,
		input:  make([]byte, width*height*FormatRGB.BytesPerPixel()),
		output: make([]byte, width*height),
	}, nil
}

func (e *SimEngine) InputDims() (int, int) {
	return e.width, e.height
}

func (e *SimEngine) InputTensor() []byte {
	return e.input
}

func (e *SimEngine) OutputTensor() []byte {
	return e.output
}

func (e *SimEngine) Invoke() error {
	if e.FailInvoke {
		return errors.New("sim invoke failed")
	}
	for i := 0; i < e.width*e.height; i++ {
		r := int(e.input[i*3])
		g := int(e.input[i*3+1])
		b := int(e.input[i*3+2])
		lum := (r + g + b) / 3
		// Classes 1..3, matching the pet/border/background ids the
		// segmentation models we run emit.
		e.output[i] = byte(lum/86 + 1)
	}
	return nil
}
