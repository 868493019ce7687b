package device

import (
	"errors"
	"sync"
)

// SimCamera is a software camera producing deterministic gradient frames.
// It enforces the same power/enable discipline the physical driver does:
// captures only succeed while powered and streaming.
type SimCamera struct {
	mu      sync.Mutex
	powered bool
	enabled bool
	frames  uint64

	// DropFrames forces every GetFrame to fail, for failure injection.
	DropFrames bool
}

func NewSimCamera() *SimCamera {
	return &SimCamera{}
}

func (c *SimCamera) SetPower(on bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.powered = on
	if !on {
		c.enabled = false
	}
	return nil
}

func (c *SimCamera) Enable() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.powered {
		return errors.New("camera not powered")
	}
	c.enabled = true
	return nil
}

func (c *SimCamera) Disable() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = false
	return nil
}

func (c *SimCamera) GetFrame(fmt FrameFormat, buf []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.powered || !c.enabled || c.DropFrames {
		return false
	}
	if len(buf) < fmt.BufferSize() {
		return false
	}
	c.frames++
	bpp := fmt.Format.BytesPerPixel()
	for y := 0; y < fmt.Height; y++ {
		for x := 0; x < fmt.Width; x++ {
			for b := 0; b < bpp; b++ {
				// Gradient plus a per-frame offset so consecutive captures
				// differ, the way a live sensor's do.
				buf[(y*fmt.Width+x)*bpp+b] = byte(x + y + b + int(c.frames))
			}
		}
	}
	return true
}

// Powered reports the device power state. Tests use it to verify the
// power-off guarantee of hardware-bound handlers.
func (c *SimCamera) Powered() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.powered
}
