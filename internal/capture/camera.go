package capture

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// Camera reads frames from a video capture device. It reuses one matrix
// across reads, so the returned Frame is only valid until the next Read.
type Camera struct {
	vc  *gocv.VideoCapture
	mat gocv.Mat
}

// OpenCamera opens the capture device with the given index. An open
// failure is fatal for the caller; there is no retry at this level.
func OpenCamera(device int) (*Camera, error) {
	vc, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("cannot access camera device %d: %w", device, err)
	}
	return &Camera{vc: vc, mat: gocv.NewMat()}, nil
}

// Read grabs and validates one frame.
func (c *Camera) Read() (Frame, error) {
	if ok := c.vc.Read(&c.mat); !ok {
		return Frame{}, errors.New("empty frame from camera")
	}
	return NewFrame(c.mat)
}

// Close releases the device and the frame buffer.
func (c *Camera) Close() error {
	_ = c.mat.Close()
	return c.vc.Close()
}
