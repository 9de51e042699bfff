package capture

import (
	"errors"
	"fmt"
	"image"
	"slices"

	"gocv.io/x/gocv"
)

// Frame is a validated camera frame: a non-empty, 8-bit, 3-channel BGR
// matrix. Construction goes through NewFrame so every later stage can rely
// on the layout instead of re-checking it.
type Frame struct {
	mat gocv.Mat
}

// NewFrame validates a raw matrix and wraps it. Empty matrices and any
// pixel layout other than 8-bit 3-channel are rejected.
func NewFrame(mat gocv.Mat) (Frame, error) {
	if mat.Empty() {
		return Frame{}, errors.New("empty frame")
	}
	if mat.Type() != gocv.MatTypeCV8UC3 {
		return Frame{}, fmt.Errorf("unexpected frame layout %v, want 8-bit BGR", mat.Type())
	}
	return Frame{mat: mat}, nil
}

// Downscale resizes the frame by factor on both axes and re-validates the
// result. The caller owns the returned frame and must Close it.
func (f Frame) Downscale(factor float64) (Frame, error) {
	if factor <= 0 || factor > 1 {
		return Frame{}, fmt.Errorf("invalid downscale factor %v", factor)
	}
	dst := gocv.NewMat()
	gocv.Resize(f.mat, &dst, image.Point{}, factor, factor, gocv.InterpolationLinear)
	small, err := NewFrame(dst)
	if err != nil {
		dst.Close()
		return Frame{}, fmt.Errorf("downscaled frame invalid: %w", err)
	}
	return small, nil
}

// JPEG encodes the frame as JPEG bytes. The encoder converts from BGR to
// the RGB layout the recognizer expects, always 8 bits per channel.
func (f Frame) JPEG() ([]byte, error) {
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, f.mat)
	if err != nil {
		return nil, fmt.Errorf("encoding frame: %w", err)
	}
	defer buf.Close()
	return slices.Clone(buf.GetBytes()), nil
}

// Bounds returns the frame dimensions.
func (f Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.mat.Cols(), f.mat.Rows())
}

// Close releases the underlying matrix.
func (f Frame) Close() {
	_ = f.mat.Close()
}
