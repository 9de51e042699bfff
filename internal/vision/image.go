package vision

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// maxEnrollSize caps the longer edge of enrollment images. Detection works
// fine at this size and the dlib pass gets much cheaper on phone photos.
const maxEnrollSize = 1600

// ToJPEG converts an encoded image (png or jpeg) into JPEG bytes suitable
// for the recognizer, downscaling to maxEnrollSize if needed. JPEG input
// that is already small enough passes through untouched.
func ToJPEG(data []byte) ([]byte, error) {
	if isJPEG(data) {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err == nil && cfg.Width <= maxEnrollSize && cfg.Height <= maxEnrollSize {
			return data, nil
		}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > maxEnrollSize || height > maxEnrollSize {
		var newWidth, newHeight int
		if width > height {
			newWidth = maxEnrollSize
			newHeight = int(float64(height) * float64(maxEnrollSize) / float64(width))
		} else {
			newHeight = maxEnrollSize
			newWidth = int(float64(width) * float64(maxEnrollSize) / float64(height))
		}
		resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
		draw.BiLinear.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)
		img = resized
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// isJPEG checks the JPEG magic bytes (FF D8 FF).
func isJPEG(data []byte) bool {
	return len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF
}
