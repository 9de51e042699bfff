// Package vision runs face detection and embedding extraction through the
// dlib ResNet model, producing 128-dimension descriptors compatible with
// the gallery.
package vision

import (
	"fmt"
	"image"

	"github.com/Kagami/go-face"

	"github.com/kozaktomas/attendance/internal/gallery"
)

// Detection is one located face: its bounding box in the coordinates of
// the analyzed image, and its embedding.
type Detection struct {
	Box       image.Rectangle
	Embedding gallery.Embedding
}

// Recognizer wraps the dlib face recognizer. It is not safe for
// concurrent use; the capture loop and enrollment are both sequential.
type Recognizer struct {
	rec *face.Recognizer
}

// New loads the dlib models from modelsDir. The directory must contain the
// shape predictor and the ResNet descriptor network that go-face expects.
func New(modelsDir string) (*Recognizer, error) {
	rec, err := face.NewRecognizer(modelsDir)
	if err != nil {
		return nil, fmt.Errorf("loading face models from %s: %w", modelsDir, err)
	}
	return &Recognizer{rec: rec}, nil
}

// Close releases the dlib resources.
func (r *Recognizer) Close() {
	r.rec.Close()
}

// Detect finds every face in an encoded image and returns one detection
// per face. Non-JPEG input is converted first; a decode failure is an
// error, an image with no face returns an empty slice.
func (r *Recognizer) Detect(imageData []byte) ([]Detection, error) {
	jpegData, err := ToJPEG(imageData)
	if err != nil {
		return nil, err
	}

	found, err := r.rec.Recognize(jpegData)
	if err != nil {
		return nil, fmt.Errorf("recognizing faces: %w", err)
	}

	detections := make([]Detection, 0, len(found))
	for _, f := range found {
		desc := f.Descriptor
		detections = append(detections, Detection{
			Box:       f.Rectangle,
			Embedding: gallery.Embedding(desc[:]),
		})
	}
	return detections, nil
}

// Embeddings returns just the embeddings of every detected face, in
// detection order. It satisfies gallery.Embedder for enrollment.
func (r *Recognizer) Embeddings(imageData []byte) ([]gallery.Embedding, error) {
	detections, err := r.Detect(imageData)
	if err != nil {
		return nil, err
	}
	embeddings := make([]gallery.Embedding, len(detections))
	for i, d := range detections {
		embeddings[i] = d.Embedding
	}
	return embeddings, nil
}
