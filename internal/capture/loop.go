// Package capture runs the webcam attendance loop: read a frame, detect
// and embed faces on a downscaled copy, match them against the gallery,
// annotate the full-size frame, and mark attendance with a per-run
// cooldown.
package capture

import (
	"context"
	"fmt"
	"image"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kozaktomas/attendance/internal/gallery"
	"github.com/kozaktomas/attendance/internal/match"
	"github.com/kozaktomas/attendance/internal/vision"
)

// UnknownLabel annotates faces whose best match is outside the tolerance.
const UnknownLabel = "UNKNOWN"

// FrameSource produces validated frames. A Read error means the frame was
// dropped; the source stays usable for the next call.
type FrameSource interface {
	Read() (Frame, error)
	Close() error
}

// Renderer displays an annotated frame and reports whether the user asked
// to quit.
type Renderer interface {
	Render(f *Frame, annotations []Annotation) (quit bool)
	Close() error
}

// Detector finds faces in an encoded image. Satisfied by
// vision.Recognizer.
type Detector interface {
	Detect(imageData []byte) ([]vision.Detection, error)
}

// Recorder appends an attendance row, reporting whether one was added.
// Satisfied by ledger.Ledger.
type Recorder interface {
	Record(name string) (bool, error)
}

// Annotation is one box to draw on the full-resolution frame.
type Annotation struct {
	Box   image.Rectangle
	Label string
	Known bool
}

// Config holds the loop tuning knobs.
type Config struct {
	// Tolerance is the maximum embedding distance accepted as a match.
	Tolerance float64
	// Downscale shrinks frames by this factor on both axes before
	// detection; boxes are mapped back by the inverse.
	Downscale float64
	// Cooldown is the minimum gap before the same label can trigger
	// another record in this run.
	Cooldown time.Duration
}

// Loop drives one capture session. All mutable state, including the
// cooldown map, lives here; nothing is global and everything resets with
// the process.
type Loop struct {
	source   FrameSource
	renderer Renderer
	detector Detector
	gal      *gallery.Gallery
	recorder Recorder
	cfg      Config

	session string
	now     func() time.Time
	seen    map[string]time.Time
}

// NewLoop assembles a capture loop. Zero config fields fall back to the
// defaults from the original system (0.45 / 0.25 / 5s).
func NewLoop(source FrameSource, renderer Renderer, detector Detector, g *gallery.Gallery, recorder Recorder, cfg Config) *Loop {
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = match.DefaultTolerance
	}
	if cfg.Downscale <= 0 || cfg.Downscale > 1 {
		cfg.Downscale = 0.25
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 5 * time.Second
	}
	return &Loop{
		source:   source,
		renderer: renderer,
		detector: detector,
		gal:      g,
		recorder: recorder,
		cfg:      cfg,
		session:  uuid.NewString(),
		now:      time.Now,
		seen:     make(map[string]time.Time),
	}
}

// Session returns the unique id of this capture run.
func (l *Loop) Session() string {
	return l.session
}

// Run processes frames until the context is canceled or the renderer
// reports a quit key. Frame-level failures (empty frame, bad layout,
// detection error) are logged and retried on the next iteration with no
// bound and no backoff; only the stop signal ends the loop.
func (l *Loop) Run(ctx context.Context) error {
	log.Printf("capture session %s started, press 'q' to quit", l.session)
	for {
		select {
		case <-ctx.Done():
			log.Printf("capture session %s stopped", l.session)
			return nil
		default:
		}

		frame, err := l.source.Read()
		if err != nil {
			log.Printf("dropping frame: %v", err)
			continue
		}

		quit, err := l.processFrame(frame)
		if err != nil {
			log.Printf("dropping frame: %v", err)
			continue
		}
		if quit {
			log.Printf("capture session %s stopped", l.session)
			return nil
		}
	}
}

// processFrame handles one frame end to end and reports whether the user
// asked to quit.
func (l *Loop) processFrame(frame Frame) (bool, error) {
	small, err := frame.Downscale(l.cfg.Downscale)
	if err != nil {
		return false, err
	}
	defer small.Close()

	jpegData, err := small.JPEG()
	if err != nil {
		return false, err
	}

	detections, err := l.detector.Detect(jpegData)
	if err != nil {
		return false, fmt.Errorf("detecting faces: %w", err)
	}

	annotations := l.annotate(detections)
	return l.renderer.Render(&frame, annotations), nil
}

// annotate matches each detection against the gallery, maps its box back
// onto the full-resolution frame, and marks attendance for known faces.
func (l *Loop) annotate(detections []vision.Detection) []Annotation {
	annotations := make([]Annotation, 0, len(detections))
	for _, d := range detections {
		box := rescaleBox(d.Box, l.cfg.Downscale)

		res, ok := match.Best(d.Embedding, l.gal, l.cfg.Tolerance)
		if !ok {
			annotations = append(annotations, Annotation{Box: box, Label: UnknownLabel})
			continue
		}

		annotations = append(annotations, Annotation{Box: box, Label: res.Label, Known: true})
		l.markAttendance(res.Label)
	}
	return annotations
}

// markAttendance records the label unless it was already recorded within
// the cooldown window of this run. The ledger deduplicates across the
// whole file; the cooldown only avoids hammering it every frame.
func (l *Loop) markAttendance(label string) {
	now := l.now()
	if last, ok := l.seen[label]; ok && now.Sub(last) <= l.cfg.Cooldown {
		return
	}
	if _, err := l.recorder.Record(strings.ToUpper(label)); err != nil {
		log.Printf("failed to record attendance for %s: %v", label, err)
		return
	}
	l.seen[label] = now
}

// rescaleBox maps a box found on the downscaled frame back to the
// original frame by dividing each coordinate by the downscale factor.
func rescaleBox(r image.Rectangle, factor float64) image.Rectangle {
	return image.Rect(
		int(float64(r.Min.X)/factor),
		int(float64(r.Min.Y)/factor),
		int(float64(r.Max.X)/factor),
		int(float64(r.Max.Y)/factor),
	)
}
