package capture

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

var (
	knownColor   = color.RGBA{G: 255}
	unknownColor = color.RGBA{R: 255}
)

// Window shows annotated frames in a desktop window and polls for the
// quit key.
type Window struct {
	win *gocv.Window
}

// NewWindow opens a display window with the given title.
func NewWindow(title string) *Window {
	return &Window{win: gocv.NewWindow(title)}
}

// Render draws every annotation onto the frame (green for known faces,
// red for unknown), shows it, and reports whether 'q' was pressed.
func (w *Window) Render(f *Frame, annotations []Annotation) bool {
	for _, a := range annotations {
		c := unknownColor
		if a.Known {
			c = knownColor
		}
		gocv.Rectangle(&f.mat, a.Box, c, 2)
		gocv.PutText(&f.mat, a.Label, image.Pt(a.Box.Min.X, a.Box.Min.Y-10),
			gocv.FontHersheySimplex, 0.9, c, 2)
	}
	w.win.IMShow(f.mat)
	return w.win.WaitKey(1) == 'q'
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.win.Close()
}
