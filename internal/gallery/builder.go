package gallery

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
)

// Setup errors are distinct so callers can report them as "setup
// incomplete" instead of a generic failure.
var (
	// ErrSetupIncomplete means the images directory does not exist.
	ErrSetupIncomplete = errors.New("images directory does not exist")
	// ErrNoImages means the images directory holds no supported image files.
	ErrNoImages = errors.New("no supported images found")
)

// supportedExt lists the enrollment image extensions, lower-cased.
var supportedExt = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// Embedder detects faces in an encoded image and returns one embedding per
// detected face. Decode failures surface as errors; an image with no face
// returns an empty slice.
type Embedder interface {
	Embeddings(imageData []byte) ([]Embedding, error)
}

// Builder enrolls labeled images into a persisted gallery.
type Builder struct {
	embedder Embedder
	blobPath string
	progress bool
}

// NewBuilder creates a Builder that persists the gallery at blobPath.
func NewBuilder(embedder Embedder, blobPath string) *Builder {
	return &Builder{embedder: embedder, blobPath: blobPath, progress: true}
}

// DisableProgress turns off the terminal progress bar (used in tests).
func (b *Builder) DisableProgress() {
	b.progress = false
}

// Enroll builds the gallery from imagesDir. If a persisted gallery already
// exists and force is false it is loaded and returned without recomputing
// anything. Unreadable images and images with no detectable face are logged
// and skipped. Enrollment is a one-shot batch step: any change to the
// source images requires a force re-run, which rebuilds the blob wholesale.
func (b *Builder) Enroll(imagesDir string, force bool) (*Gallery, error) {
	if !force && Exists(b.blobPath) {
		fmt.Println("Loading existing gallery...")
		return Load(b.blobPath)
	}

	info, err := os.Stat(imagesDir)
	if err != nil || !info.IsDir() {
		// Create the directory so the user only has to drop images in.
		_ = os.MkdirAll(imagesDir, 0o755)
		return nil, fmt.Errorf("%w: created %s, add training images and rerun", ErrSetupIncomplete, imagesDir)
	}

	files, err := listImages(imagesDir)
	if err != nil {
		return nil, fmt.Errorf("listing images: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoImages, imagesDir)
	}

	fmt.Printf("Enrolling %d images...\n", len(files))

	var bar *progressbar.ProgressBar
	if b.progress {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetDescription("Enrolling faces"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("images"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionFullWidth(),
		)
	}

	g := &Gallery{}
	for _, name := range files {
		b.enrollFile(g, imagesDir, name)
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		fmt.Println()
	}

	if err := g.Save(b.blobPath); err != nil {
		return nil, err
	}
	fmt.Printf("Saved %d embeddings for %d people.\n", g.Len(), len(g.People()))
	return g, nil
}

// enrollFile processes one image file. All per-file failures are
// non-fatal: they are logged and the file is skipped.
func (b *Builder) enrollFile(g *Gallery, dir, name string) {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("cannot read %s, skipping: %v", name, err)
		return
	}

	label := LabelFromFilename(name)

	embeddings, err := b.embedder.Embeddings(data)
	if err != nil {
		log.Printf("cannot process %s, skipping: %v", name, err)
		return
	}
	if len(embeddings) == 0 {
		log.Printf("no face found in %s, skipping", name)
		return
	}

	for _, e := range embeddings {
		g.Entries = append(g.Entries, Entry{Embedding: e, Label: label})
	}
}

func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if supportedExt[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, e.Name())
		}
	}
	return files, nil
}
