package gallery

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const blobVersion = 1

// blob is the on-disk form of a gallery: two parallel sequences so that
// index i of Embeddings corresponds to index i of Labels.
type blob struct {
	Version    int
	Embeddings [][]float32
	Labels     []string
}

// Save writes the gallery as a single gob blob, creating parent
// directories as needed. The file is fully overwritten; there is no
// incremental update.
func (g *Gallery) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating gallery directory: %w", err)
	}

	b := blob{Version: blobVersion}
	for _, e := range g.Entries {
		b.Embeddings = append(b.Embeddings, e.Embedding)
		b.Labels = append(b.Labels, e.Label)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating gallery file: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(&b); err != nil {
		return fmt.Errorf("encoding gallery: %w", err)
	}
	return nil
}

// Load reads a gallery blob written by Save.
func Load(path string) (*Gallery, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening gallery file: %w", err)
	}
	defer f.Close()

	var b blob
	if err := gob.NewDecoder(f).Decode(&b); err != nil {
		return nil, fmt.Errorf("decoding gallery: %w", err)
	}
	if b.Version != blobVersion {
		return nil, fmt.Errorf("unsupported gallery version %d", b.Version)
	}
	if len(b.Embeddings) != len(b.Labels) {
		return nil, errors.New("corrupt gallery: embedding and label counts differ")
	}

	g := &Gallery{Entries: make([]Entry, len(b.Labels))}
	for i := range b.Labels {
		g.Entries[i] = Entry{Embedding: b.Embeddings[i], Label: b.Labels[i]}
	}
	return g, nil
}

// Exists reports whether a gallery blob is present at path.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
