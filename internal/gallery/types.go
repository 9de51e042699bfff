package gallery

// Dim is the length of a face embedding produced by the dlib ResNet model.
const Dim = 128

// Embedding is a face descriptor vector. Embeddings are compared only via
// Euclidean distance and are immutable once created.
type Embedding []float32

// Entry pairs one embedding with the person label it was enrolled under.
// Multiple entries may share a label (several images or faces per person).
type Entry struct {
	Embedding Embedding
	Label     string
}

// Gallery is the ordered reference set of enrolled faces. It is built once
// by the Builder, held read-only during a capture run, and only replaced
// wholesale by a forced re-enrollment.
type Gallery struct {
	Entries []Entry
}

// Len returns the number of enrolled entries.
func (g *Gallery) Len() int {
	if g == nil {
		return 0
	}
	return len(g.Entries)
}

// People returns the distinct labels in enrollment order.
func (g *Gallery) People() []string {
	if g == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(g.Entries))
	var people []string
	for _, e := range g.Entries {
		if _, ok := seen[e.Label]; ok {
			continue
		}
		seen[e.Label] = struct{}{}
		people = append(people, e.Label)
	}
	return people
}
