package catalog

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/abhisek/examlens/internal/llm"
)

type indexEntry struct {
	course Course
	vector []float32
}

// MemoryIndex is an in-process nearest-neighbor index over embedded course
// texts. Indexing embeds every course once; queries embed the query text
// and scan the whole catalog by cosine distance. Catalogs here are small
// (hundreds of courses), so a brute-force scan is fine.
//
// Safe for concurrent Search; Index replaces the catalog wholesale.
type MemoryIndex struct {
	embedder llm.Embedder

	mu      sync.RWMutex
	entries []indexEntry
}

// NewMemoryIndex creates an empty index backed by the given embedder.
func NewMemoryIndex(embedder llm.Embedder) *MemoryIndex {
	return &MemoryIndex{embedder: embedder}
}

// Index embeds the courses and replaces the current catalog with them.
func (x *MemoryIndex) Index(ctx context.Context, courses []Course) error {
	texts := make([]string, len(courses))
	for i, c := range courses {
		texts[i] = c.EmbedText()
	}

	vectors, err := x.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed catalog: %w", err)
	}
	if len(vectors) != len(courses) {
		return fmt.Errorf("embed catalog: got %d vectors for %d courses", len(vectors), len(courses))
	}

	entries := make([]indexEntry, len(courses))
	for i, c := range courses {
		entries[i] = indexEntry{course: c, vector: vectors[i]}
	}

	x.mu.Lock()
	x.entries = entries
	x.mu.Unlock()
	return nil
}

// Len reports the number of indexed courses.
func (x *MemoryIndex) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.entries)
}

// Course returns an indexed course by id.
func (x *MemoryIndex) Course(id string) (Course, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	for _, e := range x.entries {
		if e.course.ID == id {
			return e.course, true
		}
	}
	return Course{}, false
}

// Search embeds the query text and returns the k nearest courses by cosine
// distance, nearest first.
func (x *MemoryIndex) Search(ctx context.Context, text string, k int) ([]Neighbor, error) {
	if k <= 0 {
		return nil, nil
	}

	vectors, err := x.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embed query: got %d vectors for 1 text", len(vectors))
	}
	query := vectors[0]

	x.mu.RLock()
	neighbors := make([]Neighbor, 0, len(x.entries))
	for _, e := range x.entries {
		neighbors = append(neighbors, Neighbor{
			CourseID: e.course.ID,
			Distance: cosineDistance(query, e.vector),
			Metadata: courseMetadata(e.course),
		})
	}
	x.mu.RUnlock()

	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].Distance < neighbors[j].Distance
	})
	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors, nil
}

func courseMetadata(c Course) map[string]any {
	meta := map[string]any{
		"title":       c.Title,
		"description": c.Description,
	}
	if c.Link != "" {
		meta["link"] = c.Link
	}
	for k, v := range c.Metadata {
		meta[k] = v
	}
	return meta
}

// cosineDistance is 1 - cosine similarity, in [0,2]. Mismatched or
// zero-magnitude vectors are maximally distant.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 2
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 2
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
