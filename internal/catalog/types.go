package catalog

import "context"

// Course is one entry from the course catalog. The fixed core schema
// carries id, title, description, and link; any extra catalog columns ride
// in the metadata bag.
type Course struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Link        string         `json:"link,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// EmbedText is the text a course is indexed under.
func (c Course) EmbedText() string {
	if c.Description == "" {
		return c.Title
	}
	return c.Title + ". " + c.Description
}

// Neighbor is one similarity-search hit: a course id, its distance from
// the query, and the metadata stored alongside the vector.
type Neighbor struct {
	CourseID string
	Distance float64
	Metadata map[string]any
}

// Searcher answers nearest-neighbor queries over the indexed catalog.
type Searcher interface {
	Search(ctx context.Context, text string, k int) ([]Neighbor, error)
}

// ScoreFromDistance converts a search distance to a similarity score in
// (0,1]: 1 at zero distance, approaching 0 as distance grows.
func ScoreFromDistance(distance float64) float64 {
	if distance < 0 {
		distance = 0
	}
	return 1 / (1 + distance)
}
