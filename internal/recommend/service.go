package recommend

import (
	"context"
	"fmt"

	"github.com/abhisek/examlens/internal/catalog"
	"github.com/abhisek/examlens/internal/weakness"
)

// Config holds recommendation tuning knobs.
type Config struct {
	// NeighborsPerWeakness is the k passed to the similarity search for
	// each weakness.
	NeighborsPerWeakness int

	// MaxTotal bounds the final recommendation list.
	MaxTotal int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		NeighborsPerWeakness: 5,
		MaxTotal:             DefaultMaxCourses,
	}
}

// Recommender turns weaknesses into a bounded, deduplicated course list by
// querying the similarity search per weakness and selecting across the
// combined candidate pool. An optional reranker reorders each weakness's
// picks afterwards.
type Recommender struct {
	searcher catalog.Searcher
	reranker *Reranker
	cfg      Config
}

// NewRecommender creates a Recommender. reranker may be nil.
func NewRecommender(searcher catalog.Searcher, reranker *Reranker, cfg Config) *Recommender {
	if cfg.NeighborsPerWeakness <= 0 {
		cfg.NeighborsPerWeakness = DefaultConfig().NeighborsPerWeakness
	}
	if cfg.MaxTotal <= 0 {
		cfg.MaxTotal = DefaultMaxCourses
	}
	return &Recommender{searcher: searcher, reranker: reranker, cfg: cfg}
}

// Recommend queries the searcher once per weakness and selects the final
// course list. A search failure aborts the whole stage: the caller still
// holds the weaknesses and can retry later.
func (r *Recommender) Recommend(ctx context.Context, weaknesses []weakness.Weakness) ([]CourseScore, error) {
	if len(weaknesses) == 0 {
		return nil, nil
	}

	var candidates []CourseScore
	for _, w := range weaknesses {
		neighbors, err := r.searcher.Search(ctx, w.Text, r.cfg.NeighborsPerWeakness)
		if err != nil {
			return nil, fmt.Errorf("course search for weakness %s: %w", w.ID, err)
		}
		for _, n := range neighbors {
			candidates = append(candidates, candidateFromNeighbor(w, n))
		}
	}

	selected := SelectCourses(candidates, r.cfg.MaxTotal)
	if r.reranker != nil {
		selected = r.reranker.Rerank(ctx, weaknesses, selected)
	}
	return selected, nil
}

func candidateFromNeighbor(w weakness.Weakness, n catalog.Neighbor) CourseScore {
	score := catalog.ScoreFromDistance(n.Distance)
	return CourseScore{
		Course:     courseFromNeighbor(n),
		WeaknessID: w.ID,
		Score:      score,
		Reason:     fmt.Sprintf("similarity %.2f to weakness %q", score, w.Text),
	}
}

// courseFromNeighbor rebuilds a Course from the metadata stored alongside
// the vector. Unknown keys stay in the metadata bag.
func courseFromNeighbor(n catalog.Neighbor) catalog.Course {
	c := catalog.Course{ID: n.CourseID}
	var extra map[string]any
	for k, v := range n.Metadata {
		s, _ := v.(string)
		switch k {
		case "title":
			c.Title = s
		case "description":
			c.Description = s
		case "link":
			c.Link = s
		default:
			if extra == nil {
				extra = make(map[string]any)
			}
			extra[k] = v
		}
	}
	c.Metadata = extra
	return c
}
