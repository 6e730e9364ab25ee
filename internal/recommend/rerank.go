package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/examlens/internal/llm"
	"github.com/abhisek/examlens/internal/weakness"
)

// rerankCandidateCap bounds how many candidates per weakness are sent to
// the model, to keep request size in check.
const rerankCandidateCap = 5

var rerankSchema = &llm.Schema{
	Name:        "course-rerank",
	Description: "Course ids ordered from most to least relevant for the weakness.",
	Definition: map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"course_ids": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []any{"course_ids"},
	},
}

// Reranker reorders each weakness's selected courses with a model call.
// It only ever permutes: courses are neither added nor dropped, and any
// failure leaves that weakness's original ordering untouched.
type Reranker struct {
	provider  llm.Provider
	maxTokens int
}

// NewReranker creates a Reranker.
func NewReranker(provider llm.Provider) *Reranker {
	return &Reranker{provider: provider, maxTokens: 512}
}

// Rerank reorders selected in place per weakness and returns it.
func (r *Reranker) Rerank(ctx context.Context, weaknesses []weakness.Weakness, selected []CourseScore) []CourseScore {
	textByID := make(map[string]string, len(weaknesses))
	for _, w := range weaknesses {
		textByID[w.ID] = w.Text
	}

	// Positions of each weakness's entries within the selected list.
	positions := make(map[string][]int)
	var order []string
	for i, c := range selected {
		if _, seen := positions[c.WeaknessID]; !seen {
			order = append(order, c.WeaknessID)
		}
		positions[c.WeaknessID] = append(positions[c.WeaknessID], i)
	}

	for _, wid := range order {
		idxs := positions[wid]
		if len(idxs) < 2 || len(idxs) > rerankCandidateCap {
			continue
		}

		group := make([]CourseScore, len(idxs))
		for i, at := range idxs {
			group[i] = selected[at]
		}

		reordered, err := r.rerankGroup(ctx, textByID[wid], group)
		if err != nil {
			// Per-weakness fallback: this group keeps its ordering.
			continue
		}
		for i, at := range idxs {
			selected[at] = reordered[i]
		}
	}
	return selected
}

func (r *Reranker) rerankGroup(ctx context.Context, weaknessText string, group []CourseScore) ([]CourseScore, error) {
	ctx = llm.WithPurpose(ctx, "course-rerank")

	var b strings.Builder
	fmt.Fprintf(&b, "A learner shows this weakness: %s\n\nCandidate courses:\n", weaknessText)
	for _, c := range group {
		fmt.Fprintf(&b, "- id=%s title=%q description=%q\n", c.Course.ID, c.Course.Title, c.Course.Description)
	}
	b.WriteString("\nReturn the course ids ordered from most to least helpful for this weakness. Use only the ids listed above.")

	resp, err := r.provider.Generate(ctx, llm.Request{
		System:    "You rank remedial courses by how directly they address a learner's weakness.",
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: b.String()}},
		Schema:    rerankSchema,
		MaxTokens: r.maxTokens,
	})
	if err != nil {
		return nil, err
	}

	var out struct {
		CourseIDs []string `json:"course_ids"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("decode rerank response: %w", err)
	}

	byID := make(map[string]CourseScore, len(group))
	for _, c := range group {
		byID[c.Course.ID] = c
	}

	// Ids outside the group are discarded; omitted courses keep their
	// original relative order at the tail.
	reordered := make([]CourseScore, 0, len(group))
	taken := make(map[string]bool, len(group))
	for _, id := range out.CourseIDs {
		c, ok := byID[id]
		if !ok || taken[id] {
			continue
		}
		taken[id] = true
		reordered = append(reordered, c)
	}
	for _, c := range group {
		if !taken[c.Course.ID] {
			reordered = append(reordered, c)
		}
	}
	return reordered, nil
}
