package recommend

import (
	"testing"

	"github.com/abhisek/examlens/internal/catalog"
)

func cs(courseID, weaknessID string, score float64) CourseScore {
	return CourseScore{
		Course:     catalog.Course{ID: courseID, Title: "Course " + courseID},
		WeaknessID: weaknessID,
		Score:      score,
	}
}

func courseIDs(scores []CourseScore) []string {
	ids := make([]string, len(scores))
	for i, s := range scores {
		ids[i] = s.Course.ID
	}
	return ids
}

func TestSelectCourses_TopPickPerWeakness(t *testing.T) {
	candidates := []CourseScore{
		cs("c1", "w1", 0.9),
		cs("c2", "w1", 0.8),
		cs("c3", "w2", 0.5),
		cs("c4", "w2", 0.7),
	}

	got := SelectCourses(candidates, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 courses, got %d", len(got))
	}
	if got[0].Course.ID != "c1" || got[0].WeaknessID != "w1" {
		t.Errorf("first pick = %+v", got[0])
	}
	if got[1].Course.ID != "c4" || got[1].WeaknessID != "w2" {
		t.Errorf("second pick = %+v", got[1])
	}
}

func TestSelectCourses_EveryWeaknessCovered(t *testing.T) {
	// w2's best course scores far below every w1 candidate, but the floor
	// set still guarantees it a slot.
	candidates := []CourseScore{
		cs("c1", "w1", 0.9),
		cs("c2", "w1", 0.8),
		cs("c3", "w1", 0.7),
		cs("c4", "w2", 0.1),
	}

	got := SelectCourses(candidates, 2)
	covered := make(map[string]bool)
	for _, c := range got {
		covered[c.WeaknessID] = true
	}
	if !covered["w1"] || !covered["w2"] {
		t.Errorf("weakness coverage lost: %v", courseIDs(got))
	}
}

func TestSelectCourses_DedupByCourseID(t *testing.T) {
	// Both weaknesses' top pick is the same course.
	candidates := []CourseScore{
		cs("c1", "w1", 0.9),
		cs("c1", "w2", 0.85),
		cs("c2", "w2", 0.4),
	}

	got := SelectCourses(candidates, 5)
	seen := make(map[string]int)
	for _, c := range got {
		seen[c.Course.ID]++
	}
	if seen["c1"] != 1 {
		t.Errorf("c1 appears %d times", seen["c1"])
	}
	// c2 comes back through the fill pool.
	if seen["c2"] != 1 {
		t.Errorf("fill pool skipped c2: %v", courseIDs(got))
	}
}

func TestSelectCourses_FillFromRemainder(t *testing.T) {
	candidates := []CourseScore{
		cs("c1", "w1", 0.9),
		cs("c2", "w1", 0.8),
		cs("c3", "w1", 0.7),
		cs("c4", "w2", 0.6),
		cs("c5", "w2", 0.5),
	}

	got := SelectCourses(candidates, 4)
	want := []string{"c1", "c4", "c2", "c3"}
	ids := courseIDs(got)
	if len(ids) != len(want) {
		t.Fatalf("got %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("got %v, want %v", ids, want)
		}
	}
}

func TestSelectCourses_BoundedByMaxTotal(t *testing.T) {
	var candidates []CourseScore
	for _, w := range []string{"w1", "w2", "w3"} {
		for _, c := range []string{"a", "b", "c"} {
			candidates = append(candidates, cs(w+"-"+c, w, 0.5))
		}
	}

	for _, maxTotal := range []int{1, 3, 5, 100} {
		got := SelectCourses(candidates, maxTotal)
		if len(got) > maxTotal {
			t.Errorf("maxTotal=%d: got %d courses", maxTotal, len(got))
		}
	}
}

func TestSelectCourses_TieFirstSeenWins(t *testing.T) {
	candidates := []CourseScore{
		cs("c1", "w1", 0.5),
		cs("c2", "w1", 0.5),
	}

	got := SelectCourses(candidates, 1)
	if len(got) != 1 || got[0].Course.ID != "c1" {
		t.Errorf("tie break: got %v", courseIDs(got))
	}
}

func TestSelectCourses_Empty(t *testing.T) {
	if got := SelectCourses(nil, 5); got != nil {
		t.Errorf("nil candidates: got %v", got)
	}
	if got := SelectCourses([]CourseScore{cs("c1", "w1", 0.9)}, 0); got != nil {
		t.Errorf("maxTotal 0: got %v", got)
	}
}
