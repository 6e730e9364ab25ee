package weakness

import (
	"strings"
	"testing"
)

const strictJSON = `[
  {
    "weakness": "Confuses percentage change with percentage points",
    "pattern_type": "numeracy",
    "description": "The learner treats a change from 40% to 50% as a 10% increase.",
    "evidence_question_ids": [101, 204],
    "frequency": 2
  }
]`

const pythonLiteral = `[
  {
    'weakness': 'Confuses percentage change with percentage points',
    'pattern_type': 'numeracy',
    'description': 'The learner treats a change from 40% to 50% as a 10% increase.',
    'evidence_question_ids': [101, 204],
    'frequency': 2
  }
]`

func TestParse_StrictJSON(t *testing.T) {
	got := Parse(strictJSON)
	if len(got) != 1 {
		t.Fatalf("expected 1 weakness, got %d", len(got))
	}

	w := got[0]
	if w.Text != "Confuses percentage change with percentage points" {
		t.Errorf("text = %q", w.Text)
	}
	if w.Importance != 1.0 {
		t.Errorf("importance = %v, want default 1.0", w.Importance)
	}
	if w.Metadata["pattern_type"] != "numeracy" {
		t.Errorf("pattern_type = %v", w.Metadata["pattern_type"])
	}
	if w.Metadata["frequency"] != float64(2) {
		t.Errorf("frequency = %v", w.Metadata["frequency"])
	}
	if w.ID == "" {
		t.Error("expected a generated id")
	}
}

func TestParse_SingleObjectPromoted(t *testing.T) {
	got := Parse(`{"weakness": "Misreads double negatives", "frequency": 1}`)
	if len(got) != 1 {
		t.Fatalf("expected 1 weakness, got %d", len(got))
	}
	if got[0].Text != "Misreads double negatives" {
		t.Errorf("text = %q", got[0].Text)
	}
}

func TestParse_TierEquivalence(t *testing.T) {
	// Well-formed JSON through tier 1 and the same content as a Python
	// literal through tier 2 must produce identical field values.
	strict := Parse(strictJSON)
	lenient := Parse(pythonLiteral)

	if len(strict) != 1 || len(lenient) != 1 {
		t.Fatalf("counts differ: strict=%d lenient=%d", len(strict), len(lenient))
	}

	s, l := strict[0], lenient[0]
	if s.Text != l.Text {
		t.Errorf("text differs: %q vs %q", s.Text, l.Text)
	}
	if s.Metadata["pattern_type"] != l.Metadata["pattern_type"] {
		t.Errorf("pattern_type differs")
	}
	if s.Metadata["description"] != l.Metadata["description"] {
		t.Errorf("description differs")
	}
	if s.Metadata["frequency"] != l.Metadata["frequency"] {
		t.Errorf("frequency differs")
	}
}

func TestParse_PythonKeywords(t *testing.T) {
	got := Parse(`[{'weakness': 'Skips instructions', 'verified': True, 'notes': None}]`)
	if len(got) != 1 {
		t.Fatalf("expected 1 weakness, got %d", len(got))
	}
	if got[0].Metadata["verified"] != true {
		t.Errorf("verified = %v", got[0].Metadata["verified"])
	}
	if v, present := got[0].Metadata["notes"]; !present || v != nil {
		t.Errorf("notes = %v (present=%v), want explicit null", v, present)
	}
}

func TestParse_EscapedQuoteInLiteral(t *testing.T) {
	got := Parse(`[{'weakness': 'Misreads "all" vs \'any\' quantifiers'}]`)
	if len(got) != 1 {
		t.Fatalf("expected 1 weakness, got %d", len(got))
	}
	if want := `Misreads "all" vs 'any' quantifiers`; got[0].Text != want {
		t.Errorf("text = %q, want %q", got[0].Text, want)
	}
}

func TestParse_CodeFencesStripped(t *testing.T) {
	fenced := "```json\n" + strictJSON + "\n```"
	got := Parse(fenced)
	if len(got) != 1 {
		t.Fatalf("expected 1 weakness after fence stripping, got %d", len(got))
	}
}

func TestParse_RegexFallback(t *testing.T) {
	text := `The analysis found the following issue.
weakness: Rushes multi-step arithmetic
pattern_type: numeracy
description: The learner computes the first step correctly but drops carried digits in later steps. This shows up across all long-addition items.
evidence_question_ids: [101, 204, 317]
frequency: 3`

	got := Parse(text)
	if len(got) != 1 {
		t.Fatalf("expected 1 weakness, got %d", len(got))
	}

	w := got[0]
	if w.Text != "Rushes multi-step arithmetic" {
		t.Errorf("text = %q", w.Text)
	}
	if w.Metadata["pattern_type"] != "numeracy" {
		t.Errorf("pattern_type = %v", w.Metadata["pattern_type"])
	}

	desc, _ := w.Metadata["description"].(string)
	if !strings.HasPrefix(desc, "The learner computes") {
		t.Errorf("description = %q", desc)
	}
	if strings.Contains(desc, "evidence_question_ids") {
		t.Errorf("description not truncated at next label: %q", desc)
	}

	ids, _ := w.Metadata["evidence_question_ids"].([]int)
	if len(ids) != 3 || ids[0] != 101 || ids[2] != 317 {
		t.Errorf("evidence ids = %v", ids)
	}
	if w.Metadata["frequency"] != 3 {
		t.Errorf("frequency = %v", w.Metadata["frequency"])
	}
}

func TestParse_ArbitraryTextNeverPanics(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"no structure here at all",
		"[{ broken json",
		"[{'unterminated literal",
		"{{{{]]]]",
		strings.Repeat("x", 10000),
		"weakness",
		":::",
		"```",
	}

	for _, in := range inputs {
		got := Parse(in)
		if got == nil {
			got = []Weakness{}
		}
		// Worst case is an empty list; any result must carry fresh ids.
		for _, w := range got {
			if w.ID == "" {
				t.Errorf("input %q: weakness missing id", in)
			}
		}
	}
}

func TestParse_ModelIDOverridden(t *testing.T) {
	got := Parse(`[{"id": "model-made-this-up", "weakness": "A"}, {"id": "model-made-this-up", "weakness": "B"}]`)
	if len(got) != 2 {
		t.Fatalf("expected 2 weaknesses, got %d", len(got))
	}
	for _, w := range got {
		if w.ID == "model-made-this-up" || w.ID == "" {
			t.Errorf("model id not replaced: %q", w.ID)
		}
		if _, ok := w.Metadata["id"]; ok {
			t.Error("model id leaked into metadata")
		}
	}
	if got[0].ID == got[1].ID {
		t.Error("ids must be unique within a run")
	}
}

func TestParse_IDsLexicallySortable(t *testing.T) {
	a := NewID()
	b := NewID()
	if a >= b {
		// UUIDv7 ids generated in sequence sort in generation order.
		t.Errorf("ids not time-ordered: %q >= %q", a, b)
	}
}

func TestParse_ImportanceFromRecord(t *testing.T) {
	got := Parse(`[{"weakness": "X", "importance": 2.5}]`)
	if len(got) != 1 {
		t.Fatalf("expected 1 weakness, got %d", len(got))
	}
	if got[0].Importance != 2.5 {
		t.Errorf("importance = %v, want 2.5", got[0].Importance)
	}
	if _, ok := got[0].Metadata["importance"]; ok {
		t.Error("importance leaked into metadata")
	}
}
