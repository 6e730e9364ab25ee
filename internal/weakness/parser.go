package weakness

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Parse converts free-form model text into structured weakness records via a
// three-tier cascade: strict JSON, lenient literal normalization, then regex
// field extraction. Each tier swallows its own parse failures and advances;
// total exhaustion yields an empty list, never an error.
//
// Every returned weakness gets a freshly generated id, overriding any id the
// model may have produced.
func Parse(text string) []Weakness {
	cleaned := stripCodeFences(text)

	records := parseStrict(cleaned)
	if records == nil {
		records = parseLenient(cleaned)
	}
	if records == nil {
		records = extractFields(cleaned)
	}

	weaknesses := make([]Weakness, 0, len(records))
	for _, rec := range records {
		weaknesses = append(weaknesses, fromRecord(rec))
	}
	return weaknesses
}

// stripCodeFences removes triple-backtick markers, with or without a
// language tag, before every parse tier.
func stripCodeFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// parseStrict treats the text as a JSON array of objects. A single object is
// promoted to a one-element array. Returns nil on any parse failure.
func parseStrict(text string) []map[string]any {
	var list []map[string]any
	if err := json.Unmarshal([]byte(text), &list); err == nil {
		return list
	}

	var single map[string]any
	if err := json.Unmarshal([]byte(text), &single); err == nil {
		return []map[string]any{single}
	}

	return nil
}

// parseLenient handles models that emit Python-literal output: single-quoted
// strings and True/False/None keywords. The text is normalized to JSON and
// re-parsed; any failure returns nil.
func parseLenient(text string) []map[string]any {
	normalized, ok := normalizeLiteral(text)
	if !ok {
		return nil
	}
	return parseStrict(normalized)
}

// normalizeLiteral rewrites a Python-style literal as JSON. It walks the
// text once, converting single-quoted strings to double-quoted ones (escaping
// embedded double quotes) and bare True/False/None keywords outside strings.
func normalizeLiteral(text string) (string, bool) {
	var b strings.Builder
	b.Grow(len(text) + 16)

	runes := []rune(text)
	i := 0
	for i < len(runes) {
		r := runes[i]

		switch r {
		case '\'', '"':
			quoted, next, ok := consumeString(runes, i)
			if !ok {
				return "", false
			}
			b.WriteString(quoted)
			i = next

		default:
			if replaced, next, ok := consumeKeyword(runes, i); ok {
				b.WriteString(replaced)
				i = next
				break
			}
			b.WriteRune(r)
			i++
		}
	}

	return b.String(), true
}

// consumeString reads a quoted string starting at runes[start] and returns
// its JSON double-quoted form plus the index after the closing quote.
func consumeString(runes []rune, start int) (string, int, bool) {
	quote := runes[start]
	var b strings.Builder
	b.WriteByte('"')

	i := start + 1
	for i < len(runes) {
		r := runes[i]

		if r == '\\' && i+1 < len(runes) {
			next := runes[i+1]
			if next == quote {
				// \' inside a single-quoted string becomes a plain quote.
				if quote == '\'' {
					b.WriteRune('\'')
				} else {
					b.WriteString(`\"`)
				}
			} else {
				b.WriteRune(r)
				b.WriteRune(next)
			}
			i += 2
			continue
		}

		if r == quote {
			b.WriteByte('"')
			return b.String(), i + 1, true
		}

		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
		i++
	}

	// Unterminated string.
	return "", 0, false
}

// consumeKeyword rewrites True/False/None at runes[start] when they stand
// alone (not part of a longer identifier).
func consumeKeyword(runes []rune, start int) (string, int, bool) {
	keywords := []struct{ from, to string }{
		{"True", "true"},
		{"False", "false"},
		{"None", "null"},
	}

	for _, kw := range keywords {
		end := start + len(kw.from)
		if end > len(runes) || string(runes[start:end]) != kw.from {
			continue
		}
		if start > 0 && isWordRune(runes[start-1]) {
			continue
		}
		if end < len(runes) && isWordRune(runes[end]) {
			continue
		}
		return kw.to, end, true
	}
	return "", 0, false
}

func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

var (
	weaknessRe    = regexp.MustCompile(`(?i)weakness\s*[:=-]\s*['"]?(.+?)['"]?(?:\n|,|$)`)
	patternTypeRe = regexp.MustCompile(`(?i)pattern_type\s*[:=-]\s*['"]?(.+?)['"]?(?:\n|,|$)`)
	descriptionRe = regexp.MustCompile(`(?is)description\s*[:=-]\s*['"]?(.+)`)
	descSplitRe   = regexp.MustCompile(`(?i)\b(evidence_question_ids|frequency|weakness|pattern_type)\b\s*[:=-]`)
	evidenceRe    = regexp.MustCompile(`(?is)evidence_question_ids\s*[:=-]\s*\[([^\]]*)\]`)
	intRe         = regexp.MustCompile(`\d+`)
	frequencyRe   = regexp.MustCompile(`(?i)frequency\s*[:=-]\s*(\d+)`)
)

// extractFields scans messy prose for the five expected field labels,
// independently, and returns a one-element record holding whatever was
// found. Returns an empty slice when nothing matched.
func extractFields(text string) []map[string]any {
	rec := make(map[string]any)

	if m := weaknessRe.FindStringSubmatch(text); m != nil {
		rec["weakness"] = strings.TrimSpace(m[1])
	}
	if m := patternTypeRe.FindStringSubmatch(text); m != nil {
		rec["pattern_type"] = strings.TrimSpace(m[1])
	}
	if m := descriptionRe.FindStringSubmatch(text); m != nil {
		desc := m[1]
		// Cut at the next field label, then collapse whitespace.
		if loc := descSplitRe.FindStringIndex(desc); loc != nil {
			desc = desc[:loc[0]]
		}
		rec["description"] = strings.Join(strings.Fields(desc), " ")
	}
	if m := evidenceRe.FindStringSubmatch(text); m != nil {
		var ids []int
		for _, n := range intRe.FindAllString(m[1], -1) {
			if v, err := strconv.Atoi(n); err == nil {
				ids = append(ids, v)
			}
		}
		if len(ids) > 0 {
			rec["evidence_question_ids"] = ids
		}
	}
	if m := frequencyRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			rec["frequency"] = v
		}
	}

	if len(rec) == 0 {
		return nil
	}
	return []map[string]any{rec}
}

// fromRecord maps one raw record to a Weakness: text from the "weakness"
// field, importance from "importance" (default 1.0), everything else into
// the metadata bag. The id is always freshly generated.
func fromRecord(rec map[string]any) Weakness {
	w := Weakness{
		ID:         NewID(),
		Importance: 1.0,
	}

	meta := make(map[string]any)
	for k, v := range rec {
		switch k {
		case "id":
			// Model-produced ids are discarded.
		case "weakness":
			if s, ok := v.(string); ok {
				w.Text = s
			}
		case "importance":
			if f, ok := v.(float64); ok {
				w.Importance = f
			}
		default:
			meta[k] = v
		}
	}
	if len(meta) > 0 {
		w.Metadata = meta
	}
	return w
}
