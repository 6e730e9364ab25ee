package report

import (
	"fmt"

	"github.com/abhisek/examlens/internal/exam"
)

// CompareDomains builds one improvement/decline sentence per domain
// present in both the current and prior performance views with a defined
// accuracy. Order follows the current view's domain order. Either view
// being absent yields no comparisons.
func CompareDomains(current, prior *exam.DomainPerformance) []string {
	if current == nil || prior == nil {
		return nil
	}

	var lines []string
	for _, cur := range current.Domains {
		if cur.Accuracy == nil {
			continue
		}
		prev := prior.Stats(cur.Domain)
		if prev == nil || prev.Accuracy == nil {
			continue
		}

		delta := *cur.Accuracy - *prev.Accuracy
		direction := "Improved"
		if delta < 0 {
			direction = "Declined"
		}
		lines = append(lines, fmt.Sprintf("%s: %s by %+.1f%% (from %.1f%% to %.1f%%)",
			cur.Domain, direction, delta*100, *prev.Accuracy*100, *cur.Accuracy*100))
	}
	return lines
}
