package recommend

import "sort"

// SelectCourses reduces a flat candidate list to at most maxTotal courses.
//
// Every weakness with at least one candidate keeps its single best match
// (the floor set), then remaining slots are filled with the best of the
// rest. Each course id appears at most once in the result; dedup is by
// course identity, not weakness identity. Ties break first-seen.
func SelectCourses(candidates []CourseScore, maxTotal int) []CourseScore {
	if maxTotal <= 0 || len(candidates) == 0 {
		return nil
	}

	// Top pick per weakness, in first-seen weakness order.
	topByWeakness := make(map[string]CourseScore)
	var weaknessOrder []string
	for _, c := range candidates {
		best, seen := topByWeakness[c.WeaknessID]
		if !seen {
			weaknessOrder = append(weaknessOrder, c.WeaknessID)
		}
		if !seen || c.Score > best.Score {
			topByWeakness[c.WeaknessID] = c
		}
	}

	var topPicks []CourseScore
	pickedCourses := make(map[string]bool)
	for _, wid := range weaknessOrder {
		pick := topByWeakness[wid]
		if pickedCourses[pick.Course.ID] {
			continue
		}
		pickedCourses[pick.Course.ID] = true
		topPicks = append(topPicks, pick)
	}
	sortByScoreDesc(topPicks)

	if len(topPicks) >= maxTotal {
		return topPicks[:maxTotal]
	}

	// Fill remaining slots with the best unselected courses.
	fillByCourse := make(map[string]CourseScore)
	var fillOrder []string
	for _, c := range candidates {
		if pickedCourses[c.Course.ID] {
			continue
		}
		best, seen := fillByCourse[c.Course.ID]
		if !seen {
			fillOrder = append(fillOrder, c.Course.ID)
		}
		if !seen || c.Score > best.Score {
			fillByCourse[c.Course.ID] = c
		}
	}

	fill := make([]CourseScore, 0, len(fillOrder))
	for _, id := range fillOrder {
		fill = append(fill, fillByCourse[id])
	}
	sortByScoreDesc(fill)

	remaining := maxTotal - len(topPicks)
	if len(fill) > remaining {
		fill = fill[:remaining]
	}
	return append(topPicks, fill...)
}

func sortByScoreDesc(scores []CourseScore) {
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
}
