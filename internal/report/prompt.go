package report

import (
	"fmt"
	"strings"
)

const narrativeSystemPrompt = `You write concise performance reports for learners based on their weaknesses and recommended courses.

Domain inference rule: you may name the subject area only if the weaknesses or course titles clearly indicate one; otherwise stay domain-neutral.

Do not invent exams, metrics, or organizations. Use only the provided weaknesses and courses. Do not invent new courses or change their titles.

Tone: supportive and encouraging. Keep each section to 2-4 sentences of smooth narrative prose.`

func buildNarrativeMessage(in Input) string {
	var b strings.Builder

	b.WriteString("Weaknesses identified:\n")
	for _, w := range in.Weaknesses {
		fmt.Fprintf(&b, "- (%s) %s (importance=%g)\n", w.ID, w.Text, w.Importance)
	}

	b.WriteString("\nSelected recommended courses (do NOT change this list):\n")
	for _, c := range in.Courses {
		fmt.Fprintf(&b, "- %s (id=%s) helps weakness %s\n", c.Course.Title, c.Course.ID, c.WeaknessID)
	}

	fmt.Fprintf(&b, "\nAttempt context: attempt %d of %d, scored %g of %g, %d of %d questions incorrect.\n",
		in.Attempt.AttemptNumber, in.Attempt.TotalAttempts,
		in.Attempt.EarnedScore, in.Attempt.TotalScore,
		in.IncorrectCount, in.TotalQuestions)

	b.WriteString("\nFill every section. The \"Recommended Course\" array must describe each provided course, in order, and how it supports the weaknesses.")
	return b.String()
}
