package letter

import "time"

// ScheduleSuggestions fills in target dates for suggestions that lack one and
// clamps percentages to the 0-100 range. Each assigned date lands after the most
// recently scheduled date, with the spacing widening from one month to three as
// more milestones accumulate, so the sequence of due dates is strictly
// increasing instead of clustering on a single day.
//
// base anchors the first assigned date (typically today). Suggestions that
// already carry a parseable date keep it and advance the anchor.
func ScheduleSuggestions(suggestions []MilestoneSuggestion, base time.Time) []MilestoneSuggestion {
	out := make([]MilestoneSuggestion, len(suggestions))
	last := base
	scheduled := 0

	for i, s := range suggestions {
		s.Percentage = clampPercentage(s.Percentage)

		if t, err := ParseDate(s.TargetDate); err == nil {
			s.TargetDate = t.Format(DateLayout)
			if t.After(last) {
				last = t
			}
			scheduled++
			out[i] = s
			continue
		}

		months := 1 + scheduled
		if months > 3 {
			months = 3
		}
		last = last.AddDate(0, months, 0)
		s.TargetDate = last.Format(DateLayout)
		scheduled++
		out[i] = s
	}

	return out
}

func clampPercentage(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
