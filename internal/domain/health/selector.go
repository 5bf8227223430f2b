package health

import "strings"

// Latest returns the assessment with the greatest week. The fixed-width
// week format makes lexicographic order chronological.
func Latest(assessments []Assessment) (Assessment, bool) {
	return latestWhere(assessments, func(string) bool { return true })
}

// SelectRelevant resolves the assessment a project shows under a year
// filter. Without a year it is the latest one. With a year, the latest one
// is kept if it already belongs to that year; otherwise the latest within
// the year is used, and nothing when the year has no assessments.
func SelectRelevant(assessments []Assessment, year string) (Assessment, bool) {
	latest, ok := Latest(assessments)
	if !ok || year == "" {
		return latest, ok
	}
	if inYear(latest.Week, year) {
		return latest, true
	}
	return latestWhere(assessments, func(week string) bool { return inYear(week, year) })
}

func latestWhere(assessments []Assessment, keep func(week string) bool) (Assessment, bool) {
	var (
		best  Assessment
		found bool
	)
	for _, a := range assessments {
		if !keep(a.Week) {
			continue
		}
		if !found || a.Week > best.Week {
			best = a
			found = true
		}
	}
	return best, found
}

// inYear matches by prefix, so malformed weeks simply fail to match.
func inYear(week, year string) bool {
	return year != "" && strings.HasPrefix(week, year)
}
