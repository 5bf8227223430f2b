package health

import (
	"fmt"
	"unicode/utf8"
)

// AssessmentInput is what a caller supplies to record an assessment.
type AssessmentInput struct {
	Week   string                  `json:"week"`
	Scores map[Dimension]SubScores `json:"scores"`
	Notes  map[Dimension]Notes     `json:"notes,omitempty"`
}

// NewAssessment validates the input and derives every dimension average.
func NewAssessment(in AssessmentInput) (Assessment, error) {
	if !IsWeek(in.Week) {
		return Assessment{}, fmt.Errorf("%w: %q", ErrInvalidWeek, in.Week)
	}

	a := Assessment{Week: in.Week}
	for _, d := range Dimensions {
		sub, ok := in.Scores[d]
		if !ok {
			return Assessment{}, fmt.Errorf("%w: %s", ErrMissingDimension, d)
		}
		for i, v := range sub {
			if v < MinSubScore || v > MaxSubScore {
				return Assessment{}, fmt.Errorf("%w: %s_%d=%d", ErrInvalidScore, d, i, v)
			}
		}
		notes := in.Notes[d]
		for i, n := range notes {
			if utf8.RuneCountInString(n) > MaxNoteLength {
				return Assessment{}, fmt.Errorf("%w: %s_%d", ErrNoteTooLong, d, i)
			}
		}

		avg, err := DimensionAverage(sub[:])
		if err != nil {
			return Assessment{}, err
		}
		a.SetDimension(d, DimensionScore{Average: avg, Sub: sub, Notes: notes})
	}
	return a, nil
}

// DuplicatePeriodWarning is returned instead of writing when a project already
// has an assessment for the week. It is advisory: the caller confirms and
// records again with overwrite set.
type DuplicatePeriodWarning struct {
	ProjectID string `json:"project_id"`
	Week      string `json:"week"`
}

func (w DuplicatePeriodWarning) Message() string {
	return fmt.Sprintf("project %s already has an assessment for %s", w.ProjectID, w.Week)
}

// RecordResult is the outcome of Record.
type RecordResult struct {
	Project  Project
	Replaced bool
	Warning  *DuplicatePeriodWarning
}

// Record merges a into a copy of p. A new week is appended; an existing week
// is replaced in place only when overwrite is set, otherwise p is returned
// unchanged with a warning.
func Record(p Project, a Assessment, overwrite bool) RecordResult {
	for i, existing := range p.Ratings {
		if existing.Week != a.Week {
			continue
		}
		if !overwrite {
			return RecordResult{
				Project: p,
				Warning: &DuplicatePeriodWarning{ProjectID: p.ID, Week: a.Week},
			}
		}
		out := p.Clone()
		out.Ratings[i] = a
		return RecordResult{Project: out, Replaced: true}
	}

	out := p.Clone()
	out.Ratings = append(out.Ratings, a)
	return RecordResult{Project: out}
}
