package health

import (
	"bytes"
	"fmt"
	"strconv"
	"time"
)

// Dimension identifies one of the five fixed health categories.
type Dimension string

const (
	DimensionDelivery     Dimension = "EN"
	DimensionTeam         Dimension = "EQ"
	DimensionStakeholders Dimension = "SH"
	DimensionValue        Dimension = "VA"
	DimensionRisk         Dimension = "RI"
)

// SubCriteriaCount is the number of rated items in every dimension.
const SubCriteriaCount = 4

// MaxNoteLength bounds a single justification, counted in runes.
const MaxNoteLength = 1500

// Dimensions lists every dimension in display order.
var Dimensions = []Dimension{
	DimensionDelivery,
	DimensionTeam,
	DimensionStakeholders,
	DimensionValue,
	DimensionRisk,
}

// DimensionInfo is presentation metadata for a dimension.
type DimensionInfo struct {
	Key         Dimension                `json:"key"`
	Label       string                   `json:"label"`
	SubCriteria [SubCriteriaCount]string `json:"sub_criteria"`
}

var dimensionInfo = map[Dimension]DimensionInfo{
	DimensionDelivery: {
		Key:   DimensionDelivery,
		Label: "Delivery",
		SubCriteria: [SubCriteriaCount]string{
			"Schedule compliance",
			"Velocity and predictability",
			"Deliverable quality",
			"Backlog and definition-of-done clarity",
		},
	},
	DimensionTeam: {
		Key:   DimensionTeam,
		Label: "Team",
		SubCriteria: [SubCriteriaCount]string{
			"Capacity and balance",
			"Motivation and morale",
			"Workload",
			"Psychological safety",
		},
	},
	DimensionStakeholders: {
		Key:   DimensionStakeholders,
		Label: "Stakeholders",
		SubCriteria: [SubCriteriaCount]string{
			"Satisfaction",
			"Scope alignment",
			"Communication",
			"Trust",
		},
	},
	DimensionValue: {
		Key:   DimensionValue,
		Label: "Value",
		SubCriteria: [SubCriteriaCount]string{
			"Success metrics",
			"Evidence of value",
			"Early adoption",
			"Business case link",
		},
	},
	DimensionRisk: {
		Key:   DimensionRisk,
		Label: "Risk",
		SubCriteria: [SubCriteriaCount]string{
			"Technical and functional risks",
			"External dependencies",
			"Resources",
			"Technical debt",
		},
	},
}

// Info returns the label metadata for d.
func (d Dimension) Info() (DimensionInfo, bool) {
	info, ok := dimensionInfo[d]
	return info, ok
}

// Valid reports whether d belongs to the closed dimension set.
func (d Dimension) Valid() bool {
	_, ok := dimensionInfo[d]
	return ok
}

// Rubric returns the metadata of every dimension in display order.
func Rubric() []DimensionInfo {
	out := make([]DimensionInfo, 0, len(Dimensions))
	for _, d := range Dimensions {
		out = append(out, dimensionInfo[d])
	}
	return out
}

// Score is a health value on the 1–5 scale carried with one decimal.
type Score float64

func (s Score) String() string {
	return strconv.FormatFloat(float64(s), 'f', 1, 64)
}

// MarshalJSON writes the score as a number with one decimal.
func (s Score) MarshalJSON() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalJSON accepts both numbers and quoted numbers; stored documents
// from the browser tool keep averages as strings.
func (s *Score) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*s = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("parse score %q: %w", data, err)
	}
	*s = Score(v)
	return nil
}

// SubScores holds the four sub-criterion ratings of one dimension.
type SubScores [SubCriteriaCount]int

// Notes holds the optional justification for each sub-criterion.
type Notes [SubCriteriaCount]string

// DimensionScore is the rating of a single dimension within an assessment.
type DimensionScore struct {
	Average Score     `json:"average"`
	Sub     SubScores `json:"sub"`
	Notes   Notes     `json:"notes"`
}

// Assessment is one weekly scoring event covering every dimension.
type Assessment struct {
	Week         string         `json:"week"`
	Delivery     DimensionScore `json:"EN"`
	Team         DimensionScore `json:"EQ"`
	Stakeholders DimensionScore `json:"SH"`
	Value        DimensionScore `json:"VA"`
	Risk         DimensionScore `json:"RI"`
}

// Dimension returns the score block for d.
func (a Assessment) Dimension(d Dimension) (DimensionScore, bool) {
	if p := a.slot(d); p != nil {
		return *p, true
	}
	return DimensionScore{}, false
}

// SetDimension replaces the score block for d. Unknown dimensions are ignored.
func (a *Assessment) SetDimension(d Dimension, score DimensionScore) {
	if p := a.slot(d); p != nil {
		*p = score
	}
}

func (a *Assessment) slot(d Dimension) *DimensionScore {
	switch d {
	case DimensionDelivery:
		return &a.Delivery
	case DimensionTeam:
		return &a.Team
	case DimensionStakeholders:
		return &a.Stakeholders
	case DimensionValue:
		return &a.Value
	case DimensionRisk:
		return &a.Risk
	default:
		return nil
	}
}

// Averages returns the five dimension averages in display order.
func (a Assessment) Averages() []Score {
	return []Score{
		a.Delivery.Average,
		a.Team.Average,
		a.Stakeholders.Average,
		a.Value.Average,
		a.Risk.Average,
	}
}

// Overall is the rounded overall health of the assessment.
func (a Assessment) Overall() Score {
	score, _ := OverallScore(a.Averages())
	return score
}

// Status is the lifecycle state of a project.
type Status string

const (
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

// ParseStatus resolves a stored status; an empty value is a legacy record
// and means active.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case "", StatusActive:
		return StatusActive, nil
	case StatusClosed:
		return StatusClosed, nil
	default:
		return "", fmt.Errorf("unknown project status %q", raw)
	}
}

// Project is a tracked engagement and its assessment history.
type Project struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Client    string       `json:"client"`
	Leader    string       `json:"leader"`
	Delivery  string       `json:"delivery"`
	TechLead  string       `json:"tech_lead"`
	Status    Status       `json:"status"`
	Ratings   []Assessment `json:"ratings"`
	CreatedAt time.Time    `json:"created_at"`
}

// Clone returns a copy of p that shares no slice storage with it.
func (p Project) Clone() Project {
	out := p
	if p.Ratings != nil {
		out.Ratings = make([]Assessment, len(p.Ratings))
		copy(out.Ratings, p.Ratings)
	}
	return out
}

// Find returns the assessment recorded for week.
func (p Project) Find(week string) (Assessment, bool) {
	for _, a := range p.Ratings {
		if a.Week == week {
			return a, true
		}
	}
	return Assessment{}, false
}
