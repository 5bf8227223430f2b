// Package legacy reads and writes the portfolio document kept by the
// browser version of the tracker (the "pht_projects" array).
package legacy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/luisamog/ARKHO-PHS/internal/domain/health"
)

// ErrMalformed indicates the document is not a legacy portfolio.
var ErrMalformed = errors.New("malformed legacy document")

type document []project

type project struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Client    string   `json:"client"`
	Leader    string   `json:"leader"`
	Delivery  string   `json:"delivery"`
	TechLead  string   `json:"techLead"`
	Status    string   `json:"status,omitempty"`
	CreatedAt string   `json:"createdAt,omitempty"`
	Ratings   []rating `json:"ratings"`
}

type rating struct {
	Week           string                `json:"week"`
	Dimensions     map[string]flexNumber `json:"dimensions"`
	Subdimensions  map[string]flexNumber `json:"subdimensions,omitempty"`
	Justifications map[string]string     `json:"justifications,omitempty"`
}

// flexNumber accepts 3, 3.5 and "3.5". The browser stored averages as
// strings and sub-scores as numbers.
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("%w: number %q", ErrMalformed, data)
	}
	*n = flexNumber(v)
	return nil
}

// Decode reads a legacy document. Projects without a status are active.
// Dimension averages are recomputed from the sub-scores when all four are
// present and taken from the stored value otherwise. Ratings must hold a
// valid ISO week, at most one per week per project, sub-scores within
// 1..5 and all five dimensions; anything else makes the document malformed.
func Decode(r io.Reader) ([]health.Project, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	projects := make([]health.Project, 0, len(doc))
	for i, p := range doc {
		status, err := health.ParseStatus(p.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: project %d: %w", ErrMalformed, i, err)
		}
		proj := health.Project{
			ID:        p.ID,
			Name:      p.Name,
			Client:    p.Client,
			Leader:    p.Leader,
			Delivery:  p.Delivery,
			TechLead:  p.TechLead,
			Status:    status,
			Ratings:   make([]health.Assessment, 0, len(p.Ratings)),
			CreatedAt: createdAt(p),
		}
		seen := make(map[string]struct{}, len(p.Ratings))
		for _, r := range p.Ratings {
			if _, dup := seen[r.Week]; dup {
				return nil, fmt.Errorf("%w: project %q week %q: duplicate week", ErrMalformed, p.ID, r.Week)
			}
			seen[r.Week] = struct{}{}
			a, err := decodeRating(r)
			if err != nil {
				return nil, fmt.Errorf("%w: project %q week %q: %w", ErrMalformed, p.ID, r.Week, err)
			}
			proj.Ratings = append(proj.Ratings, a)
		}
		projects = append(projects, proj)
	}
	return projects, nil
}

func decodeRating(r rating) (health.Assessment, error) {
	if !health.IsWeek(r.Week) {
		return health.Assessment{}, health.ErrInvalidWeek
	}
	a := health.Assessment{Week: r.Week}
	for _, d := range health.Dimensions {
		var score health.DimensionScore
		sub := make([]int, 0, health.SubCriteriaCount)
		for i := 0; i < health.SubCriteriaCount; i++ {
			key := subKey(d, i)
			v, ok := r.Subdimensions[key]
			if !ok {
				continue
			}
			n := int(v)
			if float64(n) != float64(v) || n < health.MinSubScore || n > health.MaxSubScore {
				return health.Assessment{}, fmt.Errorf("%w: %s=%v", health.ErrInvalidScore, key, float64(v))
			}
			score.Sub[i] = n
			sub = append(sub, n)
			score.Notes[i] = r.Justifications[key]
		}

		if len(sub) == health.SubCriteriaCount {
			avg, err := health.DimensionAverage(sub)
			if err != nil {
				return health.Assessment{}, err
			}
			score.Average = avg
		} else {
			stored, ok := r.Dimensions[string(d)]
			if !ok {
				return health.Assessment{}, fmt.Errorf("%w: %s", health.ErrMissingDimension, d)
			}
			avg := health.Round1(float64(stored))
			if avg < health.MinSubScore || avg > health.MaxSubScore {
				return health.Assessment{}, fmt.Errorf("%w: %s=%v", health.ErrInvalidScore, d, float64(stored))
			}
			score.Average = health.Score(avg)
		}
		a.SetDimension(d, score)
	}
	return a, nil
}

// createdAt prefers an explicit timestamp and falls back to the id, which
// the browser generated from the creation time in milliseconds.
func createdAt(p project) time.Time {
	if p.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339, p.CreatedAt); err == nil {
			return t
		}
	}
	if ms, err := strconv.ParseInt(p.ID, 10, 64); err == nil && ms > 0 {
		return time.UnixMilli(ms).UTC()
	}
	return time.Time{}
}

// Encode writes projects as a legacy document that the browser version can
// load.
func Encode(w io.Writer, projects []health.Project) error {
	doc := make([]encodedProject, 0, len(projects))
	for _, p := range projects {
		out := encodedProject{
			ID:       p.ID,
			Name:     p.Name,
			Client:   p.Client,
			Leader:   p.Leader,
			Delivery: p.Delivery,
			TechLead: p.TechLead,
			Status:   string(p.Status),
			Ratings:  make([]encodedRating, 0, len(p.Ratings)),
		}
		if out.Status == "" {
			out.Status = string(health.StatusActive)
		}
		if !p.CreatedAt.IsZero() {
			out.CreatedAt = p.CreatedAt.UTC().Format(time.RFC3339)
		}
		for _, a := range p.Ratings {
			out.Ratings = append(out.Ratings, encodeRating(a))
		}
		doc = append(doc, out)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode legacy document: %w", err)
	}
	return nil
}

type encodedProject struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Client    string          `json:"client"`
	Leader    string          `json:"leader"`
	Delivery  string          `json:"delivery"`
	TechLead  string          `json:"techLead"`
	Status    string          `json:"status"`
	CreatedAt string          `json:"createdAt,omitempty"`
	Ratings   []encodedRating `json:"ratings"`
}

type encodedRating struct {
	Week           string            `json:"week"`
	Dimensions     map[string]string `json:"dimensions"`
	Subdimensions  map[string]int    `json:"subdimensions"`
	Justifications map[string]string `json:"justifications"`
}

func encodeRating(a health.Assessment) encodedRating {
	out := encodedRating{
		Week:           a.Week,
		Dimensions:     make(map[string]string, len(health.Dimensions)),
		Subdimensions:  make(map[string]int, len(health.Dimensions)*health.SubCriteriaCount),
		Justifications: make(map[string]string, len(health.Dimensions)*health.SubCriteriaCount),
	}
	for _, d := range health.Dimensions {
		score, _ := a.Dimension(d)
		out.Dimensions[string(d)] = score.Average.String()
		for i := 0; i < health.SubCriteriaCount; i++ {
			if score.Sub[i] == 0 {
				continue
			}
			key := subKey(d, i)
			out.Subdimensions[key] = score.Sub[i]
			out.Justifications[key] = score.Notes[i]
		}
	}
	return out
}

func subKey(d health.Dimension, i int) string {
	return string(d) + "_" + strconv.Itoa(i)
}
