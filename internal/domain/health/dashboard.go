package health

import "sort"

// FilterOptions lists the values available to each dashboard filter.
type FilterOptions struct {
	Years      []string `json:"years"`
	Deliveries []string `json:"deliveries"`
	Leaders    []string `json:"leaders"`
	TechLeads  []string `json:"tech_leads"`
}

// Options collects distinct filter values across all projects. Years are
// newest first, the rest ascending.
func Options(projects []Project) FilterOptions {
	years := map[string]struct{}{}
	deliveries := map[string]struct{}{}
	leaders := map[string]struct{}{}
	techLeads := map[string]struct{}{}

	for _, p := range projects {
		addNonEmpty(deliveries, p.Delivery)
		addNonEmpty(leaders, p.Leader)
		addNonEmpty(techLeads, p.TechLead)
		for _, a := range p.Ratings {
			addNonEmpty(years, WeekYear(a.Week))
		}
	}

	opts := FilterOptions{
		Years:      sortedKeys(years),
		Deliveries: sortedKeys(deliveries),
		Leaders:    sortedKeys(leaders),
		TechLeads:  sortedKeys(techLeads),
	}
	sort.Sort(sort.Reverse(sort.StringSlice(opts.Years)))
	return opts
}

func addNonEmpty(set map[string]struct{}, v string) {
	if v != "" {
		set[v] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DimensionCell is one dimension column of a dashboard row.
type DimensionCell struct {
	Dimension Dimension    `json:"dimension"`
	Score     *Score       `json:"score"`
	Status    TrafficLight `json:"status"`
}

// Row is one project line of the dashboard table.
type Row struct {
	ProjectID     string          `json:"project_id"`
	Name          string          `json:"name"`
	Client        string          `json:"client"`
	Leader        string          `json:"leader"`
	Delivery      string          `json:"delivery"`
	TechLead      string          `json:"tech_lead"`
	Status        Status          `json:"status"`
	Week          string          `json:"week,omitempty"`
	Overall       *Score          `json:"overall"`
	OverallStatus TrafficLight    `json:"overall_status"`
	Dimensions    []DimensionCell `json:"dimensions"`
}

// Rows builds the dashboard table for the projects passing f, showing each
// project's relevant assessment.
func Rows(projects []Project, f Filter) []Row {
	filtered := FilterProjects(projects, f)
	rows := make([]Row, 0, len(filtered))
	for _, p := range filtered {
		row := Row{
			ProjectID:     p.ID,
			Name:          p.Name,
			Client:        p.Client,
			Leader:        p.Leader,
			Delivery:      p.Delivery,
			TechLead:      p.TechLead,
			Status:        p.Status,
			OverallStatus: TrafficLightNone,
			Dimensions:    make([]DimensionCell, 0, len(Dimensions)),
		}

		a, ok := SelectRelevant(p.Ratings, f.Year)
		for _, d := range Dimensions {
			cell := DimensionCell{Dimension: d, Status: TrafficLightNone}
			if ok {
				ds, _ := a.Dimension(d)
				score := ds.Average
				cell.Score = &score
				cell.Status = Classify(float64(score))
			}
			row.Dimensions = append(row.Dimensions, cell)
		}
		if ok {
			overall := a.Overall()
			row.Week = a.Week
			row.Overall = &overall
			row.OverallStatus = Classify(float64(overall))
		}
		rows = append(rows, row)
	}
	return rows
}

// HistoryEntry summarizes one assessment of a project.
type HistoryEntry struct {
	Assessment Assessment   `json:"assessment"`
	Overall    Score        `json:"overall"`
	Status     TrafficLight `json:"status"`
}

// History lists a project's assessments, newest week first.
func History(p Project) []HistoryEntry {
	ratings := make([]Assessment, len(p.Ratings))
	copy(ratings, p.Ratings)
	sort.SliceStable(ratings, func(i, j int) bool { return ratings[i].Week > ratings[j].Week })

	out := make([]HistoryEntry, 0, len(ratings))
	for _, a := range ratings {
		overall := a.Overall()
		out = append(out, HistoryEntry{
			Assessment: a,
			Overall:    overall,
			Status:     Classify(float64(overall)),
		})
	}
	return out
}
