package health

// Filter scopes a portfolio query. It is built per request and never stored.
type Filter struct {
	Year     string `json:"year,omitempty"`
	Delivery string `json:"delivery,omitempty"`
	Leader   string `json:"leader,omitempty"`
	TechLead string `json:"tech_lead,omitempty"`
	// View selects active or closed projects; empty means active.
	View Status `json:"view,omitempty"`
}

func (f Filter) view() Status {
	if f.View == "" {
		return StatusActive
	}
	return f.View
}

// Matches reports whether p passes the status and attribute constraints.
// The year is not checked here: it only scopes assessment
// selection and trends.
func (f Filter) Matches(p Project) bool {
	status := p.Status
	if status == "" {
		status = StatusActive
	}
	if status != f.view() {
		return false
	}
	if f.Delivery != "" && p.Delivery != f.Delivery {
		return false
	}
	if f.Leader != "" && p.Leader != f.Leader {
		return false
	}
	if f.TechLead != "" && p.TechLead != f.TechLead {
		return false
	}
	return true
}

// FilterProjects keeps the projects matching f, preserving input order.
func FilterProjects(projects []Project, f Filter) []Project {
	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}
