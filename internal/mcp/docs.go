package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/luisamog/ARKHO-PHS/internal/domain/health"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `phs tracks the health of a portfolio of client projects through weekly assessments.

Core concepts:
- Project: a client engagement with a leader, delivery manager and technical lead. Status is active or closed.
- Assessment: one ISO week (YYYY-Www) of scores. Five dimensions, four sub-criteria each, every sub-score 1 to 5.
- Dimension average: mean of its four sub-scores, rounded half-up to one decimal.
- Overall: mean of the five dimension averages, rounded to one decimal.
- Traffic light: good >= 4, warning >= 3, critical < 3.
- At risk: a project whose overall is below 4.

Workflow:
1) Orient: get_filter_options, then get_dashboard (defaults to active projects).
2) Drill in: get_project or get_history for one project.
3) Score: record_assessment. If confirmation_required comes back the week already has an assessment; only repeat with overwrite=true when the user confirms.
4) Follow up: get_trend and get_recent_activity.

Year filter: a year never hides projects. It selects which assessment represents each project (the latest in that year, else the latest overall) and which weeks the trend covers.

Docs:
- phs://docs/index
- phs://docs/rubric
- phs://docs/scoring
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "phs://docs/index",
		Name:        "docs_index",
		Title:       "phs docs index",
		Description: "Entry point: what each tool does and which doc to read.",
		Content: `# Project health tracker: docs index

## Tools

- ` + "`get_dashboard`" + ` stats, table rows and trend for one filter.
- ` + "`get_portfolio_stats`" + ` / ` + "`get_trend`" + ` the same pieces on their own.
- ` + "`list_projects`" + ` / ` + "`get_project`" + ` / ` + "`get_history`" + ` browse projects.
- ` + "`create_project`" + ` / ` + "`update_project`" + ` / ` + "`archive_project`" + ` manage the portfolio.
- ` + "`record_assessment`" + ` score a week.
- ` + "`get_recent_activity`" + ` audit trail.

## Docs

- ` + "`phs://docs/rubric`" + ` the five dimensions and their sub-criteria.
- ` + "`phs://docs/scoring`" + ` rounding, traffic lights, selection and trend rules.
`,
	},
	{
		URI:         "phs://docs/rubric",
		Name:        "docs_rubric",
		Title:       "Assessment rubric",
		Description: "The five health dimensions and the four sub-criteria scored under each.",
		Content:     rubricDoc(),
	},
	{
		URI:         "phs://docs/scoring",
		Name:        "docs_scoring",
		Title:       "Scoring rules",
		Description: "How averages, traffic lights, portfolio stats and trends are computed.",
		Content: `# Scoring rules

## Averages

- Dimension average = mean of the four sub-scores, rounded half-up to one decimal (3.75 -> 3.8).
- Overall = mean of the five dimension averages, rounded to one decimal.

## Traffic lights

| Score | Light |
|-------|-------|
| >= 4.0 | good |
| >= 3.0 | warning |
| < 3.0 | critical |

## Relevant assessment

With a year filter, a project is represented by its latest assessment in that year.
If it has none there, its latest assessment overall is used instead.
Without a year filter the latest assessment overall is used.

## Portfolio stats

- Total counts every project passing the filter, assessed or not.
- Average health is the mean of the unrounded overalls, rounded once at the end.
- At risk counts projects whose overall is below 4.

## Trend

- Periods: every assessed week of the selected year, or the 12 most recent assessed weeks across the portfolio.
- The first series is the portfolio average; each project follows with a gap where it was not scored.
`,
	},
}

func rubricDoc() string {
	var b strings.Builder
	b.WriteString("# Assessment rubric\n\nEach sub-criterion is scored 1 (does not meet) to 5 (fully meets).\n")
	for _, info := range health.Rubric() {
		fmt.Fprintf(&b, "\n## %s (%s)\n\n", info.Label, info.Key)
		for i, sub := range info.SubCriteria {
			fmt.Fprintf(&b, "%d. %s\n", i+1, sub)
		}
	}
	return b.String()
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
