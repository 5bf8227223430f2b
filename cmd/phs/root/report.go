package root

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/luisamog/ARKHO-PHS/internal/domain/health"
	"github.com/spf13/cobra"
)

type filterFlags struct {
	year     string
	delivery string
	leader   string
	techLead string
	view     string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.year, "year", "", "only weeks of this year (e.g. 2024)")
	cmd.Flags().StringVar(&f.delivery, "delivery", "", "delivery manager")
	cmd.Flags().StringVar(&f.leader, "leader", "", "project leader")
	cmd.Flags().StringVar(&f.techLead, "tech-lead", "", "tech lead")
	cmd.Flags().StringVar(&f.view, "view", "active", "active or closed")
}

func (f *filterFlags) filter() (health.Filter, error) {
	view, err := health.ParseStatus(f.view)
	if err != nil {
		return health.Filter{}, err
	}
	return health.Filter{
		Year:     f.year,
		Delivery: f.delivery,
		Leader:   f.leader,
		TechLead: f.techLead,
		View:     view,
	}, nil
}

func newStatsCmd(flags *globalFlags) *cobra.Command {
	ff := &filterFlags{}
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show portfolio statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := ff.filter()
			if err != nil {
				return err
			}
			a, cleanup, err := openFromFlags(cmd, flags)
			if err != nil {
				return err
			}
			defer cleanup()

			stats, err := a.projects.Stats(cmd.Context(), f)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if flags.asJSON {
				return writeJSON(out, stats)
			}
			fmt.Fprintf(out, "Projects:       %d\n", stats.Total)
			fmt.Fprintf(out, "Average health: %s (%s)\n", stats.AverageLabel(), stats.AverageStatus)
			fmt.Fprintf(out, "At risk:        %d\n", stats.AtRiskCount)
			return nil
		},
	}
	ff.register(cmd)
	return cmd
}

func newTrendCmd(flags *globalFlags) *cobra.Command {
	ff := &filterFlags{}
	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Show weekly overall scores per project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := ff.filter()
			if err != nil {
				return err
			}
			a, cleanup, err := openFromFlags(cmd, flags)
			if err != nil {
				return err
			}
			defer cleanup()

			trend, err := a.projects.Trend(cmd.Context(), f)
			if err != nil {
				return err
			}
			if flags.asJSON {
				return writeJSON(cmd.OutOrStdout(), trend)
			}
			return printTrend(cmd.OutOrStdout(), trend)
		},
	}
	ff.register(cmd)
	return cmd
}

func printTrend(out io.Writer, trend health.Trend) error {
	if len(trend.Periods) == 0 {
		_, err := fmt.Fprintln(out, "No assessments.")
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "SERIES\t%s\n", strings.Join(trend.Periods, "\t"))
	for _, s := range trend.Series {
		cells := make([]string, len(s.Points))
		for i, p := range s.Points {
			cells[i] = "-"
			if p != nil {
				cells[i] = fmt.Sprintf("%.2f", *p)
			}
		}
		fmt.Fprintf(tw, "%s\t%s\n", s.Label, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func newProjectsCmd(flags *globalFlags) *cobra.Command {
	ff := &filterFlags{}
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List projects with their relevant assessment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := ff.filter()
			if err != nil {
				return err
			}
			a, cleanup, err := openFromFlags(cmd, flags)
			if err != nil {
				return err
			}
			defer cleanup()

			dash, err := a.projects.Dashboard(cmd.Context(), f)
			if err != nil {
				return err
			}
			if flags.asJSON {
				return writeJSON(cmd.OutOrStdout(), dash.Rows)
			}
			return printRows(cmd.OutOrStdout(), dash.Rows)
		},
	}
	ff.register(cmd)
	return cmd
}

func printRows(out io.Writer, rows []health.Row) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	header := []string{"ID", "NAME", "CLIENT", "WEEK", "OVERALL"}
	for _, d := range health.Dimensions {
		header = append(header, string(d))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, r := range rows {
		overall := "-"
		if r.Overall != nil {
			overall = r.Overall.String()
		}
		week := r.Week
		if week == "" {
			week = "-"
		}
		cells := []string{r.ProjectID, r.Name, r.Client, week, overall}
		for _, c := range r.Dimensions {
			cell := "-"
			if c.Score != nil {
				cell = c.Score.String()
			}
			cells = append(cells, cell)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func openFromFlags(cmd *cobra.Command, flags *globalFlags) (*app, func(), error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, nil, err
	}
	return openApp(cfg, cmd.ErrOrStderr())
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
