package root

import (
	"fmt"
	"os"

	"github.com/luisamog/ARKHO-PHS/internal/mcp"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	dbPath string
	asJSON bool
}

// NewRootCmd builds the phs command tree.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "phs",
		Short:         "Project health tracker",
		Long:          "phs tracks weekly health assessments for a portfolio of projects and serves them over MCP and HTTP.",
		Version:       mcp.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	cmd.PersistentFlags().StringVar(&flags.dbPath, "db", "", "database path (overrides PHS_DB_PATH)")
	cmd.PersistentFlags().BoolVar(&flags.asJSON, "json", false, "print JSON instead of text")

	cmd.AddCommand(
		newServeCmd(flags),
		newStatsCmd(flags),
		newTrendCmd(flags),
		newProjectsCmd(flags),
		newImportCmd(flags),
		newExportCmd(flags),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error: "+err.Error())
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "phs v%s\n", mcp.Version)
		},
	}
}
