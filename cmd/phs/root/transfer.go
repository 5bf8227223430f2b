package root

import (
	"fmt"
	"io"
	"os"

	"github.com/luisamog/ARKHO-PHS/internal/domain/health"
	"github.com/luisamog/ARKHO-PHS/internal/legacy"
	"github.com/spf13/cobra"
)

func newImportCmd(flags *globalFlags) *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import projects from a browser export (use - for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, closeIn, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer closeIn()

			projects, err := legacy.Decode(in)
			if err != nil {
				return err
			}

			a, cleanup, err := openFromFlags(cmd, flags)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := a.projects.Import(cmd.Context(), projects, replace)
			if err != nil {
				return err
			}
			if flags.asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d projects (%d stored).\n", res.Imported, res.Total)
			return nil
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "replace the stored portfolio instead of merging by ID")
	return cmd
}

func newExportCmd(flags *globalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every project in the browser format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, cleanup, err := openFromFlags(cmd, flags)
			if err != nil {
				return err
			}
			defer cleanup()

			projects, err := a.projects.All(cmd.Context())
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				return legacy.Encode(cmd.OutOrStdout(), projects)
			}
			return writeFile(output, projects)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	return cmd
}

// writeFile encodes projects into path and reports a failed close.
func writeFile(path string, projects []health.Project) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return legacy.Encode(f, projects)
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
