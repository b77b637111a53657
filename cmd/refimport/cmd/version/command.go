// Package version implements the version command.
package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/refimport/internal/cmd/application"
	"github.com/agentstation/refimport/internal/cmd/output"
	"github.com/agentstation/refimport/pkg/constants"
)

// Info is the structured version output.
type Info struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
	BuiltBy string `json:"built_by" yaml:"built_by"`
}

// NewCommand creates the version command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := Info{
				Version: app.Version(),
				Commit:  app.Commit(),
				Date:    app.Date(),
				BuiltBy: app.BuiltBy(),
			}

			format := output.Format(app.OutputFormat())
			if format == output.FormatJSON || format == output.FormatYAML {
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), info)
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "%s %s\n", constants.AppName, info.Version)
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				_, _ = fmt.Fprintf(w, "  commit:   %s\n", info.Commit)
				_, _ = fmt.Fprintf(w, "  built:    %s\n", info.Date)
				_, _ = fmt.Fprintf(w, "  built by: %s\n", info.BuiltBy)
			}
			return nil
		},
	}
}
