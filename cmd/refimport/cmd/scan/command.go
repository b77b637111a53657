// Package scan implements the scan command, which lists the candidate
// binaries of a directory without touching any project file.
package scan

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/agentstation/refimport"
	"github.com/agentstation/refimport/internal/cmd/alerts"
	"github.com/agentstation/refimport/internal/cmd/application"
	"github.com/agentstation/refimport/internal/cmd/output"
	"github.com/agentstation/refimport/pkg/logging"
)

// NewCommand creates the scan command.
func NewCommand(app application.Application) *cobra.Command {
	var filter, pattern string

	cmd := &cobra.Command{
		Use:     "scan <directory>",
		GroupID: "core",
		Short:   "List the assemblies in a directory and whether they can be referenced",
		Long: heredoc.Doc(`
			Scan lists every file in the directory that matches the pattern
			(default *.dll), in name order, together with the result of the
			managed assembly check. Nothing is written.
		`),
		Example: heredoc.Doc(`
			refimport scan lib
			refimport scan lib --filter Contoso. -o wide
			refimport scan lib -o json
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults := app.Defaults()
			if !cmd.Flags().Changed("filter") {
				filter = defaults.Filter
			}
			if !cmd.Flags().Changed("pattern") && defaults.Pattern != "" {
				pattern = defaults.Pattern
			}

			client, err := app.Client(refimport.WithPattern(pattern))
			if err != nil {
				return err
			}

			ctx := logging.WithOperation(cmd.Context(), "scan")
			entries, err := client.Scan(ctx, args[0], filter)
			if err != nil {
				return err
			}

			format := output.DetectFormat(app.OutputFormat())
			w := cmd.OutOrStdout()
			if !format.IsTable() {
				return output.NewFormatter(format).Format(w, entries)
			}

			if len(entries) == 0 {
				return alerts.NewFormatWriter(w, output.FormatTable).
					WriteAlert(alerts.NewInfo("No candidate binaries found in " + args[0]))
			}
			data := output.ScanEntriesToTableData(entries, format == output.FormatWide)
			return output.NewFormatter(output.FormatTable).Format(w, data)
		},
	}

	defaults := app.Defaults()
	cmd.Flags().StringVarP(&filter, "filter", "f", defaults.Filter,
		"only list files whose name starts with this prefix (case-insensitive)")
	cmd.Flags().StringVar(&pattern, "pattern", defaults.Pattern,
		"glob that candidate file names must match")

	return cmd
}
