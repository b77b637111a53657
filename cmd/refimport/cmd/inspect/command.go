// Package inspect implements the inspect command, which prints the managed
// metadata header of individual files.
package inspect

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/agentstation/refimport/internal/cmd/application"
	"github.com/agentstation/refimport/internal/cmd/output"
	"github.com/agentstation/refimport/pkg/assembly"
)

// NewCommand creates the inspect command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "inspect <file>...",
		GroupID: "core",
		Short:   "Show whether files are managed assemblies",
		Long: heredoc.Doc(`
			Inspect reads the PE header of each file and reports whether it
			carries .NET metadata, with the runtime version, metadata version
			and machine type when it does.
		`),
		Example: heredoc.Doc(`
			refimport inspect lib/Contoso.Core.dll
			refimport inspect lib/*.dll -o yaml
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := app.Logger()

			records := make([]output.InspectRecord, 0, len(args))
			for _, path := range args {
				result := assembly.Inspect(path)
				logger.Debug().Str("candidate", path).Str("status", result.Status.String()).Msg("Inspected")
				records = append(records, output.NewInspectRecord(result))
			}

			format := output.DetectFormat(app.OutputFormat())
			w := cmd.OutOrStdout()
			if !format.IsTable() {
				return output.NewFormatter(format).Format(w, records)
			}
			return output.NewFormatter(output.FormatTable).Format(w, output.InspectRecordsToTableData(records))
		},
	}
}
