// Package add implements the add command, which imports the managed
// assemblies of a directory into a project file.
package add

import (
	"io"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agentstation/refimport"
	"github.com/agentstation/refimport/internal/cmd/alerts"
	"github.com/agentstation/refimport/internal/cmd/application"
	"github.com/agentstation/refimport/internal/cmd/output"
	"github.com/agentstation/refimport/internal/cmd/preview"
	"github.com/agentstation/refimport/internal/cmd/progress"
	"github.com/agentstation/refimport/internal/matcher"
	"github.com/agentstation/refimport/pkg/constants"
	"github.com/agentstation/refimport/pkg/logging"
	"github.com/agentstation/refimport/pkg/project"
	"github.com/agentstation/refimport/pkg/reconciler"
)

// Flags holds the add command flags.
type Flags struct {
	Filter       string
	Pattern      string
	BackupSuffix string
	DryRun       bool
	Diff         bool
	AllBinaries  bool
}

// NewCommand creates the add command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "add <project-file> <directory>",
		GroupID: "core",
		Short:   "Add references for the assemblies in a directory",
		Long: heredoc.Doc(`
			Add a <Reference> with a relative <HintPath> to the project file for
			every managed assembly in the directory that it does not reference yet.

			Only files directly inside the directory are considered. Names are
			compared without regard to case, against both the Include attribute
			and the file name in existing HintPaths. Files that are not managed
			assemblies are reported and skipped; they never stop the import.

			The project file is copied to <project-file>.bak before it is rewritten.
			Nothing is written when no reference is added.
		`),
		Example: heredoc.Doc(`
			refimport add App/App.csproj lib
			refimport add App/App.csproj lib --filter Contoso.
			refimport add App/App.csproj lib --dry-run --diff
			refimport add App/App.vbproj bin --pattern "*.exe" --all-binaries
		`),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, flags, args[0], args[1])
		},
	}

	defaults := app.Defaults()
	cmd.Flags().StringVarP(&flags.Filter, "filter", "f", defaults.Filter,
		"only add assemblies whose name starts with this prefix (case-insensitive)")
	cmd.Flags().StringVar(&flags.Pattern, "pattern", defaults.Pattern,
		"glob that candidate file names must match")
	cmd.Flags().StringVar(&flags.BackupSuffix, "backup-suffix", defaults.BackupSuffix,
		"suffix of the backup copy written before the project file changes")
	cmd.Flags().BoolVarP(&flags.DryRun, "dry-run", "n", false,
		"show what would be added without writing anything")
	cmd.Flags().BoolVar(&flags.Diff, "diff", false,
		"print a diff of the project file change")
	cmd.Flags().BoolVar(&flags.AllBinaries, "all-binaries", !defaults.ManagedOnly,
		"add every matching file, skipping the managed assembly check")

	return cmd
}

func run(cmd *cobra.Command, app application.Application, flags *Flags, descriptor, dir string) error {
	ctx := logging.WithOperation(cmd.Context(), "add")
	logger := app.Logger()
	resolveDefaults(cmd, app.Defaults(), flags)

	if !isProjectFile(descriptor) {
		logger.Warn().Str("descriptor", descriptor).Msg("Descriptor does not look like a project file")
	}

	client, err := app.Client(
		refimport.WithPattern(flags.Pattern),
		refimport.WithBackupSuffix(flags.BackupSuffix),
		refimport.WithManagedOnly(!flags.AllBinaries),
	)
	if err != nil {
		return err
	}
	client.OnReferenceAdded(func(ref project.Reference) {
		logger.Info().Str("include", ref.Include).Str("hint_path", ref.HintPath).Msg("Reference added")
	})

	format := output.DetectFormat(app.OutputFormat())
	stdout := cmd.OutOrStdout()

	var display progress.Reporter = progress.NewLogReporter(logger)
	if format.IsTable() {
		display = progress.New(cmd.ErrOrStderr(), logger)
	}

	req := refimport.Request{
		Descriptor: descriptor,
		Directory:  dir,
		Filter:     flags.Filter,
		DryRun:     flags.DryRun,
		Progress:   display.Sink(),
	}

	startDisplay(logger, display, "Importing references from "+filepath.Base(dir))
	outcome, err := client.Import(ctx, req)
	if err != nil {
		stopDisplay(logger, display, false, "Import failed")
		return err
	}
	stopDisplay(logger, display, true, outcome.Summary())

	if flags.Diff && format.IsTable() && outcome.ChangesMade() {
		err := preview.Write(stdout, outcome.Before(), outcome.After(), preview.Options{
			Context: 3,
			Color:   app.UseColor(),
			Name:    descriptor,
		})
		if err != nil {
			return err
		}
	}

	if !format.IsTable() {
		return output.NewFormatter(format).Format(stdout, output.NewReport(descriptor, dir, outcome))
	}
	return writeTable(stdout, app, outcome)
}

// resolveDefaults fills the flags the user did not set from the configured
// defaults, which may have changed after the command was built.
func resolveDefaults(cmd *cobra.Command, defaults application.Defaults, flags *Flags) {
	if !cmd.Flags().Changed("filter") {
		flags.Filter = defaults.Filter
	}
	if !cmd.Flags().Changed("pattern") && defaults.Pattern != "" {
		flags.Pattern = defaults.Pattern
	}
	if !cmd.Flags().Changed("backup-suffix") && defaults.BackupSuffix != "" {
		flags.BackupSuffix = defaults.BackupSuffix
	}
	if !cmd.Flags().Changed("all-binaries") {
		flags.AllBinaries = !defaults.ManagedOnly
	}
}

func writeTable(w io.Writer, app application.Application, outcome *reconciler.Outcome) error {
	data := output.OutcomeToTableData(outcome)
	if len(data.Rows) > 0 {
		if err := output.NewFormatter(output.FormatTable).Format(w, data); err != nil {
			return err
		}
	}

	writer := alerts.NewFormatWriter(w, output.FormatTable).WithConfig(alerts.WriterConfig{
		UseColor: app.UseColor(),
	})
	return writer.WriteAlert(alerts.FromOutcome(outcome))
}

// The display is cosmetic; its failures never fail the import.
func startDisplay(logger *zerolog.Logger, display progress.Reporter, message string) {
	if err := display.Start(message); err != nil {
		logger.Debug().Err(err).Msg("Progress display failed to start")
	}
}

func stopDisplay(logger *zerolog.Logger, display progress.Reporter, ok bool, message string) {
	if err := display.Stop(ok, message); err != nil {
		logger.Debug().Err(err).Msg("Progress display failed to stop")
	}
}

var projectFiles = matcher.MustNew(matcher.Glob, constants.ProjectFilePattern)

// isProjectFile reports whether path has a known project file extension.
func isProjectFile(path string) bool {
	return projectFiles.Match(filepath.Base(path))
}
