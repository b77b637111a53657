package output

import (
	"path/filepath"
	"strconv"

	"github.com/agentstation/refimport"
	"github.com/agentstation/refimport/internal/cmd/emoji"
	"github.com/agentstation/refimport/pkg/assembly"
	"github.com/agentstation/refimport/pkg/reconciler"
)

// Report is the structured form of an import outcome for json and yaml output.
type Report struct {
	Descriptor  string             `json:"descriptor" yaml:"descriptor"`
	Directory   string             `json:"directory" yaml:"directory"`
	Status      string             `json:"status" yaml:"status"`
	ChangesMade bool               `json:"changes_made" yaml:"changes_made"`
	DryRun      bool               `json:"dry_run" yaml:"dry_run"`
	Added       []string           `json:"added" yaml:"added"`
	Errors      []reconciler.Issue `json:"errors" yaml:"errors"`
	Candidates  int                `json:"candidates" yaml:"candidates"`
	Skipped     int                `json:"skipped" yaml:"skipped"`
	BackupPath  string             `json:"backup_path,omitempty" yaml:"backup_path,omitempty"`
	DurationMS  int64              `json:"duration_ms" yaml:"duration_ms"`
}

// NewReport converts an outcome into a Report.
func NewReport(descriptor, directory string, outcome *reconciler.Outcome) Report {
	return Report{
		Descriptor:  descriptor,
		Directory:   directory,
		Status:      outcome.Status().String(),
		ChangesMade: outcome.ChangesMade(),
		DryRun:      outcome.DryRun(),
		Added:       outcome.Added(),
		Errors:      outcome.Issues(),
		Candidates:  outcome.Candidates(),
		Skipped:     outcome.Skipped(),
		BackupPath:  outcome.BackupPath(),
		DurationMS:  outcome.Duration().Milliseconds(),
	}
}

// OutcomeToTableData lists added references and rejected files.
func OutcomeToTableData(outcome *reconciler.Outcome) Data {
	data := Data{
		Headers:         []string{"", "Name", "Result"},
		ColumnAlignment: []Align{AlignCenter, AlignLeft, AlignLeft},
	}
	for _, name := range outcome.Added() {
		data.Rows = append(data.Rows, []string{emoji.Success, name, "added"})
	}
	for _, issue := range outcome.Issues() {
		symbol := emoji.Warning
		if issue.Kind == reconciler.IssueUnreadable {
			symbol = emoji.Error
		}
		data.Rows = append(data.Rows, []string{symbol, filepath.Base(issue.File), string(issue.Kind) + ": " + issue.Reason})
	}
	return data
}

// ScanEntriesToTableData renders scan results. Wide output adds runtime,
// machine and path columns.
func ScanEntriesToTableData(entries []refimport.ScanEntry, wide bool) Data {
	headers := []string{"", "Name", "Status", "Reason"}
	align := []Align{AlignCenter, AlignLeft, AlignLeft, AlignLeft}
	if wide {
		headers = append(headers, "Runtime", "Machine", "Path")
		align = append(align, AlignLeft, AlignLeft, AlignLeft)
	}

	data := Data{Headers: headers, ColumnAlignment: align}
	for _, entry := range entries {
		row := []string{emoji.ForStatus(entry.Status), entry.Name, entry.Status, entry.Reason}
		if wide {
			row = append(row, runtimeOf(entry.Info), machineOf(entry.Info), entry.Path)
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}

// InspectRecord is the structured form of one inspected file.
type InspectRecord struct {
	File   string         `json:"file" yaml:"file"`
	Status string         `json:"status" yaml:"status"`
	Reason string         `json:"reason,omitempty" yaml:"reason,omitempty"`
	Info   *assembly.Info `json:"info,omitempty" yaml:"info,omitempty"`
}

// NewInspectRecord converts a validation result into an InspectRecord.
func NewInspectRecord(result assembly.Result) InspectRecord {
	return InspectRecord{
		File:   result.Path,
		Status: result.Status.String(),
		Reason: result.Reason(),
		Info:   result.Info,
	}
}

// InspectRecordsToTableData renders inspected files.
func InspectRecordsToTableData(records []InspectRecord) Data {
	data := Data{
		Headers:         []string{"", "File", "Status", "Runtime", "Metadata", "Machine", "PE32+", "IL Only", "Reason"},
		ColumnAlignment: []Align{AlignCenter, AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignCenter, AlignCenter, AlignLeft},
	}
	for _, r := range records {
		row := []string{emoji.ForStatus(r.Status), r.File, r.Status, runtimeOf(r.Info), "", machineOf(r.Info), "", "", r.Reason}
		if r.Info != nil {
			row[4] = r.Info.MetadataVersion
			row[6] = strconv.FormatBool(r.Info.PE32Plus)
			row[7] = strconv.FormatBool(r.Info.ILOnly)
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}

func runtimeOf(info *assembly.Info) string {
	if info == nil {
		return ""
	}
	return info.RuntimeVersion
}

func machineOf(info *assembly.Info) string {
	if info == nil {
		return ""
	}
	return info.Machine
}
