// Package emoji provides symbol constants for CLI output.
// These symbols create a consistent visual language across all command-line commands.
package emoji

// Symbol constants for CLI output.
const (
	// Success represents successful completion of an operation.
	// Used for: references added, managed assemblies in scan output.
	Success = "✓"

	// Error represents failures.
	// Used for: fatal errors, unreadable files.
	Error = "✗"

	// Warning represents non-fatal issues.
	// Used for: binaries rejected by validation, backup failures.
	Warning = "!"

	// Info represents informational messages.
	// Used for: nothing to do, dry run notices.
	Info = "i"

	// Skipped represents candidates that were not considered.
	// Used for: filtered or already referenced binaries.
	Skipped = "-"

	// Added and Removed prefix lines in a diff preview.
	Added   = "+"
	Removed = "-"

	// Unknown represents unknown or indeterminate states.
	Unknown = "?"
)

// ForStatus returns the symbol for a scan status string.
func ForStatus(status string) string {
	switch status {
	case "valid":
		return Success
	case "invalid":
		return Warning
	case "unreadable":
		return Error
	default:
		return Unknown
	}
}
