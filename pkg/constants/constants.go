// Package constants provides shared constants used throughout the refimport codebase.
// This includes file naming conventions, permissions, progress bounds and other
// values that should be consistent across the library and the CLI.
package constants

// Descriptor and binary naming conventions
const (
	// BackupSuffix is appended to the descriptor path to form the backup path
	BackupSuffix = ".bak"

	// AssemblyExtension is the extension of managed assemblies and native libraries
	AssemblyExtension = ".dll"

	// DefaultCandidatePattern selects candidate binaries directly inside a directory
	DefaultCandidatePattern = "*" + AssemblyExtension

	// ProjectFilePattern matches the project descriptors accepted by the CLI
	ProjectFilePattern = "*.{csproj,vbproj,fsproj}"
)

// Descriptor element and attribute names
const (
	// ItemGroupElement is the container element for references
	ItemGroupElement = "ItemGroup"

	// ReferenceElement is a single reference entry
	ReferenceElement = "Reference"

	// HintPathElement is the child of a reference holding the file path
	HintPathElement = "HintPath"

	// IncludeAttribute names the referenced assembly
	IncludeAttribute = "Include"

	// DefaultIndent is used when the descriptor gives no indentation to follow
	DefaultIndent = "  "
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Progress bounds reported to progress sinks
const (
	// ProgressMin is the first value a pass can report
	ProgressMin = 0

	// ProgressMax is reported exactly once a pass has processed every candidate
	ProgressMax = 100
)

// Configuration
const (
	// AppName is the CLI binary name
	AppName = "refimport"

	// ConfigFileName is the config file base name searched in $HOME and the working directory
	ConfigFileName = ".refimport"

	// EnvPrefix prefixes environment variables read by the CLI configuration
	EnvPrefix = "REFIMPORT"
)
