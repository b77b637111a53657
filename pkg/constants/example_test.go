package constants_test

import (
	"fmt"
	"path/filepath"

	"github.com/agentstation/refimport/pkg/constants"
)

// Example shows how the backup path of a project file is derived.
func Example() {
	descriptor := filepath.Join("src", "App.csproj")
	fmt.Println(filepath.ToSlash(descriptor + constants.BackupSuffix))
	// Output: src/App.csproj.bak
}

// Example_candidates matches file names against the default candidate pattern.
func Example_candidates() {
	for _, name := range []string{"Contoso.Core.dll", "readme.txt", "native.so"} {
		ok, _ := filepath.Match(constants.DefaultCandidatePattern, name)
		fmt.Printf("%s: %v\n", name, ok)
	}
	// Output:
	// Contoso.Core.dll: true
	// readme.txt: false
	// native.so: false
}

// Example_progress shows the bounds every import pass reports within.
func Example_progress() {
	fmt.Printf("progress %d..%d\n", constants.ProgressMin, constants.ProgressMax)
	// Output: progress 0..100
}
