package add_test

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/refimport/cmd/refimport/cmd/add"
	"github.com/agentstation/refimport/internal/cmd/application"
	"github.com/agentstation/refimport/internal/cmd/output"
	"github.com/agentstation/refimport/internal/testhelper"
	"github.com/agentstation/refimport/pkg/errors"
	"github.com/agentstation/refimport/pkg/project"
)

func execute(t *testing.T, app application.Application, args ...string) (string, error) {
	t.Helper()
	cmd := add.NewCommand(app)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func jsonApp() *application.Mock {
	return &application.Mock{OutputFormatFunc: func() string { return "json" }}
}

func TestAddJSON(t *testing.T) {
	descriptor, libs := testhelper.Workspace(t, testhelper.ProjectWithFoo)
	testhelper.WriteFile(t, libs, "Foo.dll", testhelper.ManagedAssembly())
	testhelper.WriteFile(t, libs, "Bar.dll", testhelper.ManagedAssembly())
	testhelper.WriteFile(t, libs, "Broken.dll", testhelper.PlainText())

	out, err := execute(t, jsonApp(), descriptor, libs)
	require.NoError(t, err)

	var report output.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "completed_with_warnings", report.Status)
	assert.Equal(t, []string{"Bar"}, report.Added)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, filepath.Join(libs, "Broken.dll"), report.Errors[0].File)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, descriptor+".bak", report.BackupPath)

	doc, err := project.Load(descriptor)
	require.NoError(t, err)
	assert.Len(t, doc.References(), 2)
}

func TestAddTable(t *testing.T) {
	descriptor, libs := testhelper.Workspace(t, testhelper.EmptyProject)
	testhelper.WriteFile(t, libs, "Foo.dll", testhelper.ManagedAssembly())

	out, err := execute(t, &application.Mock{}, descriptor, libs)
	require.NoError(t, err)
	assert.Contains(t, out, "Foo")
	assert.Contains(t, out, "✓ Added 1 reference(s)")
}

func TestAddDryRunWithDiff(t *testing.T) {
	descriptor, libs := testhelper.Workspace(t, testhelper.EmptyProject)
	testhelper.WriteFile(t, libs, "Foo.dll", testhelper.ManagedAssembly())

	out, err := execute(t, &application.Mock{}, descriptor, libs, "--dry-run", "--diff")
	require.NoError(t, err)

	assert.Contains(t, out, `+    <Reference Include="Foo">`)
	assert.Contains(t, out, "(dry run, nothing written)")
	assert.Equal(t, testhelper.EmptyProject, testhelper.ReadFile(t, descriptor))
	assert.NoFileExists(t, descriptor+".bak")
}

func TestAddFlags(t *testing.T) {
	descriptor, libs := testhelper.Workspace(t, testhelper.EmptyProject)
	testhelper.WriteFile(t, libs, "Contoso.Core.dll", testhelper.ManagedAssembly())
	testhelper.WriteFile(t, libs, "Other.dll", testhelper.ManagedAssembly())
	testhelper.WriteFile(t, libs, "Contoso.Native.so", testhelper.NativeLibrary())

	out, err := execute(t, jsonApp(), descriptor, libs,
		"--filter", "CONTOSO", "--pattern", "*.{dll,so}", "--all-binaries", "--backup-suffix", ".orig")
	require.NoError(t, err)

	var report output.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, []string{"Contoso.Core", "Contoso.Native"}, report.Added)
	assert.Empty(t, report.Errors)
	assert.FileExists(t, descriptor+".orig")
}

func TestAddUsesConfiguredDefaults(t *testing.T) {
	descriptor, libs := testhelper.Workspace(t, testhelper.EmptyProject)
	testhelper.WriteFile(t, libs, "Alpha.dll", testhelper.ManagedAssembly())
	testhelper.WriteFile(t, libs, "Beta.dll", testhelper.ManagedAssembly())

	app := jsonApp()
	app.DefaultsFunc = func() application.Defaults {
		return application.Defaults{Filter: "be", Pattern: "*.dll", BackupSuffix: ".bak", ManagedOnly: true}
	}

	out, err := execute(t, app, descriptor, libs)
	require.NoError(t, err)

	var report output.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, []string{"Beta"}, report.Added)
}

func TestAddErrors(t *testing.T) {
	descriptor, libs := testhelper.Workspace(t, testhelper.EmptyProject)
	malformed := testhelper.WriteDescriptor(t, t.TempDir(), "Bad.csproj", "<Project><ItemGroup></Project>")

	t.Run("wrong argument count", func(t *testing.T) {
		_, err := execute(t, jsonApp(), descriptor)
		assert.Error(t, err)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := execute(t, jsonApp(), descriptor, filepath.Join(libs, "nope"))
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("malformed descriptor", func(t *testing.T) {
		_, err := execute(t, jsonApp(), malformed, libs)
		require.Error(t, err)
		assert.True(t, errors.IsDescriptorLoad(err))
	})
}
