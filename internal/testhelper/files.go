package testhelper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agentstation/refimport/pkg/constants"
)

// Descriptor fixtures.
const (
	// EmptyProject is an SDK-less project with an empty item group.
	EmptyProject = `<?xml version="1.0" encoding="utf-8"?>
<Project ToolsVersion="15.0" xmlns="http://schemas.microsoft.com/developer/msbuild/2003">
  <PropertyGroup>
    <OutputType>Library</OutputType>
  </PropertyGroup>
  <ItemGroup>
  </ItemGroup>
</Project>
`

	// ProjectWithFoo already references Foo by Include.
	ProjectWithFoo = `<?xml version="1.0" encoding="utf-8"?>
<Project ToolsVersion="15.0" xmlns="http://schemas.microsoft.com/developer/msbuild/2003">
  <ItemGroup>
    <Reference Include="Foo">
      <HintPath>lib\Foo.dll</HintPath>
    </Reference>
  </ItemGroup>
</Project>
`

	// ProjectWithoutItemGroup has no place to put references yet.
	ProjectWithoutItemGroup = `<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup>
    <TargetFramework>net48</TargetFramework>
  </PropertyGroup>
</Project>
`
)

// WriteFile writes data to dir/name and returns the full path.
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), constants.DirPermissions))
	require.NoError(t, os.WriteFile(path, data, constants.FilePermissions))
	return path
}

// WriteDescriptor writes a project descriptor and returns its path.
func WriteDescriptor(t testing.TB, dir, name, content string) string {
	t.Helper()
	return WriteFile(t, dir, name, []byte(content))
}

// ReadFile returns the content of path as a string, failing the test on error.
func ReadFile(t testing.TB, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// Workspace creates a temp dir with a descriptor and an empty "libs" directory.
// It returns the descriptor path and the binaries directory.
func Workspace(t testing.TB, descriptor string) (string, string) {
	t.Helper()
	root := t.TempDir()
	libs := filepath.Join(root, "libs")
	require.NoError(t, os.MkdirAll(libs, constants.DirPermissions))
	return WriteDescriptor(t, root, "App.csproj", descriptor), libs
}
