package reconciler_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/refimport/pkg/reconciler"
)

func TestRelativePath(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name       string
		descriptor string
		candidate  string
		want       string
	}{
		{
			name:       "child directory",
			descriptor: filepath.Join(root, "App.csproj"),
			candidate:  filepath.Join(root, "libs", "Foo.dll"),
			want:       filepath.Join("libs", "Foo.dll"),
		},
		{
			name:       "sibling directory",
			descriptor: filepath.Join(root, "src", "App.csproj"),
			candidate:  filepath.Join(root, "libs", "Foo.dll"),
			want:       filepath.Join("..", "libs", "Foo.dll"),
		},
		{
			name:       "same directory",
			descriptor: filepath.Join(root, "App.csproj"),
			candidate:  filepath.Join(root, "Foo.dll"),
			want:       "Foo.dll",
		},
		{
			name:       "network and local paths",
			descriptor: filepath.Join(root, "App.csproj"),
			candidate:  "//server/share/Foo.dll",
			want:       "//server/share/Foo.dll",
		},
		{
			name:       "relative candidate against absolute descriptor",
			descriptor: filepath.Join(root, "App.csproj"),
			candidate:  filepath.Join("libs", "Foo.dll"),
			want:       filepath.Join("libs", "Foo.dll"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, reconciler.RelativePath(tc.descriptor, tc.candidate))
		})
	}
}

func TestRelativePathVolumes(t *testing.T) {
	if runtime.GOOS != "windows" {
		t.Skip("drive letters only exist on windows")
	}
	assert.Equal(t, `D:\libs\Foo.dll`, reconciler.RelativePath(`C:\src\App.csproj`, `D:\libs\Foo.dll`))
	assert.Equal(t, `..\libs\Foo.dll`, reconciler.RelativePath(`C:\src\App.csproj`, `c:\libs\Foo.dll`))
}
