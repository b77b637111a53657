package reconciler

import (
	"path/filepath"
	"strings"
)

// RelativePath returns candidatePath relative to the directory holding
// descriptorPath, using the native separator. When the two paths are on
// different volumes, or one is a network path and the other is not, or the
// relative path cannot be computed, candidatePath is returned unchanged.
func RelativePath(descriptorPath, candidatePath string) string {
	if isNetworkPath(descriptorPath) != isNetworkPath(candidatePath) {
		return candidatePath
	}
	if !strings.EqualFold(filepath.VolumeName(descriptorPath), filepath.VolumeName(candidatePath)) {
		return candidatePath
	}

	rel, err := filepath.Rel(filepath.Dir(descriptorPath), candidatePath)
	if err != nil {
		return candidatePath
	}
	return filepath.FromSlash(filepath.ToSlash(rel))
}

func isNetworkPath(p string) bool {
	return strings.HasPrefix(p, `\\`) || strings.HasPrefix(p, "//")
}
