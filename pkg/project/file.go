package project

import (
	"bytes"
	"os"

	"github.com/natefinch/atomic"
	"github.com/otiai10/copy"

	"github.com/agentstation/refimport/pkg/constants"
	"github.com/agentstation/refimport/pkg/errors"
)

// Load reads and parses the descriptor at path.
//
// A missing or unreadable file yields an *errors.IOError. A file that is not
// well-formed XML yields an *errors.DescriptorLoadError.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapIO("read", path, errors.NewNotFoundError("descriptor", path))
		}
		return nil, errors.WrapIO("read", path, err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, errors.NewDescriptorLoadError(path, errors.WrapParse("xml", path, err))
	}
	return doc, nil
}

// Save atomically replaces the file at path with the rendered document.
// The permission bits of an existing file are kept.
func Save(path string, doc *Document) error {
	mode := os.FileMode(constants.FilePermissions)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	if err := atomic.WriteFile(path, bytes.NewReader(doc.Bytes())); err != nil {
		return errors.WrapIO("write", path, err)
	}
	if err := os.Chmod(path, mode); err != nil {
		return errors.WrapIO("chmod", path, err)
	}
	return nil
}

// Backup copies the file at path to backupPath, replacing any earlier backup.
// A symlinked path is copied by content.
func Backup(path, backupPath string) error {
	opts := copy.Options{
		OnSymlink: func(string) copy.SymlinkAction { return copy.Deep },
	}
	if err := copy.Copy(path, backupPath, opts); err != nil {
		return errors.WrapIO("backup", backupPath, err)
	}
	return nil
}
