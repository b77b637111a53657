// Package assembly tells managed (.NET/CLI) assemblies apart from other files.
//
// Inspection is a header sniff: it reads the PE headers, the CLI header and
// the metadata root signature. Nothing in the file is loaded or executed.
// Every outcome is reported as a Result with one of three statuses instead of
// an error, so callers can branch on Status without unwrapping errors.
package assembly

import (
	"context"
	"debug/pe"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/refimport/pkg/errors"
)

// Status classifies a candidate binary.
type Status int

const (
	// StatusValid means the file carries managed metadata.
	StatusValid Status = iota
	// StatusInvalid means the file was read but is not a managed assembly.
	StatusInvalid
	// StatusUnreadable means the file could not be opened or read.
	StatusUnreadable
)

// String returns the status name used in CLI output.
func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	case StatusUnreadable:
		return "unreadable"
	default:
		return "unknown"
	}
}

// Failure kinds carried by invalid results. Match them with errors.Is.
var (
	ErrNotPE          = errors.New("not a PE image")
	ErrNoCLIHeader    = errors.New("no CLI header")
	ErrBadCLIHeader   = errors.New("malformed CLI header")
	ErrBadMetadata    = errors.New("bad metadata signature")
	ErrUnmappedRVA    = errors.New("address outside any section")
	errShortMetadata  = fmt.Errorf("%w: truncated metadata root", ErrBadMetadata)
	errShortCLIHeader = fmt.Errorf("%w: truncated", ErrBadCLIHeader)
)

// Info describes a valid managed assembly.
type Info struct {
	// RuntimeVersion is the version string from the metadata root, e.g. v4.0.30319.
	RuntimeVersion string `json:"runtime_version" yaml:"runtime_version"`
	// MetadataVersion is major.minor of the metadata root.
	MetadataVersion string `json:"metadata_version" yaml:"metadata_version"`
	// CLIHeaderVersion is major.minor of the CLI header.
	CLIHeaderVersion string `json:"cli_header_version" yaml:"cli_header_version"`
	// Machine is the PE machine type.
	Machine string `json:"machine" yaml:"machine"`
	// PE32Plus is set for 64-bit optional headers.
	PE32Plus bool `json:"pe32_plus" yaml:"pe32_plus"`
	// ILOnly reports the COMIMAGE_FLAGS_ILONLY flag.
	ILOnly bool `json:"il_only" yaml:"il_only"`
}

// Result is the outcome of inspecting one file.
type Result struct {
	Path   string
	Status Status
	// Err is the failure kind for invalid results and the I/O error for
	// unreadable ones. It is nil for valid results.
	Err  error
	Info *Info
}

// Valid reports whether the file is a managed assembly.
func (r Result) Valid() bool {
	return r.Status == StatusValid
}

// Reason is a short description of why the file is not valid.
func (r Result) Reason() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Message names the file and the failure kind, for error lists.
func (r Result) Message() string {
	name := filepath.Base(r.Path)
	switch r.Status {
	case StatusValid:
		return fmt.Sprintf("%s: managed assembly", name)
	case StatusInvalid:
		return fmt.Sprintf("%s: not a managed assembly (%s)", name, r.Reason())
	default:
		return fmt.Sprintf("%s: unreadable (%s)", name, r.Reason())
	}
}

// Validator decides whether a candidate binary may be referenced.
type Validator interface {
	Validate(ctx context.Context, path string) Result
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(ctx context.Context, path string) Result

// Validate calls f.
func (f ValidatorFunc) Validate(ctx context.Context, path string) Result {
	return f(ctx, path)
}

// DefaultValidator sniffs the managed metadata header with Inspect.
var DefaultValidator Validator = ValidatorFunc(func(_ context.Context, path string) Result {
	return Inspect(path)
})

// Inspect opens path and sniffs its managed metadata header.
func Inspect(path string) Result {
	f, err := os.Open(path)
	if err != nil {
		return Result{Path: path, Status: StatusUnreadable, Err: errors.WrapIO("open", path, err)}
	}
	defer func() { _ = f.Close() }()

	info, err := Sniff(f)
	if err != nil {
		return Result{Path: path, Status: StatusInvalid, Err: err}
	}
	return Result{Path: path, Status: StatusValid, Info: info}
}

// Sniff reads a PE image from r and returns its managed metadata summary.
// The error is one of the Err* failure kinds, possibly wrapped with detail.
func Sniff(r io.ReaderAt) (*Info, error) {
	file, err := pe.NewFile(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotPE, err)
	}
	defer func() { _ = file.Close() }()

	info := &Info{Machine: machineName(file.Machine)}

	var dir pe.DataDirectory
	switch oh := file.OptionalHeader.(type) {
	case *pe.OptionalHeader32:
		if oh.NumberOfRvaAndSizes > pe.IMAGE_DIRECTORY_ENTRY_COM_DESCRIPTOR {
			dir = oh.DataDirectory[pe.IMAGE_DIRECTORY_ENTRY_COM_DESCRIPTOR]
		}
	case *pe.OptionalHeader64:
		info.PE32Plus = true
		if oh.NumberOfRvaAndSizes > pe.IMAGE_DIRECTORY_ENTRY_COM_DESCRIPTOR {
			dir = oh.DataDirectory[pe.IMAGE_DIRECTORY_ENTRY_COM_DESCRIPTOR]
		}
	default:
		return nil, fmt.Errorf("%w: missing optional header", ErrNotPE)
	}
	if dir.VirtualAddress == 0 || dir.Size == 0 {
		return nil, ErrNoCLIHeader
	}

	var cor [corHeaderSize]byte
	if err := readRVA(file, dir.VirtualAddress, cor[:]); err != nil {
		if errors.Is(err, ErrUnmappedRVA) {
			return nil, fmt.Errorf("%w: %v", ErrBadCLIHeader, err)
		}
		return nil, errShortCLIHeader
	}
	le := binary.LittleEndian
	if cb := le.Uint32(cor[0:]); cb < corHeaderSize {
		return nil, fmt.Errorf("%w: header size %d", ErrBadCLIHeader, cb)
	}
	info.CLIHeaderVersion = fmt.Sprintf("%d.%d", le.Uint16(cor[4:]), le.Uint16(cor[6:]))
	metaRVA, metaSize := le.Uint32(cor[8:]), le.Uint32(cor[12:])
	info.ILOnly = le.Uint32(cor[16:])&comImageFlagsILOnly != 0
	if metaRVA == 0 || metaSize < metadataRootMinSize {
		return nil, fmt.Errorf("%w: no metadata directory", ErrBadMetadata)
	}

	var root [metadataRootMinSize]byte
	if err := readRVA(file, metaRVA, root[:]); err != nil {
		return nil, errShortMetadata
	}
	if sig := le.Uint32(root[0:]); sig != metadataSignature {
		return nil, fmt.Errorf("%w: %#08x", ErrBadMetadata, sig)
	}
	info.MetadataVersion = fmt.Sprintf("%d.%d", le.Uint16(root[4:]), le.Uint16(root[6:]))

	versionLen := le.Uint32(root[12:])
	if versionLen > maxVersionLength || versionLen > metaSize-metadataRootMinSize {
		return nil, fmt.Errorf("%w: version length %d", ErrBadMetadata, versionLen)
	}
	version := make([]byte, versionLen)
	if err := readRVA(file, metaRVA+metadataRootMinSize, version); err != nil {
		return nil, errShortMetadata
	}
	info.RuntimeVersion = strings.TrimRight(string(version), "\x00")

	return info, nil
}

const (
	corHeaderSize       = 72
	metadataRootMinSize = 16
	metadataSignature   = 0x424A5342 // "BSJB"
	maxVersionLength    = 255
	comImageFlagsILOnly = 0x1
)

// readRVA fills buf from the section that maps rva.
func readRVA(file *pe.File, rva uint32, buf []byte) error {
	for _, s := range file.Sections {
		span := s.VirtualSize
		if s.Size > span {
			span = s.Size
		}
		if rva < s.VirtualAddress || rva >= s.VirtualAddress+span {
			continue
		}
		_, err := s.ReadAt(buf, int64(rva-s.VirtualAddress))
		return err
	}
	return ErrUnmappedRVA
}

func machineName(m uint16) string {
	switch m {
	case pe.IMAGE_FILE_MACHINE_I386:
		return "i386"
	case pe.IMAGE_FILE_MACHINE_AMD64:
		return "amd64"
	case pe.IMAGE_FILE_MACHINE_ARM64:
		return "arm64"
	case pe.IMAGE_FILE_MACHINE_ARMNT:
		return "arm"
	case pe.IMAGE_FILE_MACHINE_UNKNOWN:
		return "any"
	default:
		return fmt.Sprintf("%#04x", m)
	}
}
