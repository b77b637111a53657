// Package testhelper builds on-disk fixtures for tests: minimal PE images
// (managed and native) and project descriptors.
package testhelper

import (
	"encoding/binary"
)

// Layout of the synthetic images. One .text section holds the CLI header
// followed by the metadata root.
const (
	peHeaderOffset   = 0x40
	coffHeaderSize   = 20
	optHeader32Size  = 0xE0
	optHeader64Size  = 0xF0
	sectionHdrSize   = 40
	sectionFileOff   = 0x200
	sectionRVA       = 0x2000
	sectionSize      = 0x200
	corHeaderSize    = 72
	metadataOffset   = 0x48
	imageSize        = sectionFileOff + sectionSize
	comDescriptorIdx = 14

	// MetadataSignature is the "BSJB" magic at the start of the metadata root.
	MetadataSignature uint32 = 0x424A5342
)

// PEImage describes a synthetic PE file. The zero value is a native PE32 DLL
// with no CLI header.
type PEImage struct {
	// PE32Plus selects the 64-bit optional header and the AMD64 machine.
	PE32Plus bool

	// Managed adds a CLI header pointing at a metadata root.
	Managed bool

	// RuntimeVersion is written into the metadata root. Defaults to v4.0.30319.
	RuntimeVersion string

	// Signature overrides the metadata signature. Zero means MetadataSignature.
	Signature uint32

	// CorHeaderSize overrides the cb field of the CLI header. Zero means 72.
	CorHeaderSize uint32
}

// ManagedAssembly returns a minimal PE32 image that carries valid managed metadata.
func ManagedAssembly() []byte {
	return BuildPE(PEImage{Managed: true})
}

// ManagedAssembly64 returns a PE32+ managed image.
func ManagedAssembly64() []byte {
	return BuildPE(PEImage{Managed: true, PE32Plus: true})
}

// NativeLibrary returns a PE32 image without a CLI header.
func NativeLibrary() []byte {
	return BuildPE(PEImage{})
}

// CorruptMetadata returns a managed-looking image whose metadata signature is wrong.
func CorruptMetadata() []byte {
	return BuildPE(PEImage{Managed: true, Signature: 0xDEADBEEF})
}

// PlainText is not a PE image at all.
func PlainText() []byte {
	return []byte("this is a plain text file renamed to look like a library\n")
}

// BuildPE renders img into the bytes of a PE file.
func BuildPE(img PEImage) []byte {
	buf := make([]byte, imageSize)
	le := binary.LittleEndian

	// DOS header
	buf[0], buf[1] = 'M', 'Z'
	le.PutUint32(buf[0x3C:], peHeaderOffset)
	copy(buf[peHeaderOffset:], "PE\x00\x00")

	optSize := optHeader32Size
	machine := uint16(0x14c)
	if img.PE32Plus {
		optSize = optHeader64Size
		machine = 0x8664
	}

	// COFF file header
	coff := buf[peHeaderOffset+4:]
	le.PutUint16(coff[0:], machine)
	le.PutUint16(coff[2:], 1)
	le.PutUint16(coff[16:], uint16(optSize))
	le.PutUint16(coff[18:], 0x2102)

	// Optional header
	opt := buf[peHeaderOffset+4+coffHeaderSize:]
	var dataDirs []byte
	if img.PE32Plus {
		le.PutUint16(opt[0:], 0x20b)
		le.PutUint64(opt[24:], 0x180000000)
		putCommonOptional(opt)
		le.PutUint32(opt[108:], 16)
		dataDirs = opt[112:]
	} else {
		le.PutUint16(opt[0:], 0x10b)
		le.PutUint32(opt[28:], 0x10000000)
		putCommonOptional(opt)
		le.PutUint32(opt[92:], 16)
		dataDirs = opt[96:]
	}
	if img.Managed {
		le.PutUint32(dataDirs[comDescriptorIdx*8:], sectionRVA)
		le.PutUint32(dataDirs[comDescriptorIdx*8+4:], corHeaderSize)
	}

	// Section header
	sh := buf[peHeaderOffset+4+coffHeaderSize+optSize:]
	copy(sh[0:8], ".text")
	le.PutUint32(sh[8:], sectionSize)
	le.PutUint32(sh[12:], sectionRVA)
	le.PutUint32(sh[16:], sectionSize)
	le.PutUint32(sh[20:], sectionFileOff)
	le.PutUint32(sh[36:], 0x60000020)

	if img.Managed {
		writeManagedSection(buf[sectionFileOff:], img)
	}
	return buf
}

// putCommonOptional fills the fields shared by both optional header layouts.
func putCommonOptional(opt []byte) {
	le := binary.LittleEndian
	le.PutUint32(opt[32:], sectionRVA)
	le.PutUint32(opt[36:], sectionFileOff)
	le.PutUint16(opt[40:], 4)
	le.PutUint16(opt[48:], 4)
	le.PutUint32(opt[56:], sectionRVA+sectionSize)
	le.PutUint32(opt[60:], sectionFileOff)
	le.PutUint16(opt[68:], 3)
}

func writeManagedSection(sec []byte, img PEImage) {
	le := binary.LittleEndian

	version := img.RuntimeVersion
	if version == "" {
		version = "v4.0.30319"
	}
	padded := (len(version) + 1 + 3) &^ 3
	metaSize := 16 + padded + 4

	cb := img.CorHeaderSize
	if cb == 0 {
		cb = corHeaderSize
	}
	le.PutUint32(sec[0:], cb)
	le.PutUint16(sec[4:], 2)
	le.PutUint16(sec[6:], 5)
	le.PutUint32(sec[8:], sectionRVA+metadataOffset)
	le.PutUint32(sec[12:], uint32(metaSize))
	le.PutUint32(sec[16:], 1) // ILONLY

	sig := img.Signature
	if sig == 0 {
		sig = MetadataSignature
	}
	meta := sec[metadataOffset:]
	le.PutUint32(meta[0:], sig)
	le.PutUint16(meta[4:], 1)
	le.PutUint16(meta[6:], 1)
	le.PutUint32(meta[12:], uint32(padded))
	copy(meta[16:], version)
}
