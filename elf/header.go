package elf

import (
	"bytes"

	"github.com/pattyshack/elfview/internal/warnlog"
)

// IdentifierMagic is the fixed four-byte ELF magic (EI_MAG0..EI_MAG3).
var IdentifierMagic = []byte{0x7f, 'E', 'L', 'F'}

const (
	class32 = 1
	class64 = 2

	dataLittleEndian = 1
	dataBigEndian    = 2

	identifierVersion = 1
	formatVersion     = 1

	headerSize32 = 52
	headerSize64 = 64

	programHeaderEntrySize32 = 32
	programHeaderEntrySize64 = 56

	sectionHeaderEntrySize32 = 40
	sectionHeaderEntrySize64 = 64
)

// FileHeader is the fixed-size ELF prologue (§3, §4.3).
type FileHeader struct {
	Is64Bit        bool
	IsLittleEndian bool

	OSABI      EnumValue
	ABIVersion uint8

	FileType EnumValue
	ISA      EnumValue
	Version  uint32

	EntryPointAddress   uint64
	ProgramHeaderOffset uint64
	SectionHeaderOffset uint64

	Flags uint32

	HeaderSize                  uint16
	ProgramHeaderEntrySize      uint16
	ProgramHeaderEntryCount     uint16
	SectionHeaderEntrySize      uint16
	SectionHeaderEntryCount     uint16
	SectionNameStringTableIndex uint16
}

// parseFileHeader implements §4.3.  The cursor must be positioned at
// offset 0 with alignment 1.
func parseFileHeader(cursor *ByteCursor, warn warnlog.Sink) (*FileHeader, error) {
	magic, err := cursor.Bytes(4)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(magic, IdentifierMagic) {
		return nil, newBadMagicError(magic)
	}

	classByte, err := cursor.ReadU8()
	if err != nil {
		return nil, err
	}

	header := &FileHeader{}
	switch classByte {
	case class32:
		header.Is64Bit = false
	case class64:
		header.Is64Bit = true
	default:
		return nil, newInvalidFieldValueError("class", "1 or 2", classByte)
	}

	dataByte, err := cursor.ReadU8()
	if err != nil {
		return nil, err
	}
	switch dataByte {
	case dataLittleEndian:
		header.IsLittleEndian = true
		cursor.SetEndianness(LittleEndian)
	case dataBigEndian:
		header.IsLittleEndian = false
		cursor.SetEndianness(BigEndian)
	default:
		return nil, newInvalidFieldValueError("data encoding", "1 or 2", dataByte)
	}

	identVersion, err := cursor.ReadU8()
	if err != nil {
		return nil, err
	}
	if identVersion != identifierVersion {
		return nil, newInvalidFieldValueError("identifier version", identifierVersion, identVersion)
	}

	osABIByte, err := cursor.ReadU8()
	if err != nil {
		return nil, err
	}
	header.OSABI, err = ResolveOSABI(osABIByte, warn)
	if err != nil {
		return nil, err
	}

	abiVersion, err := cursor.ReadU8()
	if err != nil {
		return nil, err
	}
	header.ABIVersion = abiVersion

	for i := 0; i < 7; i++ {
		padding, err := cursor.ReadU8()
		if err != nil {
			return nil, err
		}
		if padding != 0 && warn != nil {
			warn.Warnf("identifier padding byte %d is nonzero (%#x)", i, padding)
		}
	}

	fileTypeCode, err := cursor.ReadU16()
	if err != nil {
		return nil, err
	}
	header.FileType, err = ResolveFileType(fileTypeCode, warn)
	if err != nil {
		return nil, err
	}

	isaCode, err := cursor.ReadU16()
	if err != nil {
		return nil, err
	}
	header.ISA, err = ResolveISA(isaCode, warn)
	if err != nil {
		return nil, err
	}

	version, err := cursor.ReadU32()
	if err != nil {
		return nil, err
	}
	if version != formatVersion {
		return nil, newInvalidFieldValueError("version", formatVersion, version)
	}
	header.Version = version

	header.EntryPointAddress, err = cursor.ReadWord(header.Is64Bit)
	if err != nil {
		return nil, err
	}
	header.ProgramHeaderOffset, err = cursor.ReadWord(header.Is64Bit)
	if err != nil {
		return nil, err
	}
	header.SectionHeaderOffset, err = cursor.ReadWord(header.Is64Bit)
	if err != nil {
		return nil, err
	}

	header.Flags, err = cursor.ReadU32()
	if err != nil {
		return nil, err
	}

	header.HeaderSize, err = cursor.ReadU16()
	if err != nil {
		return nil, err
	}
	expectedHeaderSize := uint16(headerSize32)
	if header.Is64Bit {
		expectedHeaderSize = headerSize64
	}
	if header.HeaderSize != expectedHeaderSize {
		return nil, newInvalidFieldValueError("header size", expectedHeaderSize, header.HeaderSize)
	}

	header.ProgramHeaderEntrySize, err = cursor.ReadU16()
	if err != nil {
		return nil, err
	}
	expectedPHTEntrySize := uint16(programHeaderEntrySize32)
	if header.Is64Bit {
		expectedPHTEntrySize = programHeaderEntrySize64
	}
	if header.ProgramHeaderEntrySize != 0 && header.ProgramHeaderEntrySize != expectedPHTEntrySize {
		return nil, newInvalidFieldValueError(
			"program header entry size", expectedPHTEntrySize, header.ProgramHeaderEntrySize)
	}

	header.ProgramHeaderEntryCount, err = cursor.ReadU16()
	if err != nil {
		return nil, err
	}

	header.SectionHeaderEntrySize, err = cursor.ReadU16()
	if err != nil {
		return nil, err
	}
	expectedSHTEntrySize := uint16(sectionHeaderEntrySize32)
	if header.Is64Bit {
		expectedSHTEntrySize = sectionHeaderEntrySize64
	}
	if header.SectionHeaderEntrySize != 0 && header.SectionHeaderEntrySize != expectedSHTEntrySize {
		return nil, newInvalidFieldValueError(
			"section header entry size", expectedSHTEntrySize, header.SectionHeaderEntrySize)
	}

	header.SectionHeaderEntryCount, err = cursor.ReadU16()
	if err != nil {
		return nil, err
	}

	header.SectionNameStringTableIndex, err = cursor.ReadU16()
	if err != nil {
		return nil, err
	}

	return header, nil
}
