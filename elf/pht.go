package elf

import (
	"github.com/pattyshack/elfview/internal/warnlog"
)

// ProgramHeaderEntry describes one segment (§3, §4.4).
type ProgramHeaderEntry struct {
	Type  EnumValue
	Flags ProgramFlags

	FileOffset      uint64
	VirtualAddress  uint64
	PhysicalAddress uint64
	FileImageSize   uint64
	MemoryImageSize uint64
	Alignment       uint64
}

// parseProgramHeaderTable implements §4.4.  The cursor spans the whole
// file's bytes and is reused (reseated per entry) so callers keep one
// cursor alive for the whole parse.
func parseProgramHeaderTable(
	cursor *ByteCursor,
	header *FileHeader,
	warn warnlog.Sink,
) (
	[]ProgramHeaderEntry,
	error,
) {
	count := int(header.ProgramHeaderEntryCount)
	entries := make([]ProgramHeaderEntry, 0, count)

	entrySize := uint64(header.ProgramHeaderEntrySize)
	if entrySize == 0 {
		entrySize = programHeaderEntrySize32
		if header.Is64Bit {
			entrySize = programHeaderEntrySize64
		}
	}

	for i := 0; i < count; i++ {
		cursor.SetPosition(header.ProgramHeaderOffset + uint64(i)*entrySize)

		entry := ProgramHeaderEntry{}

		typeCode, err := cursor.ReadU32()
		if err != nil {
			return nil, err
		}
		entry.Type, err = ResolveProgramType(typeCode, warn)
		if err != nil {
			return nil, err
		}

		if header.Is64Bit {
			flags, err := cursor.ReadU32()
			if err != nil {
				return nil, err
			}
			entry.Flags = ProgramFlags(flags)
		}

		entry.FileOffset, err = cursor.ReadWord(header.Is64Bit)
		if err != nil {
			return nil, err
		}
		entry.VirtualAddress, err = cursor.ReadWord(header.Is64Bit)
		if err != nil {
			return nil, err
		}
		entry.PhysicalAddress, err = cursor.ReadWord(header.Is64Bit)
		if err != nil {
			return nil, err
		}
		entry.FileImageSize, err = cursor.ReadWord(header.Is64Bit)
		if err != nil {
			return nil, err
		}
		entry.MemoryImageSize, err = cursor.ReadWord(header.Is64Bit)
		if err != nil {
			return nil, err
		}

		if !header.Is64Bit {
			flags, err := cursor.ReadU32()
			if err != nil {
				return nil, err
			}
			entry.Flags = ProgramFlags(flags)
		}

		alignment, err := cursor.ReadWord(header.Is64Bit)
		if err != nil {
			return nil, err
		}
		if alignment != 0 && !isPowerOfTwo(alignment) {
			return nil, newBadAlignmentError(alignment)
		}
		entry.Alignment = alignment

		if alignment > 1 {
			if entry.VirtualAddress%alignment != entry.FileOffset%alignment {
				return nil, newBadAlignmentCrossCheckError(
					entry.VirtualAddress, entry.FileOffset, alignment)
			}
		}

		entries = append(entries, entry)
	}

	return entries, nil
}
