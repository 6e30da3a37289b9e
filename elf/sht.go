package elf

import (
	"github.com/pattyshack/elfview/internal/warnlog"
)

// SectionHeaderEntry describes one section (§3, §4.5).  Name is resolved
// in a later phase once the section-header string table has been located
// (§4.6); this struct only carries NameIndex until then.
type SectionHeaderEntry struct {
	NameIndex uint32
	Type      EnumValue
	Flags     SectionFlags

	Address   uint64
	Offset    uint64
	Size      uint64
	Link      uint32
	Info      uint32
	Alignment uint64
	EntrySize uint64
}

// parseSectionHeaderTable implements §4.5.
func parseSectionHeaderTable(
	cursor *ByteCursor,
	header *FileHeader,
	warn warnlog.Sink,
) (
	[]SectionHeaderEntry,
	error,
) {
	count := int(header.SectionHeaderEntryCount)
	entries := make([]SectionHeaderEntry, 0, count)

	entrySize := uint64(header.SectionHeaderEntrySize)
	if entrySize == 0 {
		entrySize = sectionHeaderEntrySize32
		if header.Is64Bit {
			entrySize = sectionHeaderEntrySize64
		}
	}

	for i := 0; i < count; i++ {
		cursor.SetPosition(header.SectionHeaderOffset + uint64(i)*entrySize)

		entry := SectionHeaderEntry{}

		nameIndex, err := cursor.ReadU32()
		if err != nil {
			return nil, err
		}
		entry.NameIndex = nameIndex

		typeCode, err := cursor.ReadU32()
		if err != nil {
			return nil, err
		}
		entry.Type, err = ResolveSectionType(typeCode, warn)
		if err != nil {
			return nil, err
		}

		flagBits, err := cursor.ReadWord(header.Is64Bit)
		if err != nil {
			return nil, err
		}
		entry.Flags, err = SectionFlagsFromBits(flagBits)
		if err != nil {
			return nil, err
		}

		entry.Address, err = cursor.ReadWord(header.Is64Bit)
		if err != nil {
			return nil, err
		}
		entry.Offset, err = cursor.ReadWord(header.Is64Bit)
		if err != nil {
			return nil, err
		}
		entry.Size, err = cursor.ReadWord(header.Is64Bit)
		if err != nil {
			return nil, err
		}

		link, err := cursor.ReadU32()
		if err != nil {
			return nil, err
		}
		entry.Link = link

		info, err := cursor.ReadU32()
		if err != nil {
			return nil, err
		}
		entry.Info = info

		alignment, err := cursor.ReadWord(header.Is64Bit)
		if err != nil {
			return nil, err
		}
		if alignment != 0 && !isPowerOfTwo(alignment) {
			return nil, newBadAlignmentError(alignment)
		}
		entry.Alignment = alignment

		entry.EntrySize, err = cursor.ReadWord(header.Is64Bit)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, nil
}
