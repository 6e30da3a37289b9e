package elf

import (
	"github.com/pattyshack/elfview/internal/warnlog"
)

// RelocationEntry is one entry of a SHT_REL / SHT_RELA section (§3, §4.10).
// Addend is only meaningful when the owning section's WithAddend is true.
type RelocationEntry struct {
	Offset      uint64
	SymbolIndex uint64
	Type        EnumValue
	Addend      int64
}

// RelocationSection covers both SHT_RELA (WithAddend) and SHT_REL.
type RelocationSection struct {
	BaseSection
	WithAddend bool
	Entries    []RelocationEntry
}

// decodeRelocationSection implements §4.10.  entrySize is the section
// header's declared sh_entsize; stride defaults to the natural Rel/Rela
// size for the class when the header didn't specify one.
func decodeRelocationSection(
	base BaseSection,
	content []byte,
	order ByteOrder,
	is64Bit bool,
	withAddend bool,
	entrySize uint64,
	warn warnlog.Sink,
) (
	*RelocationSection,
	error,
) {
	wordSize := uint64(4)
	if is64Bit {
		wordSize = 8
	}

	natural := 2 * wordSize
	if withAddend {
		natural = 3 * wordSize
	}
	if entrySize == 0 {
		entrySize = natural
	}

	if entrySize == 0 || uint64(len(content))%entrySize != 0 {
		return nil, newInvalidFieldValueError(
			"relocation section size", "multiple of entry size", len(content))
	}

	count := uint64(len(content)) / entrySize
	entries := make([]RelocationEntry, 0, count)
	cursor := NewByteCursor(content, order, 1)

	for i := uint64(0); i < count; i++ {
		cursor.SetPosition(i * entrySize)

		offset, err := cursor.ReadWord(is64Bit)
		if err != nil {
			return nil, err
		}
		info, err := cursor.ReadWord(is64Bit)
		if err != nil {
			return nil, err
		}

		var symIndex, typeCode uint64
		if is64Bit {
			symIndex = info >> 32
			typeCode = info & 0xFFFFFFFF
		} else {
			symIndex = info >> 8
			typeCode = info & 0xFF
		}

		relocType, err := ResolveRelocationType(uint32(typeCode), warn)
		if err != nil {
			return nil, err
		}

		entry := RelocationEntry{
			Offset:      offset,
			SymbolIndex: symIndex,
			Type:        relocType,
		}

		if withAddend {
			addend, err := cursor.ReadWord(is64Bit)
			if err != nil {
				return nil, err
			}
			entry.Addend = int64(addend)
		}

		entries = append(entries, entry)
	}

	return &RelocationSection{
		BaseSection: base,
		WithAddend:  withAddend,
		Entries:     entries,
	}, nil
}
