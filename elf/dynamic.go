package elf

import (
	"github.com/pattyshack/elfview/internal/warnlog"
)

// DynamicEntry is one (tag, content) pair from a SHT_DYNAMIC section
// (§3, §4.9).
type DynamicEntry struct {
	Tag     EnumValue
	Content uint64
}

// DynamicSection is the ordered list of DynamicEntry up to and including
// the DT_NULL terminator.
type DynamicSection struct {
	BaseSection
	Entries []DynamicEntry
}

// IsNull reports whether tag is the DT_NULL terminator.
func (e DynamicEntry) IsNull() bool {
	return !e.Tag.Unknown && e.Tag.Name == "NULL"
}

// decodeDynamicSection implements §4.9: entries are consumed until the
// section size is exhausted or a DT_NULL terminator is seen, whichever
// comes first; the DT_NULL entry itself is retained in the result.
func decodeDynamicSection(
	base BaseSection,
	content []byte,
	order ByteOrder,
	is64Bit bool,
	warn warnlog.Sink,
) (
	*DynamicSection,
	error,
) {
	wordSize := uint64(4)
	if is64Bit {
		wordSize = 8
	}

	cursor := NewByteCursor(content, order, 1)
	entries := []DynamicEntry{}

	for cursor.Position()+2*wordSize <= cursor.Len() {
		tagCode, err := cursor.ReadWord(is64Bit)
		if err != nil {
			return nil, err
		}
		value, err := cursor.ReadWord(is64Bit)
		if err != nil {
			return nil, err
		}

		tag, err := ResolveDynamicTag(tagCode, warn)
		if err != nil {
			return nil, err
		}

		entry := DynamicEntry{Tag: tag, Content: value}
		entries = append(entries, entry)

		if entry.IsNull() {
			break
		}
	}

	return &DynamicSection{BaseSection: base, Entries: entries}, nil
}
