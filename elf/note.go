package elf

import (
	"strings"

	"github.com/pattyshack/elfview/internal/warnlog"
)

// NoteEntry is one (owner, type, description) record from a note section
// (§3, §4.8).  Description is returned as raw bytes; sub-kind payloads
// (e.g. the property-record list inside NT_GNU_PROPERTY_TYPE_0) are a
// render-level concern (SPEC_FULL.md §3.1).
type NoteEntry struct {
	Owner       string
	Type        EnumValue
	Description []byte
}

// NoteSection is a packed sequence of NoteEntry.
type NoteSection struct {
	BaseSection
	Entries []NoteEntry
}

func align4(n uint32) uint32 {
	return (n + 3) &^ 3
}

// decodeNoteSection implements §4.8.  Note headers are pinned at 4-byte
// little-endian for both classes, per GNU readelf practice (spec.md §9's
// third open question).
func decodeNoteSection(
	base BaseSection,
	content []byte,
	warn warnlog.Sink,
) (
	*NoteSection,
	error,
) {
	cursor := NewByteCursor(content, LittleEndian, 1)
	entries := []NoteEntry{}

	for cursor.Position() < cursor.Len() {
		nameSize, err := cursor.ReadU32LE()
		if err != nil {
			return nil, err
		}
		descSize, err := cursor.ReadU32LE()
		if err != nil {
			return nil, err
		}
		typeCode, err := cursor.ReadU32LE()
		if err != nil {
			return nil, err
		}

		ownerBytes, err := cursor.Bytes(uint64(nameSize))
		if err != nil {
			return nil, err
		}
		owner := strings.TrimRight(string(ownerBytes), "\x00")

		if pad := uint64(align4(nameSize)) - uint64(nameSize); pad > 0 {
			if _, err := cursor.Bytes(pad); err != nil {
				return nil, err
			}
		}

		desc, err := cursor.Bytes(uint64(descSize))
		if err != nil {
			return nil, err
		}
		descCopy := make([]byte, len(desc))
		copy(descCopy, desc)

		if pad := uint64(align4(descSize)) - uint64(descSize); pad > 0 {
			if _, err := cursor.Bytes(pad); err != nil {
				return nil, err
			}
		}

		noteType, err := ResolveNoteType(owner, typeCode, warn)
		if err != nil {
			return nil, err
		}

		entries = append(entries, NoteEntry{
			Owner:       owner,
			Type:        noteType,
			Description: descCopy,
		})
	}

	return &NoteSection{BaseSection: base, Entries: entries}, nil
}
