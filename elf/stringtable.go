package elf

import "bytes"

// StringTableSection is an opaque byte slice plus a scan-to-NUL accessor
// (REDESIGN FLAGS: never decode the whole table up front -- lookups are
// rare relative to table size, grounded on the teacher's
// StringTableSection.Get).
type StringTableSection struct {
	BaseSection
	Content []byte
}

func newStringTableSection(base BaseSection, content []byte) *StringTableSection {
	return &StringTableSection{BaseSection: base, Content: content}
}

// StringAt reads a NUL-terminated string starting at offset.  offset must
// be less than the table's size.
func (t *StringTableSection) StringAt(offset uint64) (string, error) {
	if offset >= uint64(len(t.Content)) {
		return "", newCrossReferenceFailedError(
			"string table offset", "offset is out of bounds")
	}

	chunk := t.Content[offset:]
	end := bytes.IndexByte(chunk, 0)
	if end == -1 {
		return "", newCrossReferenceFailedError(
			"string table offset", "string is not NUL-terminated")
	}

	return string(chunk[:end]), nil
}
