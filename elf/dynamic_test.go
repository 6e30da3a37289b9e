package elf

import (
	"encoding/binary"
	"testing"

	"github.com/pattyshack/gt/testing/expect"
	"github.com/pattyshack/gt/testing/suite"
)

type DynamicSuite struct{}

func TestDynamic(t *testing.T) {
	suite.RunTests(t, &DynamicSuite{})
}

// TestDecodeDynamicTags builds the exact scenario spec.md §8 names: three
// entries (1, 42) (14, 100) (0, 0) on a 64-bit LE file.
func (DynamicSuite) TestDecodeDynamicTags(t *testing.T) {
	content := make([]byte, 0, 48)
	appendEntry := func(tag, value uint64) {
		buf := make([]byte, 16)
		binary.LittleEndian.PutUint64(buf[0:8], tag)
		binary.LittleEndian.PutUint64(buf[8:16], value)
		content = append(content, buf...)
	}
	appendEntry(1, 42)
	appendEntry(14, 100)
	appendEntry(0, 0)

	section, err := decodeDynamicSection(BaseSection{}, content, LittleEndian, true, nil)
	expect.Nil(t, err)
	expect.Equal(t, 3, len(section.Entries))

	expect.Equal(t, "NEEDED", section.Entries[0].Tag.Name)
	expect.Equal(t, uint64(42), section.Entries[0].Content)

	expect.Equal(t, "SONAME", section.Entries[1].Tag.Name)
	expect.Equal(t, uint64(100), section.Entries[1].Content)

	expect.True(t, section.Entries[2].IsNull())
}

// TestDTNullTerminatorInvariant is the testable property: the last entry
// of any decoded dynamic section has tag DT_NULL and content 0.
func (DynamicSuite) TestDTNullTerminatorInvariant(t *testing.T) {
	content := make([]byte, 0, 32)
	appendEntry := func(tag, value uint64) {
		buf := make([]byte, 16)
		binary.LittleEndian.PutUint64(buf[0:8], tag)
		binary.LittleEndian.PutUint64(buf[8:16], value)
		content = append(content, buf...)
	}
	appendEntry(5, 0x1000)
	appendEntry(0, 0)

	section, err := decodeDynamicSection(BaseSection{}, content, LittleEndian, true, nil)
	expect.Nil(t, err)

	last := section.Entries[len(section.Entries)-1]
	expect.True(t, last.IsNull())
	expect.Equal(t, uint64(0), last.Content)
}

func (DynamicSuite) TestStringResolution(t *testing.T) {
	strtabContent := []byte("\x00libc.so.6\x00libfoo\x00")

	content := make([]byte, 0, 48)
	appendEntry := func(tag, value uint64) {
		buf := make([]byte, 16)
		binary.LittleEndian.PutUint64(buf[0:8], tag)
		binary.LittleEndian.PutUint64(buf[8:16], value)
		content = append(content, buf...)
	}
	appendEntry(1, 1)  // DT_NEEDED -> "libc.so.6"
	appendEntry(14, 11) // DT_SONAME -> "libfoo"
	appendEntry(0, 0)

	dyn, err := decodeDynamicSection(BaseSection{}, content, LittleEndian, true, nil)
	expect.Nil(t, err)

	strtabHeader := SectionHeaderEntry{Address: 0x2000}
	strtab := newStringTableSection(newBaseSection(strtabHeader), strtabContent)

	dynHeader := SectionHeaderEntry{}
	dyn.BaseSection = newBaseSection(dynHeader)
	// DT_STRTAB points at the string table's virtual address.
	dyn.Entries = append([]DynamicEntry{{
		Tag:     EnumValue{Code: 5, Name: "STRTAB"},
		Content: 0x2000,
	}}, dyn.Entries...)

	file := &File{Sections: []Section{strtab, dyn}}

	name, err := file.DynamicEntryString(dyn, dyn.Entries[1])
	expect.Nil(t, err)
	expect.Equal(t, "libc.so.6", name)

	name, err = file.DynamicEntryString(dyn, dyn.Entries[2])
	expect.Nil(t, err)
	expect.Equal(t, "libfoo", name)
}
