package elf

import (
	"testing"

	"github.com/pattyshack/gt/testing/expect"
	"github.com/pattyshack/gt/testing/suite"
)

type HeaderSuite struct{}

func TestHeader(t *testing.T) {
	suite.RunTests(t, &HeaderSuite{})
}

func (HeaderSuite) TestBadMagic(t *testing.T) {
	content := make([]byte, 64)
	cursor := NewByteCursor(content, LittleEndian, 1)

	_, err := parseFileHeader(cursor, nil)

	var parseErr *Error
	expect.True(t, asError(err, &parseErr))
	expect.Equal(t, KindBadMagic, parseErr.Kind)
}

// TestMinimumHeader builds the exact byte layout spec.md §8's "minimum
// 64-bit little-endian header" scenario names.
func (HeaderSuite) TestMinimumHeader(t *testing.T) {
	content := []byte{
		0x7f, 'E', 'L', 'F', 0x02, 0x01, 0x01, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x02, 0x00, 0x3e, 0x00, 0x01, 0x00, 0x00, 0x00,
	}
	content = append(content, make([]byte, 24)...) // entry, phoff, shoff = 0
	content = append(content, make([]byte, 4)...)  // flags = 0
	content = append(content, []byte{
		0x40, 0x00, // ehsize = 64
		0x38, 0x00, // phentsize = 56
		0x01, 0x00, // phnum = 1
		0x40, 0x00, // shentsize = 64
		0x01, 0x00, // shnum = 1
		0x00, 0x00, // shstrndx = 0
	}...)
	content = append(content, make([]byte, 64-len(content))...)

	cursor := NewByteCursor(content, LittleEndian, 1)
	header, err := parseFileHeader(cursor, nil)
	expect.Nil(t, err)

	expect.True(t, header.Is64Bit)
	expect.True(t, header.IsLittleEndian)
	expect.Equal(t, "Executable", header.FileType.Name)
	expect.Equal(t, "AMD x86-64", header.ISA.Name)
	expect.Equal(t, uint16(1), header.ProgramHeaderEntryCount)
	expect.Equal(t, uint16(1), header.SectionHeaderEntryCount)
	expect.Equal(t, uint16(0), header.SectionNameStringTableIndex)
}

func (HeaderSuite) TestAlignmentValidation(t *testing.T) {
	header := &FileHeader{
		Is64Bit:                 true,
		ProgramHeaderEntryCount: 1,
		ProgramHeaderEntrySize:  56,
		ProgramHeaderOffset:     0,
	}

	content := make([]byte, 56)
	// p_align (last 8 bytes) = 3: not a power of two.
	content[48] = 3

	cursor := NewByteCursor(content, LittleEndian, 1)
	_, err := parseProgramHeaderTable(cursor, header, nil)

	var parseErr *Error
	expect.True(t, asError(err, &parseErr))
	expect.Equal(t, KindBadAlignment, parseErr.Kind)
}

func asError(err error, target **Error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	*target = e
	return true
}
