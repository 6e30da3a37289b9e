package elf

import (
	"encoding/binary"
	"testing"

	"github.com/pattyshack/gt/testing/expect"
	"github.com/pattyshack/gt/testing/suite"
)

type RelocationSuite struct{}

func TestRelocation(t *testing.T) {
	suite.RunTests(t, &RelocationSuite{})
}

func (RelocationSuite) TestDecodeRelaEntry64(t *testing.T) {
	content := make([]byte, 24)
	binary.LittleEndian.PutUint64(content[0:8], 0x403000)                 // r_offset
	binary.LittleEndian.PutUint64(content[8:16], (uint64(5)<<32)|uint64(8)) // symidx=5, type=8
	binary.LittleEndian.PutUint64(content[16:24], uint64(0xfffffffffffffff0)) // addend = -16

	section, err := decodeRelocationSection(BaseSection{}, content, LittleEndian, true, true, 0, nil)
	expect.Nil(t, err)
	expect.True(t, section.WithAddend)
	expect.Equal(t, 1, len(section.Entries))

	entry := section.Entries[0]
	expect.Equal(t, uint64(0x403000), entry.Offset)
	expect.Equal(t, uint64(5), entry.SymbolIndex)
	expect.Equal(t, int64(-16), entry.Addend)
}

func (RelocationSuite) TestDecodeRel32(t *testing.T) {
	content := make([]byte, 8)
	binary.LittleEndian.PutUint32(content[0:4], 0x1000)
	binary.LittleEndian.PutUint32(content[4:8], (uint32(3)<<8)|uint32(1)) // symidx=3, type=1

	section, err := decodeRelocationSection(BaseSection{}, content, LittleEndian, false, false, 0, nil)
	expect.Nil(t, err)
	expect.False(t, section.WithAddend)
	expect.Equal(t, uint64(3), section.Entries[0].SymbolIndex)
}

func (RelocationSuite) TestSizeNotMultipleOfEntrySize(t *testing.T) {
	content := make([]byte, 13)

	_, err := decodeRelocationSection(BaseSection{}, content, LittleEndian, true, true, 0, nil)
	var parseErr *Error
	expect.True(t, asError(err, &parseErr))
	expect.Equal(t, KindInvalidFieldValue, parseErr.Kind)
}
