package elf

import (
	"testing"

	"github.com/pattyshack/gt/testing/expect"
	"github.com/pattyshack/gt/testing/suite"
)

type SymbolSuite struct{}

func TestSymbol(t *testing.T) {
	suite.RunTests(t, &SymbolSuite{})
}

// TestLayoutSwitchesWithClass builds the two byte layouts spec.md §8
// names: a 32-bit entry and a 64-bit entry encoding equivalent data in
// their class-specific field order.
func (SymbolSuite) TestLayoutSwitchesWithClass(t *testing.T) {
	content32 := []byte{
		0x01, 0x00, 0x00, 0x00, // name = 1
		0x11, 0x22, 0x33, 0x44, // value = 0x44332211
		0x55, 0x66, 0x77, 0x88, // size = 0x88776655
		0x12,       // info
		0x34,       // other
		0x99, 0x00, // shndx = 0x0099
	}

	table32, err := decodeSymbolTableSection(BaseSection{}, content32, LittleEndian, false, false)
	expect.Nil(t, err)
	expect.Equal(t, 1, len(table32.Symbols))

	sym32 := table32.Symbols[0]
	expect.Equal(t, uint32(1), sym32.NameIndex)
	expect.Equal(t, uint64(0x44332211), sym32.Value)
	expect.Equal(t, uint64(0x88776655), sym32.Size)
	expect.Equal(t, uint8(0x12), sym32.Info)
	expect.Equal(t, uint8(0x34), sym32.Other)
	expect.Equal(t, uint16(0x0099), sym32.SectionIndex)

	content64 := []byte{
		0x01, 0x00, 0x00, 0x00, // name = 1
		0x12,       // info
		0x34,       // other
		0x99, 0x00, // shndx = 0x0099
		0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88, // value
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // size = 0
	}

	table64, err := decodeSymbolTableSection(BaseSection{}, content64, LittleEndian, true, false)
	expect.Nil(t, err)
	expect.Equal(t, 1, len(table64.Symbols))

	sym64 := table64.Symbols[0]
	expect.Equal(t, uint32(1), sym64.NameIndex)
	expect.Equal(t, uint8(0x12), sym64.Info)
	expect.Equal(t, uint8(0x34), sym64.Other)
	expect.Equal(t, uint16(0x0099), sym64.SectionIndex)
	expect.Equal(t, uint64(0x8877665544332211), sym64.Value)
	expect.Equal(t, uint64(0), sym64.Size)
}

func (SymbolSuite) TestInfoDecomposition(t *testing.T) {
	sym := SymbolEntry{Info: 0x12, Other: 0x03}

	binding, err := sym.Binding(nil)
	expect.Nil(t, err)
	expect.Equal(t, uint64(1), binding.Code)

	typ, err := sym.Type(nil)
	expect.Nil(t, err)
	expect.Equal(t, uint64(2), typ.Code)

	vis, err := sym.Visibility(nil)
	expect.Nil(t, err)
	expect.Equal(t, uint64(3), vis.Code)
}
