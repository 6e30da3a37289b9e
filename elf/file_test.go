package elf

import (
	"testing"

	"github.com/pattyshack/gt/testing/expect"
	"github.com/pattyshack/gt/testing/suite"
)

type FileSuite struct{}

func TestFile(t *testing.T) {
	suite.RunTests(t, &FileSuite{})
}

func namedSection(s Section, name string) Section {
	s.setName(name)
	return s
}

func (FileSuite) TestSectionByIndexAndName(t *testing.T) {
	a := namedSection(&ProgBitsSection{BaseSection: newBaseSection(SectionHeaderEntry{})}, ".text")
	b := namedSection(&ProgBitsSection{BaseSection: newBaseSection(SectionHeaderEntry{})}, ".data")

	file := &File{Sections: []Section{a, b}}

	got, ok := file.SectionByIndex(1)
	expect.True(t, ok)
	expect.Equal(t, ".data", got.Name())

	_, ok = file.SectionByIndex(2)
	expect.False(t, ok)

	got, ok = file.SectionByName(".text")
	expect.True(t, ok)
	expect.Equal(t, a, got)

	_, ok = file.SectionByName(".missing")
	expect.False(t, ok)

	expect.Equal(t, 2, file.SectionCount())
}

func (FileSuite) TestProgramHeaderEntryAt(t *testing.T) {
	file := &File{
		ProgramHeaders: []ProgramHeaderEntry{
			{VirtualAddress: 0x1000},
			{VirtualAddress: 0x2000},
		},
	}

	entry, ok := file.ProgramHeaderEntryAt(1)
	expect.True(t, ok)
	expect.Equal(t, uint64(0x2000), entry.VirtualAddress)

	_, ok = file.ProgramHeaderEntryAt(5)
	expect.False(t, ok)
}

func (FileSuite) TestSymbolNameAndLinkedTable(t *testing.T) {
	strtab := newStringTableSection(newBaseSection(SectionHeaderEntry{}), []byte("\x00main\x00helper\x00"))

	symtab := &SymbolTableSection{
		BaseSection: newBaseSection(SectionHeaderEntry{Link: 0}),
		Symbols: []SymbolEntry{
			{NameIndex: 1},
			{NameIndex: 6},
		},
	}

	file := &File{Sections: []Section{strtab, symtab}}

	name, err := file.SymbolName(symtab, symtab.Symbols[0])
	expect.Nil(t, err)
	expect.Equal(t, "main", name)

	name, err = file.SymbolName(symtab, symtab.Symbols[1])
	expect.Nil(t, err)
	expect.Equal(t, "helper", name)
}

func (FileSuite) TestDemangledSymbolNameFallsBackOnPlainName(t *testing.T) {
	strtab := newStringTableSection(newBaseSection(SectionHeaderEntry{}), []byte("\x00plain_name\x00"))
	symtab := &SymbolTableSection{
		BaseSection: newBaseSection(SectionHeaderEntry{Link: 0}),
		Symbols:     []SymbolEntry{{NameIndex: 1}},
	}

	file := &File{Sections: []Section{strtab, symtab}}

	name, err := file.DemangledSymbolName(symtab, symtab.Symbols[0])
	expect.Nil(t, err)
	expect.Equal(t, "plain_name", name)
}

func (FileSuite) TestRelocationSymbolName(t *testing.T) {
	strtab := newStringTableSection(newBaseSection(SectionHeaderEntry{}), []byte("\x00target\x00"))
	symtab := &SymbolTableSection{
		BaseSection: newBaseSection(SectionHeaderEntry{Link: 0}),
		Symbols: []SymbolEntry{
			{},
			{NameIndex: 1},
		},
	}
	rel := &RelocationSection{
		BaseSection: newBaseSection(SectionHeaderEntry{Link: 1}),
		Entries: []RelocationEntry{
			{SymbolIndex: 1},
		},
	}

	file := &File{Sections: []Section{strtab, symtab, rel}}

	name, err := file.RelocationSymbolName(rel, rel.Entries[0])
	expect.Nil(t, err)
	expect.Equal(t, "target", name)
}

func (FileSuite) TestRelocationSymbolNameOutOfRange(t *testing.T) {
	symtab := &SymbolTableSection{BaseSection: newBaseSection(SectionHeaderEntry{})}
	rel := &RelocationSection{
		BaseSection: newBaseSection(SectionHeaderEntry{Link: 0}),
		Entries:     []RelocationEntry{{SymbolIndex: 9}},
	}

	file := &File{Sections: []Section{symtab, rel}}

	_, err := file.RelocationSymbolName(rel, rel.Entries[0])
	var parseErr *Error
	expect.True(t, asError(err, &parseErr))
	expect.Equal(t, KindCrossReferenceFailed, parseErr.Kind)
}

func (FileSuite) TestLinkedStringTableWrongKind(t *testing.T) {
	notAStringTable := &ProgBitsSection{BaseSection: newBaseSection(SectionHeaderEntry{})}
	symtab := &SymbolTableSection{BaseSection: newBaseSection(SectionHeaderEntry{Link: 0})}

	file := &File{Sections: []Section{notAStringTable, symtab}}

	_, err := file.LinkedStringTable(symtab)
	var parseErr *Error
	expect.True(t, asError(err, &parseErr))
	expect.Equal(t, KindCrossReferenceFailed, parseErr.Kind)
}
