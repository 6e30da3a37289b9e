package elf

import (
	"fmt"
	"io"

	"github.com/ianlancetaylor/demangle"

	"github.com/pattyshack/elfview/internal/warnlog"
)

// File is the ELF model (§3, §4.12): file header, PHT, and an ordered
// section list, all immutable once constructed.  It owns the backing byte
// vector for its lifetime; every byte slice exposed by a section payload
// is a borrowed view into it.
type File struct {
	Header         FileHeader
	ProgramHeaders []ProgramHeaderEntry
	Sections       []Section

	content []byte
}

// Read parses an ELF file from r.  The reader is stateless between calls.
func Read(r io.Reader, warn warnlog.Sink) (*File, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("elf: failed to read input: %w", err)
	}
	return ReadBytes(content, warn)
}

// ReadBytes implements the full §4.12 phase sequence: validate magic,
// identify class/endianness, parse the file header, PHT, and SHT, locate
// the section-name string table, then dispatch each SHT entry to its
// payload decoder.
func ReadBytes(content []byte, warn warnlog.Sink) (*File, error) {
	if warn == nil {
		warn = warnlog.Default()
	}

	cursor := NewByteCursor(content, LittleEndian, 1)

	header, err := parseFileHeader(cursor, warn)
	if err != nil {
		return nil, fmt.Errorf("elf: failed to parse file header: %w", err)
	}

	programHeaders, err := parseProgramHeaderTable(cursor, header, warn)
	if err != nil {
		return nil, fmt.Errorf("elf: failed to parse program header table: %w", err)
	}

	sectionHeaders, err := parseSectionHeaderTable(cursor, header, warn)
	if err != nil {
		return nil, fmt.Errorf("elf: failed to parse section header table: %w", err)
	}

	shstrtab, err := locateSectionNameStringTable(cursor, *header, sectionHeaders)
	if err != nil {
		return nil, fmt.Errorf("elf: failed to locate section name string table: %w", err)
	}

	sections := make([]Section, 0, len(sectionHeaders))
	for _, sectionHeader := range sectionHeaders {
		name := ""
		if shstrtab != nil {
			name, err = shstrtab.StringAt(uint64(sectionHeader.NameIndex))
			if err != nil {
				if warn != nil {
					warn.Warnf("section name at offset %d: %v", sectionHeader.NameIndex, err)
				}
				name = ""
			}
		}

		section, err := decodeSectionPayload(cursor, *header, name, sectionHeader, warn)
		if err != nil {
			return nil, fmt.Errorf("elf: failed to decode section %q: %w", name, err)
		}
		section.setName(name)

		sections = append(sections, section)
	}

	return &File{
		Header:         *header,
		ProgramHeaders: programHeaders,
		Sections:       sections,
		content:        content,
	}, nil
}

// locateSectionNameStringTable decodes the section-header string table
// ahead of the general dispatch loop, since every other section's name
// depends on it.  Returns nil if the file declares no section headers.
func locateSectionNameStringTable(
	cursor *ByteCursor,
	header FileHeader,
	sectionHeaders []SectionHeaderEntry,
) (
	*StringTableSection,
	error,
) {
	if len(sectionHeaders) == 0 {
		return nil, nil
	}

	index := int(header.SectionNameStringTableIndex)
	if index < 0 || index >= len(sectionHeaders) {
		return nil, newCrossReferenceFailedError(
			"section name string table index", "index out of range")
	}

	shstrtabHeader := sectionHeaders[index]
	if shstrtabHeader.Size == 0 {
		return newStringTableSection(newBaseSection(shstrtabHeader), nil), nil
	}

	cursor.SetPosition(shstrtabHeader.Offset)
	content, err := cursor.Bytes(shstrtabHeader.Size)
	if err != nil {
		return nil, err
	}

	return newStringTableSection(newBaseSection(shstrtabHeader), content), nil
}

// SectionByIndex returns the section at index i (ordered as the SHT
// declared them).
func (f *File) SectionByIndex(i int) (Section, bool) {
	if i < 0 || i >= len(f.Sections) {
		return nil, false
	}
	return f.Sections[i], true
}

// SectionByName returns the first section whose name equals name.
func (f *File) SectionByName(name string) (Section, bool) {
	for _, section := range f.Sections {
		if section.Name() == name {
			return section, true
		}
	}
	return nil, false
}

func (f *File) SectionCount() int {
	return len(f.Sections)
}

// ProgramHeaderEntryAt returns the PHT entry at index i.
func (f *File) ProgramHeaderEntryAt(i int) (ProgramHeaderEntry, bool) {
	if i < 0 || i >= len(f.ProgramHeaders) {
		return ProgramHeaderEntry{}, false
	}
	return f.ProgramHeaders[i], true
}

// LinkedStringTable resolves the string table a section's linked-section
// index (§3 "Cross-references") points at.
func (f *File) LinkedStringTable(s Section) (*StringTableSection, error) {
	link := int(s.Header().Link)
	linked, ok := f.SectionByIndex(link)
	if !ok {
		return nil, newCrossReferenceFailedError(
			"linked-section index", "index out of range")
	}

	table, ok := linked.(*StringTableSection)
	if !ok {
		return nil, newCrossReferenceFailedError(
			"linked-section index", "linked section is not a string table")
	}

	return table, nil
}

// LinkedSymbolTable resolves the symbol table a section's linked-section
// index points at (used by relocation sections).
func (f *File) LinkedSymbolTable(s Section) (*SymbolTableSection, error) {
	link := int(s.Header().Link)
	linked, ok := f.SectionByIndex(link)
	if !ok {
		return nil, newCrossReferenceFailedError(
			"linked-section index", "index out of range")
	}

	table, ok := linked.(*SymbolTableSection)
	if !ok {
		return nil, newCrossReferenceFailedError(
			"linked-section index", "linked section is not a symbol table")
	}

	return table, nil
}

// SymbolName resolves a symbol entry's name via its owning table's linked
// string table.
func (f *File) SymbolName(table *SymbolTableSection, entry SymbolEntry) (string, error) {
	strings, err := f.LinkedStringTable(table)
	if err != nil {
		return "", err
	}
	return strings.StringAt(uint64(entry.NameIndex))
}

// DemangledSymbolName resolves a symbol entry's name and attempts to
// demangle it as a C++ or Rust symbol.  If the name doesn't parse as a
// mangled symbol the raw name is returned unchanged.
func (f *File) DemangledSymbolName(table *SymbolTableSection, entry SymbolEntry) (string, error) {
	name, err := f.SymbolName(table, entry)
	if err != nil {
		return "", err
	}

	demangled, err := demangle.ToString(name)
	if err != nil {
		return name, nil
	}
	return demangled, nil
}

// DynamicStringTable resolves the string table a dynamic section's
// DT_STRTAB entry points at, by matching virtual addresses (§3
// "Cross-references").
func (f *File) DynamicStringTable(dyn *DynamicSection) (*StringTableSection, error) {
	var strtabAddress uint64
	found := false
	for _, entry := range dyn.Entries {
		if !entry.Tag.Unknown && entry.Tag.Name == "STRTAB" {
			strtabAddress = entry.Content
			found = true
			break
		}
	}
	if !found {
		return nil, newCrossReferenceFailedError(
			"DT_STRTAB", "dynamic section has no DT_STRTAB entry")
	}

	for _, section := range f.Sections {
		if section.Header().Address != strtabAddress {
			continue
		}
		if table, ok := section.(*StringTableSection); ok {
			return table, nil
		}
	}

	return nil, newCrossReferenceFailedError(
		"DT_STRTAB", "no section matches the declared virtual address")
}

// DynamicEntryString resolves a dynamic entry's Content field as an
// offset into the table DT_STRTAB names, for DT_NEEDED/DT_SONAME/
// DT_RUNPATH/DT_RPATH entries.
func (f *File) DynamicEntryString(dyn *DynamicSection, entry DynamicEntry) (string, error) {
	table, err := f.DynamicStringTable(dyn)
	if err != nil {
		return "", err
	}
	return table.StringAt(entry.Content)
}

// RelocationSymbolName resolves a relocation entry's referenced symbol
// name through its section's linked symbol table (§3
// "Relocation → symbol table → string table").
func (f *File) RelocationSymbolName(rel *RelocationSection, entry RelocationEntry) (string, error) {
	symbols, err := f.LinkedSymbolTable(rel)
	if err != nil {
		return "", err
	}
	if entry.SymbolIndex >= uint64(len(symbols.Symbols)) {
		return "", newCrossReferenceFailedError(
			"relocation symbol index", "index out of range")
	}
	return f.SymbolName(symbols, symbols.Symbols[entry.SymbolIndex])
}

// VersionRequirementName translates a GnuVersion index to the dependency
// version name a GnuVersionRequirements chain declares for it (§3
// "Version-symbols → symbol table").
func (f *File) VersionRequirementName(
	verreq *GnuVersionRequirementsSection,
	versionIndex uint16,
) (
	string,
	error,
) {
	strings, err := f.LinkedStringTable(verreq)
	if err != nil {
		return "", err
	}

	for _, requirement := range verreq.Requirements {
		for _, aux := range requirement.Auxiliaries {
			if aux.VersionIndex == versionIndex {
				return strings.StringAt(aux.NameOffset)
			}
		}
	}

	return "", newCrossReferenceFailedError(
		"version index", "no auxiliary version entry matches")
}
