package elf

import (
	"strings"

	"github.com/pattyshack/elfview/internal/warnlog"
)

// Section is the closed sum type spec.md §3 describes, re-architected as
// an interface with one concrete struct per variant plus an exhaustive
// type switch in render/ (REDESIGN FLAGS: no inheritance hierarchy, no
// polymorphic printing method on Section itself).
type Section interface {
	Header() SectionHeaderEntry
	Name() string

	setName(name string)
}

// BaseSection is embedded by every concrete Section variant.
type BaseSection struct {
	header SectionHeaderEntry
	name   string
}

func newBaseSection(header SectionHeaderEntry) BaseSection {
	return BaseSection{header: header}
}

func (b *BaseSection) Header() SectionHeaderEntry {
	return b.header
}

func (b *BaseSection) Name() string {
	return b.name
}

func (b *BaseSection) setName(name string) {
	b.name = name
}

// NullSection is the SHT_NULL index-0 placeholder.
type NullSection struct {
	BaseSection
}

// ProgBitsSection holds opaque program-defined bytes (.text, .rodata, ...).
type ProgBitsSection struct {
	BaseSection
	Content []byte
}

// NoBitsSection (.bss) has a declared size but occupies no file bytes.
type NoBitsSection struct {
	BaseSection
}

// decoderChoice names which payload decoder a section header dispatches
// to (§4.6's selection table).
type decoderChoice int

const (
	decodeNull decoderChoice = iota
	decodeStringTable
	decodeSymbolTable
	decodeDynamicSymbolTable
	decodeDynamic
	decodeRelocationWithAddend
	decodeRelocation
	decodeNote
	decodeGnuHash
	decodeGnuVersion
	decodeGnuVersionRequirements
	decodeInterpreterPath
	decodeNoBits
	decodeProgBits
)

// chooseDecoder implements §4.6 step 2's selection table: name takes
// precedence over type for a small allow-list, otherwise type decides.
func chooseDecoder(name string, sectionType EnumValue) decoderChoice {
	switch {
	case sectionType.Name == "Null":
		return decodeNull
	case sectionType.Name == "StringTable" ||
		name == ".shstrtab" || name == ".strtab" || name == ".dynstr":
		return decodeStringTable
	case sectionType.Name == "SymbolTable" || name == ".symtab":
		return decodeSymbolTable
	case sectionType.Name == "DynamicSymbolTable" || name == ".dynsym":
		return decodeDynamicSymbolTable
	case sectionType.Name == "Dynamic" || name == ".dynamic":
		return decodeDynamic
	case sectionType.Name == "RelocationWithAddends":
		return decodeRelocationWithAddend
	case sectionType.Name == "Relocation":
		return decodeRelocation
	case sectionType.Name == "Note" || strings.HasPrefix(name, ".note"):
		return decodeNote
	case sectionType.Name == "GNU_HASH" || name == ".gnu.hash":
		return decodeGnuHash
	case sectionType.Name == "GNU_versym" || name == ".gnu.version":
		return decodeGnuVersion
	case sectionType.Name == "GNU_verneed" || name == ".gnu.version_r":
		return decodeGnuVersionRequirements
	case name == ".interp":
		return decodeInterpreterPath
	case sectionType.Name == "NoBits":
		return decodeNoBits
	case sectionType.Name == "ProgBits":
		return decodeProgBits
	default:
		return decodeProgBits
	}
}

// decodeSectionPayload implements §4.6: it chooses a decoder and invokes
// it with the cursor seated at the section's file offset and alignment
// set to the section's declared alignment for the decode's duration.
func decodeSectionPayload(
	cursor *ByteCursor,
	header FileHeader,
	name string,
	sectionHeader SectionHeaderEntry,
	warn warnlog.Sink,
) (
	Section,
	error,
) {
	choice := chooseDecoder(name, sectionHeader.Type)
	if choice == decodeProgBits && sectionHeader.Type.Name != "ProgBits" {
		if warn != nil {
			warn.Warnf(
				"section %q has unrecognized type %s; treating as ProgBits",
				name, sectionHeader.Type)
		}
	}

	base := newBaseSection(sectionHeader)
	order := cursor.Endianness()

	var content []byte
	if choice != decodeNull && choice != decodeNoBits && sectionHeader.Size > 0 {
		cursor.SetPosition(sectionHeader.Offset)
		var err error
		content, err = cursor.Bytes(sectionHeader.Size)
		if err != nil {
			return nil, err
		}
	}

	alignment := sectionHeader.Alignment
	if alignment == 0 {
		alignment = 1
	}

	var section Section
	err := cursor.WithAlignment(alignment, func() error {
		var decodeErr error
		switch choice {
		case decodeNull:
			section = &NullSection{BaseSection: base}
		case decodeNoBits:
			section = &NoBitsSection{BaseSection: base}
		case decodeProgBits:
			section = &ProgBitsSection{BaseSection: base, Content: content}
		case decodeStringTable:
			section = newStringTableSection(base, content)
		case decodeSymbolTable:
			section, decodeErr = decodeSymbolTableSection(base, content, order, header.Is64Bit, false)
		case decodeDynamicSymbolTable:
			section, decodeErr = decodeSymbolTableSection(base, content, order, header.Is64Bit, true)
		case decodeDynamic:
			section, decodeErr = decodeDynamicSection(base, content, order, header.Is64Bit, warn)
		case decodeRelocationWithAddend:
			section, decodeErr = decodeRelocationSection(
				base, content, order, header.Is64Bit, true, sectionHeader.EntrySize, warn)
		case decodeRelocation:
			section, decodeErr = decodeRelocationSection(
				base, content, order, header.Is64Bit, false, sectionHeader.EntrySize, warn)
		case decodeNote:
			section, decodeErr = decodeNoteSection(base, content, warn)
		case decodeGnuHash:
			section, decodeErr = decodeGnuHashSection(base, content, order, header.Is64Bit)
		case decodeGnuVersion:
			section, decodeErr = decodeGnuVersionSection(base, content, order)
		case decodeGnuVersionRequirements:
			section, decodeErr = decodeGnuVersionRequirementsSection(base, content, order)
		case decodeInterpreterPath:
			section, decodeErr = decodeInterpreterPathSection(base, content)
		default:
			section = &ProgBitsSection{BaseSection: base, Content: content}
		}
		return decodeErr
	})
	if err != nil {
		return nil, err
	}

	return section, nil
}
