package elf

import (
	"fmt"

	"github.com/pattyshack/elfview/internal/immap"
	"github.com/pattyshack/elfview/internal/warnlog"
)

// Category labels an enumerant code that fell into a reserved range
// instead of matching a known constant (§4.2).
type Category string

const (
	CategoryOSSpecific          = Category("OS-specific")
	CategoryProcessorSpecific   = Category("processor-specific")
	CategoryApplicationSpecific = Category("application-specific")
)

// EnumValue is a single resolved enumerant: either one of an enum's known
// constants (Unknown == false) or a value that fell within a reserved
// range for that enum, retaining its original Code and Category
// (REDESIGN FLAGS: a closed tagged variant instead of the teacher's
// open-coded registry of enum instances).
type EnumValue struct {
	Code     uint64
	Name     string
	Unknown  bool
	Category Category
}

func (v EnumValue) String() string {
	if !v.Unknown {
		return v.Name
	}
	return fmt.Sprintf("Unknown(%s, %#x)", v.Category, v.Code)
}

type reservedRange struct {
	low, high uint64
	category  Category
}

// resolveEnumerant implements §4.2's from_code rule: known code first,
// then reserved ranges (each producing a synthesized Unknown variant and a
// warning), then InvalidEnumCode.
func resolveEnumerant(
	which string,
	code uint64,
	known immap.Map[uint64, string],
	ranges []reservedRange,
	warn warnlog.Sink,
) (
	EnumValue,
	error,
) {
	if name, ok := known.Get(code); ok {
		return EnumValue{Code: code, Name: name}, nil
	}

	for _, r := range ranges {
		if code >= r.low && code <= r.high {
			if warn != nil {
				warn.Warnf(
					"%s: code %#x is unknown but within the %s reserved range",
					which, code, r.category)
			}
			return EnumValue{Code: code, Unknown: true, Category: r.category}, nil
		}
	}

	return EnumValue{}, newInvalidEnumCodeError(which, code)
}

// --- OS/ABI (EI_OSABI) ---

var osABIByCode = immap.New(map[uint64]string{
	0:   "UNIX System V",
	1:   "HP-UX",
	2:   "NetBSD",
	3:   "Linux",
	6:   "Solaris",
	7:   "AIX",
	8:   "IRIX",
	9:   "FreeBSD",
	10:  "TRU64",
	11:  "Modesto",
	12:  "OpenBSD",
	64:  "ARM EABI",
	97:  "ARM",
	255: "Standalone",
})

func ResolveOSABI(code uint8, warn warnlog.Sink) (EnumValue, error) {
	return resolveEnumerant("OS/ABI", uint64(code), osABIByCode, nil, warn)
}

// --- ISA (e_machine) ---

var isaByCode = immap.New(map[uint64]string{
	0:   "None",
	3:   "Intel 80386",
	8:   "MIPS",
	20:  "PowerPC",
	40:  "ARM",
	62:  "AMD x86-64",
	183: "AArch64",
	243: "RISC-V",
})

func ResolveISA(code uint16, warn warnlog.Sink) (EnumValue, error) {
	return resolveEnumerant("ISA", uint64(code), isaByCode, nil, warn)
}

// --- File type (e_type) ---

var fileTypeByCode = immap.New(map[uint64]string{
	0: "None",
	1: "Relocatable",
	2: "Executable",
	3: "SharedObject",
	4: "Core",
})

var fileTypeReservedRanges = []reservedRange{
	{0xfe00, 0xfeff, CategoryOSSpecific},
	{0xff00, 0xffff, CategoryProcessorSpecific},
}

func ResolveFileType(code uint16, warn warnlog.Sink) (EnumValue, error) {
	return resolveEnumerant(
		"file type", uint64(code), fileTypeByCode, fileTypeReservedRanges, warn)
}

// --- Segment type (p_type) ---

var programTypeByCode = immap.New(map[uint64]string{
	0: "Null",
	1: "Loadable",
	2: "DynamicLinking",
	3: "InterpreterPath",
	4: "Note",
	5: "SharedLib",
	6: "HeaderInfo",
	7: "TLS",
	0x6474e550: "GNU_EH_FRAME",
	0x6474e551: "GNU_STACK",
	0x6474e552: "GNU_RELRO",
	0x6474e553: "GNU_PROPERTY",
})

var programTypeReservedRanges = []reservedRange{
	{0x60000000, 0x6fffffff, CategoryOSSpecific},
	{0x70000000, 0x7fffffff, CategoryProcessorSpecific},
}

func ResolveProgramType(code uint32, warn warnlog.Sink) (EnumValue, error) {
	return resolveEnumerant(
		"segment type", uint64(code), programTypeByCode, programTypeReservedRanges, warn)
}

// --- Segment flags (p_flags) ---

type ProgramFlags uint32

const (
	ProgramFlagExecute = ProgramFlags(0x1)
	ProgramFlagWrite   = ProgramFlags(0x2)
	ProgramFlagRead    = ProgramFlags(0x4)

	programFlagKnownBits = ProgramFlags(0x7)
	programFlagMaskOS    = ProgramFlags(0x0ff00000)
	programFlagMaskProc  = ProgramFlags(0xf0000000)
)

func (f ProgramFlags) String() string {
	rwx := []byte{'-', '-', '-'}
	if f&ProgramFlagRead != 0 {
		rwx[0] = 'r'
	}
	if f&ProgramFlagWrite != 0 {
		rwx[1] = 'w'
	}
	if f&ProgramFlagExecute != 0 {
		rwx[2] = 'x'
	}
	if f & ^(programFlagKnownBits | programFlagMaskOS | programFlagMaskProc) != 0 {
		return fmt.Sprintf("%s(%#x)", string(rwx), uint32(f))
	}
	return string(rwx)
}

// --- Section type (sh_type) ---

var sectionTypeByCode = immap.New(map[uint64]string{
	0:  "Null",
	1:  "ProgBits",
	2:  "SymbolTable",
	3:  "StringTable",
	4:  "RelocationWithAddends",
	5:  "SymbolHashTable",
	6:  "Dynamic",
	7:  "Note",
	8:  "NoBits",
	9:  "Relocation",
	10: "ShLib",
	11: "DynamicSymbolTable",
	14: "InitArray",
	15: "FiniArray",
	16: "PreinitArray",
	17: "Group",
	18: "SymTabShndx",

	0x6ffffff5: "GNU_ATTRIBUTES",
	0x6ffffff6: "GNU_HASH",
	0x6ffffff7: "GNU_LIBLIST",
	0x6ffffffd: "GNU_verdef",
	0x6ffffffe: "GNU_verneed",
	0x6fffffff: "GNU_versym",
})

var sectionTypeReservedRanges = []reservedRange{
	{0x60000000, 0x6fffffff, CategoryOSSpecific},
	{0x70000000, 0x7fffffff, CategoryProcessorSpecific},
	{0x80000000, 0x8fffffff, CategoryApplicationSpecific},
}

func ResolveSectionType(code uint32, warn warnlog.Sink) (EnumValue, error) {
	return resolveEnumerant(
		"section type", uint64(code), sectionTypeByCode, sectionTypeReservedRanges, warn)
}

// --- Section flags (sh_flags) ---

type SectionFlags uint64

const (
	SectionFlagWrite            = SectionFlags(0x1)
	SectionFlagAlloc            = SectionFlags(0x2)
	SectionFlagExecInstr        = SectionFlags(0x4)
	SectionFlagMerge            = SectionFlags(0x10)
	SectionFlagStrings          = SectionFlags(0x20)
	SectionFlagInfoLink         = SectionFlags(0x40)
	SectionFlagLinkOrder        = SectionFlags(0x80)
	SectionFlagOSNonconforming  = SectionFlags(0x100)
	SectionFlagGroup            = SectionFlags(0x200)
	SectionFlagTLS              = SectionFlags(0x400)
	SectionFlagCompressed       = SectionFlags(0x800)

	sectionFlagKnownUnion = SectionFlagWrite | SectionFlagAlloc | SectionFlagExecInstr |
		SectionFlagMerge | SectionFlagStrings | SectionFlagInfoLink | SectionFlagLinkOrder |
		SectionFlagOSNonconforming | SectionFlagGroup | SectionFlagTLS | SectionFlagCompressed
)

// SectionFlagsFromBits implements §4.2's from_bits: it fails if b has bits
// set outside the union of all defined flag codes.
func SectionFlagsFromBits(b uint64) (SectionFlags, error) {
	if b & ^uint64(sectionFlagKnownUnion) != 0 {
		return 0, newInvalidBitsetError("section flags", b)
	}
	return SectionFlags(b), nil
}

func (f SectionFlags) String() string {
	result := []byte("-----------")
	if f&SectionFlagWrite != 0 {
		result[0] = 'w'
	}
	if f&SectionFlagAlloc != 0 {
		result[1] = 'a'
	}
	if f&SectionFlagExecInstr != 0 {
		result[2] = 'x'
	}
	if f&SectionFlagMerge != 0 {
		result[3] = 'm'
	}
	if f&SectionFlagStrings != 0 {
		result[4] = 's'
	}
	if f&SectionFlagInfoLink != 0 {
		result[5] = 'i'
	}
	if f&SectionFlagLinkOrder != 0 {
		result[6] = 'l'
	}
	if f&SectionFlagOSNonconforming != 0 {
		result[7] = 'o'
	}
	if f&SectionFlagGroup != 0 {
		result[8] = 'g'
	}
	if f&SectionFlagTLS != 0 {
		result[9] = 't'
	}
	if f&SectionFlagCompressed != 0 {
		result[10] = 'c'
	}
	return string(result)
}

// --- Symbol type (low 4 bits of st_info) ---

var symbolTypeByCode = immap.New(map[uint64]string{
	0: "NoType",
	1: "Object",
	2: "Function",
	3: "Section",
	4: "SourceFile",
	5: "Common",
	6: "TLSObject",
	10: "GNU_IFunc",
})

var symbolTypeReservedRanges = []reservedRange{
	{10, 12, CategoryOSSpecific},
	{13, 15, CategoryProcessorSpecific},
}

func ResolveSymbolType(code uint8, warn warnlog.Sink) (EnumValue, error) {
	return resolveEnumerant(
		"symbol type", uint64(code), symbolTypeByCode, symbolTypeReservedRanges, warn)
}

// --- Symbol binding (high 4 bits of st_info) ---

var symbolBindingByCode = immap.New(map[uint64]string{
	0: "Local",
	1: "Global",
	2: "Weak",
})

var symbolBindingReservedRanges = []reservedRange{
	{10, 12, CategoryOSSpecific},
	{13, 15, CategoryProcessorSpecific},
}

func ResolveSymbolBinding(code uint8, warn warnlog.Sink) (EnumValue, error) {
	return resolveEnumerant(
		"symbol binding", uint64(code), symbolBindingByCode, symbolBindingReservedRanges, warn)
}

// --- Symbol visibility (low 2 bits of st_other) ---

var symbolVisibilityByCode = immap.New(map[uint64]string{
	0: "Default",
	1: "Internal",
	2: "Hidden",
	3: "Protected",
})

func ResolveSymbolVisibility(code uint8, warn warnlog.Sink) (EnumValue, error) {
	return resolveEnumerant(
		"symbol visibility", uint64(code), symbolVisibilityByCode, nil, warn)
}

// --- Dynamic tag (d_tag) ---

var dynamicTagByCode = immap.New(map[uint64]string{
	0:  "NULL",
	1:  "NEEDED",
	2:  "PLTRELSZ",
	3:  "PLTGOT",
	4:  "HASH",
	5:  "STRTAB",
	6:  "SYMTAB",
	7:  "RELA",
	8:  "RELASZ",
	9:  "RELAENT",
	10: "STRSZ",
	11: "SYMENT",
	12: "INIT",
	13: "FINI",
	14: "SONAME",
	15: "RPATH",
	16: "SYMBOLIC",
	17: "REL",
	18: "RELSZ",
	19: "RELENT",
	20: "PLTREL",
	21: "DEBUG",
	22: "TEXTREL",
	23: "JMPREL",
	24: "BIND_NOW",
	25: "INIT_ARRAY",
	26: "FINI_ARRAY",
	27: "INIT_ARRAYSZ",
	28: "FINI_ARRAYSZ",
	29: "RUNPATH",
	30: "FLAGS",
	32: "PREINIT_ARRAY",
	33: "PREINIT_ARRAYSZ",

	0x6ffffef5: "GNU_HASH",
	0x6ffffff0: "VERSYM",
	// NOTE: the canonical spelling is RELACOUNT; the distilled spec's
	// original source table had pasted the VERSYM name over this code.
	0x6ffffff9: "RELACOUNT",
	0x6ffffffa: "RELCOUNT",
	0x6ffffffb: "FLAGS_1",
	0x6ffffffc: "VERDEF",
	0x6ffffffd: "VERDEFNUM",
	0x6ffffffe: "VERNEED",
	0x6fffffff: "VERNEEDNUM",
})

var dynamicTagReservedRanges = []reservedRange{
	{0x6000000d, 0x6ffff000, CategoryOSSpecific},
	{0x70000000, 0x7fffffff, CategoryProcessorSpecific},
}

func ResolveDynamicTag(code uint64, warn warnlog.Sink) (EnumValue, error) {
	return resolveEnumerant(
		"dynamic tag", code, dynamicTagByCode, dynamicTagReservedRanges, warn)
}

// --- Relocation type (low bits of r_info) ---
//
// x86-64 relocation types are entirely processor-specific; unrecognized
// codes always fall into the processor-specific unknown bucket rather than
// being a hard error.

var relocationTypeByCode = immap.New(map[uint64]string{
	0:  "R_X86_64_NONE",
	1:  "R_X86_64_64",
	2:  "R_X86_64_PC32",
	3:  "R_X86_64_GOT32",
	4:  "R_X86_64_PLT32",
	5:  "R_X86_64_COPY",
	6:  "R_X86_64_GLOB_DAT",
	7:  "R_X86_64_JUMP_SLOT",
	8:  "R_X86_64_RELATIVE",
	9:  "R_X86_64_GOTPCREL",
	10: "R_X86_64_32",
	11: "R_X86_64_32S",
	12: "R_X86_64_16",
	13: "R_X86_64_PC16",
	14: "R_X86_64_8",
	15: "R_X86_64_PC8",
	16: "R_X86_64_DTPMOD64",
	17: "R_X86_64_DTPOFF64",
	18: "R_X86_64_TPOFF64",
	19: "R_X86_64_TLSGD",
	20: "R_X86_64_TLSLD",
	21: "R_X86_64_DTPOFF32",
	22: "R_X86_64_GOTTPOFF",
	23: "R_X86_64_TPOFF32",
	24: "R_X86_64_PC64",
	25: "R_X86_64_GOTOFF64",
	26: "R_X86_64_GOTPC32",
	37: "R_X86_64_IRELATIVE",
})

var relocationTypeReservedRanges = []reservedRange{
	{0, 0xffffffff, CategoryProcessorSpecific},
}

func ResolveRelocationType(code uint32, warn warnlog.Sink) (EnumValue, error) {
	return resolveEnumerant(
		"relocation type", uint64(code), relocationTypeByCode, relocationTypeReservedRanges, warn)
}

// --- Note type (n_type) ---
//
// Note type codes are only meaningful alongside the note's owner string
// (§4.8); this resolves the GNU-owner vocabulary used by the "Recognized
// types" the spec names. Owners other than "GNU"/"stapsdt" surface their
// code as an application-specific unknown bucket rather than failing,
// since third-party note producers are common and not a parse error.

var gnuNoteTypeByCode = immap.New(map[uint64]string{
	1: "GNU_ABI_TAG",
	2: "GNU_HWCAP",
	3: "GNU_BUILD_ID",
	4: "GNU_GOLD_VERSION",
	5: "GNU_PROPERTY_TYPE_0",
})

var noteTypeReservedRanges = []reservedRange{
	{0, 0xffffffff, CategoryApplicationSpecific},
}

func ResolveNoteType(owner string, code uint32, warn warnlog.Sink) (EnumValue, error) {
	if owner == "GNU" {
		return resolveEnumerant("note type", uint64(code), gnuNoteTypeByCode, noteTypeReservedRanges, warn)
	}
	if owner == "stapsdt" && code == 3 {
		return EnumValue{Code: uint64(code), Name: "STAPSDT"}, nil
	}
	return resolveEnumerant(
		"note type", uint64(code), immap.New(map[uint64]string{}), noteTypeReservedRanges, warn)
}

// --- GNU property type (pr_type inside NT_GNU_PROPERTY_TYPE_0) ---

var gnuPropertyTypeByCode = immap.New(map[uint64]string{
	1: "STACK_SIZE",
	2: "NO_COPY_ON_PROTECTED",
})

var gnuPropertyTypeReservedRanges = []reservedRange{
	{0x10000000, 0x3fffffff, CategoryApplicationSpecific},
	{0xc0000000, 0xffffffff, CategoryProcessorSpecific},
}

func ResolveGnuPropertyType(code uint32, warn warnlog.Sink) (EnumValue, error) {
	return resolveEnumerant(
		"GNU property type", uint64(code), gnuPropertyTypeByCode, gnuPropertyTypeReservedRanges, warn)
}
