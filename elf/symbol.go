package elf

import (
	"github.com/pattyshack/elfview/internal/warnlog"
)

// SymbolEntry is one entry of a symbol or dynamic-symbol table (§4.7).
// The on-disk field order differs by class; both lay out to this struct.
type SymbolEntry struct {
	NameIndex    uint32
	Value        uint64
	Size         uint64
	Info         uint8
	Other        uint8
	SectionIndex uint16
}

func (s SymbolEntry) Binding(warn warnlog.Sink) (EnumValue, error) {
	return ResolveSymbolBinding(s.Info>>4, warn)
}

func (s SymbolEntry) Type(warn warnlog.Sink) (EnumValue, error) {
	return ResolveSymbolType(s.Info&0xf, warn)
}

func (s SymbolEntry) Visibility(warn warnlog.Sink) (EnumValue, error) {
	return ResolveSymbolVisibility(s.Other&0x3, warn)
}

// SymbolTableSection covers both SHT_SYMTAB and SHT_DYNSYM (§3's
// "SymbolTable / DynamicSymbolTable").
type SymbolTableSection struct {
	BaseSection
	Symbols   []SymbolEntry
	IsDynamic bool
}

func decodeSymbolTableSection(
	base BaseSection,
	content []byte,
	order ByteOrder,
	is64Bit bool,
	isDynamic bool,
) (
	*SymbolTableSection,
	error,
) {
	entrySize := uint64(16)
	if is64Bit {
		entrySize = 24
	}

	if len(content)%int(entrySize) != 0 {
		return nil, newInvalidFieldValueError(
			"symbol table size", "multiple of entry size", len(content))
	}

	count := len(content) / int(entrySize)
	symbols := make([]SymbolEntry, 0, count)
	cursor := NewByteCursor(content, order, 1)

	for i := 0; i < count; i++ {
		cursor.SetPosition(uint64(i) * entrySize)

		entry := SymbolEntry{}
		var err error

		if is64Bit {
			// 64-bit layout: name, info, other, shndx, value, size
			entry.NameIndex, err = cursor.ReadU32()
			if err != nil {
				return nil, err
			}
			entry.Info, err = cursor.ReadU8()
			if err != nil {
				return nil, err
			}
			entry.Other, err = cursor.ReadU8()
			if err != nil {
				return nil, err
			}
			entry.SectionIndex, err = cursor.ReadU16()
			if err != nil {
				return nil, err
			}
			entry.Value, err = cursor.ReadU64()
			if err != nil {
				return nil, err
			}
			entry.Size, err = cursor.ReadU64()
			if err != nil {
				return nil, err
			}
		} else {
			// 32-bit layout: name, value, size, info, other, shndx
			entry.NameIndex, err = cursor.ReadU32()
			if err != nil {
				return nil, err
			}
			value, err2 := cursor.ReadU32()
			if err2 != nil {
				return nil, err2
			}
			entry.Value = uint64(value)

			size, err2 := cursor.ReadU32()
			if err2 != nil {
				return nil, err2
			}
			entry.Size = uint64(size)

			entry.Info, err = cursor.ReadU8()
			if err != nil {
				return nil, err
			}
			entry.Other, err = cursor.ReadU8()
			if err != nil {
				return nil, err
			}
			entry.SectionIndex, err = cursor.ReadU16()
			if err != nil {
				return nil, err
			}
		}

		symbols = append(symbols, entry)
	}

	return &SymbolTableSection{
		BaseSection: base,
		Symbols:     symbols,
		IsDynamic:   isDynamic,
	}, nil
}
