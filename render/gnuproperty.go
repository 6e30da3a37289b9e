package render

import (
	"github.com/pattyshack/elfview/elf"
)

// GnuPropertyRecord is one (pr_type, pr_data) record inside a
// GNU_PROPERTY_TYPE_0 note's description (SPEC_FULL.md §3.1).  The core
// note decoder only exposes the raw description bytes; this inner walk
// lives at the render layer since it's specific to one note sub-kind.
type GnuPropertyRecord struct {
	Type elf.EnumValue
	Data []byte
}

// parseGnuPropertyRecords walks the packed (pr_type, pr_datasz, pr_data)
// record sequence inside a GNU_PROPERTY_TYPE_0 note's description.  Each
// record's data is padded to the word size of the class that produced the
// note: 8 bytes on ELF64, 4 bytes on ELF32.
func parseGnuPropertyRecords(description []byte, is64Bit bool) ([]GnuPropertyRecord, error) {
	cursor := elf.NewByteCursor(description, elf.LittleEndian, 1)
	records := []GnuPropertyRecord{}

	wordSize := uint32(4)
	if is64Bit {
		wordSize = 8
	}

	for cursor.Position()+8 <= cursor.Len() {
		typeCode, err := cursor.ReadU32LE()
		if err != nil {
			return nil, err
		}
		dataSize, err := cursor.ReadU32LE()
		if err != nil {
			return nil, err
		}

		propType, err := elf.ResolveGnuPropertyType(typeCode, nil)
		if err != nil {
			return nil, err
		}

		data, err := cursor.Bytes(uint64(dataSize))
		if err != nil {
			return nil, err
		}
		dataCopy := make([]byte, len(data))
		copy(dataCopy, data)

		if pad := alignToWord(dataSize, wordSize) - dataSize; pad > 0 {
			if _, err := cursor.Bytes(uint64(pad)); err != nil {
				return nil, err
			}
		}

		records = append(records, GnuPropertyRecord{Type: propType, Data: dataCopy})
	}

	return records, nil
}

func alignToWord(n uint32, wordSize uint32) uint32 {
	return (n + wordSize - 1) &^ (wordSize - 1)
}
