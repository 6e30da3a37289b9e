package elf

// GnuVersionSection is the per-symbol version-index table (§3, §4.12):
// one 16-bit index per entry in the linked dynamic symbol table.
type GnuVersionSection struct {
	BaseSection
	Indices []uint16
}

func decodeGnuVersionSection(
	base BaseSection,
	content []byte,
	order ByteOrder,
) (
	*GnuVersionSection,
	error,
) {
	cursor := NewByteCursor(content, order, 1)
	indices := make([]uint16, len(content)/2)

	for i := range indices {
		v, err := cursor.ReadU16()
		if err != nil {
			return nil, err
		}
		indices[i] = v
	}

	return &GnuVersionSection{BaseSection: base, Indices: indices}, nil
}

// VersionAuxiliary is one Vernaux record: a required version of a single
// shared library dependency.
type VersionAuxiliary struct {
	Hash         uint32
	Flags        uint16
	VersionIndex uint16
	NameOffset   uint64
}

// VersionRequirement is one Verneed record: a shared library dependency
// plus the chain of versions required from it.
type VersionRequirement struct {
	Version        uint16
	FileNameOffset uint64
	Auxiliaries    []VersionAuxiliary
}

// GnuVersionRequirementsSection is the Verneed/Vernaux chain (§3, §4.12).
type GnuVersionRequirementsSection struct {
	BaseSection
	Requirements []VersionRequirement
}

// decodeGnuVersionRequirementsSection walks the Verneed chain, each entry
// in turn walking its own Vernaux chain, both terminated by a zero "next"
// offset relative to the record that names it.
func decodeGnuVersionRequirementsSection(
	base BaseSection,
	content []byte,
	order ByteOrder,
) (
	*GnuVersionRequirementsSection,
	error,
) {
	cursor := NewByteCursor(content, order, 1)
	requirements := []VersionRequirement{}

	offset := uint64(0)
	for {
		cursor.SetPosition(offset)

		version, err := cursor.ReadU16()
		if err != nil {
			return nil, err
		}
		count, err := cursor.ReadU16()
		if err != nil {
			return nil, err
		}
		fileNameOffset, err := cursor.ReadU32()
		if err != nil {
			return nil, err
		}
		auxOffset, err := cursor.ReadU32()
		if err != nil {
			return nil, err
		}
		next, err := cursor.ReadU32()
		if err != nil {
			return nil, err
		}

		auxiliaries := make([]VersionAuxiliary, 0, count)
		auxPos := offset + uint64(auxOffset)
		for i := uint16(0); i < count; i++ {
			cursor.SetPosition(auxPos)

			hash, err := cursor.ReadU32()
			if err != nil {
				return nil, err
			}
			flags, err := cursor.ReadU16()
			if err != nil {
				return nil, err
			}
			versionIndex, err := cursor.ReadU16()
			if err != nil {
				return nil, err
			}
			nameOffset, err := cursor.ReadU32()
			if err != nil {
				return nil, err
			}
			auxNext, err := cursor.ReadU32()
			if err != nil {
				return nil, err
			}

			auxiliaries = append(auxiliaries, VersionAuxiliary{
				Hash:         hash,
				Flags:        flags,
				VersionIndex: versionIndex,
				NameOffset:   uint64(nameOffset),
			})

			if auxNext == 0 {
				break
			}
			auxPos += uint64(auxNext)
		}

		requirements = append(requirements, VersionRequirement{
			Version:        version,
			FileNameOffset: uint64(fileNameOffset),
			Auxiliaries:    auxiliaries,
		})

		if next == 0 {
			break
		}
		offset += uint64(next)
	}

	return &GnuVersionRequirementsSection{
		BaseSection:  base,
		Requirements: requirements,
	}, nil
}
