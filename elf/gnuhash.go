package elf

// GnuHashSection is the GNU-style bloom-filter + bucket/chain symbol
// lookup table (§3, §4.11).
type GnuHashSection struct {
	BaseSection

	NumBuckets   uint32
	SymbolOffset uint32
	BloomSize    uint32
	BloomShift   uint32

	Bloom   []uint64
	Buckets []uint32
	Chain   []uint32
}

func decodeGnuHashSection(
	base BaseSection,
	content []byte,
	order ByteOrder,
	is64Bit bool,
) (
	*GnuHashSection,
	error,
) {
	cursor := NewByteCursor(content, order, 1)

	nbuckets, err := cursor.ReadU32()
	if err != nil {
		return nil, err
	}
	symOffset, err := cursor.ReadU32()
	if err != nil {
		return nil, err
	}
	bloomSize, err := cursor.ReadU32()
	if err != nil {
		return nil, err
	}
	bloomShift, err := cursor.ReadU32()
	if err != nil {
		return nil, err
	}

	bloom := make([]uint64, bloomSize)
	for i := range bloom {
		v, err := cursor.ReadWord(is64Bit)
		if err != nil {
			return nil, err
		}
		bloom[i] = v
	}

	buckets := make([]uint32, nbuckets)
	for i := range buckets {
		v, err := cursor.ReadU32()
		if err != nil {
			return nil, err
		}
		buckets[i] = v
	}

	remaining := cursor.Len() - cursor.Position()
	chain := make([]uint32, remaining/4)
	for i := range chain {
		v, err := cursor.ReadU32()
		if err != nil {
			return nil, err
		}
		chain[i] = v
	}

	return &GnuHashSection{
		BaseSection:  base,
		NumBuckets:   nbuckets,
		SymbolOffset: symOffset,
		BloomSize:    bloomSize,
		BloomShift:   bloomShift,
		Bloom:        bloom,
		Buckets:      buckets,
		Chain:        chain,
	}, nil
}

// BucketLengthHistogram implements §4.11's renderer-facing semantics: for
// each nonzero bucket, walk its chain incrementing length until a chain
// word's low bit is set, then accumulate into a per-length counter.
func (s *GnuHashSection) BucketLengthHistogram() map[int]int {
	histogram := map[int]int{}

	for _, bucket := range s.Buckets {
		if bucket == 0 {
			continue
		}

		idx := int(bucket) - int(s.SymbolOffset)
		length := 0
		for idx >= 0 && idx < len(s.Chain) {
			length++
			if s.Chain[idx]&1 != 0 {
				break
			}
			idx++
		}
		histogram[length]++
	}

	return histogram
}
