package elf

import (
	"encoding/binary"
	"testing"

	"github.com/pattyshack/gt/testing/expect"
	"github.com/pattyshack/gt/testing/suite"
)

type GnuHashSuite struct{}

func TestGnuHash(t *testing.T) {
	suite.RunTests(t, &GnuHashSuite{})
}

func appendU32(content []byte, v uint32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, v)
	return append(content, buf...)
}

func appendU64(content []byte, v uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, v)
	return append(content, buf...)
}

func (GnuHashSuite) TestDecodeLayout(t *testing.T) {
	var content []byte
	content = appendU32(content, 2)  // nbuckets
	content = appendU32(content, 10) // symoffset
	content = appendU32(content, 1)  // bloom size
	content = appendU32(content, 0)  // bloom shift
	content = appendU64(content, 0)  // bloom word
	content = appendU32(content, 10) // bucket 0 -> chain starts at symbol 10
	content = appendU32(content, 0)  // bucket 1 -> empty
	content = appendU32(content, 4)  // chain[0], low bit clear
	content = appendU32(content, 5)  // chain[1], low bit set (last of chain)

	section, err := decodeGnuHashSection(BaseSection{}, content, LittleEndian, true)
	expect.Nil(t, err)

	expect.Equal(t, uint32(2), section.NumBuckets)
	expect.Equal(t, uint32(10), section.SymbolOffset)
	expect.Equal(t, []uint32{10, 0}, section.Buckets)
	expect.Equal(t, []uint32{4, 5}, section.Chain)
}

func (GnuHashSuite) TestBucketLengthHistogram(t *testing.T) {
	section := &GnuHashSection{
		SymbolOffset: 10,
		Buckets:      []uint32{10, 0},
		Chain:        []uint32{4, 5},
	}

	histogram := section.BucketLengthHistogram()
	expect.Equal(t, map[int]int{2: 1}, histogram)
}

func (GnuHashSuite) TestEmptyBucketsProduceEmptyHistogram(t *testing.T) {
	section := &GnuHashSection{
		SymbolOffset: 0,
		Buckets:      []uint32{0, 0, 0},
		Chain:        []uint32{},
	}

	histogram := section.BucketLengthHistogram()
	expect.Equal(t, 0, len(histogram))
}
