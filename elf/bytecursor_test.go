package elf

import (
	"testing"

	"github.com/pattyshack/gt/testing/expect"
	"github.com/pattyshack/gt/testing/suite"
)

type ByteCursorSuite struct{}

func TestByteCursor(t *testing.T) {
	suite.RunTests(t, &ByteCursorSuite{})
}

func (ByteCursorSuite) TestReadRoundTrip(t *testing.T) {
	content := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	cursor := NewByteCursor(content, LittleEndian, 1)

	b, err := cursor.ReadU8()
	expect.Nil(t, err)
	expect.Equal(t, uint8(0x01), b)

	u16, err := cursor.ReadU16()
	expect.Nil(t, err)
	expect.Equal(t, uint16(0x0302), u16)

	u32, err := cursor.ReadU32()
	expect.Nil(t, err)
	expect.Equal(t, uint32(0x07060504), u32)

	expect.Equal(t, uint64(7), cursor.Position())
}

func (ByteCursorSuite) TestBigEndian(t *testing.T) {
	content := []byte{0x00, 0x00, 0x01, 0x02}
	cursor := NewByteCursor(content, BigEndian, 1)

	u32, err := cursor.ReadU32()
	expect.Nil(t, err)
	expect.Equal(t, uint32(0x00000102), u32)
}

func (ByteCursorSuite) TestUnexpectedEnd(t *testing.T) {
	cursor := NewByteCursor([]byte{0x01}, LittleEndian, 1)

	_, err := cursor.ReadU32()
	var parseErr *Error
	expect.True(t, asError(err, &parseErr))
	expect.Equal(t, KindUnexpectedEnd, parseErr.Kind)
}

func (ByteCursorSuite) TestAlignmentRounding(t *testing.T) {
	content := make([]byte, 16)
	cursor := NewByteCursor(content, LittleEndian, 4)

	_, err := cursor.ReadU8()
	expect.Nil(t, err)
	expect.Equal(t, uint64(4), cursor.Position())

	_, err = cursor.ReadU16()
	expect.Nil(t, err)
	expect.Equal(t, uint64(8), cursor.Position())
}

func (ByteCursorSuite) TestWithAlignmentRestores(t *testing.T) {
	content := make([]byte, 16)
	cursor := NewByteCursor(content, LittleEndian, 1)

	err := cursor.WithAlignment(8, func() error {
		expect.Equal(t, uint64(8), cursor.Alignment())
		return nil
	})
	expect.Nil(t, err)
	expect.Equal(t, uint64(1), cursor.Alignment())
}

func (ByteCursorSuite) TestCString(t *testing.T) {
	cursor := NewByteCursor([]byte("hello\x00world"), LittleEndian, 1)

	s, err := cursor.CString()
	expect.Nil(t, err)
	expect.Equal(t, "hello", s)
	expect.Equal(t, uint64(6), cursor.Position())
}

func (ByteCursorSuite) TestReadWordByClass(t *testing.T) {
	content := []byte{1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0, 4, 0, 0, 0}
	cursor := NewByteCursor(content, LittleEndian, 1)

	w, err := cursor.ReadWord(false)
	expect.Nil(t, err)
	expect.Equal(t, uint64(1), w)

	cursor = NewByteCursor(content, LittleEndian, 1)
	w, err = cursor.ReadWord(true)
	expect.Nil(t, err)
	expect.Equal(t, uint64(0x0000000200000001), w)
}
