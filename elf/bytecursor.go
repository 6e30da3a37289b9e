package elf

import (
	"encoding/binary"
)

// ByteOrder is the byte order a ByteCursor reads multi-byte values in.
type ByteOrder int

const (
	LittleEndian = ByteOrder(1)
	BigEndian    = ByteOrder(2)
)

func (order ByteOrder) binaryOrder() binary.ByteOrder {
	if order == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// ByteCursor is an endian-aware, position-tracked, optionally aligning
// reader over an immutable byte slice.  It is the single primitive every
// fixed-size field in this package is read through.
//
// Based on dwarf.Cursor from the process debugger this toolkit started
// from, generalized with an explicit alignment setting (§4.1): a payload
// decoder can switch the cursor to stride-aligned reads over a region and
// restore the previous alignment afterward via WithAlignment.
type ByteCursor struct {
	content   []byte
	position  uint64
	order     ByteOrder
	alignment uint64
}

// NewByteCursor constructs a cursor at position 0 over content.  alignment
// of 0 is normalized to 1; alignment must otherwise be a power of two or
// the cursor panics, since this constructor is only ever called with
// constants controlled by this package.
func NewByteCursor(content []byte, order ByteOrder, alignment uint64) *ByteCursor {
	if alignment == 0 {
		alignment = 1
	}
	if !isPowerOfTwo(alignment) {
		panic("elf: NewByteCursor: alignment must be a power of two")
	}
	return &ByteCursor{
		content:   content,
		order:     order,
		alignment: alignment,
	}
}

func isPowerOfTwo(n uint64) bool {
	return n > 0 && n&(n-1) == 0
}

func (c *ByteCursor) Position() uint64 {
	return c.position
}

// SetPosition seeks to p.  It performs no alignment rounding and does not
// itself validate that p is within bounds; a subsequent read past the end
// of content fails with UnexpectedEnd.
func (c *ByteCursor) SetPosition(p uint64) {
	c.position = p
}

func (c *ByteCursor) Len() uint64 {
	return uint64(len(c.content))
}

func (c *ByteCursor) SetEndianness(order ByteOrder) {
	c.order = order
}

func (c *ByteCursor) Endianness() ByteOrder {
	return c.order
}

func (c *ByteCursor) Alignment() uint64 {
	return c.alignment
}

// SetAlignment sets the cursor's alignment.  0 is normalized to 1; any
// other value must be a power of two.
func (c *ByteCursor) SetAlignment(a uint64) error {
	if a == 0 {
		a = 1
	}
	if !isPowerOfTwo(a) {
		return newBadAlignmentError(a)
	}
	c.alignment = a
	return nil
}

// WithAlignment runs fn with the cursor temporarily set to alignment a,
// restoring the previous alignment on any exit path (REDESIGN FLAGS: an
// explicit scope helper instead of letting payload decoders mutate and
// forget to restore the cursor's alignment).
func (c *ByteCursor) WithAlignment(a uint64, fn func() error) error {
	prev := c.alignment
	if err := c.SetAlignment(a); err != nil {
		return err
	}
	defer func() {
		c.alignment = prev
	}()
	return fn()
}

func (c *ByteCursor) advance(k uint64) {
	c.position += k
	if c.alignment > 1 {
		if rem := c.position % c.alignment; rem != 0 {
			c.position += c.alignment - rem
		}
	}
}

func (c *ByteCursor) require(k uint64) ([]byte, error) {
	if c.position > c.Len() || k > c.Len()-c.position {
		return nil, newUnexpectedEndError(c.position, k, c.Len())
	}
	return c.content[c.position : c.position+k], nil
}

func (c *ByteCursor) ReadU8() (uint8, error) {
	b, err := c.require(1)
	if err != nil {
		return 0, err
	}
	v := b[0]
	c.advance(1)
	return v, nil
}

func (c *ByteCursor) ReadU16() (uint16, error) {
	return c.readU16(c.order)
}

func (c *ByteCursor) ReadU16LE() (uint16, error) {
	return c.readU16(LittleEndian)
}

func (c *ByteCursor) ReadU16BE() (uint16, error) {
	return c.readU16(BigEndian)
}

func (c *ByteCursor) readU16(order ByteOrder) (uint16, error) {
	b, err := c.require(2)
	if err != nil {
		return 0, err
	}
	v := order.binaryOrder().Uint16(b)
	c.advance(2)
	return v, nil
}

func (c *ByteCursor) ReadU32() (uint32, error) {
	return c.readU32(c.order)
}

func (c *ByteCursor) ReadU32LE() (uint32, error) {
	return c.readU32(LittleEndian)
}

func (c *ByteCursor) ReadU32BE() (uint32, error) {
	return c.readU32(BigEndian)
}

func (c *ByteCursor) readU32(order ByteOrder) (uint32, error) {
	b, err := c.require(4)
	if err != nil {
		return 0, err
	}
	v := order.binaryOrder().Uint32(b)
	c.advance(4)
	return v, nil
}

func (c *ByteCursor) ReadU64() (uint64, error) {
	return c.readU64(c.order)
}

func (c *ByteCursor) ReadU64LE() (uint64, error) {
	return c.readU64(LittleEndian)
}

func (c *ByteCursor) ReadU64BE() (uint64, error) {
	return c.readU64(BigEndian)
}

func (c *ByteCursor) readU64(order ByteOrder) (uint64, error) {
	b, err := c.require(8)
	if err != nil {
		return 0, err
	}
	v := order.binaryOrder().Uint64(b)
	c.advance(8)
	return v, nil
}

// ReadWord reads a class-dependent "word": 4 bytes on a 32-bit file, 8
// bytes on a 64-bit file.  Most of the PHT/SHT/dynamic/relocation layouts
// are expressed in terms of this width (§4.4, §4.5, §4.9, §4.10).
func (c *ByteCursor) ReadWord(is64Bit bool) (uint64, error) {
	if is64Bit {
		return c.ReadU64()
	}
	v, err := c.ReadU32()
	return uint64(v), err
}

// Bytes returns the next size bytes without advancing past alignment
// rounding rules beyond the raw size (used for opaque payload slices,
// which are always read at alignment 1 contexts).
func (c *ByteCursor) Bytes(size uint64) ([]byte, error) {
	b, err := c.require(size)
	if err != nil {
		return nil, err
	}
	c.position += size
	return b, nil
}

// CString reads a NUL-terminated ASCII/UTF-8 string starting at the
// cursor's current position and advances past the terminating NUL.
func (c *ByteCursor) CString() (string, error) {
	if c.position > c.Len() {
		return "", newUnexpectedEndError(c.position, 1, c.Len())
	}
	remaining := c.content[c.position:]
	end := -1
	for i, b := range remaining {
		if b == 0 {
			end = i
			break
		}
	}
	if end == -1 {
		return "", newUnexpectedEndError(c.position, uint64(len(remaining)), c.Len())
	}
	s := string(remaining[:end])
	c.position += uint64(end) + 1
	return s, nil
}
