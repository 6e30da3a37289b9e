package elf

import (
	"testing"

	"github.com/pattyshack/gt/testing/expect"
	"github.com/pattyshack/gt/testing/suite"
)

type InterpSuite struct{}

func TestInterp(t *testing.T) {
	suite.RunTests(t, &InterpSuite{})
}

func (InterpSuite) TestTrimsTrailingNul(t *testing.T) {
	section, err := decodeInterpreterPathSection(
		BaseSection{}, []byte("/lib64/ld-linux-x86-64.so.2\x00"))
	expect.Nil(t, err)
	expect.Equal(t, "/lib64/ld-linux-x86-64.so.2", section.Path)
}

func (InterpSuite) TestNoTrailingNul(t *testing.T) {
	section, err := decodeInterpreterPathSection(BaseSection{}, []byte("/bin/sh"))
	expect.Nil(t, err)
	expect.Equal(t, "/bin/sh", section.Path)
}
