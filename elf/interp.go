package elf

import "strings"

// InterpreterPathSection (.interp) holds the dynamic loader's path as a
// single NUL-terminated string (§3, §4.6).
type InterpreterPathSection struct {
	BaseSection
	Path string
}

func decodeInterpreterPathSection(
	base BaseSection,
	content []byte,
) (
	*InterpreterPathSection,
	error,
) {
	return &InterpreterPathSection{
		BaseSection: base,
		Path:        strings.TrimRight(string(content), "\x00"),
	}, nil
}
