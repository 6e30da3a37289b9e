// Package disasm wraps the x86-64 instruction decoder.  Instruction
// decoding/emulation semantics are out of scope for this toolkit beyond
// what a declarative fixture exercises; this package exists only as the
// external collaborator section payloads (.text, .plt, and friends) can
// be handed to, not as a full disassembler.
package disasm

import (
	"bytes"
	"fmt"

	"golang.org/x/arch/x86/x86asm"
)

const maxInstructionLength = 15

var (
	endbr64 = []byte{0xf3, 0x0f, 0x1e, 0xfa}
	endbr32 = []byte{0xf3, 0x0f, 0x1e, 0xfb}
)

// Instruction is one decoded x86-64 instruction at a given address.
// ENDBR64/ENDBR32 are special-cased the way the control-flow-enforcement
// prefix is everywhere else in the ecosystem: x86asm decodes them as
// ordinary NOPs, but callers generally want to know a landing pad is
// present.
type Instruction struct {
	Address uint64
	Length  int

	IsEndbr64 bool
	IsEndbr32 bool

	x86asm.Inst
}

func (inst Instruction) String() string {
	if inst.IsEndbr64 {
		return fmt.Sprintf("%#016x: endbr64", inst.Address)
	}
	if inst.IsEndbr32 {
		return fmt.Sprintf("%#016x: endbr32", inst.Address)
	}
	return fmt.Sprintf(
		"%#016x: %s",
		inst.Address,
		x86asm.GNUSyntax(inst.Inst, inst.Address, nil))
}

// DecodeOne decodes a single instruction from the start of data.
func DecodeOne(data []byte, address uint64) (Instruction, error) {
	if len(data) >= len(endbr64) && bytes.Equal(data[:len(endbr64)], endbr64) {
		return Instruction{Address: address, Length: len(endbr64), IsEndbr64: true}, nil
	}
	if len(data) >= len(endbr32) && bytes.Equal(data[:len(endbr32)], endbr32) {
		return Instruction{Address: address, Length: len(endbr32), IsEndbr32: true}, nil
	}

	inst, err := x86asm.Decode(data, 64)
	if err != nil {
		return Instruction{}, fmt.Errorf("disasm: decode at %#x: %w", address, err)
	}

	return Instruction{Address: address, Length: inst.Len, Inst: inst}, nil
}

// DecodeAll decodes up to maxInstructions instructions starting at
// address, stopping early if data runs out or a decode fails.
func DecodeAll(data []byte, address uint64, maxInstructions int) ([]Instruction, error) {
	if maxInstructions < 0 {
		return nil, fmt.Errorf("disasm: invalid instruction count: %d", maxInstructions)
	}

	result := make([]Instruction, 0, maxInstructions)
	for len(data) > 0 && len(result) < maxInstructions {
		inst, err := DecodeOne(data, address)
		if err != nil {
			break
		}

		length := inst.Length
		if length <= 0 || length > maxInstructionLength {
			break
		}

		result = append(result, inst)
		data = data[length:]
		address += uint64(length)
	}

	return result, nil
}
