package core

import (
	"encoding/binary"
	"fmt"
)

const (
	// InstructionSetVersion is the only payload version this decoder accepts.
	InstructionSetVersion = 1

	// MaxInstructions bounds one payload's instruction count.
	MaxInstructions = 16
)

// DecodeInstructions parses an envelope payload into an InstructionSet.
// The decode consumes the payload exactly: short operands, unknown ops, and
// trailing bytes all fail, and failure here never signals transport trouble,
// only a malformed payload. Pure and deterministic.
//
// Layout:
//
//	version  uint8, must be 1
//	count    uint8, at most 16
//	then per instruction:
//	  op       uint8
//	  length   uint16 big-endian
//	  operand  length bytes
func DecodeInstructions(payload []byte) (InstructionSet, error) {
	if len(payload) < 2 {
		return InstructionSet{}, fmt.Errorf("core: payload truncated at %d bytes", len(payload))
	}
	version := payload[0]
	if version != InstructionSetVersion {
		return InstructionSet{}, fmt.Errorf("core: unsupported payload version %d", version)
	}
	count := int(payload[1])
	if count > MaxInstructions {
		return InstructionSet{}, fmt.Errorf("core: payload declares %d instructions, limit is %d", count, MaxInstructions)
	}

	rest := payload[2:]
	instructions := make([]Instruction, 0, count)
	for i := 0; i < count; i++ {
		if len(rest) < 3 {
			return InstructionSet{}, fmt.Errorf("core: instruction %d header truncated", i)
		}
		op := InstructionOp(rest[0])
		if !op.Known() {
			return InstructionSet{}, fmt.Errorf("core: instruction %d has unknown op %#x", i, byte(op))
		}
		size := int(binary.BigEndian.Uint16(rest[1:3]))
		rest = rest[3:]
		if len(rest) < size {
			return InstructionSet{}, fmt.Errorf("core: instruction %d operand truncated, want %d bytes, have %d", i, size, len(rest))
		}
		operand := make([]byte, size)
		copy(operand, rest[:size])
		rest = rest[size:]
		instructions = append(instructions, Instruction{Op: op, Operand: operand})
	}
	if len(rest) != 0 {
		return InstructionSet{}, fmt.Errorf("core: payload has %d trailing bytes after %d instructions", len(rest), count)
	}

	return InstructionSet{Version: version, Instructions: instructions}, nil
}

// EncodeInstructions renders an InstructionSet in the layout
// DecodeInstructions expects. Used by emitter-side tooling and fixtures.
func EncodeInstructions(set InstructionSet) ([]byte, error) {
	if set.Version != InstructionSetVersion {
		return nil, fmt.Errorf("core: unsupported payload version %d", set.Version)
	}
	if len(set.Instructions) > MaxInstructions {
		return nil, fmt.Errorf("core: %d instructions exceed limit %d", len(set.Instructions), MaxInstructions)
	}
	out := []byte{set.Version, byte(len(set.Instructions))}
	for i, instruction := range set.Instructions {
		if !instruction.Op.Known() {
			return nil, fmt.Errorf("core: instruction %d has unknown op %#x", i, byte(instruction.Op))
		}
		if len(instruction.Operand) > 0xFFFF {
			return nil, fmt.Errorf("core: instruction %d operand is %d bytes, limit is %d", i, len(instruction.Operand), 0xFFFF)
		}
		out = append(out, byte(instruction.Op))
		out = binary.BigEndian.AppendUint16(out, uint16(len(instruction.Operand)))
		out = append(out, instruction.Operand...)
	}
	return out, nil
}
