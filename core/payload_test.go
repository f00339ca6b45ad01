package core

import (
	"bytes"
	"testing"
)

func TestDecodeInstructionsRoundTrip(t *testing.T) {
	set := InstructionSet{
		Version: InstructionSetVersion,
		Instructions: []Instruction{
			{Op: OpMintForeignAsset, Operand: []byte{0x01, 0x02}},
			{Op: OpUnlockNativeAsset, Operand: nil},
			{Op: OpInvokeContract, Operand: []byte{0xFF}},
		},
	}

	encoded, err := EncodeInstructions(set)
	if err != nil {
		t.Fatalf("encode instructions: %v", err)
	}
	decoded, err := DecodeInstructions(encoded)
	if err != nil {
		t.Fatalf("decode instructions: %v", err)
	}
	if decoded.Version != set.Version {
		t.Fatalf("version mismatch: %d", decoded.Version)
	}
	if len(decoded.Instructions) != len(set.Instructions) {
		t.Fatalf("instruction count mismatch: %d", len(decoded.Instructions))
	}
	for i, instruction := range decoded.Instructions {
		if instruction.Op != set.Instructions[i].Op {
			t.Fatalf("instruction %d op mismatch: %#x", i, byte(instruction.Op))
		}
		if !bytes.Equal(instruction.Operand, set.Instructions[i].Operand) {
			t.Fatalf("instruction %d operand mismatch: %x", i, instruction.Operand)
		}
	}
}

func TestDecodeInstructionsRejectsMalformedPayload(t *testing.T) {
	valid, err := EncodeInstructions(InstructionSet{
		Version:      InstructionSetVersion,
		Instructions: []Instruction{{Op: OpMintForeignAsset, Operand: []byte{0x01}}},
	})
	if err != nil {
		t.Fatalf("encode instructions: %v", err)
	}

	cases := []struct {
		name    string
		payload []byte
	}{
		{"empty", nil},
		{"single byte", []byte{InstructionSetVersion}},
		{"wrong version", append([]byte{0x02}, valid[1:]...)},
		{"too many instructions", []byte{InstructionSetVersion, MaxInstructions + 1}},
		{"unknown op", []byte{InstructionSetVersion, 0x01, 0x7F, 0x00, 0x00}},
		{"truncated operand", []byte{InstructionSetVersion, 0x01, byte(OpMintForeignAsset), 0x00, 0x04, 0x01}},
		{"truncated header", []byte{InstructionSetVersion, 0x02, byte(OpMintForeignAsset), 0x00, 0x00}},
		{"trailing bytes", append(append([]byte{}, valid...), 0x00)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeInstructions(tc.payload); err == nil {
				t.Fatalf("expected decode failure")
			}
		})
	}
}

func TestDecodeInstructionsEmptySet(t *testing.T) {
	decoded, err := DecodeInstructions([]byte{InstructionSetVersion, 0x00})
	if err != nil {
		t.Fatalf("decode instructions: %v", err)
	}
	if len(decoded.Instructions) != 0 {
		t.Fatalf("expected no instructions, got %d", len(decoded.Instructions))
	}
}
