package disasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeSource struct {
	mem [0x10000]byte
}

func (f *fakeSource) Read(a uint16) byte { return f.mem[a] }

func TestOneDisassemblesThreeByteInstruction(t *testing.T) {
	src := &fakeSource{}
	src.mem[0x0100] = 0xC3 // JP a16
	src.mem[0x0101] = 0x50
	src.mem[0x0102] = 0x01

	line, next := One(src, 0x0100)
	assert.Equal(t, "JP a16", line.Mnemonic)
	assert.Equal(t, []byte{0xC3, 0x50, 0x01}, line.Bytes)
	assert.Equal(t, uint16(0x0103), next)
}

func TestOneDisassemblesCBPrefixedInstruction(t *testing.T) {
	src := &fakeSource{}
	src.mem[0x0200] = 0xCB
	src.mem[0x0201] = 0x7C // BIT 7,H

	line, next := One(src, 0x0200)
	assert.Equal(t, "BIT 7,H", line.Mnemonic)
	assert.Equal(t, uint16(0x0202), next)
}

func TestRangeAdvancesThroughMultipleInstructions(t *testing.T) {
	src := &fakeSource{}
	src.mem[0x0000] = 0x00 // NOP
	src.mem[0x0001] = 0x00 // NOP

	lines := Range(src, 0x0000, 2)
	assert.Len(t, lines, 2)
	assert.Equal(t, uint16(0x0000), lines[0].Address)
	assert.Equal(t, uint16(0x0001), lines[1].Address)
}
