// Package disasm formats instructions as text without executing or
// mutating any CPU state; it only reads bytes out of a byte source.
package disasm

import (
	"fmt"

	"github.com/aldenmoore/dmgcore/dmg/cpu"
)

// ByteSource is the minimal read-only view disasm needs of memory.
type ByteSource interface {
	Read(a uint16) byte
}

// Line is one disassembled instruction.
type Line struct {
	Address  uint16
	Bytes    []byte
	Mnemonic string
}

// String formats a Line as "ADDR  bytes  mnemonic".
func (l Line) String() string {
	hex := ""
	for _, b := range l.Bytes {
		hex += fmt.Sprintf("%02X ", b)
	}
	return fmt.Sprintf("%04X  %-9s%s", l.Address, hex, l.Mnemonic)
}

// One disassembles the single instruction at pc, returning the line and
// the address of the following instruction.
func One(bus ByteSource, pc uint16) (Line, uint16) {
	opcode := bus.Read(pc)
	mnemonic, length := cpu.Describe(opcode)
	bytes := make([]byte, 0, length)
	if opcode == 0xCB {
		sub := bus.Read(pc + 1)
		mnemonic, length = cpu.DescribeCB(sub)
		bytes = append(bytes, opcode, sub)
	} else {
		bytes = append(bytes, opcode)
		for i := uint8(1); i < length; i++ {
			bytes = append(bytes, bus.Read(pc+uint16(i)))
		}
	}
	return Line{Address: pc, Bytes: bytes, Mnemonic: mnemonic}, pc + uint16(len(bytes))
}

// Range disassembles count instructions starting at pc.
func Range(bus ByteSource, pc uint16, count int) []Line {
	lines := make([]Line, 0, count)
	for i := 0; i < count; i++ {
		var line Line
		line, pc = One(bus, pc)
		lines = append(lines, line)
	}
	return lines
}
