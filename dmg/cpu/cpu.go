// Package cpu implements the Sharp LR35902 instruction interpreter: the
// register file, the fetch/decode/execute loop, and interrupt dispatch.
package cpu

import (
	"log/slog"

	"github.com/aldenmoore/dmgcore/dmg/addr"
	"github.com/aldenmoore/dmgcore/dmg/cart"
)

// Bus is the subset of the memory bus the CPU depends on, satisfied by
// *memory.Bus. Defined here (rather than imported) to keep this package
// free of a dependency on the memory package's concrete type.
type Bus interface {
	Read(a uint16) byte
	Write(a uint16, v byte)
	Read16(a uint16) uint16
	Write16(a uint16, v uint16)
}

// CPU holds the register file and the handful of extra bits of state the
// interpreter loop needs: the interrupt master enable flip-flop, the
// one-instruction EI delay, and the HALT/HALT-bug condition.
type CPU struct {
	a, f          uint8
	b, c          uint8
	d, e          uint8
	h, l          uint8
	sp            uint16
	pc            uint16
	cycles        uint64
	bus           Bus
	ime           bool
	eiPending     bool
	halted        bool
	haltBug       bool
	stopped       bool
}

// New returns a CPU wired to bus. Call Reset to bring it to the canonical
// post-boot-ROM state before running a program.
func New(bus Bus) *CPU {
	return &CPU{bus: bus}
}

// Reset sets every register to its documented post-boot-ROM value. header
// supplies the cartridge checksum used to seed H and C.
func (c *CPU) Reset(header cart.Header) {
	c.a = 0x01
	hcSet := header.Checksum != 0
	c.setFlags(true, false, hcSet, hcSet)
	c.b, c.c = 0x00, 0x13
	c.d, c.e = 0x00, 0xD8
	c.h, c.l = 0x01, 0x4D
	c.sp = 0xFFFE
	c.pc = 0x0100
	c.cycles = 0
	c.ime = false
	c.eiPending = false
	c.halted = false
	c.haltBug = false
	c.stopped = false
}

// PC returns the program counter, exposed for disassembly and tests.
func (c *CPU) PC() uint16 { return c.pc }

// SP returns the stack pointer.
func (c *CPU) SP() uint16 { return c.sp }

// Cycles returns the running total of M-cycles executed since Reset.
func (c *CPU) Cycles() uint64 { return c.cycles }

// IME returns whether the interrupt master enable flip-flop is set.
func (c *CPU) IME() bool { return c.ime }

// Halted reports whether the CPU is in the HALT low-power state.
func (c *CPU) Halted() bool { return c.halted }

// SetIE and SetIF are not exposed here: the IE and IF registers live on the
// bus (0xFFFF and 0xFF0F) like any other memory location.

// Step executes exactly one instruction (or, if halted, idles one
// M-cycle) and returns the number of M-cycles it took. Interrupt dispatch
// is checked first, per real hardware priority; a step that dispatches an
// interrupt executes no instruction and returns the 5 dispatch M-cycles.
func (c *CPU) Step() int {
	if cycles, serviced := c.handleInterrupts(); serviced {
		c.cycles += uint64(cycles)
		return cycles
	}

	if c.halted {
		c.cycles++
		return 1
	}

	eiWasPending := c.eiPending
	cycles := c.execute()
	if eiWasPending && c.eiPending {
		c.ime = true
		c.eiPending = false
	}

	c.cycles += uint64(cycles)
	return cycles
}

// fetch reads the byte at PC and advances PC by one, honoring the HALT bug
// (PC fails to advance exactly once, causing the following opcode byte to
// be read twice).
func (c *CPU) fetch() uint8 {
	v := c.bus.Read(c.pc)
	if c.haltBug {
		c.haltBug = false
		return v
	}
	c.pc++
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch()
	hi := c.fetch()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) execute() int {
	opcode := c.fetch()
	instr := opcodes[opcode]
	if instr.Exec == nil {
		slog.Warn("unimplemented opcode", "opcode", opcode, "pc", c.pc-1)
		return 1
	}
	return instr.Exec(c)
}

// handleInterrupts services the highest-priority pending, enabled
// interrupt if IME is set (or wakes the CPU from HALT regardless of IME).
// It returns the number of M-cycles the dispatch consumed and whether one
// was serviced.
func (c *CPU) handleInterrupts() (int, bool) {
	ie := c.bus.Read(addr.IE)
	iflags := c.bus.Read(addr.IF)
	pending := ie & iflags & 0x1F

	if pending == 0 {
		return 0, false
	}

	if c.halted {
		c.halted = false
		if !c.ime {
			return 0, false
		}
	}

	if !c.ime {
		return 0, false
	}

	for _, i := range addr.Interrupts() {
		if pending&(1<<i.Bit()) == 0 {
			continue
		}
		c.ime = false
		c.bus.Write(addr.IF, iflags&^(1<<i.Bit()))
		c.pushStack(c.pc)
		c.pc = i.Vector()
		return 5, true
	}
	return 0, false
}

func (c *CPU) pushStack(v uint16) {
	c.sp -= 2
	c.bus.Write16(c.sp, v)
}

func (c *CPU) popStack() uint16 {
	v := c.bus.Read16(c.sp)
	c.sp += 2
	return v
}
