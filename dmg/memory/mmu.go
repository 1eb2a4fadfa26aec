// Package memory implements the Game Boy's 16-bit address space: a flat
// 64 KiB byte array with region-specific write side effects, owned
// exclusively by the Bus returned from New.
package memory

import (
	"log/slog"

	"github.com/aldenmoore/dmgcore/dmg/addr"
	"github.com/aldenmoore/dmgcore/dmg/bit"
	"github.com/aldenmoore/dmgcore/dmg/cart"
)

// Bus owns the 64 KiB address space and routes reads/writes to the
// cartridge, plain RAM, or one of the side-effectful I/O registers.
//
// Bus is the only mutable resource in the core: the CPU, Timer, DMA engine
// and PPU all hold a pointer to it rather than owning memory themselves.
type Bus struct {
	cart   *cart.Cartridge
	memory [0x10000]byte

	timer  Timer
	dma    DMA
	serial Serial
}

// New returns a Bus with no cartridge loaded (reads from ROM space return
// 0xFF, as on real hardware with an empty cartridge slot).
func New() *Bus {
	b := &Bus{cart: cart.New()}
	b.timer.requestInterrupt = func() { b.RequestInterrupt(addr.Timer) }
	b.serial.requestInterrupt = func() { b.RequestInterrupt(addr.Serial) }
	b.dma.bus = b
	return b
}

// NewWithCartridge returns a Bus with c mapped into ROM space.
func NewWithCartridge(c *cart.Cartridge) *Bus {
	b := New()
	b.cart = c
	return b
}

// Cartridge returns the currently loaded cartridge (never nil).
func (b *Bus) Cartridge() *cart.Cartridge { return b.cart }

// LoadCartridge swaps in a new cartridge and resets bus-owned state, as if
// the console had been power-cycled with a new cartridge inserted.
func (b *Bus) LoadCartridge(c *cart.Cartridge) {
	b.cart = c
	b.Reset()
}

// Reset clears VRAM-onward to zero and reloads the canonical post-boot I/O
// register values (ROM space, owned by the cartridge, is untouched).
func (b *Bus) Reset() {
	for i := addr.VRAMBegin; i < 0xFFFF; i++ {
		b.memory[i] = 0
	}
	b.memory[0xFFFF] = 0
	b.timer.reset()
	b.dma.reset()
	b.serial.reset()

	for a, v := range postBootIO {
		b.memory[a] = v
	}
}

// Tick advances the timer and DMA engine by the given number of M-cycles,
// executed after each CPU step. The serial stub is not ticked: it acts on
// the SC write itself.
func (b *Bus) Tick(mCycles int) {
	b.timer.tick(mCycles * 4)
	b.dma.tick(mCycles)
}

// Read returns the byte at address a.
func (b *Bus) Read(a uint16) byte {
	switch {
	case a <= addr.ROMBankNEnd:
		return b.cart.Read(a)
	case a >= addr.ExtRAMBegin && a <= addr.ExtRAMEnd:
		if b.cart.Header.RAMSize == 0 {
			slog.Warn("read from external RAM with no cartridge RAM", "addr", a)
		}
		return b.memory[a]
	case a >= addr.EchoBegin && a <= addr.EchoEnd:
		return b.memory[a-0x2000]
	case a == addr.DIV, a == addr.TIMA, a == addr.TMA, a == addr.TAC:
		return b.timer.read(a)
	case a == addr.SB, a == addr.SC:
		return b.serial.read(a)
	case a == addr.IF:
		// Hardware always reads the unused upper 3 bits of IF as 1.
		return b.memory[a] | 0xE0
	default:
		return b.memory[a]
	}
}

// Read16 reads a little-endian word at a, a+1.
func (b *Bus) Read16(a uint16) uint16 {
	return bit.Combine(b.Read(a+1), b.Read(a))
}

// Write stores v at address a, performing any side effect the address
// carries first. Writes to ROM space (a <= 0x7FFF) are silently discarded.
func (b *Bus) Write(a uint16, v byte) {
	if a <= addr.ROMBankNEnd {
		return
	}

	switch {
	case a >= addr.ExtRAMBegin && a <= addr.ExtRAMEnd:
		if b.cart.Header.RAMSize == 0 {
			slog.Warn("write to external RAM with no cartridge RAM", "addr", a, "value", v)
		}
		b.memory[a] = v
	case a >= addr.EchoBegin && a <= addr.EchoEnd:
		b.memory[a-0x2000] = v
	case a == addr.DIV:
		b.timer.resetDivider()
		b.memory[a] = 0
	case a == addr.TIMA, a == addr.TMA, a == addr.TAC:
		b.timer.write(a, v)
	case a == addr.SB, a == addr.SC:
		b.serial.write(a, v)
	case a == addr.DMA:
		b.memory[a] = v
		b.dma.start(v)
	case a == addr.IF:
		b.memory[a] = v | 0xE0
	default:
		b.memory[a] = v
	}
}

// Write16 writes v as two bytes at a, a+1 (low byte first).
func (b *Bus) Write16(a uint16, v uint16) {
	b.Write(a, bit.Low(v))
	b.Write(a+1, bit.High(v))
}

// RequestInterrupt sets the IF bit for interrupt i.
func (b *Bus) RequestInterrupt(i addr.Interrupt) {
	flags := b.Read(addr.IF)
	b.Write(addr.IF, bit.Set(i.Bit(), flags))
}

// SerialLog returns the bytes the serial stub has observed so far (see
// Serial.write's handling of SC == 0x81).
func (b *Bus) SerialLog() []byte {
	return b.serial.log
}

// postBootIO is the canonical set of DMG I/O register values immediately
// after the boot ROM hands control to the cartridge.
var postBootIO = map[uint16]byte{
	0xFF00: 0xCF, 0xFF01: 0x00, 0xFF02: 0x7E,
	0xFF04: 0xAB, 0xFF05: 0x00, 0xFF06: 0x00, 0xFF07: 0xF8,
	0xFF0F: 0xE1,
	0xFF10: 0x80, 0xFF11: 0xBF, 0xFF12: 0xF3, 0xFF13: 0xFF, 0xFF14: 0xBF,
	0xFF16: 0x3F, 0xFF17: 0x00, 0xFF18: 0xFF, 0xFF19: 0xBF,
	0xFF1A: 0x7F, 0xFF1B: 0xFF, 0xFF1C: 0x9F, 0xFF1D: 0xFF, 0xFF1E: 0xBF,
	0xFF20: 0xFF, 0xFF21: 0x00, 0xFF22: 0x00, 0xFF23: 0xBF,
	0xFF24: 0x77, 0xFF25: 0xF3, 0xFF26: 0xF1,
	0xFF40: 0x91, 0xFF41: 0x85, 0xFF42: 0x00, 0xFF43: 0x00, 0xFF44: 0x00, 0xFF45: 0x00,
	0xFF46: 0xFF, 0xFF47: 0xFC, 0xFF48: 0x00, 0xFF49: 0x00, 0xFF4A: 0x00, 0xFF4B: 0x00,
	0xFF4D: 0xFF, 0xFF4F: 0xFF,
	0xFF51: 0xFF, 0xFF52: 0xFF, 0xFF53: 0xFF, 0xFF54: 0xFF, 0xFF55: 0xFF, 0xFF56: 0xFF,
	0xFF68: 0xFF, 0xFF69: 0xFF, 0xFF6A: 0xFF, 0xFF6B: 0xFF,
	0xFF70: 0xFF,
	0xFFFF: 0x00,
}
