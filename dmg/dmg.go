// Package dmg assembles the CPU, memory bus, timer, DMA engine and PPU
// into a single steppable DMG core.
package dmg

import (
	"fmt"
	"log/slog"

	"github.com/aldenmoore/dmgcore/dmg/cart"
	"github.com/aldenmoore/dmgcore/dmg/cpu"
	"github.com/aldenmoore/dmgcore/dmg/memory"
	"github.com/aldenmoore/dmgcore/dmg/video"
)

// Machine is a complete, runnable DMG core: one CPU, one 64 KiB bus, and
// the timer/DMA/PPU peripherals wired to it.
type Machine struct {
	Bus *memory.Bus
	CPU *cpu.CPU
	PPU *video.PPU
}

// New returns a Machine with no cartridge loaded. Call LoadROM before
// Step.
func New() *Machine {
	bus := memory.New()
	m := &Machine{
		Bus: bus,
		CPU: cpu.New(bus),
		PPU: video.New(bus),
	}
	m.CPU.Reset(bus.Cartridge().Header)
	return m
}

// LoadROM reads a ROM image from path, maps it into the bus, and resets
// the machine to the canonical post-boot-ROM state. It reports whether a
// cartridge is now loaded; false with a non-nil error means the previous
// cartridge (if any) is left in place.
func (m *Machine) LoadROM(path string) (bool, error) {
	c, err := cart.Load(path)
	if err != nil {
		return false, fmt.Errorf("dmg: load ROM: %w", err)
	}
	m.Bus.LoadCartridge(c)
	m.CPU.Reset(c.Header)
	slog.Info("loaded cartridge", "title", c.Header.Title, "type", c.Header.Type)
	return true, nil
}

// Reset reinitializes the CPU and bus-owned peripherals to the canonical
// post-boot-ROM state, keeping the currently loaded cartridge.
func (m *Machine) Reset() {
	m.Bus.Reset()
	m.CPU.Reset(m.Bus.Cartridge().Header)
}

// Step executes exactly one CPU instruction (or, if halted, one idle
// M-cycle, or an interrupt dispatch), then advances the timer and DMA engine
// by the same number of M-cycles. It returns the number of M-cycles
// consumed.
func (m *Machine) Step() int {
	cycles := m.CPU.Step()
	m.Bus.Tick(cycles)
	return cycles
}

// SerialLog returns the bytes written out over the (stubbed) serial port
// so far, used by test ROMs that report their result over the link cable.
func (m *Machine) SerialLog() []byte {
	return m.Bus.SerialLog()
}

// Cycles returns the running total of M-cycles executed since the last
// Reset.
func (m *Machine) Cycles() uint64 {
	return m.CPU.Cycles()
}
