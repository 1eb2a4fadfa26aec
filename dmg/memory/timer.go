package memory

import (
	"github.com/aldenmoore/dmgcore/dmg/addr"
	"github.com/aldenmoore/dmgcore/dmg/bit"
)

// timerFrequencyBit maps a TAC clock-select value (bits 0-1) to the bit of
// the internal 16-bit divider whose falling edge increments TIMA.
var timerFrequencyBit = [4]uint8{9, 3, 5, 7}

// Timer models DIV/TIMA/TMA/TAC. It runs off a free-running 16-bit counter
// (divider); DIV is just the counter's high byte, and TIMA increments on a
// falling edge of one bit of the counter selected by TAC, matching the
// quirky real hardware behavior (writing DIV, or changing TAC's selected
// bit mid-count, can cause a spurious extra increment).
type Timer struct {
	divider uint16
	tima    uint8
	tma     uint8
	tac     uint8

	requestInterrupt func()
}

func (t *Timer) reset() {
	t.divider = 0xABCC
	t.tima = 0
	t.tma = 0
	t.tac = 0xF8
}

func (t *Timer) read(a uint16) byte {
	switch a {
	case addr.DIV:
		return bit.High(t.divider)
	case addr.TIMA:
		return t.tima
	case addr.TMA:
		return t.tma
	case addr.TAC:
		return t.tac | 0xF8
	default:
		return 0xFF
	}
}

func (t *Timer) write(a uint16, v byte) {
	switch a {
	case addr.TIMA:
		t.tima = v
	case addr.TMA:
		t.tma = v
	case addr.TAC:
		before := t.enabledBit()
		t.tac = v
		t.checkFallingEdge(before)
	}
}

// resetDivider implements the DIV-write behavior: any write to DIV resets
// the whole internal counter to zero, which can itself trigger a falling
// edge on the bit TAC is currently watching.
func (t *Timer) resetDivider() {
	before := t.enabledBit()
	t.divider = 0
	if before {
		t.incrementTIMA()
	}
}

// enabledBit reports the current value of the divider bit TAC is watching,
// or false if the timer is disabled (TAC bit 2 clear).
func (t *Timer) enabledBit() bool {
	if !bit.IsSet(2, t.tac) {
		return false
	}
	return bit.IsSet16(timerFrequencyBit[t.tac&0x3], t.divider)
}

func (t *Timer) checkFallingEdge(before bool) {
	if before && !t.enabledBit() {
		t.incrementTIMA()
	}
}

func (t *Timer) incrementTIMA() {
	if t.tima == 0xFF {
		t.tima = t.tma
		if t.requestInterrupt != nil {
			t.requestInterrupt()
		}
		return
	}
	t.tima++
}

// tick advances the divider by the given number of T-cycles, checking for a
// falling edge on the watched bit at every step.
func (t *Timer) tick(tCycles int) {
	for i := 0; i < tCycles; i++ {
		before := t.enabledBit()
		t.divider++
		t.checkFallingEdge(before)
	}
}
