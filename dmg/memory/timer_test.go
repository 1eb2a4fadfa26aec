package memory

import (
	"testing"

	"github.com/aldenmoore/dmgcore/dmg/addr"
	"github.com/stretchr/testify/assert"
)

func TestDividerIncrementsOnTick(t *testing.T) {
	b := New()
	before := b.Read(addr.DIV)
	b.timer.tick(256)
	assert.NotEqual(t, before, b.Read(addr.DIV))
}

func TestWritingDIVResetsDivider(t *testing.T) {
	b := New()
	b.timer.tick(1000)
	b.Write(addr.DIV, 0xFF)
	assert.Equal(t, byte(0), b.Read(addr.DIV))
}

func TestTIMAIncrementsAtSelectedFrequency(t *testing.T) {
	b := New()
	b.Write(addr.TAC, 0x05) // enabled, every 16 T-cycles (bit 3)
	b.Write(addr.TIMA, 0)

	b.timer.tick(16)
	assert.Equal(t, byte(1), b.Read(addr.TIMA))
}

func TestTIMAOverflowReloadsFromTMAAndRequestsInterrupt(t *testing.T) {
	b := New()
	b.Write(addr.TAC, 0x05)
	b.Write(addr.TMA, 0x10)
	b.Write(addr.TIMA, 0xFF)
	b.Write(addr.IF, 0x00)

	b.timer.tick(16)

	assert.Equal(t, byte(0x10), b.Read(addr.TIMA))
	assert.True(t, b.Read(addr.IF)&0x04 != 0)
}

func TestDisabledTimerDoesNotIncrementTIMA(t *testing.T) {
	b := New()
	b.Write(addr.TAC, 0x01) // clock select set, but enable bit (2) clear
	b.Write(addr.TIMA, 0)

	b.timer.tick(1000)
	assert.Equal(t, byte(0), b.Read(addr.TIMA))
}
