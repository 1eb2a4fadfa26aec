package cpu

import (
	"testing"

	"github.com/aldenmoore/dmgcore/dmg/cart"
	"github.com/stretchr/testify/assert"
)

// testBus is a flat 64 KiB array satisfying the Bus interface, enough for
// unit-testing the interpreter without pulling in the memory package.
type testBus struct {
	mem [0x10000]byte
}

func (b *testBus) Read(a uint16) byte  { return b.mem[a] }
func (b *testBus) Write(a uint16, v byte) { b.mem[a] = v }
func (b *testBus) Read16(a uint16) uint16 {
	return uint16(b.mem[a+1])<<8 | uint16(b.mem[a])
}
func (b *testBus) Write16(a uint16, v uint16) {
	b.mem[a] = uint8(v)
	b.mem[a+1] = uint8(v >> 8)
}

func newTestCPU() (*CPU, *testBus) {
	bus := &testBus{}
	c := New(bus)
	c.Reset(cart.Header{})
	return c, bus
}

func TestResetSeedsCanonicalPostBootState(t *testing.T) {
	c, _ := newTestCPU()
	assert.Equal(t, uint8(0x01), c.a)
	assert.Equal(t, uint16(0xFFFE), c.sp)
	assert.Equal(t, uint16(0x0100), c.pc)
	assert.Equal(t, uint8(0x13), c.c)
}

func TestNOPTakesOneCycleAndAdvancesPC(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0x0100] = 0x00
	cycles := c.Step()
	assert.Equal(t, 1, cycles)
	assert.Equal(t, uint16(0x0101), c.pc)
}

func TestLDBCd16LoadsImmediate(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0x0100] = 0x01
	bus.mem[0x0101] = 0x34
	bus.mem[0x0102] = 0x12
	c.Step()
	assert.Equal(t, uint16(0x1234), c.readReg16(RegBC))
}

func TestINCBSetsZeroAndHalfCarry(t *testing.T) {
	c, bus := newTestCPU()
	c.b = 0xFF
	bus.mem[0x0100] = 0x04 // INC B
	c.Step()
	assert.Equal(t, uint8(0), c.b)
	assert.True(t, c.getFlag(flagZ))
	assert.True(t, c.getFlag(flagH))
}

func TestJRRelativeNegativeOffset(t *testing.T) {
	c, bus := newTestCPU()
	c.pc = 0x0110
	bus.mem[0x0110] = 0x18 // JR r8
	bus.mem[0x0111] = 0xFE // -2
	c.Step()
	assert.Equal(t, uint16(0x0110), c.pc)
}

func TestCALLAndRETRoundTrip(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0x0100] = 0xCD // CALL a16
	bus.mem[0x0101] = 0x00
	bus.mem[0x0102] = 0x02
	bus.mem[0x0200] = 0xC9 // RET

	c.Step()
	assert.Equal(t, uint16(0x0200), c.pc)
	c.Step()
	assert.Equal(t, uint16(0x0103), c.pc)
}

func TestPushPopRoundTrip(t *testing.T) {
	c, bus := newTestCPU()
	c.setReg16(RegBC, 0xBEEF)
	bus.mem[0x0100] = 0xC5 // PUSH BC
	bus.mem[0x0101] = 0xD1 // POP DE
	c.Step()
	c.Step()
	assert.Equal(t, uint16(0xBEEF), c.readReg16(RegDE))
}

func TestEIDelaysEnablingIMEByOneInstruction(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0x0100] = 0xFB // EI
	bus.mem[0x0101] = 0x00 // NOP
	c.Step()
	assert.False(t, c.IME())
	c.Step()
	assert.True(t, c.IME())
}

func TestHaltWithIMEClearAndPendingInterruptTriggersHaltBugInstead(t *testing.T) {
	c, bus := newTestCPU()
	c.ime = false
	bus.mem[0xFFFF] = 0x01 // IE: vblank
	bus.mem[0xFF0F] = 0x01 // IF: vblank pending
	bus.mem[0x0100] = 0x76 // HALT
	c.Step()
	assert.False(t, c.halted)
	assert.True(t, c.haltBug)
}

func TestInterruptDispatchPushesPCAndJumpsToVector(t *testing.T) {
	c, bus := newTestCPU()
	c.ime = true
	c.pc = 0x0150
	bus.mem[0xFFFF] = 0x01
	bus.mem[0xFF0F] = 0x01

	cycles := c.Step()
	assert.Equal(t, 5, cycles)
	assert.Equal(t, uint16(0x0040), c.pc)
	assert.False(t, c.ime)
	ret := bus.Read16(c.sp)
	assert.Equal(t, uint16(0x0150), ret)
}

func TestCBPrefixSetsBit(t *testing.T) {
	c, bus := newTestCPU()
	c.b = 0x00
	bus.mem[0x0100] = 0xCB
	bus.mem[0x0101] = 0xC0 // SET 0,B
	c.Step()
	assert.Equal(t, uint8(0x01), c.b)
}

func TestDAAAfterBCDAddition(t *testing.T) {
	c, _ := newTestCPU()
	c.a = 0x45
	applyALU(c, 0, 0x38) // ADD A,0x38 -> 0x7D
	c.daa()
	assert.Equal(t, uint8(0x83), c.a)
}

func TestIllegalOpcodeLocksUpCPU(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0x0100] = 0xD3
	c.Step()
	assert.True(t, c.halted)
}
