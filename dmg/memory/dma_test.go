package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDMAHasStartupDelayBeforeFirstByte(t *testing.T) {
	b := New()
	b.memory[0xC000] = 0x99
	b.Write(0xFF46, 0xC0)

	b.Tick(1)
	assert.Equal(t, byte(0), b.Read(0xFE00), "no byte should copy during the startup delay")

	b.Tick(2)
	assert.Equal(t, byte(0x99), b.Read(0xFE00))
}

func TestDMARestartsOnRewrite(t *testing.T) {
	b := New()
	for i := 0; i < 160; i++ {
		b.memory[0xC000+i] = 1
		b.memory[0xD000+i] = 2
	}

	b.Write(0xFF46, 0xC0)
	b.Tick(50)
	assert.True(t, b.dma.Active())

	b.Write(0xFF46, 0xD0) // restart mid-transfer
	b.Tick(2)
	b.Tick(1)
	assert.Equal(t, byte(2), b.Read(0xFE00))
}

func TestDMATerminatesAfter160Bytes(t *testing.T) {
	b := New()
	b.Write(0xFF46, 0xC0)
	b.Tick(2 + 160 + 5)
	assert.False(t, b.dma.Active())
}
