package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeBus struct {
	mem [0x10000]byte
}

func (b *fakeBus) Read(a uint16) byte { return b.mem[a] }

func TestDecodeTileReadsSixteenBytes(t *testing.T) {
	b := &fakeBus{}
	b.mem[0x8000] = 0x3C
	b.mem[0x8001] = 0x7E
	p := New(b)
	tile := p.DecodeTile(0)
	assert.Equal(t, 3, tile.Pixel(2, 0))
}

func TestDecodeTileIndexOffsetsByTileSize(t *testing.T) {
	b := &fakeBus{}
	b.mem[0x8010] = 0xFF
	b.mem[0x8011] = 0xFF
	p := New(b)
	tile := p.DecodeTile(1)
	assert.Equal(t, 3, tile.Pixel(0, 0))
}

func TestSpriteDecodesOAMEntry(t *testing.T) {
	b := &fakeBus{}
	b.mem[0xFE00] = 16
	b.mem[0xFE01] = 8
	b.mem[0xFE02] = 5
	b.mem[0xFE03] = 0x90 // BehindBG | PaletteOBP1
	p := New(b)

	s := p.Sprite(0)
	assert.Equal(t, uint8(16), s.Y)
	assert.Equal(t, uint8(5), s.TileIndex)
	assert.True(t, s.BehindBG())
	assert.True(t, s.PaletteOBP1())
	assert.False(t, s.FlipX())
}
