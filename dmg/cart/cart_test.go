package cart

import (
	"testing"

	"github.com/aldenmoore/dmgcore/dmg/addr"
	"github.com/stretchr/testify/assert"
)

func romWithTitle(title string) []byte {
	data := make([]byte, 0x8000)
	copy(data[addr.HeaderTitle:], title)
	return data
}

func TestParseHeaderTitleStopsAtNonUppercase(t *testing.T) {
	c := FromBytes(romWithTitle("TETRIS\x00\x00"))
	assert.Equal(t, "TETRIS", c.Header.Title)
}

func TestParseHeaderTitleTruncatesAtSixteenBytes(t *testing.T) {
	c := FromBytes(romWithTitle("ABCDEFGHIJKLMNOPQRSTUVWXYZ"))
	assert.Len(t, c.Header.Title, addr.HeaderTitleLength)
}

func TestParseHeaderRejectsNonCGBFlagValues(t *testing.T) {
	data := romWithTitle("GAME")
	data[addr.HeaderCGBFlag] = 0x12
	c := FromBytes(data)
	assert.Equal(t, uint8(0), c.Header.CGBFlag)
}

func TestReadBeyondDataWrapsModuloLength(t *testing.T) {
	c := FromBytes(make([]byte, 0x100))
	c.Data[0x10] = 0x77
	assert.Equal(t, byte(0x77), c.Read(0x110))
}

func TestWriteIsDiscarded(t *testing.T) {
	c := FromBytes(make([]byte, 0x8000))
	c.Write(0x0100, 0xAB)
	assert.Equal(t, byte(0), c.Read(0x0100))
}

func TestEmptyCartridgeReadsFF(t *testing.T) {
	c := &Cartridge{}
	assert.Equal(t, byte(0xFF), c.Read(0x0100))
}
