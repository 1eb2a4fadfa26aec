// Package cart loads a raw Game Boy ROM image and extracts the handful of
// header fields the core needs at reset time.
package cart

import (
	"fmt"
	"os"
	"strings"

	"github.com/aldenmoore/dmgcore/dmg/addr"
)

// Header holds the cartridge header fields consulted by the CPU at reset
// and surfaced to an embedder for display.
type Header struct {
	Title    string
	CGBFlag  uint8
	SGBFlag  uint8
	Type     uint8
	ROMSize  uint8
	RAMSize  uint8
	Checksum uint8
}

// Cartridge owns the raw ROM image plus its parsed header. For the scope of
// this core only the "ROM only" case (no bank switching) is modeled
// faithfully: Read/Write just index into Data directly. Larger ROMs load
// (Data holds every byte from the file) but addresses beyond bank 0/1 are
// not banked in this core.
type Cartridge struct {
	Data   []byte
	Header Header
}

// New returns an empty cartridge, useful for tests and for constructing a
// machine before any ROM is loaded.
func New() *Cartridge {
	return &Cartridge{}
}

// Load reads path into a new Cartridge and parses its header.
func Load(path string) (*Cartridge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cart: load %s: %w", path, err)
	}
	return FromBytes(data), nil
}

// FromBytes builds a Cartridge directly from an in-memory ROM image, used by
// tests that construct a program without touching the filesystem.
func FromBytes(data []byte) *Cartridge {
	c := &Cartridge{Data: data}
	c.Header = parseHeader(data)
	return c
}

func parseHeader(data []byte) Header {
	var h Header
	h.Title = readTitle(data)

	h.CGBFlag = byteAt(data, addr.HeaderCGBFlag)
	if h.CGBFlag != 0x80 && h.CGBFlag != 0xC0 {
		h.CGBFlag = 0
	}
	h.SGBFlag = byteAt(data, addr.HeaderSGBFlag)
	h.Type = byteAt(data, addr.HeaderType)
	h.ROMSize = byteAt(data, addr.HeaderROMSize)
	h.RAMSize = byteAt(data, addr.HeaderRAMSize)
	h.Checksum = byteAt(data, addr.HeaderChecksum)
	return h
}

// readTitle reads the 16-byte ASCII title field, truncating at the first
// byte that isn't an uppercase letter (matches the original loader, which
// stops copying as soon as a non-[A-Z] byte is seen).
func readTitle(data []byte) string {
	var b strings.Builder
	for i := 0; i < addr.HeaderTitleLength; i++ {
		c := byteAt(data, addr.HeaderTitle+uint16(i))
		if c < 'A' || c > 'Z' {
			break
		}
		b.WriteByte(c)
	}
	return b.String()
}

func byteAt(data []byte, a uint16) byte {
	if int(a) >= len(data) {
		return 0
	}
	return data[a]
}

// Read returns the byte at addr, bank-switching not implemented: addresses
// within the loaded data are read directly, and addresses beyond a short
// image wrap modulo the image size. A banked ROM still loads, but only its
// first 32 KiB (banks 0 and 1) are reachable.
func (c *Cartridge) Read(a uint16) byte {
	if len(c.Data) == 0 {
		return 0xFF
	}
	if int(a) < len(c.Data) {
		return c.Data[a]
	}
	return c.Data[int(a)%len(c.Data)]
}

// Write discards writes to ROM space; only a future MBC extension would
// route these to bank-select registers.
func (c *Cartridge) Write(a uint16, v byte) {}
