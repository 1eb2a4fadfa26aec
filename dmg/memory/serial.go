package memory

import (
	"github.com/aldenmoore/dmgcore/dmg/addr"
)

// Serial is a minimal stand-in for the link cable: no actual transfer ever
// completes (there is nothing on the other end), but a write of SC == 0x81
// is treated as "transfer complete" so that test ROMs that blit their
// result to the serial port can be observed. The transferred byte is
// appended to log, SC is cleared to zero, and the serial interrupt is
// requested.
type Serial struct {
	sb  byte
	sc  byte
	log []byte

	requestInterrupt func()
}

func (s *Serial) reset() {
	s.sb = 0
	s.sc = 0x7E
	s.log = s.log[:0]
}

func (s *Serial) read(a uint16) byte {
	switch a {
	case addr.SB:
		return s.sb
	case addr.SC:
		return s.sc
	default:
		return 0xFF
	}
}

func (s *Serial) write(a uint16, v byte) {
	switch a {
	case addr.SB:
		s.sb = v
	case addr.SC:
		s.sc = v
		if v == 0x81 {
			s.log = append(s.log, s.sb)
			s.sc = 0
			if s.requestInterrupt != nil {
				s.requestInterrupt()
			}
		}
	}
}
