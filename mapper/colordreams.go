package mapper

import (
	"github.com/doinkythederp/tetanes/cartridge"
	"github.com/doinkythederp/tetanes/state"
)

// Color Dreams (mapper 011): one register at $8000-$FFFF, low nibble
// selects a 32KiB PRG bank, high nibble selects an 8KiB CHR bank. No bus
// conflicts (unlike GNROM/mapper 066's close cousin).
type colorDreams struct {
	staticMirroring
	noIRQ
	cart    *cartridge.Cartridge
	prgBank uint8
	chrBank uint8
}

func newColorDreams(cart *cartridge.Cartridge) *colorDreams {
	return &colorDreams{staticMirroring: staticMirroring{cart}, cart: cart}
}

func (m *colorDreams) Reset() { m.prgBank, m.chrBank = 0, 0 }

func (m *colorDreams) CPURead(addr uint16) uint8 {
	if addr < 0x8000 {
		return 0
	}
	bank := int(m.prgBank) % max1(len(m.cart.PrgRom)/0x8000)
	return m.cart.PrgRom[bank*0x8000+int(addr-0x8000)]
}

func (m *colorDreams) CPUWrite(addr uint16, val uint8) {
	if addr < 0x8000 {
		return
	}
	m.prgBank = val & 0x0F
	m.chrBank = val >> 4
}

func (m *colorDreams) PPURead(addr uint16) uint8 {
	bank := int(m.chrBank) % max1(len(m.cart.ChrRom)/0x2000)
	return m.cart.ChrRom[bank*0x2000+int(addr)]
}

func (m *colorDreams) PPUWrite(addr uint16, val uint8) {}

func (m *colorDreams) Snapshot(e *state.Encoder) error {
	return e.Encode(m.prgBank, m.chrBank)
}
func (m *colorDreams) Restore(d *state.Decoder) error {
	return d.Decode(&m.prgBank, &m.chrBank)
}
