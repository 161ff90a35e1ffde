package mapper

import (
	"github.com/doinkythederp/tetanes/cartridge"
	"github.com/doinkythederp/tetanes/state"
)

// GxROM (mapper 066): one register at $8000-$FFFF, bits 4-5 select a
// 32KiB PRG bank, bits 0-1 select an 8KiB CHR bank.
type gxrom struct {
	staticMirroring
	noIRQ
	cart    *cartridge.Cartridge
	prgBank uint8
	chrBank uint8
}

func newGxROM(cart *cartridge.Cartridge) *gxrom {
	return &gxrom{staticMirroring: staticMirroring{cart}, cart: cart}
}

func (m *gxrom) Reset() { m.prgBank, m.chrBank = 0, 0 }

func (m *gxrom) CPURead(addr uint16) uint8 {
	if addr < 0x8000 {
		return 0
	}
	bank := int(m.prgBank) % max1(len(m.cart.PrgRom)/0x8000)
	return m.cart.PrgRom[bank*0x8000+int(addr-0x8000)]
}

func (m *gxrom) CPUWrite(addr uint16, val uint8) {
	if addr < 0x8000 {
		return
	}
	m.prgBank = (val >> 4) & 0x03
	m.chrBank = val & 0x03
}

func (m *gxrom) PPURead(addr uint16) uint8 {
	bank := int(m.chrBank) % max1(len(m.cart.ChrRom)/0x2000)
	return m.cart.ChrRom[bank*0x2000+int(addr)]
}

func (m *gxrom) PPUWrite(addr uint16, val uint8) {}

func (m *gxrom) Snapshot(e *state.Encoder) error {
	return e.Encode(m.prgBank, m.chrBank)
}
func (m *gxrom) Restore(d *state.Decoder) error {
	return d.Decode(&m.prgBank, &m.chrBank)
}
