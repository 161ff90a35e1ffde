package mapper

import (
	"github.com/doinkythederp/tetanes/cartridge"
	"github.com/doinkythederp/tetanes/state"
)

// AxROM (mapper 007): 32KiB switchable PRG bank over the whole $8000-$FFFF
// window, mapper-controlled single-screen mirroring, CHR RAM only.
//
// Bank register ($8000-$FFFF write), D0-D2 select the PRG bank, D4 selects
// which 1KiB CIRAM page single-screen mirroring uses.
type axrom struct {
	noIRQ
	cart      *cartridge.Cartridge
	prgBank   uint8
	mirrorSel cartridge.Mirroring
}

func newAxROM(cart *cartridge.Cartridge) *axrom {
	return &axrom{cart: cart, mirrorSel: cartridge.SingleScreenA}
}

func (m *axrom) Reset() { m.prgBank, m.mirrorSel = 0, cartridge.SingleScreenA }

func (m *axrom) Mirroring() cartridge.Mirroring { return m.mirrorSel }

func (m *axrom) CPURead(addr uint16) uint8 {
	if addr < 0x8000 {
		return 0
	}
	bank := int(m.prgBank) % max1(len(m.cart.PrgRom)/0x8000)
	return m.cart.PrgRom[bank*0x8000+int(addr-0x8000)]
}

func (m *axrom) CPUWrite(addr uint16, val uint8) {
	if addr < 0x8000 {
		return
	}
	m.prgBank = val & 0x07
	if val&0x10 != 0 {
		m.mirrorSel = cartridge.SingleScreenB
	} else {
		m.mirrorSel = cartridge.SingleScreenA
	}
}

func (m *axrom) PPURead(addr uint16) uint8  { return m.cart.ChrRam[addr%uint16(len(m.cart.ChrRam))] }
func (m *axrom) PPUWrite(addr uint16, val uint8) {
	m.cart.ChrRam[addr%uint16(len(m.cart.ChrRam))] = val
}

func (m *axrom) Snapshot(e *state.Encoder) error {
	return e.Encode(m.prgBank, m.mirrorSel, m.cart)
}
func (m *axrom) Restore(d *state.Decoder) error {
	return d.Decode(&m.prgBank, &m.mirrorSel, m.cart)
}
