package mapper

import (
	"github.com/doinkythederp/tetanes/cartridge"
	"github.com/doinkythederp/tetanes/state"
)

// UxROM (mapper 002): 16KiB switchable PRG bank at $8000-$BFFF, 16KiB
// fixed to the last bank at $C000-$FFFF. CHR is an unbanked 8KiB region:
// RAM when the cartridge has no CHR ROM, otherwise ROM.
type uxrom struct {
	staticMirroring
	noIRQ
	cart    *cartridge.Cartridge
	prgBank uint8
}

func newUxROM(cart *cartridge.Cartridge) *uxrom {
	return &uxrom{staticMirroring: staticMirroring{cart}, cart: cart}
}

func (m *uxrom) Reset() { m.prgBank = 0 }

func (m *uxrom) lastBankOffset() int {
	banks := len(m.cart.PrgRom) / 0x4000
	return (banks - 1) * 0x4000
}

func (m *uxrom) CPURead(addr uint16) uint8 {
	if ok, idx := prgRamWindow(m.cart, addr); ok {
		return m.cart.PrgRam[idx]
	}
	if addr < 0x8000 {
		return 0
	}
	if addr < 0xC000 {
		bank := int(m.prgBank) % (len(m.cart.PrgRom) / 0x4000)
		return m.cart.PrgRom[bank*0x4000+int(addr-0x8000)]
	}
	return m.cart.PrgRom[m.lastBankOffset()+int(addr-0xC000)]
}

func (m *uxrom) CPUWrite(addr uint16, val uint8) {
	if ok, idx := prgRamWindow(m.cart, addr); ok {
		m.cart.PrgRam[idx] = val
		return
	}
	if addr >= 0x8000 {
		m.prgBank = val
	}
}

func (m *uxrom) PPURead(addr uint16) uint8 {
	if m.cart.UsesChrRam() {
		return m.cart.ChrRam[addr%uint16(len(m.cart.ChrRam))]
	}
	return m.cart.ChrRom[addr%uint16(len(m.cart.ChrRom))]
}

func (m *uxrom) PPUWrite(addr uint16, val uint8) {
	if m.cart.UsesChrRam() {
		m.cart.ChrRam[addr%uint16(len(m.cart.ChrRam))] = val
	}
}

func (m *uxrom) Snapshot(e *state.Encoder) error {
	return e.Encode(m.prgBank, m.cart)
}
func (m *uxrom) Restore(d *state.Decoder) error {
	return d.Decode(&m.prgBank, m.cart)
}
