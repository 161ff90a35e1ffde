package mapper

import (
	"github.com/doinkythederp/tetanes/cartridge"
	"github.com/doinkythederp/tetanes/state"
)

// CNROM (mapper 003): fixed PRG (16 or 32KiB, mirrored as NROM), switchable
// 8KiB CHR ROM bank. Some boards only decode the low 2 bits of the bank
// register ("bus conflict" games); we decode the full byte, which is
// correct for the common case and documented as a simplification.
type cnrom struct {
	staticMirroring
	noIRQ
	cart    *cartridge.Cartridge
	chrBank uint8
}

func newCNROM(cart *cartridge.Cartridge) *cnrom {
	return &cnrom{staticMirroring: staticMirroring{cart}, cart: cart}
}

func (m *cnrom) Reset() { m.chrBank = 0 }

func (m *cnrom) CPURead(addr uint16) uint8 {
	if ok, idx := prgRamWindow(m.cart, addr); ok {
		return m.cart.PrgRam[idx]
	}
	return m.cart.PrgRom[int(addr-0x8000)%len(m.cart.PrgRom)]
}

func (m *cnrom) CPUWrite(addr uint16, val uint8) {
	if ok, idx := prgRamWindow(m.cart, addr); ok {
		m.cart.PrgRam[idx] = val
		return
	}
	if addr >= 0x8000 {
		m.chrBank = val
	}
}

func (m *cnrom) chrBanks() int {
	if m.cart.UsesChrRam() {
		return len(m.cart.ChrRam) / 0x2000
	}
	return len(m.cart.ChrRom) / 0x2000
}

func (m *cnrom) PPURead(addr uint16) uint8 {
	bank := int(m.chrBank) % max1(m.chrBanks())
	off := bank*0x2000 + int(addr)
	if m.cart.UsesChrRam() {
		return m.cart.ChrRam[off%len(m.cart.ChrRam)]
	}
	return m.cart.ChrRom[off%len(m.cart.ChrRom)]
}

func (m *cnrom) PPUWrite(addr uint16, val uint8) {
	if !m.cart.UsesChrRam() {
		return
	}
	bank := int(m.chrBank) % max1(m.chrBanks())
	off := bank*0x2000 + int(addr)
	m.cart.ChrRam[off%len(m.cart.ChrRam)] = val
}

func (m *cnrom) Snapshot(e *state.Encoder) error {
	return e.Encode(m.chrBank, m.cart)
}
func (m *cnrom) Restore(d *state.Decoder) error {
	return d.Decode(&m.chrBank, m.cart)
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
