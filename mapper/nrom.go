package mapper

import (
	"github.com/doinkythederp/tetanes/cartridge"
	"github.com/doinkythederp/tetanes/state"
)

// NROM (mapper 000): no bank switching. CPU $8000-$BFFF is the first 16KiB
// of PRG ROM; $C000-$FFFF is the last 16KiB (mirrors $8000-$BFFF when the
// cartridge only has one 16KiB bank).
type nrom struct {
	staticMirroring
	noIRQ
	cart *cartridge.Cartridge
}

func newNROM(cart *cartridge.Cartridge) *nrom {
	return &nrom{staticMirroring: staticMirroring{cart}, cart: cart}
}

func (m *nrom) Reset() {}

func (m *nrom) CPURead(addr uint16) uint8 {
	if ok, idx := prgRamWindow(m.cart, addr); ok {
		return m.cart.PrgRam[idx]
	}
	return m.cart.PrgRom[int(addr-0x8000)%len(m.cart.PrgRom)]
}

func (m *nrom) CPUWrite(addr uint16, val uint8) {
	if ok, idx := prgRamWindow(m.cart, addr); ok {
		m.cart.PrgRam[idx] = val
	}
}

func (m *nrom) PPURead(addr uint16) uint8 {
	if m.cart.UsesChrRam() {
		return m.cart.ChrRam[addr%uint16(len(m.cart.ChrRam))]
	}
	return m.cart.ChrRom[addr%uint16(len(m.cart.ChrRom))]
}

func (m *nrom) PPUWrite(addr uint16, val uint8) {
	if m.cart.UsesChrRam() {
		m.cart.ChrRam[addr%uint16(len(m.cart.ChrRam))] = val
	}
}

func (m *nrom) Snapshot(e *state.Encoder) error { return m.cart.Snapshot(e) }
func (m *nrom) Restore(d *state.Decoder) error  { return m.cart.Restore(d) }
