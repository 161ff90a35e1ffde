package mapper

import (
	"github.com/doinkythederp/tetanes/cartridge"
	"github.com/doinkythederp/tetanes/state"
)

func (l *latchedChr) Snapshot(e *state.Encoder) error {
	return e.Encode(l.latch, l.chrBankD, l.chrBankE)
}
func (l *latchedChr) Restore(d *state.Decoder) error {
	return d.Decode(&l.latch, &l.chrBankD, &l.chrBankE)
}

// latchedChr is the CHR-bank-selected-by-last-tile-fetched logic shared by
// MMC2 (mapper 009) and MMC4 (mapper 010): reading pattern-table byte
// $xFD8-$xFDF latches that half to bank "D", $xFE8-$xFEF latches bank "E".
type latchedChr struct {
	latch    [2]uint8 // 0xFD or 0xFE, per half (low/high)
	chrBankD [2]uint8
	chrBankE [2]uint8
}

func (l *latchedChr) reset() {
	l.latch[0], l.latch[1] = 0xFD, 0xFD
}

func (l *latchedChr) read(cart *cartridge.Cartridge, addr uint16) uint8 {
	half := 0
	a := addr
	if addr >= 0x1000 {
		half = 1
		a = addr - 0x1000
	}
	bank := l.chrBankD[half]
	if l.latch[half] == 0xFE {
		bank = l.chrBankE[half]
	}
	off := int(bank)*0x1000 + int(a)
	l.snoop(addr, half)
	return cart.ChrRom[off%len(cart.ChrRom)]
}

// snoop updates the latch per the fetch address, exactly the way real
// hardware does: it's a side effect of the PPU reading pattern data, not
// a separate bus operation.
func (l *latchedChr) snoop(addr uint16, half int) {
	switch {
	case addr&0x1FF8 == 0x0FD8 && half == 0, addr&0x1FF8 == 0x1FD8 && half == 1:
		l.latch[half] = 0xFD
	case addr&0x1FF8 == 0x0FE8 && half == 0, addr&0x1FF8 == 0x1FE8 && half == 1:
		l.latch[half] = 0xFE
	}
}

// mmc2 implements mapper 009: 8KiB switchable PRG bank at $8000-$9FFF,
// three 8KiB banks fixed to the top of PRG ROM at $A000-$FFFF.
type mmc2 struct {
	noIRQ
	cart      *cartridge.Cartridge
	prgBank   uint8
	chr       latchedChr
	mirrorSel cartridge.Mirroring
}

func newMMC2(cart *cartridge.Cartridge) *mmc2 {
	m := &mmc2{cart: cart, mirrorSel: cartridge.Vertical}
	m.chr.reset()
	return m
}

func (m *mmc2) Reset() { m.prgBank = 0; m.chr.reset() }

func (m *mmc2) Mirroring() cartridge.Mirroring { return m.mirrorSel }

func (m *mmc2) CPURead(addr uint16) uint8 {
	if ok, idx := prgRamWindow(m.cart, addr); ok {
		return m.cart.PrgRam[idx]
	}
	switch {
	case addr < 0x8000:
		return 0
	case addr < 0xA000:
		bank := int(m.prgBank) % max1(len(m.cart.PrgRom)/0x2000)
		return m.cart.PrgRom[bank*0x2000+int(addr-0x8000)]
	default:
		off := len(m.cart.PrgRom) - 0x2000*3 + int(addr-0xA000)
		return m.cart.PrgRom[off]
	}
}

func (m *mmc2) CPUWrite(addr uint16, val uint8) {
	if ok, idx := prgRamWindow(m.cart, addr); ok {
		m.cart.PrgRam[idx] = val
		return
	}
	switch {
	case addr >= 0xA000 && addr < 0xB000:
		m.prgBank = val & 0x0F
	case addr >= 0xB000 && addr < 0xC000:
		m.chr.chrBankD[0] = val & 0x1F
	case addr >= 0xC000 && addr < 0xD000:
		m.chr.chrBankE[0] = val & 0x1F
	case addr >= 0xD000 && addr < 0xE000:
		m.chr.chrBankD[1] = val & 0x1F
	case addr >= 0xE000 && addr < 0xF000:
		m.chr.chrBankE[1] = val & 0x1F
	case addr >= 0xF000:
		if val&1 != 0 {
			m.mirrorSel = cartridge.Horizontal
		} else {
			m.mirrorSel = cartridge.Vertical
		}
	}
}

func (m *mmc2) PPURead(addr uint16) uint8      { return m.chr.read(m.cart, addr) }
func (m *mmc2) PPUWrite(addr uint16, val uint8) {}

func (m *mmc2) Snapshot(e *state.Encoder) error {
	return e.Encode(m.prgBank, &m.chr, m.mirrorSel, m.cart)
}
func (m *mmc2) Restore(d *state.Decoder) error {
	return d.Decode(&m.prgBank, &m.chr, &m.mirrorSel, m.cart)
}

// mmc4 implements mapper 010: same latched-CHR trick as MMC2, but a
// 16KiB switchable PRG bank at $8000-$BFFF with the last 16KiB fixed at
// $C000-$FFFF, plus battery PRG-RAM (used by Fire Emblem / Famicom Wars).
type mmc4 struct {
	noIRQ
	cart      *cartridge.Cartridge
	prgBank   uint8
	chr       latchedChr
	mirrorSel cartridge.Mirroring
}

func newMMC4(cart *cartridge.Cartridge) *mmc4 {
	m := &mmc4{cart: cart, mirrorSel: cartridge.Vertical}
	m.chr.reset()
	return m
}

func (m *mmc4) Reset() { m.prgBank = 0; m.chr.reset() }

func (m *mmc4) Mirroring() cartridge.Mirroring { return m.mirrorSel }

func (m *mmc4) CPURead(addr uint16) uint8 {
	if ok, idx := prgRamWindow(m.cart, addr); ok {
		return m.cart.PrgRam[idx]
	}
	switch {
	case addr < 0x8000:
		return 0
	case addr < 0xC000:
		bank := int(m.prgBank) % max1(len(m.cart.PrgRom)/0x4000)
		return m.cart.PrgRom[bank*0x4000+int(addr-0x8000)]
	default:
		off := len(m.cart.PrgRom) - 0x4000 + int(addr-0xC000)
		return m.cart.PrgRom[off]
	}
}

func (m *mmc4) CPUWrite(addr uint16, val uint8) {
	if ok, idx := prgRamWindow(m.cart, addr); ok {
		m.cart.PrgRam[idx] = val
		return
	}
	switch {
	case addr >= 0xA000 && addr < 0xB000:
		m.prgBank = val & 0x0F
	case addr >= 0xB000 && addr < 0xC000:
		m.chr.chrBankD[0] = val & 0x1F
	case addr >= 0xC000 && addr < 0xD000:
		m.chr.chrBankE[0] = val & 0x1F
	case addr >= 0xD000 && addr < 0xE000:
		m.chr.chrBankD[1] = val & 0x1F
	case addr >= 0xE000 && addr < 0xF000:
		m.chr.chrBankE[1] = val & 0x1F
	case addr >= 0xF000:
		if val&1 != 0 {
			m.mirrorSel = cartridge.Horizontal
		} else {
			m.mirrorSel = cartridge.Vertical
		}
	}
}

func (m *mmc4) PPURead(addr uint16) uint8      { return m.chr.read(m.cart, addr) }
func (m *mmc4) PPUWrite(addr uint16, val uint8) {}

func (m *mmc4) Snapshot(e *state.Encoder) error {
	return e.Encode(m.prgBank, &m.chr, m.mirrorSel, m.cart)
}
func (m *mmc4) Restore(d *state.Decoder) error {
	return d.Decode(&m.prgBank, &m.chr, &m.mirrorSel, m.cart)
}
