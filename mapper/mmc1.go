package mapper

import (
	"github.com/doinkythederp/tetanes/cartridge"
	"github.com/doinkythederp/tetanes/state"
)

// MMC1 (mapper 001). A 5-bit shift register loaded one bit at a time by
// consecutive $8000-$FFFF writes selects which of four internal registers
// (control, CHR0, CHR1, PRG) gets the shifted-in value. Real hardware
// ignores a write on the cycle right after another write (an internal
// counter driven off the CPU's R/W line); like the teacher, this
// implementation does not model that and shifts in every write.
type mmc1 struct {
	noIRQ
	cart *cartridge.Cartridge

	shift   uint8
	counter uint8

	control  uint8
	chrBank0 uint8
	chrBank1 uint8
	prgBank  uint8

	mirrorSel   cartridge.Mirroring
	prgBankMode uint8 // 0,1: 32K; 2: fixed first+switch $C000; 3: switch $8000+fixed last
	chrBankMode uint8 // 0: 8K; 1: two 4K

	prgOff [2]int
	chrOff [2]int
}

func newMMC1(cart *cartridge.Cartridge) *mmc1 {
	m := &mmc1{cart: cart, mirrorSel: cartridge.Vertical}
	m.write(0x8000, 0x1F)
	return m
}

func (m *mmc1) Reset() {
	m.shift, m.counter = 0, 0
	m.write(0x8000, 0x1F)
}

func (m *mmc1) Mirroring() cartridge.Mirroring { return m.mirrorSel }

func (m *mmc1) CPURead(addr uint16) uint8 {
	if ok, idx := prgRamWindow(m.cart, addr); ok {
		return m.cart.PrgRam[idx]
	}
	switch {
	case addr < 0x8000:
		return 0
	case addr < 0xC000:
		return m.cart.PrgRom[m.prgOff[0]+int(addr-0x8000)]
	default:
		return m.cart.PrgRom[m.prgOff[1]+int(addr-0xC000)]
	}
}

func (m *mmc1) CPUWrite(addr uint16, val uint8) {
	if ok, idx := prgRamWindow(m.cart, addr); ok {
		m.cart.PrgRam[idx] = val
		return
	}
	if addr >= 0x8000 {
		m.shiftWrite(addr, val)
	}
}

// shiftWrite feeds one bit into the 5-bit shift register. A write with
// bit 7 set resets the register and locks PRG to the last bank.
func (m *mmc1) shiftWrite(addr uint16, val uint8) {
	if val&0x80 != 0 {
		m.shift, m.counter = 0, 0
		m.write(0x8000, m.control|0x0C)
		return
	}
	m.shift |= (val & 1) << m.counter
	m.counter++
	if m.counter == 5 {
		m.write(addr, m.shift)
		m.shift, m.counter = 0, 0
	}
}

func (m *mmc1) write(addr uint16, val uint8) {
	switch {
	case addr < 0xA000:
		m.writeControl(val)
	case addr < 0xC000:
		m.chrBank0 = val & 0x1F
	case addr < 0xE000:
		m.chrBank1 = val & 0x1F
	default:
		m.prgBank = val
	}
	m.updateBanks()
}

func (m *mmc1) writeControl(val uint8) {
	switch val & 0x03 {
	case 0:
		m.mirrorSel = cartridge.SingleScreenA
	case 1:
		m.mirrorSel = cartridge.SingleScreenB
	case 2:
		m.mirrorSel = cartridge.Vertical
	case 3:
		m.mirrorSel = cartridge.Horizontal
	}
	m.prgBankMode = (val >> 2) & 0x03
	m.chrBankMode = val >> 4
	m.control = val
}

func (m *mmc1) updateBanks() {
	prgBanks16k := max1(len(m.cart.PrgRom) / 0x4000)
	switch m.prgBankMode {
	case 0, 1:
		bank := (int(m.prgBank) >> 1) % max1(prgBanks16k/2)
		m.prgOff[0] = bank * 0x8000
		m.prgOff[1] = bank*0x8000 + 0x4000
	case 2:
		m.prgOff[0] = 0
		m.prgOff[1] = (int(m.prgBank) % prgBanks16k) * 0x4000
	case 3:
		m.prgOff[0] = (int(m.prgBank) % prgBanks16k) * 0x4000
		m.prgOff[1] = len(m.cart.PrgRom) - 0x4000
	}

	chrBanks4k := max1(m.chrSize() / 0x1000)
	if m.chrBankMode == 0 {
		bank := (int(m.chrBank0) >> 1) % max1(chrBanks4k/2)
		m.chrOff[0] = bank * 0x2000
		m.chrOff[1] = m.chrOff[0] + 0x1000
	} else {
		m.chrOff[0] = (int(m.chrBank0) % chrBanks4k) * 0x1000
		m.chrOff[1] = (int(m.chrBank1) % chrBanks4k) * 0x1000
	}
}

func (m *mmc1) chrSize() int {
	if m.cart.UsesChrRam() {
		return len(m.cart.ChrRam)
	}
	return len(m.cart.ChrRom)
}

func (m *mmc1) PPURead(addr uint16) uint8 {
	off := m.chrOffset(addr)
	if m.cart.UsesChrRam() {
		return m.cart.ChrRam[off]
	}
	return m.cart.ChrRom[off]
}

func (m *mmc1) PPUWrite(addr uint16, val uint8) {
	if !m.cart.UsesChrRam() {
		return
	}
	m.cart.ChrRam[m.chrOffset(addr)] = val
}

func (m *mmc1) chrOffset(addr uint16) int {
	if addr < 0x1000 {
		return (m.chrOff[0] + int(addr)) % m.chrSize()
	}
	return (m.chrOff[1] + int(addr-0x1000)) % m.chrSize()
}

func (m *mmc1) Snapshot(e *state.Encoder) error {
	return e.Encode(m.shift, m.counter, m.control, m.chrBank0, m.chrBank1,
		m.prgBank, m.mirrorSel, m.prgBankMode, m.chrBankMode, m.prgOff, m.chrOff, m.cart)
}
func (m *mmc1) Restore(d *state.Decoder) error {
	return d.Decode(&m.shift, &m.counter, &m.control, &m.chrBank0, &m.chrBank1,
		&m.prgBank, &m.mirrorSel, &m.prgBankMode, &m.chrBankMode, &m.prgOff, &m.chrOff, m.cart)
}
