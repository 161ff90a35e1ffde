package mapper

import (
	"github.com/doinkythederp/tetanes/cartridge"
	"github.com/doinkythederp/tetanes/state"
)

// FME-7 / Sunsoft 5B (mapper 069). A command/parameter port pair at
// $8000 (select register 0-0xF) and $A000 (write the selected register)
// drives eight CHR bank registers, three PRG bank registers, a mirroring
// + PRG-RAM-enable register, and a 16-bit down counter that can raise an
// IRQ on every CPU cycle independent of the PPU (unlike the A12-clocked
// MMC3 counter). Not present in the reference implementation this module
// was grown from; behavior follows the documented Sunsoft 5B command set.
type fme7 struct {
	cart *cartridge.Cartridge

	command uint8

	chrBank [8]uint8
	prgBank [3]uint8 // banks for $8000, $A000, $C000; $E000 fixed to last

	mirrorSel cartridge.Mirroring
	ramEnable bool
	ramSelect bool // selects PRG-RAM instead of ROM at $6000 when set

	irqCounter    uint16
	irqEnable     bool
	irqCountEnable bool
	irqPending    bool
}

func newFME7(cart *cartridge.Cartridge) *fme7 {
	return &fme7{cart: cart, mirrorSel: cartridge.Vertical}
}

func (m *fme7) Reset() {
	*m = fme7{cart: m.cart, mirrorSel: cartridge.Vertical}
}

func (m *fme7) Mirroring() cartridge.Mirroring { return m.mirrorSel }

func (m *fme7) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if m.ramSelect && m.cart.PrgRam != nil {
			return m.cart.PrgRam[int(addr-0x6000)%len(m.cart.PrgRam)]
		}
		return 0
	case addr < 0x6000:
		return 0
	case addr < 0xA000:
		return m.prgRead(0, addr-0x8000)
	case addr < 0xC000:
		return m.prgRead(1, addr-0xA000)
	case addr < 0xE000:
		return m.prgRead(2, addr-0xC000)
	default:
		n := max1(len(m.cart.PrgRom) / 0x2000)
		return m.cart.PrgRom[(n-1)*0x2000+int(addr-0xE000)]
	}
}

func (m *fme7) prgRead(slot int, off uint16) uint8 {
	n := max1(len(m.cart.PrgRom) / 0x2000)
	bank := int(m.prgBank[slot]) % n
	return m.cart.PrgRom[bank*0x2000+int(off)]
}

func (m *fme7) CPUWrite(addr uint16, val uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if m.ramSelect && m.ramEnable && m.cart.PrgRam != nil {
			m.cart.PrgRam[int(addr-0x6000)%len(m.cart.PrgRam)] = val
		}
	case addr >= 0x8000 && addr < 0xA000:
		m.command = val & 0x0F
	case addr >= 0xA000 && addr < 0xC000:
		m.writeRegister(val)
	}
}

func (m *fme7) writeRegister(val uint8) {
	switch {
	case m.command <= 0x07:
		m.chrBank[m.command] = val
	case m.command == 0x08:
		m.ramSelect = val&0x40 != 0
		m.ramEnable = val&0x80 != 0
		m.prgBank[0] = val & 0x3F
	case m.command == 0x09, m.command == 0x0A:
		m.prgBank[m.command-0x08] = val & 0x3F
	case m.command == 0x0C:
		switch val & 0x03 {
		case 0:
			m.mirrorSel = cartridge.Vertical
		case 1:
			m.mirrorSel = cartridge.Horizontal
		case 2:
			m.mirrorSel = cartridge.SingleScreenA
		case 3:
			m.mirrorSel = cartridge.SingleScreenB
		}
	case m.command == 0x0D:
		m.irqEnable = val&0x01 != 0
		m.irqCountEnable = val&0x80 != 0
		m.irqPending = false
	case m.command == 0x0E:
		m.irqCounter = m.irqCounter&0xFF00 | uint16(val)
	case m.command == 0x0F:
		m.irqCounter = m.irqCounter&0x00FF | uint16(val)<<8
	}
}

func (m *fme7) PPURead(addr uint16) uint8 {
	bank := int(m.chrBank[addr/0x400])
	off := bank*0x400 + int(addr%0x400)
	if m.cart.UsesChrRam() {
		return m.cart.ChrRam[off%len(m.cart.ChrRam)]
	}
	return m.cart.ChrRom[off%max1(len(m.cart.ChrRom))]
}

func (m *fme7) PPUWrite(addr uint16, val uint8) {
	if !m.cart.UsesChrRam() {
		return
	}
	bank := int(m.chrBank[addr/0x400])
	off := bank*0x400 + int(addr%0x400)
	m.cart.ChrRam[off%len(m.cart.ChrRam)] = val
}

func (m *fme7) OnA12Change(bool) {}

// OnCPUCycle clocks the 16-bit down counter every CPU cycle when counting
// is enabled; it wraps from 0 to 0xFFFF and fires an IRQ on that wrap,
// same as the real chip's NMI-independent timer.
func (m *fme7) OnCPUCycle() {
	if !m.irqCountEnable {
		return
	}
	if m.irqCounter == 0 {
		if m.irqEnable {
			m.irqPending = true
		}
		m.irqCounter = 0xFFFF
		return
	}
	m.irqCounter--
}

func (m *fme7) IRQ() bool { return m.irqPending }

func (m *fme7) Snapshot(e *state.Encoder) error {
	return e.Encode(m.command, m.chrBank, m.prgBank, m.mirrorSel, m.ramEnable,
		m.ramSelect, m.irqCounter, m.irqEnable, m.irqCountEnable, m.irqPending, m.cart)
}
func (m *fme7) Restore(d *state.Decoder) error {
	return d.Decode(&m.command, &m.chrBank, &m.prgBank, &m.mirrorSel, &m.ramEnable,
		&m.ramSelect, &m.irqCounter, &m.irqEnable, &m.irqCountEnable, &m.irqPending, m.cart)
}
