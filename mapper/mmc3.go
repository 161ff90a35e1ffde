package mapper

import (
	"github.com/doinkythederp/tetanes/cartridge"
	"github.com/doinkythederp/tetanes/state"
)

// MMC3 (mapper 004). Eight bank registers (R0-R7) selected by an even/odd
// pair of ports at $8000/$8001, PRG-RAM write protect and mirroring at
// $A000/$A001, and a scanline IRQ counter clocked by PPU A12 rising edges
// (filtered against noise) at $C000/$C001/$E000/$E001.
type mmc3 struct {
	cart *cartridge.Cartridge

	bankSelect uint8
	bankData   [8]uint8

	prgMode uint8 // bit 6 of bankSelect
	chrMode uint8 // bit 7 of bankSelect

	mirrorSel cartridge.Mirroring
	ramEnable bool
	ramWrite  bool

	irqLatch   uint8
	irqCounter uint8
	irqReload  bool
	irqEnable  bool
	irqPending bool

	a12Low    bool
	a12LowFor int
}

func newMMC3(cart *cartridge.Cartridge) *mmc3 {
	return &mmc3{cart: cart, mirrorSel: cartridge.Vertical, a12Low: true}
}

func (m *mmc3) Reset() {
	*m = mmc3{cart: m.cart, mirrorSel: cartridge.Vertical, a12Low: true}
}

func (m *mmc3) Mirroring() cartridge.Mirroring { return m.mirrorSel }

func (m *mmc3) prgBankCount() int { return max1(len(m.cart.PrgRom) / 0x2000) }

func (m *mmc3) prgOffset(slot int) int {
	n := m.prgBankCount()
	last := n - 1
	secondLast := n - 2
	if secondLast < 0 {
		secondLast = 0
	}
	// slot indexes the four 8KiB $8000-$9FFF/$A000-$BFFF/$C000-$DFFF/$E000-$FFFF windows.
	var bank int
	switch {
	case m.prgMode == 0 && slot == 0:
		bank = int(m.bankData[6]) % n
	case m.prgMode == 0 && slot == 2:
		bank = secondLast
	case m.prgMode != 0 && slot == 0:
		bank = secondLast
	case m.prgMode != 0 && slot == 2:
		bank = int(m.bankData[6]) % n
	case slot == 1:
		bank = int(m.bankData[7]) % n
	default: // slot == 3
		bank = last
	}
	return bank * 0x2000
}

func (m *mmc3) CPURead(addr uint16) uint8 {
	if ok, idx := prgRamWindow(m.cart, addr); ok {
		if !m.ramEnable {
			return 0
		}
		return m.cart.PrgRam[idx]
	}
	slot := int((addr - 0x8000) / 0x2000)
	off := m.prgOffset(slot)
	return m.cart.PrgRom[off+int(addr)%0x2000]
}

func (m *mmc3) CPUWrite(addr uint16, val uint8) {
	if ok, idx := prgRamWindow(m.cart, addr); ok {
		if m.ramEnable && m.ramWrite {
			m.cart.PrgRam[idx] = val
		}
		return
	}
	if addr < 0x8000 {
		return
	}
	even := addr%2 == 0
	switch {
	case addr < 0xA000:
		if even {
			m.bankSelect = val
			m.prgMode = (val >> 6) & 1
			m.chrMode = (val >> 7) & 1
		} else {
			m.bankData[m.bankSelect&0x07] = val
		}
	case addr < 0xC000:
		if even {
			if val&1 != 0 {
				m.mirrorSel = cartridge.Horizontal
			} else {
				m.mirrorSel = cartridge.Vertical
			}
		} else {
			m.ramEnable = val&0x80 != 0
			m.ramWrite = val&0x40 == 0
		}
	case addr < 0xE000:
		if even {
			m.irqLatch = val
		} else {
			m.irqReload = true
		}
	default:
		if even {
			m.irqEnable = false
			m.irqPending = false
		} else {
			m.irqEnable = true
		}
	}
}

func (m *mmc3) chrOffset(addr uint16) int {
	chrSize := len(m.cart.ChrRom)
	// two 2KiB regions (R0,R1) and four 1KiB regions (R2-R5), order flips with chrMode.
	regionSize := [6]int{2, 2, 1, 1, 1, 1}
	regs := [6]uint8{m.bankData[0] &^ 1, m.bankData[1] &^ 1, m.bankData[2], m.bankData[3], m.bankData[4], m.bankData[5]}
	order := [6]int{0, 1, 2, 3, 4, 5}
	if m.chrMode != 0 {
		order = [6]int{2, 3, 4, 5, 0, 1}
	}
	pos := int(addr) / 0x400
	acc := 0
	for _, oi := range order {
		kb := regionSize[oi]
		if pos < acc+kb {
			base := int(regs[oi]) * 0x400
			within := (pos - acc) * 0x400
			return (base+within+int(addr)%0x400)%chrSize
		}
		acc += kb
	}
	return 0
}

func (m *mmc3) PPURead(addr uint16) uint8 {
	m.snoopA12(addr)
	if m.cart.UsesChrRam() {
		return m.cart.ChrRam[int(addr)%len(m.cart.ChrRam)]
	}
	return m.cart.ChrRom[m.chrOffset(addr)]
}

func (m *mmc3) PPUWrite(addr uint16, val uint8) {
	m.snoopA12(addr)
	if m.cart.UsesChrRam() {
		m.cart.ChrRam[int(addr)%len(m.cart.ChrRam)] = val
	}
}

// minA12LowCycles is the shortest time A12 must sit low, in CPU cycles,
// before a rising edge is allowed to clock the IRQ counter. Real boards
// filter on a handful of PPU dots; background and sprite pattern fetches
// within the same scanline region can toggle A12 low and back high again
// inside a single CPU cycle, and without this filter each toggle would
// clock the counter, double-counting scanlines.
const minA12LowCycles = 2

// OnA12Change clocks the IRQ counter on a filtered rising edge: A12 must
// have been low for at least minA12LowCycles CPU cycles before the rise
// counts, matching the revision-A12 filtering real MMC3 boards need to
// avoid double-clocking on sprite-then-background pattern fetches within
// the same scanline.
func (m *mmc3) OnA12Change(level bool) {
	if !level {
		m.a12Low = true
		m.a12LowFor = 0
		return
	}
	if m.a12Low && m.a12LowFor >= minA12LowCycles {
		m.clockIRQCounter()
	}
	m.a12Low = false
}

// snoopA12 derives the A12 change from PPU read/write addresses directly,
// used by callers that drive the mapper purely off PPURead/PPUWrite rather
// than an explicit address-bus trace.
func (m *mmc3) snoopA12(addr uint16) {
	level := addr&0x1000 != 0
	m.OnA12Change(level)
}

func (m *mmc3) clockIRQCounter() {
	if m.irqCounter == 0 || m.irqReload {
		m.irqCounter = m.irqLatch
		m.irqReload = false
	} else {
		m.irqCounter--
	}
	if m.irqCounter == 0 && m.irqEnable {
		m.irqPending = true
	}
}

func (m *mmc3) IRQ() bool { return m.irqPending }

// OnCPUCycle advances the A12-low debounce timer. The IRQ counter itself
// is still clocked by PPU A12 edges, not CPU time; this only tracks how
// long A12 has sat low so OnA12Change can filter short glitches.
func (m *mmc3) OnCPUCycle() {
	if m.a12Low && m.a12LowFor < minA12LowCycles {
		m.a12LowFor++
	}
}

func (m *mmc3) Snapshot(e *state.Encoder) error {
	return e.Encode(m.bankSelect, m.bankData, m.prgMode, m.chrMode, m.mirrorSel,
		m.ramEnable, m.ramWrite, m.irqLatch, m.irqCounter, m.irqReload, m.irqEnable,
		m.irqPending, m.a12Low, m.a12LowFor, m.cart)
}
func (m *mmc3) Restore(d *state.Decoder) error {
	return d.Decode(&m.bankSelect, &m.bankData, &m.prgMode, &m.chrMode, &m.mirrorSel,
		&m.ramEnable, &m.ramWrite, &m.irqLatch, &m.irqCounter, &m.irqReload, &m.irqEnable,
		&m.irqPending, &m.a12Low, &m.a12LowFor, m.cart)
}
