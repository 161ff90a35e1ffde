package mapper

import (
	"testing"

	"github.com/doinkythederp/tetanes/cartridge"
)

func newPRGCart(t *testing.T, banks ...byte) *cartridge.Cartridge {
	prg := make([]byte, 0x4000*len(banks))
	for i, marker := range banks {
		prg[i*0x4000] = marker
	}
	return cartridge.New(cartridge.Header{Mapper: 1}, prg, nil)
}

// writeShift feeds val's low 5 bits into the MMC1 shift register one bit
// at a time, LSB first, all five writes to the same address — the
// standard way software programs any of the four internal registers.
func writeShift(m *mmc1, addr uint16, val uint8) {
	for i := 0; i < 5; i++ {
		m.CPUWrite(addr, (val>>i)&1)
	}
}

func TestMMC1PRGBankSwitchModeThreeKeepsLastBankFixed(t *testing.T) {
	cart := newPRGCart(t, 0xA0, 0xB0, 0xC0)
	m := newMMC1(cart)

	if v := m.CPURead(0x8000); v != 0xA0 {
		t.Fatalf("CPURead(0x8000) = %#x, want 0xA0 (bank 0 selected at reset)", v)
	}
	if v := m.CPURead(0xC000); v != 0xC0 {
		t.Fatalf("CPURead(0xC000) = %#x, want 0xC0 (last bank fixed)", v)
	}

	writeShift(m, 0xE000, 1) // select PRG bank 1 at $8000-$BFFF

	if v := m.CPURead(0x8000); v != 0xB0 {
		t.Fatalf("CPURead(0x8000) = %#x, want 0xB0 after switching to bank 1", v)
	}
	if v := m.CPURead(0xC000); v != 0xC0 {
		t.Fatalf("CPURead(0xC000) = %#x, want 0xC0 (fixed last bank must not move)", v)
	}
}

func TestMMC1ControlWriteSelectsMirroring(t *testing.T) {
	cart := newPRGCart(t, 0x00, 0x00)
	m := newMMC1(cart)
	writeShift(m, 0x8000, 0x02) // control: mirroring bits = 2 -> vertical
	if got := m.Mirroring(); got != cartridge.Vertical {
		t.Fatalf("Mirroring() = %v, want Vertical", got)
	}
	writeShift(m, 0x8000, 0x03) // mirroring bits = 3 -> horizontal
	if got := m.Mirroring(); got != cartridge.Horizontal {
		t.Fatalf("Mirroring() = %v, want Horizontal", got)
	}
}

func TestMMC1ResetBitReinitializesShiftRegister(t *testing.T) {
	cart := newPRGCart(t, 0x00, 0x00)
	m := newMMC1(cart)
	m.CPUWrite(0x8000, 1) // one bit shifted in
	m.CPUWrite(0x8000, 0x80) // bit 7 set: resets shift register mid-sequence
	if m.shift != 0 || m.counter != 0 {
		t.Fatalf("shift=%d counter=%d after reset write, want both 0", m.shift, m.counter)
	}
}
