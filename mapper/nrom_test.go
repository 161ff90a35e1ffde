package mapper

import (
	"testing"

	"github.com/doinkythederp/tetanes/cartridge"
)

func TestNROMMirrorsSingleBankAcrossBothPRGWindows(t *testing.T) {
	prg := make([]byte, 0x4000)
	prg[0] = 0x11
	prg[0x3FFF] = 0x22
	cart := cartridge.New(cartridge.Header{Mapper: 0}, prg, nil)
	m := newNROM(cart)

	if v := m.CPURead(0x8000); v != 0x11 {
		t.Fatalf("CPURead(0x8000) = %#x, want 0x11", v)
	}
	if v := m.CPURead(0xC000); v != 0x11 {
		t.Fatalf("CPURead(0xC000) = %#x, want 0x11 (single 16KiB bank mirrors into the upper window)", v)
	}
	if v := m.CPURead(0xBFFF); v != 0x22 {
		t.Fatalf("CPURead(0xBFFF) = %#x, want 0x22", v)
	}
}

func TestNROMCHRRAMIsWritable(t *testing.T) {
	cart := cartridge.New(cartridge.Header{Mapper: 0}, make([]byte, 0x4000), nil)
	m := newNROM(cart)
	if !cart.UsesChrRam() {
		t.Fatalf("cartridge with no CHR ROM should report UsesChrRam")
	}
	m.PPUWrite(0x0010, 0x99)
	if v := m.PPURead(0x0010); v != 0x99 {
		t.Fatalf("PPURead(0x0010) = %#x, want 0x99", v)
	}
}
