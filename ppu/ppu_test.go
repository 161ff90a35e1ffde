package ppu

import (
	"testing"

	"github.com/doinkythederp/tetanes/cartridge"
)

// fakeMapper is a bare CHR-RAM mapper with fixed mirroring, enough to
// drive the PPU in isolation.
type fakeMapper struct {
	chr       [8192]byte
	mirroring cartridge.Mirroring
	a12Flips  int
}

func (m *fakeMapper) PPURead(addr uint16) uint8     { return m.chr[addr%8192] }
func (m *fakeMapper) PPUWrite(addr uint16, v uint8) { m.chr[addr%8192] = v }
func (m *fakeMapper) OnA12Change(level bool)        { m.a12Flips++ }
func (m *fakeMapper) Mirroring() cartridge.Mirroring { return m.mirroring }

func TestPaletteMirrorAliases(t *testing.T) {
	p := New(NTSC, &fakeMapper{mirroring: cartridge.Vertical})
	p.writePalette(0x3F00, 0x10)
	if got := p.readPalette(0x3F10); got != 0x10 {
		t.Fatalf("readPalette(0x3F10) = %#x, want 0x10 ($3F10 mirrors $3F00)", got)
	}
}

func TestVerticalMirroringAliasesLeftRight(t *testing.T) {
	p := New(NTSC, &fakeMapper{mirroring: cartridge.Vertical})
	p.busWrite(0x2000, 0xAA)
	if got := p.busRead(0x2800); got != 0xAA {
		t.Fatalf("busRead(0x2800) = %#x, want 0xAA under vertical mirroring", got)
	}
}

func TestHorizontalMirroringAliasesTopBottom(t *testing.T) {
	p := New(NTSC, &fakeMapper{mirroring: cartridge.Horizontal})
	p.busWrite(0x2000, 0x55)
	if got := p.busRead(0x2400); got != 0x55 {
		t.Fatalf("busRead(0x2400) = %#x, want 0x55 under horizontal mirroring", got)
	}
}

func TestPPUDATAReadIsBufferedOneStepBehind(t *testing.T) {
	p := New(NTSC, &fakeMapper{mirroring: cartridge.Vertical})
	m := p.mapper.(*fakeMapper)
	m.chr[0x0010] = 0x77
	p.CPUWrite(6, 0x00) // PPUADDR hi
	p.CPUWrite(6, 0x10) // PPUADDR lo -> v = 0x0010
	if first := p.CPURead(7); first != 0 {
		t.Fatalf("first PPUDATA read = %#x, want the stale pre-fill buffer value 0x00", first)
	}
	if second := p.CPURead(7); second != 0x77 {
		t.Fatalf("second PPUDATA read = %#x, want 0x77 (buffered from the first read)", second)
	}
}

func TestVBlankFlagSetAndClearedByStatusRead(t *testing.T) {
	p := New(NTSC, &fakeMapper{mirroring: cartridge.Vertical})
	p.nmiOccurred = true
	v := p.CPURead(2)
	if v&statusVBlank == 0 {
		t.Fatalf("PPUSTATUS read should report VBlank set")
	}
	if p.nmiOccurred {
		t.Fatalf("reading PPUSTATUS must clear the internal VBlank latch")
	}
}

func TestOAMDMAWritesWrapFromOAMADDR(t *testing.T) {
	p := New(NTSC, &fakeMapper{mirroring: cartridge.Vertical})
	p.CPUWrite(3, 0xFE) // OAMADDR = 0xFE
	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}
	p.WriteOAMDMA(data)
	if p.oam[0xFE] != 0x00 || p.oam[0xFF] != 0x01 || p.oam[0x00] != 0x02 {
		t.Fatalf("OAM DMA did not wrap starting at OAMADDR as expected")
	}
}

func TestFrameReadyClearsOnRead(t *testing.T) {
	p := New(NTSC, &fakeMapper{mirroring: cartridge.Vertical})
	p.frameReady = true
	if !p.FrameReady() {
		t.Fatalf("FrameReady should report true once")
	}
	if p.FrameReady() {
		t.Fatalf("FrameReady should clear after being read")
	}
}
