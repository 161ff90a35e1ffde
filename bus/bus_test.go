package bus

import (
	"testing"

	"github.com/doinkythederp/tetanes/apu"
	"github.com/doinkythederp/tetanes/cartridge"
	"github.com/doinkythederp/tetanes/controller"
	"github.com/doinkythederp/tetanes/mapper"
	"github.com/doinkythederp/tetanes/ppu"
)

func newTestBus(t *testing.T) *Bus {
	prg := make([]byte, 16384)
	prg[0] = 0x42
	cart := cartridge.New(cartridge.Header{Mapper: 0, PrgBanks: 1}, prg, nil)
	mp, err := mapper.New(cart)
	if err != nil {
		t.Fatalf("mapper.New: %v", err)
	}
	p := ppu.New(ppu.NTSC, mp)
	a := apu.New(apu.NTSC, nil)
	pads := controller.New(controller.None)
	b := New(p, a, pads, mp, 3, 1)
	a.SetMemReader(b)
	return b
}

func TestRAMMirroringEveryTwoKiB(t *testing.T) {
	b := newTestBus(t)
	b.Write8(0x0000, 0x99)
	if v := b.Read8(0x0800); v != 0x99 {
		t.Fatalf("Read8(0x0800) = %#x, want 0x99 (RAM mirrors every 0x0800)", v)
	}
	if v := b.Read8(0x1800); v != 0x99 {
		t.Fatalf("Read8(0x1800) = %#x, want 0x99", v)
	}
}

func TestPRGROMReadThroughMapper(t *testing.T) {
	b := newTestBus(t)
	if v := b.Read8(0x8000); v != 0x42 {
		t.Fatalf("Read8(0x8000) = %#x, want 0x42 (first PRG ROM byte via NROM)", v)
	}
}

func TestControllerPortMergesOpenBusUpperBits(t *testing.T) {
	b := newTestBus(t)
	b.lastValue = 0xFE // simulate a prior read/write driving high bits
	v := b.Read8(0x4016)
	if v&^0x01 != 0xFE&^0x01 {
		t.Fatalf("Read8(0x4016) = %#x, want upper 7 bits to echo the open-bus latch", v)
	}
}

func TestOAMDMAChargesStall(t *testing.T) {
	b := newTestBus(t)
	b.Write8(0x4014, 0x00)
	if got := b.PollStall(); got != 513 {
		t.Fatalf("PollStall() = %d, want 513 immediately after an OAM DMA trigger", got)
	}
	if got := b.PollStall(); got != 0 {
		t.Fatalf("PollStall() should drain to 0 after being read once, got %d", got)
	}
}

func TestWriteOnlyAPURegisterReadsAsOpenBus(t *testing.T) {
	b := newTestBus(t)
	b.Write8(0x4000, 0x37) // pulse1 control, write-only
	if v := b.Read8(0x4000); v != 0x37 {
		t.Fatalf("Read8(0x4000) = %#x, want 0x37 (open-bus echo of the last driven value)", v)
	}
}
