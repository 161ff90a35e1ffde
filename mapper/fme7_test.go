package mapper

import (
	"testing"

	"github.com/doinkythederp/tetanes/cartridge"
)

func newFME7Cart() *cartridge.Cartridge {
	prg := make([]byte, 0x2000*4)
	return cartridge.New(cartridge.Header{Mapper: 69}, prg, nil)
}

func selectAndWrite(m *fme7, reg, val uint8) {
	m.CPUWrite(0x8000, reg)
	m.CPUWrite(0xA000, val)
}

func TestFME7IRQCounterFiresOnWrapWhenCountingAndEnabled(t *testing.T) {
	m := newFME7(newFME7Cart())
	selectAndWrite(m, 0x0E, 2)    // counter low byte = 2
	selectAndWrite(m, 0x0F, 0)    // counter high byte = 0 -> counter == 2
	selectAndWrite(m, 0x0D, 0x81) // irqEnable | irqCountEnable

	m.OnCPUCycle() // counter 2 -> 1
	m.OnCPUCycle() // counter 1 -> 0
	if m.IRQ() {
		t.Fatalf("IRQ should not fire before the counter actually reaches 0 and wraps")
	}
	m.OnCPUCycle() // counter at 0: fires, wraps to 0xFFFF
	if !m.IRQ() {
		t.Fatalf("IRQ should fire once the down counter wraps through 0")
	}
	if m.irqCounter != 0xFFFF {
		t.Fatalf("irqCounter = %#x, want 0xFFFF after wrapping", m.irqCounter)
	}
}

func TestFME7IRQCounterFrozenWhenCountingDisabled(t *testing.T) {
	m := newFME7(newFME7Cart())
	selectAndWrite(m, 0x0E, 1)
	selectAndWrite(m, 0x0F, 0)
	selectAndWrite(m, 0x0D, 0x01) // irqEnable set, but irqCountEnable clear
	for i := 0; i < 5; i++ {
		m.OnCPUCycle()
	}
	if m.irqCounter != 1 {
		t.Fatalf("irqCounter = %d, want 1 (counting disabled, should not move)", m.irqCounter)
	}
}

func TestFME7PRGBankSelectViaRegister8(t *testing.T) {
	cart := newFME7Cart()
	cart.PrgRom[0x2000] = 0x5A // start of bank 1
	m := newFME7(cart)
	selectAndWrite(m, 0x08, 1) // $8000-$9FFF maps PRG bank 1
	if v := m.CPURead(0x8000); v != 0x5A {
		t.Fatalf("CPURead(0x8000) = %#x, want 0x5A (bank 1 selected via register 8)", v)
	}
}

func TestFME7MirroringRegisterC(t *testing.T) {
	m := newFME7(newFME7Cart())
	selectAndWrite(m, 0x0C, 1) // horizontal
	if got := m.Mirroring(); got != cartridge.Horizontal {
		t.Fatalf("Mirroring() = %v, want Horizontal", got)
	}
}
