package mapper

import (
	"testing"

	"github.com/doinkythederp/tetanes/cartridge"
)

func newMMC3Cart() *cartridge.Cartridge {
	prg := make([]byte, 0x2000*8)
	return cartridge.New(cartridge.Header{Mapper: 4}, prg, nil)
}

func TestMMC3IRQFiresAfterCounterReachesZeroOnA12RisingEdges(t *testing.T) {
	m := newMMC3(newMMC3Cart())
	m.CPUWrite(0xC000, 2) // irqLatch = 2
	m.CPUWrite(0xE001, 0) // enable IRQ

	// Three filtered rising edges: first reloads the counter to 2 (latch),
	// the next two count it down to 0 and assert the IRQ. A12 must stay
	// low for at least minA12LowCycles CPU cycles before each rise
	// counts, so that many cycle ticks are interleaved to clear the
	// debounce each time.
	for i := 0; i < 3; i++ {
		m.OnA12Change(false)
		for j := 0; j < minA12LowCycles; j++ {
			m.OnCPUCycle()
		}
		m.OnA12Change(true)
	}
	if !m.IRQ() {
		t.Fatalf("IRQ() should be pending after the counter reaches 0 with IRQ enabled")
	}
}

func TestMMC3EvenC000WriteDisablesAndAcknowledgesIRQ(t *testing.T) {
	m := newMMC3(newMMC3Cart())
	m.CPUWrite(0xC000, 1)
	m.CPUWrite(0xE001, 0)
	for i := 0; i < 2; i++ {
		m.OnA12Change(false)
		for j := 0; j < minA12LowCycles; j++ {
			m.OnCPUCycle()
		}
		m.OnA12Change(true)
	}
	if !m.IRQ() {
		t.Fatalf("expected IRQ pending before acknowledgement")
	}
	m.CPUWrite(0xE000, 0) // even $E000: disable + acknowledge
	if m.IRQ() {
		t.Fatalf("IRQ should clear after an even $E000 write")
	}
}

func TestMMC3NonRisingEdgeDoesNotClockCounter(t *testing.T) {
	m := newMMC3(newMMC3Cart())
	m.CPUWrite(0xC000, 5)
	m.CPUWrite(0xE001, 0)
	m.a12Low = false // simulate already-high A12
	m.OnA12Change(true)
	if m.irqCounter != 0 {
		t.Fatalf("irqCounter = %d, want 0 (no rising edge occurred, so the counter shouldn't reload)", m.irqCounter)
	}
}

func TestMMC3BankSelectRoutesOddWritesToSelectedRegister(t *testing.T) {
	m := newMMC3(newMMC3Cart())
	m.CPUWrite(0x8000, 6) // select R6 (PRG bank for slot 0/2 depending on prgMode)
	m.CPUWrite(0x8001, 3)
	if m.bankData[6] != 3 {
		t.Fatalf("bankData[6] = %d, want 3", m.bankData[6])
	}
}
