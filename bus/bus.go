// Package bus implements the CPU's $0000-$FFFF address space: internal
// RAM mirroring, PPU/APU register windows, controller ports, OAM DMA,
// and the mapper-owned cartridge space — everything the CPU reaches
// through cpu.Bus (spec §3/§4.1 "Ownership").
package bus

import (
	"github.com/doinkythederp/tetanes/apu"
	"github.com/doinkythederp/tetanes/controller"
	"github.com/doinkythederp/tetanes/mapper"
	"github.com/doinkythederp/tetanes/memory"
	"github.com/doinkythederp/tetanes/ppu"
	"github.com/doinkythederp/tetanes/state"
)

// Bus wires the CPU to internal RAM, the PPU's register file, the APU,
// the controller ports, and whatever mapper the loaded cartridge
// selected. It also implements apu.MemReader so the APU's DMC channel
// can DMA sample bytes straight through this same address space.
type Bus struct {
	ram  *memory.Ram
	ppu  *ppu.PPU
	apu  *apu.APU
	pads *controller.Ports
	mp   mapper.Mapper

	lastValue uint8 // open-bus latch (spec §8 "Open-bus latch")

	dmaStall   int
	oamDMAAddr uint16 // high byte written to $4014, DMA runs immediately

	ppuDotNum, ppuDotDen int // region's PPU:CPU dot ratio, e.g. 3/1 NTSC
	dotAccum             int // fixed-point remainder for the PAL 16/5 ratio
}

// New wires a Bus for the given region's PPU:CPU clock ratio (3/1 on
// NTSC and Dendy, 16/5 on PAL — the one region where it isn't integral).
func New(p *ppu.PPU, a *apu.APU, pads *controller.Ports, mp mapper.Mapper, ppuDotNum, ppuDotDen int) *Bus {
	return &Bus{ram: memory.NewRam(2048), ppu: p, apu: a, pads: pads, mp: mp,
		ppuDotNum: ppuDotNum, ppuDotDen: ppuDotDen}
}

// ResetClock zeroes the dot-ratio accumulator; called alongside the rest
// of the component resets so a warm reset doesn't carry over fractional
// PAL dot phase from the previous run.
func (b *Bus) ResetClock() { b.dotAccum = 0 }

// Tick implements cpu.Bus: the CPU calls this once per cycle, before
// that cycle's Read8/Write8 completes, so the PPU and APU are always
// caught up to the instruction's actual progress rather than advanced
// in bulk once the whole instruction has finished (spec §4.1
// "Clock/Scheduler").
func (b *Bus) Tick() {
	b.dotAccum += b.ppuDotNum
	for b.dotAccum >= b.ppuDotDen {
		b.dotAccum -= b.ppuDotDen
		b.ppu.Step()
	}
	b.apu.Tick()
	b.mp.OnCPUCycle()
}

func (b *Bus) SetMapper(mp mapper.Mapper) { b.mp = mp }

// FillRAM, FillRAMFunc, and FillRAMBytes seed internal RAM at console
// construction per the ramstate configuration option (spec §6).
func (b *Bus) FillRAM(pattern byte)          { b.ram.Fill(pattern) }
func (b *Bus) FillRAMFunc(f func(i int) byte) { b.ram.FillFunc(f) }
func (b *Bus) FillRAMBytes(custom []byte) {
	b.ram.FillFunc(func(i int) byte {
		if len(custom) == 0 {
			return 0
		}
		return custom[i%len(custom)]
	})
}

// Read8 implements cpu.Bus.
func (b *Bus) Read8(addr uint16) uint8 {
	v := b.read(addr)
	b.lastValue = v
	return v
}

func (b *Bus) read(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return b.ram.Read8(addr & 0x07FF)
	case addr < 0x4000:
		return b.ppu.CPURead(0x2000 + addr%8)
	case addr == 0x4015:
		return b.apu.CPURead(addr)
	case addr == 0x4016:
		return b.openBus(b.pads.Read(0))
	case addr == 0x4017:
		return b.openBus(b.pads.Read(1))
	case addr < 0x4020:
		return b.lastValue // write-only APU registers: open bus
	default:
		return b.mp.CPURead(addr)
	}
}

// openBus merges a device's low bits with the latch's high bits for
// registers that only drive part of the data bus (controllers drive
// just bit 0, spec §4.6 "Upper bits ... return open bus").
func (b *Bus) openBus(bit uint8) uint8 {
	return (b.lastValue &^ 0x01) | (bit & 0x01)
}

// Write8 implements cpu.Bus.
func (b *Bus) Write8(addr uint16, v uint8) {
	b.lastValue = v
	switch {
	case addr < 0x2000:
		b.ram.Write8(addr&0x07FF, v)
	case addr < 0x4000:
		b.ppu.CPUWrite(0x2000+addr%8, v)
	case addr == 0x4014:
		b.oamDMAAddr = uint16(v) << 8
		b.runOAMDMA()
	case addr == 0x4016:
		b.pads.Write(v)
	case addr <= 0x4013, addr == 0x4015, addr == 0x4017:
		b.apu.CPUWrite(addr, v)
	default:
		b.mp.CPUWrite(addr, v)
	}
}

// runOAMDMA copies 256 bytes into PPU OAM and charges a flat 513-cycle
// stall. The extra cycle of a DMA that starts on an odd CPU cycle is not
// modelled: the bus keeps no CPU cycle parity, and nothing else adds it.
func (b *Bus) runOAMDMA() {
	var page [256]byte
	for i := 0; i < 256; i++ {
		page[i] = b.read(b.oamDMAAddr + uint16(i))
	}
	b.ppu.WriteOAMDMA(page[:])
	b.dmaStall += 513
}

// PollStall implements cpu.Bus: the sum of OAM DMA and DMC DMA stall
// accumulated since the last call.
func (b *Bus) PollStall() int {
	s := b.dmaStall + b.apu.TakeStall()
	b.dmaStall = 0
	return s
}

// Read8 also satisfies apu.MemReader for DMC sample fetches, which read
// through the same CPU address space (and can themselves re-enter here
// for mapper PRG reads, but never for $2000-$401F — no DMC sample is
// ever mapped there on real hardware).

// IRQLine reports whether the mapper or APU currently wants the shared
// CPU IRQ line asserted; the scheduler polls this once per CPU cycle.
func (b *Bus) IRQLine() bool { return b.mp.IRQ() || b.apu.IRQ() }

// NMILine reports the PPU's current NMI output.
func (b *Bus) NMILine() bool { return b.ppu.NMI() }

func (b *Bus) Snapshot(e *state.Encoder) error {
	return e.Encode(b.ram, b.lastValue, b.dotAccum)
}

func (b *Bus) Restore(d *state.Decoder) error {
	return d.Decode(b.ram, &b.lastValue, &b.dotAccum)
}
