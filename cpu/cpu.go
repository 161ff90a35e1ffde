// Package cpu implements the NMOS 6502 variant (Ricoh 2A03/2A07) at the
// heart of the console: decode/execute, interrupt polling, dummy reads,
// read-modify-write double writes, and DMA stall accounting.
package cpu

import (
	"github.com/doinkythederp/tetanes/state"
)

// Flag bits of the P (status) register.
const (
	FlagC uint8 = 1 << 0
	FlagZ uint8 = 1 << 1
	FlagI uint8 = 1 << 2
	FlagD uint8 = 1 << 3
	FlagB uint8 = 1 << 4
	FlagU uint8 = 1 << 5 // unused, always reads 1 on the real chip
	FlagV uint8 = 1 << 6
	FlagN uint8 = 1 << 7
)

const (
	nmiVector   = 0xFFFA
	resetVector = 0xFFFC
	irqVector   = 0xFFFE
)

// Bus is the CPU's view of the rest of the machine. The CPU owns nothing
// else; every side effect — PPU register pokes, mapper banking, DMA — is
// reached through these calls (spec's "component graph without cycles":
// the CPU never back-references the PPU/APU/mapper directly).
type Bus interface {
	Read8(addr uint16) uint8
	Write8(addr uint16, val uint8)

	// PollStall returns and clears any CPU stall cycles requested since
	// the last call (OAM DMA, DMC DMA). Called once per instruction
	// boundary, matching the "CPU checks a flag on the Bus" design note.
	PollStall() int

	// Tick advances every other component (PPU dots, APU sequencer,
	// mapper IRQ counters) by exactly one CPU cycle. The CPU calls this
	// once per cycle — including cycles that have no bus-visible
	// read/write of their own — immediately before that cycle's Read8
	// or Write8 completes, so a register access in the middle of an
	// instruction observes PPU/APU state caught up to the instruction's
	// progress rather than frozen at the end of the previous one.
	Tick()

	// NMILine and IRQLine report the current level of the CPU's two
	// interrupt inputs; polled once per Tick so edges are never missed
	// inside a single instruction's worth of cycles.
	NMILine() bool
	IRQLine() bool
}

// CPU holds the 6502 register file and interrupt/cycle bookkeeping.
type CPU struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16
	P       uint8

	Cycles uint64 // total CPU cycles executed, for scheduler accounting

	bus Bus

	nmiPending  bool
	nmiPrevLine bool
	irqLine     bool

	lastBusValue uint8

	stallCycles int

	undocumented bool // Config.CPUUndocumented: enables unstable opcode emulation
}

// New creates a CPU wired to bus. undocumented selects whether unstable
// opcodes (XAA, AHX, TAS, LAS, SHX, SHY) execute their documented
// best-effort behavior or behave as NOPs, per the cpu_undocumented
// configuration flag.
func New(bus Bus, undocumented bool) *CPU {
	return &CPU{bus: bus, undocumented: undocumented}
}

// Reset performs the 7-cycle power-on/reset sequence: SP -= 3, I set,
// PC loaded from the reset vector.
func (c *CPU) Reset() {
	for i := 0; i < 5; i++ {
		c.tick()
	}
	c.SP -= 3
	c.P |= FlagI
	c.PC = c.read16(resetVector)
}

// PowerOn initializes registers to the documented post-power-on values.
func (c *CPU) PowerOn() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.P = FlagU | FlagI
	for i := 0; i < 5; i++ {
		c.tick()
	}
	c.PC = c.read16(resetVector)
}

// tick charges exactly one CPU cycle: the rest of the machine advances
// first, then the two interrupt lines are resampled, so an edge that
// appears mid-instruction is latched at the cycle it actually occurs on
// rather than once the whole instruction has finished.
func (c *CPU) tick() {
	c.bus.Tick()
	nmi := c.bus.NMILine()
	if nmi && !c.nmiPrevLine {
		c.nmiPending = true
	}
	c.nmiPrevLine = nmi
	c.irqLine = c.bus.IRQLine()
	c.Cycles++
}

func (c *CPU) read8(addr uint16) uint8 {
	c.tick()
	v := c.bus.Read8(addr)
	c.lastBusValue = v
	return v
}

func (c *CPU) write8(addr uint16, v uint8) {
	c.tick()
	c.bus.Write8(addr, v)
	c.lastBusValue = v
}

func (c *CPU) read16(addr uint16) uint16 {
	lo := uint16(c.read8(addr))
	hi := uint16(c.read8(addr + 1))
	return lo | hi<<8
}

// read16bug reproduces the 6502's page-wrap bug in JMP (indirect): the
// high byte is fetched from the start of the same page, not the next page.
func (c *CPU) read16bug(addr uint16) uint16 {
	lo := uint16(c.read8(addr))
	wrapped := (addr & 0xFF00) | uint16(uint8(addr)+1)
	hi := uint16(c.read8(wrapped))
	return lo | hi<<8
}

func (c *CPU) push8(v uint8) {
	c.write8(0x100|uint16(c.SP), v)
	c.SP--
}
func (c *CPU) pop8() uint8 {
	c.SP++
	return c.read8(0x100 | uint16(c.SP))
}
func (c *CPU) push16(v uint16) {
	c.push8(uint8(v >> 8))
	c.push8(uint8(v))
}
func (c *CPU) pop16() uint16 {
	lo := uint16(c.pop8())
	hi := uint16(c.pop8())
	return lo | hi<<8
}

func (c *CPU) setZN(v uint8) {
	if v == 0 {
		c.P |= FlagZ
	} else {
		c.P &^= FlagZ
	}
	if v&0x80 != 0 {
		c.P |= FlagN
	} else {
		c.P &^= FlagN
	}
}

// Step executes exactly one instruction (after servicing any pending
// interrupt and any outstanding DMA stall) and returns the number of CPU
// cycles it consumed, DMA stalls included.
func (c *CPU) Step() int {
	before := c.Cycles

	if stall := c.bus.PollStall(); stall > 0 {
		c.stallCycles += stall
	}
	if c.stallCycles > 0 {
		n := c.stallCycles
		c.stallCycles = 0
		for i := 0; i < n; i++ {
			c.tick()
		}
		return n
	}

	if serviced := c.serviceInterrupt(); serviced {
		return int(c.Cycles - before)
	}

	c.execOne()
	return int(c.Cycles - before)
}

// serviceInterrupt runs the NMI/IRQ push-and-vector sequence when one is
// pending. NMI takes priority and is edge-latched; IRQ is polled live off
// the line and gated by the I flag.
func (c *CPU) serviceInterrupt() bool {
	switch {
	case c.nmiPending:
		c.nmiPending = false
		before := c.Cycles
		c.interrupt(nmiVector, false)
		for c.Cycles-before < 7 {
			c.tick()
		}
		return true
	case c.irqLine && c.P&FlagI == 0:
		before := c.Cycles
		c.interrupt(irqVector, false)
		for c.Cycles-before < 7 {
			c.tick()
		}
		return true
	}
	return false
}

// interrupt pushes PC and P (with B as specified) and loads the vector.
// brk selects the BRK-flavored push (B=1); hardware NMI/IRQ push B=0. The
// caller pads out the remaining cycles to the documented 7 — the pushes
// and vector fetch only account for 5, the rest of the sequence has no
// bus-visible counterpart to charge it against.
// If an NMI becomes pending while an IRQ/BRK sequence is fetching its
// vector, the NMI vector is used instead — "NMI hijacking".
func (c *CPU) interrupt(vector uint16, brk bool) {
	c.push16(c.PC)
	flags := c.P &^ FlagB
	if brk {
		flags |= FlagB
	}
	c.push8(flags | FlagU)
	c.P |= FlagI
	if c.nmiPending {
		c.nmiPending = false
		vector = nmiVector
	}
	c.PC = c.read16(vector)
}

// execOne decodes and runs the instruction at PC. Any cycles the opcode
// table charges beyond what its actual bus accesses already ticked are
// padded on at the end — those cycles have no bus-visible effect by
// construction, so where exactly within the instruction they land can't
// be observed.
func (c *CPU) execOne() {
	before := c.Cycles

	op := c.read8(c.PC)
	info := opcodeTable[op]
	c.PC++

	addr, pageCrossed, mode := c.resolveAddress(info.mode)
	extra := 0
	if pageCrossed && info.pageCycles {
		extra = 1
	}

	ctx := execContext{addr: addr, mode: mode}
	info.exec(c, ctx)

	want := before + uint64(info.cycles+extra)
	for c.Cycles < want {
		c.tick()
	}
}

type execContext struct {
	addr uint16
	mode addrMode
}

type addrMode int

const (
	modeImplied addrMode = iota
	modeAccumulator
	modeImmediate
	modeZeroPage
	modeZeroPageX
	modeZeroPageY
	modeAbsolute
	modeAbsoluteX
	modeAbsoluteY
	modeIndirect
	modeIndirectX
	modeIndirectY
	modeRelative
)

// resolveAddress computes the effective address for mode, consuming the
// operand bytes at PC, and issuing the dummy read a real 6502 performs
// when abs,X / abs,Y / (ind),Y cross a page before the corrected read.
func (c *CPU) resolveAddress(mode addrMode) (addr uint16, pageCrossed bool, m addrMode) {
	switch mode {
	case modeImplied, modeAccumulator:
		return 0, false, mode
	case modeImmediate:
		a := c.PC
		c.PC++
		return a, false, mode
	case modeZeroPage:
		a := uint16(c.read8(c.PC))
		c.PC++
		return a, false, mode
	case modeZeroPageX:
		a := uint16(uint8(c.read8(c.PC) + c.X))
		c.PC++
		return a, false, mode
	case modeZeroPageY:
		a := uint16(uint8(c.read8(c.PC) + c.Y))
		c.PC++
		return a, false, mode
	case modeAbsolute:
		a := c.read16(c.PC)
		c.PC += 2
		return a, false, mode
	case modeAbsoluteX:
		base := c.read16(c.PC)
		c.PC += 2
		a := base + uint16(c.X)
		crossed := pageDiffers(base, a)
		if crossed {
			c.read8((base & 0xFF00) | uint16(uint8(base)+c.X))
		}
		return a, crossed, mode
	case modeAbsoluteY:
		base := c.read16(c.PC)
		c.PC += 2
		a := base + uint16(c.Y)
		crossed := pageDiffers(base, a)
		if crossed {
			c.read8((base & 0xFF00) | uint16(uint8(base)+c.Y))
		}
		return a, crossed, mode
	case modeIndirect:
		ptr := c.read16(c.PC)
		c.PC += 2
		return c.read16bug(ptr), false, mode
	case modeIndirectX:
		ptr := uint16(uint8(c.read8(c.PC) + c.X))
		c.PC++
		return c.read16bugZP(ptr), false, mode
	case modeIndirectY:
		ptr := uint16(c.read8(c.PC))
		c.PC++
		base := c.read16bugZP(ptr)
		a := base + uint16(c.Y)
		crossed := pageDiffers(base, a)
		if crossed {
			c.read8((base & 0xFF00) | uint16(uint8(base)+c.Y))
		}
		return a, crossed, mode
	case modeRelative:
		off := int8(c.read8(c.PC))
		c.PC++
		return c.PC + uint16(off), false, mode
	}
	return 0, false, mode
}

// read16bugZP reads a 16-bit pointer out of the zero page, wrapping
// within the page as the 6502's zero-page-indirect addressing does.
func (c *CPU) read16bugZP(addr uint16) uint16 {
	lo := uint16(c.read8(addr & 0xFF))
	hi := uint16(c.read8((addr + 1) & 0xFF))
	return lo | hi<<8
}

func pageDiffers(a, b uint16) bool { return a&0xFF00 != b&0xFF00 }

// OpenBus returns the last byte this CPU read or wrote. The Bus keeps
// its own latch for open-bus merging and does not call this.
func (c *CPU) OpenBus() uint8 { return c.lastBusValue }

func (c *CPU) Snapshot(e *state.Encoder) error {
	return e.Encode(c.A, c.X, c.Y, c.SP, c.PC, c.P, c.Cycles, c.nmiPending,
		c.nmiPrevLine, c.irqLine, c.lastBusValue, c.stallCycles)
}
func (c *CPU) Restore(d *state.Decoder) error {
	return d.Decode(&c.A, &c.X, &c.Y, &c.SP, &c.PC, &c.P, &c.Cycles, &c.nmiPending,
		&c.nmiPrevLine, &c.irqLine, &c.lastBusValue, &c.stallCycles)
}
