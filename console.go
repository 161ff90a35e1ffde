// Package tetanes is a cycle-accurate NES core: CPU, PPU, APU, mapper,
// and controller ports wired into a single cooperatively scheduled
// Console, with no goroutines and no internal locking (spec §5).
package tetanes

import (
	"bytes"

	"github.com/doinkythederp/tetanes/apu"
	"github.com/doinkythederp/tetanes/bus"
	"github.com/doinkythederp/tetanes/cartridge"
	"github.com/doinkythederp/tetanes/controller"
	"github.com/doinkythederp/tetanes/cpu"
	"github.com/doinkythederp/tetanes/mapper"
	"github.com/doinkythederp/tetanes/ppu"
	"github.com/doinkythederp/tetanes/state"
)

// RamState selects the internal 2KiB RAM's initial pattern (spec §6).
type RamState int

const (
	AllZeros RamState = iota
	AllOnes
	RandomSeed
	CustomBytes
)

// Config is populated by Option functions, the Go analogue of the
// teacher's functional-option Config (lib/nesInternal/nes_options.go).
type Config struct {
	Region          ppu.Region
	CycleAccurate   bool
	CPUUndocumented bool
	RamState        RamState
	RamSeed         int64
	RamCustom       []byte
	FourPlayer      controller.FourPlayer
}

func defaultConfig() Config {
	return Config{Region: ppu.NTSC, CycleAccurate: true}
}

// Option mutates a Config; New applies each in order, matching the
// teacher's `func(*GoNes) error` option signature.
type Option func(*Config) error

func WithRegion(r ppu.Region) Option {
	return func(c *Config) error { c.Region = r; return nil }
}

func WithCycleAccurate(on bool) Option {
	return func(c *Config) error { c.CycleAccurate = on; return nil }
}

func WithCPUUndocumented(on bool) Option {
	return func(c *Config) error { c.CPUUndocumented = on; return nil }
}

func WithRamState(s RamState, seed int64, custom []byte) Option {
	return func(c *Config) error {
		c.RamState = s
		c.RamSeed = seed
		c.RamCustom = custom
		return nil
	}
}

func WithFourPlayer(fp controller.FourPlayer) Option {
	return func(c *Config) error { c.FourPlayer = fp; return nil }
}

// apuRegion/ppuRegion translate the shared notion of Region across the
// ppu and apu packages, which intentionally don't depend on each other.
func apuRegion(r ppu.Region) apu.Region {
	switch r {
	case ppu.PAL:
		return apu.PAL
	case ppu.Dendy:
		return apu.Dendy
	default:
		return apu.NTSC
	}
}

// ppuDotsPerCPUCycle returns the region's PPU:CPU clock ratio as a
// numerator/denominator pair (spec §4.1 "Clock/Scheduler"): 3/1 on NTSC
// and Dendy, 16/5 on PAL (the one region where the ratio isn't integral).
func ppuDotsPerCPUCycle(r ppu.Region) (num, den int) {
	if r == ppu.PAL {
		return 16, 5
	}
	return 3, 1
}

// cpuMasterDivisor returns how many master clocks make up one CPU cycle
// in the given region (spec §4.1 "fixed integer divisors"): 12 on NTSC,
// 16 on PAL, 15 on Dendy.
func cpuMasterDivisor(r ppu.Region) uint64 {
	switch r {
	case ppu.PAL:
		return 16
	case ppu.Dendy:
		return 15
	default:
		return 12
	}
}

// Console owns every component and the master-cycle counter; it is the
// sole entry point for running the machine (spec §4.1).
type Console struct {
	cfg Config

	cpu  *cpu.CPU
	ppu  *ppu.PPU
	apu  *apu.APU
	bus  *bus.Bus
	mp   mapper.Mapper
	pads *controller.Ports
	cart *cartridge.Cartridge

	cpuDivisor  uint64 // master clocks per CPU cycle for cfg.Region
	masterCycle uint64
}

// New mounts cart and wires the full component graph. Cartridge parsing
// happens upstream (package ines); New never touches ROM bytes itself
// (spec §6 "ROM ingest").
func New(cart *cartridge.Cartridge, opts ...Option) (*Console, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, wrapErr(InvalidRom, err, "applying option")
		}
	}

	mp, err := mapper.New(cart)
	if err != nil {
		return nil, wrapErr(UnsupportedMapper, err, "selecting mapper for cartridge")
	}

	c := &Console{cfg: cfg, cart: cart, mp: mp, cpuDivisor: cpuMasterDivisor(cfg.Region)}
	c.pads = controller.New(cfg.FourPlayer)
	c.ppu = ppu.New(cfg.Region, mp)
	c.apu = apu.New(apuRegion(cfg.Region), nil) // mem reader wired below, after bus exists
	num, den := ppuDotsPerCPUCycle(cfg.Region)
	c.bus = bus.New(c.ppu, c.apu, c.pads, mp, num, den)
	c.apu.SetMemReader(c.bus)
	c.cpu = cpu.New(c.bus, cfg.CPUUndocumented)

	c.seedRAM()
	c.Reset()
	return c, nil
}

func (c *Console) seedRAM() {
	switch c.cfg.RamState {
	case AllOnes:
		c.bus.FillRAM(0xFF)
	case RandomSeed:
		c.bus.FillRAMFunc(lcgFill(c.cfg.RamSeed))
	case CustomBytes:
		c.bus.FillRAMBytes(c.cfg.RamCustom)
	default:
		c.bus.FillRAM(0x00)
	}
}

// lcgFill produces a deterministic pattern from seed without depending
// on math/rand's non-reproducible-across-versions algorithm (spec §5
// determinism requirement extends to the initial RAM fill itself).
func lcgFill(seed int64) func(i int) byte {
	state := uint64(seed)
	return func(i int) byte {
		state = state*6364136223846793005 + 1442695040888963407
		return byte(state >> 56)
	}
}

// Reset re-runs the CPU/PPU/APU/controller reset sequences without
// re-mounting the cartridge.
func (c *Console) Reset() {
	c.ppu.Reset()
	c.apu.Reset()
	c.pads.Reset()
	c.mp.Reset()
	c.cpu.Reset()
	c.bus.ResetClock()
	c.masterCycle = 0
}

// SetButtons latches a standard controller port's live state ahead of
// the next shift-register reload (spec §6 "Controller input").
func (c *Console) SetButtons(port int, buttons uint8) { c.pads.SetButtons(port, buttons) }

func (c *Console) SetExtraButtons(player int, buttons uint8) { c.pads.SetExtraButtons(player, buttons) }

// Step advances by exactly one CPU instruction (or one whole pending DMA
// stall) and
// returns the CPU cycles consumed. The PPU and APU are driven by the
// bus itself, one cycle at a time, from inside the CPU's own bus
// accesses (cpu.Bus.Tick) rather than in bulk once the instruction has
// finished — a mid-instruction register read or write observes the PPU
// and APU caught up to that exact cycle, matching the hardware's
// interleaving of CPU and PPU clocks (spec §4.1 "Clock/Scheduler").
func (c *Console) Step() int {
	cycles := c.cpu.Step()
	c.masterCycle += uint64(cycles) * c.cpuDivisor
	return cycles
}

// RunUntil advances the console until the master-cycle counter reaches
// or exceeds target (spec §4.1 `run_until`).
func (c *Console) RunUntil(masterCycles uint64) {
	for c.masterCycle < masterCycles {
		c.Step()
	}
}

// RunFrame advances until the PPU completes exactly one 256x240
// framebuffer (spec §4.1 `run_frame`).
func (c *Console) RunFrame() []uint8 {
	for !c.ppu.FrameReady() {
		c.Step()
	}
	return c.ppu.FrameBuffer()
}

// FrameReady and FrameBuffer let callers drive Step() themselves (e.g.
// to sample audio between CPU steps) instead of using RunFrame.
func (c *Console) FrameReady() bool   { return c.ppu.FrameReady() }
func (c *Console) FrameBuffer() []uint8 { return c.ppu.FrameBuffer() }

// Sample returns the APU's current mixed output sample; callers read it
// once per CPU cycle (the rate Step() advances the APU at) when building
// an audio stream.
func (c *Console) Sample() int32 { return c.apu.Sample() }

// BatteryRAM exposes PRG-RAM for persistence when the cartridge header's
// battery flag is set, nil otherwise (spec §6 "Persisted state").
func (c *Console) BatteryRAM() []byte {
	if !c.cart.Header.Battery {
		return nil
	}
	return c.cart.PrgRam
}

// Snapshot and Restore implement the bulk state interface (spec §4.7):
// every mutable component is serialized through a single gob stream.
func (c *Console) Snapshot() ([]byte, error) {
	var buf bytes.Buffer
	e := state.NewEncoder(&buf)
	if err := e.Encode(c.cpu, c.ppu, c.apu, c.bus, c.pads, c.mp,
		c.masterCycle); err != nil {
		return nil, wrapErr(InvalidSaveState, err, "encoding snapshot")
	}
	return buf.Bytes(), nil
}

func (c *Console) Restore(data []byte) error {
	prev, err := c.Snapshot()
	if err != nil {
		return err
	}
	d := state.NewDecoder(bytes.NewBuffer(data))
	if err := d.Decode(c.cpu, c.ppu, c.apu, c.bus, c.pads, c.mp,
		&c.masterCycle); err != nil {
		// Put back the state taken above, so a failed restore leaves
		// every component as it was.
		back := state.NewDecoder(bytes.NewBuffer(prev))
		_ = back.Decode(c.cpu, c.ppu, c.apu, c.bus, c.pads, c.mp, &c.masterCycle)
		return wrapErr(InvalidSaveState, err, "decoding snapshot")
	}
	return nil
}
