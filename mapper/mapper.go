// Package mapper implements the per-cartridge address translation,
// bank switching, CHR/PRG windowing, mapper IRQs and battery SRAM
// described in spec §4.5. A Mapper is a tagged-variant dispatch target
// (spec §9 "Polymorphism over mappers") — each cartridge gets exactly one
// concrete Mapper value selected by New.
package mapper

import (
	"fmt"

	"github.com/doinkythederp/tetanes/cartridge"
	"github.com/doinkythederp/tetanes/state"
)

// Mapper is the capability set every cartridge variant implements
// (spec §4.5).
type Mapper interface {
	state.Snapshotable

	CPURead(addr uint16) uint8
	CPUWrite(addr uint16, val uint8)
	PPURead(addr uint16) uint8
	PPUWrite(addr uint16, val uint8)

	// OnA12Change is called by the PPU bus on every change of PPU address
	// bit 12; level is the new level. Rising edges clock MMC3-style IRQ
	// counters (spec §4.3 "A12 edge notification").
	OnA12Change(level bool)
	// OnCPUCycle is called once per CPU cycle, used by mappers whose IRQ
	// counter is driven by CPU time rather than A12 (e.g. FME-7).
	OnCPUCycle()

	IRQ() bool
	Reset()

	// Mirroring returns the mapper-controlled nametable mirroring mode;
	// mappers that don't control mirroring return the cartridge header's
	// static value.
	Mirroring() cartridge.Mirroring
}

// New selects the concrete Mapper implementation for a cartridge's header
// (spec §4.5 "Required variants").
func New(cart *cartridge.Cartridge) (Mapper, error) {
	switch cart.Header.Mapper {
	case 0:
		return newNROM(cart), nil
	case 1:
		return newMMC1(cart), nil
	case 2:
		return newUxROM(cart), nil
	case 3:
		return newCNROM(cart), nil
	case 4:
		return newMMC3(cart), nil
	case 7:
		return newAxROM(cart), nil
	case 9:
		return newMMC2(cart), nil
	case 10:
		return newMMC4(cart), nil
	case 11:
		return newColorDreams(cart), nil
	case 66:
		return newGxROM(cart), nil
	case 69:
		return newFME7(cart), nil
	default:
		return nil, fmt.Errorf("mapper: unsupported mapper id %d", cart.Header.Mapper)
	}
}

// staticMirroring embeds the cartridge header's fixed mirroring for
// mappers that don't control it themselves.
type staticMirroring struct {
	cart *cartridge.Cartridge
}

func (s staticMirroring) Mirroring() cartridge.Mirroring { return s.cart.Header.Mirroring }

// noIRQ is embedded by mappers with no IRQ line.
type noIRQ struct{}

func (noIRQ) OnA12Change(bool) {}
func (noIRQ) OnCPUCycle()      {}
func (noIRQ) IRQ() bool        { return false }

// prgRamWindow implements the common $6000-$7FFF 8KiB PRG-RAM window
// shared by most mappers.
func prgRamWindow(cart *cartridge.Cartridge, addr uint16) (ok bool, idx int) {
	if addr < 0x6000 || addr >= 0x8000 || cart.PrgRam == nil {
		return false, 0
	}
	return true, int(addr-0x6000) % len(cart.PrgRam)
}
