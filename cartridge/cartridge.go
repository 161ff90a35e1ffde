// Package cartridge defines the cartridge record the core consumes. Per
// spec §6 "ROM ingest", the core never parses ROM bytes itself — a
// collaborator (package ines, or any caller) builds a Cartridge value and
// hands it to the core. See spec §3 "Cartridge".
package cartridge

import (
	"crypto/md5"

	"github.com/doinkythederp/tetanes/state"
)

// Mirroring selects how the PPU's 2KiB nametable RAM is mapped across the
// four logical 1KiB nametables (spec §4.5 "Nametable mirroring variants").
type Mirroring uint8

const (
	Horizontal Mirroring = iota
	Vertical
	SingleScreenA
	SingleScreenB
	FourScreen
)

// Header is the immutable, parsed cartridge header (spec §3 "Cartridge").
type Header struct {
	Mapper     uint16 // full 12-bit mapper number (iNES low byte + NES2.0 high nibble)
	Submapper  uint8
	Mirroring  Mirroring
	Battery    bool
	PrgBanks   int // count of 16KiB PRG ROM banks
	ChrBanks   int // count of 8KiB CHR ROM banks
	PrgRamSize int // bytes, 0 if none
	ChrRamSize int // bytes, 0 if CHR is ROM
	NES2       bool
	// PalTiming is only meaningful when NES2 is set (byte 12 of the NES 2.0
	// header); otherwise region comes entirely from Config.Region.
	PalTiming bool
}

// Cartridge is the immutable record the core mounts at load time. PRG/CHR
// ROM are read-only; PrgRam and ChrRam (when CHR is RAM, not ROM) are the
// only mutable regions, and PrgRam is the one battery-save collaborators
// persist (spec §6 "Persisted state").
type Cartridge struct {
	Header Header

	PrgRom []byte
	ChrRom []byte // empty when the cartridge uses CHR RAM

	PrgRam []byte // nil if PrgRamSize == 0
	ChrRam []byte // nil unless ChrRom is empty

	// FourScreenRam is the extra 2KiB of nametable RAM a FourScreen
	// cartridge carries (spec §3). It is allocated and snapshotted here,
	// but the PPU does not read it: it keeps all four nametables in its
	// own 4KiB array.
	FourScreenRam []byte
}

// New builds a Cartridge record from already-decoded pieces. Used by the
// ines loader and directly by tests that want a synthetic cartridge.
func New(h Header, prgRom, chrRom []byte) *Cartridge {
	c := &Cartridge{Header: h, PrgRom: prgRom, ChrRom: chrRom}
	if h.PrgRamSize > 0 {
		c.PrgRam = make([]byte, h.PrgRamSize)
	}
	if len(chrRom) == 0 {
		size := h.ChrRamSize
		if size == 0 {
			size = 8192
		}
		c.ChrRam = make([]byte, size)
	}
	if h.Mirroring == FourScreen {
		c.FourScreenRam = make([]byte, 2048)
	}
	return c
}

// PrgHash identifies the ROM for battery-save/state file naming, the same
// way the teacher's Rom.Hash does.
func (c *Cartridge) PrgHash() [md5.Size]byte {
	return md5.Sum(c.PrgRom)
}

// UsesChrRam reports whether PPU pattern-table writes are legal.
func (c *Cartridge) UsesChrRam() bool { return len(c.ChrRom) == 0 }

func (c *Cartridge) Snapshot(e *state.Encoder) error {
	return e.Encode(c.PrgRam, c.ChrRam, c.FourScreenRam)
}
func (c *Cartridge) Restore(d *state.Decoder) error {
	return d.Decode(&c.PrgRam, &c.ChrRam, &c.FourScreenRam)
}

// ResolveNametable maps a $2000-$3EFF PPU address to the index of the
// 1KiB physical nametable it selects: 0-1 for the 2KiB of console
// nametable RAM, or 0-3 under FourScreen, per the mirroring rules in
// spec §3/§4.5.
func ResolveNametable(m Mirroring, addr uint16) (table int) {
	addr &= 0x0FFF
	table = int(addr / 0x400)
	switch m {
	case Horizontal:
		// $2000==$2400, $2800==$2C00
		return table / 2
	case Vertical:
		// $2000==$2800, $2400==$2C00
		return table % 2
	case SingleScreenA:
		return 0
	case SingleScreenB:
		return 1
	case FourScreen:
		return table
	default:
		return table % 2
	}
}
