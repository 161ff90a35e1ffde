// Package memory implements the bus's internal RAM region plus an
// open-bus latch type. OAM, secondary OAM and nametable RAM are plain
// arrays inside package ppu. See spec §3 "Memory regions" and "Open bus".
package memory

import "github.com/doinkythederp/tetanes/state"

// Ram is a flat byte region, snapshotted through the state package's gob
// stream, used for the CPU's 2KiB internal RAM.
type Ram struct {
	data []byte
}

func NewRam(size int) *Ram {
	return &Ram{data: make([]byte, size)}
}

func (r *Ram) Len() int { return len(r.data) }

func (r *Ram) Read8(addr uint16) uint8 {
	return r.data[int(addr)%len(r.data)]
}

func (r *Ram) Write8(addr uint16, val uint8) {
	r.data[int(addr)%len(r.data)] = val
}

// Fill seeds the region per the ramstate configuration option (spec §6).
func (r *Ram) Fill(pattern byte) {
	for i := range r.data {
		r.data[i] = pattern
	}
}

func (r *Ram) FillFunc(f func(i int) byte) {
	for i := range r.data {
		r.data[i] = f(i)
	}
}

func (r *Ram) Bytes() []byte { return r.data }

func (r *Ram) Snapshot(e *state.Encoder) error {
	return e.Encode(r.data)
}
func (r *Ram) Restore(d *state.Decoder) error {
	return d.Decode(&r.data)
}

// OpenBus models the CPU data bus latch: the last byte driven by either a
// read or a write, returned for reads of unmapped or write-only addresses
// (spec §3 "Open bus", §8 invariant). Nothing in the core uses this type:
// bus.Bus keeps its own latch.
type OpenBus struct {
	latch uint8
}

func (b *OpenBus) Value() uint8 { return b.latch }

// Drive updates the latch after any read or write that actually places a
// byte on the bus.
func (b *OpenBus) Drive(val uint8) { b.latch = val }

// Merge combines defined bits from val with open-bus bits from the latch,
// per mask (1 = defined bit, 0 = open-bus bit). The bus and the PPU merge
// their open-bus bits themselves (bus.Bus.openBus for the controller
// ports, ppu.PPU.CPURead for PPUSTATUS) and do not call it.
func (b *OpenBus) Merge(val uint8, mask uint8) uint8 {
	return (val & mask) | (b.latch &^ mask)
}

func (b *OpenBus) Snapshot(e *state.Encoder) error {
	return e.Encode(b.latch)
}
func (b *OpenBus) Restore(d *state.Decoder) error {
	return d.Decode(&b.latch)
}
