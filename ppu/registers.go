package ppu

// loopy-v/loopy-t field accessors, following the standard convention:
// yyy NN YYYYY XXXXX
// ||| || ||||| +++++-- coarse X scroll
// ||| || +++++-------- coarse Y scroll
// ||| ++-------------- nametable select
// +++----------------- fine Y scroll

func coarseX(v uint16) uint16 { return v & 0x001F }
func coarseY(v uint16) uint16 { return (v >> 5) & 0x001F }
func fineY(v uint16) uint16   { return (v >> 12) & 0x0007 }

func setCoarseX(v uint16, x uint16) uint16 { return v&^0x001F | x&0x001F }
func setCoarseY(v uint16, y uint16) uint16 { return v&^0x03E0 | (y&0x001F)<<5 }
func setFineY(v uint16, y uint16) uint16   { return v&^0x7000 | (y&0x0007)<<12 }

// CPURead handles a CPU-visible register read at $2000-$2007 (mirrored
// every 8 bytes through $3FFF by the bus).
func (p *PPU) CPURead(reg uint16) uint8 {
	switch reg & 7 {
	case 2: // PPUSTATUS
		v := p.status&(statusOverflow|statusSprite0) | p.readVBlankBits()
		p.w = false
		return v | p.lastWritten&0x1F
	case 4: // OAMDATA
		return p.oam[p.oamAddr]
	case 7: // PPUDATA
		return p.readData()
	default:
		return p.lastWritten
	}
}

// readVBlankBits implements the documented VBlank-suppression quirk:
// a read at exactly dot 1 of scanline 241 sees VBlank clear and
// suppresses the NMI this frame would otherwise have raised.
func (p *PPU) readVBlankBits() uint8 {
	if p.scanline == 241 && p.dot == 1 {
		p.suppressVBlank = true
		return 0
	}
	v := uint8(0)
	if p.nmiOccurred {
		v = statusVBlank
	}
	p.nmiOccurred = false
	return v
}

func (p *PPU) readData() uint8 {
	addr := p.v & 0x3FFF
	var v uint8
	if addr >= 0x3F00 {
		v = p.readPalette(addr)
		p.readBuffer = p.busRead(addr - 0x1000)
	} else {
		v = p.readBuffer
		p.readBuffer = p.busRead(addr)
	}
	p.incrementAddr()
	return v
}

func (p *PPU) incrementAddr() {
	if p.ctrl&ctrlIncrement32 != 0 {
		p.v += 32
	} else {
		p.v++
	}
}

// CPUWrite handles a CPU-visible register write at $2000-$2007.
func (p *PPU) CPUWrite(reg uint16, v uint8) {
	p.lastWritten = v
	switch reg & 7 {
	case 0: // PPUCTRL
		prevNMI := p.ctrl&ctrlNMIEnable != 0
		p.ctrl = v
		p.t = p.t&^0x0C00 | uint16(v&ctrlNametableMask)<<10
		p.nmiOutput = v&ctrlNMIEnable != 0
		if !prevNMI && p.nmiOutput && p.nmiOccurred {
			p.nmiDelay = 1
		}
	case 1: // PPUMASK
		p.mask = v
	case 3: // OAMADDR
		p.oamAddr = v
	case 4: // OAMDATA
		p.oam[p.oamAddr] = v
		p.oamAddr++
	case 5: // PPUSCROLL
		if !p.w {
			p.fineX = v & 0x07
			p.t = setCoarseX(p.t, uint16(v>>3))
		} else {
			p.t = setFineY(p.t, uint16(v&0x07))
			p.t = setCoarseY(p.t, uint16(v>>3))
		}
		p.w = !p.w
	case 6: // PPUADDR
		if !p.w {
			p.t = p.t&0x00FF | uint16(v&0x3F)<<8
		} else {
			p.t = p.t&0xFF00 | uint16(v)
			p.v = p.t
		}
		p.w = !p.w
	case 7: // PPUDATA
		p.busWrite(p.v&0x3FFF, v)
		p.incrementAddr()
	}
}

// WriteOAMDMA is used by the bus for the $4014 OAM DMA transfer: it
// bypasses the OAMADDR auto-increment quirks of normal $2004 writes in
// the same way a real DMA cycle does (writes 256 bytes starting at the
// current OAMADDR, wrapping).
func (p *PPU) WriteOAMDMA(data []byte) {
	for _, b := range data {
		p.oam[p.oamAddr] = b
		p.oamAddr++
	}
}
