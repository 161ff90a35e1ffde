package ppu

// Step advances the PPU by exactly one dot, implementing the background
// fetch pipeline, sprite evaluation, VBlank/NMI timing, and the NTSC
// odd-frame skip (spec §4.3). Callers advance the PPU three times per
// NTSC or Dendy CPU cycle and 16 times per 5 CPU cycles on PAL, per the
// scheduler's clock divisors.
func (p *PPU) Step() {
	p.tick()
}

func (p *PPU) tick() {
	renderLine := p.scanline < 240
	preRender := p.scanline == p.totalScanlines()-1
	visibleCycle := p.dot >= 1 && p.dot <= 256
	fetchCycle := visibleCycle || (p.dot >= 321 && p.dot <= 336)

	if p.rendering() {
		if renderLine || preRender {
			if fetchCycle {
				p.backgroundFetch()
			}
			if p.dot == 256 {
				p.incrementY()
			}
			if p.dot == 257 {
				p.copyHorizontal()
			}
		}
		if preRender && p.dot >= 280 && p.dot <= 304 {
			p.copyVertical()
		}
		if renderLine {
			p.spriteEval()
		}
	}

	if renderLine && visibleCycle {
		p.renderPixel()
	}

	if p.scanline == 241 && p.dot == 1 {
		p.nmiOccurred = !p.suppressVBlank
		p.status |= statusVBlank
		p.suppressVBlank = false
	}
	if preRender && p.dot == 1 {
		p.status &^= statusVBlank | statusSprite0 | statusOverflow
		p.nmiOccurred = false
	}

	p.advanceDot(preRender)
}

func (p *PPU) totalScanlines() int { return p.region.scanlines() }

func (p *PPU) advanceDot(preRender bool) {
	p.dot++
	maxDot := 340
	if preRender && p.oddFrame && p.region == NTSC && p.rendering() {
		maxDot = 339
	}
	if p.dot > maxDot {
		p.dot = 0
		p.scanline++
		if p.scanline >= p.totalScanlines() {
			p.scanline = 0
			p.frame++
			p.oddFrame = !p.oddFrame
			p.frameReady = true
		}
	}
}

func (p *PPU) backgroundFetch() {
	switch p.dot % 8 {
	case 0:
		p.reloadShifters()
		p.incrementCoarseX()
	case 1:
		p.shiftBackground()
		ntAddr := 0x2000 | (p.v & 0x0FFF)
		p.nametableByte = p.busRead(ntAddr)
	case 2:
		p.shiftBackground()
	case 3:
		p.shiftBackground()
		attrAddr := 0x23C0 | (p.v & 0x0C00) | ((coarseY(p.v) >> 2) << 3) | (coarseX(p.v) >> 2)
		at := p.busRead(attrAddr)
		if coarseY(p.v)&2 != 0 {
			at >>= 4
		}
		if coarseX(p.v)&2 != 0 {
			at >>= 2
		}
		p.attrByte = at & 0x03
	case 4:
		p.shiftBackground()
	case 5:
		p.shiftBackground()
		p.patternLoByte = p.busRead(p.bgPatternTable() | uint16(p.nametableByte)<<4 | fineY(p.v))
	case 6:
		p.shiftBackground()
	case 7:
		p.shiftBackground()
		p.patternHiByte = p.busRead(p.bgPatternTable() | uint16(p.nametableByte)<<4 | fineY(p.v) | 8)
	}
}

func (p *PPU) reloadShifters() {
	p.bgShiftLo = p.bgShiftLo&0xFF00 | uint16(p.patternLoByte)
	p.bgShiftHi = p.bgShiftHi&0xFF00 | uint16(p.patternHiByte)
	lo, hi := uint16(0), uint16(0)
	if p.attrByte&1 != 0 {
		lo = 0x00FF
	}
	if p.attrByte&2 != 0 {
		hi = 0x00FF
	}
	p.attrShiftLo = p.attrShiftLo&0xFF00 | lo
	p.attrShiftHi = p.attrShiftHi&0xFF00 | hi
}

func (p *PPU) shiftBackground() {
	if !p.showBackground() {
		return
	}
	p.bgShiftLo <<= 1
	p.bgShiftHi <<= 1
	p.attrShiftLo <<= 1
	p.attrShiftHi <<= 1
}

func (p *PPU) incrementCoarseX() {
	if !p.rendering() {
		return
	}
	if coarseX(p.v) == 31 {
		p.v &^= 0x001F
		p.v ^= 0x0400
	} else {
		p.v++
	}
}

func (p *PPU) incrementY() {
	if !p.rendering() {
		return
	}
	if fineY(p.v) < 7 {
		p.v += 0x1000
		return
	}
	p.v &^= 0x7000
	y := coarseY(p.v)
	switch y {
	case 29:
		y = 0
		p.v ^= 0x0800
	case 31:
		y = 0
	default:
		y++
	}
	p.v = setCoarseY(p.v, y)
}

func (p *PPU) copyHorizontal() {
	if !p.rendering() {
		return
	}
	p.v = p.v&^0x041F | p.t&0x041F
}

func (p *PPU) copyVertical() {
	if !p.rendering() {
		return
	}
	p.v = p.v&^0x7BE0 | p.t&0x7BE0
}

func (p *PPU) bgPixel() (colorIdx, paletteIdx uint8) {
	if !p.showBackground() {
		return 0, 0
	}
	shift := uint(15 - p.fineX)
	b0 := uint8(p.bgShiftLo>>shift) & 1
	b1 := uint8(p.bgShiftHi>>shift) & 1
	pal0 := uint8(p.attrShiftLo>>shift) & 1
	pal1 := uint8(p.attrShiftHi>>shift) & 1
	return b0 | b1<<1, pal0 | pal1<<1
}

func (p *PPU) renderPixel() {
	x := p.dot - 1
	y := p.scanline

	bgColor, bgPal := p.bgPixel()
	if x < 8 && p.mask&maskBgLeft == 0 {
		bgColor = 0
	}

	spColor, spPal, spPriority, spIsSprite0 := p.spritePixelAt(x)
	if x < 8 && p.mask&maskSpriteLeft == 0 {
		spColor = 0
	}

	if spIsSprite0 && bgColor != 0 && spColor != 0 && x != 255 {
		p.status |= statusSprite0
	}

	var addr uint16
	switch {
	case bgColor == 0 && spColor == 0:
		addr = 0x3F00
	case bgColor == 0:
		addr = 0x3F10 + uint16(spPal)*4 + uint16(spColor)
	case spColor == 0:
		addr = 0x3F00 + uint16(bgPal)*4 + uint16(bgColor)
	case spPriority:
		addr = 0x3F00 + uint16(bgPal)*4 + uint16(bgColor)
	default:
		addr = 0x3F10 + uint16(spPal)*4 + uint16(spColor)
	}

	idx := y*Width + x
	if idx >= 0 && idx < len(p.frameBuf) {
		p.frameBuf[idx] = p.readPalette(addr) & 0x3F
	}
}
