package ppu

// spriteEval stands in for the dots 65-256 primary-OAM scan and dots
// 257-320 pattern fetch that real hardware spreads across the scanline;
// for simplicity (documented here, not hidden) both run in one shot at
// dot 257, after the visible dots have been drawn from the previous
// scanline's sprites. The sprite-overflow flag therefore rises at dot
// 257, and mappers that watch PPU reads (MMC3's A12 counter, MMC2/MMC4's
// CHR latches) see the sprite pattern fetches arrive together at that dot.
func (p *PPU) spriteEval() {
	if !p.showSprites() {
		return
	}
	switch p.dot {
	case 1:
		for i := range p.secOAM {
			p.secOAM[i] = 0xFF
		}
	case 257:
		p.evaluateSprites()
		p.fetchSpritePatterns()
	}
}

// evaluateSprites scans primary OAM for sprites in range of the NEXT
// scanline, keeping the first 8 and reproducing the well-known buggy
// diagonal continuation of the scan that sets sprite overflow.
func (p *PPU) evaluateSprites() {
	targetY := p.scanline
	height := p.spriteHeight()

	count := 0
	var found [8]int
	n := 0
	for n < 64 && count < 8 {
		y := int(p.oam[n*4])
		if targetY >= y && targetY < y+height {
			found[count] = n
			count++
		}
		n++
	}

	if count == 8 {
		// Hardware bug: once the first 8 in-range sprites are found, real
		// evaluation hardware keeps scanning for a 9th but never resets
		// its byte offset back to a sprite's Y byte, so it walks
		// diagonally through the rest of OAM comparing whatever byte
		// it lands on against the Y range — producing both false
		// overflow positives and missed negatives on real hardware.
		m := 0
		for n < 64 {
			y := int(p.oam[n*4+m])
			if targetY >= y && targetY < y+height {
				p.status |= statusOverflow
				break
			}
			m = (m + 1) & 3
			n++
		}
	}

	p.spriteCount = count
	for i := 0; i < count; i++ {
		idx := found[i]
		p.sprites[i].ID = uint8(idx)
		p.sprites[i].Y = p.oam[idx*4]
		p.sprites[i].Tile = p.oam[idx*4+1]
		p.sprites[i].Attr = p.oam[idx*4+2]
		p.sprites[i].X = p.oam[idx*4+3]
	}
}

func (p *PPU) fetchSpritePatterns() {
	height := p.spriteHeight()
	for i := 0; i < p.spriteCount; i++ {
		s := &p.sprites[i]
		row := p.scanline - int(s.Y)
		if s.Attr&0x80 != 0 { // vertical flip
			row = height - 1 - row
		}
		var table uint16
		var tile uint8
		if height == 16 {
			table = uint16(s.Tile&1) * 0x1000
			tile = s.Tile &^ 1
			if row >= 8 {
				tile++
				row -= 8
			}
		} else {
			table = p.spritePatternTable()
			tile = s.Tile
		}
		base := table | uint16(tile)<<4 | uint16(row)
		s.PatternLo = p.busRead(base)
		s.PatternHi = p.busRead(base | 8)
	}
}

// spritePixelAt returns the color/palette/priority of whichever visible
// sprite (lowest OAM index wins ties) covers x on the current scanline,
// and whether that sprite is OAM index 0 (for sprite-0 hit).
func (p *PPU) spritePixelAt(x int) (color, pal uint8, priority, isSprite0 bool) {
	for i := 0; i < p.spriteCount; i++ {
		s := &p.sprites[i]
		offset := x - int(s.X)
		if offset < 0 || offset > 7 {
			continue
		}
		col := offset
		if s.Attr&0x40 != 0 { // horizontal flip
			col = 7 - offset
		}
		shift := uint(7 - col)
		b0 := (s.PatternLo >> shift) & 1
		b1 := (s.PatternHi >> shift) & 1
		c := b0 | b1<<1
		if c == 0 {
			continue
		}
		return c, s.Attr & 0x03, s.Attr&0x20 == 0, s.ID == 0
	}
	return 0, 0, false, false
}
