package ppu

import "github.com/doinkythederp/tetanes/state"

func (p *PPU) Snapshot(e *state.Encoder) error {
	return e.Encode(p.ctrl, p.mask, p.status, p.oamAddr, p.v, p.t, p.fineX, p.w,
		p.readBuffer, p.lastWritten, p.nametable, p.palette, p.oam, p.secOAM,
		p.sprites, p.spriteCount, p.scanline, p.dot, p.frame, p.oddFrame,
		p.nmiOutput, p.nmiOccurred, p.nmiDelay, p.a12Level, p.nametableByte,
		p.attrByte, p.patternLoByte, p.patternHiByte, p.bgShiftLo, p.bgShiftHi,
		p.attrShiftLo, p.attrShiftHi, p.suppressVBlank, p.frameBuf, p.frameReady)
}

func (p *PPU) Restore(d *state.Decoder) error {
	return d.Decode(&p.ctrl, &p.mask, &p.status, &p.oamAddr, &p.v, &p.t, &p.fineX, &p.w,
		&p.readBuffer, &p.lastWritten, &p.nametable, &p.palette, &p.oam, &p.secOAM,
		&p.sprites, &p.spriteCount, &p.scanline, &p.dot, &p.frame, &p.oddFrame,
		&p.nmiOutput, &p.nmiOccurred, &p.nmiDelay, &p.a12Level, &p.nametableByte,
		&p.attrByte, &p.patternLoByte, &p.patternHiByte, &p.bgShiftLo, &p.bgShiftHi,
		&p.attrShiftLo, &p.attrShiftHi, &p.suppressVBlank, &p.frameBuf, &p.frameReady)
}
