package main

import (
	"image/color"

	"github.com/doinkythederp/tetanes/ppu"
	"github.com/faiface/pixel"
	"github.com/faiface/pixel/pixelgl"
)

const screenScale = 3

// video owns the pixelgl window and the PictureData backing the
// console's framebuffer, grounded on the teacher's nes/screen.go run().
type video struct {
	win *pixelgl.Window
	pic *pixel.PictureData
	spr *pixel.Sprite
}

func newVideo() *video {
	cfg := pixelgl.WindowConfig{
		Title:  "tetanes",
		Bounds: pixel.R(0, 0, ppu.Width*screenScale, ppu.Height*screenScale),
		VSync:  true,
	}
	win, err := pixelgl.NewWindow(cfg)
	if err != nil {
		panic(err)
	}
	pic := &pixel.PictureData{
		Pix:    make([]color.RGBA, ppu.Width*ppu.Height),
		Stride: ppu.Width,
		Rect:   pixel.R(0, 0, ppu.Width, ppu.Height),
	}
	return &video{win: win, pic: pic, spr: pixel.NewSprite(pic, pic.Rect)}
}

func (v *video) Closed() bool { return v.win.Closed() }

// Draw blits a native index-form framebuffer (spec §6) through the NES
// palette LUT. pixel.PictureData is bottom-up, so rows are flipped.
func (v *video) Draw(frame []uint8) {
	for y := 0; y < ppu.Height; y++ {
		for x := 0; x < ppu.Width; x++ {
			v.pic.Pix[(ppu.Height-1-y)*ppu.Width+x] = nesPalette[frame[y*ppu.Width+x]&0x3F]
		}
	}
	v.win.Clear(color.Black)
	v.spr.Draw(v.win, pixel.IM.
		ScaledXY(pixel.ZV, pixel.V(screenScale, screenScale)).
		Moved(v.win.Bounds().Center()))
	v.win.Update()
}

// ReadButtons samples the keyboard into a standard-controller button
// mask, in the A,B,Select,Start,Up,Down,Left,Right bit order (spec
// §4.6).
func (v *video) ReadButtons() uint8 {
	var b uint8
	press := func(key pixelgl.Button, bit uint8) {
		if v.win.Pressed(key) {
			b |= bit
		}
	}
	press(pixelgl.KeyZ, 1<<0)         // A
	press(pixelgl.KeyX, 1<<1)         // B
	press(pixelgl.KeyRightShift, 1<<2) // Select
	press(pixelgl.KeyEnter, 1<<3)      // Start
	press(pixelgl.KeyUp, 1<<4)
	press(pixelgl.KeyDown, 1<<5)
	press(pixelgl.KeyLeft, 1<<6)
	press(pixelgl.KeyRight, 1<<7)
	return b
}
