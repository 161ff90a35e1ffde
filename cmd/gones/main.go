// Command gones is a demo frontend for the tetanes core: pixelgl video
// output and a selectable audio backend, grounded on the teacher's
// main.go/nes/screen.go/nes/speaker_*.go.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/doinkythederp/tetanes"
	"github.com/doinkythederp/tetanes/ines"
	"github.com/faiface/pixel/pixelgl"
)

// audioDecimation approximates downsampling the console's ~1.789MHz
// per-cycle mixer output to a speaker-friendly rate without a real
// resampling filter (spec §6 "Resampling ... is the collaborator's
// responsibility" — this frontend's responsibility is discharged here,
// crudely, by simple decimation).
const audioDecimation = 40

func validRomPath(path string) error {
	stat, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("rom path %q does not exist or is not valid", path)
	}
	if stat.IsDir() {
		return fmt.Errorf("rom path %q points to a directory", path)
	}
	return nil
}

func run() {
	romPath := flag.String("rom", "", "path to the iNES ROM file to run")
	audioLib := flag.String("audio", string(AudioBeep), "audio backend: nil, beep, portaudio, oto")
	flag.Parse()

	if err := validRomPath(*romPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	f, err := os.Open(*romPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer f.Close()

	cart, err := ines.Load(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	console, err := tetanes.New(cart)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	speaker := NewSpeaker(AudioLib(*audioLib))
	speaker.Init()
	defer speaker.Stop()

	win := newVideo()

	var sampleCounter int
	for !win.Closed() {
		console.SetButtons(0, win.ReadButtons())

		for !console.FrameReady() {
			cycles := console.Step()
			for i := 0; i < cycles; i++ {
				sampleCounter++
				if sampleCounter >= audioDecimation {
					sampleCounter = 0
					speaker.Sample(float64(console.Sample()) / 1_000_000)
				}
			}
		}
		win.Draw(console.FrameBuffer())
	}
}

func main() {
	pixelgl.Run(run)
}
