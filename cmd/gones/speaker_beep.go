package main

import (
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

// beepSpeaker streams console samples through faiface/beep, grounded on
// the teacher's nes/speaker_beep.go Speaker type.
type beepSpeaker struct {
	buf        *circularBuffer
	sampleRate beep.SampleRate
}

func (s *beepSpeaker) Init() {
	s.sampleRate = beep.SampleRate(44100)
	s.buf = newCircularBuffer(s.sampleRate.N(time.Second / 5))
	speaker.Init(s.sampleRate, s.sampleRate.N(time.Second/10))
	speaker.Play(s.stream())
}

func (s *beepSpeaker) stream() beep.Streamer {
	pair := make([][2]float64, 1)
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			if s.buf.ReadInto(pair) == 0 {
				samples[i][0], samples[i][1] = 0, 0
				continue
			}
			samples[i] = pair[0]
		}
		return len(samples), true
	})
}

func (s *beepSpeaker) Sample(v float64) { _ = s.buf.Write(v) }

func (s *beepSpeaker) Stop() { speaker.Close() }
