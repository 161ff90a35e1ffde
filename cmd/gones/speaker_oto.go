package main

import "github.com/hajimehoshi/oto"

// otoSpeaker drives output through hajimehoshi/oto, grounded on the
// teacher's lib/speakers/speaker_oto.go SpeakerOto type.
type otoSpeaker struct {
	buf     *circularBuffer
	context *oto.Context
	player  *oto.Player

	sampleRate int
	chunk      int
}

func (s *otoSpeaker) Init() {
	s.sampleRate = 44100
	s.chunk = s.sampleRate / 100
	s.buf = newCircularBuffer(s.sampleRate / 5)

	ctx, err := oto.NewContext(s.sampleRate, 2, 2, s.chunk*4)
	if err != nil {
		panic(err)
	}
	s.context = ctx
	s.player = ctx.NewPlayer()

	go s.pump()
}

func (s *otoSpeaker) pump() {
	pair := make([][2]float64, s.chunk)
	buf := make([]byte, s.chunk*4)
	for {
		n := s.buf.ReadInto(pair)
		if n == 0 {
			continue
		}
		for i := 0; i < n; i++ {
			sample := int16(pair[i][0] * 32767)
			buf[i*4] = byte(sample)
			buf[i*4+1] = byte(sample >> 8)
			buf[i*4+2] = byte(sample)
			buf[i*4+3] = byte(sample >> 8)
		}
		if _, err := s.player.Write(buf[:n*4]); err != nil {
			return
		}
	}
}

func (s *otoSpeaker) Sample(v float64) { _ = s.buf.Write(v) }

func (s *otoSpeaker) Stop() {
	_ = s.player.Close()
	_ = s.context.Close()
}
