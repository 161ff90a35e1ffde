package main

import "github.com/gordonklaus/portaudio"

// portSpeaker drives output through PortAudio directly, grounded on the
// teacher's nes/speaker_port.go SpeakerPort type.
type portSpeaker struct {
	buf    *circularBuffer
	stream *portaudio.Stream
}

func (s *portSpeaker) Init() {
	if err := portaudio.Initialize(); err != nil {
		panic(err)
	}
	h, err := portaudio.DefaultHostApi()
	if err != nil {
		panic(err)
	}
	params := portaudio.HighLatencyParameters(nil, h.DefaultOutputDevice)
	params.Output.Channels = 1
	s.buf = newCircularBuffer(int(params.SampleRate))
	s.stream, err = portaudio.OpenStream(params, s.process)
	if err != nil {
		panic(err)
	}
	if err := s.stream.Start(); err != nil {
		panic(err)
	}
}

func (s *portSpeaker) process(out []float32) {
	pair := make([][2]float64, 1)
	for i := range out {
		if s.buf.ReadInto(pair) == 0 {
			out[i] = 0
			continue
		}
		out[i] = float32(pair[0][0])
	}
}

func (s *portSpeaker) Sample(v float64) { _ = s.buf.Write(v) }

func (s *portSpeaker) Stop() {
	_ = s.stream.Close()
	portaudio.Terminate()
}
