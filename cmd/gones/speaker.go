package main

// AudioLib selects the audio backend, mirroring the teacher's
// lib/speakers.AudioLib selection switch.
type AudioLib string

const (
	AudioNil  AudioLib = "nil"
	AudioBeep AudioLib = "beep"
	AudioPort AudioLib = "portaudio"
	AudioOto  AudioLib = "oto"
)

// Speaker receives mixed samples from the console's APU, one every
// audioDecimation CPU cycles (see main.go), and is responsible for
// buffering them to its own output rate (spec §6 "Audio output":
// "Resampling ... is the collaborator's responsibility").
type Speaker interface {
	Init()
	Stop()
	// Sample accepts one decimated sample, normalized to [0, 1]; it
	// never blocks the caller — drops on backpressure.
	Sample(v float64)
}

func NewSpeaker(lib AudioLib) Speaker {
	switch lib {
	case AudioBeep:
		return &beepSpeaker{}
	case AudioPort:
		return &portSpeaker{}
	case AudioOto:
		return &otoSpeaker{}
	default:
		return &nilSpeaker{}
	}
}

type nilSpeaker struct{}

func (*nilSpeaker) Init()          {}
func (*nilSpeaker) Stop()          {}
func (*nilSpeaker) Sample(float64) {}
