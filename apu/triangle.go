package apu

// triangle implements the $4008-$400B linear-counter channel. Unlike the
// pulse/noise channels its timer is clocked every CPU cycle, not every
// other one, and it has no envelope — only a 15..0..0..15 step sequence
// driven straight into the mixer.
type triangle struct {
	TimerPeriod uint16
	Timer       uint16
	Step        uint8

	LinearReload  uint8
	LinearCounter uint8
	LinearControl bool
	ReloadFlag    bool

	Length lengthCounter
}

func (t *triangle) writeReg(reg uint16, v uint8) {
	switch reg {
	case 0:
		t.LinearControl = v&0x80 != 0
		t.Length.Halt = t.LinearControl
		t.LinearReload = v & 0x7F
	case 1:
		// unused ($400A gap in the real register map, kept for symmetry)
	case 2:
		t.TimerPeriod = t.TimerPeriod&0x0700 | uint16(v)
	case 3:
		t.TimerPeriod = t.TimerPeriod&0x00FF | uint16(v&0x07)<<8
		t.Length.load(v >> 3)
		t.ReloadFlag = true
	}
}

func (t *triangle) tickTimer() {
	if t.Timer == 0 {
		t.Timer = t.TimerPeriod
		if t.LinearCounter > 0 && t.Length.active() {
			t.Step = (t.Step + 1) % 32
		}
	} else {
		t.Timer--
	}
}

func (t *triangle) clockLinear() {
	if t.ReloadFlag {
		t.LinearCounter = t.LinearReload
	} else if t.LinearCounter > 0 {
		t.LinearCounter--
	}
	if !t.LinearControl {
		t.ReloadFlag = false
	}
}

func (t *triangle) clockLength() { t.Length.clock() }

func (t *triangle) output() uint8 {
	if !t.Length.active() || t.LinearCounter == 0 {
		return 0
	}
	// Ultrasonic silencing: a period of 0 or 1 produces an audible
	// popping artifact on real hardware; muting it is a well documented
	// player convenience the original implementation also applies.
	if t.TimerPeriod < 2 {
		return 0
	}
	return triangleSequence[t.Step]
}
