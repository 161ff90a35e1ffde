package apu

import "testing"

type fakeMem struct{ ram [65536]byte }

func (m *fakeMem) Read8(addr uint16) uint8 { return m.ram[addr] }

func TestLengthCounterLoadAndClock(t *testing.T) {
	var l lengthCounter
	l.load(0) // lengthTable[0] == 10
	if l.Value != 10 {
		t.Fatalf("Value = %d, want 10", l.Value)
	}
	l.clock()
	if l.Value != 9 {
		t.Fatalf("Value after one clock = %d, want 9", l.Value)
	}
	l.Halt = true
	l.clock()
	if l.Value != 9 {
		t.Fatalf("halted length counter should not decrement, got %d", l.Value)
	}
}

func TestLengthCounterDisableForcesZero(t *testing.T) {
	var l lengthCounter
	l.load(0)
	l.setEnabled(false)
	if l.active() {
		t.Fatalf("disabling the length counter should force it inactive")
	}
}

func TestEnvelopeStartReloadsDecay(t *testing.T) {
	var e envelope
	e.writeControl(0x05) // volume/period = 5, not constant, not looping
	e.StartFlag = true
	e.clock()
	if e.Decay != 15 {
		t.Fatalf("Decay after start = %d, want 15", e.Decay)
	}
	if e.StartFlag {
		t.Fatalf("StartFlag should clear after the reload clock")
	}
}

func TestPulseOutputSilencedBelowMinimumPeriod(t *testing.T) {
	p := newPulse(true)
	p.writeReg(0, 0xBF) // duty=2, constant volume 15
	p.writeReg(3, 0x00) // loads length counter, enabling it
	p.TimerPeriod = 2   // below the 8-cycle floor
	p.DutyStep = 1       // a step where the duty table is nonzero
	if out := p.output(); out != 0 {
		t.Fatalf("output() = %d, want 0 (period below hardware floor mutes the channel)", out)
	}
}

func TestPulseSweepOnesComplementDiffersFromTwosComplement(t *testing.T) {
	p1 := newPulse(true)  // pulse 1: one's complement negate
	p2 := newPulse(false) // pulse 2: two's complement negate
	p1.Sweep.Negate, p1.Sweep.Shift = true, 1
	p2.Sweep.Negate, p2.Sweep.Shift = true, 1
	t1 := p1.Sweep.targetPeriod(100)
	t2 := p2.Sweep.targetPeriod(100)
	if t1 == t2 {
		t.Fatalf("expected pulse1 and pulse2 sweep targets to differ by one (got both %d)", t1)
	}
	if t1 != t2-1 {
		t.Fatalf("pulse1 target = %d, pulse2 target = %d; want pulse1 == pulse2 - 1", t1, t2)
	}
}

func TestTriangleMutesBelowUltrasonicPeriod(t *testing.T) {
	tr := &triangle{}
	tr.Length.load(0)
	tr.LinearCounter = 10
	tr.TimerPeriod = 1 // < 2: ultrasonic, muted
	tr.Step = 0        // triangleSequence[0] == 15, would otherwise be audible
	if out := tr.output(); out != 0 {
		t.Fatalf("output() = %d, want 0 for an ultrasonic timer period", out)
	}
}

func TestNoiseLFSRModeSelectsDifferentTapBit(t *testing.T) {
	// 0x0041: bits 0 and 6 set, bit 1 clear. Long mode feeds back
	// bit0^bit1 = 1; short mode feeds back bit0^bit6 = 0.
	nShort := newNoise()
	nShort.ShiftReg = 0x0041
	nShort.ModeShort = true
	nShort.TimerPeriod = 0
	before := nShort.ShiftReg
	nShort.tickTimer()
	if nShort.ShiftReg == before {
		t.Fatalf("shift register did not advance")
	}
	nLong := newNoise()
	nLong.ShiftReg = 0x0041
	nLong.TimerPeriod = 0
	nLong.tickTimer()
	if nShort.ShiftReg != 0x0020 || nLong.ShiftReg != 0x4020 {
		t.Fatalf("short mode = %#x, long mode = %#x; want 0x0020 and 0x4020", nShort.ShiftReg, nLong.ShiftReg)
	}
}

func TestDMCRestartFetchesFirstByteImmediately(t *testing.T) {
	mem := &fakeMem{}
	mem.ram[0x8000] = 0xFF
	d := newDMC(mem)
	d.SampleAddr = 0x8000
	d.SampleLength = 1
	d.restart()
	if !d.BufferFull {
		t.Fatalf("restart() should eagerly fetch the first sample byte into the buffer")
	}
	if d.Stall == 0 {
		t.Fatalf("restart()'s eager fetch should charge a DMA stall")
	}
}

func TestFrameSequencerFourStepFiresIRQ(t *testing.T) {
	a := New(NTSC, &fakeMem{})
	a.writeFrameCounter(0x00) // 4-step mode, IRQ enabled
	for i := 0; i < int(a.frameResetDue); i++ {
		a.tickFrameSequencer()
	}
	for i := 0; i < step4Four; i++ {
		a.tickFrameSequencer()
	}
	if !a.frameIRQ {
		t.Fatalf("4-step frame sequencer should assert the frame IRQ at step 4")
	}
}

func TestFrameSequencerFiveStepNeverFiresIRQ(t *testing.T) {
	a := New(NTSC, &fakeMem{})
	a.writeFrameCounter(0x80) // 5-step mode
	for i := 0; i < int(a.frameResetDue); i++ {
		a.tickFrameSequencer()
	}
	for i := 0; i < step4Five; i++ {
		a.tickFrameSequencer()
	}
	if a.frameIRQ {
		t.Fatalf("5-step frame sequencer must never assert the frame IRQ")
	}
}

func TestMixerTablesAreIntegerOnly(t *testing.T) {
	// pulseTable/tndTable must be populated by init()'s integer math, not
	// left as zero, and must be monotonically non-decreasing.
	for i := 1; i < len(pulseTable); i++ {
		if pulseTable[i] < pulseTable[i-1] {
			t.Fatalf("pulseTable not monotonic at %d: %d < %d", i, pulseTable[i], pulseTable[i-1])
		}
	}
	if pulseTable[1] == 0 {
		t.Fatalf("pulseTable[1] should be nonzero after init()")
	}
	for i := 1; i < len(tndTable); i++ {
		if tndTable[i] < tndTable[i-1] {
			t.Fatalf("tndTable not monotonic at %d: %d < %d", i, tndTable[i], tndTable[i-1])
		}
	}
	if tndTable[1] == 0 {
		t.Fatalf("tndTable[1] should be nonzero after init()")
	}
}
