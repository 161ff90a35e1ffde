// Package apu implements the Audio Processing Unit: two pulse channels,
// triangle, noise, the delta-modulation sample channel, the frame
// sequencer that clocks their envelopes/sweeps/length counters, and the
// non-linear mixer that combines them into a single sample stream.
package apu

import "github.com/doinkythederp/tetanes/state"

// Region selects the noise/DMC period tables; the frame-sequencer
// cadence is the same for every region (spec §4.3 — the teacher's APU
// had no region awareness at all).
type Region int

const (
	NTSC Region = iota
	PAL
	Dendy
)

// Frame-sequencer quarter-frame cycle points, in CPU cycles since the
// sequencer last reset. NTSC and PAL share the same cadence; only the
// noise/DMC period tables differ by region.
const (
	step1     = 7457
	step2     = 14913
	step3     = 22371
	step4Four = 29829
	step4Five = 37281
)

// APU owns every channel and the frame sequencer, and exposes a single
// mixed integer sample per call to Sample.
type APU struct {
	region Region

	pulse1, pulse2 *pulse
	triangle       *triangle
	noise          *noise
	dmc            *dmc

	noisePeriods *[16]uint16
	dmcPeriods   *[16]uint16

	frameCycle    uint32
	fiveStepMode  bool
	irqInhibit    bool
	frameIRQ      bool
	frameResetDue int // odd-cycle $4017 write delay, in CPU cycles

	clock uint64 // CPU cycles elapsed; even/odd gates the divide-by-2 channels

	lastSample int32
}

// New creates an APU. mem is the CPU-address-space reader the DMC
// channel DMAs sample bytes from.
func New(region Region, mem MemReader) *APU {
	a := &APU{
		region: region,
		pulse1: newPulse(true),
		pulse2: newPulse(false),
		triangle: &triangle{},
		noise:    newNoise(),
		dmc:      newDMC(mem),
	}
	switch region {
	case PAL:
		a.noisePeriods = &noisePeriodTablePAL
		a.dmcPeriods = &dmcPeriodTablePAL
	default:
		a.noisePeriods = &noisePeriodTableNTSC
		a.dmcPeriods = &dmcPeriodTableNTSC
	}
	a.dmc.TimerPeriod = a.dmcPeriods[0]
	return a
}

func (a *APU) Reset() {
	a.pulse1.Length.setEnabled(false)
	a.pulse2.Length.setEnabled(false)
	a.triangle.Length.setEnabled(false)
	a.noise.Length.setEnabled(false)
	a.dmc.setEnabled(false)
	a.frameCycle = 0
	a.fiveStepMode = false
	a.irqInhibit = false
	a.frameIRQ = false
}

// IRQ reports whether the frame sequencer or DMC wants the shared IRQ
// line asserted.
func (a *APU) IRQ() bool { return a.frameIRQ || a.dmc.IRQPending }

// SetMemReader wires the DMC channel's sample-fetch DMA source. Needed
// because the bus that implements MemReader is itself constructed after
// the APU, to avoid a New-time dependency cycle.
func (a *APU) SetMemReader(mem MemReader) { a.dmc.mem = mem }

// TakeStall drains and returns the CPU-cycle cost of DMC DMA fetches
// since the last call, for the bus to fold into CPU.PollStall.
func (a *APU) TakeStall() int { return a.dmc.takeStall() }

// Tick advances the APU by one CPU cycle. Pulse/noise/DMC timers run at
// half the CPU clock; triangle and the frame sequencer run at full rate,
// so four of the five channels see an internal /2 divider.
func (a *APU) Tick() {
	even := a.clock%2 == 0
	a.clock++

	a.triangle.tickTimer()
	if even {
		a.pulse1.tickTimer()
		a.pulse2.tickTimer()
		a.noise.tickTimer()
		a.dmc.tickTimer()
	}

	a.tickFrameSequencer()
}

func (a *APU) tickFrameSequencer() {
	if a.frameResetDue > 0 {
		a.frameResetDue--
		if a.frameResetDue == 0 {
			a.frameCycle = 0
			a.clockQuarterFrame()
			a.clockHalfFrame()
		}
	}

	a.frameCycle++

	switch a.frameCycle {
	case step1:
		a.clockQuarterFrame()
	case step2:
		a.clockQuarterFrame()
		a.clockHalfFrame()
	case step3:
		a.clockQuarterFrame()
	case step4Four:
		if !a.fiveStepMode {
			a.clockQuarterFrame()
			a.clockHalfFrame()
			if !a.irqInhibit {
				a.frameIRQ = true
			}
			a.frameCycle = 0
		}
	case step4Five:
		if a.fiveStepMode {
			a.clockQuarterFrame()
			a.clockHalfFrame()
			a.frameCycle = 0
		}
	}
}

func (a *APU) clockQuarterFrame() {
	a.pulse1.clockEnvelope()
	a.pulse2.clockEnvelope()
	a.noise.clockEnvelope()
	a.triangle.clockLinear()
}

func (a *APU) clockHalfFrame() {
	a.pulse1.clockLength()
	a.pulse2.clockLength()
	a.noise.clockLength()
	a.triangle.clockLength()
	a.pulse1.clockSweep()
	a.pulse2.clockSweep()
}

// Sample returns the current non-linear-mixed output sample, scaled by
// 1e6 fixed point (spec §4.4/§9: integer-deterministic mixing, no
// floating point in the sample path).
func (a *APU) Sample() int32 {
	p1, p2 := int(a.pulse1.output()), int(a.pulse2.output())
	t, n, d := int(a.triangle.output()), int(a.noise.output()), int(a.dmc.output())

	pulseOut := pulseTable[p1+p2]
	tndOut := tndTable[3*t+2*n+d]
	a.lastSample = pulseOut + tndOut
	return a.lastSample
}

// CPURead/CPUWrite implement the $4000-$4017 register window; bus.go
// routes only $4015 reads here ($4017 reads go to controller port 2),
// and all other APU registers are write-only, per hardware (spec §3).
func (a *APU) CPURead(addr uint16) uint8 {
	if addr == 0x4015 {
		return a.readStatus()
	}
	return 0
}

func (a *APU) readStatus() uint8 {
	var v uint8
	if a.pulse1.Length.active() {
		v |= 0x01
	}
	if a.pulse2.Length.active() {
		v |= 0x02
	}
	if a.triangle.Length.active() {
		v |= 0x04
	}
	if a.noise.Length.active() {
		v |= 0x08
	}
	if a.dmc.active() {
		v |= 0x10
	}
	if a.frameIRQ {
		v |= 0x40
	}
	if a.dmc.IRQPending {
		v |= 0x80
	}
	a.frameIRQ = false
	return v
}

func (a *APU) CPUWrite(addr uint16, v uint8) {
	switch {
	case addr >= 0x4000 && addr <= 0x4003:
		a.pulse1.writeReg(addr-0x4000, v)
	case addr >= 0x4004 && addr <= 0x4007:
		a.pulse2.writeReg(addr-0x4004, v)
	case addr >= 0x4008 && addr <= 0x400B:
		a.triangle.writeReg(addr-0x4008, v)
	case addr >= 0x400C && addr <= 0x400F:
		a.noise.writeReg(addr-0x400C, v, a.noisePeriods)
	case addr >= 0x4010 && addr <= 0x4013:
		a.dmc.writeReg(addr-0x4010, v, a.dmcPeriods)
	case addr == 0x4015:
		a.writeStatus(v)
	case addr == 0x4017:
		a.writeFrameCounter(v)
	}
}

func (a *APU) writeStatus(v uint8) {
	a.pulse1.Length.setEnabled(v&0x01 != 0)
	a.pulse2.Length.setEnabled(v&0x02 != 0)
	a.triangle.Length.setEnabled(v&0x04 != 0)
	a.noise.Length.setEnabled(v&0x08 != 0)
	a.dmc.setEnabled(v&0x10 != 0)
	a.dmc.IRQPending = false
}

// writeFrameCounter handles the well known odd-cycle write delay: the
// sequencer resets 3 or 4 CPU cycles later depending on whether the
// write itself landed on an even or odd CPU cycle.
func (a *APU) writeFrameCounter(v uint8) {
	a.fiveStepMode = v&0x80 != 0
	a.irqInhibit = v&0x40 != 0
	if a.irqInhibit {
		a.frameIRQ = false
	}
	if a.clock%2 == 0 {
		a.frameResetDue = 3
	} else {
		a.frameResetDue = 4
	}
}

func (a *APU) Snapshot(e *state.Encoder) error {
	return e.Encode(a.pulse1.Duty, a.pulse1.DutyStep, a.pulse1.TimerPeriod, a.pulse1.Timer,
		a.pulse1.Env, a.pulse1.Sweep, a.pulse1.Length,
		a.pulse2.Duty, a.pulse2.DutyStep, a.pulse2.TimerPeriod, a.pulse2.Timer,
		a.pulse2.Env, a.pulse2.Sweep, a.pulse2.Length,
		a.triangle.TimerPeriod, a.triangle.Timer, a.triangle.Step,
		a.triangle.LinearReload, a.triangle.LinearCounter, a.triangle.LinearControl,
		a.triangle.ReloadFlag, a.triangle.Length,
		a.noise.ShiftReg, a.noise.ModeShort, a.noise.TimerPeriod, a.noise.Timer,
		a.noise.Env, a.noise.Length,
		a.dmc.IRQEnable, a.dmc.Loop, a.dmc.RateIndex, a.dmc.TimerPeriod, a.dmc.Timer,
		a.dmc.Output, a.dmc.SampleAddr, a.dmc.SampleLength, a.dmc.CurrentAddr,
		a.dmc.BytesLeft, a.dmc.SampleBuf, a.dmc.BufferFull, a.dmc.ShiftReg,
		a.dmc.BitsLeft, a.dmc.Silence, a.dmc.IRQPending,
		a.frameCycle, a.fiveStepMode, a.irqInhibit, a.frameIRQ, a.frameResetDue, a.clock)
}

func (a *APU) Restore(d *state.Decoder) error {
	return d.Decode(&a.pulse1.Duty, &a.pulse1.DutyStep, &a.pulse1.TimerPeriod, &a.pulse1.Timer,
		&a.pulse1.Env, &a.pulse1.Sweep, &a.pulse1.Length,
		&a.pulse2.Duty, &a.pulse2.DutyStep, &a.pulse2.TimerPeriod, &a.pulse2.Timer,
		&a.pulse2.Env, &a.pulse2.Sweep, &a.pulse2.Length,
		&a.triangle.TimerPeriod, &a.triangle.Timer, &a.triangle.Step,
		&a.triangle.LinearReload, &a.triangle.LinearCounter, &a.triangle.LinearControl,
		&a.triangle.ReloadFlag, &a.triangle.Length,
		&a.noise.ShiftReg, &a.noise.ModeShort, &a.noise.TimerPeriod, &a.noise.Timer,
		&a.noise.Env, &a.noise.Length,
		&a.dmc.IRQEnable, &a.dmc.Loop, &a.dmc.RateIndex, &a.dmc.TimerPeriod, &a.dmc.Timer,
		&a.dmc.Output, &a.dmc.SampleAddr, &a.dmc.SampleLength, &a.dmc.CurrentAddr,
		&a.dmc.BytesLeft, &a.dmc.SampleBuf, &a.dmc.BufferFull, &a.dmc.ShiftReg,
		&a.dmc.BitsLeft, &a.dmc.Silence, &a.dmc.IRQPending,
		&a.frameCycle, &a.fiveStepMode, &a.irqInhibit, &a.frameIRQ, &a.frameResetDue, &a.clock)
}
