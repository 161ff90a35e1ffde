// Package controller implements the $4016/$4017 shift-register joypad
// ports, including the FourScore two-extra-controller protocol.
package controller

import "github.com/doinkythederp/tetanes/state"

// Button bit positions within the shift register, in the order the real
// 4021 shift register loads them.
const (
	A uint8 = 1 << iota
	B
	Select
	Start
	Up
	Down
	Left
	Right
)

// FourPlayer selects the extra-controller protocol used on $4016/$4017
// bit 0 (spec §6 "four_player" config option).
type FourPlayer int

const (
	None FourPlayer = iota
	FourScoreA
	FourScoreB
)

// Pad is one standard controller's live button state plus its shift
// register.
type Pad struct {
	Buttons  uint8 // current live state, set by the caller before each poll
	Shift    uint8
	BitsRead uint8
}

func (p *Pad) strobe() {
	p.Shift = p.Buttons
	p.BitsRead = 0
}

func (p *Pad) read() uint8 {
	if p.BitsRead >= 8 {
		return 1
	}
	bit := p.Shift & 1
	p.Shift >>= 1
	p.BitsRead++
	return bit
}

// Ports owns both standard controller ports and, when configured, the
// two FourScore-expansion pads multiplexed onto the same shift registers.
type Ports struct {
	fourPlayer FourPlayer
	strobe     bool
	pad        [2]Pad
	extra      [2]Pad // FourScore players 3 and 4
	signature  int    // unused: Read derives the signature position from pad[port].BitsRead
}

func New(fourPlayer FourPlayer) *Ports { return &Ports{fourPlayer: fourPlayer} }

// SetButtons updates a port's live button mask ahead of the next strobe;
// callers latch this once per frame per spec §6 "Controller input".
func (p *Ports) SetButtons(port int, buttons uint8) {
	if port < 0 || port > 1 {
		return
	}
	p.pad[port].Buttons = buttons
}

// SetExtraButtons updates player 3/4 state for FourScore configurations.
func (p *Ports) SetExtraButtons(player int, buttons uint8) {
	if player < 0 || player > 1 {
		return
	}
	p.extra[player].Buttons = buttons
}

// Write handles $4016 (and, for some boards, $4017) strobe writes. Bit 0
// is the strobe line; while held high the shift registers continuously
// reload.
func (p *Ports) Write(v uint8) {
	strobeHigh := v&0x01 != 0
	if strobeHigh {
		p.pad[0].strobe()
		p.pad[1].strobe()
		p.extra[0].strobe()
		p.extra[1].strobe()
	}
	p.strobe = strobeHigh
}

// Read services $4016 (port 1) or $4017 (port 2) reads and returns only
// bit 0; the bus fills bits 1-7 from the open-bus latch. With a FourScore
// attached, the first 8 reads of a
// port return player 1/2's buttons, the next 8 return player 3/4's
// (shared on the same port), and a trailing signature nibble (0x08 on
// port 1, 0x04 on port 2) identifies the adapter to software.
func (p *Ports) Read(port int) uint8 {
	if p.fourPlayer == None {
		if p.strobe {
			p.pad[port].strobe()
		}
		return p.pad[port].read()
	}

	total := p.pad[port].BitsRead
	switch {
	case total < 8:
		if p.strobe {
			p.pad[port].strobe()
		}
		return p.pad[port].read()
	case total < 16:
		if p.strobe {
			p.extra[port].strobe()
		}
		p.pad[port].BitsRead++
		return p.extra[port].read()
	default:
		sig := uint8(0x04)
		if port == 0 {
			sig = 0x08
		}
		idx := total - 16
		p.pad[port].BitsRead++
		if idx < 4 {
			return (sig >> idx) & 1
		}
		return 1
	}
}

func (p *Ports) Reset() {
	p.strobe = false
	for i := range p.pad {
		p.pad[i] = Pad{}
	}
	for i := range p.extra {
		p.extra[i] = Pad{}
	}
}

func (p *Ports) Snapshot(e *state.Encoder) error {
	return e.Encode(p.strobe, p.pad, p.extra)
}

func (p *Ports) Restore(d *state.Decoder) error {
	return d.Decode(&p.strobe, &p.pad, &p.extra)
}
