package apu

// Length-counter load values, indexed by the 5-bit field written to
// $4003/$4007/$400B/$400F bits 3-7.
var lengthTable = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6, 160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 18, 48, 20, 96, 22, 192, 24, 72, 26, 16, 28, 32, 30,
}

// Noise channel period table, per region. PAL periods differ from NTSC
// (supplemented from the original implementation's noise tables, which
// the teacher never modeled region-specific APU behavior for).
var noisePeriodTableNTSC = [16]uint16{4, 8, 16, 32, 64, 96, 128, 160, 202, 254, 380, 508, 762, 1016, 2034, 4068}
var noisePeriodTablePAL = [16]uint16{4, 8, 14, 30, 60, 88, 118, 148, 188, 236, 354, 472, 708, 944, 1890, 3778}

// DMC sample-rate period table, per region.
var dmcPeriodTableNTSC = [16]uint16{428, 380, 340, 320, 286, 254, 226, 214, 190, 160, 142, 128, 106, 84, 72, 54}
var dmcPeriodTablePAL = [16]uint16{398, 354, 316, 298, 276, 236, 210, 198, 176, 148, 131, 118, 98, 78, 66, 50}

// Pulse/triangle duty and sequence tables.
var pulseDutyTable = [4][8]uint8{
	{0, 1, 0, 0, 0, 0, 0, 0},
	{0, 1, 1, 0, 0, 0, 0, 0},
	{0, 1, 1, 1, 1, 0, 0, 0},
	{1, 0, 0, 1, 1, 1, 1, 1},
}

var triangleSequence = [32]uint8{
	15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0,
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
}

// pulseTable and tndTable implement the Blargg non-linear mixing
// formulas (nesdev "Mixing formulas") computed entirely in scaled
// integer arithmetic — no floating point touches the sample path.
var pulseTable [31]int32
var tndTable [203]int32

func init() {
	for n := 1; n < len(pulseTable); n++ {
		pulseTable[n] = int32(95520000 * int64(n) / int64(8128+100*n))
	}
	for n := 1; n < len(tndTable); n++ {
		tndTable[n] = int32(163670000 * int64(n) / int64(24329+100*n))
	}
}
