package main

import "image/color"

// nesPalette is the standard 64-entry 2C02 RGB palette, used to turn the
// console's native 6-bit index framebuffer into displayable RGBA (spec
// §6 "Frame output": "native index form is the canonical output").
var nesPalette = [64]color.RGBA{
	{0x60, 0x60, 0x60, 0xFF}, {0x00, 0x1F, 0x8C, 0xFF}, {0x24, 0x00, 0x98, 0xFF}, {0x47, 0x00, 0x83, 0xFF},
	{0x5C, 0x00, 0x5C, 0xFF}, {0x5E, 0x00, 0x23, 0xFF}, {0x4F, 0x08, 0x00, 0xFF}, {0x37, 0x17, 0x00, 0xFF},
	{0x1D, 0x2A, 0x00, 0xFF}, {0x09, 0x37, 0x00, 0xFF}, {0x00, 0x3C, 0x00, 0xFF}, {0x00, 0x3A, 0x1D, 0xFF},
	{0x00, 0x32, 0x4F, 0xFF}, {0x00, 0x00, 0x00, 0xFF}, {0x00, 0x00, 0x00, 0xFF}, {0x00, 0x00, 0x00, 0xFF},
	{0xA6, 0xA6, 0xA6, 0xFF}, {0x00, 0x51, 0xD4, 0xFF}, {0x5B, 0x2E, 0xFF, 0xFF}, {0x84, 0x14, 0xF2, 0xFF},
	{0xA4, 0x08, 0xB8, 0xFF}, {0xA8, 0x08, 0x63, 0xFF}, {0x97, 0x1E, 0x0C, 0xFF}, {0x7B, 0x39, 0x00, 0xFF},
	{0x5A, 0x54, 0x00, 0xFF}, {0x2F, 0x69, 0x00, 0xFF}, {0x00, 0x72, 0x00, 0xFF}, {0x00, 0x6E, 0x38, 0xFF},
	{0x00, 0x64, 0x80, 0xFF}, {0x00, 0x00, 0x00, 0xFF}, {0x00, 0x00, 0x00, 0xFF}, {0x00, 0x00, 0x00, 0xFF},
	{0xFE, 0xFF, 0xFF, 0xFF}, {0x4E, 0xA6, 0xFF, 0xFF}, {0x94, 0x80, 0xFF, 0xFF}, {0xC3, 0x61, 0xFF, 0xFF},
	{0xF0, 0x52, 0xFF, 0xFF}, {0xFB, 0x55, 0xAE, 0xFF}, {0xF3, 0x6B, 0x53, 0xFF}, {0xDB, 0x87, 0x0E, 0xFF},
	{0xB5, 0xA3, 0x00, 0xFF}, {0x85, 0xBB, 0x00, 0xFF}, {0x5C, 0xC7, 0x2E, 0xFF}, {0x3F, 0xC5, 0x7B, 0xFF},
	{0x3A, 0xB9, 0xCB, 0xFF}, {0x41, 0x41, 0x41, 0xFF}, {0x00, 0x00, 0x00, 0xFF}, {0x00, 0x00, 0x00, 0xFF},
	{0xFE, 0xFF, 0xFF, 0xFF}, {0xB8, 0xD8, 0xFF, 0xFF}, {0xD3, 0xCC, 0xFF, 0xFF}, {0xE6, 0xC2, 0xFF, 0xFF},
	{0xF8, 0xBC, 0xFF, 0xFF}, {0xFC, 0xBE, 0xE5, 0xFF}, {0xF8, 0xC5, 0xBF, 0xFF}, {0xEF, 0xD0, 0xA3, 0xFF},
	{0xE0, 0xDC, 0x94, 0xFF}, {0xCC, 0xE7, 0x94, 0xFF}, {0xBC, 0xED, 0xA3, 0xFF}, {0xB2, 0xEE, 0xC0, 0xFF},
	{0xB0, 0xEA, 0xE5, 0xFF}, {0xB8, 0xB8, 0xB8, 0xFF}, {0x00, 0x00, 0x00, 0xFF}, {0x00, 0x00, 0x00, 0xFF},
}
