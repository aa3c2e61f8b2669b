// Package bits contains small helpers for poking at the bits of
// hardware register values.
package bits

import "math/bits"

// Val returns the value of the bit at the given index.
func Val(b uint8, i uint8) uint8 {
	return (b >> i) & 1
}

// Reset resets the bit at the given index.
func Reset(b, i uint8) uint8 {
	return b &^ (1 << i)
}

// Set sets the bit at the given index.
func Set(b, i uint8) uint8 {
	return b | (1 << i)
}

// Test tests the bit at the given index.
func Test(b, i uint8) bool {
	return (b>>i)&1 != 0
}

// Pixel returns the 2-bit colour number of pixel x (0 being the
// leftmost) of a tile row stored as two bit-planes, lo holding
// bit 0 and hi holding bit 1 of each pixel.
func Pixel(lo, hi, x uint8) uint8 {
	shift := 7 - x&7
	return (hi>>shift&1)<<1 | lo>>shift&1
}

// Flip mirrors a tile row bit-plane horizontally.
func Flip(b uint8) uint8 {
	return bits.Reverse8(b)
}
