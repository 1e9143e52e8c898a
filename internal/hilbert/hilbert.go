// Package hilbert maps points of a bounded 3-D integer lattice onto their
// distance along a 3-D Hilbert space-filling curve.
//
// The curve is walked one level at a time, from the most significant
// coordinate bit to the least. At every level the three coordinate bits form
// an octant number which is Gray-decoded relative to the entry and exit
// corners of the current sub-cube; the decoded octant contributes three bits
// to the index and selects the entry and exit corners of the child cube.
// The outermost cube is always entered at the origin.
package hilbert

import (
	"errors"
	"fmt"
)

const (
	dims = 3
	// mask selects one octant number (dims bits).
	mask = 1<<dims - 1
	// MaxOrder is the largest order whose index fits in a uint64.
	MaxOrder = 64 / dims
	// RGBOrder covers 8-bit colour channels.
	RGBOrder = 8
)

// ErrOutOfRange is returned by Checked when a coordinate does not fit the
// requested order.
var ErrOutOfRange = errors.New("hilbert: coordinate out of range")

// Index returns the distance of (x, y, z) along the order-n curve, a value
// in [0, 8^order). Coordinates are masked to order bits.
func Index(x, y, z, order int) uint64 {
	coords := [dims]int{x, y, z}
	start, end := initialCorners(order)

	var idx uint64
	for level := order - 1; level >= 0; level-- {
		// x contributes the most significant bit of the octant number.
		octant := 0
		for _, c := range coords {
			octant = octant<<1 | (c>>level)&1
		}
		i := grayDecodeTravel(start, end, octant)
		idx = idx<<dims | uint64(i)
		start, end = childCorners(start, end, i)
	}
	return idx
}

// Checked is Index with argument validation.
func Checked(x, y, z, order int) (uint64, error) {
	if order < 1 || order > MaxOrder {
		return 0, fmt.Errorf("hilbert: order %d outside [1, %d]", order, MaxOrder)
	}
	limit := 1 << order
	for _, c := range [dims]int{x, y, z} {
		if c < 0 || c >= limit {
			return 0, fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, c, limit)
		}
	}
	return Index(x, y, z, order), nil
}

// IndexRGB returns the curve distance of an 8-bit RGB triple.
func IndexRGB(rgb [3]int) uint64 {
	return Index(rgb[0], rgb[1], rgb[2], RGBOrder)
}

// Point is the inverse of Index.
func Point(idx uint64, order int) (x, y, z int) {
	start, end := initialCorners(order)
	var coords [dims]int
	for level := order - 1; level >= 0; level-- {
		i := int(idx>>(uint(level)*dims)) & mask
		octant := grayEncodeTravel(start, end, i)
		for d := range coords {
			bit := (octant >> (dims - 1 - d)) & 1
			coords[d] |= bit << level
		}
		start, end = childCorners(start, end, i)
	}
	return coords[0], coords[1], coords[2]
}

// initialCorners orients the outermost cube so that it starts at the origin
// and its first step is the same for every order.
func initialCorners(order int) (start, end int) {
	shift := ((-order-1)%dims + dims) % dims
	return 0, 1 << shift
}

func childCorners(start, end, i int) (int, int) {
	startI := max(0, (i-1)&^1)
	endI := min(mask, (i+1)|1)
	return grayEncodeTravel(start, end, startI), grayEncodeTravel(start, end, endI)
}

func grayEncode(n int) int {
	return n ^ n>>1
}

func grayDecode(g int) int {
	for s := 1; s < dims; s <<= 1 {
		g ^= g >> s
	}
	return g
}

// grayEncodeTravel returns the corner visited at step i of a Gray-code walk
// from start to end. The walk is rotated so its axis of travel matches
// start^end.
func grayEncodeTravel(start, end, i int) int {
	travel := start ^ end
	g := grayEncode(i) * (travel * 2)
	return ((g | g/(mask+1)) & mask) ^ start
}

func grayDecodeTravel(start, end, corner int) int {
	travel := start ^ end
	rg := (corner ^ start) * ((mask + 1) / (travel * 2))
	return grayDecode((rg | rg/(mask+1)) & mask)
}
