package bitboard

import "math/bits"

// lsh shifts the whole 256-bit value toward higher bit indices.
func (b BitBoard) lsh(k int) BitBoard {
	if k >= Cells {
		return Empty
	}
	ws, bs := k/64, uint(k%64)
	var r BitBoard
	for i := len(b) - 1; i >= ws; i-- {
		r[i] = b[i-ws] << bs
		if bs != 0 && i-ws-1 >= 0 {
			r[i] |= b[i-ws-1] >> (64 - bs)
		}
	}
	return r
}

// rsh shifts the whole 256-bit value toward lower bit indices.
func (b BitBoard) rsh(k int) BitBoard {
	if k >= Cells {
		return Empty
	}
	ws, bs := k/64, uint(k%64)
	var r BitBoard
	for i := 0; i+ws < len(b); i++ {
		r[i] = b[i+ws] >> bs
		if bs != 0 && i+ws+1 < len(b) {
			r[i] |= b[i+ws+1] << (64 - bs)
		}
	}
	return r
}

// columnMask repeats a 16-bit column pattern across every row.
func columnMask(m uint16) BitBoard {
	w := uint64(m)
	w |= w << 16
	w |= w << 32
	return BitBoard{w, w, w, w}
}

// ShiftN moves every cell n rows north. Cells pushed past the edge are lost.
// A negative n shifts south.
func (b BitBoard) ShiftN(n int) BitBoard {
	if n < 0 {
		return b.ShiftS(-n)
	}
	return b.lsh(n * Size)
}

func (b BitBoard) ShiftS(n int) BitBoard {
	if n < 0 {
		return b.ShiftN(-n)
	}
	return b.rsh(n * Size)
}

func (b BitBoard) ShiftE(n int) BitBoard {
	if n < 0 {
		return b.ShiftW(-n)
	}
	if n >= Size {
		return Empty
	}
	return b.lsh(n).And(columnMask(0xFFFF << n))
}

func (b BitBoard) ShiftW(n int) BitBoard {
	if n < 0 {
		return b.ShiftE(-n)
	}
	if n >= Size {
		return Empty
	}
	return b.rsh(n).And(columnMask(0xFFFF >> n))
}

// Shift translates by (dx, dy): positive dx is east, positive dy is north.
func (b BitBoard) Shift(dx, dy int) BitBoard {
	return b.ShiftE(dx).ShiftN(dy)
}

// ShiftWS shifts w cells west and s cells south.
func (b BitBoard) ShiftWS(w, s int) BitBoard {
	return b.ShiftW(w).ShiftS(s)
}

// MarginS is the number of empty rows below the content, i.e. the southward
// shift that makes it flush with the south edge. Every margin of an empty
// board is Size.
func (b BitBoard) MarginS() int {
	for w := range b {
		if b[w] != 0 {
			return (w*64 + bits.TrailingZeros64(b[w])) / Size
		}
	}
	return Size
}

func (b BitBoard) MarginN() int {
	for w := len(b) - 1; w >= 0; w-- {
		if b[w] != 0 {
			return ((len(b)-1-w)*64 + bits.LeadingZeros64(b[w])) / Size
		}
	}
	return Size
}

func (b BitBoard) MarginW() int {
	return bits.TrailingZeros16(b.columns())
}

func (b BitBoard) MarginE() int {
	return bits.LeadingZeros16(b.columns())
}

// NHood4 is the union of the four unit shifts. It includes cells of b that
// neighbour other cells of b; callers mask with AndNot(b) for a frontier.
func (b BitBoard) NHood4() BitBoard {
	return b.ShiftN(1).Or(b.ShiftS(1)).Or(b.ShiftE(1)).Or(b.ShiftW(1))
}

// FloodFill returns the cells of within that are 4-connected to seed.
func FloodFill(seed, within BitBoard) BitBoard {
	filled := seed.And(within)
	for {
		next := filled.Or(filled.NHood4().And(within))
		if next == filled {
			return filled
		}
		filled = next
	}
}

// Connected reports whether b is a single 4-connected region.
func (b BitBoard) Connected() bool {
	return b.IsEmpty() || FloodFill(b.LS1B(), b) == b
}

// transposeRows swaps (x, y) with (y, x) in place.
func transposeRows(r *[Size]uint16) {
	m := uint16(0x00FF)
	for j := 8; j != 0; j, m = j>>1, m^(m<<(j>>1)) {
		for k := 0; k < Size; k = (k + j + 1) &^ j {
			t := ((r[k] >> j) ^ r[k+j]) & m
			r[k] ^= t << j
			r[k+j] ^= t
		}
	}
}

func mirrorRows(r *[Size]uint16) {
	for y := range r {
		r[y] = bits.Reverse16(r[y])
	}
}

// Transpose maps (x, y) to (y, x).
func (b BitBoard) Transpose() BitBoard {
	r := b.rows()
	transposeRows(&r)
	return fromRows(r)
}

// RotL rotates a quarter turn counter-clockwise about the board centre:
// (x, y) goes to (15-y, x).
func (b BitBoard) RotL() BitBoard {
	r := b.rows()
	transposeRows(&r)
	mirrorRows(&r)
	return fromRows(r)
}

// RotR rotates a quarter turn clockwise about the board centre:
// (x, y) goes to (y, 15-x).
func (b BitBoard) RotR() BitBoard {
	r := b.rows()
	mirrorRows(&r)
	transposeRows(&r)
	return fromRows(r)
}

// Reverse rotates a half turn about the board centre: (x, y) goes to
// (15-x, 15-y).
func (b BitBoard) Reverse() BitBoard {
	return BitBoard{
		bits.Reverse64(b[3]),
		bits.Reverse64(b[2]),
		bits.Reverse64(b[1]),
		bits.Reverse64(b[0]),
	}
}

// Rotate applies r counter-clockwise quarter turns about the board centre.
func (b BitBoard) Rotate(r int) BitBoard {
	switch mod4(r) {
	case 1:
		return b.RotL()
	case 2:
		return b.Reverse()
	case 3:
		return b.RotR()
	}
	return b
}

func mod4(r int) int {
	return ((r % 4) + 4) % 4
}
