package bitboard

import (
	"math/bits"
	"strings"
)

// Size is the side length of the grid. A BitBoard covers Size*Size cells.
const Size = 16

// Cells is the number of addressable cells in a BitBoard.
const Cells = Size * Size

// A BitBoard is a 16x16 cell set. Cell (x, y) lives at bit index 16*y + x,
// so word y/4 holds rows y&^3 through y|3, sixteen bits per row with x = 0
// in the low bit. North is +y and east is +x.
//
// The zero value is the empty board. BitBoards are comparable and can be used
// as map keys.
type BitBoard [4]uint64

const (
	// a single row of 16 cells, repeated for the four rows held by a word.
	rowsPerWord = 4
	allRows     = 0xFFFF_FFFF_FFFF_FFFF
)

// Empty is the empty board.
var Empty = BitBoard{}

// Full has every cell set.
var Full = BitBoard{allRows, allRows, allRows, allRows}

func index(x, y int) int {
	return y*Size + x
}

// InBounds reports whether (x, y) is a cell of the grid.
func InBounds(x, y int) bool {
	return x >= 0 && x < Size && y >= 0 && y < Size
}

// Single returns a board with only (x, y) set. Out-of-bounds coordinates give
// the empty board.
func Single(x, y int) BitBoard {
	var b BitBoard
	if !InBounds(x, y) {
		return b
	}
	i := index(x, y)
	b[i>>6] = 1 << (i & 63)
	return b
}

// IsSet reports whether (x, y) is in b. Out-of-bounds cells are never set.
func (b BitBoard) IsSet(x, y int) bool {
	if !InBounds(x, y) {
		return false
	}
	i := index(x, y)
	return b[i>>6]&(1<<(i&63)) != 0
}

// Set returns b with (x, y) added.
func (b BitBoard) Set(x, y int) BitBoard {
	return b.Or(Single(x, y))
}

// Clear returns b with (x, y) removed.
func (b BitBoard) Clear(x, y int) BitBoard {
	return b.AndNot(Single(x, y))
}

func (b BitBoard) And(o BitBoard) BitBoard {
	return BitBoard{b[0] & o[0], b[1] & o[1], b[2] & o[2], b[3] & o[3]}
}

func (b BitBoard) Or(o BitBoard) BitBoard {
	return BitBoard{b[0] | o[0], b[1] | o[1], b[2] | o[2], b[3] | o[3]}
}

func (b BitBoard) Xor(o BitBoard) BitBoard {
	return BitBoard{b[0] ^ o[0], b[1] ^ o[1], b[2] ^ o[2], b[3] ^ o[3]}
}

// AndNot returns the cells of b that are not in o.
func (b BitBoard) AndNot(o BitBoard) BitBoard {
	return BitBoard{b[0] &^ o[0], b[1] &^ o[1], b[2] &^ o[2], b[3] &^ o[3]}
}

func (b BitBoard) Not() BitBoard {
	return BitBoard{^b[0], ^b[1], ^b[2], ^b[3]}
}

func (b BitBoard) IsEmpty() bool {
	return b[0]|b[1]|b[2]|b[3] == 0
}

// Intersects reports whether b and o share a cell.
func (b BitBoard) Intersects(o BitBoard) bool {
	return !b.And(o).IsEmpty()
}

// Contains reports whether every cell of o is in b.
func (b BitBoard) Contains(o BitBoard) bool {
	return o.AndNot(b).IsEmpty()
}

// Count returns the number of set cells.
func (b BitBoard) Count() int {
	return bits.OnesCount64(b[0]) + bits.OnesCount64(b[1]) +
		bits.OnesCount64(b[2]) + bits.OnesCount64(b[3])
}

// LS1B isolates the lowest-indexed set cell.
func (b BitBoard) LS1B() BitBoard {
	for w := range b {
		if b[w] != 0 {
			var r BitBoard
			r[w] = b[w] & -b[w]
			return r
		}
	}
	return Empty
}

// LowestCell returns the coordinates of the lowest-indexed set cell.
func (b BitBoard) LowestCell() (x, y int, ok bool) {
	for w := range b {
		if b[w] != 0 {
			i := w<<6 + bits.TrailingZeros64(b[w])
			return i % Size, i / Size, true
		}
	}
	return 0, 0, false
}

// Each calls fn for every set cell in increasing bit order.
func (b BitBoard) Each(fn func(x, y int)) {
	for w := range b {
		word := b[w]
		for word != 0 {
			i := w<<6 + bits.TrailingZeros64(word)
			fn(i%Size, i/Size)
			word &= word - 1
		}
	}
}

// Compare orders boards as unsigned 256-bit integers with word 3 the most
// significant. The order has no geometric meaning; it is used for
// deterministic tie-breaks and canonical pair ordering.
func (b BitBoard) Compare(o BitBoard) int {
	for w := len(b) - 1; w >= 0; w-- {
		if b[w] != o[w] {
			if b[w] < o[w] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func (b BitBoard) Less(o BitBoard) bool {
	return b.Compare(o) < 0
}

// rows unpacks b into one uint16 per row.
func (b BitBoard) rows() [Size]uint16 {
	var r [Size]uint16
	for y := range r {
		r[y] = uint16(b[y/rowsPerWord] >> (Size * (y % rowsPerWord)))
	}
	return r
}

func fromRows(r [Size]uint16) BitBoard {
	var b BitBoard
	for y, row := range r {
		b[y/rowsPerWord] |= uint64(row) << (Size * (y % rowsPerWord))
	}
	return b
}

// columns returns the union of all rows: bit x is set iff column x is occupied.
func (b BitBoard) columns() uint16 {
	var c uint64
	for _, w := range b {
		c |= w
	}
	c |= c >> 32
	c |= c >> 16
	return uint16(c)
}

// String renders the board with row 0 first, '#' for set cells.
func (b BitBoard) String() string {
	var sb strings.Builder
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if b.IsSet(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FromStrings builds a board from text rows. rows[0] is y = 0 and the first
// character of each row is x = 0. Any character other than '.' or ' ' sets
// the cell. Text beyond the grid is ignored.
func FromStrings(rows ...string) BitBoard {
	var b BitBoard
	for y, row := range rows {
		for x, ch := range []rune(row) {
			if ch != '.' && ch != ' ' {
				b = b.Set(x, y)
			}
		}
	}
	return b
}
