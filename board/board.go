package board

import (
	"errors"
	"fmt"

	"github.com/domino14/doubledots/bitboard"
)

// MaxColors is the largest supported palette. Triple signatures are encoded
// in base 5, so five colors is a hard limit.
const MaxColors = 5

// None is the color of an empty cell.
const None = -1

var (
	ErrBadColorCount     = errors.New("color count out of range")
	ErrBadColor          = errors.New("color out of range")
	ErrOutOfBounds       = errors.New("cell out of bounds")
	ErrOverlappingPlanes = errors.New("cell claimed by more than one color")
)

// A Board holds one BitBoard per color. The planes partition the occupied
// cells: no cell is set in more than one plane.
type Board struct {
	colors []bitboard.BitBoard
}

func New(nColors int) (*Board, error) {
	if nColors < 1 || nColors > MaxColors {
		return nil, fmt.Errorf("%w: %d", ErrBadColorCount, nColors)
	}
	return &Board{colors: make([]bitboard.BitBoard, nColors)}, nil
}

// FromPlanes builds a board from existing color planes. It fails if the
// planes overlap.
func FromPlanes(planes ...bitboard.BitBoard) (*Board, error) {
	b, err := New(len(planes))
	if err != nil {
		return nil, err
	}
	var seen bitboard.BitBoard
	for i, p := range planes {
		if seen.Intersects(p) {
			return nil, fmt.Errorf("%w: plane %d", ErrOverlappingPlanes, i)
		}
		seen = seen.Or(p)
		b.colors[i] = p
	}
	return b, nil
}

func (b *Board) NColors() int {
	return len(b.colors)
}

// Plane returns the cells of color c.
func (b *Board) Plane(c int) bitboard.BitBoard {
	return b.colors[c]
}

func (b *Board) Copy() *Board {
	n := &Board{colors: make([]bitboard.BitBoard, len(b.colors))}
	copy(n.colors, b.colors)
	return n
}

// Set paints (x, y) with color c, removing any other color it had.
func (b *Board) Set(x, y, c int) error {
	if !bitboard.InBounds(x, y) {
		return fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, x, y)
	}
	if c < 0 || c >= len(b.colors) {
		return fmt.Errorf("%w: %d", ErrBadColor, c)
	}
	b.Clear(x, y)
	b.colors[c] = b.colors[c].Set(x, y)
	return nil
}

func (b *Board) Clear(x, y int) {
	for i := range b.colors {
		b.colors[i] = b.colors[i].Clear(x, y)
	}
}

// ClearCells empties every cell of bb.
func (b *Board) ClearCells(bb bitboard.BitBoard) {
	for i := range b.colors {
		b.colors[i] = b.colors[i].AndNot(bb)
	}
}

// Mask returns the occupied cells.
func (b *Board) Mask() bitboard.BitBoard {
	var m bitboard.BitBoard
	for _, c := range b.colors {
		m = m.Or(c)
	}
	return m
}

// Color returns the color at (x, y), or None. It panics if more than one
// plane claims the cell, since that can only be a programming error.
func (b *Board) Color(x, y int) int {
	found := None
	for i, c := range b.colors {
		if c.IsSet(x, y) {
			if found != None {
				panic(fmt.Errorf("%w: (%d, %d) in %d and %d", ErrOverlappingPlanes, x, y, found, i))
			}
			found = i
		}
	}
	return found
}

func (b *Board) Equal(o *Board) bool {
	if len(b.colors) != len(o.colors) {
		return false
	}
	for i := range b.colors {
		if b.colors[i] != o.colors[i] {
			return false
		}
	}
	return true
}

// Map returns a new board with f applied to every plane. f must be injective
// on the grid for the partition to survive, which holds for every geometric
// operation of bitboard.
func (b *Board) Map(f func(bitboard.BitBoard) bitboard.BitBoard) *Board {
	n := &Board{colors: make([]bitboard.BitBoard, len(b.colors))}
	for i, c := range b.colors {
		n.colors[i] = f(c)
	}
	return n
}

// And restricts every plane to bb.
func (b *Board) And(bb bitboard.BitBoard) *Board {
	return b.Map(func(c bitboard.BitBoard) bitboard.BitBoard { return c.And(bb) })
}

func (b *Board) RotL() *Board {
	return b.Map(bitboard.BitBoard.RotL)
}

func (b *Board) RotR() *Board {
	return b.Map(bitboard.BitBoard.RotR)
}

func (b *Board) Reverse() *Board {
	return b.Map(bitboard.BitBoard.Reverse)
}

// Rotate applies r counter-clockwise quarter turns about the centre.
func (b *Board) Rotate(r int) *Board {
	return b.Map(func(c bitboard.BitBoard) bitboard.BitBoard { return c.Rotate(r) })
}

func (b *Board) Shift(dx, dy int) *Board {
	return b.Map(func(c bitboard.BitBoard) bitboard.BitBoard { return c.Shift(dx, dy) })
}

func (b *Board) Transform(t bitboard.ShiftRotate) *Board {
	return b.Map(t.Apply)
}

// SWCorner moves the content flush with the west and south edges.
func (b *Board) SWCorner() *Board {
	m := b.Mask()
	return b.Map(func(c bitboard.BitBoard) bitboard.BitBoard {
		return c.ShiftWS(m.MarginW(), m.MarginS())
	})
}
