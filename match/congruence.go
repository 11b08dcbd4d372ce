package match

import (
	"github.com/domino14/doubledots/bitboard"
	"github.com/domino14/doubledots/board"
)

// An alignment brings a selection to the origin after one of the four
// rotations. Because the bounding box turns with the content, each rotation
// pairs the selection's own margins differently.
type alignment struct {
	rotation int
	margins  func(n, s, e, w int) (west, south int)
}

var alignments = [4]alignment{
	{0, func(n, s, e, w int) (int, int) { return w, s }},
	{1, func(n, s, e, w int) (int, int) { return n, w }},
	{2, func(n, s, e, w int) (int, int) { return e, n }},
	{3, func(n, s, e, w int) (int, int) { return s, e }},
}

// Prerotated is a board in each of its four rotations, indexed by the number
// of counter-clockwise quarter turns. Building it once lets repeated
// congruence tests skip rotating every color plane.
type Prerotated struct {
	rots [4]*board.Board
}

func NewPrerotated(b *board.Board) *Prerotated {
	return &Prerotated{rots: [4]*board.Board{b, b.RotL(), b.Reverse(), b.RotR()}}
}

func (p *Prerotated) Board() *board.Board {
	return p.rots[0]
}

// normalized is a selection moved to the origin, split by color.
type normalized struct {
	shape  bitboard.BitBoard
	planes []bitboard.BitBoard
	// transform takes the selection to shape.
	transform bitboard.ShiftRotate
}

func (p *Prerotated) normalize(sel bitboard.BitBoard) normalized {
	w, s := sel.MarginW(), sel.MarginS()
	b := p.rots[0]
	n := normalized{
		shape:     sel.ShiftWS(w, s),
		planes:    make([]bitboard.BitBoard, b.NColors()),
		transform: bitboard.Translation(-w, -s),
	}
	for i := range n.planes {
		n.planes[i] = b.Plane(i).And(sel).ShiftWS(w, s)
	}
	return n
}

// matches reports which rotations of sel line up with the normalized
// selection a, as a bit mask indexed by rotation. With first set it stops at
// the first rotation that matches.
func (p *Prerotated) matches(a normalized, sel bitboard.BitBoard, first bool) uint8 {
	n, s, e, w := sel.MarginN(), sel.MarginS(), sel.MarginE(), sel.MarginW()
	var found uint8
	for _, al := range alignments {
		mw, ms := al.margins(n, s, e, w)
		rotated := sel.Rotate(al.rotation)
		if rotated.ShiftWS(mw, ms) != a.shape {
			continue
		}
		rb := p.rots[al.rotation]
		ok := true
		for i, want := range a.planes {
			if rb.Plane(i).And(rotated).ShiftWS(mw, ms) != want {
				ok = false
				break
			}
		}
		if ok {
			found |= 1 << al.rotation
			if first {
				break
			}
		}
	}
	return found
}

// Congruent reports whether every selection has the same shape and colors as
// the first one, up to translation and a quarter-turn rotation. Each
// selection must match on every color plane under a single rotation.
// Fewer than two selections are trivially congruent.
func (p *Prerotated) Congruent(selections ...bitboard.BitBoard) bool {
	if len(selections) < 2 {
		return true
	}
	a := p.normalize(selections[0])
	for _, sel := range selections[1:] {
		if p.matches(a, sel, true) == 0 {
			return false
		}
	}
	return true
}

// Alignments returns every transform that maps a onto b cell for cell with
// matching colors. It is empty when a and b are not congruent; more than one
// transform means the shape is rotationally symmetric.
func (p *Prerotated) Alignments(a, b bitboard.BitBoard) []bitboard.ShiftRotate {
	na := p.normalize(a)
	found := p.matches(na, b, false)
	if found == 0 {
		return nil
	}
	out := make([]bitboard.ShiftRotate, 0, 4)
	for r := range alignments {
		if found&(1<<r) == 0 {
			continue
		}
		// b --Normalizer--> shape <--na.transform-- a
		nb := bitboard.Normalizer(b, r)
		out = append(out, nb.Inverse().Compose(na.transform))
	}
	return out
}

// Congruent is the one-shot form of Prerotated.Congruent.
func Congruent(b *board.Board, selections ...bitboard.BitBoard) bool {
	if len(selections) < 2 {
		return true
	}
	return NewPrerotated(b).Congruent(selections...)
}
