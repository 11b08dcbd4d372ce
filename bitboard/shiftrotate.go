package bitboard

import "fmt"

// A ShiftRotate rotates R counter-clockwise quarter turns about the origin
// and then translates by (DX, DY). ShiftRotates form a group under Compose;
// applied to a BitBoard, any cell that lands off the grid is dropped.
type ShiftRotate struct {
	DX, DY int
	R      int
}

// Identity leaves every board unchanged.
var Identity = ShiftRotate{}

func Translation(dx, dy int) ShiftRotate {
	return ShiftRotate{DX: dx, DY: dy}
}

// centreOffsets[r] is the translation that turns a rotation about the origin
// into the same rotation about the board centre.
var centreOffsets = [4][2]int{
	{0, 0},
	{Size - 1, 0},
	{Size - 1, Size - 1},
	{0, Size - 1},
}

// CenterRotation is the ShiftRotate equivalent of Rotate(r): r=1 is RotL,
// 2 is Reverse and 3 is RotR.
func CenterRotation(r int) ShiftRotate {
	r = mod4(r)
	return ShiftRotate{DX: centreOffsets[r][0], DY: centreOffsets[r][1], R: r}
}

func rotateVec(x, y, r int) (int, int) {
	switch mod4(r) {
	case 1:
		return -y, x
	case 2:
		return -x, -y
	case 3:
		return y, -x
	}
	return x, y
}

// ApplyCell maps a single coordinate.
func (t ShiftRotate) ApplyCell(x, y int) (int, int) {
	x, y = rotateVec(x, y, t.R)
	return x + t.DX, y + t.DY
}

// Apply transforms every cell of b. The rotation is carried out about the
// board centre, which is lossless on a square grid, and the remaining offset
// is applied as a single shift so that only cells whose final position is
// off the grid are dropped.
func (t ShiftRotate) Apply(b BitBoard) BitBoard {
	r := mod4(t.R)
	return b.Rotate(r).Shift(t.DX-centreOffsets[r][0], t.DY-centreOffsets[r][1])
}

// ApplyToCell transforms a single-cell board. It is the same as Apply but
// skips the rotation work; it returns the empty board if b is not exactly one
// cell or the image is off the grid.
func (t ShiftRotate) ApplyToCell(b BitBoard) BitBoard {
	x, y, ok := b.LowestCell()
	if !ok {
		return Empty
	}
	return Single(t.ApplyCell(x, y))
}

// Compose returns the transform that applies o first and then t.
func (t ShiftRotate) Compose(o ShiftRotate) ShiftRotate {
	dx, dy := rotateVec(o.DX, o.DY, t.R)
	return ShiftRotate{DX: dx + t.DX, DY: dy + t.DY, R: mod4(t.R + o.R)}
}

func (t ShiftRotate) Inverse() ShiftRotate {
	r := mod4(-t.R)
	dx, dy := rotateVec(-t.DX, -t.DY, r)
	return ShiftRotate{DX: dx, DY: dy, R: r}
}

// Normalized reports t with R reduced to 0..3, so that equal transforms
// compare equal.
func (t ShiftRotate) Normalized() ShiftRotate {
	t.R = mod4(t.R)
	return t
}

func (t ShiftRotate) String() string {
	return fmt.Sprintf("(%+d,%+d)r%d", t.DX, t.DY, mod4(t.R))
}

// Normalizer returns the transform that rotates b by r quarter turns about
// the centre and then moves its content flush with the west and south edges.
// The margins used are those of b itself, paired per rotation: (W,S) for 0,
// (N,W) for 1, (E,N) for 2 and (S,E) for 3.
func Normalizer(b BitBoard, r int) ShiftRotate {
	n, s, e, w := b.MarginN(), b.MarginS(), b.MarginE(), b.MarginW()
	var mw, ms int
	switch r = mod4(r); r {
	case 0:
		mw, ms = w, s
	case 1:
		mw, ms = n, w
	case 2:
		mw, ms = e, n
	case 3:
		mw, ms = s, e
	}
	return Translation(-mw, -ms).Compose(CenterRotation(r))
}
