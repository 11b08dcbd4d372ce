package board

import (
	"fmt"
	"strings"

	"github.com/domino14/doubledots/bitboard"
)

// Palette gives the display letter of each color index.
const Palette = "RGBPY"

// ParseColor accepts a palette letter (either case) or a digit.
func ParseColor(ch rune) (int, bool) {
	if ch == '.' || ch == ' ' {
		return None, true
	}
	if ch >= '0' && ch < '0'+MaxColors {
		return int(ch - '0'), true
	}
	if i := strings.IndexRune(Palette, ch); i >= 0 {
		return i, true
	}
	if i := strings.IndexRune(strings.ToLower(Palette), ch); i >= 0 {
		return i, true
	}
	return 0, false
}

// FromRows parses a board. rows[0] is y = 0 and the first rune of each row
// is x = 0; '.' or ' ' is an empty cell.
func FromRows(rows []string, nColors int) (*Board, error) {
	b, err := New(nColors)
	if err != nil {
		return nil, err
	}
	if len(rows) > bitboard.Size {
		return nil, fmt.Errorf("%w: %d rows", ErrOutOfBounds, len(rows))
	}
	for y, row := range rows {
		runes := []rune(row)
		if len(runes) > bitboard.Size {
			return nil, fmt.Errorf("%w: row %d has %d cells", ErrOutOfBounds, y, len(runes))
		}
		for x, ch := range runes {
			c, ok := ParseColor(ch)
			if !ok {
				return nil, fmt.Errorf("unknown color %q at (%d, %d)", ch, x, y)
			}
			if c == None {
				continue
			}
			if err := b.Set(x, y, c); err != nil {
				return nil, err
			}
		}
	}
	return b, nil
}

// Rows is the inverse of FromRows, trimmed to the occupied extent.
func (b *Board) Rows() []string {
	m := b.Mask()
	if m.IsEmpty() {
		return nil
	}
	height := bitboard.Size - m.MarginN()
	width := bitboard.Size - m.MarginE()
	rows := make([]string, height)
	for y := 0; y < height; y++ {
		var sb strings.Builder
		for x := 0; x < width; x++ {
			c := b.Color(x, y)
			if c == None {
				sb.WriteByte('.')
			} else {
				sb.WriteByte(Palette[c])
			}
		}
		rows[y] = sb.String()
	}
	return rows
}

func (b *Board) String() string {
	return strings.Join(b.Rows(), "\n")
}

// ToDisplayText renders the board with column and row labels.
func (b *Board) ToDisplayText() string {
	return b.DisplaySelections()
}

// DisplaySelections renders the board once per selection, side by side. In
// each copy the selected cells show their color and the other occupied cells
// show '-'. With no selections the plain board is rendered.
func (b *Board) DisplaySelections(sels ...bitboard.BitBoard) string {
	var sb strings.Builder
	panels := len(sels)
	if panels == 0 {
		panels = 1
	}
	m := b.Mask()
	top := bitboard.Size - m.MarginN()
	for _, s := range sels {
		top = max(top, bitboard.Size-s.MarginN())
	}

	sb.WriteString("   ")
	for p := 0; p < panels; p++ {
		if p > 0 {
			sb.WriteString("  ")
		}
		for x := 0; x < bitboard.Size; x++ {
			sb.WriteByte("0123456789ABCDEF"[x])
		}
	}
	sb.WriteByte('\n')

	for y := 0; y < top; y++ {
		fmt.Fprintf(&sb, "%2d ", y)
		for p := 0; p < panels; p++ {
			if p > 0 {
				sb.WriteString(" |")
			}
			for x := 0; x < bitboard.Size; x++ {
				c := b.Color(x, y)
				switch {
				case c == None:
					sb.WriteByte(' ')
				case len(sels) == 0 || sels[p].IsSet(x, y):
					sb.WriteByte(Palette[c])
				default:
					sb.WriteByte('-')
				}
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
