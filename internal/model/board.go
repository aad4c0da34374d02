package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Size is the number of rows and columns on the board.
const Size = 8

// Square is a board coordinate. Only squares with an odd x+y are playable.
type Square struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (s Square) InBounds() bool {
	return s.X >= 0 && s.X < Size && s.Y >= 0 && s.Y < Size
}

func (s Square) Playable() bool {
	return s.InBounds() && (s.X+s.Y)%2 == 1
}

func (s Square) Add(dx, dy int) Square {
	return Square{X: s.X + dx, Y: s.Y + dy}
}

func (s Square) String() string {
	return fmt.Sprintf("%d,%d", s.X, s.Y)
}

// ParseSquare reads a square written as "x,y".
func ParseSquare(s string) (Square, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return Square{}, fmt.Errorf("square %q: expected x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Square{}, fmt.Errorf("square %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Square{}, fmt.Errorf("square %q: %w", s, err)
	}
	sq := Square{X: x, Y: y}
	if !sq.InBounds() {
		return Square{}, fmt.Errorf("square %q: out of bounds", s)
	}
	return sq, nil
}

// Piece is the occupant of a square. The zero value is an empty cell; a piece
// carries no position of its own.
type Piece struct {
	Color    PlayerColor `json:"color"`
	Promoted bool        `json:"promoted"`
}

func (p Piece) Empty() bool {
	return p.Color == ""
}

// Board holds the 64 cells indexed [y][x]. It is a value type: copying a
// Board copies the whole position.
type Board struct {
	cells [Size][Size]Piece
}

// EmptyBoard returns a board with no pieces.
func EmptyBoard() Board {
	return Board{}
}

// NewBoard returns the opening layout: black on rows 0-2, white on rows 5-7,
// playable squares only.
func NewBoard() Board {
	var b Board
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			sq := Square{X: x, Y: y}
			if !sq.Playable() {
				continue
			}
			switch {
			case y < 3:
				b.cells[y][x] = Piece{Color: PlayerColorBlack}
			case y >= Size-3:
				b.cells[y][x] = Piece{Color: PlayerColorWhite}
			}
		}
	}
	return b
}

// At returns the occupant of sq and whether there is one.
func (b *Board) At(sq Square) (Piece, bool) {
	if !sq.InBounds() {
		return Piece{}, false
	}
	p := b.cells[sq.Y][sq.X]
	return p, !p.Empty()
}

// Set places p on sq. It is meant for building positions; play goes through Execute.
func (b *Board) Set(sq Square, p Piece) error {
	if !sq.Playable() {
		return fmt.Errorf("set %s: %w", sq, ErrOutOfBounds)
	}
	if !p.Color.Valid() {
		return fmt.Errorf("set %s: invalid color %q", sq, p.Color)
	}
	b.cells[sq.Y][sq.X] = p
	return nil
}

func (b *Board) Clear(sq Square) {
	if sq.InBounds() {
		b.cells[sq.Y][sq.X] = Piece{}
	}
}

// Pieces lists the squares occupied by color, scanning row by row.
func (b *Board) Pieces(color PlayerColor) []Square {
	squares := []Square{}
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if b.cells[y][x].Color == color {
				squares = append(squares, Square{X: x, Y: y})
			}
		}
	}
	return squares
}

func (b *Board) Count(color PlayerColor) int {
	n := 0
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if b.cells[y][x].Color == color {
				n++
			}
		}
	}
	return n
}

// String draws the board with b/w for men and B/W for kings.
func (b Board) String() string {
	var sb strings.Builder
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			p := b.cells[y][x]
			switch {
			case p.Empty():
				sb.WriteByte('.')
			case p.Color == PlayerColorBlack && p.Promoted:
				sb.WriteByte('B')
			case p.Color == PlayerColorBlack:
				sb.WriteByte('b')
			case p.Promoted:
				sb.WriteByte('W')
			default:
				sb.WriteByte('w')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// MarshalJSON encodes the board as rows of pieces, null for empty cells.
func (b Board) MarshalJSON() ([]byte, error) {
	rows := make([][]*Piece, Size)
	for y := 0; y < Size; y++ {
		rows[y] = make([]*Piece, Size)
		for x := 0; x < Size; x++ {
			if p := b.cells[y][x]; !p.Empty() {
				rows[y][x] = &p
			}
		}
	}
	return json.Marshal(rows)
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var rows [][]*Piece
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	if len(rows) != Size {
		return errors.New("board must have 8 rows")
	}
	var out Board
	for y, row := range rows {
		if len(row) != Size {
			return fmt.Errorf("board row %d must have 8 cells", y)
		}
		for x, p := range row {
			if p == nil {
				continue
			}
			if err := out.Set(Square{X: x, Y: y}, *p); err != nil {
				return err
			}
		}
	}
	*b = out
	return nil
}
