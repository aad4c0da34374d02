package model

import "fmt"

// Outcome describes what a single executed step did to the board.
type Outcome struct {
	Captured      bool
	CapturedAt    Square
	CapturedPiece Piece
	Promoted      bool
}

// Execute relocates the piece on from to to. A two square step removes the
// piece it jumps over. Promotion is checked after every step.
//
// Execute only checks board invariants. Whether the move is legal for the
// current turn is the caller's business; see GameState.ApplyMove.
func (b *Board) Execute(from, to Square) (Outcome, error) {
	if !from.InBounds() || !to.InBounds() {
		return Outcome{}, fmt.Errorf("execute %s-%s: %w", from, to, ErrOutOfBounds)
	}
	piece, ok := b.At(from)
	if !ok {
		return Outcome{}, fmt.Errorf("execute %s-%s: %w", from, to, ErrEmptyOrigin)
	}
	if _, occupied := b.At(to); occupied {
		return Outcome{}, fmt.Errorf("execute %s-%s: %w", from, to, ErrOccupiedDestination)
	}

	dx, dy := to.X-from.X, to.Y-from.Y
	if abs(dx) != abs(dy) || (abs(dx) != 1 && abs(dx) != 2) {
		return Outcome{}, fmt.Errorf("execute %s-%s: %w", from, to, ErrNotDiagonal)
	}

	var out Outcome
	if abs(dx) == 2 {
		mid := from.Add(dx/2, dy/2)
		captured, ok := b.At(mid)
		if !ok || captured.Color == piece.Color {
			return Outcome{}, fmt.Errorf("execute %s-%s: %w", from, to, ErrMissingCapture)
		}
		b.Clear(mid)
		out.Captured = true
		out.CapturedAt = mid
		out.CapturedPiece = captured
	}

	b.cells[from.Y][from.X] = Piece{}
	if !piece.Promoted && to.Y == piece.Color.PromotionRow() {
		piece.Promoted = true
		out.Promoted = true
	}
	b.cells[to.Y][to.X] = piece
	return out, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
