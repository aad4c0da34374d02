package model

var kingDirs = []Square{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: 1, Y: 1}}

// directions returns the unit diagonals a piece may travel along.
func directions(p Piece) []Square {
	if p.Promoted {
		return kingDirs
	}
	dy := p.Color.Forward()
	return []Square{{X: -1, Y: dy}, {X: 1, Y: dy}}
}

// PlainMoves returns the empty squares one diagonal step away that the piece
// on sq may move to. It returns nil unless sq holds a piece of color.
func (b *Board) PlainMoves(sq Square, color PlayerColor) []Square {
	piece, ok := b.At(sq)
	if !ok || piece.Color != color {
		return nil
	}
	moves := []Square{}
	for _, dir := range directions(piece) {
		target := sq.Add(dir.X, dir.Y)
		if !target.InBounds() {
			continue
		}
		if _, occupied := b.At(target); !occupied {
			moves = append(moves, target)
		}
	}
	return moves
}

// CaptureMoves returns the landing squares of single jumps available to the
// piece on sq. Kings jump exactly one square over one square like men do.
func (b *Board) CaptureMoves(sq Square, color PlayerColor) []Square {
	piece, ok := b.At(sq)
	if !ok || piece.Color != color {
		return nil
	}
	captures := []Square{}
	for _, dir := range directions(piece) {
		target := sq.Add(2*dir.X, 2*dir.Y)
		if !target.InBounds() {
			continue
		}
		if _, occupied := b.At(target); occupied {
			continue
		}
		mid, ok := b.At(sq.Add(dir.X, dir.Y))
		if ok && mid.Color != color {
			captures = append(captures, target)
		}
	}
	return captures
}

// AnyCaptureAvailable reports whether some piece of color can capture. When
// it can, every move of the ply must be a capture.
func (b *Board) AnyCaptureAvailable(color PlayerColor) bool {
	for _, sq := range b.Pieces(color) {
		if len(b.CaptureMoves(sq, color)) > 0 {
			return true
		}
	}
	return false
}

// AllCaptures lists every capture available to color.
func (b *Board) AllCaptures(color PlayerColor) []SimpleMove {
	captures := []SimpleMove{}
	for _, sq := range b.Pieces(color) {
		for _, to := range b.CaptureMoves(sq, color) {
			captures = append(captures, SimpleMove{From: sq, To: to})
		}
	}
	return captures
}

// LegalDestinations applies the mandatory capture rule to the piece on sq.
func (b *Board) LegalDestinations(sq Square, color PlayerColor) []Square {
	if b.AnyCaptureAvailable(color) {
		return b.CaptureMoves(sq, color)
	}
	return b.PlainMoves(sq, color)
}

// LegalMoves lists every move color may start its ply with.
func (b *Board) LegalMoves(color PlayerColor) []SimpleMove {
	if captures := b.AllCaptures(color); len(captures) > 0 {
		return captures
	}
	moves := []SimpleMove{}
	for _, sq := range b.Pieces(color) {
		for _, to := range b.PlainMoves(sq, color) {
			moves = append(moves, SimpleMove{From: sq, To: to})
		}
	}
	return moves
}

// HasLegalMove is false exactly when color has no plain move and no capture.
func (b *Board) HasLegalMove(color PlayerColor) bool {
	for _, sq := range b.Pieces(color) {
		if len(b.PlainMoves(sq, color)) > 0 || len(b.CaptureMoves(sq, color)) > 0 {
			return true
		}
	}
	return false
}
