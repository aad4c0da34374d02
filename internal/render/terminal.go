// Package render draws boards for terminal play.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/fatih/color"
)

var (
	blackPiece = color.New(color.FgRed, color.Bold)
	whitePiece = color.New(color.FgHiWhite, color.Bold)
	target     = color.New(color.FgGreen, color.Bold)
	selected   = color.New(color.BgYellow, color.FgBlack)
	dark       = color.New(color.FgHiBlack)
)

// errWriter keeps the first write error and skips every write after it.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

// Board writes board to w with x along the top and y down the side.
// Squares in targets are marked with '*', and origin, if set, is highlighted.
func Board(w io.Writer, board model.Board, origin *model.Square, targets []model.Square) error {
	marked := make(map[model.Square]bool, len(targets))
	for _, sq := range targets {
		marked[sq] = true
	}

	ew := &errWriter{w: w}
	ew.printf("   ")
	for x := 0; x < model.Size; x++ {
		ew.printf(" %d", x)
	}
	ew.printf("\n")

	for y := 0; y < model.Size; y++ {
		ew.printf(" %d ", y)
		for x := 0; x < model.Size; x++ {
			sq := model.Square{X: x, Y: y}
			cell := cellString(board, sq, marked[sq])
			if origin != nil && *origin == sq {
				cell = selected.Sprint(cell)
			}
			ew.printf(" %s", cell)
		}
		ew.printf("\n")
	}
	return ew.err
}

func cellString(board model.Board, sq model.Square, isTarget bool) string {
	piece, ok := board.At(sq)
	switch {
	case ok:
		if piece.Color == model.PlayerColorBlack {
			return blackPiece.Sprint(glyph(piece, "b"))
		}
		return whitePiece.Sprint(glyph(piece, "w"))
	case isTarget:
		return target.Sprint("*")
	case sq.Playable():
		return dark.Sprint(".")
	default:
		return " "
	}
}

// glyph upper-cases kings.
func glyph(p model.Piece, man string) string {
	if p.Promoted {
		return strings.ToUpper(man)
	}
	return man
}

// Status writes whose turn it is, or the winner.
func Status(w io.Writer, state *model.GameState) error {
	if state.Winner != nil {
		_, err := fmt.Fprintf(w, "Game over: %s wins after %d plies\n", *state.Winner, state.PlyCount)
		return err
	}
	_, err := fmt.Fprintf(w, "%s to move (black %d, white %d)\n",
		state.ActiveColor,
		state.Board.Count(model.PlayerColorBlack),
		state.Board.Count(model.PlayerColorWhite))
	return err
}
