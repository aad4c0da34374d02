package model

import (
	"fmt"
	"slices"
)

// Phase is the turn controller's position within a ply.
type Phase string

const (
	PhaseAwaitingSelection   Phase = "awaitingSelection"
	PhaseAwaitingDestination Phase = "awaitingDestination"
	// PhaseChainCapture only exists while a capture is being resolved; the
	// controller never rests in it.
	PhaseChainCapture Phase = "chainCapture"
	PhaseGameOver     Phase = "gameOver"
)

// GameState is the board plus whose turn it is and where the current ply
// stands. It is mutated in place by Select and ApplyMove and is not safe for
// concurrent use; Game serializes access to it.
type GameState struct {
	Board        Board          `json:"board"`
	ActiveColor  PlayerColor    `json:"activeColor"`
	Phase        Phase          `json:"phase"`
	Selected     *Square        `json:"selected"`
	ForcedOrigin *Square        `json:"forcedOrigin"`
	LegalTargets []Square       `json:"legalTargets"`
	Captured     CapturedPieces `json:"capturedPieces"`
	LastMove     *SimpleMove    `json:"lastMove"`
	LastPly      *Ply           `json:"lastPly"`
	PlyCount     int            `json:"plyCount"`
	Winner       *PlayerColor   `json:"winner"`

	ply Ply
}

type SelectionResult struct {
	Origin       Square   `json:"origin"`
	Destinations []Square `json:"destinations"`
	// Mandatory is set when the destinations are captures forced by the rule.
	Mandatory bool `json:"mandatory"`
}

type MoveResult struct {
	Board        Board        `json:"board"`
	From         Square       `json:"from"`
	To           Square       `json:"to"`
	Captured     bool         `json:"captured"`
	CapturedAt   *Square      `json:"capturedAt"`
	Promoted     bool         `json:"promoted"`
	ChainPending bool         `json:"chainPending"`
	TurnEnded    bool         `json:"turnEnded"`
	// ActiveColor is the side to move next, set only when TurnEnded.
	ActiveColor  PlayerColor  `json:"activeColor,omitempty"`
	GameOver     bool         `json:"gameOver"`
	Winner       *PlayerColor `json:"winner"`
}

// NewGameState returns the standard opening with black to move.
func NewGameState() *GameState {
	return NewGameStateFromBoard(NewBoard(), PlayerColorBlack)
}

// NewGameStateFromBoard starts play from an arbitrary position.
func NewGameStateFromBoard(board Board, active PlayerColor) *GameState {
	g := &GameState{
		Board:        board,
		ActiveColor:  active,
		Phase:        PhaseAwaitingSelection,
		LegalTargets: make([]Square, 0),
		Captured:     newCapturedPieces(),
		ply:          Ply{Color: active},
	}
	g.checkGameOver()
	return g
}

// IsGameOver reports whether color has neither a plain move nor a capture.
func (g *GameState) IsGameOver(color PlayerColor) bool {
	return !g.Board.HasLegalMove(color)
}

// Select picks the piece on sq as the origin of the next move. A rejected
// selection leaves the state as it was.
func (g *GameState) Select(sq Square) (SelectionResult, error) {
	if g.Winner != nil {
		return SelectionResult{}, ErrGameOver
	}
	if g.ForcedOrigin != nil {
		if sq != *g.ForcedOrigin {
			return SelectionResult{}, fmt.Errorf("select %s: %w", sq, ErrChainPending)
		}
		return SelectionResult{
			Origin:       sq,
			Destinations: slices.Clone(g.LegalTargets),
			Mandatory:    true,
		}, nil
	}

	piece, ok := g.Board.At(sq)
	if !ok || piece.Color != g.ActiveColor {
		return SelectionResult{}, fmt.Errorf("select %s: %w", sq, ErrIllegalSelection)
	}
	mandatory := g.Board.AnyCaptureAvailable(g.ActiveColor)
	targets := g.Board.LegalDestinations(sq, g.ActiveColor)
	if len(targets) == 0 {
		return SelectionResult{}, fmt.Errorf("select %s: %w", sq, ErrIllegalSelection)
	}

	origin := sq
	g.Selected = &origin
	g.LegalTargets = targets
	g.Phase = PhaseAwaitingDestination
	return SelectionResult{
		Origin:       sq,
		Destinations: slices.Clone(targets),
		Mandatory:    mandatory,
	}, nil
}

// ApplyMove moves the piece on from to to. If from is not the current
// selection it is selected first under the same rules as Select. After a
// capture the ply continues while the same piece can capture again.
func (g *GameState) ApplyMove(from, to Square) (MoveResult, error) {
	if g.Winner != nil {
		return MoveResult{}, ErrGameOver
	}

	prevSelected, prevTargets, prevPhase := g.Selected, g.LegalTargets, g.Phase
	restore := func() {
		g.Selected, g.LegalTargets, g.Phase = prevSelected, prevTargets, prevPhase
	}

	if g.Phase != PhaseAwaitingDestination || g.Selected == nil || *g.Selected != from {
		if _, err := g.Select(from); err != nil {
			return MoveResult{}, err
		}
	}
	if !slices.Contains(g.LegalTargets, to) {
		restore()
		return MoveResult{}, fmt.Errorf("move %s-%s: %w", from, to, ErrIllegalDestination)
	}

	out, err := g.Board.Execute(from, to)
	if err != nil {
		restore()
		return MoveResult{}, err
	}

	step := Step{From: from, To: to, Promoted: out.Promoted}
	result := MoveResult{
		From:     from,
		To:       to,
		Captured: out.Captured,
		Promoted: out.Promoted,
	}
	if out.Captured {
		at := out.CapturedAt
		step.CapturedAt = &at
		result.CapturedAt = &at
		g.Captured.add(out.CapturedPiece)
	}
	g.ply.Steps = append(g.ply.Steps, step)
	g.LastMove = &SimpleMove{From: from, To: to}

	if out.Captured {
		g.Phase = PhaseChainCapture
		if next := g.Board.CaptureMoves(to, g.ActiveColor); len(next) > 0 {
			landed := to
			g.ForcedOrigin = &landed
			g.Selected = &landed
			g.LegalTargets = next
			g.Phase = PhaseAwaitingDestination
			result.ChainPending = true
		}
	}
	if !result.ChainPending {
		g.endPly()
		result.TurnEnded = true
		result.ActiveColor = g.ActiveColor
	}

	result.Board = g.Board
	result.GameOver = g.Winner != nil
	result.Winner = g.Winner
	return result, nil
}

func (g *GameState) endPly() {
	done := g.ply
	g.LastPly = &done
	g.PlyCount++
	g.ActiveColor = g.ActiveColor.Opponent()
	g.ply = Ply{Color: g.ActiveColor}
	g.Selected = nil
	g.ForcedOrigin = nil
	g.LegalTargets = make([]Square, 0)
	g.Phase = PhaseAwaitingSelection
	g.checkGameOver()
}

// checkGameOver ends the game when the side to move is blocked or has no pieces.
func (g *GameState) checkGameOver() {
	if g.IsGameOver(g.ActiveColor) {
		winner := g.ActiveColor.Opponent()
		g.Winner = &winner
		g.Phase = PhaseGameOver
	}
}

// Clone returns a deep copy safe to hand to another goroutine.
func (g *GameState) Clone() GameState {
	c := *g
	c.Selected = cloneSquare(g.Selected)
	c.ForcedOrigin = cloneSquare(g.ForcedOrigin)
	c.LegalTargets = append(make([]Square, 0, len(g.LegalTargets)), g.LegalTargets...)
	c.Captured = g.Captured.clone()
	if g.LastMove != nil {
		m := *g.LastMove
		c.LastMove = &m
	}
	if g.LastPly != nil {
		p := g.LastPly.clone()
		c.LastPly = &p
	}
	if g.Winner != nil {
		w := *g.Winner
		c.Winner = &w
	}
	c.ply = g.ply.clone()
	return c
}

func cloneSquare(s *Square) *Square {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
