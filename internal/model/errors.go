package model

import (
	"errors"
	"fmt"
)

// Two kinds of failure. A rule violation is a rejected request: the game
// state is left untouched and play continues. An invariant violation means a
// caller bypassed the generator and executor contract.
var (
	ErrRuleViolation = errors.New("rule violation")
	ErrInvariant     = errors.New("invariant violation")
)

var (
	ErrIllegalSelection   = fmt.Errorf("%w: illegal selection", ErrRuleViolation)
	ErrIllegalDestination = fmt.Errorf("%w: illegal destination", ErrRuleViolation)
	ErrNotYourTurn        = fmt.Errorf("%w: not your turn", ErrRuleViolation)
	ErrChainPending       = fmt.Errorf("%w: capture chain must continue with the same piece", ErrRuleViolation)
	ErrGameOver           = fmt.Errorf("%w: game is over", ErrRuleViolation)
	ErrNoLegalMoves       = fmt.Errorf("%w: no legal moves to play", ErrRuleViolation)
)

var (
	ErrEmptyOrigin         = fmt.Errorf("%w: origin square is empty", ErrInvariant)
	ErrOccupiedDestination = fmt.Errorf("%w: destination square is occupied", ErrInvariant)
	ErrOutOfBounds         = fmt.Errorf("%w: square out of bounds", ErrInvariant)
	ErrNotDiagonal         = fmt.Errorf("%w: move is not a one or two step diagonal", ErrInvariant)
	ErrMissingCapture      = fmt.Errorf("%w: no opposing piece to capture", ErrInvariant)
)

func IsRuleViolation(err error) bool {
	return errors.Is(err, ErrRuleViolation)
}

func IsInvariant(err error) bool {
	return errors.Is(err, ErrInvariant)
}
