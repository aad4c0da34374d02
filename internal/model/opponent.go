package model

import (
	"math/rand"

	petname "github.com/dustinkirkland/golang-petname"
)

// RandomOpponent plays a legal ply chosen uniformly at random at every
// decision point: origin, destination, and each chain continuation.
type RandomOpponent struct {
	rng  *rand.Rand
	name string
}

func NewRandomOpponent(seed int64) *RandomOpponent {
	return &RandomOpponent{
		rng:  rand.New(rand.NewSource(seed)),
		name: petname.Generate(2, "-"),
	}
}

func (o *RandomOpponent) Name() string {
	return o.name
}

// PlayPly plays one complete ply for the side to move. It goes through
// Select and ApplyMove, so the turn controller enforces every rule.
func (o *RandomOpponent) PlayPly(state *GameState) (Ply, error) {
	if state.Winner != nil {
		return Ply{}, ErrGameOver
	}
	color := state.ActiveColor

	var origins []Square
	if state.ForcedOrigin != nil {
		origins = []Square{*state.ForcedOrigin}
	} else {
		for _, sq := range state.Board.Pieces(color) {
			if len(state.Board.LegalDestinations(sq, color)) > 0 {
				origins = append(origins, sq)
			}
		}
	}
	if len(origins) == 0 {
		return Ply{}, ErrNoLegalMoves
	}

	origin := origins[o.rng.Intn(len(origins))]
	for {
		sel, err := state.Select(origin)
		if err != nil {
			return Ply{}, err
		}
		to := sel.Destinations[o.rng.Intn(len(sel.Destinations))]
		res, err := state.ApplyMove(origin, to)
		if err != nil {
			return Ply{}, err
		}
		if !res.ChainPending {
			break
		}
		origin = to
	}
	return state.LastPly.clone(), nil
}
