package model

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

func TestOpponentSingleLegalMove(t *testing.T) {
	for seed := int64(0); seed < 100; seed++ {
		g := NewGameStateFromBoard(boardWith(t, map[Square]Piece{
			{X: 0, Y: 7}: white,
			{X: 7, Y: 0}: black,
		}), PlayerColorWhite)

		ply, err := NewRandomOpponent(seed).PlayPly(g)
		require.NoError(t, err)
		require.Len(t, ply.Steps, 1, spew.Sdump(ply))
		require.Equal(t, Square{X: 0, Y: 7}, ply.Steps[0].From)
		require.Equal(t, Square{X: 1, Y: 6}, ply.Steps[0].To)
		require.Equal(t, PlayerColorBlack, g.ActiveColor)
	}
}

func TestOpponentChoicesAreUniform(t *testing.T) {
	// (0,7) has one move, (4,7) has two. Origins are drawn first, so each
	// origin gets half the plies and each of (4,7)'s moves a quarter.
	const plies = 6000
	opponent := NewRandomOpponent(2024)
	origins := map[Square]int{}
	dests := map[Square]int{}
	for i := 0; i < plies; i++ {
		g := NewGameStateFromBoard(boardWith(t, map[Square]Piece{
			{X: 0, Y: 7}: white,
			{X: 4, Y: 7}: white,
			{X: 7, Y: 0}: black,
		}), PlayerColorWhite)

		ply, err := opponent.PlayPly(g)
		require.NoError(t, err)
		require.Len(t, ply.Steps, 1)
		origins[ply.Steps[0].From]++
		dests[ply.Steps[0].To]++
	}

	share := func(n int) float64 { return float64(n) / plies }
	require.Len(t, origins, 2, spew.Sdump(origins))
	require.InDelta(t, 0.5, share(origins[Square{X: 0, Y: 7}]), 0.03)
	require.InDelta(t, 0.5, share(origins[Square{X: 4, Y: 7}]), 0.03)
	require.Equal(t, origins[Square{X: 0, Y: 7}], dests[Square{X: 1, Y: 6}])
	require.InDelta(t, 0.25, share(dests[Square{X: 3, Y: 6}]), 0.03)
	require.InDelta(t, 0.25, share(dests[Square{X: 5, Y: 6}]), 0.03)
}

func TestOpponentFinishesChain(t *testing.T) {
	g := NewGameStateFromBoard(boardWith(t, map[Square]Piece{
		{X: 5, Y: 4}: white,
		{X: 4, Y: 3}: black,
		{X: 2, Y: 1}: black,
		{X: 7, Y: 0}: black,
	}), PlayerColorWhite)

	ply, err := NewRandomOpponent(7).PlayPly(g)
	require.NoError(t, err)
	require.Equal(t, PlayerColorWhite, ply.Color)
	require.Len(t, ply.Steps, 2, spew.Sdump(ply))
	require.Equal(t, 2, ply.Captures())
	require.Equal(t, Square{X: 3, Y: 2}, ply.Steps[0].To)
	require.Equal(t, Square{X: 1, Y: 0}, ply.Steps[1].To)
	require.True(t, ply.Steps[1].Promoted)

	p, ok := g.Board.At(Square{X: 1, Y: 0})
	require.True(t, ok)
	require.Equal(t, whiteKing, p)
	require.Equal(t, 1, g.Board.Count(PlayerColorBlack))
	require.Equal(t, PlayerColorBlack, g.ActiveColor)
	require.Nil(t, g.ForcedOrigin)
}

func TestOpponentResumesPendingChain(t *testing.T) {
	g := doubleJump(t)
	_, err := g.ApplyMove(Square{X: 0, Y: 1}, Square{X: 2, Y: 3})
	require.NoError(t, err)

	ply, err := NewRandomOpponent(1).PlayPly(g)
	require.NoError(t, err)
	require.Len(t, ply.Steps, 2)
	require.Equal(t, Square{X: 4, Y: 5}, ply.Steps[1].To)
	require.Equal(t, PlayerColorWhite, g.ActiveColor)
}

func TestOpponentWithoutMoves(t *testing.T) {
	g := NewGameStateFromBoard(boardWith(t, map[Square]Piece{
		{X: 1, Y: 6}: black,
		{X: 0, Y: 7}: white,
		{X: 2, Y: 7}: white,
	}), PlayerColorBlack)

	_, err := NewRandomOpponent(1).PlayPly(g)
	require.ErrorIs(t, err, ErrGameOver)

	g.Winner = nil
	_, err = NewRandomOpponent(1).PlayPly(g)
	require.ErrorIs(t, err, ErrNoLegalMoves)
}

func TestOpponentName(t *testing.T) {
	require.NotEmpty(t, NewRandomOpponent(1).Name())
}

// TestRandomGames plays full games between two random opponents and checks
// the rules hold after every ply.
func TestRandomGames(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		g := NewGameState()
		players := map[PlayerColor]*RandomOpponent{
			PlayerColorBlack: NewRandomOpponent(seed),
			PlayerColorWhite: NewRandomOpponent(seed * 31),
		}

		for i := 0; i < 400 && g.Winner == nil; i++ {
			color := g.ActiveColor
			before := g.Board.Count(PlayerColorBlack) + g.Board.Count(PlayerColorWhite)
			mustCapture := g.Board.AnyCaptureAvailable(color)
			captures := g.Board.AllCaptures(color)

			ply, err := players[color].PlayPly(g)
			require.NoError(t, err, "seed %d ply %d", seed, i)
			require.NotEmpty(t, ply.Steps)

			after := g.Board.Count(PlayerColorBlack) + g.Board.Count(PlayerColorWhite)
			require.Equal(t, before-ply.Captures(), after, spew.Sdump(ply))

			if mustCapture {
				require.Equal(t, len(ply.Steps), ply.Captures(), "capture skipped: %s", spew.Sdump(ply))
				first := SimpleMove{From: ply.Steps[0].From, To: ply.Steps[0].To}
				require.Contains(t, captures, first)
			} else {
				require.Len(t, ply.Steps, 1)
				require.Zero(t, ply.Captures())
			}

			promoted := false
			for _, step := range ply.Steps {
				if step.Promoted {
					require.Equal(t, color.PromotionRow(), step.To.Y)
					promoted = true
				}
			}
			last := ply.Steps[len(ply.Steps)-1].To
			p, ok := g.Board.At(last)
			require.True(t, ok)
			require.Equal(t, color, p.Color)
			if promoted {
				require.True(t, p.Promoted)
			}

			if g.Winner == nil {
				require.Equal(t, color.Opponent(), g.ActiveColor)
			} else {
				require.True(t, g.IsGameOver(g.ActiveColor))
			}
		}
	}
}
