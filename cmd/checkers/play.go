package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/benbeisheim/checkers-backend/internal/render"
	"github.com/rs/zerolog/log"
)

const help = `commands:
  x,y          select the piece on x,y
  x,y x,y      move from the first square to the second
  moves        list legal moves
  help         show this text
  quit         leave the game`

// player runs a terminal game: it reads the human's input, hands it to the
// turn controller, and plays the computer's plies in between.
type player struct {
	state    *model.GameState
	opponent *model.RandomOpponent
	human    model.PlayerColor
	delay    time.Duration
	in       io.Reader
	out      io.Writer
}

func (p *player) run() error {
	fmt.Fprintf(p.out, "You play %s against %s.\n%s\n\n", p.human, p.opponent.Name(), help)
	scanner := bufio.NewScanner(p.in)

	for {
		if p.state.Winner != nil {
			return p.draw()
		}
		if p.state.ActiveColor != p.human {
			if err := p.opponentTurn(); err != nil {
				return err
			}
			continue
		}

		if err := p.draw(); err != nil {
			return err
		}
		fmt.Fprint(p.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		quit, err := p.handle(scanner.Text())
		if err != nil {
			if model.IsInvariant(err) {
				return err
			}
			fmt.Fprintf(p.out, "rejected: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

func (p *player) draw() error {
	if err := render.Board(p.out, p.state.Board, p.state.Selected, p.state.LegalTargets); err != nil {
		return fmt.Errorf("draw board: %w", err)
	}
	return render.Status(p.out, p.state)
}

// handle applies one line of input. It reports whether the game should stop.
func (p *player) handle(line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	switch fields[0] {
	case "quit", "exit", "q":
		return true, nil
	case "help", "h", "?":
		fmt.Fprintln(p.out, help)
		return false, nil
	case "moves", "m":
		for _, mv := range p.state.Board.LegalMoves(p.state.ActiveColor) {
			if p.state.ForcedOrigin != nil && mv.From != *p.state.ForcedOrigin {
				continue
			}
			fmt.Fprintf(p.out, "  %s %s\n", mv.From, mv.To)
		}
		return false, nil
	}

	switch len(fields) {
	case 1:
		sq, err := model.ParseSquare(fields[0])
		if err != nil {
			return false, err
		}
		_, err = p.state.Select(sq)
		return false, err
	case 2:
		from, err := model.ParseSquare(fields[0])
		if err != nil {
			return false, err
		}
		to, err := model.ParseSquare(fields[1])
		if err != nil {
			return false, err
		}
		res, err := p.state.ApplyMove(from, to)
		if err != nil {
			return false, err
		}
		if res.Promoted {
			fmt.Fprintln(p.out, "promoted!")
		}
		if res.ChainPending {
			fmt.Fprintf(p.out, "keep capturing with %s\n", to)
		}
		return false, nil
	}
	return false, errors.New("unrecognized input, type help")
}

func (p *player) opponentTurn() error {
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	ply, err := p.opponent.PlayPly(p.state)
	if err != nil {
		return err
	}
	log.Debug().Int("steps", len(ply.Steps)).Msg("opponent ply")
	for _, step := range ply.Steps {
		fmt.Fprintf(p.out, "%s plays %s %s", p.opponent.Name(), step.From, step.To)
		if step.CapturedAt != nil {
			fmt.Fprintf(p.out, " capturing %s", *step.CapturedAt)
		}
		fmt.Fprintln(p.out)
	}
	return nil
}
