package main

import (
	"os"
	"time"

	"github.com/benbeisheim/checkers-backend/internal/config"
	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	app := &cli.App{
		Name:  "checkers",
		Usage: "Play checkers in the terminal against a random opponent",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "color", Aliases: []string{"c"}, Value: string(cfg.HumanColor), Usage: "your color: black moves first"},
			&cli.DurationFlag{Name: "delay", Value: cfg.OpponentDelay, Usage: "pause before the computer plays"},
			&cli.Int64Flag{Name: "seed", Value: cfg.Seed, Usage: "opponent random seed, 0 for time based"},
			&cli.BoolFlag{Name: "no-color", Usage: "disable colored output"},
			&cli.StringFlag{Name: "log-level", Value: "warn", Usage: "trace, debug, info, warn, error"},
		},
		Action: func(cCtx *cli.Context) error {
			cfg.HumanColor = model.PlayerColor(cCtx.String("color"))
			cfg.OpponentDelay = cCtx.Duration("delay")
			cfg.Seed = cCtx.Int64("seed")
			cfg.LogLevel = cCtx.String("log-level")
			if err := cfg.Validate(); err != nil {
				return err
			}
			cfg.ConfigureLogger(os.Stderr)
			if cCtx.Bool("no-color") {
				color.NoColor = true
			}

			seed := cfg.Seed
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			p := &player{
				state:    model.NewGameState(),
				opponent: model.NewRandomOpponent(seed),
				human:    cfg.HumanColor,
				delay:    cfg.OpponentDelay,
				in:       os.Stdin,
				out:      color.Output,
			}
			return p.run()
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("checkers")
	}
}
