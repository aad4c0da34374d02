package main

import (
	"os"

	"github.com/benbeisheim/checkers-backend/internal/config"
	"github.com/benbeisheim/checkers-backend/internal/controller"
	"github.com/benbeisheim/checkers-backend/internal/middleware"
	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/benbeisheim/checkers-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	app := &cli.App{
		Name:  "checkers-server",
		Usage: "Serve checkers games against a random opponent over HTTP and websockets",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Aliases: []string{"a"}, Value: cfg.Addr, Usage: "listen address"},
			&cli.StringFlag{Name: "allow-origins", Value: cfg.AllowOrigins, Usage: "CORS origins, comma separated"},
			&cli.StringFlag{Name: "human-color", Value: string(cfg.HumanColor), Usage: "color of the human side: black or white"},
			&cli.DurationFlag{Name: "opponent-delay", Value: cfg.OpponentDelay, Usage: "pause before the computer plays"},
			&cli.BoolFlag{Name: "auto-opponent", Value: cfg.AutoOpponent, Usage: "let the computer reply on its own"},
			&cli.Int64Flag{Name: "seed", Value: cfg.Seed, Usage: "opponent random seed, 0 for time based"},
			&cli.StringFlag{Name: "log-level", Value: cfg.LogLevel, Usage: "trace, debug, info, warn, error"},
			&cli.BoolFlag{Name: "log-pretty", Value: cfg.LogPretty, Usage: "human readable log output"},
		},
		Action: func(cCtx *cli.Context) error {
			cfg.Addr = cCtx.String("addr")
			cfg.AllowOrigins = cCtx.String("allow-origins")
			cfg.HumanColor = model.PlayerColor(cCtx.String("human-color"))
			cfg.OpponentDelay = cCtx.Duration("opponent-delay")
			cfg.AutoOpponent = cCtx.Bool("auto-opponent")
			cfg.Seed = cCtx.Int64("seed")
			cfg.LogLevel = cCtx.String("log-level")
			cfg.LogPretty = cCtx.Bool("log-pretty")
			if err := cfg.Validate(); err != nil {
				return err
			}
			cfg.ConfigureLogger(os.Stderr)
			return serve(cfg)
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func serve(cfg config.Config) error {
	app := fiber.New(fiber.Config{
		AppName:               "checkers",
		DisableStartupMessage: true,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))
	app.Use(middleware.RequestLogger())

	// Initialize services
	gameManager := service.NewGameManager(cfg.GameOptions())
	gameService := service.NewGameService(gameManager)

	// Initialize controllers
	gameController := controller.NewGameController(gameService)
	wsController := controller.NewWebSocketController(gameService)

	// Set up WebSocket routes
	app.Use("/ws/*", middleware.EnsurePlayerID())
	app.Get("/ws/game/:gameId", middleware.WebSocketUpgrade(gameService.Exists), websocket.New(wsController.HandleConnection, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         cfg.Origins(),
	}))

	// Set up REST routes
	api := app.Group("/api", middleware.EnsurePlayerID())
	gameController.Register(api.Group("/game"))

	log.Info().
		Str("addr", cfg.Addr).
		Str("human", string(cfg.HumanColor)).
		Dur("opponentDelay", cfg.OpponentDelay).
		Bool("autoOpponent", cfg.AutoOpponent).
		Msg("listening")
	return app.Listen(cfg.Addr)
}
