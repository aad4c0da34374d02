package controller

import (
	"errors"

	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/benbeisheim/checkers-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

// Register mounts the game routes on router.
func (gc *GameController) Register(router fiber.Router) {
	router.Post("/create", gc.CreateGame)
	router.Post("/join/:gameId", gc.JoinGame)
	router.Get("/:gameId", gc.GetGameState)
	router.Get("/:gameId/moves", gc.GetLegalMoves)
	router.Post("/:gameId/select", gc.Select)
	router.Post("/:gameId/move", gc.MakeMove)
	router.Post("/:gameId/opponent", gc.PlayOpponent)
}

// statusFor maps an error to the HTTP status it is reported with.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrNotAPlayer), errors.Is(err, model.ErrUnauthorized):
		return fiber.StatusForbidden
	case errors.Is(err, model.ErrGameFull):
		return fiber.StatusConflict
	case model.IsRuleViolation(err):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func writeError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func playerID(c *fiber.Ctx) string {
	id, _ := c.Locals("playerID").(string)
	return id
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	gameID, color, err := gc.gameService.CreateGame(playerID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
		"color":   color,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	color, err := gc.gameService.JoinGame(gameID, playerID(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) GetLegalMoves(c *fiber.Ctx) error {
	moves, err := gc.gameService.LegalMoves(c.Params("gameId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"moves": moves,
	})
}

func (gc *GameController) Select(c *fiber.Ctx) error {
	var sq model.Square
	if err := c.BodyParser(&sq); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid square: " + err.Error(),
		})
	}

	res, err := gc.gameService.Select(c.Params("gameId"), playerID(c), sq)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var move model.WSMove
	if err := c.BodyParser(&move); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid move: " + err.Error(),
		})
	}

	res, err := gc.gameService.HandleMove(c.Params("gameId"), playerID(c), move)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

func (gc *GameController) PlayOpponent(c *fiber.Ctx) error {
	ply, err := gc.gameService.PlayOpponent(c.Params("gameId"), playerID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(ply)
}
