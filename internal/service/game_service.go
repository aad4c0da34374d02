package service

import (
	"fmt"

	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/benbeisheim/checkers-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

// CreateGame starts a new game and seats playerID as the human side.
func (gs *GameService) CreateGame(playerID string) (string, model.PlayerColor, error) {
	game, err := gs.gameManager.CreateGame("")
	if err != nil {
		return "", "", fmt.Errorf("failed to create game: %w", err)
	}

	color, err := game.AddPlayer(playerID)
	if err != nil {
		return "", "", fmt.Errorf("failed to join created game: %w", err)
	}
	return game.ID, color, nil
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.PlayerColor, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

// Exists reports whether gameID is hosted.
func (gs *GameService) Exists(gameID string) bool {
	_, err := gs.gameManager.GetGame(gameID)
	return err == nil
}

func (gs *GameService) GetGameState(gameID string) (model.GameSnapshot, error) {
	return gs.gameManager.GetGameState(gameID)
}

func (gs *GameService) LegalMoves(gameID string) ([]model.SimpleMove, error) {
	state, err := gs.gameManager.GetGameState(gameID)
	if err != nil {
		return nil, err
	}
	return state.LegalMoves, nil
}

func (gs *GameService) Select(gameID string, playerID string, sq model.Square) (model.SelectionResult, error) {
	res, err := gs.gameManager.Select(gameID, playerID, sq)
	if err != nil {
		return model.SelectionResult{}, fmt.Errorf("select %s: %w", sq, err)
	}
	return res, nil
}

func (gs *GameService) HandleMove(gameID string, playerID string, move model.WSMove) (model.MoveResult, error) {
	res, err := gs.gameManager.MakeMove(gameID, playerID, move)
	if err != nil {
		return model.MoveResult{}, fmt.Errorf("move %s-%s: %w", move.From, move.To, err)
	}
	return res, nil
}

func (gs *GameService) PlayOpponent(gameID string, playerID string) (model.Ply, error) {
	ply, err := gs.gameManager.PlayOpponent(gameID, playerID)
	if err != nil {
		return model.Ply{}, fmt.Errorf("opponent ply: %w", err)
	}
	return ply, nil
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn *websocket.Conn) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}

// Send delivers msg to playerID's websocket in gameID.
func (gs *GameService) Send(gameID string, playerID string, msg ws.Message) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Send(playerID, msg)
}
