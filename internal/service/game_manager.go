// service/game_manager.go
package service

import (
	"errors"
	"sync"

	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

type GameManager struct {
	games map[string]*model.Game
	opts  model.GameOptions
	mu    sync.RWMutex
}

// NewGameManager hosts games created with opts.
func NewGameManager(opts model.GameOptions) *GameManager {
	return &GameManager{
		games: make(map[string]*model.Game),
		opts:  opts,
	}
}

// CreateGame registers a new game. An empty id gets a generated one.
func (gm *GameManager) CreateGame(gameID string) (*model.Game, error) {
	if gameID == "" {
		gameID = uuid.New().String()
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return nil, ErrGameExists
	}

	game, err := model.NewGame(gameID, gm.opts)
	if err != nil {
		return nil, err
	}
	gm.games[gameID] = game
	log.Info().Str("game", gameID).Msg("game created")
	return game, nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}

	return game, nil
}

func (gm *GameManager) RemoveGame(gameID string) error {
	gm.mu.Lock()
	game, exists := gm.games[gameID]
	delete(gm.games, gameID)
	gm.mu.Unlock()

	if !exists {
		return ErrGameNotFound
	}
	game.Close()
	log.Info().Str("game", gameID).Msg("game removed")
	return nil
}

func (gm *GameManager) Count() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.games)
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.PlayerColor, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return game.AddPlayer(playerID)
}

func (gm *GameManager) GetGameState(gameID string) (model.GameSnapshot, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameSnapshot{}, err
	}
	return game.GetState(), nil
}

func (gm *GameManager) Select(gameID string, playerID string, sq model.Square) (model.SelectionResult, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.SelectionResult{}, err
	}
	return game.Select(playerID, sq)
}

func (gm *GameManager) MakeMove(gameID string, playerID string, move model.WSMove) (model.MoveResult, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.MoveResult{}, err
	}
	return game.MakeMove(playerID, move)
}

func (gm *GameManager) PlayOpponent(gameID string, playerID string) (model.Ply, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.Ply{}, err
	}
	return game.PlayOpponent(playerID)
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn *websocket.Conn) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}
