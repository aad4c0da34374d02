package controller

import (
	"encoding/json"
	"fmt"

	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/benbeisheim/checkers-backend/internal/service"
	"github.com/benbeisheim/checkers-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog/log"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID, _ := c.Locals("wsGameID").(string)
	if gameID == "" {
		gameID = c.Params("gameId")
	}
	playerID, _ := c.Locals("wsPlayerID").(string)
	logger := log.With().Str("game", gameID).Str("player", playerID).Logger()

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		logger.Warn().Err(err).Msg("failed to register connection")
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, c)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			logger.Debug().Err(err).Msg("read error")
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			logger.Debug().Err(err).Msg("parse error")
			wsc.sendError(gameID, playerID, fmt.Errorf("invalid message: %w", err))
			continue
		}

		reply, err := wsc.handleMessage(gameID, playerID, msg)
		if err != nil {
			logger.Debug().Err(err).Str("type", string(msg.Type)).Msg("handle error")
			wsc.sendError(gameID, playerID, err)
			continue
		}
		if reply != nil {
			if err := wsc.gameService.Send(gameID, playerID, *reply); err != nil {
				logger.Warn().Err(err).Msg("failed to send reply")
			}
		}
	}
}

// handleMessage applies one inbound message and returns the reply for the
// sender, if any. State changes reach every connection via the game's broadcast.
func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) (*ws.Message, error) {
	switch msg.Type {
	case ws.MessageTypeSelect:
		var sq model.Square
		if err := json.Unmarshal(msg.Payload, &sq); err != nil {
			return nil, err
		}
		res, err := wsc.gameService.Select(gameID, playerID, sq)
		if err != nil {
			return nil, err
		}
		return reply(ws.MessageTypeSelection, res)

	case ws.MessageTypeMove:
		var move model.WSMove
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return nil, err
		}
		res, err := wsc.gameService.HandleMove(gameID, playerID, move)
		if err != nil {
			return nil, err
		}
		return reply(ws.MessageTypeMoveResult, res)

	case ws.MessageTypeOpponent:
		if _, err := wsc.gameService.PlayOpponent(gameID, playerID); err != nil {
			return nil, err
		}
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func reply(t ws.MessageType, payload interface{}) (*ws.Message, error) {
	msg, err := ws.NewMessage(t, payload)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// Helper method to send error messages
func (wsc *WebSocketController) sendError(gameID, playerID string, cause error) {
	msg, err := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: cause.Error()})
	if err != nil {
		return
	}
	if err := wsc.gameService.Send(gameID, playerID, msg); err != nil {
		log.Debug().Err(err).Str("game", gameID).Msg("failed to send error")
	}
}
