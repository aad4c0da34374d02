package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	MessageTypeSelect     MessageType = "select"
	MessageTypeMove       MessageType = "move"
	MessageTypeOpponent   MessageType = "opponent"
	MessageTypeGameState  MessageType = "gameState"
	MessageTypeSelection  MessageType = "selection"
	MessageTypeMoveResult MessageType = "moveResult"
	MessageTypeError      MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// NewMessage encodes payload into a message of the given type.
func NewMessage(t MessageType, payload interface{}) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: data}, nil
}

type ErrorPayload struct {
	Error string `json:"error"`
}
