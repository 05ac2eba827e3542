package ws

import (
	"encoding/json"
	"errors"

	"github.com/benbeisheim/chess-backend/internal/model"
)

// ErrNoSquare is returned when a select payload names no square.
var ErrNoSquare = errors.New("square or row and col required")

// MessageType represents the different kinds of messages our system can handle
type MessageType string

// Inbound intents.
const (
	MessageTypeSelect         MessageType = "select"
	MessageTypeRestart        MessageType = "restart"
	MessageTypeClaimDraw      MessageType = "claimDraw"
	MessageTypeHistoryBack    MessageType = "historyBack"
	MessageTypeHistoryForward MessageType = "historyForward"
	MessageTypeHistoryLive    MessageType = "historyLive"
)

// Outbound notifications.
const (
	MessageTypeGameState    MessageType = "gameState"
	MessageTypeBoardChanged MessageType = "boardChanged"
	MessageTypeMoveExecuted MessageType = "moveExecuted"
	MessageTypeError        MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// SelectPayload names a square either in algebraic form or by row and column.
type SelectPayload struct {
	Square string `json:"square,omitempty"`
	Row    *int   `json:"row,omitempty"`
	Col    *int   `json:"col,omitempty"`
}

// Position resolves the payload to a board square. Row and column win over
// the algebraic name when both are given. The result may be off the board.
func (p SelectPayload) Position() (model.Position, error) {
	if p.Row != nil && p.Col != nil {
		return model.Position{Row: *p.Row, Col: *p.Col}, nil
	}
	if p.Square != "" {
		return model.ParsePosition(p.Square)
	}
	return model.Position{}, ErrNoSquare
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// NewMessage marshals payload into a Message of type t. A nil payload is left out.
func NewMessage(t MessageType, payload any) (Message, error) {
	if payload == nil {
		return Message{Type: t}, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: raw}, nil
}
