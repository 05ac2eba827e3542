package controller

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/chess-backend/internal/middleware"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/benbeisheim/chess-backend/internal/ws"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection subscribes the connection to its game and applies the
// intents it sends until it closes.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	clientID, _ := c.Locals(middleware.ClientIDKey).(string)

	session, err := wsc.gameService.Session(gameID)
	if err != nil {
		log.Warnf("websocket for %s: %v", gameID, err)
		if msg, encErr := errorMessage(err); encErr == nil {
			_ = c.WriteJSON(msg)
		}
		_ = c.Close()
		return
	}
	if err := session.Subscribe(clientID, c); err != nil {
		log.Warnf("subscribe %s to %s: %v", clientID, gameID, err)
		_ = c.Close()
		return
	}
	defer session.Unsubscribe(clientID, c)
	log.Debugf("client %s joined game %s", clientID, gameID)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugf("client %s left game %s: %v", clientID, gameID, err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Debugf("parse error from %s: %v", clientID, err)
			wsc.sendError(session, c, fmt.Errorf("malformed message: %w", err))
			continue
		}
		if err := wsc.handleMessage(session, msg); err != nil {
			wsc.sendError(session, c, err)
		}
	}
}

// handleMessage applies one inbound intent. State changes reach every
// subscriber through the session; only the error goes back to the sender.
func (wsc *WebSocketController) handleMessage(session *service.Session, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeSelect:
		var payload ws.SelectPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("invalid select payload: %w", err)
		}
		pos, err := payload.Position()
		if err != nil {
			return err
		}
		_, _, err = session.Select(pos)
		return err
	case ws.MessageTypeRestart:
		session.Restart()
		return nil
	case ws.MessageTypeClaimDraw:
		_, err := session.ClaimFiftyMoveDraw()
		return err
	case ws.MessageTypeHistoryBack:
		_, err := session.HistoryBack()
		return err
	case ws.MessageTypeHistoryForward:
		_, err := session.HistoryForward()
		return err
	case ws.MessageTypeHistoryLive:
		_, err := session.ReturnToLive()
		return err
	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) sendError(session *service.Session, sub service.Subscriber, err error) {
	msg, encErr := errorMessage(err)
	if encErr != nil {
		log.Errorf("encode error message: %v", encErr)
		return
	}
	if err := session.Send(sub, msg); err != nil {
		log.Debugf("send error message: %v", err)
	}
}

func errorMessage(err error) (ws.Message, error) {
	return ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: err.Error()})
}
