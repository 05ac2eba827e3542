package service

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/benbeisheim/chess-backend/internal/engine"
	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/ws"
)

// Session owns one engine.Game. The engine is not safe for concurrent use,
// so every call into it goes through mu. sendMu keeps pushes in the order the
// calls were applied and stops two goroutines writing to one connection.
type Session struct {
	ID   string
	Name string

	sendMu     sync.Mutex
	mu         sync.Mutex
	game       *engine.Game
	pending    []ws.Message
	lastActive time.Time
	now        func() time.Time

	hub *Hub
}

func newSession(id, name string, now func() time.Time) *Session {
	s := &Session{
		ID:         id,
		Name:       name,
		hub:        NewHub(),
		now:        now,
		lastActive: now(),
	}
	s.game = engine.NewGame(
		engine.WithGameID(id),
		engine.WithBoardChanged(s.queueBoardChanged),
		engine.WithMoveExecuted(s.queueMoveExecuted),
	)
	return s
}

// queueBoardChanged and queueMoveExecuted run inside engine calls, with mu
// held. Messages are sent once the lock is released.
func (s *Session) queueBoardChanged() {
	s.queue(ws.MessageTypeBoardChanged, nil)
}

func (s *Session) queueMoveExecuted(m model.Move) {
	s.queue(ws.MessageTypeMoveExecuted, m)
}

func (s *Session) queue(t ws.MessageType, payload any) {
	msg, err := ws.NewMessage(t, payload)
	if err != nil {
		log.Errorf("session %s: encode %s: %v", s.ID, t, err)
		return
	}
	s.pending = append(s.pending, msg)
}

// apply runs fn against the game, then pushes the queued engine events and
// the resulting state to every subscriber.
func (s *Session) apply(fn func(g *engine.Game) error) (GameView, error) {
	s.mu.Lock()
	err := fn(s.game)
	s.lastActive = s.now()
	view := newGameView(s.ID, s.Name, s.game)
	pending := s.pending
	s.pending = nil
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	s.mu.Unlock()

	if state, encErr := ws.NewMessage(ws.MessageTypeGameState, view); encErr == nil {
		pending = append(pending, state)
	} else {
		log.Errorf("session %s: encode state: %v", s.ID, encErr)
	}
	s.hub.Broadcast(pending...)
	return view, err
}

// Select forwards a square click to the game.
func (s *Session) Select(pos model.Position) (engine.Outcome, GameView, error) {
	var outcome engine.Outcome
	view, err := s.apply(func(g *engine.Game) error {
		var err error
		outcome, err = g.Select(pos)
		return err
	})
	return outcome, view, err
}

func (s *Session) Restart() GameView {
	view, _ := s.apply(func(g *engine.Game) error {
		g.Restart()
		return nil
	})
	return view
}

func (s *Session) ClaimFiftyMoveDraw() (GameView, error) {
	return s.apply(func(g *engine.Game) error { return g.ClaimFiftyMoveDraw() })
}

func (s *Session) HistoryBack() (GameView, error) {
	return s.apply(func(g *engine.Game) error {
		_, err := g.HistoryBack()
		return err
	})
}

func (s *Session) HistoryForward() (GameView, error) {
	return s.apply(func(g *engine.Game) error {
		_, err := g.HistoryForward()
		return err
	})
}

func (s *Session) ReturnToLive() (GameView, error) {
	return s.apply(func(g *engine.Game) error {
		_, err := g.ReturnToLive()
		return err
	})
}

// View returns the current state without touching the idle clock.
func (s *Session) View() GameView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return newGameView(s.ID, s.Name, s.game)
}

// Moves returns the paired move list and the full move records.
func (s *Session) Moves() ([]model.MoveHistoryItem, []model.Move) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.MoveHistory(), s.game.Moves()
}

// Subscribe registers sub for pushes and sends it the current state.
func (s *Session) Subscribe(clientID string, sub Subscriber) error {
	s.mu.Lock()
	s.lastActive = s.now()
	view := newGameView(s.ID, s.Name, s.game)
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	s.mu.Unlock()

	msg, err := ws.NewMessage(ws.MessageTypeGameState, view)
	if err != nil {
		return err
	}
	if err := sub.WriteJSON(msg); err != nil {
		return err
	}
	s.hub.Register(clientID, sub)
	return nil
}

// Send writes msg to sub alone, ordered with the session's broadcasts.
func (s *Session) Send(sub Subscriber, msg ws.Message) error {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	return sub.WriteJSON(msg)
}

func (s *Session) Unsubscribe(clientID string, sub Subscriber) {
	s.hub.Unregister(clientID, sub)
}

func (s *Session) Subscribers() int { return s.hub.Len() }

// idleSince reports whether the session has seen no activity since cutoff
// and has nobody subscribed.
func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	last := s.lastActive
	s.mu.Unlock()
	return last.Before(cutoff) && s.hub.Len() == 0
}
